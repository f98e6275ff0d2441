package studio

import (
	"Copywriter/internal/ai"
	"Copywriter/internal/config"
	"Copywriter/internal/service/blob"
	"Copywriter/internal/service/content"
	"Copywriter/internal/service/image"
	"Copywriter/internal/service/imagetask"
	"Copywriter/internal/service/translate"

	"go.uber.org/zap"
)

// Studio holds every component built from one configuration.
type Studio struct {
	LLM        ai.Completer
	Images     *image.Resolver
	Translator *translate.Service
	Generator  *content.Generator
	Blobs      *blob.Store
	Tasks      *imagetask.Client
}

// New wires the components. A nil llm means the real chat client.
func New(cfg *config.Config, llm ai.Completer, logger *zap.SugaredLogger) *Studio {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if llm == nil {
		llm = ai.NewChatClient(cfg, logger.Named("ai"))
	}

	images := image.NewResolver(cfg.PlaceholderBaseURL, nil, logger.Named("image"))
	blobs := blob.NewStore()

	return &Studio{
		LLM:        llm,
		Images:     images,
		Translator: translate.New(llm, logger.Named("translate")),
		Generator:  content.NewGenerator(llm, images, logger.Named("content")),
		Blobs:      blobs,
		Tasks:      imagetask.New(cfg, blobs, logger.Named("imagetask")),
	}
}
