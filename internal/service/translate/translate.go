package translate

import (
	"Copywriter/internal/ai"
	"Copywriter/internal/outcome"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	temperature = 0.3
	maxTokens   = 500

	promptFallbackSuffix = " beautiful photo high quality"
)

// FallbackKeywords are returned by Translate whenever the model cannot be used.
var FallbackKeywords = []string{"photography", "beautiful", "high quality"}

type TranslationResult struct {
	Translation string   `json:"translation"`
	Keywords    []string `json:"keywords"`
}

// Service turns Chinese text into English for image search and generation.
// Its methods never fail, a degraded outcome carries a fallback instead.
type Service struct {
	llm    ai.Completer
	logger *zap.SugaredLogger
}

func New(llm ai.Completer, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{llm: llm, logger: logger}
}

// PromptToEnglish converts a Chinese prompt into a concise English image prompt.
// On failure the value is the original text followed by " beautiful photo high quality".
func (s *Service) PromptToEnglish(ctx context.Context, text string) outcome.Result[string] {
	s.logger.Infow("Converting prompt", "prompt", preview(text))

	reply, err := s.llm.Complete(ctx, ai.CompletionRequest{
		Prompt:      conciseEnglishPrompt(text),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		s.logger.Errorw("Prompt conversion failed", "error", err)
		return outcome.Fallback(text+promptFallbackSuffix, err)
	}

	english := strings.TrimSpace(reply)
	s.logger.Infow("Prompt converted", "english", preview(english))
	return outcome.OK(english)
}

// Translate translates text and extracts three image search keywords.
func (s *Service) Translate(ctx context.Context, text string) outcome.Result[TranslationResult] {
	s.logger.Infow("Translating text and extracting keywords", "text", preview(text))

	res, err := s.translate(ctx, text)
	if err != nil {
		s.logger.Errorw("Translation failed", "error", err)
		fallback := TranslationResult{
			Translation: text,
			Keywords:    append([]string(nil), FallbackKeywords...),
		}
		s.logger.Warnw("Using fallback translation", "keywords", fallback.Keywords)
		return outcome.Fallback(fallback, err)
	}

	s.logger.Infow("Translation done", "keywords", strings.Join(res.Keywords, ", "))
	return outcome.OK(res)
}

func (s *Service) translate(ctx context.Context, text string) (TranslationResult, error) {
	reply, err := s.llm.Complete(ctx, ai.CompletionRequest{
		Prompt:      translationPrompt(text),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		JSON:        true,
	})
	if err != nil {
		return TranslationResult{}, err
	}
	return parseTranslation(reply)
}

// parseTranslation requires a non-empty translation and a keywords array.
// Array elements of any JSON type are accepted and rendered as strings.
func parseTranslation(reply string) (TranslationResult, error) {
	body := strings.TrimSpace(reply)
	if body == "" {
		body = "{}"
	}

	var raw struct {
		Translation string `json:"translation"`
		Keywords    []any  `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return TranslationResult{}, fmt.Errorf("parse translation json: %w", err)
	}
	if raw.Translation == "" || raw.Keywords == nil {
		return TranslationResult{}, errors.New("malformed model output: translation or keywords field missing")
	}

	keywords := make([]string, 0, len(raw.Keywords))
	for _, k := range raw.Keywords {
		switch v := k.(type) {
		case string:
			keywords = append(keywords, v)
		case nil:
			keywords = append(keywords, "null")
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return TranslationResult{}, fmt.Errorf("keyword %v: %w", v, err)
			}
			keywords = append(keywords, string(b))
		}
	}
	return TranslationResult{Translation: raw.Translation, Keywords: keywords}, nil
}

func preview(s string) string {
	rs := []rune(s)
	if len(rs) <= 50 {
		return s
	}
	return string(rs[:50]) + "..."
}
