package content

import (
	"Copywriter/internal/ai"
	"Copywriter/internal/outcome"
	"Copywriter/internal/service/image"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Mode selects the copywriting template.
type Mode string

const (
	ModeOriginal Mode = "original" // input used as is, no model call
	ModePolish   Mode = "polish"
	ModeConcise  Mode = "concise"
	ModeDetailed Mode = "detailed" // three posts separated by Separator
)

// Separator splits the posts of a detailed reply.
const Separator = "***"

const (
	temperature = 0.7
	maxTokens   = 4096
)

// ParseMode maps user input to a Mode. Empty and unknown values mean ModeDetailed.
func ParseMode(s string) Mode {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOriginal, ModePolish, ModeConcise:
		return m
	default:
		return ModeDetailed
	}
}

type Request struct {
	Context     string
	Theme       string
	Description string
	ImageType   image.Kind
	Mode        Mode
}

type GenerateResult struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type ImageResolver interface {
	Resolve(kind image.Kind, text string) outcome.Result[string]
}

// Generator writes Xiaohongshu style posts and attaches an image to each of them.
type Generator struct {
	llm    ai.Completer
	images ImageResolver
	now    func() time.Time
	logger *zap.SugaredLogger
}

func NewGenerator(llm ai.Completer, images ImageResolver, logger *zap.SugaredLogger) *Generator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{llm: llm, images: images, now: time.Now, logger: logger}
}

// Generate returns one result per post. Unlike the translation helpers it does
// not substitute anything on failure: errors are logged and returned.
func (g *Generator) Generate(ctx context.Context, req Request) ([]GenerateResult, error) {
	req.Mode = ParseMode(string(req.Mode))
	req.ImageType = image.ParseKind(string(req.ImageType))
	g.logger.Infow("Generating content", "theme", req.Theme, "imageType", req.ImageType, "mode", req.Mode)

	if req.Mode == ModeOriginal {
		g.logger.Infow("Original mode, skipping model call")
		text := req.Theme + "\n\n" + req.Context + "\n\n" + req.Description
		res := GenerateResult{
			ID:       g.id("original"),
			Content:  text,
			ImageURL: g.images.Resolve(req.ImageType, text).Value,
		}
		g.logger.Infow("Original content ready", "id", res.ID)
		return []GenerateResult{res}, nil
	}

	reply, err := g.llm.Complete(ctx, ai.CompletionRequest{
		Prompt:      buildPrompt(req),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		g.logger.Errorw("Content generation failed", "error", err)
		return nil, fmt.Errorf("generate content: %w", err)
	}

	posts := splitPosts(req.Mode, reply)
	g.logger.Infow("Posts generated", "count", len(posts))

	results := make([]GenerateResult, 0, len(posts))
	for i, post := range posts {
		res := GenerateResult{
			ID:       g.id(strconv.Itoa(i)),
			Content:  post,
			ImageURL: g.images.Resolve(req.ImageType, post).Value,
		}
		results = append(results, res)
		g.logger.Infow("Post ready", "n", i+1, "id", res.ID)
	}

	g.logger.Infow("Content generation done", "results", len(results))
	return results, nil
}

// id is <epoch millis>-<suffix>. Two generations within the same millisecond collide.
func (g *Generator) id(suffix string) string {
	return strconv.FormatInt(g.now().UnixMilli(), 10) + "-" + suffix
}

func buildPrompt(req Request) string {
	switch req.Mode {
	case ModePolish:
		return polishPrompt(req)
	case ModeConcise:
		return concisePrompt(req)
	default:
		return detailedPrompt(req)
	}
}

// splitPosts splits detailed replies on Separator and drops blank parts.
// Other modes always yield the whole reply as one post.
func splitPosts(mode Mode, reply string) []string {
	if mode != ModeDetailed {
		return []string{strings.TrimSpace(reply)}
	}
	var posts []string
	for _, part := range strings.Split(reply, Separator) {
		if p := strings.TrimSpace(part); p != "" {
			posts = append(posts, p)
		}
	}
	return posts
}
