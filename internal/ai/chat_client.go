package ai

import (
	"Copywriter/internal/config"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

// ChatClient sends single user messages to an OpenAI compatible /chat/completions endpoint.
type ChatClient struct {
	client     *openai.Client
	model      openai.ChatModel
	configured bool
	logger     *zap.SugaredLogger
}

func NewChatClient(cfg *config.Config, logger *zap.SugaredLogger) *ChatClient {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	// single attempt, retries are the caller's business
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")+"/"),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)
	return &ChatClient{
		client:     &client,
		model:      openai.ChatModel(cfg.LLMModel),
		configured: cfg.RequireLLM() == nil,
		logger:     logger,
	}
}

func (c *ChatClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(req.MaxTokens),
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	c.logger.Infow("Chat completion request", "model", c.model, "temperature", req.Temperature, "maxTokens", req.MaxTokens, "json", req.JSON)
	started := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	c.logger.Infow("Chat completion done", "took", time.Since(started).String())

	if len(resp.Choices) == 0 {
		return "", errors.New("ai: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
