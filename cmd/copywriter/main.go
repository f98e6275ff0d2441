package main

import (
	"Copywriter/internal/ai"
	"Copywriter/internal/app/studio"
	"Copywriter/internal/config"
	"Copywriter/internal/service/content"
	"Copywriter/internal/service/image"
	"Copywriter/internal/service/imagetask"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// Command line front end: each -action calls one operation and prints JSON to stdout.
func main() {
	var (
		action      string
		theme       string
		ctxText     string
		description string
		mode        string
		images      string
		text        string
		keywords    string
		seed        int64
		out         string
		stub        string
	)
	flag.StringVar(&action, "action", "generate", "generate|prompt|translate|search|task")
	flag.StringVar(&theme, "theme", "", "post theme (generate)")
	flag.StringVar(&ctxText, "context", "", "background context (generate)")
	flag.StringVar(&description, "description", "", "extra description (generate)")
	flag.StringVar(&mode, "mode", string(content.ModeDetailed), "original|polish|concise|detailed")
	flag.StringVar(&images, "images", string(image.KindRandom), "random|web|none")
	flag.StringVar(&text, "text", "", "input text (prompt, translate, task)")
	flag.StringVar(&keywords, "keywords", "", "comma separated keywords (search)")
	flag.Int64Var(&seed, "seed", imagetask.DefaultSeed, "generation seed (task)")
	flag.StringVar(&out, "out", "result.jpg", "output file for the generated image (task)")
	flag.StringVar(&stub, "stub", "", "answer every model call with this text instead of calling the API")

	cfg := config.NewConfig()

	var logger *zap.Logger
	var err error
	if cfg.DebugMode {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var llm ai.Completer
	if stub != "" {
		llm = ai.NewStubClient(stub)
	}
	s := studio.New(cfg, llm, sugar)

	sugar.Infow("Starting copywriter", "action", action, "model", cfg.LLMModel, "DebugMode", cfg.DebugMode)

	var result any
	switch action {
	case "generate":
		result, err = s.Generator.Generate(ctx, content.Request{
			Context:     ctxText,
			Theme:       theme,
			Description: description,
			ImageType:   image.ParseKind(images),
			Mode:        content.ParseMode(mode),
		})
	case "prompt":
		res := s.Translator.PromptToEnglish(ctx, text)
		result = map[string]any{"prompt": res.Value, "degraded": res.Degraded}
	case "translate":
		res := s.Translator.Translate(ctx, text)
		result = map[string]any{"translation": res.Value.Translation, "keywords": res.Value.Keywords, "degraded": res.Degraded}
	case "search":
		res := s.Images.SearchWeb(splitKeywords(keywords))
		result = map[string]any{"urls": res.Value, "degraded": res.Degraded}
	case "task":
		result, err = runTask(ctx, s, text, seed, out)
	default:
		err = fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		sugar.Errorw("Action failed", "action", action, "error", err)
		stop()
		exit(logger, 1, os.Exit)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		sugar.Errorw("Failed to write result", "error", err)
		stop()
		exit(logger, 1, os.Exit)
	}
}

// runTask submits text as an image prompt, waits for the task and writes the image to out.
func runTask(ctx context.Context, s *studio.Studio, text string, seed int64, out string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("-text is required for -action task")
	}
	prompt := s.Translator.PromptToEnglish(ctx, text).Value

	taskID, err := s.Tasks.Create(ctx, prompt, seed)
	if err != nil {
		return nil, err
	}
	st, err := s.Tasks.Wait(ctx, taskID)
	if err != nil {
		return nil, err
	}
	objectURL, err := s.Tasks.Result(ctx, taskID)
	if err != nil {
		return nil, err
	}
	defer s.Blobs.Revoke(objectURL)

	b, ok := s.Blobs.Get(objectURL)
	if !ok {
		return nil, fmt.Errorf("blob %s vanished", objectURL)
	}
	if err := os.WriteFile(out, b.Data, 0o644); err != nil {
		return nil, err
	}
	return map[string]any{"taskId": taskID, "prompt": prompt, "status": st.Status, "file": out, "bytes": len(b.Data)}, nil
}

// exit flushes buffered log entries before terminating, os.Exit skips deferred calls.
func exit(logger *zap.Logger, code int, osExit func(int)) {
	_ = logger.Sync()
	osExit(code)
}

func splitKeywords(s string) []string {
	parts := strings.Split(s, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
