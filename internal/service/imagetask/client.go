package imagetask

import (
	"Copywriter/internal/config"
	"Copywriter/internal/service/blob"
	"Copywriter/internal/service/image"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("imagetask: image service configuration missing, check IMAGE_SERVICE_URL")
	ErrEmptyImage    = errors.New("imagetask: image data is empty")
)

const maxResponseBytes = 32 << 20

// Client talks to the asynchronous image generation service.
// Create, Status and Result are single attempts; Wait is the only loop.
type Client struct {
	baseURL      string
	http         *http.Client
	blobs        *blob.Store
	normalizer   *image.Normalizer
	pollInterval time.Duration
	logger       *zap.SugaredLogger
}

func New(cfg *config.Config, blobs *blob.Store, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if blobs == nil {
		blobs = blob.NewStore()
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	interval := cfg.TaskPollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.ImageServiceURL), "/"),
		http:         &http.Client{Timeout: timeout},
		blobs:        blobs,
		normalizer:   image.NewNormalizer(),
		pollInterval: interval,
		logger:       logger,
	}
}

// Create submits a generation task and returns its id.
func (c *Client) Create(ctx context.Context, prompt string, seed int64) (string, error) {
	if c.baseURL == "" {
		c.logger.Errorw("Image service is not configured")
		return "", ErrNotConfigured
	}
	c.logger.Infow("Creating image task", "prompt", preview(prompt), "seed", seed)

	var out createResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate-async", createRequest{Prompt: prompt, Seed: seed}, &out); err != nil {
		c.logger.Errorw("Create image task failed", "error", err)
		return "", fmt.Errorf("create image task: %w", err)
	}
	if out.TaskID == "" {
		c.logger.Errorw("Create image task failed", "error", "empty task_id")
		return "", errors.New("create image task: empty task_id in response")
	}

	c.logger.Infow("Image task created", "taskID", out.TaskID)
	return out.TaskID, nil
}

// Status returns the current task record.
func (c *Client) Status(ctx context.Context, taskID string) (*TaskStatus, error) {
	if c.baseURL == "" {
		c.logger.Errorw("Image service is not configured")
		return nil, ErrNotConfigured
	}

	var st TaskStatus
	if err := c.do(ctx, http.MethodGet, "/api/task/"+url.PathEscape(taskID), nil, &st); err != nil {
		c.logger.Errorw("Get image task status failed", "taskID", taskID, "error", err)
		return nil, fmt.Errorf("get image task status: %w", err)
	}

	c.logger.Infow("Image task status", "taskID", taskID, "status", st.Status, "progress", st.Progress, "totalSteps", st.TotalSteps)
	return &st, nil
}

// Result fetches the finished image and returns an object URL from the blob store.
// The caller revokes it through the store once it is no longer displayed.
func (c *Client) Result(ctx context.Context, taskID string) (string, error) {
	if c.baseURL == "" {
		c.logger.Errorw("Image service is not configured")
		return "", ErrNotConfigured
	}
	c.logger.Infow("Fetching image task result", "taskID", taskID)

	data, err := c.fetchResult(ctx, taskID)
	if err != nil {
		c.logger.Errorw("Get image task result failed", "taskID", taskID, "error", err)
		return "", fmt.Errorf("get image task result: %w", err)
	}

	if jpg, nerr := c.normalizer.ToJPEG(data); nerr != nil {
		c.logger.Warnw("Result is not a decodable image, storing raw bytes", "taskID", taskID, "error", nerr)
	} else {
		data = jpg
	}

	objectURL := c.blobs.Put(data, "image/jpeg")
	c.logger.Infow("Image task result ready", "taskID", taskID, "bytes", len(data), "url", objectURL)
	return objectURL, nil
}

// Wait polls Status until the task reaches a terminal state or ctx is done.
func (c *Client) Wait(ctx context.Context, taskID string) (*TaskStatus, error) {
	t := time.NewTicker(c.pollInterval)
	defer t.Stop()

	for {
		st, err := c.Status(ctx, taskID)
		if err != nil {
			return nil, err
		}
		switch classify(st.Status) {
		case phaseSucceeded:
			return st, nil
		case phaseFailed:
			msg := "no error message"
			if st.Error != nil && *st.Error != "" {
				msg = *st.Error
			}
			return st, fmt.Errorf("image task %s %s: %s", taskID, st.Status, msg)
		}

		select {
		case <-ctx.Done():
			return st, context.Cause(ctx)
		case <-t.C:
		}
	}
}

// Blobs exposes the store that holds fetched results.
func (c *Client) Blobs() *blob.Store { return c.blobs }

func (c *Client) fetchResult(ctx context.Context, taskID string) ([]byte, error) {
	var out resultResponse
	if err := c.do(ctx, http.MethodGet, "/api/result/"+url.PathEscape(taskID), nil, &out); err != nil {
		return nil, err
	}
	b64 := strings.TrimSpace(out.ImageBase64)
	if b64 == "" {
		return nil, ErrEmptyImage
	}
	// some services send a data URL instead of bare base64
	if strings.HasPrefix(b64, "data:") {
		if _, after, ok := strings.Cut(b64, ","); ok {
			b64 = after
		}
	}
	data, err := decodeBase64(b64)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	return data, nil
}

// decodeBase64 accepts padded and unpadded standard base64, ignoring whitespace.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if raw, rerr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rerr == nil {
		return raw, nil
	}
	return nil, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.logger.Debugw("Image service request completed", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(started).String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return fmt.Errorf("image service error: status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode json response: %w", err)
	}
	return nil
}

func preview(s string) string {
	rs := []rune(s)
	if len(rs) <= 50 {
		return s
	}
	return string(rs[:50]) + "..."
}
