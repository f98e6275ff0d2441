package imagetask

import (
	"Copywriter/internal/config"
	"Copywriter/internal/service/blob"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	stdimage "image"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *blob.Store) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.ImageServiceURL = srv.URL + "/"
	cfg.TaskPollInterval = 5 * time.Millisecond
	store := blob.NewStore()
	return New(cfg, store, nil), store
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreate_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate-async", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "a red fox in snow", in["prompt"])
		assert.EqualValues(t, 42, in["seed"])

		writeJSON(w, map[string]string{"task_id": "task-1"})
	})

	id, err := c.Create(context.Background(), "a red fox in snow", DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)
}

func TestCreate_Non2xx(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	})

	_, err := c.Create(context.Background(), "p", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
	assert.Contains(t, err.Error(), "queue full")
}

func TestCreate_EmptyTaskID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{})
	})

	_, err := c.Create(context.Background(), "p", 1)
	assert.EqualError(t, err, "create image task: empty task_id in response")
}

func TestNotConfigured(t *testing.T) {
	c := New(config.Defaults(), nil, nil)
	ctx := context.Background()

	_, err := c.Create(ctx, "p", DefaultSeed)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Status(ctx, "id")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Result(ctx, "id")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Wait(ctx, "id")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStatus_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/task/task-7", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"task-7","status":"running","progress":12,"total_steps":30,"prompt":"fox","seed":42,"created_at":"2024-05-01T10:00:00Z"}`))
	})

	st, err := c.Status(context.Background(), "task-7")
	require.NoError(t, err)
	assert.Equal(t, "task-7", st.ID)
	assert.Equal(t, "running", st.Status)
	assert.InDelta(t, 12, st.Progress, 1e-9)
	assert.Equal(t, 30, st.TotalSteps)
	assert.Equal(t, int64(42), st.Seed)
	assert.Nil(t, st.CompletedAt)
	assert.Nil(t, st.Error)
}

func TestStatus_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Status(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 4, 4)), nil))
	return buf.Bytes()
}

func TestResult_StoresBlob(t *testing.T) {
	img := jpegBytes(t)
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/result/task-9", r.URL.Path)
		writeJSON(w, map[string]string{"image_base64": base64.StdEncoding.EncodeToString(img)})
	})

	u, err := c.Result(context.Background(), "task-9")
	require.NoError(t, err)
	assert.Regexp(t, `^blob:[0-9a-f-]{36}$`, u)

	b, ok := store.Get(u)
	require.True(t, ok)
	assert.Equal(t, img, b.Data)
	assert.Equal(t, "image/jpeg", b.ContentType)
	assert.Same(t, store, c.Blobs())
}

func TestResult_WideJPEGStoredByteForByte(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 3000, 20)), &jpeg.Options{Quality: 75}))
	img := buf.Bytes()
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"image_base64": base64.StdEncoding.EncodeToString(img)})
	})

	u, err := c.Result(context.Background(), "wide")
	require.NoError(t, err)
	b, ok := store.Get(u)
	require.True(t, ok)
	assert.Equal(t, img, b.Data)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(b.Data))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestResult_UnpaddedBase64(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"image_base64": "YWI"})
	})

	u, err := c.Result(context.Background(), "t")
	require.NoError(t, err)
	b, _ := store.Get(u)
	assert.Equal(t, []byte("ab"), b.Data)
}

func TestDecodeBase64(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "padded", in: "YWI=", want: "ab"},
		{name: "unpadded", in: "YWI", want: "ab"},
		{name: "whitespace", in: "YW\n I=", want: "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBase64(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	_, err := decodeBase64("!!not base64!!")
	assert.Error(t, err)
}

func TestResult_PNGConvertedToJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 4, 4))))
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"image_base64": "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())})
	})

	u, err := c.Result(context.Background(), "t")
	require.NoError(t, err)
	b, _ := store.Get(u)
	_, format, err := stdimage.DecodeConfig(bytes.NewReader(b.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestResult_NonImageBytesKept(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"image_base64": base64.StdEncoding.EncodeToString([]byte("raw"))})
	})

	u, err := c.Result(context.Background(), "t")
	require.NoError(t, err)
	b, _ := store.Get(u)
	assert.Equal(t, []byte("raw"), b.Data)
}

func TestResult_MissingImage(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "completed"})
	})

	u, err := c.Result(context.Background(), "t")
	assert.ErrorIs(t, err, ErrEmptyImage)
	assert.Equal(t, "", u)
	assert.Equal(t, 0, store.Len())
}

func TestResult_InvalidBase64(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"image_base64": "!!not base64!!"})
	})

	u, err := c.Result(context.Background(), "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")
	assert.Equal(t, "", u)
	assert.Equal(t, 0, store.Len())
}

func TestWait_PollsUntilCompleted(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		status := "running"
		if n >= 3 {
			status = "completed"
		}
		writeJSON(w, map[string]any{"id": "t", "status": status, "progress": n * 10, "total_steps": 30})
	})

	st, err := c.Wait(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "completed", st.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWait_TaskFailed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": "t", "status": "FAILED", "error": "CUDA out of memory"})
	})

	st, err := c.Wait(context.Background(), "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CUDA out of memory")
	require.NotNil(t, st)
	assert.Equal(t, "FAILED", st.Status)
}

func TestWait_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": "t", "status": "pending"})
	})

	cause := errors.New("gave up")
	ctx, cancel := context.WithTimeoutCause(context.Background(), 30*time.Millisecond, cause)
	defer cancel()

	_, err := c.Wait(ctx, "t")
	require.Error(t, err)
	// either the select saw ctx.Done or the in-flight request was cancelled
	assert.True(t, errors.Is(err, cause) || errors.Is(err, context.DeadlineExceeded), err.Error())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, phaseSucceeded, classify("completed"))
	assert.Equal(t, phaseSucceeded, classify(" SUCCESS "))
	assert.Equal(t, phaseFailed, classify("failed"))
	assert.Equal(t, phaseFailed, classify("cancelled"))
	assert.Equal(t, phaseRunning, classify("pending"))
	assert.Equal(t, phaseRunning, classify(""))
}
