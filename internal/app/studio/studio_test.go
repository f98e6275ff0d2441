package studio

import (
	"Copywriter/internal/ai"
	"Copywriter/internal/config"
	"Copywriter/internal/service/content"
	"Copywriter/internal/service/image"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WiresComponents(t *testing.T) {
	cfg := config.Defaults()
	s := New(cfg, nil, nil)

	require.NotNil(t, s.LLM)
	assert.IsType(t, &ai.ChatClient{}, s.LLM)
	assert.NotNil(t, s.Images)
	assert.NotNil(t, s.Translator)
	assert.NotNil(t, s.Generator)
	assert.Same(t, s.Blobs, s.Tasks.Blobs())
}

func TestNew_StubFlowsThrough(t *testing.T) {
	stub := ai.NewStubClient("一***二")
	s := New(config.Defaults(), stub, nil)

	results, err := s.Generator.Generate(context.Background(), content.Request{Mode: content.ModeDetailed, ImageType: image.KindNone})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	res := s.Translator.PromptToEnglish(context.Background(), "山")
	assert.False(t, res.Degraded)
	assert.Equal(t, "一***二", res.Value)
	assert.Len(t, stub.Requests, 2)
}

func TestNew_MissingLLMConfigDegradesSoftPaths(t *testing.T) {
	s := New(config.Defaults(), nil, nil)

	res := s.Translator.Translate(context.Background(), "湖")
	assert.True(t, res.Degraded)
	assert.ErrorIs(t, res.Err, ai.ErrNotConfigured)

	_, err := s.Generator.Generate(context.Background(), content.Request{Mode: content.ModeConcise})
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
}
