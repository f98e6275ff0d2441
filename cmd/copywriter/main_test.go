package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncRecorder struct {
	bytes.Buffer
	synced bool
}

func (s *syncRecorder) Sync() error {
	s.synced = true
	return nil
}

func TestExit_SyncsLoggerBeforeExiting(t *testing.T) {
	sink := &syncRecorder{}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, zapcore.InfoLevel)
	logger := zap.New(core)
	logger.Error("Action failed")

	var code int
	var syncedAtExit bool
	exit(logger, 1, func(c int) {
		code = c
		syncedAtExit = sink.synced
	})

	assert.Equal(t, 1, code)
	assert.True(t, syncedAtExit)
	assert.Contains(t, sink.String(), "Action failed")
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"beach", "sunset"}, splitKeywords(" beach, ,sunset ,"))
	assert.Empty(t, splitKeywords(""))
}
