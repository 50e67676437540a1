package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/courseforge/internal/config"
	"github.com/abhisek/courseforge/internal/coursegen"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
		"COURSEFORGE_OPENAI_API_KEY", "COURSEFORGE_ANTHROPIC_API_KEY",
		"COURSEFORGE_GEMINI_API_KEY", "COURSEFORGE_OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestNewEnricher(t *testing.T) {
	clearLLMEnv(t)
	ctx := context.Background()

	t.Run("not requested", func(t *testing.T) {
		t.Setenv("COURSEFORGE_LLM_PROVIDER", "mock")
		e := newEnricher(ctx, config.GenerateConfig{Concurrency: 2}, nil)
		assert.False(t, e.Enabled())
	})

	t.Run("no credential", func(t *testing.T) {
		t.Setenv("COURSEFORGE_LLM_PROVIDER", "anthropic")
		e := newEnricher(ctx, config.GenerateConfig{Enrich: true, Concurrency: 2}, nil)
		assert.False(t, e.Enabled())
	})

	t.Run("mock provider", func(t *testing.T) {
		t.Setenv("COURSEFORGE_LLM_PROVIDER", "mock")
		e := newEnricher(ctx, config.GenerateConfig{Enrich: true, Concurrency: 2}, nil)
		assert.True(t, e.Enabled())
	})
}

func TestFinishGenerate(t *testing.T) {
	written := coursegen.Result{Courses: 12, Roadmaps: 12, Seed: 7, Paths: []string{"data/technical_courses.json"}}

	t.Run("interrupted after write", func(t *testing.T) {
		var out bytes.Buffer
		err := finishGenerate(&out, written, fmt.Errorf("enrich: %w", context.Canceled))
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Interrupted")
		assert.Contains(t, out.String(), "wrote data/technical_courses.json")
		assert.Contains(t, out.String(), "Generated 12 courses")
	})

	t.Run("interrupted before write", func(t *testing.T) {
		var out bytes.Buffer
		err := finishGenerate(&out, coursegen.Result{}, context.Canceled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, out.String())
	})

	t.Run("other error", func(t *testing.T) {
		var out bytes.Buffer
		boom := errors.New("disk full")
		err := finishGenerate(&out, written, boom)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, out.String())
	})

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, finishGenerate(&out, written, nil))
		assert.NotContains(t, out.String(), "Interrupted")
		assert.Contains(t, out.String(), "(seed 7)")
	})
}
