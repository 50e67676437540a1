package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"description":"A complete SQL course."}`),
		Usage:   newUsage(120, 40),
	})
	p := WithLogging(mock, "openai", repo, nil)

	ctx := WithPurpose(context.Background(), PurposeCourseDescription)
	if _, err := p.Generate(ctx, UserRequest("system prompt", "user prompt", testDescriptionSchema())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != "openai" || ev.Model != "mock" || ev.Purpose != "course-description" {
		t.Fatalf("unexpected identity fields: %+v", ev)
	}
	if !ev.Success || ev.InputTokens != 120 || ev.OutputTokens != 40 {
		t.Fatalf("unexpected outcome fields: %+v", ev)
	}
	for _, part := range []string{"[system]\nsystem prompt", "[user]\nuser prompt", "[schema: test-course-description]"} {
		if !strings.Contains(ev.RequestBody, part) {
			t.Errorf("request body missing %q:\n%s", part, ev.RequestBody)
		}
	}
	if ev.ResponseBody != `{"description":"A complete SQL course."}` {
		t.Errorf("response body = %s", ev.ResponseBody)
	}
}

func TestLogging_RecordsFailureAndWarns(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	p := WithLogging(mock, "anthropic", repo, logger.FromZap(zap.New(core)))

	_, err := p.Generate(context.Background(), UserRequest("", "x", nil))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("provider error must pass through, got %v", err)
	}

	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("unexpected events: %+v", repo.events)
	}
	if repo.events[0].Purpose != "unknown" {
		t.Fatalf("purpose = %q", repo.events[0].Purpose)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Error("expected a warning for the failed call")
	}
	if logs.FilterMessage("record llm event").Len() != 1 {
		t.Error("expected a warning for the failed event write")
	}
}

func TestLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"ok"`)})
	p := WithLogging(mock, "mock", nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model id = %q", p.ModelID())
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected retry decorator on the outside, got %T", p)
	}

	cfg.Provider = ProviderOpenAI
	if _, err := NewProvider(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected missing credential error")
	}
}
