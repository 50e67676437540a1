// Package enrich rewrites course descriptions with an LLM. Enrichment is
// best effort: any failure leaves the course exactly as it was.
package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/llm"
	"github.com/abhisek/courseforge/internal/logger"
)

var errEmptyDescription = errors.New("empty description")

// Result is the outcome of one rewrite attempt. Exactly one of
// Description and Err is set.
type Result struct {
	Description string
	Err         error
}

func (r Result) OK() bool { return r.Err == nil }

// Enricher rewrites descriptions through provider. A nil provider yields
// a disabled Enricher that returns every course unchanged.
type Enricher struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
}

func New(provider llm.Provider, cfg Config, log *logger.Logger) *Enricher {
	if log == nil {
		log = logger.Nop()
	}
	return &Enricher{provider: provider, cfg: cfg, log: log.With("component", "enrich")}
}

func (e *Enricher) Enabled() bool {
	return e != nil && e.provider != nil
}

// Describe asks the model for a new description of c.
func (e *Enricher) Describe(ctx context.Context, c course.Course) Result {
	if !e.Enabled() {
		return Result{Err: errors.New("enrichment disabled")}
	}

	req := llm.UserRequest(descriptionSystemPrompt, buildDescriptionUserMessage(c), DescriptionSchema)
	req.MaxTokens = e.cfg.MaxTokens
	req.Temperature = e.cfg.Temperature

	resp, err := e.provider.Generate(llm.WithPurpose(ctx, llm.PurposeCourseDescription), req)
	if err != nil {
		return Result{Err: err}
	}
	var out descriptionOutput
	if err := resp.Decode(&out); err != nil {
		return Result{Err: err}
	}
	desc := strings.TrimSpace(out.Description)
	if desc == "" {
		return Result{Err: errEmptyDescription}
	}
	return Result{Description: desc}
}

// Enrich returns a copy of c whose description was rewritten, or c itself
// when enrichment is disabled or fails.
func (e *Enricher) Enrich(ctx context.Context, c course.Course) course.Course {
	if !e.Enabled() {
		return c
	}
	res := e.Describe(ctx, c)
	if !res.OK() {
		e.log.Warn("keeping original description", "course_id", c.ID, "error", res.Err)
		return c
	}
	c.Description = res.Description
	return c
}

// Summary counts the outcomes of EnrichAll.
type Summary struct {
	Enriched int
	Failed   int
	Skipped  int
}

// EnrichAll enriches courses with at most cfg.Concurrency requests in
// flight and returns a new slice in the input order. Once ctx is done the
// remaining courses are skipped and returned unenriched. onDone, if set,
// is called after each course with the number finished so far.
func (e *Enricher) EnrichAll(ctx context.Context, courses []course.Course, onDone func(done, total int)) ([]course.Course, Summary) {
	out := make([]course.Course, len(courses))
	copy(out, courses)
	if !e.Enabled() {
		return out, Summary{Skipped: len(courses)}
	}

	limit := e.cfg.Concurrency
	if limit < 1 {
		limit = 1
	}

	var (
		mu      sync.Mutex
		summary Summary
		done    int
	)
	finish := func(apply func()) {
		mu.Lock()
		defer mu.Unlock()
		apply()
		done++
		if onDone != nil {
			onDone(done, len(courses))
		}
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range out {
		if ctx.Err() != nil {
			finish(func() { summary.Skipped++ })
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				finish(func() { summary.Skipped++ })
				return nil
			}
			res := e.Describe(ctx, out[i])
			finish(func() {
				if res.OK() {
					out[i].Description = res.Description
					summary.Enriched++
					return
				}
				summary.Failed++
				e.log.Warn("keeping original description", "course_id", out[i].ID, "error", res.Err)
			})
			return nil
		})
	}
	_ = g.Wait()

	e.log.Info("enrichment finished", "enriched", summary.Enriched, "failed", summary.Failed, "skipped", summary.Skipped)
	return out, summary
}
