package coursegen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/enrich"
	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/roadmap"
)

// Batch stages reported through Progress.
const (
	StageSynthesize = "synthesize"
	StageRoadmaps   = "roadmaps"
	StageEnrich     = "enrich"
	StageWrite      = "write"
	StagePersist    = "persist"
	StageDone       = "done"
)

const (
	DefaultCount = 500

	synthLogEvery  = 50
	enrichLogEvery = 10
)

// Output is everything one batch produces.
type Output struct {
	Courses  []course.Course
	Roadmaps []roadmap.Roadmap
}

// Sink writes the batch artifact. It is called exactly once per run.
type Sink interface {
	Write(ctx context.Context, out Output) ([]string, error)
}

// Persister saves the batch to the store after the artifact is written.
type Persister interface {
	Persist(ctx context.Context, out Output) error
}

type Progress struct {
	Stage string
	Done  int
	Total int
}

type BatchConfig struct {
	Count int

	// Workers bounds parallel synthesis; 0 means GOMAXPROCS.
	Workers int

	// Seed makes a run reproducible. 0 picks a random seed, which is
	// reported in Result so the run can be repeated.
	Seed uint64
}

// Batch synthesizes Count courses and their roadmaps, optionally enriches
// them, writes the artifact once and optionally persists it.
type Batch struct {
	Config    BatchConfig
	Synth     *Synthesizer
	Enricher  *enrich.Enricher
	Sink      Sink
	Persister Persister
	Log       *logger.Logger

	// OnProgress is called serially from the batch goroutines.
	OnProgress func(Progress)
}

type Result struct {
	RunID    string
	Seed     uint64
	Courses  int
	Roadmaps int
	Enrich   enrich.Summary
	Paths    []string
	Elapsed  time.Duration
}

// Run executes the batch. Cancelling ctx stops enrichment early; the
// courses synthesized so far are still written.
func (b *Batch) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	log := b.Log
	if log == nil {
		log = logger.Nop()
	}

	res := Result{RunID: uuid.NewString(), Seed: b.Config.Seed}
	if res.Seed == 0 {
		res.Seed = rand.Uint64()
	}
	log = log.With("run_id", res.RunID)

	var progressMu sync.Mutex
	report := func(stage string, done, total int) {
		if b.OnProgress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		b.OnProgress(Progress{Stage: stage, Done: done, Total: total})
	}

	count := b.Config.Count
	if count <= 0 {
		count = DefaultCount
	}
	log.Info("generating courses", "count", count, "seed", res.Seed)

	courses, err := b.synthesize(ctx, count, res.Seed, log, report)
	if err != nil {
		return res, err
	}

	roadmaps := make([]roadmap.Roadmap, len(courses))
	for i, c := range courses {
		roadmaps[i] = roadmap.FromCourse(c)
	}
	report(StageRoadmaps, len(roadmaps), len(courses))

	if b.Enricher.Enabled() && ctx.Err() == nil {
		log.Info("enriching course descriptions", "courses", len(courses))
		courses, res.Enrich = b.Enricher.EnrichAll(ctx, courses, func(done, total int) {
			if done%enrichLogEvery == 0 || done == total {
				log.Info("enrichment progress", "done", done, "total", total)
			}
			report(StageEnrich, done, total)
		})
	}

	out := Output{Courses: courses, Roadmaps: roadmaps}
	res.Courses = len(courses)
	res.Roadmaps = len(roadmaps)

	// The artifact is written even when the run was interrupted.
	writeCtx := context.WithoutCancel(ctx)
	if b.Sink != nil {
		report(StageWrite, 0, 1)
		paths, err := b.Sink.Write(writeCtx, out)
		if err != nil {
			return res, fmt.Errorf("write artifact: %w", err)
		}
		res.Paths = paths
		report(StageWrite, 1, 1)
		log.Info("artifact written", "paths", paths)
	}

	if b.Persister != nil && ctx.Err() == nil {
		report(StagePersist, 0, 1)
		if err := b.Persister.Persist(writeCtx, out); err != nil {
			return res, fmt.Errorf("persist batch: %w", err)
		}
		report(StagePersist, 1, 1)
	}

	res.Elapsed = time.Since(start)
	report(StageDone, res.Courses, count)
	log.Info("batch complete", "courses", res.Courses, "enriched", res.Enrich.Enriched, "elapsed", res.Elapsed.String())
	return res, ctx.Err()
}

// synthesize builds courses 1..count in parallel. Each index draws from
// its own PCG stream so output does not depend on scheduling. On
// cancellation the contiguous prefix finished so far is returned.
func (b *Batch) synthesize(ctx context.Context, count int, seed uint64, log *logger.Logger, report func(string, int, int)) ([]course.Course, error) {
	if b.Synth == nil {
		return nil, fmt.Errorf("batch has no synthesizer")
	}

	workers := b.Config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	courses := make([]course.Course, count)
	built := make([]bool, count)
	var (
		mu   sync.Mutex
		done int
	)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range count {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rng := rand.New(rand.NewPCG(seed, uint64(i+1)))
			c := b.Synth.Synthesize(i+1, rng)

			mu.Lock()
			courses[i] = c
			built[i] = true
			done++
			if done%synthLogEvery == 0 || done == count {
				log.Info("generated courses", "done", done, "total", count)
			}
			report(StageSynthesize, done, count)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i, ok := range built {
		if !ok {
			log.Warn("generation interrupted", "generated", i, "requested", count)
			return courses[:i], nil
		}
	}
	return courses, nil
}
