package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/courseforge/internal/config"
	"github.com/abhisek/courseforge/internal/coursegen"
	"github.com/abhisek/courseforge/internal/enrich"
	"github.com/abhisek/courseforge/internal/export"
	"github.com/abhisek/courseforge/internal/llm"
	"github.com/abhisek/courseforge/internal/service"
	"github.com/abhisek/courseforge/internal/store"
	"github.com/abhisek/courseforge/internal/template"
	"github.com/abhisek/courseforge/internal/tui"
)

const progressLogInterval = 2 * time.Second

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a course catalog and its roadmaps",
	Long: `Synthesize courses from a template, build a roadmap for each one, optionally
rewrite descriptions with an LLM, and write the result to disk. With --db the
batch is also saved to the database.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String(config.KeyTemplate, "", "Course template YAML (default: built-in template)")
	f.StringP(config.KeyOutput, "o", export.DefaultDir, "Output directory")
	f.IntP(config.KeyCount, "n", coursegen.DefaultCount, "Number of courses to generate")
	f.String(config.KeyFilename, export.DefaultFilename, "Output file name")
	f.String(config.KeyFormat, "", "Output format: json, yaml or xlsx (default: from file extension)")
	f.Bool(config.KeyCompress, false, "Brotli-compress the output files")
	f.Bool(config.KeyEnrich, false, "Rewrite course descriptions with the configured LLM")
	f.Bool("use-llm", false, "Alias for --enrich")
	f.Int(config.KeyConcurrency, enrich.DefaultConfig().Concurrency, "Maximum concurrent LLM requests")
	f.Int(config.KeyWorkers, 0, "Synthesis workers (default: GOMAXPROCS)")
	f.Uint64(config.KeySeed, 0, "Random seed; 0 picks one and reports it")
	f.Bool(config.KeyRoadmaps, false, "Also write roadmaps next to the courses")
	f.Bool(config.KeyTUI, false, "Show an interactive progress view")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	gc := appCfg.Generate
	if useLLM, _ := cmd.Flags().GetBool("use-llm"); useLLM {
		gc.Enrich = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tmpl, err := template.LoadOrDefault(gc.Template)
	if err != nil {
		return err
	}

	var format export.Format
	if gc.Format != "" {
		if format, err = export.ParseFormat(gc.Format); err != nil {
			return err
		}
	}
	writer, err := export.NewWriter(export.Options{
		Dir:      gc.OutputDir,
		Filename: gc.Filename,
		Format:   format,
		Compress: gc.Compress,
		Roadmaps: gc.Roadmaps,
	}, appLog)
	if err != nil {
		return err
	}

	batch := &coursegen.Batch{
		Config: coursegen.BatchConfig{
			Count:   gc.Count,
			Workers: gc.Workers,
			Seed:    gc.Seed,
		},
		Synth: coursegen.NewSynthesizer(template.NewCatalog(tmpl)),
		Sink:  writer,
		Log:   appLog,
	}

	var eventRepo store.EventRepo
	if appCfg.DB != "" {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		eventRepo = s.EventRepo()
		batch.Persister = service.NewPersister(s.CourseRepo(), s.RoadmapRepo(), appLog)
	}

	batch.Enricher = newEnricher(ctx, gc, eventRepo)

	var res coursegen.Result
	if gc.TUI {
		res, err = tui.Run("courseforge generate", cancel, func(onProgress func(coursegen.Progress)) (coursegen.Result, error) {
			batch.OnProgress = onProgress
			return batch.Run(ctx)
		})
	} else {
		batch.OnProgress = progressLogger()
		res, err = batch.Run(ctx)
	}
	return finishGenerate(cmd.OutOrStdout(), res, err)
}

// finishGenerate reports the batch result. An interrupted run that still
// wrote its artifact is not an error.
func finishGenerate(w io.Writer, res coursegen.Result, err error) error {
	if errors.Is(err, context.Canceled) && len(res.Paths) > 0 {
		appLog.Warn("generation interrupted, wrote partial batch", "courses", res.Courses)
		fmt.Fprintln(w, "Interrupted: wrote the courses generated so far.")
		err = nil
	}
	if err != nil {
		return err
	}
	printResult(w, res)
	return nil
}

// newEnricher returns a disabled enricher unless enrichment was requested
// and a provider credential is available.
func newEnricher(ctx context.Context, gc config.GenerateConfig, eventRepo store.EventRepo) *enrich.Enricher {
	ecfg := enrich.DefaultConfig()
	ecfg.Concurrency = gc.Concurrency
	if !gc.Enrich {
		return enrich.New(nil, ecfg, appLog)
	}

	lcfg, ok := llm.ResolveConfig(os.Getenv)
	if !ok {
		appLog.Warn("no LLM credential configured, enrichment disabled")
		return enrich.New(nil, ecfg, appLog)
	}
	lcfg.Retry.MaxAttempts = 1

	provider, err := llm.NewProvider(ctx, lcfg, eventRepo, appLog)
	if err != nil {
		appLog.Warn("LLM provider unavailable, enrichment disabled", "provider", lcfg.Provider, "error", err)
		return enrich.New(nil, ecfg, appLog)
	}
	appLog.Info("enrichment enabled", "provider", lcfg.Provider, "model", provider.ModelID())
	return enrich.New(provider, ecfg, appLog)
}

// progressLogger logs each stage once per interval and always on
// completion.
func progressLogger() func(coursegen.Progress) {
	last := map[string]time.Time{}
	return func(p coursegen.Progress) {
		now := time.Now()
		if p.Done < p.Total && now.Sub(last[p.Stage]) < progressLogInterval {
			return
		}
		last[p.Stage] = now
		appLog.Info("progress", "stage", p.Stage, "done", p.Done, "total", p.Total)
	}
}

func printResult(w io.Writer, res coursegen.Result) {
	fmt.Fprintf(w, "Generated %d courses and %d roadmaps in %s (seed %d)\n",
		res.Courses, res.Roadmaps, res.Elapsed.Round(time.Millisecond), res.Seed)
	if res.Enrich.Enriched+res.Enrich.Failed > 0 {
		fmt.Fprintf(w, "Enrichment: %d enriched, %d failed, %d skipped\n",
			res.Enrich.Enriched, res.Enrich.Failed, res.Enrich.Skipped)
	}
	for _, p := range res.Paths {
		fmt.Fprintln(w, "  wrote", p)
	}
}
