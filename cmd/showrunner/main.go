package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/vampirenirmal/showrunner/internal/agent"
	"github.com/vampirenirmal/showrunner/internal/config"
	"github.com/vampirenirmal/showrunner/internal/engine"
	"github.com/vampirenirmal/showrunner/internal/metering"
	"github.com/vampirenirmal/showrunner/internal/storage"
)

func main() {
	episodePath := flag.String("episode", "", "path to episode JSON")
	biblePath := flag.String("bible", "", "path to story-bible JSON")
	mode := flag.String("mode", string(engine.ModeStable), "generation tier: beast or stable")
	outDir := flag.String("out", "", "output directory (overrides config)")
	dryRun := flag.Bool("dry-run", false, "use canned responses instead of the hosted API")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *episodePath, *biblePath, *mode, *outDir, *dryRun); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, episodePath, biblePath, mode, outDir string, dryRun bool) error {
	if episodePath == "" || biblePath == "" {
		return fmt.Errorf("both -episode and -bible are required")
	}
	if mode != string(engine.ModeBeast) && mode != string(engine.ModeStable) {
		return fmt.Errorf("mode must be %q or %q", engine.ModeBeast, engine.ModeStable)
	}

	var cfg *config.Config
	if dryRun {
		cfg = config.Default()
	} else {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}

	episode, err := readJSON[engine.Episode](episodePath)
	if err != nil {
		return fmt.Errorf("reading episode: %w", err)
	}
	bible, err := readJSON[engine.StoryBible](biblePath)
	if err != nil {
		return fmt.Errorf("reading story bible: %w", err)
	}

	meter := metering.NewMeter(cfg.Limits.CostAlertUSD, logger)

	var gen engine.Generator
	if dryRun {
		gen = agent.NewMockClient()
	} else {
		gen = agent.NewClient(cfg.AI.APIKey,
			agent.WithBaseURL(cfg.AI.BaseURL),
			agent.WithModels(cfg.AI.BeastModel, cfg.AI.StableModel),
			agent.WithRateLimit(cfg.Limits.RateLimit.RequestsPerMinute, cfg.Limits.RateLimit.BurstSize),
			agent.WithMeter(meter),
			agent.WithLogger(logger),
		)
	}

	catalog := engine.NewCatalog(
		engine.WithDefaultTimeout(cfg.Limits.EngineTimeout()),
		engine.WithDefaultRetries(cfg.Limits.MaxRetries),
	)
	orch := engine.New(gen,
		engine.WithCatalog(catalog),
		engine.WithLogger(logger),
		engine.WithMaxConcurrent(cfg.Limits.MaxConcurrentEngines),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := orch.Run(ctx, episode, bible, engine.Mode(mode))

	if err := saveReport(ctx, cfg.Output.Dir, orch.RunID(), report); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	printSummary(report, meter.Snapshot(), cfg.Output.Dir, orch.RunID())
	return nil
}

func readJSON[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parsing %s: %w", path, err)
	}
	return out, nil
}

func saveReport(ctx context.Context, dir, runID string, report *engine.Report) error {
	store := storage.NewFileSystem(dir)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return store.Save(ctx, filepath.Join(runID, "report.json"), data)
}

func printSummary(report *engine.Report, usage metering.Snapshot, dir, runID string) {
	meta := report.Metadata
	fmt.Printf("Run %s complete\n", runID)
	fmt.Printf("  engines: %d total, %d succeeded, %d failed (%.1f%% success)\n",
		meta.TotalEnginesRun, meta.SuccessfulEngines, meta.FailedEngines, meta.SuccessRate)
	fmt.Printf("  wall clock: %s\n", meta.TotalExecutionTime.Round(0))
	if len(meta.Errors) > 0 {
		fmt.Printf("  errors:\n")
		for _, e := range meta.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
	fmt.Printf("  usage: %d requests, %d failures, est. $%.4f\n",
		usage.Requests, usage.Failures, usage.EstimatedUSD)
	fmt.Printf("  report: %s\n", filepath.Join(dir, runID, "report.json"))
}
