package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Orchestrator fans a fixed catalog of enhancement engines out against a
// shared story context and fans the settled results back into a single
// report. One engine's failure never aborts another's execution.
type Orchestrator struct {
	catalog       *Catalog
	executor      *Executor
	logger        *slog.Logger
	maxConcurrent int
	runID         string
}

type Option func(*Orchestrator)

// WithCatalog replaces the default engine catalog.
func WithCatalog(catalog *Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = catalog
	}
}

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMaxConcurrent bounds how many engines are in flight at once.
// Zero or negative means unbounded: the whole batch dispatches together.
func WithMaxConcurrent(n int) Option {
	return func(o *Orchestrator) {
		o.maxConcurrent = n
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(o *Orchestrator) {
		o.runID = id
	}
}

func New(gen Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog: NewCatalog(),
		logger:  slog.Default(),
		runID:   uuid.New().String(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("run_id", o.runID)
	o.executor = NewExecutor(gen, o.catalog, o.logger)
	return o
}

// RunID returns the identifier for this orchestrator's runs.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Run executes the mandatory engine set plus whatever conditional
// engines the story's genre and tone select, and aggregates every
// outcome into a Report. It returns normally even when the run fails
// wholesale: a batch-level error (context construction) is recorded as
// an aggregate error entry alongside whatever partial state exists,
// and individual engine failures surface only as data in the metadata.
func (o *Orchestrator) Run(ctx context.Context, episode Episode, bible StoryBible, mode Mode) *Report {
	start := time.Now()
	notes := NewNotes()
	meta := &Metadata{
		RunID:             o.runID,
		EnginePerformance: make(map[string]Result),
	}

	ec, err := BuildContext(episode, bible)
	if err != nil {
		o.logger.Error("context construction failed", "error", err)
		meta.Errors = append(meta.Errors, fmt.Sprintf("building context: %v", err))
		meta.TotalExecutionTime = time.Since(start)
		return &Report{Notes: notes, Metadata: meta}
	}

	mandatory := o.catalog.Mandatory()
	o.logger.Info("dispatching mandatory engines",
		"count", len(mandatory),
		"mode", mode,
		"max_concurrent", o.maxConcurrent)
	o.merge(notes, meta, o.dispatch(ctx, mandatory, ec, mode))

	conditional := SelectConditionalEngines(bible.Genre, bible.Tone)
	if len(conditional) > 0 {
		o.logger.Info("dispatching conditional engines",
			"count", len(conditional),
			"engines", conditional)
		o.merge(notes, meta, o.dispatch(ctx, conditional, ec, mode))
	}

	meta.TotalExecutionTime = time.Since(start)
	if meta.TotalEnginesRun > 0 {
		meta.SuccessRate = float64(meta.SuccessfulEngines) / float64(meta.TotalEnginesRun) * 100
	}

	o.logger.Info("orchestration complete",
		"total_engines", meta.TotalEnginesRun,
		"successful", meta.SuccessfulEngines,
		"failed", meta.FailedEngines,
		"success_rate", meta.SuccessRate,
		"duration_ms", meta.TotalExecutionTime.Milliseconds())

	return &Report{Notes: notes, Metadata: meta}
}

// dispatch runs a batch of engines concurrently and waits for every one
// to settle. Tasks never return errors to the group: failures are
// encoded in the Result, and a panicking engine is converted into a
// synthetic failure result instead of taking the batch down.
func (o *Orchestrator) dispatch(ctx context.Context, names []string, ec *Context, mode Mode) []Result {
	results := make([]Result, len(names))

	var g errgroup.Group
	if o.maxConcurrent > 0 {
		g.SetLimit(o.maxConcurrent)
	}

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("engine panicked", "engine", name, "panic", r)
					results[i] = Result{
						Engine:  name,
						Content: FallbackContent(name),
						Quality: fallbackQualityScore,
						Error:   fmt.Sprintf("panic: %v", r),
					}
				}
			}()
			results[i] = o.executor.Execute(ctx, name, ec, mode)
			return nil
		})
	}

	// Pure join: no task returns an error.
	_ = g.Wait()
	return results
}

// merge folds a batch of settled results into the notes and metadata.
// Runs sequentially after each batch, so the aggregates need no locking.
func (o *Orchestrator) merge(notes *Notes, meta *Metadata, results []Result) {
	for _, res := range results {
		meta.EnginePerformance[res.Engine] = res
		meta.TotalEnginesRun++
		if res.Success {
			meta.SuccessfulEngines++
		} else {
			meta.FailedEngines++
			if res.Error != "" {
				meta.Errors = append(meta.Errors, fmt.Sprintf("%s: %s", res.Engine, res.Error))
			}
		}

		field := notes.field(res.Engine)
		if field == nil {
			o.logger.Warn("engine has no note field", "engine", res.Engine)
			continue
		}
		if strings.TrimSpace(res.Content) != "" {
			*field = res.Content
		}
	}
}
