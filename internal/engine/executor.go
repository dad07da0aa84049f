package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrConfigNotFound means the requested engine has no catalog entry.
// Retrying cannot fix a missing configuration, so this fails the engine
// slot immediately at zero cost.
var ErrConfigNotFound = errors.New("engine configuration not found")

// ErrTimeout marks an attempt that exceeded the engine's per-attempt
// deadline. Timeouts follow the same retry policy as any other failure.
var ErrTimeout = errors.New("generation timed out")

// Executor runs a single engine: render prompt, call the generator under
// the configured deadline, retry on failure, score on success, and
// substitute static fallback content on exhaustion.
type Executor struct {
	gen     Generator
	catalog *Catalog
	logger  *slog.Logger
}

func NewExecutor(gen Generator, catalog *Catalog, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		gen:     gen,
		catalog: catalog,
		logger:  logger.With("component", "engine_executor"),
	}
}

// Execute runs one engine to completion. It always returns a usable
// Result: real content on success, fallback content on exhaustion, and
// never propagates an error to the caller.
func (e *Executor) Execute(ctx context.Context, engineName string, ec *Context, mode Mode) Result {
	cfg, ok := e.catalog.Lookup(engineName)
	if !ok {
		e.logger.Error("engine not in catalog", "engine", engineName)
		return Result{
			Engine:  engineName,
			Content: FallbackContent(engineName),
			Quality: fallbackQualityScore,
			Error:   ErrConfigNotFound.Error(),
		}
	}

	start := time.Now()
	opts := GenerateOptions{
		SystemPrompt: cfg.SystemPrompt,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		Mode:         mode,
	}

	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		// A cancelled run makes further attempts pointless.
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		attempts++
		prompt := Render(cfg, ec)

		attemptCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		output, err := e.gen.Generate(attemptCtx, prompt, opts)
		cancel()

		if err == nil {
			elapsed := time.Since(start)
			score := Score(output)
			e.logger.Debug("engine succeeded",
				"engine", engineName,
				"attempt", attempt,
				"duration_ms", elapsed.Milliseconds(),
				"quality_score", score,
				"output_length", len(output))
			return Result{
				Engine:   engineName,
				Success:  true,
				Content:  output,
				Duration: elapsed,
				Attempts: attempts,
				Quality:  score,
			}
		}

		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w after %s", ErrTimeout, cfg.Timeout)
		}
		lastErr = err

		e.logger.Warn("engine attempt failed",
			"engine", engineName,
			"attempt", attempt,
			"max_retries", cfg.MaxRetries,
			"error", err)
	}

	elapsed := time.Since(start)
	e.logger.Error("engine exhausted all attempts, using fallback content",
		"engine", engineName,
		"attempts", attempts,
		"duration_ms", elapsed.Milliseconds(),
		"last_error", lastErr)

	errMsg := ""
	if lastErr != nil {
		errMsg = lastErr.Error()
	}
	return Result{
		Engine:   engineName,
		Success:  false,
		Content:  FallbackContent(engineName),
		Duration: elapsed,
		Attempts: attempts,
		Quality:  fallbackQualityScore,
		Error:    errMsg,
	}
}
