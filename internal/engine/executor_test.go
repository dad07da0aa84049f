package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	ec, err := BuildContext(
		Episode{
			Title:    "The Long Night",
			Synopsis: "The crew is trapped after curfew.",
			Scenes:   []Scene{{Title: "Lockdown", Summary: "Doors seal."}},
		},
		StoryBible{
			SeriesTitle:    "Night Shift",
			Genre:          GenreList{"drama"},
			MainCharacters: []Character{{Name: "Mara"}},
		},
	)
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	return ec
}

func testCatalog(cfg EngineConfig) *Catalog {
	if cfg.Name == "" {
		cfg.Name = "TestEngine"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	return newCatalog([]EngineConfig{cfg})
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(noopWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestExecutorSuccess(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
		return "- SCENE: Lockdown | NOTE: open on the sealed door\n- keep Mara's hidden want off the dialogue", nil
	})
	exec := NewExecutor(gen, testCatalog(EngineConfig{MaxRetries: 3}), quietLogger())

	res := exec.Execute(context.Background(), "TestEngine", testContext(t), ModeStable)

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
	if res.Quality <= qualityBase {
		t.Errorf("Quality = %d, want above base %d for structured output", res.Quality, qualityBase)
	}
	if res.Error != "" {
		t.Errorf("unexpected error message %q", res.Error)
	}
}

func TestExecutorRetryBound(t *testing.T) {
	const maxRetries = 3
	var calls atomic.Int64
	gen := GeneratorFunc(func(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
		calls.Add(1)
		return "", errors.New("provider unavailable")
	})
	exec := NewExecutor(gen, testCatalog(EngineConfig{MaxRetries: maxRetries}), quietLogger())

	res := exec.Execute(context.Background(), "TestEngine", testContext(t), ModeStable)

	if res.Success {
		t.Fatal("expected failure after exhausted retries")
	}
	if got := calls.Load(); got != maxRetries+1 {
		t.Errorf("generator called %d times, want %d", got, maxRetries+1)
	}
	if res.Attempts != maxRetries+1 {
		t.Errorf("Attempts = %d, want %d", res.Attempts, maxRetries+1)
	}
	if res.Content != FallbackContent("TestEngine") {
		t.Errorf("expected fallback content, got %q", res.Content)
	}
	if res.Quality != fallbackQualityScore {
		t.Errorf("Quality = %d, want %d", res.Quality, fallbackQualityScore)
	}
	if !strings.Contains(res.Error, "provider unavailable") {
		t.Errorf("Error = %q, want last attempt's error", res.Error)
	}
}

func TestExecutorTimeout(t *testing.T) {
	const timeout = 50 * time.Millisecond
	gen := GeneratorFunc(func(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
		// Never resolves on its own; only the deadline ends it.
		<-ctx.Done()
		return "", ctx.Err()
	})
	exec := NewExecutor(gen, testCatalog(EngineConfig{Timeout: timeout, MaxRetries: 0}), quietLogger())

	start := time.Now()
	res := exec.Execute(context.Background(), "TestEngine", testContext(t), ModeStable)
	elapsed := time.Since(start)

	if res.Success {
		t.Fatal("expected timeout failure")
	}
	if !strings.Contains(res.Error, "timed out") {
		t.Errorf("Error = %q, want timeout classification", res.Error)
	}
	if elapsed < timeout {
		t.Errorf("returned after %s, before the %s deadline", elapsed, timeout)
	}
	if elapsed > timeout+500*time.Millisecond {
		t.Errorf("returned after %s, far past the %s deadline", elapsed, timeout)
	}
	if res.Content != FallbackContent("TestEngine") {
		t.Error("expected fallback content after timeout")
	}
}

func TestExecutorTimeoutRetries(t *testing.T) {
	var calls atomic.Int64
	gen := GeneratorFunc(func(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
		calls.Add(1)
		<-ctx.Done()
		return "", ctx.Err()
	})
	exec := NewExecutor(gen, testCatalog(EngineConfig{Timeout: 10 * time.Millisecond, MaxRetries: 2}), quietLogger())

	res := exec.Execute(context.Background(), "TestEngine", testContext(t), ModeStable)

	if got := calls.Load(); got != 3 {
		t.Errorf("timeouts follow the retry policy: called %d times, want 3", got)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}
}

func TestExecutorMissingConfig(t *testing.T) {
	var calls atomic.Int64
	gen := GeneratorFunc(func(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
		calls.Add(1)
		return "ok", nil
	})
	exec := NewExecutor(gen, newCatalog(nil), quietLogger())

	res := exec.Execute(context.Background(), "UnknownEngine", testContext(t), ModeStable)

	if res.Success {
		t.Fatal("expected configuration failure")
	}
	if res.Error != ErrConfigNotFound.Error() {
		t.Errorf("Error = %q, want %q", res.Error, ErrConfigNotFound.Error())
	}
	if calls.Load() != 0 {
		t.Error("generator must not be called for a missing configuration")
	}
	if res.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", res.Attempts)
	}
	if res.Content == "" {
		t.Error("even a configuration failure yields usable fallback text")
	}
}

func TestExecutorCancelledParent(t *testing.T) {
	var calls atomic.Int64
	gen := GeneratorFunc(func(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
		calls.Add(1)
		return "", errors.New("boom")
	})
	exec := NewExecutor(gen, testCatalog(EngineConfig{MaxRetries: 5}), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := exec.Execute(ctx, "TestEngine", testContext(t), ModeStable)

	if res.Success {
		t.Fatal("expected failure under cancelled context")
	}
	if calls.Load() != 0 {
		t.Errorf("no attempts should run once the parent context is cancelled, got %d", calls.Load())
	}
	if res.Content != FallbackContent("TestEngine") {
		t.Error("cancelled run still yields fallback content")
	}
}
