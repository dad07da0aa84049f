package engine

import (
	"testing"
	"time"
)

func TestCatalogShape(t *testing.T) {
	c := NewCatalog()

	if got := len(c.Mandatory()); got != 15 {
		t.Errorf("mandatory set has %d engines, want 15", got)
	}
	if got := len(c.Conditional()); got != 4 {
		t.Errorf("conditional set has %d engines, want 4", got)
	}
	if got := c.Size(); got != 19 {
		t.Errorf("catalog has %d entries, want 19", got)
	}

	for _, name := range append(c.Mandatory(), c.Conditional()...) {
		cfg, ok := c.Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) missing", name)
			continue
		}
		if cfg.TaskPrompt == "" || cfg.Instructions == "" || cfg.SystemPrompt == "" {
			t.Errorf("engine %q has empty prompt fields", name)
		}
		if cfg.Timeout <= 0 || cfg.MaxTokens <= 0 {
			t.Errorf("engine %q has unusable limits: timeout=%v tokens=%d", name, cfg.Timeout, cfg.MaxTokens)
		}
	}
}

func TestCatalogLookupMissing(t *testing.T) {
	c := NewCatalog()
	if _, ok := c.Lookup("NoSuchEngine"); ok {
		t.Error("Lookup of unknown engine reported found")
	}
}

func TestCatalogDefaults(t *testing.T) {
	c := NewCatalog(WithDefaultTimeout(90*time.Second), WithDefaultRetries(5))
	cfg, ok := c.Lookup(EnginePacing)
	if !ok {
		t.Fatal("pacing engine missing")
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
}

func TestEveryCatalogEngineHasNoteFieldAndFallback(t *testing.T) {
	c := NewCatalog()
	notes := NewNotes()
	for _, name := range append(c.Mandatory(), c.Conditional()...) {
		if notes.field(name) == nil {
			t.Errorf("engine %q has no note field mapping", name)
		}
		if FallbackContent(name) == genericFallback {
			t.Errorf("engine %q has no dedicated fallback content", name)
		}
	}
}

func TestMandatorySetFixedOrder(t *testing.T) {
	first := NewCatalog().Mandatory()
	second := NewCatalog().Mandatory()
	if len(first) != len(second) {
		t.Fatal("mandatory sets differ in size across constructions")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("mandatory order differs at %d: %q vs %q", i, first[i], second[i])
		}
	}
	// Returned slices are copies; mutating one must not affect the catalog.
	c := NewCatalog()
	m := c.Mandatory()
	m[0] = "Mutated"
	if c.Mandatory()[0] == "Mutated" {
		t.Error("Mandatory() exposes internal state")
	}
}
