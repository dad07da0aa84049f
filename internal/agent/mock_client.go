package agent

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/vampirenirmal/showrunner/internal/engine"
)

// MockClient provides canned engine output without touching the network.
// Used by tests and by the CLI's dry-run mode.
type MockClient struct {
	calls atomic.Int64
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// Generate implements engine.Generator with deterministic, structured
// placeholder notes derived from the prompt.
func (m *MockClient) Generate(ctx context.Context, prompt string, opts engine.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n := m.calls.Add(1)

	topic := "story notes"
	if i := strings.IndexByte(prompt, '\n'); i > 0 {
		first := prompt[:i]
		if len(first) > 60 {
			first = first[:60]
		}
		topic = strings.ToLower(strings.TrimRight(first, ".:"))
	}

	return fmt.Sprintf(`DRY RUN NOTES (%d):
- Focus: %s
- SCENE: opening | NOTE: establish the episode question within the first beat
- SCENE: midpoint | NOTE: reverse the protagonist's expectation visibly
- CHARACTER: lead | NOTE: let the hidden want surface under pressure once
- Keep every change shootable with the existing scene list`, n, topic), nil
}

// Calls reports how many generations the mock has served.
func (m *MockClient) Calls() int64 {
	return m.calls.Load()
}
