// Package metering tracks generation usage for a process. The meter is
// constructed explicitly and injected into whatever issues generation
// calls; there is no package-level singleton.
package metering

import (
	"log/slog"
	"sync/atomic"
)

// Rough chars-per-token divisor used for cost estimation.
const charsPerToken = 4

// Estimated USD cost per 1K tokens, by tier. These only need to be close
// enough to trip the alert threshold in the right order of magnitude.
var costPer1KTokens = map[string]float64{
	"beast":  0.045,
	"stable": 0.009,
}

const defaultCostPer1KTokens = 0.02

// Meter accumulates usage totals across the process lifetime. All
// counters are atomic; Record and Snapshot are safe to call from any
// number of concurrent engine executions.
type Meter struct {
	requests    atomic.Int64
	failures    atomic.Int64
	promptChars atomic.Int64
	outputChars atomic.Int64
	// cost in micro-dollars, so it can live in an integer counter
	costMicroUSD atomic.Int64

	alertThresholdUSD float64
	alerted           atomic.Bool
	logger            *slog.Logger
}

// NewMeter creates a meter that logs a one-time alert when the estimated
// spend crosses thresholdUSD. A zero threshold disables the alert.
func NewMeter(thresholdUSD float64, logger *slog.Logger) *Meter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Meter{
		alertThresholdUSD: thresholdUSD,
		logger:            logger.With("component", "metering"),
	}
}

// RecordRequest accumulates one successful generation call.
func (m *Meter) RecordRequest(promptChars, outputChars int, tier string) {
	m.requests.Add(1)
	m.promptChars.Add(int64(promptChars))
	m.outputChars.Add(int64(outputChars))

	rate, ok := costPer1KTokens[tier]
	if !ok {
		rate = defaultCostPer1KTokens
	}
	tokens := float64(promptChars+outputChars) / charsPerToken
	micro := int64(tokens / 1000 * rate * 1e6)
	total := m.costMicroUSD.Add(micro)

	if m.alertThresholdUSD > 0 && float64(total)/1e6 >= m.alertThresholdUSD {
		if m.alerted.CompareAndSwap(false, true) {
			m.logger.Warn("estimated generation spend crossed alert threshold",
				"threshold_usd", m.alertThresholdUSD,
				"estimated_usd", float64(total)/1e6,
				"requests", m.requests.Load())
		}
	}
}

// RecordFailure accumulates one failed generation call.
func (m *Meter) RecordFailure() {
	m.requests.Add(1)
	m.failures.Add(1)
}

// Snapshot is a point-in-time read of the meter's counters.
type Snapshot struct {
	Requests     int64   `json:"requests"`
	Failures     int64   `json:"failures"`
	PromptChars  int64   `json:"promptChars"`
	OutputChars  int64   `json:"outputChars"`
	EstimatedUSD float64 `json:"estimatedUsd"`
	Alerted      bool    `json:"alerted"`
}

// Snapshot returns the current totals. Counters keep accumulating after
// the snapshot is taken.
func (m *Meter) Snapshot() Snapshot {
	return Snapshot{
		Requests:     m.requests.Load(),
		Failures:     m.failures.Load(),
		PromptChars:  m.promptChars.Load(),
		OutputChars:  m.outputChars.Load(),
		EstimatedUSD: float64(m.costMicroUSD.Load()) / 1e6,
		Alerted:      m.alerted.Load(),
	}
}
