package metering

import (
	"log/slog"
	"sync"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestMeterAccumulates(t *testing.T) {
	m := NewMeter(0, testLogger())

	m.RecordRequest(1000, 500, "stable")
	m.RecordRequest(2000, 1000, "beast")
	m.RecordFailure()

	snap := m.Snapshot()
	if snap.Requests != 3 {
		t.Errorf("Requests = %d, want 3", snap.Requests)
	}
	if snap.Failures != 1 {
		t.Errorf("Failures = %d, want 1", snap.Failures)
	}
	if snap.PromptChars != 3000 {
		t.Errorf("PromptChars = %d, want 3000", snap.PromptChars)
	}
	if snap.OutputChars != 1500 {
		t.Errorf("OutputChars = %d, want 1500", snap.OutputChars)
	}
	if snap.EstimatedUSD <= 0 {
		t.Errorf("EstimatedUSD = %v, want positive", snap.EstimatedUSD)
	}
	if snap.Alerted {
		t.Error("alert fired with threshold disabled")
	}
}

func TestMeterAlertsOnce(t *testing.T) {
	// Tiny threshold: the first sizable request crosses it.
	m := NewMeter(0.0001, testLogger())

	m.RecordRequest(100000, 50000, "beast")
	first := m.Snapshot()
	if !first.Alerted {
		t.Fatal("expected alert after crossing threshold")
	}

	m.RecordRequest(100000, 50000, "beast")
	if !m.Snapshot().Alerted {
		t.Error("alert state must stay latched")
	}
}

func TestMeterConcurrentRecording(t *testing.T) {
	m := NewMeter(0, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordRequest(100, 10, "stable")
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap.Requests != 50 {
		t.Errorf("Requests = %d, want 50", snap.Requests)
	}
	if snap.PromptChars != 5000 {
		t.Errorf("PromptChars = %d, want 5000", snap.PromptChars)
	}
}

func TestMeterUnknownTierUsesDefaultRate(t *testing.T) {
	m := NewMeter(0, testLogger())
	m.RecordRequest(4000, 4000, "experimental")
	if m.Snapshot().EstimatedUSD <= 0 {
		t.Error("unknown tier should still estimate cost")
	}
}
