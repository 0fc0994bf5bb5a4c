package oncekit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/oncekit/pkg/oncekit/observability"
)

// widget is the instance type used across tests.
type widget struct {
	ID int64
}

// countingFactory returns a factory that numbers each widget it builds.
// The short sleep widens the window in which other callers pile up.
func countingFactory(calls *atomic.Int64) func() (*widget, error) {
	return func() (*widget, error) {
		n := calls.Add(1)
		time.Sleep(2 * time.Millisecond)
		return &widget{ID: n}, nil
	}
}

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// jsonLogger returns a debug-level JSON logger writing into a buffer.
func jsonLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// records decodes every JSON log line written so far.
func (b *syncBuffer) records() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	for _, line := range bytes.Split(b.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(line, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// countingMetrics is a MetricsRecorder that counts calls.
type countingMetrics struct {
	constructions atomic.Int64
	failures      atomic.Int64
	waits         atomic.Int64
	hits          atomic.Int64
	misses        atomic.Int64
}

var _ observability.MetricsRecorder = (*countingMetrics)(nil)

func (m *countingMetrics) RecordConstruction(_ context.Context, _ string, _ time.Duration, err error) {
	m.constructions.Add(1)
	if err != nil {
		m.failures.Add(1)
	}
}

func (m *countingMetrics) RecordWait(_ context.Context, _ string, _ time.Duration) {
	m.waits.Add(1)
}

func (m *countingMetrics) RecordLookup(_ context.Context, _ string, hit bool) {
	if hit {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
}
