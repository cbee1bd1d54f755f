package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"samenvatter/internal/export"
)

type recordingExporter struct {
	mu    sync.Mutex
	calls []time.Month
	years []int
	err   error
}

func (e *recordingExporter) ExportMonth(_ context.Context, year int, month time.Month) (*export.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, month)
	e.years = append(e.years, year)

	if e.err != nil {
		return nil, e.err
	}

	return &export.Summary{Path: "x.jsonl"}, nil
}

func TestPreviousMonth(t *testing.T) {
	cases := []struct {
		now   time.Time
		year  int
		month time.Month
	}{
		{time.Date(2025, time.March, 31, 10, 0, 0, 0, time.UTC), 2025, time.February},
		{time.Date(2025, time.January, 1, 3, 0, 0, 0, time.UTC), 2024, time.December},
	}

	for _, tc := range cases {
		year, month := PreviousMonth(tc.now)
		if year != tc.year || month != tc.month {
			t.Fatalf("PreviousMonth(%v) = %d-%d, want %d-%d", tc.now, year, month, tc.year, tc.month)
		}
	}
}

func TestExportPreviousMonth(t *testing.T) {
	exporter := &recordingExporter{}
	s := New(context.Background(), "0 3 1 * *", exporter, slog.New(slog.DiscardHandler))
	s.now = func() time.Time { return time.Date(2025, time.May, 1, 3, 0, 0, 0, time.UTC) }

	s.exportPreviousMonth()

	if len(exporter.calls) != 1 || exporter.calls[0] != time.April || exporter.years[0] != 2025 {
		t.Fatalf("unexpected export calls: %v %v", exporter.years, exporter.calls)
	}
}

func TestExportSkippedWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exporter := &recordingExporter{err: errors.New("must not be called")}
	New(ctx, "0 3 1 * *", exporter, slog.New(slog.DiscardHandler)).exportPreviousMonth()

	if len(exporter.calls) != 0 {
		t.Fatalf("expected no export calls, got %d", len(exporter.calls))
	}
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New(context.Background(), "not a spec", &recordingExporter{}, slog.New(slog.DiscardHandler))

	if err := s.Start(); err == nil {
		t.Fatalf("expected invalid spec error")
	}
}
