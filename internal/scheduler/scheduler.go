package scheduler

import (
	"context"
	"log/slog"
	"time"

	"samenvatter/internal/export"

	"github.com/robfig/cron/v3"
)

const (
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	exportTimeout         = 15 * time.Minute
)

type Exporter interface {
	ExportMonth(ctx context.Context, year int, month time.Month) (*export.Summary, error)
}

type Scheduler struct {
	ctx      context.Context
	cron     *cron.Cron
	spec     string
	exporter Exporter
	now      func() time.Time
	log      *slog.Logger
}

func New(ctx context.Context, spec string, exporter Exporter, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(Location()))

	return &Scheduler{
		ctx:      ctx,
		cron:     c,
		spec:     spec,
		exporter: exporter,
		now:      time.Now,
		log:      log,
	}
}

func Location() *time.Location {
	return time.FixedZone(Timezone, TimezoneOffsetSeconds)
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.exportPreviousMonth); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// PreviousMonth returns the calendar month before the one containing t.
func PreviousMonth(t time.Time) (int, time.Month) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	prev := first.AddDate(0, -1, 0)

	return prev.Year(), prev.Month()
}

func (s *Scheduler) exportPreviousMonth() {
	ctx, cancel := context.WithTimeout(s.ctx, exportTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	year, month := PreviousMonth(s.now().In(Location()))

	summary, err := s.exporter.ExportMonth(ctx, year, month)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to export month",
			"error", err,
			"year", year,
			"month", int(month))
		return
	}

	s.log.InfoContext(ctx, "Month is exported",
		"year", year,
		"month", int(month),
		"path", summary.Path,
		"lines", summary.Lines,
		"total", summary.Stats.Total,
		"fullyHuman", summary.Stats.FullyHuman,
		"aiUnedited", summary.Stats.AIUnedited,
		"aiEdited", summary.Stats.AIEdited,
		"averageChange", summary.Stats.AverageChange)
}
