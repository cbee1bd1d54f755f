package audit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"samenvatter/internal/diff"
	"samenvatter/internal/domain"
)

type Source interface {
	GetAuditRecords(ctx context.Context, year int, month time.Month) ([]domain.AuditRecord, error)
	GetAuditRecordsByIDs(ctx context.Context, ids []int64) (map[int64]domain.AuditRecord, error)
}

// AuditedPost is derived on every view and never stored.
type AuditedPost struct {
	ID               int64     `json:"id"`
	AIText           string    `json:"aiText"`
	HumanText        string    `json:"humanText"`
	Status           Status    `json:"status"`
	Label            string    `json:"label"`
	CSSClass         string    `json:"cssClass"`
	ChangePercentage float64   `json:"changePercentage"`
	EditorID         int64     `json:"editorId"`
	AuthorID         int64     `json:"authorId"`
	PublishedAt      time.Time `json:"publishedAt"`
}

type Stats struct {
	Total         int     `json:"total"`
	FullyHuman    int     `json:"fullyHuman"`
	AIUnedited    int     `json:"aiUnedited"`
	AIEdited      int     `json:"aiEdited"`
	AverageChange float64 `json:"averageChange"`
}

type Report struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Posts []AuditedPost `json:"posts"`
	Stats Stats         `json:"stats"`
}

type PostDiff struct {
	Post AuditedPost `json:"post"`
	Diff diff.Result `json:"diff"`
}

type Service struct {
	source Source
	log    *slog.Logger
}

func NewService(source Source, log *slog.Logger) *Service {
	return &Service{source: source, log: log}
}

func (s *Service) Month(ctx context.Context, year int, month time.Month) (*Report, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month %d is out of range", month)
	}

	records, err := s.source.GetAuditRecords(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("get audit records: %w", err)
	}

	posts := make([]AuditedPost, 0, len(records))
	for _, r := range records {
		posts = append(posts, Audit(r))
	}

	report := &Report{
		Year:  year,
		Month: month,
		Posts: posts,
		Stats: Summarize(posts),
	}

	s.log.DebugContext(ctx, "Audit report is built",
		"year", year,
		"month", int(month),
		"total", report.Stats.Total,
		"aiEdited", report.Stats.AIEdited)

	return report, nil
}

// Diff classifies one post and renders the diff between its AI and human
// summaries, both with the dateline stripped.
func (s *Service) Diff(ctx context.Context, id int64) (*PostDiff, error) {
	records, err := s.source.GetAuditRecordsByIDs(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("get audit records: %w", err)
	}

	r, ok := records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return &PostDiff{
		Post: Audit(r),
		Diff: diff.Words(StripRegionPrefix(r.AIContent), StripRegionPrefix(r.HumanContent)),
	}, nil
}

func Audit(r domain.AuditRecord) AuditedPost {
	c := Classify(r.AIContent, r.HumanContent)

	return AuditedPost{
		ID:               r.ID,
		AIText:           r.AIContent,
		HumanText:        r.HumanContent,
		Status:           c.Status,
		Label:            c.Status.Label(),
		CSSClass:         c.Status.CSSClass(),
		ChangePercentage: c.ChangePercentage,
		EditorID:         r.EditorID,
		AuthorID:         r.AuthorID,
		PublishedAt:      r.PublishedAt,
	}
}

func Summarize(posts []AuditedPost) Stats {
	var stats Stats
	var changeSum float64

	for _, p := range posts {
		stats.Total++

		switch p.Status {
		case StatusFullyHuman:
			stats.FullyHuman++
		case StatusAIUnedited:
			stats.AIUnedited++
		case StatusAIEdited:
			stats.AIEdited++
			changeSum += p.ChangePercentage
		}
	}

	if stats.AIEdited > 0 {
		stats.AverageChange = math.Round(changeSum/float64(stats.AIEdited)*10) / 10
	}

	return stats
}
