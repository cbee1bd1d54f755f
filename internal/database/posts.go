package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"samenvatter/internal/domain"
)

// maxIDsPerQuery keeps bulk lookups under SQLite's bound parameter limit.
const maxIDsPerQuery = 500

const postColumns = `id, title, body, summary, summary_ai, editor_id, author_id,
	published_at, summary_updated_at`

func (d *Database) CreatePost(ctx context.Context, p domain.Post) (int64, error) {
	query := `insert into posts
	(title, body, summary, summary_ai, editor_id, author_id, published_at)
	values (?, ?, ?, ?, ?, ?, ?)`

	res, err := d.db.ExecContext(ctx, query,
		p.Title,
		p.Body,
		p.Summary,
		p.SummaryMarker,
		p.EditorID,
		p.AuthorID,
		normalizeTime(p.PublishedAt))
	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}

	return res.LastInsertId()
}

func (d *Database) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	query := "select " + postColumns + " from posts where id = ?"

	p, err := scanPost(d.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	return p, nil
}

// SaveGeneratedSummary stores a freshly generated summary in both the
// visible summary field and the AI marker field.
func (d *Database) SaveGeneratedSummary(ctx context.Context, id int64, summary string) error {
	query := `update posts
	set summary = ?, summary_ai = ?, summary_updated_at = ?
	where id = ?`

	return d.execOne(ctx, query, summary, summary, normalizeTime(time.Now()), id)
}

// SaveEditedSummary stores a human edit. The AI marker is left untouched so
// the audit can compare both versions later.
func (d *Database) SaveEditedSummary(ctx context.Context, id int64, summary string, editorID int64) error {
	query := `update posts
	set summary = ?, editor_id = ?, summary_updated_at = ?
	where id = ?`

	return d.execOne(ctx, query, summary, editorID, normalizeTime(time.Now()), id)
}

// GetAuditRecords returns every post published in the given month that
// carries a summary or an AI marker, newest first.
func (d *Database) GetAuditRecords(
	ctx context.Context,
	year int,
	month time.Month,
) ([]domain.AuditRecord, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query := `select id from posts
	where published_at >= ? and published_at < ?
	and (summary != '' or summary_ai != '')
	order by published_at desc, id desc`

	rows, err := d.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"year", year,
				"month", int(month),
				"operation", "GetAuditRecords")
		}
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	byID, err := d.GetAuditRecordsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]domain.AuditRecord, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			records = append(records, r)
		}
	}

	return records, nil
}

// GetAuditRecordsByIDs fetches audit records in chunks instead of one query
// per post. Unknown ids are absent from the result.
func (d *Database) GetAuditRecordsByIDs(
	ctx context.Context,
	ids []int64,
) (map[int64]domain.AuditRecord, error) {
	records := make(map[int64]domain.AuditRecord, len(ids))

	for start := 0; start < len(ids); start += maxIDsPerQuery {
		chunk := ids[start:min(start+maxIDsPerQuery, len(ids))]

		if err := d.fetchAuditChunk(ctx, chunk, records); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func (d *Database) fetchAuditChunk(
	ctx context.Context,
	ids []int64,
	into map[int64]domain.AuditRecord,
) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := "select " + postColumns + " from posts where id in (" + placeholders + ")"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"ids", len(ids),
				"operation", "GetAuditRecordsByIDs")
		}
	}()

	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		into[p.ID] = domain.AuditRecord{
			ID:           p.ID,
			AIContent:    p.SummaryMarker,
			HumanContent: p.Summary,
			RawContent:   p.Body,
			EditorID:     p.EditorID,
			AuthorID:     p.AuthorID,
			PublishedAt:  p.PublishedAt,
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate rows: %w", err)
	}

	return nil
}

func (d *Database) execOne(ctx context.Context, query string, args ...any) error {
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*domain.Post, error) {
	var (
		p       domain.Post
		updated sql.NullTime
	)

	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Body,
		&p.Summary,
		&p.SummaryMarker,
		&p.EditorID,
		&p.AuthorID,
		&p.PublishedAt,
		&updated)
	if err != nil {
		return nil, err
	}

	if updated.Valid {
		p.SummaryUpdated = updated.Time
	}

	return &p, nil
}

// normalizeTime stores timestamps in UTC at second precision so that range
// comparisons on the text column stay ordered.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
