// Package export writes audited summary pairs as JSON Lines for preference
// fine-tuning: the human edit is preferred over the AI text it replaced.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"samenvatter/internal/audit"
	"samenvatter/internal/content"
	"samenvatter/internal/domain"
	"samenvatter/internal/summarizer"
)

type Input struct {
	Messages          []domain.Message  `json:"messages"`
	Tools             []json.RawMessage `json:"tools"`
	ParallelToolCalls bool              `json:"parallel_tool_calls"`
}

type Line struct {
	Input              Input            `json:"input"`
	PreferredOutput    []domain.Message `json:"preferred_output"`
	NonPreferredOutput []domain.Message `json:"non_preferred_output"`
}

// NewLine rebuilds the prompt the model would have received for the post and
// pairs it with both dateline-free summaries.
func NewLine(r domain.AuditRecord, prompts *summarizer.PromptBuilder, wordLimit int) Line {
	return Line{
		Input: Input{
			Messages:          prompts.Build(content.Prepare(r.RawContent), wordLimit),
			Tools:             []json.RawMessage{},
			ParallelToolCalls: true,
		},
		PreferredOutput: []domain.Message{{
			Role:    domain.RoleAssistant,
			Content: audit.StripRegionPrefix(r.HumanContent),
		}},
		NonPreferredOutput: []domain.Message{{
			Role:    domain.RoleAssistant,
			Content: audit.StripRegionPrefix(r.AIContent),
		}},
	}
}

type Writer struct {
	enc       *json.Encoder
	prompts   *summarizer.PromptBuilder
	wordLimit int
	lines     int
}

func NewWriter(w io.Writer, prompts *summarizer.PromptBuilder, wordLimit int) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	return &Writer{enc: enc, prompts: prompts, wordLimit: wordLimit}
}

// Write emits one line for an edited AI summary. Other records are skipped
// and reported as not written.
func (w *Writer) Write(r domain.AuditRecord) (bool, error) {
	if audit.Classify(r.AIContent, r.HumanContent).Status != audit.StatusAIEdited {
		return false, nil
	}

	if err := w.enc.Encode(NewLine(r, w.prompts, w.wordLimit)); err != nil {
		return false, fmt.Errorf("encode line: %w", err)
	}

	w.lines++

	return true, nil
}

func (w *Writer) Lines() int {
	return w.lines
}

type Source interface {
	GetAuditRecords(ctx context.Context, year int, month time.Month) ([]domain.AuditRecord, error)
}

type Summary struct {
	Path  string
	Lines int
	Stats audit.Stats
}

type Exporter struct {
	source    Source
	dir       string
	prompts   *summarizer.PromptBuilder
	wordLimit int
	log       *slog.Logger
}

func NewExporter(
	source Source,
	dir string,
	prompts *summarizer.PromptBuilder,
	wordLimit int,
	log *slog.Logger,
) *Exporter {
	return &Exporter{
		source:    source,
		dir:       dir,
		prompts:   prompts,
		wordLimit: wordLimit,
		log:       log,
	}
}

func FileName(year int, month time.Month) string {
	return fmt.Sprintf("dpo-%04d-%02d.jsonl", year, int(month))
}

// ExportMonth writes the month's pairs to a temporary file first and renames
// it into place, so readers never see a partial export.
func (e *Exporter) ExportMonth(ctx context.Context, year int, month time.Month) (*Summary, error) {
	records, err := e.source.GetAuditRecords(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("get audit records: %w", err)
	}

	if err = os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.CreateTemp(e.dir, ".dpo-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()
	defer func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			e.log.WarnContext(ctx, "Failed to remove temp export file",
				"error", removeErr,
				"path", tmpPath)
		}
	}()

	w := NewWriter(f, e.prompts, e.wordLimit)
	posts := make([]audit.AuditedPost, 0, len(records))

	for _, r := range records {
		posts = append(posts, audit.Audit(r))

		if _, err = w.Write(r); err != nil {
			_ = f.Close()

			return nil, fmt.Errorf("write post %d: %w", r.ID, err)
		}
	}

	if err = f.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	path := filepath.Join(e.dir, FileName(year, month))
	if err = os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("rename export file: %w", err)
	}

	return &Summary{
		Path:  path,
		Lines: w.Lines(),
		Stats: audit.Summarize(posts),
	}, nil
}
