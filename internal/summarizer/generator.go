package summarizer

import (
	"context"
	"log/slog"

	"samenvatter/internal/content"
)

const (
	MaxRetryAttempts = 3
	minWordsRatio    = 0.2
)

type Result struct {
	Text      string
	WordCount int
	Attempts  int
	// Validated is false when every attempt missed the length bounds and
	// Text is the last attempt, kept so an editor can trim it by hand.
	Validated bool
}

type Generator struct {
	sender Sender
	log    *slog.Logger
}

func NewGenerator(sender Sender, log *slog.Logger) *Generator {
	return &Generator{sender: sender, log: log}
}

// MinWords is the lower acceptance bound for a word limit.
func MinWords(wordLimit int) int {
	return int(float64(wordLimit) * minWordsRatio)
}

// GenerateWithRetry asks for a summary until one lands within
// [MinWords(limit), limit] words. Upstream failures end the loop at once.
// Running out of attempts is not an error: the last text is returned with
// Validated set to false.
func (g *Generator) GenerateWithRetry(ctx context.Context, req Request) (Result, error) {
	minWords := MinWords(req.WordLimit)

	var last Result
	for attempt := 1; attempt <= MaxRetryAttempts; attempt++ {
		text, err := g.sender.Send(ctx, req)
		if err != nil {
			return Result{}, err
		}

		wordCount := content.CountWords(text)
		last = Result{Text: text, WordCount: wordCount, Attempts: attempt}

		if wordCount >= minWords && wordCount <= req.WordLimit {
			last.Validated = true
			return last, nil
		}

		g.log.DebugContext(ctx, "Summary length is out of bounds",
			"attempt", attempt,
			"wordCount", wordCount,
			"minWords", minWords,
			"wordLimit", req.WordLimit)
	}

	g.log.WarnContext(ctx, "Summary length is still out of bounds after all attempts",
		"attempts", MaxRetryAttempts,
		"wordCount", last.WordCount,
		"minWords", minWords,
		"wordLimit", req.WordLimit)

	return last, nil
}
