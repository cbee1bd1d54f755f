package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"samenvatter/internal/content"
	"samenvatter/internal/domain"
)

// MinContentLength is the shortest prepared article, in characters, worth
// summarizing.
const MinContentLength = 100

// Input describes the payload for a summary request.
type Input struct {
	// Identity is the requesting editor, used for rate limiting.
	Identity string
	// Content is the raw article body, markup allowed.
	Content string
}

// Summarizer produces a single summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (Result, error)
}

type Limiter interface {
	Allow(ctx context.Context, identity string) (bool, error)
}

type PostStore interface {
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	SaveGeneratedSummary(ctx context.Context, id int64, summary string) error
}

// Service runs the whole pipeline: rate limit, prepare, prompt, generate.
type Service struct {
	settings  domain.Settings
	limiter   Limiter
	prompts   *PromptBuilder
	generator *Generator
	posts     PostStore
	log       *slog.Logger
}

func NewService(
	settings domain.Settings,
	limiter Limiter,
	generator *Generator,
	posts PostStore,
	log *slog.Logger,
) *Service {
	return &Service{
		settings:  settings,
		limiter:   limiter,
		prompts:   NewPromptBuilder(settings.SystemPromptTemplate),
		generator: generator,
		posts:     posts,
		log:       log,
	}
}

func (s *Service) Summarize(ctx context.Context, input Input) (Result, error) {
	prepared := content.Prepare(input.Content)
	if utf8.RuneCountInString(prepared) < MinContentLength {
		return Result{}, ErrInvalidInput("De inhoud is te kort om samen te vatten.")
	}

	if strings.TrimSpace(s.settings.APIKey) == "" {
		s.log.ErrorContext(ctx, "OpenAI API key is not configured",
			"identity", input.Identity)

		return Result{}, ErrMissingAPIKey()
	}

	allowed, err := s.limiter.Allow(ctx, input.Identity)
	if err != nil {
		return Result{}, fmt.Errorf("check rate limit: %w", err)
	}
	if !allowed {
		s.log.InfoContext(ctx, "Summary request is rate limited",
			"identity", input.Identity)

		return Result{}, ErrRateLimited()
	}

	result, err := s.generator.GenerateWithRetry(ctx, Request{
		Messages:  s.prompts.Build(prepared, s.settings.WordLimit),
		WordLimit: s.settings.WordLimit,
		ModelID:   s.settings.ModelID,
		APIKey:    s.settings.APIKey,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to generate summary",
			"error", err,
			"identity", input.Identity,
			"modelID", s.settings.ModelID)

		return Result{}, err
	}

	s.log.DebugContext(ctx, "Summary is generated",
		"identity", input.Identity,
		"attempts", result.Attempts,
		"wordCount", result.WordCount,
		"validated", result.Validated)

	return result, nil
}

// GenerateForPost summarizes a stored post and writes the summary into both
// the summary field and the AI marker field.
func (s *Service) GenerateForPost(ctx context.Context, identity string, postID int64) (Result, error) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Result{}, ErrInvalidInput(fmt.Sprintf("Bericht %d bestaat niet.", postID))
		}

		return Result{}, fmt.Errorf("get post: %w", err)
	}

	result, err := s.Summarize(ctx, Input{Identity: identity, Content: post.Body})
	if err != nil {
		return Result{}, err
	}

	if err = s.posts.SaveGeneratedSummary(ctx, postID, result.Text); err != nil {
		return Result{}, fmt.Errorf("save summary: %w", err)
	}

	s.log.InfoContext(ctx, "Summary is saved",
		"postID", postID,
		"identity", identity,
		"wordCount", result.WordCount,
		"validated", result.Validated)

	return result, nil
}

var _ Summarizer = (*Service)(nil)
