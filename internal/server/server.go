package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"samenvatter/internal/audit"
	"samenvatter/internal/domain"
	"samenvatter/internal/summarizer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	readHeaderTimeout = 10 * time.Second
	// Three upstream attempts of up to 30 seconds each.
	writeTimeout = 100 * time.Second
	maxBodyBytes = 1 << 20
)

type Summaries interface {
	Summarize(ctx context.Context, input summarizer.Input) (summarizer.Result, error)
	GenerateForPost(ctx context.Context, identity string, postID int64) (summarizer.Result, error)
}

type Posts interface {
	SaveEditedSummary(ctx context.Context, id int64, summary string, editorID int64) error
}

type Auditor interface {
	Month(ctx context.Context, year int, month time.Month) (*audit.Report, error)
	Diff(ctx context.Context, id int64) (*audit.PostDiff, error)
}

type Checker interface {
	Check(ctx context.Context, apiKey, modelID string) (string, error)
}

type Deps struct {
	Summaries Summaries
	Posts     Posts
	Auditor   Auditor
	Checker   Checker
	Settings  domain.Settings
	Access    Access
}

type Server struct {
	router *chi.Mux
	http   *http.Server
	deps   Deps
	log    *slog.Logger
}

func New(addr string, deps Deps, log *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		deps:   deps,
		log:    log,
	}

	s.router.Use(RequestIDMiddleware)
	s.router.Use(LoggingMiddleware(log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "samenvatter")
	})

	s.routes()

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	return s
}

func (s *Server) routes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/summaries", s.handleSummarize)
		r.Post("/posts/{id}/summary", s.handleGenerateForPost)
		r.Put("/posts/{id}/summary", s.handleEditSummary)
		r.Get("/audit/{year}/{month}", s.handleAuditMonth)
		r.Get("/audit/posts/{id}/diff", s.handleAuditDiff)
		r.Get("/settings/check", s.handleSettingsCheck)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
