package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"samenvatter/internal/audit"
	"samenvatter/internal/config"
	"samenvatter/internal/database"
	"samenvatter/internal/export"
	"samenvatter/internal/logging"
	"samenvatter/internal/ratelimiter"
	"samenvatter/internal/scheduler"
	"samenvatter/internal/server"
	"samenvatter/internal/summarizer"
	"samenvatter/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	log := logging.New(os.Stdout, cfg.Debug)
	slog.SetDefault(log)

	settings := cfg.Settings()
	if settings.APIKey == "" {
		log.WarnContext(ctx, "OPENAI_API_KEY is missing so summaries will be refused",
			"envVar", "OPENAI_API_KEY")
	}

	if cfg.Tracing {
		shutdownTracer, tracerErr := telemetry.InitTracer(os.Stdout, log)
		if tracerErr != nil {
			log.ErrorContext(ctx, "Failed to initialize tracing",
				"error", tracerErr)

			return
		}
		defer func() {
			if err = shutdownTracer(context.Background()); err != nil {
				log.ErrorContext(ctx, "Failed to shut down tracing",
					"error", err)
			}
		}()
	}

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)

		return
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", cfg.DBPath)

	limiter, closeLimiter, err := initRateLimiter(ctx, cfg.RedisURL, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize rate limiter",
			"error", err)

		return
	}
	defer closeLimiter()

	gateway := summarizer.NewGateway(cfg.OpenAIBaseURL, summarizer.NewHTTPTransport(), log)
	generator := summarizer.NewGenerator(gateway, log)
	summaries := summarizer.NewService(settings, limiter, generator, db, log)
	log.InfoContext(ctx, "Summarizer is initialized",
		"modelID", settings.ModelID,
		"family", summarizer.DetectFamily(settings.ModelID).String(),
		"wordLimit", settings.WordLimit)

	auditor := audit.NewService(db, log)
	exporter := export.NewExporter(db, cfg.ExportDir,
		summarizer.NewPromptBuilder(settings.SystemPromptTemplate), settings.WordLimit, log)

	sched := scheduler.New(ctx, cfg.ExportSpec, exporter, log)
	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", cfg.ExportSpec,
			"timezone", scheduler.Location().String())

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", cfg.ExportSpec,
		"timezone", scheduler.Location().String(),
		"exportDir", cfg.ExportDir)

	srv := server.New(cfg.ListenAddr, server.Deps{
		Summaries: summaries,
		Posts:     db,
		Auditor:   auditor,
		Checker:   summarizer.NewChecker(cfg.OpenAIBaseURL, nil),
		Settings:  settings,
		Access:    server.Access{Editors: cfg.Editors, Admins: cfg.Admins},
	}, log)

	go func() {
		if serveErr := srv.Start(); serveErr != nil {
			log.ErrorContext(ctx, "Server stopped unexpectedly",
				"error", serveErr,
				"addr", cfg.ListenAddr)
			cancel()
		}
	}()
	log.InfoContext(ctx, "Server is started",
		"addr", cfg.ListenAddr,
		"editorsCount", len(cfg.Editors),
		"adminsCount", len(cfg.Admins))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "Failed to shut down server",
			"error", err)
	}
	cancel()

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())
}

// initRateLimiter shares windows through Redis when REDIS_URL is set and
// keeps them in memory otherwise.
func initRateLimiter(
	ctx context.Context,
	redisURL string,
	log *slog.Logger,
) (summarizer.Limiter, func(), error) {
	if redisURL == "" {
		log.InfoContext(ctx, "Using in-memory rate limiter",
			"maxRequests", ratelimiter.MaxRequests,
			"windowSeconds", ratelimiter.WindowLength.Seconds())

		return ratelimiter.NewMemory(ratelimiter.MaxRequests, ratelimiter.WindowLength), func() {}, nil
	}

	rdb, err := ratelimiter.Connect(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}

	log.InfoContext(ctx, "Using Redis rate limiter",
		"maxRequests", ratelimiter.MaxRequests,
		"windowSeconds", ratelimiter.WindowLength.Seconds())

	closeFn := func() {
		if closeErr := rdb.Close(); closeErr != nil {
			log.ErrorContext(ctx, "Failed to close redis client",
				"error", closeErr)
		}
	}

	return ratelimiter.NewRedis(rdb, ratelimiter.MaxRequests, ratelimiter.WindowLength), closeFn, nil
}
