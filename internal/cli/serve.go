package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/cache"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/config"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/events"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/insights"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/services"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/utils"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/validator"
	"github.com/SAP-F-2025/quiz-analytics-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	port     string
	inMemory bool
	migrate  bool
	seedDemo bool
}

// NewServeCmd builds the CLI subcommand to start the HTTP server.
func NewServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analytics HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.port, "port", "", "port to listen on, overrides PORT")
	cmd.Flags().BoolVar(&opts.inMemory, "memory", false, "use the in-memory store instead of PostgreSQL")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "run migrations before serving")
	cmd.Flags().BoolVar(&opts.seedDemo, "seed-demo", false, "load a demo quiz into the in-memory store")
	return cmd
}

func runServer(parent context.Context, opts serveOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if opts.port != "" {
		cfg.Port = opts.port
	}

	logger := utils.NewLogger(cfg.Environment)
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, closeRepo, err := buildRepository(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	cacheService := cache.NewNoopCache()
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher, falling back to in-process mock", "error", err)
		publisher = events.NewMockEventPublisher(logger)
	}
	defer publisher.Close()

	var narrator services.NarrativeGenerator
	generator, err := insights.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		logger.Warn("Narrative insights disabled", "error", err)
	} else {
		defer generator.Close()
		if generator.Enabled() {
			narrator = generator
		}
	}

	auth, err := buildAuth(cfg, logger)
	if err != nil {
		return err
	}

	v := validator.New()
	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:               repo,
		Cache:              cacheService,
		Publisher:          publisher,
		Narrator:           narrator,
		Validator:          v,
		Logger:             logger,
		CourseTitleTTL:     cfg.CourseTitleTTL,
		SummaryConcurrency: cfg.SummaryConcurrency,
	})

	appLogger := utils.NewSlogLogger(logger)
	router := handlers.NewRouter(appLogger, cfg.AllowedOrigins)
	handlers.NewHandlerManager(serviceManager, v, appLogger, auth).SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting quiz analytics service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildRepository(ctx context.Context, cfg *config.Config, opts serveOptions, logger *slog.Logger) (repositories.Repository, func(), error) {
	if opts.inMemory {
		store := memory.NewStore()
		if opts.seedDemo {
			seedDemoData(store)
		}
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.NewRepository(store), func() {}, nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	if opts.migrate {
		if err := pkg.Migrate(db.WithContext(ctx)); err != nil {
			return nil, nil, err
		}
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return postgres.NewRepository(db), closeFn, nil
}

func buildAuth(cfg *config.Config, logger *slog.Logger) (gin.HandlerFunc, error) {
	if cfg.Auth.Enabled() {
		return handlers.AuthMiddleware(handlers.NewCasdoorVerifier(cfg.Auth)), nil
	}
	if cfg.IsProduction() {
		return nil, errors.New("CASDOOR_ENDPOINT and CASDOOR_CERTIFICATE are required in production")
	}
	logger.Warn("Casdoor not configured, trusting X-User-ID and X-User-Role headers")
	return handlers.DevAuthMiddleware(), nil
}
