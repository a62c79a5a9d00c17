package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/voicebot-api/internal/config"
	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/domain/document"
	"jan-server/services/voicebot-api/internal/domain/navigation"
	"jan-server/services/voicebot-api/internal/domain/retry"
	"jan-server/services/voicebot-api/internal/domain/voicecommand"
	"jan-server/services/voicebot-api/internal/infrastructure/auth"
	"jan-server/services/voicebot-api/internal/infrastructure/cache"
	"jan-server/services/voicebot-api/internal/infrastructure/crontab"
	"jan-server/services/voicebot-api/internal/infrastructure/database"
	"jan-server/services/voicebot-api/internal/infrastructure/logger"
	"jan-server/services/voicebot-api/internal/infrastructure/observability"
	botrepo "jan-server/services/voicebot-api/internal/infrastructure/repository/bot"
	documentrepo "jan-server/services/voicebot-api/internal/infrastructure/repository/document"
	navigationrepo "jan-server/services/voicebot-api/internal/infrastructure/repository/navigation"
	"jan-server/services/voicebot-api/internal/infrastructure/storage"
	"jan-server/services/voicebot-api/internal/infrastructure/vapi"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/voicebot-api/internal/utils/sanitizer"
	"jan-server/services/voicebot-api/internal/worker"
)

// @title Voicebot API
// @version 1.0
// @description Voice bot lifecycle, public status resolution and the embeddable widget.
// @contact.name Jan Server Team
// @contact.url https://github.com/janhq/jan-server
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	cfg        *config.Config
	httpServer *httpserver.HttpServer
	pool       *worker.Pool
	bots       bot.Service
	sweeper    *crontab.Crontab
	redis      *cache.RedisClient
	log        zerolog.Logger
}

func NewApplication(
	cfg *config.Config,
	httpServer *httpserver.HttpServer,
	pool *worker.Pool,
	bots bot.Service,
	sweeper *crontab.Crontab,
	redis *cache.RedisClient,
	log zerolog.Logger,
) *Application {
	return &Application{
		cfg:        cfg,
		httpServer: httpServer,
		pool:       pool,
		bots:       bots,
		sweeper:    sweeper,
		redis:      redis,
		log:        log,
	}
}

// Start runs the workers, the sweep and the HTTP server until ctx is cancelled,
// then drains queued activations within the shutdown timeout.
func (a *Application) Start(ctx context.Context) error {
	if err := a.pool.Start(ctx, a.bots); err != nil {
		return fmt.Errorf("start activation pool: %w", err)
	}

	go func() {
		if err := a.sweeper.Run(ctx); err != nil {
			a.log.Error().Err(err).Msg("activation sweep stopped")
		}
	}()

	err := a.httpServer.Run(ctx)

	drainCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	a.log.Info().Int("queued", a.pool.QueueDepth()).Msg("stopping activation pool")
	a.pool.Stop(drainCtx)

	if a.redis != nil {
		if closeErr := a.redis.Close(); closeErr != nil {
			a.log.Warn().Err(closeErr).Msg("close redis")
		}
	}
	return err
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		ReadDSN:         cfg.GetDatabaseReadDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	documentStorage, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize document storage")
	}

	var redisClient *cache.RedisClient
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
	}
	statusCache, cacheBackend, err := newStatusCache(cfg, redisClient, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize status cache")
	}

	shortcuts, err := voicecommand.LoadShortcuts(cfg.VoiceShortcutsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load voice shortcuts")
	}

	bots := botrepo.NewPostgresRepository(db)
	documentService := document.NewService(
		documentrepo.NewPostgresRepository(db),
		documentStorage,
		bots,
		document.Config{MaxBytes: cfg.MaxDocumentBytes, KnowledgeBaseMaxRune: cfg.KnowledgeBaseMaxRune},
		log,
	)
	navigationService := navigation.NewService(
		navigationrepo.NewPostgresRepository(db),
		bots,
		voicecommand.NewParser(shortcuts),
		sanitizer.New(sanitizer.ParseLevel(cfg.NavigationPIILevel)),
		cfg.NavigationListLimit,
		log,
	)

	pool := worker.NewPool(worker.Config{
		WorkerCount: cfg.ActivationWorkers,
		QueueSize:   cfg.ActivationQueueSize,
		TaskTimeout: activationTaskTimeout(cfg),
	}, log)

	botService := bot.NewService(
		bots,
		vapi.NewClient(cfg, log),
		pool,
		bot.ServiceConfig{
			PublicBaseURL:   cfg.PublicBaseURL,
			ActivationDelay: cfg.ActivationDelay,
			ProvisionPolicy: provisionPolicy(cfg),
		},
		log,
		bot.WithKnowledgeSource(documentService),
		bot.WithStatusCache(statusCache),
	)

	sweeper := crontab.NewCrontab(botService, sweepLocker(redisClient), crontab.Config{
		Enabled:         cfg.ActivationSweepEnabled,
		IntervalMinutes: cfg.ActivationSweepInterval,
		Batch:           cfg.ActivationSweepBatch,
	}, log)

	handlerProvider := handlers.NewProvider(
		handlers.NewBotHandler(botService, log),
		handlers.NewStatusHandler(botService, cacheBackend, log),
		handlers.NewNavigationHandler(navigationService, log),
		handlers.NewDocumentHandler(documentService, log),
		handlers.NewWidgetHandler(widgetConfig(cfg, shortcuts), cfg.WidgetAssetsDir, log),
	)
	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator, readiness(db, redisClient))

	app := NewApplication(cfg, httpServer, pool, botService, sweeper, redisClient, log)
	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newStatusCache(cfg *config.Config, redisClient *cache.RedisClient, log zerolog.Logger) (bot.StatusCache, string, error) {
	if redisClient != nil {
		return cache.NewRedisStatusCache(redisClient, cfg.StatusCacheTTL, log), "redis", nil
	}
	memory, err := cache.NewMemoryStatusCache(cfg.StatusCacheMax, cfg.StatusCacheTTL)
	if err != nil {
		return nil, "", err
	}
	return memory, "memory", nil
}

// sweepLocker keeps the interface nil when Redis is not configured.
func sweepLocker(redisClient *cache.RedisClient) crontab.Locker {
	if redisClient == nil {
		return nil
	}
	return redisClient
}

func provisionPolicy(cfg *config.Config) retry.Policy {
	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.ProvisionMaxRetries
	policy.Retryable = vapi.IsRetryable
	return policy
}

// activationTaskTimeout covers every provisioning attempt plus backoff.
func activationTaskTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.ProvisionMaxRetries+1)*cfg.ProvisionTimeout + time.Minute
}

// widgetConfig ships a custom shortcut table to widgets so they dispatch the
// same phrases the server classifies. Widgets carry the built-in table.
func widgetConfig(cfg *config.Config, shortcuts []voicecommand.Shortcut) handlers.WidgetConfig {
	wc := handlers.WidgetConfig{VapiPublicKey: cfg.VapiPublicKey, Environment: cfg.Environment}
	if cfg.VoiceShortcutsFile != "" {
		wc.Shortcuts = shortcuts
	}
	return wc
}

func readiness(db *gorm.DB, redisClient *cache.RedisClient) httpserver.ReadinessCheck {
	checks := []httpserver.ReadinessCheck{func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}}
	if redisClient != nil {
		checks = append(checks, redisClient.HealthCheck)
	}
	return httpserver.AllReady(checks...)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
