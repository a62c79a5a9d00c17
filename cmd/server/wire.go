//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/voicebot-api/internal/config"
	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/domain/document"
	"jan-server/services/voicebot-api/internal/domain/navigation"
	"jan-server/services/voicebot-api/internal/domain/voicecommand"
	"jan-server/services/voicebot-api/internal/infrastructure/auth"
	"jan-server/services/voicebot-api/internal/infrastructure/cache"
	"jan-server/services/voicebot-api/internal/infrastructure/crontab"
	"jan-server/services/voicebot-api/internal/infrastructure/database"
	"jan-server/services/voicebot-api/internal/infrastructure/logger"
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

var repositorySet = wire.NewSet(
	botrepo.NewPostgresRepository,
	wire.Bind(new(bot.Repository), new(*botrepo.PostgresRepository)),
	documentrepo.NewPostgresRepository,
	wire.Bind(new(document.Repository), new(*documentrepo.PostgresRepository)),
	navigationrepo.NewPostgresRepository,
	wire.Bind(new(navigation.Repository), new(*navigationrepo.PostgresRepository)),
)

var serviceSet = wire.NewSet(
	vapi.NewClient,
	wire.Bind(new(bot.Provisioner), new(*vapi.Client)),
	newWorkerPool,
	wire.Bind(new(bot.ActivationQueue), new(*worker.Pool)),
	newDocumentStorage,
	newDocumentService,
	wire.Bind(new(handlers.DocumentService), new(*document.Service)),
	newShortcuts,
	newNavigationService,
	wire.Bind(new(handlers.NavigationService), new(*navigation.Service)),
	newBotService,
	newSweeper,
)

var httpSet = wire.NewSet(
	newAuthValidator,
	handlers.NewBotHandler,
	newStatusHandler,
	handlers.NewNavigationHandler,
	handlers.NewDocumentHandler,
	newWidgetHandler,
	handlers.NewProvider,
	readiness,
	httpserver.New,
)

// BuildApplication assembles the voicebot service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newRedisClient,
		newCacheSelection,
		repositorySet,
		serviceSet,
		httpSet,
		NewApplication,
	)
	return nil, nil
}

type cacheSelection struct {
	cache   bot.StatusCache
	backend string
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		ReadDSN:         cfg.GetDatabaseReadDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*cache.RedisClient, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	return cache.NewRedisClient(ctx, cfg.RedisURL, log)
}

func newCacheSelection(cfg *config.Config, redisClient *cache.RedisClient, log zerolog.Logger) (cacheSelection, error) {
	c, backend, err := newStatusCache(cfg, redisClient, log)
	return cacheSelection{cache: c, backend: backend}, err
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newDocumentStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Backend, error) {
	return storage.New(ctx, cfg, log)
}

func newWorkerPool(cfg *config.Config, log zerolog.Logger) *worker.Pool {
	return worker.NewPool(worker.Config{
		WorkerCount: cfg.ActivationWorkers,
		QueueSize:   cfg.ActivationQueueSize,
		TaskTimeout: activationTaskTimeout(cfg),
	}, log)
}

func newDocumentService(cfg *config.Config, repo document.Repository, backend storage.Backend, bots bot.Repository, log zerolog.Logger) *document.Service {
	return document.NewService(repo, backend, bots, document.Config{
		MaxBytes:             cfg.MaxDocumentBytes,
		KnowledgeBaseMaxRune: cfg.KnowledgeBaseMaxRune,
	}, log)
}

func newShortcuts(cfg *config.Config) ([]voicecommand.Shortcut, error) {
	return voicecommand.LoadShortcuts(cfg.VoiceShortcutsFile)
}

func newNavigationService(cfg *config.Config, repo navigation.Repository, bots bot.Repository, shortcuts []voicecommand.Shortcut, log zerolog.Logger) *navigation.Service {
	return navigation.NewService(
		repo,
		bots,
		voicecommand.NewParser(shortcuts),
		sanitizer.New(sanitizer.ParseLevel(cfg.NavigationPIILevel)),
		cfg.NavigationListLimit,
		log,
	)
}

func newBotService(
	cfg *config.Config,
	repo bot.Repository,
	provisioner bot.Provisioner,
	queue bot.ActivationQueue,
	documents *document.Service,
	caches cacheSelection,
	log zerolog.Logger,
) bot.Service {
	return bot.NewService(repo, provisioner, queue, bot.ServiceConfig{
		PublicBaseURL:   cfg.PublicBaseURL,
		ActivationDelay: cfg.ActivationDelay,
		ProvisionPolicy: provisionPolicy(cfg),
	}, log, bot.WithKnowledgeSource(documents), bot.WithStatusCache(caches.cache))
}

func newSweeper(cfg *config.Config, service bot.Service, redisClient *cache.RedisClient, log zerolog.Logger) *crontab.Crontab {
	return crontab.NewCrontab(service, sweepLocker(redisClient), crontab.Config{
		Enabled:         cfg.ActivationSweepEnabled,
		IntervalMinutes: cfg.ActivationSweepInterval,
		Batch:           cfg.ActivationSweepBatch,
	}, log)
}

func newStatusHandler(service bot.Service, caches cacheSelection, log zerolog.Logger) *handlers.StatusHandler {
	return handlers.NewStatusHandler(service, caches.backend, log)
}

func newWidgetHandler(cfg *config.Config, shortcuts []voicecommand.Shortcut, log zerolog.Logger) *handlers.WidgetHandler {
	return handlers.NewWidgetHandler(widgetConfig(cfg, shortcuts), cfg.WidgetAssetsDir, log)
}
