// Package container wires the application with Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fitlife/dietplanner/internal/application/catalog"
	"github.com/fitlife/dietplanner/internal/application/dietplan"
	"github.com/fitlife/dietplanner/internal/application/progress"
	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/domain/shared"
	"github.com/fitlife/dietplanner/internal/infrastructure/config"
	"github.com/fitlife/dietplanner/internal/infrastructure/http/apiserver"
	"github.com/fitlife/dietplanner/internal/infrastructure/http/handlers"
	"github.com/fitlife/dietplanner/internal/infrastructure/monitoring"
	gormRepo "github.com/fitlife/dietplanner/internal/infrastructure/persistence/gorm"
	"github.com/fitlife/dietplanner/internal/infrastructure/persistence/memory"
	"github.com/fitlife/dietplanner/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/fitlife/dietplanner/internal/infrastructure/persistence/redis"
	"github.com/fitlife/dietplanner/internal/infrastructure/persistence/sqlite"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/fitlife/dietplanner/pkg/healthcheck"
	"github.com/fitlife/dietplanner/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Event modules
	EventModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule loads configuration from path
func ConfigModule(path string) fx.Option {
	return fx.Provide(func() (*config.Config, error) {
		return config.Load(path)
	})
}

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			Service:     cfg.App.Name,
		})
	},
)

// MonitoringModule provides tracing and metrics
var MonitoringModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		return monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    "dietplanner",
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			JaegerEndpoint: cfg.Monitoring.JaegerEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
	func(log *zap.Logger) *monitoring.MetricsCollector {
		m := monitoring.NewMetricsCollector(log)
		m.RegisterRuntime()
		return m
	},
	func(m *monitoring.MetricsCollector) outbound.Metrics {
		return m
	},
)

// DatabaseModule provides the GORM connection for the configured driver
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (*gorm.DB, error) {
		gormLog := gormRepo.NewZapLogger(log, gormRepo.ParseLogLevel(cfg.Database.LogLevel), cfg.Database.SlowQueryThreshold)

		var (
			db  *gorm.DB
			err error
		)
		switch cfg.Database.Driver {
		case "postgres":
			db, err = postgres.Open(context.Background(), cfg.Database, gormLog, log)
		default:
			db, err = sqlite.Open(cfg.Database.Path, gormLog)
		}
		if err != nil {
			return nil, err
		}

		seeded := false
		if cfg.Database.Seed {
			if seeded, err = sqlite.Seed(context.Background(), db); err != nil {
				return nil, err
			}
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		metrics.RegisterDB(sqlDB, cfg.Database.Driver)

		log.Info("Database ready",
			zap.String("driver", cfg.Database.Driver),
			zap.Bool("seeded", seeded),
		)
		return db, nil
	},
)

// Backends are the cache, lock and event adapters. Redis is nil unless enabled.
type Backends struct {
	fx.Out

	Redis  redis.UniversalClient
	Cache  outbound.CacheRepository
	Locker outbound.Locker
	Events outbound.EventPublisher
	Local  *memory.EventPublisher
}

// CacheModule provides Redis backed adapters, or in-process ones when Redis is disabled
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (Backends, error) {
		local := memory.NewEventPublisher(log)

		if !cfg.Redis.Enabled {
			cache := memory.NewCacheRepository()
			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go cache.Run(ctx, cfg.Cache.CatalogTTL)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
			log.Info("Using in-process cache, locks and events")
			return Backends{Cache: cache, Locker: memory.NewLocker(), Events: local, Local: local}, nil
		}

		client, err := redisRepo.NewClient(context.Background(), cfg.Redis, log)
		if err != nil {
			return Backends{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		return Backends{
			Redis:  client,
			Cache:  redisRepo.NewCacheRepository(client, cfg.Redis.KeyPrefix, log),
			Locker: redisRepo.NewLocker(client, cfg.Redis.KeyPrefix),
			Events: fanOut{redisRepo.NewEventPublisher(client, cfg.Redis.EventChannel, log), local},
			Local:  local,
		}, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewUnitOfWork,
	gormRepo.NewCatalogRepository,
	func() outbound.Clock {
		return outbound.SystemClock{}
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		repo outbound.CatalogRepository,
		cache outbound.CacheRepository,
		metrics outbound.Metrics,
		cfg *config.Config,
		log *zap.Logger,
	) *catalog.Service {
		return catalog.NewService(repo, cache, metrics, catalog.Options{LibraryTTL: cfg.Cache.CatalogTTL}, log)
	},
	func(s *catalog.Service) inbound.CatalogService {
		return s
	},
	func(
		uow outbound.UnitOfWork,
		library *catalog.Service,
		locker outbound.Locker,
		events outbound.EventPublisher,
		metrics outbound.Metrics,
		clock outbound.Clock,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.DietPlanService {
		return dietplan.NewService(uow, library, locker, events, metrics, clock, dietplan.Options{
			DefaultDurationDays: cfg.Planner.DefaultDurationDays,
			MaxDurationDays:     cfg.Planner.MaxDurationDays,
			CalorieBand:         cfg.Planner.CalorieBand,
			FallbackRecipeID:    cfg.Planner.FallbackRecipeID,
			LockTTL:             cfg.Planner.LockTTL,
			RandomSeed:          cfg.Planner.RandomSeed,
		}, log)
	},
	fx.Annotate(
		progress.NewService,
		fx.As(new(inbound.ProgressService)),
	),
)

// HTTPModule provides HTTP server, handlers and health checks
var HTTPModule = fx.Provide(
	handlers.NewAPIHandlers,
	func(cfg *config.Config, log *zap.Logger, db *gorm.DB, client redis.UniversalClient, library *catalog.Service) (*healthcheck.HealthCheck, error) {
		hc := healthcheck.New(cfg.App.Version, log.Named("healthcheck"))
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		hc.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
		hc.Register("catalog", library.HealthChecker(cfg.Planner.FallbackRecipeID))
		if client != nil {
			hc.RegisterOptional("redis", healthcheck.NewRedisChecker(client))
		}
		return hc, nil
	},
	apiserver.NewServer,
)

// EventModule subscribes in-process event handlers
var EventModule = fx.Invoke(
	RegisterEventHandlers,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterEventHandlers logs business events as they are published
func RegisterEventHandlers(events *memory.EventPublisher, log *zap.Logger) {
	log = log.Named("events")

	events.Subscribe(diet.DietPlanGeneratedEvent{}.EventName(), func(_ context.Context, e shared.DomainEvent) error {
		ev, ok := e.(diet.DietPlanGeneratedEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T", e)
		}
		log.Info("Diet plan generated",
			zap.String("user_id", ev.UserID),
			zap.String("diet_plan_id", ev.DietPlanID),
			zap.Int("meals", ev.Meals),
			zap.Bool("used_fallback", ev.UsedFallback),
		)
		return nil
	})
	events.Subscribe(diet.MealLoggedEvent{}.EventName(), func(_ context.Context, e shared.DomainEvent) error {
		ev, ok := e.(diet.MealLoggedEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T", e)
		}
		log.Info("Meal logged",
			zap.String("user_id", ev.UserID),
			zap.String("meal_id", ev.MealID),
		)
		return nil
	})
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	tracing *monitoring.TracingProvider,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting DietPlanner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down DietPlanner")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			if err := tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown tracing", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}

// fanOut publishes to every publisher and returns the first error
type fanOut []outbound.EventPublisher

func (f fanOut) Publish(ctx context.Context, event shared.DomainEvent) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
