package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poketeam/internal/cache"
	"poketeam/internal/config"
	"poketeam/internal/handlers"
	"poketeam/internal/middleware"
	"poketeam/internal/repositories"
	"poketeam/internal/services"
	"poketeam/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dialTimeout = 3 * time.Second

// Deps are the external resources the application runs on. Events and Cache
// are optional.
type Deps struct {
	DB     *gorm.DB
	Events services.EventPublisher
	Cache  cache.Cache
}

// Connect opens the database and, when configured, Redis and RabbitMQ. A cache
// or broker that cannot be reached is logged and left disabled. The returned
// func releases whatever was opened.
func Connect(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (Deps, func(), error) {
	var (
		deps    Deps
		closers []func() error
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warnw("failed to release resource", "error", err)
			}
		}
	}

	db, err := repositories.Open(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		return Deps{}, cleanup, err
	}
	deps.DB = db
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB.Close)
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warnw("redis unavailable, build cache disabled", "addr", cfg.Redis.Addr, "error", err)
			_ = rdb.Close()
		} else {
			deps.Cache = cache.NewRedisCache(rdb)
			closers = append(closers, rdb.Close)
			log.Infow("build cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
		}
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			log.Warnw("rabbitmq unavailable, events disabled", "error", err)
		} else {
			deps.Events = mq
			closers = append(closers, mq.Close)
			if err := mq.ConsumeEvents(rabbitmq.LogEvents(log.Named("events"))); err != nil {
				log.Warnw("failed to start event consumer", "error", err)
			}
		}
	}

	return deps, cleanup, nil
}

// NewApp builds the fiber application with every route registered.
func NewApp(cfg *config.Config, log *zap.SugaredLogger, deps Deps) (*fiber.App, error) {
	if deps.DB == nil {
		return nil, errors.New("database is required")
	}

	userRepo := repositories.NewGORMUserRepository(deps.DB)
	buildRepo := repositories.NewGORMBuildRepository(deps.DB)
	teamRepo := repositories.NewGORMTeamRepository(deps.DB)
	tx := repositories.NewGORMTransactor(deps.DB)

	authService := services.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL, deps.Events, log)
	teamService := services.NewTeamService(teamRepo, buildRepo, tx, deps.Events, log)
	buildService := services.NewBuildService(buildRepo, teamService, tx, deps.Cache, cfg.Cache.TTL, deps.Events, log)
	userService := services.NewUserService(userRepo, buildRepo, teamRepo, tx, deps.Cache, deps.Events, log)

	app := fiber.New(fiber.Config{
		AppName:      "poketeam",
		ErrorHandler: handlers.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log.Named("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if err := ping(c.UserContext(), deps.DB); err != nil {
			log.Warnw("health check failed", "error", err)
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	guard := middleware.AuthRequired(authService, log.Named("auth_guard"))
	api := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, log).RegisterRoutes(api)
	handlers.NewUserHandler(userService).RegisterRoutes(api, guard)
	handlers.NewBuildHandler(buildService).RegisterRoutes(api, guard)
	handlers.NewTeamHandler(teamService).RegisterRoutes(api, guard)

	app.Use(handlers.NotFound)
	return app, nil
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
