package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/recipehub/recipe-api/internal/api"
	"github.com/recipehub/recipe-api/internal/api/metrics"
	"github.com/recipehub/recipe-api/internal/core/service"
	"github.com/recipehub/recipe-api/internal/infrastructure/db/mongo"
	"github.com/recipehub/recipe-api/internal/infrastructure/db/redis"
	"github.com/recipehub/recipe-api/internal/infrastructure/http/handlers"
	"github.com/recipehub/recipe-api/internal/infrastructure/queue"
	"github.com/recipehub/recipe-api/internal/pkg/config"
	"github.com/recipehub/recipe-api/internal/pkg/password"
	"github.com/recipehub/recipe-api/internal/pkg/token"
	"github.com/recipehub/recipe-api/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	seedTimeout     = 30 * time.Second
)

// @title                       Recipe Management API
// @version                     1.0
// @description                 CRUD backend for recipes with Argon2id accounts and HS256 tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// A missing .env is fine; real deployments inject the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Level: "error"})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "recipe-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// ── MongoDB ──────────────────────────────────────────────
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	userRepo := mongo.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	recipeRepo := mongo.NewRecipeRepository(db)
	eventRepo := mongo.NewEventRepository(db)

	checks := map[string]handlers.Check{"mongodb": mongo.Ping(db)}

	// ── Redis (optional) ─────────────────────────────────────
	var idem service.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func(c *goredis.Client) { _ = c.Close() }(rdb)
		idem = redis.NewIdempotencyStore(rdb)
		checks["redis"] = redis.Ping(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis, idempotency keys enabled")
	} else {
		log.Info().Msg("REDIS_ADDR not set, idempotency keys disabled")
	}

	// ── Security ─────────────────────────────────────────────
	hasher := password.NewArgon2id(password.Params{
		Memory:      cfg.Argon2.MemoryKiB,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})
	tokens, err := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	// ── Activity pipeline ────────────────────────────────────
	activity := service.NewActivityService(eventRepo, logger.Component("activity"))
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activity, logger.Component("dispatcher"))
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Stop()

	// ── Services & router ────────────────────────────────────
	authService := service.NewAuthService(userRepo, hasher, tokens, logger.Component("auth"))
	recipeService := service.NewRecipeService(recipeRepo, idem, dispatcher, logger.Component("recipes"))

	e := api.NewRouter(api.Deps{
		AuthService:           authService,
		RecipeService:         recipeService,
		Tokens:                tokens,
		Logger:                log,
		AuthRequiredForWrites: cfg.AuthRequiredForWrites,
		CORSOrigins:           cfg.CORSOrigins,
		ReadinessChecks:       checks,
	})

	// ── Server ───────────────────────────────────────────────
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return err
	}
	e.Listener = ln

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("auth_required_for_writes", cfg.AuthRequiredForWrites).Msg("server listening")
		if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if cfg.SeedOnStartup {
		go seed(ctx, recipeService, log)
	}

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown incomplete")
	}
	return nil
}

// seed inserts the sample recipes once the listener is bound. Failures are
// logged and never stop the server.
func seed(ctx context.Context, svc *service.RecipeService, log zerolog.Logger) {
	sctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	n, err := svc.SeedSampleRecipes(sctx)
	if err != nil {
		log.Error().Err(err).Msg("seeding sample recipes failed")
		return
	}
	metrics.SeededRecipesTotal.Add(float64(n))
}
