// @title           Kostmate Booking API
// @version         1.0
// @description     Service booking for boarding-house residents.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/kostmate/booking-api/internal/api"
	"github.com/kostmate/booking-api/internal/core/ports"
	"github.com/kostmate/booking-api/internal/core/service"
	"github.com/kostmate/booking-api/internal/infrastructure/db/memory"
	"github.com/kostmate/booking-api/internal/infrastructure/db/mongo"
	"github.com/kostmate/booking-api/internal/infrastructure/db/redis"
	"github.com/kostmate/booking-api/internal/infrastructure/queue"
	"github.com/kostmate/booking-api/internal/pkg/config"
	"github.com/kostmate/booking-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// storage groups the repositories selected by STORAGE_BACKEND.
type storage struct {
	orders    ports.OrderRepository
	directory ports.Directory
	events    ports.EventRepository
	db        *gomongo.Database
}

// sessions groups the stores selected by SESSION_BACKEND.
type sessions struct {
	provider    ports.SessionProvider
	idempotency ports.IdempotencyStore
	client      *goredis.Client
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "booking-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("booking api stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	policy, err := service.ParseTransitionPolicy(cfg.Orders.TransitionPolicy)
	if err != nil {
		return err
	}

	store, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sess, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	if err := service.SeedDirectory(ctx, store.directory); err != nil {
		return err
	}

	// --- Event fan-out ---
	eventService := service.NewEventService(store.events, logger.Component("events"))
	dispatcher := queue.NewDispatcher(cfg.Orders.EventWorkers, eventService, logger.Component("dispatcher"))
	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	defer cancelDispatch()
	dispatcher.Start(dispatchCtx)

	// --- Services ---
	verifier := service.NewDirectoryVerifier(store.directory)
	identities := service.NewIdentityRegistry(verifier, store.directory, sess.provider, logger.Component("identity"))
	orders := service.NewOrderService(store.orders, logger.Component("orders"),
		service.WithIdempotency(sess.idempotency),
		service.WithEventPublisher(dispatcher),
		service.WithTransitionPolicy(policy),
	)
	stats := service.NewStatsService(store.orders, cfg.Orders.PlatformShare)

	e := api.NewRouter(api.Dependencies{
		Logger:     logger.Component("http"),
		JWTSecret:  cfg.JWTSecret,
		Identities: identities,
		Tokens:     service.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Ledger:     orders,
		Stats:      stats,
		Events:     eventService,
		Mongo:      store.db,
		Redis:      sess.client,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.StorageBackend).
			Str("sessions", cfg.SessionBackend).
			Str("transition_policy", string(policy)).
			Msg("booking api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Requests are done; let the workers drain the queued events.
	dispatcher.Close()
	dispatcher.Wait()
	log.Info().Msg("event workers stopped")
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config) (storage, func(), error) {
	if cfg.StorageBackend != config.BackendMongo {
		return storage{
			orders:    memory.NewOrderRepository(),
			directory: memory.NewDirectory(),
			events:    memory.NewEventRepository(),
		}, func() {}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return storage{}, nil, err
	}
	closeFn := func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		closeFn()
		return storage{}, nil, err
	}
	return storage{
		orders:    mongo.NewOrderRepository(db),
		directory: mongo.NewDirectory(db),
		events:    mongo.NewEventRepository(db),
		db:        db,
	}, closeFn, nil
}

func openSessions(ctx context.Context, cfg *config.Config) (sessions, func(), error) {
	if cfg.SessionBackend != config.BackendRedis {
		return sessions{
			provider:    memory.NewSessionProvider(cfg.SessionKeyPrefix),
			idempotency: memory.NewIdempotencyStore(),
		}, func() {}, nil
	}

	client, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return sessions{}, nil, err
	}
	return sessions{
		provider:    redis.NewSessionProvider(client, cfg.SessionKeyPrefix, cfg.SessionTTL),
		idempotency: redis.NewIdempotencyStore(client),
		client:      client,
	}, func() { _ = client.Close() }, nil
}
