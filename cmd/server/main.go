package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/gamblers/ledger-api/internal/api"
	"github.com/gamblers/ledger-api/internal/api/handler"
	"github.com/gamblers/ledger-api/internal/core/ports"
	"github.com/gamblers/ledger-api/internal/core/service"
	"github.com/gamblers/ledger-api/internal/infrastructure/config"
	"github.com/gamblers/ledger-api/internal/infrastructure/db/memory"
	"github.com/gamblers/ledger-api/internal/infrastructure/db/mongo"
	redisdb "github.com/gamblers/ledger-api/internal/infrastructure/db/redis"
	"github.com/gamblers/ledger-api/internal/infrastructure/queue"
	"github.com/gamblers/ledger-api/pkg/logger"
)

// @title        Ledger API
// @version      1.0
// @description  Multi-tenant ledger: users, consent and monetary transactions behind JWT authentication.
// @BasePath     /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// storage groups the adapters chosen by STORAGE.
type storage struct {
	users        ports.UserRepository
	transactions ports.TransactionRepository
	audit        ports.AuditRepository
	revoker      ports.TokenRevoker
	readiness    map[string]handler.DependencyCheck
	close        func(ctx context.Context)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "ledger-api",
	})

	key, err := service.LoadSigningKey(cfg.JWTSecret, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("load signing key")
	}
	if key.Source == service.KeySourceEphemeral {
		log.Warn().Msg("JWT_SECRET missing or too short: using an ephemeral signing key, tokens will not survive a restart")
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("open storage")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, store.audit, log)
	audit.Start(workerCtx)

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(key, cfg.TokenTTL)
	authService := service.NewAuthService(store.users, hasher, tokens, store.revoker, audit, log)
	authorizer := service.NewAuthorizer(tokens, store.users, store.revoker, log)
	userService := service.NewUserService(store.users, hasher, audit, log)
	txService := service.NewTransactionService(store.transactions, store.users, log)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("bootstrap admin")
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("admin account created")
		}
	}

	e := api.NewRouter(api.Dependencies{
		Log:               log,
		Auth:              authService,
		Authenticator:     authorizer,
		Users:             userService,
		Transactions:      txService,
		Readiness:         store.readiness,
		MetricsRegisterer: prometheus.DefaultRegisterer,
		MetricsGatherer:   prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage).Msg("ledger api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	stopWorkers()
	audit.Wait()
	store.close(shutdownCtx)
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("using in-memory storage: data is lost on restart")
		return &storage{
			users:        memory.NewUserRepository(),
			transactions: memory.NewTransactionRepository(),
			revoker:      memory.NewRevocationList(),
			readiness:    map[string]handler.DependencyCheck{},
			close:        func(context.Context) {},
		}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	users := mongo.NewUserRepository(db)
	transactions := mongo.NewTransactionRepository(db)
	audit := mongo.NewAuditRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, transactions, audit); err != nil {
		_ = client.Disconnect(ctx)
		_ = rdb.Close()
		return nil, err
	}

	return &storage{
		users:        users,
		transactions: transactions,
		audit:        audit,
		revoker:      redisdb.NewRevocationStore(rdb),
		readiness: map[string]handler.DependencyCheck{
			"mongodb": mongoCheck(client),
			"redis":   redisCheck(rdb),
		},
		close: func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("redis close")
			}
		},
	}, nil
}

func mongoCheck(client *mongodriver.Client) handler.DependencyCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}

func redisCheck(rdb *redis.Client) handler.DependencyCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
