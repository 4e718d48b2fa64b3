package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/dgraph-io/badger/v4"
	"github.com/parlorchat/parlor/internal/infrastructure/auth"
	"github.com/parlorchat/parlor/internal/infrastructure/configs"
	"github.com/parlorchat/parlor/internal/infrastructure/ratelimiter"
	"github.com/parlorchat/parlor/internal/infrastructure/repository"
	"github.com/parlorchat/parlor/internal/infrastructure/tracing"
	"github.com/parlorchat/parlor/internal/infrastructure/ws"
	"github.com/parlorchat/parlor/internal/presentation/api"
	authHandler "github.com/parlorchat/parlor/internal/presentation/handler/auth"
	healthHandler "github.com/parlorchat/parlor/internal/presentation/handler/health"
	messagesHandler "github.com/parlorchat/parlor/internal/presentation/handler/messages"
	profileHandler "github.com/parlorchat/parlor/internal/presentation/handler/profile"
	roomsHandler "github.com/parlorchat/parlor/internal/presentation/handler/rooms"
	socketHandler "github.com/parlorchat/parlor/internal/presentation/handler/socket"
	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	shutdownTracer, err := tracing.InitTracer(tracing.NewDefaultConfig("parlor-api"))
	if err != nil {
		logger.Warnw("tracing disabled", "err", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.Store.Path).WithLogger(nil))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	userRepository := repository.NewUserRepository(db)
	roomRepository := repository.NewRoomRepository()
	messageRepository := repository.NewMessageRepository(db)

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	hasher := auth.NewPasswordHasher()

	registry := ws.NewRegistry()
	hub := ws.NewHub(registry, roomRepository, messageRepository, logger)
	go hub.Run()

	rateLimiter := ratelimiter.NewFixedWindowRateLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer rateLimiter.Close()

	app := api.NewApplication(
		*cfg,
		*authHandler.NewHandler(userRepository, hasher, tokens),
		*profileHandler.NewHandler(userRepository),
		*roomsHandler.NewHandler(roomRepository, userRepository),
		*messagesHandler.NewHandler(messageRepository, roomRepository),
		*healthHandler.NewHandler(),
		*socketHandler.NewHandler(hub, tokens, logger),
		tokens,
		logger,
		rateLimiter,
	)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}
