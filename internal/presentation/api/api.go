package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/parlorchat/parlor/internal/infrastructure/auth"
	"github.com/parlorchat/parlor/internal/infrastructure/configs"
	"github.com/parlorchat/parlor/internal/infrastructure/ratelimiter"
	authHandler "github.com/parlorchat/parlor/internal/presentation/handler/auth"
	healthHandler "github.com/parlorchat/parlor/internal/presentation/handler/health"
	messagesHandler "github.com/parlorchat/parlor/internal/presentation/handler/messages"
	profileHandler "github.com/parlorchat/parlor/internal/presentation/handler/profile"
	roomsHandler "github.com/parlorchat/parlor/internal/presentation/handler/rooms"
	socketHandler "github.com/parlorchat/parlor/internal/presentation/handler/socket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Application struct {
	config          configs.Config
	authHandler     authHandler.Handler
	profileHandler  profileHandler.Handler
	roomsHandler    roomsHandler.Handler
	messagesHandler messagesHandler.Handler
	healthHandler   healthHandler.Handler
	socketHandler   socketHandler.Handler
	verifier        auth.Verifier
	logger          *zap.SugaredLogger
	ratelimiter     ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	authHandler authHandler.Handler,
	profileHandler profileHandler.Handler,
	roomsHandler roomsHandler.Handler,
	messagesHandler messagesHandler.Handler,
	healthHandler healthHandler.Handler,
	socketHandler socketHandler.Handler,
	verifier auth.Verifier,
	logger *zap.SugaredLogger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:          config,
		authHandler:     authHandler,
		profileHandler:  profileHandler,
		roomsHandler:    roomsHandler,
		messagesHandler: messagesHandler,
		healthHandler:   healthHandler,
		socketHandler:   socketHandler,
		verifier:        verifier,
		logger:          logger,
		ratelimiter:     ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.authHandler.RegisterHandler)
			r.Post("/login", app.authHandler.LoginHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireAuth)
				r.Get("/me", app.authHandler.MeHandler)
				r.Post("/logout", app.authHandler.LogoutHandler)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(app.requireAuth)
			r.Get("/me", app.profileHandler.GetProfileHandler)
			r.Put("/me", app.profileHandler.UpdateProfileHandler)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", app.roomsHandler.ListRoomsHandler)
			r.Get("/{roomId}", app.roomsHandler.GetRoomHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireAuth)
				r.Post("/", app.roomsHandler.CreateRoomHandler)
				r.Post("/{roomId}/join", app.roomsHandler.JoinRoomHandler)
				r.Post("/{roomId}/leave", app.roomsHandler.LeaveRoomHandler)
				r.Delete("/{roomId}", app.roomsHandler.DeleteRoomHandler)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/{roomId}", app.messagesHandler.ListMessagesHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireAuth)
				r.Post("/", app.messagesHandler.SendMessageHandler)
			})
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Get("/ws", app.socketHandler.ServeWS)

	return otelhttp.NewHandler(r, "parlor-api")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", srv.Addr)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", srv.Addr)

	return nil
}
