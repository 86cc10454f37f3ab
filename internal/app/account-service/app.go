// Package accountservice собирает приложение: хранилище, кеш, брокер
// событий, сервисы и HTTP-сервер с graceful shutdown.
package accountservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/account-service/internal/cache"
	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/events"
	"github.com/magabrotheeeer/account-service/internal/lib/password"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/migrations"
	"github.com/magabrotheeeer/account-service/internal/models"
	adminservice "github.com/magabrotheeeer/account-service/internal/services/admin"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
	signupservice "github.com/magabrotheeeer/account-service/internal/services/signup"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// App инкапсулирует собранное приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   io.Closer
}

// New собирает приложение из конфигурации: подключает PostgreSQL,
// применяет миграции, подключает Redis и RabbitMQ (недоступный брокер
// не фатален), создает стартового администратора и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.NopPublisher{}
	var amqpCloser io.Closer
	if cfg.AMQPConnection != "" {
		conn, err := events.Connect(cfg.AMQPConnection, 5, 2*time.Second)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events disabled", sl.Err(err))
		} else {
			amqpPublisher, err := events.NewAMQPPublisher(conn, logger)
			if err != nil {
				logger.Warn("failed to set up event publisher, events disabled", sl.Err(err))
			} else {
				publisher = amqpPublisher
				amqpCloser = conn
			}
		}
	}

	hasher := password.NewHasher(cfg.PasswordHashing.Iterations)

	if err = ensureBootstrapAdmin(ctx, db, hasher, cfg.AdminBootstrap, logger); err != nil {
		return nil, err
	}

	authService := authservice.NewAuthService(db, db, cacheRedis, hasher, publisher, authservice.Config{
		TokenTTL:       cfg.Sessions.TokenTTL,
		CacheTTL:       cfg.Sessions.CacheTTL,
		ThrottleWindow: cfg.LoginThrottle.Window,
		MaxFails:       cfg.LoginThrottle.MaxFails,
	}, logger)
	signupService := signupservice.NewSignupService(db, hasher, publisher, cfg.Verification.CodeTTL, logger)
	adminService := adminservice.NewAdminService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, cacheRedis, authService, signupService, adminService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   amqpCloser,
	}, nil
}

// ensureBootstrapAdmin гарантирует существование стартового администратора.
// Существующая учётная запись с этим именем повышается до администратора,
// отсутствующая создается с обязательной сменой пароля при первом входе.
func ensureBootstrapAdmin(ctx context.Context, db *repository.Storage,
	hasher *password.Hasher, cfg config.AdminBootstrap, logger *slog.Logger) error {
	const op = "app.ensureBootstrapAdmin"

	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}

	var email *string
	if cfg.Email != "" {
		email = &cfg.Email
	}

	user, err := db.GetUserByUsername(ctx, cfg.Username)
	if err == nil {
		if user.IsAdmin {
			return nil
		}
		if err = db.PromoteToAdmin(ctx, user.ID, email); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("existing user promoted to bootstrap admin",
			slog.String("username", cfg.Username))
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = db.CreateUser(ctx, models.User{
		Username:           cfg.Username,
		Email:              email,
		PasswordHash:       hash,
		IsAdmin:            true,
		MustChangePassword: true,
		EmailVerified:      true,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("bootstrap admin created", slog.String("username", cfg.Username))
	return nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeResources()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeResources()
		return err
	}
}

// closeResources закрывает соединения с брокером и базой данных.
func (a *App) closeResources() {
	if a.amqp != nil {
		_ = a.amqp.Close()
	}
	_ = a.db.DB.Close()
}
