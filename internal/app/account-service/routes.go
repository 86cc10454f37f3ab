// Package accountservice предоставляет маршруты для основного приложения.
package accountservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/account-service/internal/cache"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/changepassword"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/me"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/verifyemail"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/admin/requestapprove"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/admin/requestlist"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/admin/requestreject"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/admin/userlist"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/admin/userunlock"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	adminservice "github.com/magabrotheeeer/account-service/internal/services/admin"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
	signupservice "github.com/magabrotheeeer/account-service/internal/services/signup"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	cacheRedis *cache.Cache,
	authService *authservice.AuthService,
	signupService *signupservice.SignupService,
	adminService *adminservice.AdminService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(5), 10))
			r.Post("/login", login.New(logger, authService).ServeHTTP)
			r.Post("/signup", signup.New(logger, signupService).ServeHTTP)
		})
		r.Post("/logout", logout.New(logger, authService).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, logger))
			r.Get("/me", me.New(logger).ServeHTTP)
			r.Post("/change-password", changepassword.New(logger, authService).ServeHTTP)
			r.Post("/verify-email", verifyemail.New(logger, authService).ServeHTTP)

			// Административные конечные точки
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminOnly(logger))
				r.Get("/signup-requests", requestlist.New(logger, signupService).ServeHTTP)
				r.Post("/signup-requests/{id}/approve", requestapprove.New(logger, signupService).ServeHTTP)
				r.Post("/signup-requests/{id}/reject", requestreject.New(logger, signupService).ServeHTTP)
				r.Get("/users", userlist.New(logger, adminService).ServeHTTP)
				r.Post("/users/{id}/unlock", userunlock.New(logger, adminService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db, cacheRedis).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
