// Package metrics определяет счётчики Prometheus для наблюдения
// за аутентификацией. Экспонируются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы входа для метки outcome счётчика LoginAttempts.
const (
	OutcomeSuccess            = "success"
	OutcomeNotFound           = "not_found"
	OutcomeLocked             = "locked"
	OutcomeInvalidCredentials = "invalid_credentials"
)

var (
	// LoginAttempts считает попытки входа по исходам.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// SessionsIssued считает выданные сессии.
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "account_sessions_issued_total",
		Help: "Session tokens issued after successful login.",
	})

	// SignupRequestsSubmitted считает поданные заявки на регистрацию.
	SignupRequestsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "account_signup_requests_submitted_total",
		Help: "Signup requests accepted for review.",
	})
)
