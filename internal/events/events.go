// Package events публикует события жизненного цикла учётных записей
// в RabbitMQ: подача и рассмотрение заявок, блокировка учётной записи.
// Публикация выполняется по принципу fire-and-forget: недоступность
// брокера не должна влиять на ход аутентификации.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/account-service/internal/lib/sl"
)

// Виды событий.
const (
	KindSignupSubmitted = "signup_submitted"
	KindSignupApproved  = "signup_approved"
	KindSignupRejected  = "signup_rejected"
	KindAccountLocked   = "account_locked"
)

const exchangeName = "account-events"

// Event описывает одно событие жизненного цикла учётной записи.
// Одноразовый код подтверждения в события не попадает.
type Event struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Username   string `json:"username,omitempty"`
	RequestID  int64  `json:"request_id,omitempty"`
	OccurredAt int64  `json:"occurred_at"`
}

// Publisher описывает публикацию событий. Реализуется AMQPPublisher
// и NopPublisher, в тестах заменяется моком.
type Publisher interface {
	Publish(kind, username string, requestID int64)
}

// AMQPPublisher публикует события в exchange account-events.
type AMQPPublisher struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// Connect устанавливает соединение с RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewAMQPPublisher открывает канал и объявляет exchange для событий.
func NewAMQPPublisher(conn *amqp.Connection, log *slog.Logger) (*AMQPPublisher, error) {
	const op = "events.NewAMQPPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		exchangeName,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AMQPPublisher{ch: ch, log: log}, nil
}

// Publish отправляет событие. Ошибки публикации только логируются.
func (p *AMQPPublisher) Publish(kind, username string, requestID int64) {
	event := Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Username:   username,
		RequestID:  requestID,
		OccurredAt: time.Now().Unix(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("failed to marshal event", sl.Err(err))
		return
	}
	err = p.ch.Publish(
		exchangeName,
		kind,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		p.log.Warn("failed to publish event",
			slog.String("kind", kind), sl.Err(err))
	}
}

// NopPublisher используется, когда брокер не настроен.
type NopPublisher struct{}

// Publish ничего не делает.
func (NopPublisher) Publish(_, _ string, _ int64) {}
