// Package events публикует доменные события приложения в RabbitMQ.
// Публикация не влияет на результат запроса: ошибки только логируются
// вызывающей стороной.
package events

import (
	"time"

	"github.com/streadway/amqp"

	"github.com/movieflex/movieflex/internal/lib/rabbitmq"
)

// Типы публикуемых событий.
const (
	UserRegistered = "user.registered"
	MovieCreated   = "movie.created"
	MovieUpdated   = "movie.updated"
	MovieDeleted   = "movie.deleted"
)

// Event — сообщение, уходящее в очередь событий.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(eventType string, payload any) error
}

// AMQPPublisher публикует события в exchange каталога.
type AMQPPublisher struct {
	ch *amqp.Channel
}

// NewAMQPPublisher возвращает publisher поверх открытого канала.
func NewAMQPPublisher(ch *amqp.Channel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch}
}

// Publish отправляет событие с routing key по префиксу типа
// ("movie.created" → "movie", "user.registered" → "user").
func (p *AMQPPublisher) Publish(eventType string, payload any) error {
	event := Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	return rabbitmq.PublishMessage(p.ch, rabbitmq.Exchange, routingKey(eventType), event)
}

func routingKey(eventType string) string {
	for i := range eventType {
		if eventType[i] == '.' {
			return eventType[:i]
		}
	}
	return eventType
}

// Noop — заглушка, когда публикация событий выключена в конфигурации.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(string, any) error { return nil }
