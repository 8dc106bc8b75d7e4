package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	ExchangeName = "resto_notifications"
	ExchangeType = "topic"
	routingKey   = "notifications.sms"
)

// AMQPNotifier publishes confirmation messages to a broker instead of
// calling the gateway directly; a downstream consumer owns delivery.
type AMQPNotifier struct {
	ch *amqp.Channel
}

// notificationEvent is the wire format consumers receive.
type notificationEvent struct {
	ID       string    `json:"id"`
	Phone    string    `json:"phone"`
	Body     string    `json:"body"`
	IssuedAt time.Time `json:"issued_at"`
}

// NewAMQPNotifier dials the broker and declares the topic exchange.
func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	var conn *amqp.Connection
	var err error

	// Simple retry for container startup
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("Failed to connect to RabbitMQ (attempt %d)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return &AMQPNotifier{ch: ch}, nil
}

func (a *AMQPNotifier) SendMessage(ctx context.Context, phone, body string) error {
	event := notificationEvent{
		ID:       uuid.NewString(),
		Phone:    phone,
		Body:     body,
		IssuedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal notification event: %w", err)
	}

	return a.ch.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   event.ID,
			Body:        payload,
		},
	)
}
