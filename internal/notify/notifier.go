// Package notify delivers order-confirmation messages to customers.
// Delivery is fire-and-forget: the caller's transaction must never be
// failed or delayed by the gateway.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier sends a text message to a phone number.
type Notifier interface {
	SendMessage(ctx context.Context, phone, body string) error
}

type message struct {
	phone string
	body  string
}

// Dispatcher hands messages to a background worker so HTTP handlers
// return without waiting on the gateway. Enqueue never blocks: when the
// queue is full the message is dropped and logged.
type Dispatcher struct {
	notifier Notifier
	queue    chan message
	timeout  time.Duration
	done     chan struct{}
}

func NewDispatcher(n Notifier, queueSize int, timeout time.Duration) *Dispatcher {
	d := &Dispatcher{
		notifier: n,
		queue:    make(chan message, queueSize),
		timeout:  timeout,
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Enqueue(phone, body string) {
	select {
	case d.queue <- message{phone: phone, body: body}:
	default:
		log.Warn().Str("phone", phone).Msg("Notification queue full, message dropped")
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.notifier.SendMessage(ctx, msg.phone, msg.body)
		cancel()
		if err != nil {
			// Swallowed on purpose: observable for operators, invisible
			// to the caller whose status update already committed.
			log.Error().Err(err).Str("phone", msg.phone).Msg("Failed to deliver notification")
			continue
		}
		log.Info().Str("phone", msg.phone).Msg("Notification delivered")
	}
}

// Close drains pending messages and stops the worker.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
