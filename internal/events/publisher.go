// Package events publishes order lifecycle events to a RabbitMQ topic
// exchange for downstream consumers (reporting, fulfilment). Publishing is
// best-effort: failures are logged and never affect the request that
// triggered them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/streadway/amqp"

	config "github.com/Baratelli/BaratelliMayorista/configs"
)

type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

var _ PublisherInterface = (*Publisher)(nil)

// Default is nil when RABBITMQ_URL is unset; Emit is a no-op then.
var Default PublisherInterface

func Init() {
	cfg := config.LoadRabbitConfig()
	if cfg.URL == "" {
		log.Println("RABBITMQ_URL not set, event publishing disabled")
		return
	}

	p, err := NewPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Printf("failed to init publisher, event publishing disabled: %v", err)
		return
	}
	Default = p
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %v", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %v", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %v", err)
	}

	err = p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %v", err)
	}

	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Emit publishes fire-and-forget on the default publisher.
func Emit(routingKey string, data any) {
	if Default == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := Default.Publish(ctx, routingKey, data); err != nil {
			log.Printf("failed to publish %s event: %v", routingKey, err)
		}
	}()
}
