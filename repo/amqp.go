package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"QuizBot/model"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes interactions to a topic exchange, routed by
// interaction type. The connection is (re)established on demand.
type AMQPPublisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPPublisher(url, exchange string) *AMQPPublisher {
	return &AMQPPublisher{url: url, exchange: exchange}
}

type interactionMessage struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	Type     string `json:"filter_type"`
	Value    string `json:"filter_value"`
	At       string `json:"at"`
}

func (p *AMQPPublisher) ensureChannel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && !p.conn.IsClosed() && p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}
	if p.url == "" {
		return nil, errors.New("RABBITMQ_URL is required")
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Properties: amqp.Table{
		"connection_name": "quizbot-analytics",
	}})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}

	p.conn = conn
	p.channel = ch
	return ch, nil
}

func (p *AMQPPublisher) RecordInteraction(ctx context.Context, in model.Interaction) error {
	ch, err := p.ensureChannel()
	if err != nil {
		return err
	}

	body, err := json.Marshal(interactionMessage{
		UserID:   in.UserID,
		UserName: in.UserName,
		Type:     in.Type,
		Value:    in.Value,
		At:       in.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	return ch.PublishWithContext(ctx, p.exchange, "interaction."+in.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		DeliveryMode: amqp.Persistent,
		Timestamp:    in.At,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
