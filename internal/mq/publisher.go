// Package mq publishes domain events to a RabbitMQ topic exchange.
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the slice of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type dialFunc func(url, exchange string) (io.Closer, channel, error)

// Publisher owns one connection and channel. A channel the broker closed is
// replaced on the next publish.
type Publisher struct {
	mu       sync.Mutex
	url      string
	exchange string
	dial     dialFunc
	conn     io.Closer
	ch       channel
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	p := &Publisher{url: url, exchange: exchange, dial: dialExchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialExchange(url, exchange string) (io.Closer, channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, ch, nil
}

// connect drops whatever is left of the old connection and dials anew.
// Callers hold mu, except NewPublisher.
func (p *Publisher) connect() error {
	p.drop()
	conn, ch, err := p.dial(p.url, p.exchange)
	if err != nil {
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) drop() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// PublishJSON sends v as a persistent JSON message under key. A publish that
// fails because the channel is closed is retried once on a fresh one.
func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	msg, err := jsonMessage(v, time.Now())
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	if !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	log.Printf("[mq] channel closed, redialing exchange=%s", p.exchange)
	if err := p.connect(); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
}

func jsonMessage(v any, now time.Time) (amqp.Publishing, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    now.UTC(),
		Body:         b,
	}, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err = p.conn.Close()
		p.conn = nil
	}
	return err
}
