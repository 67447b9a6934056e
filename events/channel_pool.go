package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

var ErrPoolClosed = errors.New("channel pool closed")

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// ChannelPool keeps a fixed set of channels on one connection, each with
// the target queue declared.
type ChannelPool struct {
	conn      *amqp.Connection
	channels  chan Channel
	mu        sync.Mutex
	closed    bool
	size      int
	queueName string
	log       zerolog.Logger
}

// NewChannelPool dials url and pre-creates size channels.
func NewChannelPool(url, queueName string, size int, log zerolog.Logger) (*ChannelPool, error) {
	if size < 1 {
		return nil, fmt.Errorf("channel pool size must be >= 1, got %d", size)
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	pool := &ChannelPool{
		conn:      conn,
		channels:  make(chan Channel, size),
		size:      size,
		queueName: queueName,
		log:       log,
	}
	for i := 0; i < size; i++ {
		ch, err := pool.createChannel()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("create channel %d: %w", i, err)
		}
		pool.channels <- ch
	}

	log.Info().Int("size", size).Str("queue", queueName).Msg("rabbitmq channel pool ready")
	return pool, nil
}

func (p *ChannelPool) createChannel() (Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return ch, nil
}

// GetChannel waits for a free channel. A channel that died while pooled is
// replaced.
func (p *ChannelPool) GetChannel(ctx context.Context) (Channel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, ErrPoolClosed
		}
		if ch.IsClosed() {
			p.log.Warn().Msg("replacing closed rabbitmq channel")
			return p.createChannel()
		}
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ReturnChannel hands ch back. Dead channels and channels returned after
// Close are discarded.
func (p *ChannelPool) ReturnChannel(ch Channel) {
	if ch == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || ch.IsClosed() {
		if !ch.IsClosed() {
			ch.Close()
		}
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

func (p *ChannelPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	var err error
	if p.conn != nil {
		err = p.conn.Close()
	}
	p.log.Info().Msg("rabbitmq channel pool closed")
	return err
}
