package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	models "shop-backend/model"
)

const publishTimeout = 5 * time.Second

// pool is satisfied by *ChannelPool.
type pool interface {
	GetChannel(ctx context.Context) (Channel, error)
	ReturnChannel(ch Channel)
}

type Publisher struct {
	pool      pool
	queueName string
	log       zerolog.Logger
}

func NewPublisher(p *ChannelPool, queueName string, log zerolog.Logger) *Publisher {
	return &Publisher{pool: p, queueName: queueName, log: log}
}

// PublishStockEvent sends ev to the stock queue as persistent JSON.
func (p *Publisher) PublishStockEvent(ctx context.Context, ev models.StockEvent) error {
	msg, err := stockMessage(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.pool.GetChannel(ctx)
	if err != nil {
		return fmt.Errorf("get channel from pool: %w", err)
	}
	defer p.pool.ReturnChannel(ch)

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("publish stock event: %w", err)
	}

	p.log.Debug().Int64("product_id", ev.ProductID).Int("remaining", ev.RemainingStock).Msg("stock event published")
	return nil
}

func stockMessage(ev models.StockEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal stock event: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         "stock.purchased",
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}, nil
}
