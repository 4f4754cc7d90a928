package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/metrics"
)

// DefaultChannelFormat is the redis channel every board's item events go to
const DefaultChannelFormat = "board:%s:items"

// publisher is the slice of *redis.Client the publisher needs
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes the tagged event JSON on the board channel
type RedisPublisher struct {
	client        publisher
	channelFormat string
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

// NewRedisPublisher creates a publisher. An empty format uses DefaultChannelFormat.
func NewRedisPublisher(client publisher, channelFormat string, logger *zap.Logger, m *metrics.Metrics) *RedisPublisher {
	if channelFormat == "" {
		channelFormat = DefaultChannelFormat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{
		client:        client,
		channelFormat: channelFormat,
		logger:        logger,
		metrics:       m,
	}
}

// Channel returns the channel name for a board
func (p *RedisPublisher) Channel(boardID fmt.Stringer) string {
	return fmt.Sprintf(p.channelFormat, boardID.String())
}

// Dispatch implements Dispatcher
func (p *RedisPublisher) Dispatch(ctx context.Context, event domain.ItemUpdateEvent) {
	if p.client == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal item event for publish",
			zap.String("item_id", event.Item.ID.String()),
			zap.Error(err),
		)
		p.record(err)
		return
	}

	channel := p.Channel(event.Item.BoardID)
	err = p.client.Publish(ctx, channel, data).Err()
	if err != nil {
		p.logger.Error("failed to publish item event",
			zap.String("channel", channel),
			zap.Error(err),
		)
	}
	p.record(err)
}

func (p *RedisPublisher) record(err error) {
	if p.metrics != nil {
		p.metrics.RecordNotification("redis", err)
	}
}
