package bus

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// Channel and stream names used by the engine.
const (
	ChannelOpportunities = "opportunities"
	ChannelTrades        = "trades"
	StreamTrades         = "stream:trades"
)

// defaultStreamMaxLen is the approximate cap on stream length, enforced via
// XADD MAXLEN ~.
const defaultStreamMaxLen int64 = 10000

// Publisher implements domain.EventBus on a Redis connection.
type Publisher struct {
	rdb    *redis.Client
	maxLen int64
}

// NewPublisher creates a Publisher backed by the given Client. A
// non-positive streamMaxLen falls back to the default cap.
func NewPublisher(c *Client, streamMaxLen int64) *Publisher {
	if streamMaxLen <= 0 {
		streamMaxLen = defaultStreamMaxLen
	}
	return &Publisher{rdb: c.Underlying(), maxLen: streamMaxLen}
}

// Publish sends a raw payload on a Pub/Sub channel.
func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("bus: publish %s: %w", channel, err)
	}
	return nil
}

// StreamAppend appends a payload to a capped Redis stream.
func (p *Publisher) StreamAppend(ctx context.Context, stream string, payload []byte) error {
	args := &redis.XAddArgs{
		Stream: stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"payload": payload,
		},
	}
	if err := p.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("bus: stream append %s: %w", stream, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.EventBus = (*Publisher)(nil)
