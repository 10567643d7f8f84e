package domain

import "context"

// EventBus publishes engine events (opportunities, trades) for external
// consumers. Implementations must be safe for concurrent use.
type EventBus interface {
	// Publish sends a raw payload on an ephemeral channel.
	Publish(ctx context.Context, channel string, payload []byte) error
	// StreamAppend appends a payload to a capped, ordered stream.
	StreamAppend(ctx context.Context, stream string, payload []byte) error
}

// TradeExporter persists executed trades outside the core. Calls are
// idempotent and side-effect-free on core state.
type TradeExporter interface {
	Export(trades []ExecutedTrade) error
}
