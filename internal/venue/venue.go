// Package venue contains WebSocket market data connectors for the supported
// exchanges. Each connector normalizes exchange payloads into domain
// snapshots and pushes them to registered handlers.
package venue

import (
	"context"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// Venue name constants used as keys in the market state cache.
const (
	Binance     = "Binance"
	BinancePerp = "BinancePerp"
	OKX         = "OKX"
	Bybit       = "Bybit"
)

// BookHandler is called for every normalized top-of-book update.
type BookHandler func(domain.OrderBookSnapshot)

// FundingHandler is called for every normalized funding rate update.
type FundingHandler func(domain.FundingSnapshot)

// Connector is a live market data feed for one exchange.
type Connector interface {
	// Name returns the venue name used as the cache key.
	Name() string

	// Connect establishes the WebSocket connection and starts streaming.
	// It returns once the connection is up; message dispatch happens on
	// background goroutines until Close is called.
	Connect(ctx context.Context) error

	// Close shuts the connection down and stops all background goroutines.
	Close() error
}
