package venue

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// BinanceSpot streams best bid/ask from the Binance spot bookTicker channel.
type BinanceSpot struct {
	client    *wsClient
	symbol    string // exchange format, e.g. "btcusdt"
	canonical string // engine format, e.g. "BTC/USDT"
	onBook    BookHandler
	logger    *slog.Logger
}

// NewBinanceSpot creates a connector for the Binance spot bookTicker stream.
// canonical is the engine-side symbol the updates are published under.
func NewBinanceSpot(url, symbol, canonical string, onBook BookHandler, logger *slog.Logger) *BinanceSpot {
	b := &BinanceSpot{
		symbol:    strings.ToLower(symbol),
		canonical: canonical,
		onBook:    onBook,
		logger:    logger.With(slog.String("component", "venue.binance")),
	}
	b.client = newWSClient(url, b.logger, b.subscribeMessages, b.handleMessage)
	return b
}

func (b *BinanceSpot) Name() string { return Binance }

func (b *BinanceSpot) Connect(ctx context.Context) error { return b.client.connect(ctx) }

func (b *BinanceSpot) Close() error { return b.client.close() }

func (b *BinanceSpot) subscribeMessages() [][]byte {
	msg, _ := json.Marshal(map[string]any{
		"method": "SUBSCRIBE",
		"params": []string{b.symbol + "@bookTicker"},
		"id":     1,
	})
	return [][]byte{msg}
}

// binanceBookTicker is the payload of the spot bookTicker stream.
type binanceBookTicker struct {
	Symbol string `json:"s"`
	BidPx  string `json:"b"`
	BidQty string `json:"B"`
	AskPx  string `json:"a"`
	AskQty string `json:"A"`
}

func (b *BinanceSpot) handleMessage(raw []byte) {
	snap, ok := parseBinanceBookTicker(raw, b.canonical)
	if !ok {
		return
	}
	b.onBook(snap)
}

// parseBinanceBookTicker normalizes one bookTicker payload. It returns false
// for subscribe acks and messages with unusable prices.
func parseBinanceBookTicker(raw []byte, canonical string) (domain.OrderBookSnapshot, bool) {
	var msg binanceBookTicker
	if err := json.Unmarshal(raw, &msg); err != nil || msg.BidPx == "" {
		return domain.OrderBookSnapshot{}, false
	}

	bid, err1 := strconv.ParseFloat(msg.BidPx, 64)
	bidQty, err2 := strconv.ParseFloat(msg.BidQty, 64)
	ask, err3 := strconv.ParseFloat(msg.AskPx, 64)
	askQty, err4 := strconv.ParseFloat(msg.AskQty, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return domain.OrderBookSnapshot{}, false
	}

	return domain.OrderBookSnapshot{
		Venue:      Binance,
		Symbol:     canonical,
		BestBid:    bid,
		BestAsk:    ask,
		BestBidQty: bidQty,
		BestAskQty: askQty,
		Bids:       []domain.PriceLevel{{Price: bid, Quantity: bidQty}},
		Asks:       []domain.PriceLevel{{Price: ask, Quantity: askQty}},
		Timestamp:  time.Now(),
	}, true
}
