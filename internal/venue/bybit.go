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

// BybitBooks streams the level-1 orderbook channel from Bybit spot.
type BybitBooks struct {
	client    *wsClient
	symbol    string // exchange format, e.g. "BTCUSDT"
	canonical string
	onBook    BookHandler
	logger    *slog.Logger

	// Bybit sends a snapshot followed by deltas; deltas may omit a side.
	// lastBid/lastAsk carry the previous value forward.
	lastBid domain.PriceLevel
	lastAsk domain.PriceLevel
}

// NewBybitBooks creates a connector for the Bybit orderbook.1 channel.
func NewBybitBooks(url, symbol, canonical string, onBook BookHandler, logger *slog.Logger) *BybitBooks {
	b := &BybitBooks{
		symbol:    strings.ToUpper(symbol),
		canonical: canonical,
		onBook:    onBook,
		logger:    logger.With(slog.String("component", "venue.bybit")),
	}
	b.client = newWSClient(url, b.logger, b.subscribeMessages, b.handleMessage)
	return b
}

func (b *BybitBooks) Name() string { return Bybit }

func (b *BybitBooks) Connect(ctx context.Context) error { return b.client.connect(ctx) }

func (b *BybitBooks) Close() error { return b.client.close() }

func (b *BybitBooks) subscribeMessages() [][]byte {
	msg, _ := json.Marshal(map[string]any{
		"op":   "subscribe",
		"args": []string{"orderbook.1." + b.symbol},
	})
	return [][]byte{msg}
}

// bybitBookMessage is the envelope of the orderbook.1 channel. Levels are
// [price, size] string pairs; a size of "0" deletes the level.
type bybitBookMessage struct {
	Topic string `json:"topic"`
	Type  string `json:"type"`
	Data  struct {
		Symbol string     `json:"s"`
		Bids   [][]string `json:"b"`
		Asks   [][]string `json:"a"`
	} `json:"data"`
}

// handleMessage folds snapshot and delta frames into the current top of book.
// The read loop is the only caller, so lastBid/lastAsk need no locking.
func (b *BybitBooks) handleMessage(raw []byte) {
	var msg bybitBookMessage
	if err := json.Unmarshal(raw, &msg); err != nil || !strings.HasPrefix(msg.Topic, "orderbook.") {
		return
	}

	if bid, ok := parseBybitLevel(msg.Data.Bids); ok {
		b.lastBid = bid
	}
	if ask, ok := parseBybitLevel(msg.Data.Asks); ok {
		b.lastAsk = ask
	}

	if b.lastBid.Price <= 0 || b.lastAsk.Price <= 0 {
		return
	}

	b.onBook(domain.OrderBookSnapshot{
		Venue:      Bybit,
		Symbol:     b.canonical,
		BestBid:    b.lastBid.Price,
		BestAsk:    b.lastAsk.Price,
		BestBidQty: b.lastBid.Quantity,
		BestAskQty: b.lastAsk.Quantity,
		Bids:       []domain.PriceLevel{b.lastBid},
		Asks:       []domain.PriceLevel{b.lastAsk},
		Timestamp:  time.Now(),
	})
}

// parseBybitLevel extracts the first usable [price, size] pair. Zero-size
// rows are deletions and are skipped.
func parseBybitLevel(rows [][]string) (domain.PriceLevel, bool) {
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		price, err1 := strconv.ParseFloat(row[0], 64)
		qty, err2 := strconv.ParseFloat(row[1], 64)
		if err1 != nil || err2 != nil || qty <= 0 {
			continue
		}
		return domain.PriceLevel{Price: price, Quantity: qty}, true
	}
	return domain.PriceLevel{}, false
}
