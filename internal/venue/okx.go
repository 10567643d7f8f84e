package venue

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// OKXBooks streams the books5 depth channel from OKX.
type OKXBooks struct {
	client    *wsClient
	instID    string // exchange format, e.g. "BTC-USDT"
	canonical string
	onBook    BookHandler
	logger    *slog.Logger
}

// NewOKXBooks creates a connector for the OKX books5 channel.
func NewOKXBooks(url, instID, canonical string, onBook BookHandler, logger *slog.Logger) *OKXBooks {
	o := &OKXBooks{
		instID:    instID,
		canonical: canonical,
		onBook:    onBook,
		logger:    logger.With(slog.String("component", "venue.okx")),
	}
	o.client = newWSClient(url, o.logger, o.subscribeMessages, o.handleMessage)
	return o
}

func (o *OKXBooks) Name() string { return OKX }

func (o *OKXBooks) Connect(ctx context.Context) error { return o.client.connect(ctx) }

func (o *OKXBooks) Close() error { return o.client.close() }

func (o *OKXBooks) subscribeMessages() [][]byte {
	msg, _ := json.Marshal(map[string]any{
		"op": "subscribe",
		"args": []map[string]string{
			{"channel": "books5", "instId": o.instID},
		},
	})
	return [][]byte{msg}
}

// okxBooksMessage is the envelope of the books5 channel. Levels are arrays of
// strings: [price, size, liquidated orders, order count].
type okxBooksMessage struct {
	Arg struct {
		Channel string `json:"channel"`
		InstID  string `json:"instId"`
	} `json:"arg"`
	Data []struct {
		Asks [][]string `json:"asks"`
		Bids [][]string `json:"bids"`
		TS   string     `json:"ts"`
	} `json:"data"`
}

func (o *OKXBooks) handleMessage(raw []byte) {
	snap, ok := parseOKXBooks(raw, o.canonical)
	if !ok {
		return
	}
	o.onBook(snap)
}

// parseOKXBooks normalizes one books5 payload. Subscribe acks and empty
// frames return false.
func parseOKXBooks(raw []byte, canonical string) (domain.OrderBookSnapshot, bool) {
	var msg okxBooksMessage
	if err := json.Unmarshal(raw, &msg); err != nil || len(msg.Data) == 0 {
		return domain.OrderBookSnapshot{}, false
	}

	data := msg.Data[0]
	bids := parseOKXLevels(data.Bids)
	asks := parseOKXLevels(data.Asks)
	if len(bids) == 0 || len(asks) == 0 {
		return domain.OrderBookSnapshot{}, false
	}

	return domain.OrderBookSnapshot{
		Venue:      OKX,
		Symbol:     canonical,
		BestBid:    bids[0].Price,
		BestAsk:    asks[0].Price,
		BestBidQty: bids[0].Quantity,
		BestAskQty: asks[0].Quantity,
		Bids:       bids,
		Asks:       asks,
		Timestamp:  time.Now(),
	}, true
}

func parseOKXLevels(rows [][]string) []domain.PriceLevel {
	levels := make([]domain.PriceLevel, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		price, err1 := strconv.ParseFloat(row[0], 64)
		qty, err2 := strconv.ParseFloat(row[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		levels = append(levels, domain.PriceLevel{Price: price, Quantity: qty})
	}
	return levels
}
