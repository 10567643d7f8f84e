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

// BinancePerpFunding streams mark price and funding rate from the Binance
// USD-M futures markPrice channel.
type BinancePerpFunding struct {
	client    *wsClient
	symbol    string
	onFunding FundingHandler
	logger    *slog.Logger
}

// NewBinancePerpFunding creates a connector for the Binance perpetual
// markPrice stream.
func NewBinancePerpFunding(url, symbol string, onFunding FundingHandler, logger *slog.Logger) *BinancePerpFunding {
	b := &BinancePerpFunding{
		symbol:    strings.ToLower(symbol),
		onFunding: onFunding,
		logger:    logger.With(slog.String("component", "venue.binance_perp")),
	}
	b.client = newWSClient(url, b.logger, b.subscribeMessages, b.handleMessage)
	return b
}

func (b *BinancePerpFunding) Name() string { return BinancePerp }

func (b *BinancePerpFunding) Connect(ctx context.Context) error { return b.client.connect(ctx) }

func (b *BinancePerpFunding) Close() error { return b.client.close() }

func (b *BinancePerpFunding) subscribeMessages() [][]byte {
	msg, _ := json.Marshal(map[string]any{
		"method": "SUBSCRIBE",
		"params": []string{b.symbol + "@markPrice"},
		"id":     1,
	})
	return [][]byte{msg}
}

// binanceMarkPrice is the payload of the markPriceUpdate event.
type binanceMarkPrice struct {
	Event       string `json:"e"`
	Symbol      string `json:"s"`
	MarkPrice   string `json:"p"`
	FundingRate string `json:"r"`
}

func (b *BinancePerpFunding) handleMessage(raw []byte) {
	snap, ok := parseBinanceMarkPrice(raw)
	if !ok {
		return
	}
	b.onFunding(snap)
}

// parseBinanceMarkPrice normalizes one markPriceUpdate payload.
func parseBinanceMarkPrice(raw []byte) (domain.FundingSnapshot, bool) {
	var msg binanceMarkPrice
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Event != "markPriceUpdate" {
		return domain.FundingSnapshot{}, false
	}

	mark, err1 := strconv.ParseFloat(msg.MarkPrice, 64)
	rate, err2 := strconv.ParseFloat(msg.FundingRate, 64)
	if err1 != nil || err2 != nil {
		return domain.FundingSnapshot{}, false
	}

	return domain.FundingSnapshot{
		Venue:       BinancePerp,
		MarkPrice:   mark,
		FundingRate: rate,
		Timestamp:   time.Now(),
	}, true
}
