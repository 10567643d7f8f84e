package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/marketstate"
)

// SnapshotHandler serves a read-only copy of the current market state.
type SnapshotHandler struct {
	cache  *marketstate.Cache
	logger *slog.Logger
}

// NewSnapshotHandler creates a SnapshotHandler backed by the given cache.
func NewSnapshotHandler(cache *marketstate.Cache, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{cache: cache, logger: logger}
}

type bookJSON struct {
	BestBid    float64   `json:"best_bid"`
	BestAsk    float64   `json:"best_ask"`
	BestBidQty float64   `json:"best_bid_qty"`
	BestAskQty float64   `json:"best_ask_qty"`
	Mid        float64   `json:"mid"`
	Timestamp  time.Time `json:"timestamp"`
}

type fundingJSON struct {
	MarkPrice   float64   `json:"mark_price"`
	FundingRate float64   `json:"funding_rate"`
	Timestamp   time.Time `json:"timestamp"`
}

type syntheticJSON struct {
	Kind   string  `json:"kind"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	LegA   string  `json:"leg_a"`
	LegB   string  `json:"leg_b"`
}

// GetSnapshot renders the cache view: latest books per venue, funding state,
// and the most recent synthetic instruments.
// GET /api/snapshot
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	view := h.cache.Snapshot()

	books := make(map[string]map[string]bookJSON, len(view.Books))
	for venueName, symbols := range view.Books {
		out := make(map[string]bookJSON, len(symbols))
		for symbol, book := range symbols {
			out[symbol] = bookJSON{
				BestBid:    book.BestBid,
				BestAsk:    book.BestAsk,
				BestBidQty: book.BestBidQty,
				BestAskQty: book.BestAskQty,
				Mid:        book.Mid(),
				Timestamp:  book.Timestamp,
			}
		}
		books[venueName] = out
	}

	funding := make(map[string]fundingJSON, len(view.Funding))
	for venueName, f := range view.Funding {
		funding[venueName] = fundingJSON{
			MarkPrice:   f.MarkPrice,
			FundingRate: f.FundingRate,
			Timestamp:   f.Timestamp,
		}
	}

	synthetics := make(map[string]syntheticJSON, len(view.Synthetics))
	for name, s := range view.Synthetics {
		synthetics[name] = syntheticJSON{
			Kind:   string(s.Kind),
			Symbol: s.Symbol,
			Price:  s.Price,
			LegA:   s.LegA,
			LegB:   s.LegB,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"books":      books,
		"funding":    funding,
		"synthetics": synthetics,
	})
}
