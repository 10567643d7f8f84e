// Package marketstate holds the concurrent cache of the latest per-venue
// order books, funding state, and derived synthetic instruments. It is the
// only mutable resource shared between venue connectors and the decision
// cycle; a single coarse mutex serializes all access, which is sufficient
// because update rates are feed-bound, not CPU-bound.
package marketstate

import (
	"sync"
	"time"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// View is a consistent point-in-time copy of all venue state. The maps and
// snapshots it holds are owned by the caller; mutating them never affects the
// cache.
type View struct {
	Books      map[string]map[string]domain.OrderBookSnapshot
	Funding    map[string]domain.FundingSnapshot
	Synthetics map[string]domain.SyntheticInstrument
}

// Cache is the market-state store. All entries are overwritten wholesale per
// (venue, symbol) key, last-write-wins; readers never observe a half-written
// snapshot.
type Cache struct {
	mu         sync.Mutex
	books      map[string]map[string]domain.OrderBookSnapshot
	funding    map[string]domain.FundingSnapshot
	synthetics map[string]domain.SyntheticInstrument
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		books:      make(map[string]map[string]domain.OrderBookSnapshot),
		funding:    make(map[string]domain.FundingSnapshot),
		synthetics: make(map[string]domain.SyntheticInstrument),
	}
}

// Update overwrites the stored snapshot for (venue, snap.Symbol).
func (c *Cache) Update(venue string, snap domain.OrderBookSnapshot) {
	snap.Venue = venue
	stored := snap.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	byVenue, ok := c.books[venue]
	if !ok {
		byVenue = make(map[string]domain.OrderBookSnapshot)
		c.books[venue] = byVenue
	}
	byVenue[snap.Symbol] = stored
}

// UpdateFunding overwrites the funding snapshot for a venue.
func (c *Cache) UpdateFunding(venue string, markPrice, fundingRate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funding[venue] = domain.FundingSnapshot{
		Venue:       venue,
		MarkPrice:   markPrice,
		FundingRate: fundingRate,
		Timestamp:   time.Now().UTC(),
	}
}

// UpdateSynthetic caches the latest derived instrument under name for
// display and history.
func (c *Cache) UpdateSynthetic(name string, inst domain.SyntheticInstrument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.synthetics[name] = inst
}

// Get returns a copy of the stored snapshot for (venue, symbol) and whether
// one exists.
func (c *Cache) Get(venue, symbol string) (domain.OrderBookSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byVenue, ok := c.books[venue]
	if !ok {
		return domain.OrderBookSnapshot{}, false
	}
	snap, ok := byVenue[symbol]
	if !ok {
		return domain.OrderBookSnapshot{}, false
	}
	return snap.Clone(), true
}

// Funding returns the funding snapshot for a venue and whether one exists.
func (c *Cache) Funding(venue string) (domain.FundingSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.funding[venue]
	return f, ok
}

// Snapshot returns a consistent deep copy of all venue state. Data from
// different venues may be from different instants; within a single key,
// writes are totally ordered.
func (c *Cache) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{
		Books:      make(map[string]map[string]domain.OrderBookSnapshot, len(c.books)),
		Funding:    make(map[string]domain.FundingSnapshot, len(c.funding)),
		Synthetics: make(map[string]domain.SyntheticInstrument, len(c.synthetics)),
	}
	for venue, byVenue := range c.books {
		dst := make(map[string]domain.OrderBookSnapshot, len(byVenue))
		for symbol, snap := range byVenue {
			dst[symbol] = snap.Clone()
		}
		view.Books[venue] = dst
	}
	for venue, f := range c.funding {
		view.Funding[venue] = f
	}
	for name, s := range c.synthetics {
		view.Synthetics[name] = s
	}
	return view
}

// OnOrderBookUpdate is the inbound callback for venue connectors. It is
// fire-and-forget and blocks the caller only for the lock hold time.
func (c *Cache) OnOrderBookUpdate(venue string, snap domain.OrderBookSnapshot) {
	c.Update(venue, snap)
}

// OnFundingUpdate is the inbound funding callback for venue connectors.
func (c *Cache) OnFundingUpdate(venue string, markPrice, fundingRate float64) {
	c.UpdateFunding(venue, markPrice, fundingRate)
}
