// Package synth computes synthetic instrument prices from a reference order
// book plus a carry/funding adjustment, measures mispricing between real and
// synthetic prices, and prices candidate two-leg arbitrage opportunities.
package synth

import (
	"time"

	"github.com/google/uuid"

	"github.com/udaykumargupta/Synthetic-Pair-Deviation-Engine/internal/domain"
)

// SyntheticSpot derives a synthetic spot price from a perp book:
// mid * (1 + fundingRate * leverage).
func SyntheticSpot(book domain.OrderBookSnapshot, leverage, fundingRate float64) domain.SyntheticInstrument {
	mid := book.Mid()
	return domain.SyntheticInstrument{
		Kind:   domain.SyntheticSpot,
		Symbol: book.Symbol,
		Price:  mid * (1 + fundingRate*leverage),
		LegA:   book.Symbol + "_PERP",
		LegB:   "FundingAdj",
	}
}

// SyntheticFutureCarry derives a synthetic future under the cost-of-carry
// model: mid * (1 + costOfCarry * yearsToExpiry).
func SyntheticFutureCarry(book domain.OrderBookSnapshot, costOfCarry, yearsToExpiry float64) domain.SyntheticInstrument {
	mid := book.Mid()
	return domain.SyntheticInstrument{
		Kind:   domain.SyntheticFutureCarry,
		Symbol: book.Symbol,
		Price:  mid * (1 + costOfCarry*yearsToExpiry),
		LegA:   book.Symbol + "_SPOT",
		LegB:   "CostOfCarry",
	}
}

// SyntheticFutureFunding derives a synthetic future under the funding model:
// mid * (1 + fundingRate * windowYears).
func SyntheticFutureFunding(book domain.OrderBookSnapshot, fundingRate, windowYears float64) domain.SyntheticInstrument {
	mid := book.Mid()
	return domain.SyntheticInstrument{
		Kind:   domain.SyntheticFutureFunding,
		Symbol: book.Symbol,
		Price:  mid * (1 + fundingRate*windowYears),
		LegA:   book.Symbol + "_SPOT",
		LegB:   "FundingRate",
	}
}

// Mispricing returns the percentage deviation of real from synthetic:
// (real - synthetic) / synthetic * 100. A zero synthetic price yields 0.
func Mispricing(real, synthetic float64) float64 {
	if synthetic == 0 {
		return 0
	}
	return (real - synthetic) / synthetic * 100
}

// EvaluateArbitrage prices a two-leg candidate between venueA (priceA, bookA)
// and venueB (priceB, bookB). The long leg is assigned to whichever price is
// lower and the profit percentage is computed relative to the long price.
// It returns the populated opportunity only when the profit percentage meets
// minProfitPct; otherwise, and always on equal prices, it returns the
// no-opportunity sentinel.
func EvaluateArbitrage(symbol, venueA, venueB string, priceA, priceB, minProfitPct, capital float64, bookA, bookB domain.OrderBookSnapshot) domain.ArbitrageOpportunity {
	if priceA == priceB {
		return domain.ArbitrageOpportunity{Symbol: symbol}
	}

	longVenue, shortVenue := venueA, venueB
	longPrice, shortPrice := priceA, priceB
	longBook, shortBook := bookA, bookB
	if priceB < priceA {
		longVenue, shortVenue = venueB, venueA
		longPrice, shortPrice = priceB, priceA
		longBook, shortBook = bookB, bookA
	}

	profitPct := (shortPrice - longPrice) / longPrice * 100
	if profitPct < minProfitPct {
		return domain.ArbitrageOpportunity{Symbol: symbol}
	}

	return domain.ArbitrageOpportunity{
		ID:         uuid.New().String(),
		Symbol:     symbol,
		LongVenue:  longVenue,
		ShortVenue: shortVenue,
		LongPrice:  longPrice,
		ShortPrice: shortPrice,
		ProfitPct:  profitPct,
		Capital:    capital,
		LongBook:   longBook,
		ShortBook:  shortBook,
		DetectedAt: time.Now().UTC(),
	}
}
