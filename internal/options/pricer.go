// Package options prices European options with the Black-Scholes closed form
// and recovers implied volatility by bisection. It backs the secondary
// volatility-arbitrage signal.
package options

import "math"

// Type selects call or put pricing.
type Type int

const (
	Call Type = iota
	Put
)

// normCDF is the standard normal CDF via the complementary error function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// BlackScholesPrice returns the Black-Scholes price for an option on spot S
// with strike K, time to expiry T in years, risk-free rate r, and volatility
// sigma.
func BlackScholesPrice(typ Type, S, K, T, r, sigma float64) float64 {
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	if typ == Call {
		return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	}
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
}

const (
	ivLow        = 0.0001
	ivHigh       = 5.0
	ivIterations = 100
	ivTolerance  = 1e-5
)

// ImpliedVolatility recovers the volatility that reprices marketPrice by
// bisection over [0.0001, 5.0], stopping after 100 iterations or when the
// price error falls below 1e-5.
func ImpliedVolatility(typ Type, marketPrice, S, K, T, r float64) float64 {
	low, high := ivLow, ivHigh
	mid := (low + high) / 2

	for i := 0; i < ivIterations; i++ {
		mid = (low + high) / 2
		price := BlackScholesPrice(typ, S, K, T, r, mid)
		if math.Abs(price-marketPrice) < ivTolerance {
			break
		}
		if price > marketPrice {
			high = mid
		} else {
			low = mid
		}
	}

	return mid
}
