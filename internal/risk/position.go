package risk

// PositionSize returns the quantity to trade when risking riskFraction of
// capital at the given entry price: capital * riskFraction / entryPrice.
func PositionSize(capital, entryPrice, riskFraction float64) float64 {
	return capital * riskFraction / entryPrice
}

// ShouldStopLoss reports whether the signed fractional price change from
// entry has fallen to or below -threshold (e.g. 0.01 for -1%).
func ShouldStopLoss(entryPrice, currentPrice, threshold float64) bool {
	change := (currentPrice - entryPrice) / entryPrice
	return change <= -threshold
}

// ShouldTakeProfit reports whether the signed fractional price change from
// entry has risen to or above threshold (e.g. 0.015 for +1.5%).
func ShouldTakeProfit(entryPrice, currentPrice, threshold float64) bool {
	change := (currentPrice - entryPrice) / entryPrice
	return change >= threshold
}
