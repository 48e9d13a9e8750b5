package strategy

import (
	"fmt"
	"strconv"
)

// Rules are the eligibility thresholds. Every predicate is inclusive.
type Rules struct {
	MinDaysToExpiry int
	MinAveragePrice float64
	MinPremium      float64
	MinVolumeRatio  float64
}

// DefaultRules returns the standard thresholds.
func DefaultRules() Rules {
	return Rules{
		MinDaysToExpiry: 30,
		MinAveragePrice: 5,
		MinPremium:      100_000,
		MinVolumeRatio:  1.5,
	}
}

// String renders the rules for operator messages.
func (r Rules) String() string {
	return fmt.Sprintf("DTE ≥ %d | Avg ≥ $%s | Premium ≥ $%s | Vol Ratio ≥ %s",
		r.MinDaysToExpiry,
		strconv.FormatFloat(r.MinAveragePrice, 'f', -1, 64),
		strconv.FormatFloat(r.MinPremium, 'f', -1, 64),
		strconv.FormatFloat(r.MinVolumeRatio, 'f', -1, 64))
}

// rejectReason names the first failed predicate, or "" when all hold.
func (r Rules) rejectReason(dte int, avg, premium, ratio float64) string {
	switch {
	case dte < r.MinDaysToExpiry:
		return "days_to_expiry"
	case avg < r.MinAveragePrice:
		return "average_price"
	case premium < r.MinPremium:
		return "premium"
	case ratio < r.MinVolumeRatio:
		return "volume_ratio"
	}
	return ""
}
