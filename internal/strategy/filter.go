package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"WhaleSentinel/internal/model"
)

// ErrRecordMalformed wraps every per-record parse failure.
var ErrRecordMalformed = errors.New("malformed alert record")

const expirationLayout = "2006-01-02"

// Malformed describes one record dropped by Filter.
type Malformed struct {
	Index  int
	Ticker string
	Err    error
}

// Rejection describes one well-formed record that failed a rule.
type Rejection struct {
	Index  int
	Ticker string
	Rule   string
}

// Result is the outcome of filtering one batch.
type Result struct {
	Qualifying []model.QualifyingAlert
	Malformed  []Malformed
	Rejected   []Rejection
}

// Filter returns the alerts that satisfy every rule, in input order. A
// record that fails to parse is dropped on its own and reported in
// Malformed; the rest of the batch is unaffected. Filter is pure for a
// fixed now.
func Filter(alerts []model.RawAlert, now time.Time, rules Rules) Result {
	var res Result
	for i, a := range alerts {
		q, rule, err := Evaluate(a, now, rules)
		switch {
		case err != nil:
			res.Malformed = append(res.Malformed, Malformed{Index: i, Ticker: a.Ticker, Err: err})
		case rule != "":
			res.Rejected = append(res.Rejected, Rejection{Index: i, Ticker: a.Ticker, Rule: rule})
		default:
			res.Qualifying = append(res.Qualifying, q)
		}
	}
	return res
}

// Evaluate parses one alert and checks it against rules. It returns the
// annotated alert and an empty rule name when the alert qualifies, or the
// name of the first failed rule otherwise.
func Evaluate(a model.RawAlert, now time.Time, rules Rules) (model.QualifyingAlert, string, error) {
	expiry, err := time.Parse(expirationLayout, a.Expiration)
	if err != nil {
		return model.QualifyingAlert{}, "", fmt.Errorf("%w: expiration %q: %w", ErrRecordMalformed, a.Expiration, err)
	}
	avg, err := a.AveragePrice.Float()
	if err != nil {
		return model.QualifyingAlert{}, "", fmt.Errorf("%w: average_price: %w", ErrRecordMalformed, err)
	}
	premium, err := a.Premium.Float()
	if err != nil {
		return model.QualifyingAlert{}, "", fmt.Errorf("%w: premium: %w", ErrRecordMalformed, err)
	}
	volume, err := a.Volume.FloatOr(0)
	if err != nil {
		return model.QualifyingAlert{}, "", fmt.Errorf("%w: volume: %w", ErrRecordMalformed, err)
	}
	openInterest, err := a.OpenInterest.FloatOr(1)
	if err != nil {
		return model.QualifyingAlert{}, "", fmt.Errorf("%w: open_interest: %w", ErrRecordMalformed, err)
	}

	dte := DaysToExpiry(expiry, now)
	ratio := VolumeRatio(volume, openInterest)

	// The unrounded ratio is compared; only the annotation is rounded.
	if rule := rules.rejectReason(dte, avg, premium, ratio); rule != "" {
		return model.QualifyingAlert{}, rule, nil
	}

	return model.QualifyingAlert{
		Alert:        a,
		Expiry:       expiry,
		AveragePrice: avg,
		Premium:      premium,
		Volume:       volume,
		OpenInterest: openInterest,
		DaysToExpiry: dte,
		VolumeRatio:  Round2(ratio),
	}, "", nil
}

// DaysToExpiry is the number of whole days from now until midnight of the
// expiry date, floored. Both sides are compared as wall-clock times so a
// daylight-saving shift never moves the result.
func DaysToExpiry(expiry, now time.Time) int {
	wall := time.Date(now.Year(), now.Month(), now.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
	exp := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)

	const day = 24 * time.Hour
	d := exp.Sub(wall)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// VolumeRatio is volume over open interest. A non-positive open interest
// yields 0, so such an alert can never meet a positive ratio threshold.
func VolumeRatio(volume, openInterest float64) float64 {
	if openInterest <= 0 {
		return 0
	}
	return volume / openInterest
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
