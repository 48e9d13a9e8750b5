package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the option side reported for an alert.
type Side string

const (
	SideCall Side = "CALL"
	SidePut  Side = "PUT"
)

// Valid reports whether s is one of the known sides.
func (s Side) Valid() bool {
	return s == SideCall || s == SidePut
}

// Value is a scalar field as the data source sent it. JSON numbers keep
// their literal text and JSON strings are unquoted. A field missing from
// the payload is the zero Value.
type Value struct {
	text string
	set  bool
}

// NewValue returns a present Value holding text.
func NewValue(text string) Value {
	return Value{text: text, set: true}
}

// IsSet reports whether the field was present in the payload.
func (v Value) IsSet() bool { return v.set }

func (v Value) String() string { return v.text }

// Decimal coerces the value to a number. Null, empty and non-numeric
// values are errors.
func (v Value) Decimal() (decimal.Decimal, error) {
	if !v.set {
		return decimal.Zero, fmt.Errorf("value missing")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.text))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not numeric: %q", v.text)
	}
	return d, nil
}

// Float coerces the value to a float64.
func (v Value) Float() (float64, error) {
	d, err := v.Decimal()
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// FloatOr is Float with def substituted for a missing field. A field that
// is present but null or non-numeric is still an error.
func (v Value) FloatOr(def float64) (float64, error) {
	if !v.set {
		return def, nil
	}
	return v.Float()
}

// UnmarshalJSON accepts any JSON token so that one odd field never fails
// decoding of the whole record.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	v.set = true
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v.text = s
		return nil
	}
	v.text = string(b)
	return nil
}

// RawAlert is one options-order alert as received from the data source.
type RawAlert struct {
	Ticker       string `json:"ticker"`
	Side         Side   `json:"side"`
	Strike       Value  `json:"strike"`
	Expiration   string `json:"expiration"` // YYYY-MM-DD
	AveragePrice Value  `json:"average_price"`
	Premium      Value  `json:"premium"`
	Volume       Value  `json:"volume"`        // optional, default 0
	OpenInterest Value  `json:"open_interest"` // optional, default 1
}

// QualifyingAlert is a RawAlert that passed every eligibility rule,
// annotated with the parsed numbers and derived fields.
type QualifyingAlert struct {
	Alert        RawAlert
	Expiry       time.Time
	AveragePrice float64
	Premium      float64
	Volume       float64
	OpenInterest float64
	DaysToExpiry int
	VolumeRatio  float64 // rounded to 2 decimals
}

func (q QualifyingAlert) Ticker() string { return q.Alert.Ticker }
func (q QualifyingAlert) Side() Side     { return q.Alert.Side }
