package models

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in cents that renders as a JSON number with two decimals.
type Money int64

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}
