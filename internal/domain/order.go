package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// ClientOrder is an instruction to buy or sell a quantity of an instrument
// at an expected price on a date. Orders arrive deduplicated from the order
// source.
type ClientOrder struct {
	OrderID    string
	ClientID   string
	ISIN       string
	Side       Side
	Quantity   int64
	OrderPrice decimal.Decimal
	OrderDate  time.Time

	// FilledQty is scratch state owned by the allocation engine for the
	// duration of a single reconciliation run; it is never persisted mid-run.
	FilledQty int64
}

// Remaining returns the quantity not yet allocated to any fill.
func (o *ClientOrder) Remaining() int64 {
	return o.Quantity - o.FilledQty
}

// Satisfied reports whether the order's full quantity has been allocated.
func (o *ClientOrder) Satisfied() bool {
	return o.FilledQty >= o.Quantity
}
