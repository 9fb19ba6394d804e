package domain

import "github.com/shopspring/decimal"

type MatchStatus string

const (
	// StatusMatched marks an allocation that satisfied an order's full
	// quantity in one step.
	StatusMatched MatchStatus = "matched"
	// StatusPartial marks an allocation that filled only part of an order's
	// quantity.
	StatusPartial MatchStatus = "partial"
	// StatusExcess marks broker quantity with no client demand left in its
	// match group.
	StatusExcess MatchStatus = "excess"
	// StatusPending marks client quantity never reached by any fill.
	StatusPending MatchStatus = "pending"
)

// ReconciliationResult is one row of a run's output: the outcome of a single
// allocation, or a leftover on either side. Results are produced exactly once
// per run and never mutated afterward.
type ReconciliationResult struct {
	OrderID           *string             // nil only for excess rows
	ClientID          *string             // paired with OrderID
	ISIN              string
	MatchedQuantity   int64
	UnmatchedQuantity int64
	Status            MatchStatus
	TotalCost         decimal.Decimal
	ExecutionSlippage decimal.NullDecimal // invalid when no price comparison exists
}
