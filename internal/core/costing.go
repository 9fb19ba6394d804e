package core

import (
	"github.com/shopspring/decimal"

	"github.com/tradeflow/reconengine/internal/domain"
)

// settlementCost computes the cost of taking qty units from a fill:
// unit cost times quantity, plus brokerage fee and transaction tax prorated
// by the fraction of the fill consumed. Summing settlementCost over every
// allocation drawn from one fill reproduces the fill's full cost; fee and tax
// are never charged in full to more than one allocation.
func settlementCost(f *domain.BrokerFill, qty int64) decimal.Decimal {
	matched := decimal.NewFromInt(qty)
	fraction := matched.Div(decimal.NewFromInt(f.Quantity))
	charges := f.BrokerageFee.Add(f.TransactionTax).Mul(fraction)
	return f.UnitCost.Mul(matched).Add(charges)
}

// executionSlippage is the per-unit difference between the price the client
// expected and the price the broker executed at. Positive means the execution
// was cheaper than expected.
func executionSlippage(orderPrice, unitCost decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(orderPrice.Sub(unitCost))
}
