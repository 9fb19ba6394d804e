package core

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tradeflow/reconengine/internal/domain"
)

// buildResults maps engine events onto output rows. Pure field mapping; the
// only computation is cost and slippage for the rows that have them.
func buildResults(allocs []allocation) []domain.ReconciliationResult {
	results := make([]domain.ReconciliationResult, 0, len(allocs))
	for _, a := range allocs {
		r := domain.ReconciliationResult{
			ISIN:              a.key.ISIN,
			MatchedQuantity:   a.qty,
			UnmatchedQuantity: a.leftover,
			Status:            a.status,
			TotalCost:         decimal.Zero,
		}
		if a.order != nil {
			r.OrderID = &a.order.OrderID
			r.ClientID = &a.order.ClientID
		}
		switch a.status {
		case domain.StatusMatched, domain.StatusPartial:
			r.TotalCost = settlementCost(a.fill, a.qty)
			r.ExecutionSlippage = executionSlippage(a.order.OrderPrice, a.fill.UnitCost)
		case domain.StatusExcess:
			// Excess quantity was still executed and paid for; no order
			// price exists to compare against.
			r.TotalCost = settlementCost(a.fill, a.leftover)
		}
		results = append(results, r)
	}
	return results
}

// verify checks the run's post-conditions: every fill's quantity is fully
// accounted for across the rows it produced, and every order's allocations
// sum to its fill state with exactly one pending row for any remainder.
// A failure here is an engine bug, never a data problem.
func verify(orders []*domain.ClientOrder, fills []*domain.BrokerFill, allocs []allocation) error {
	fillConsumed := make(map[string]int64, len(fills))
	orderMatched := make(map[string]int64, len(orders))
	orderPending := make(map[string]int, len(orders))

	for _, a := range allocs {
		if a.fill != nil {
			fillConsumed[a.fill.TradeID] += a.qty
			if a.status == domain.StatusExcess {
				fillConsumed[a.fill.TradeID] += a.leftover
			}
		}
		if a.order != nil {
			orderMatched[a.order.OrderID] += a.qty
			if a.status == domain.StatusPending {
				orderPending[a.order.OrderID]++
			}
		}
	}

	for _, f := range fills {
		if got := fillConsumed[f.TradeID]; got != f.Quantity {
			return &domain.InvariantViolationError{
				GroupKey: fillKey(f).String(),
				TradeID:  f.TradeID,
				Detail:   fmt.Sprintf("allocated quantity %d does not sum to fill quantity %d", got, f.Quantity),
			}
		}
	}
	for _, o := range orders {
		matched := orderMatched[o.OrderID]
		if matched != o.FilledQty || matched > o.Quantity {
			return &domain.InvariantViolationError{
				GroupKey: orderKey(o).String(),
				OrderID:  o.OrderID,
				Detail:   fmt.Sprintf("matched quantity %d disagrees with fill state %d/%d", matched, o.FilledQty, o.Quantity),
			}
		}
		want := 0
		if o.FilledQty < o.Quantity {
			want = 1
		}
		if orderPending[o.OrderID] != want {
			return &domain.InvariantViolationError{
				GroupKey: orderKey(o).String(),
				OrderID:  o.OrderID,
				Detail:   fmt.Sprintf("expected %d pending row(s), found %d", want, orderPending[o.OrderID]),
			}
		}
	}
	return nil
}
