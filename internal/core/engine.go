package core

import (
	"github.com/tradeflow/reconengine/internal/domain"
)

// allocation is one engine event: the assignment of quantity from a fill to
// an order, or a leftover on either side. order is nil for excess events,
// fill is nil for pending events.
type allocation struct {
	key      GroupKey
	order    *domain.ClientOrder
	fill     *domain.BrokerFill
	qty      int64 // quantity assigned to the order by this event
	leftover int64 // order remainder (partial/pending) or fill remainder (excess)
	status   domain.MatchStatus
}

// Reconciliation is the terminal output of one engine run.
type Reconciliation struct {
	Results []domain.ReconciliationResult

	allocs []allocation
}

// Reconcile allocates broker fills across client orders and classifies every
// outcome. It is a pure batch computation: no I/O, no retries, no logging.
// Inputs must be well-typed and deduplicated; a malformed record rejects the
// whole run. The result set is deterministic for identical inputs, including
// emission order.
func Reconcile(orders []*domain.ClientOrder, fills []*domain.BrokerFill) (*Reconciliation, error) {
	if err := validateInputs(orders, fills); err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.FilledQty = 0
	}

	idx := buildIndex(orders, orderFills(fills))

	var allocs []allocation
	for _, key := range idx.sortedKeys() {
		g := idx.groups[key]
		switch {
		case len(g.orders) > 0 && len(g.fills) > 0:
			allocs = append(allocs, allocateGroup(key, g)...)
		case len(g.fills) > 0:
			// No client demand for this key at all.
			for _, f := range g.fills {
				allocs = append(allocs, allocation{
					key:      key,
					fill:     f,
					leftover: f.Quantity,
					status:   domain.StatusExcess,
				})
			}
		default:
			// No broker execution for this key at all.
			for _, o := range g.orders {
				allocs = append(allocs, allocation{
					key:      key,
					order:    o,
					leftover: o.Remaining(),
					status:   domain.StatusPending,
				})
			}
		}
	}

	rec := &Reconciliation{Results: buildResults(allocs), allocs: allocs}
	if err := verify(orders, fills, allocs); err != nil {
		return nil, err
	}
	return rec, nil
}

// allocateGroup consumes every fill in the group against the group's orders
// in FIFO order, then reports any order quantity the fills never reached.
func allocateGroup(key GroupKey, g *matchGroup) []allocation {
	var out []allocation
	for _, f := range g.fills {
		remaining := f.Quantity
		for _, o := range g.orders {
			if o.Satisfied() {
				continue
			}
			available := o.Remaining()
			if remaining <= available {
				o.FilledQty += remaining
				out = append(out, allocation{
					key:      key,
					order:    o,
					fill:     f,
					qty:      remaining,
					leftover: o.Remaining(),
					status:   classify(o, remaining),
				})
				remaining = 0
				break
			}
			o.FilledQty = o.Quantity
			out = append(out, allocation{
				key:    key,
				order:  o,
				fill:   f,
				qty:    available,
				status: classify(o, available),
			})
			remaining -= available
		}
		if remaining > 0 {
			out = append(out, allocation{
				key:      key,
				fill:     f,
				leftover: remaining,
				status:   domain.StatusExcess,
			})
		}
	}
	for _, o := range g.orders {
		if !o.Satisfied() {
			out = append(out, allocation{
				key:      key,
				order:    o,
				leftover: o.Remaining(),
				status:   domain.StatusPending,
			})
		}
	}
	return out
}

// classify labels an allocation: matched only when the single allocation
// covered the order's entire quantity, partial otherwise.
func classify(o *domain.ClientOrder, qty int64) domain.MatchStatus {
	if qty == o.Quantity {
		return domain.StatusMatched
	}
	return domain.StatusPartial
}
