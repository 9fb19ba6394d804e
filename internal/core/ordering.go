package core

import (
	"sort"

	"github.com/tradeflow/reconengine/internal/domain"
)

// orderFills imposes the global processing order on broker fills: side first
// (buys before sells), then unit cost ascending, ties broken by ingestion
// order. Within a side, cheaper executions are allocated to client orders
// before costlier ones. The input slice is not modified.
func orderFills(fills []*domain.BrokerFill) []*domain.BrokerFill {
	out := make([]*domain.BrokerFill, len(fills))
	copy(out, fills)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Side != out[j].Side {
			return sideRank(out[i].Side) < sideRank(out[j].Side)
		}
		return out[i].UnitCost.LessThan(out[j].UnitCost)
	})
	return out
}

func sideRank(s domain.Side) int {
	if s == domain.Buy {
		return 0
	}
	return 1
}
