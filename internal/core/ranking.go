package core

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tradeflow/reconengine/internal/domain"
)

// BrokerScore summarizes one reporting broker's execution quality over a run.
type BrokerScore struct {
	PartyCode       string
	MeanAbsSlippage decimal.Decimal
	TotalCost       decimal.Decimal
	FillRate        decimal.Decimal // quantity allocated to orders / quantity reported
	Score           float64
	Rank            int
}

// Composite weights: lower slippage and lower cost score higher, a higher
// fill rate scores higher.
const (
	weightSlippage = 0.5
	weightCost     = 0.3
	weightFillRate = 0.2
)

type brokerAgg struct {
	party       string
	reported    int64
	allocated   int64
	cost        decimal.Decimal
	absSlippage decimal.Decimal
	slipCount   int64
}

// BrokerScores ranks the brokers that reported fills in this run by a
// weighted composite of normalized execution metrics. Brokers are returned
// best first; ties rank by party code.
func (r *Reconciliation) BrokerScores() []BrokerScore {
	aggs := make(map[string]*brokerAgg)
	seenFill := make(map[string]bool)

	agg := func(party string) *brokerAgg {
		a, ok := aggs[party]
		if !ok {
			a = &brokerAgg{party: party, cost: decimal.Zero, absSlippage: decimal.Zero}
			aggs[party] = a
		}
		return a
	}

	for _, al := range r.allocs {
		if al.fill == nil {
			continue
		}
		a := agg(al.fill.PartyCode)
		if !seenFill[al.fill.TradeID] {
			seenFill[al.fill.TradeID] = true
			a.reported += al.fill.Quantity
		}
		a.allocated += al.qty
		switch al.status {
		case domain.StatusMatched, domain.StatusPartial:
			a.cost = a.cost.Add(settlementCost(al.fill, al.qty))
			a.absSlippage = a.absSlippage.Add(al.order.OrderPrice.Sub(al.fill.UnitCost).Abs())
			a.slipCount++
		case domain.StatusExcess:
			a.cost = a.cost.Add(settlementCost(al.fill, al.leftover))
		}
	}

	scores := make([]BrokerScore, 0, len(aggs))
	for _, a := range aggs {
		s := BrokerScore{
			PartyCode: a.party,
			TotalCost: a.cost,
		}
		if a.slipCount > 0 {
			s.MeanAbsSlippage = a.absSlippage.Div(decimal.NewFromInt(a.slipCount))
		}
		if a.reported > 0 {
			s.FillRate = decimal.NewFromInt(a.allocated).Div(decimal.NewFromInt(a.reported))
		}
		scores = append(scores, s)
	}

	scoreBrokers(scores)
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].PartyCode < scores[j].PartyCode
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}

func scoreBrokers(scores []BrokerScore) {
	slip := make([]float64, len(scores))
	cost := make([]float64, len(scores))
	fill := make([]float64, len(scores))
	for i, s := range scores {
		slip[i] = s.MeanAbsSlippage.InexactFloat64()
		cost[i] = s.TotalCost.InexactFloat64()
		fill[i] = s.FillRate.InexactFloat64()
	}
	normSlip := normalize(slip)
	normCost := normalize(cost)
	normFill := normalize(fill)
	for i := range scores {
		scores[i].Score = weightSlippage*(1-normSlip[i]) +
			weightCost*(1-normCost[i]) +
			weightFillRate*normFill[i]
	}
}

// normalize min-max scales values into [0,1]. When all values are equal the
// metric carries no signal and maps to zero.
func normalize(vals []float64) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return out
	}
	for i, v := range vals {
		out[i] = (v - min) / (max - min)
	}
	return out
}
