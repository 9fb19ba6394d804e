package core

import (
	"sort"

	"github.com/tradeflow/reconengine/internal/domain"
)

const dateLayout = "2006-01-02"

// GroupKey partitions orders and fills into disjoint match groups. Orders are
// keyed by order date, fills by deal date.
type GroupKey struct {
	ISIN string
	Date string
	Side domain.Side
}

func (k GroupKey) String() string {
	return k.ISIN + "/" + k.Date + "/" + string(k.Side)
}

func orderKey(o *domain.ClientOrder) GroupKey {
	return GroupKey{ISIN: o.ISIN, Date: o.OrderDate.Format(dateLayout), Side: o.Side}
}

func fillKey(f *domain.BrokerFill) GroupKey {
	return GroupKey{ISIN: f.ISIN, Date: f.DealDate.Format(dateLayout), Side: f.Side}
}

// matchGroup holds one key's members. Orders keep insertion order (FIFO);
// fills keep the order established by the ordering policy. A key present on
// only one side is a leftover group, not a match group.
type matchGroup struct {
	orders []*domain.ClientOrder
	fills  []*domain.BrokerFill
}

type groupIndex struct {
	groups map[GroupKey]*matchGroup
}

// buildIndex partitions orders and policy-ordered fills by key. Within a
// group the relative order of members is exactly their order in the inputs.
func buildIndex(orders []*domain.ClientOrder, fills []*domain.BrokerFill) *groupIndex {
	idx := &groupIndex{groups: make(map[GroupKey]*matchGroup)}
	for _, o := range orders {
		g := idx.group(orderKey(o))
		g.orders = append(g.orders, o)
	}
	for _, f := range fills {
		g := idx.group(fillKey(f))
		g.fills = append(g.fills, f)
	}
	return idx
}

func (idx *groupIndex) group(key GroupKey) *matchGroup {
	g, ok := idx.groups[key]
	if !ok {
		g = &matchGroup{}
		idx.groups[key] = g
	}
	return g
}

// sortedKeys returns every key on either side in lexicographic
// (isin, date, side) order. Iterating groups in key order makes the emitted
// result set independent of how input rows were interleaved across keys.
func (idx *groupIndex) sortedKeys() []GroupKey {
	keys := make([]GroupKey, 0, len(idx.groups))
	for k := range idx.groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ISIN != keys[j].ISIN {
			return keys[i].ISIN < keys[j].ISIN
		}
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return sideRank(keys[i].Side) < sideRank(keys[j].Side)
	})
	return keys
}
