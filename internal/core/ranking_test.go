package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeflow/reconengine/internal/domain"
)

func TestBrokerScores_RanksBetterExecutionFirst(t *testing.T) {
	// BRK-A executes at the order price and fills fully. BRK-B executes two
	// points wide and only half its reported quantity finds an order.
	orders := []*domain.ClientOrder{
		testOrder("O1", 100, "10.00"),
		func() *domain.ClientOrder {
			o := testOrder("O2", 50, "10.00")
			o.ISIN = otherISIN
			return o
		}(),
	}
	fillB := testFill("T-B", 100, "12.00", "0", "0")
	fillB.ISIN = otherISIN
	fillB.PartyCode = "BRK-B"
	fills := []*domain.BrokerFill{
		testFill("T-A", 100, "10.00", "0", "0"),
		fillB,
	}

	rec, err := Reconcile(orders, fills)
	require.NoError(t, err)

	scores := rec.BrokerScores()
	require.Len(t, scores, 2)

	best := scores[0]
	assert.Equal(t, "BRK-A", best.PartyCode)
	assert.Equal(t, 1, best.Rank)
	assert.True(t, best.MeanAbsSlippage.IsZero())
	assert.True(t, best.TotalCost.Equal(decimal.RequireFromString("1000")), "got %s", best.TotalCost)
	assert.True(t, best.FillRate.Equal(decimal.NewFromInt(1)))
	assert.InDelta(t, 1.0, best.Score, 1e-9)

	worst := scores[1]
	assert.Equal(t, "BRK-B", worst.PartyCode)
	assert.Equal(t, 2, worst.Rank)
	assert.True(t, worst.MeanAbsSlippage.Equal(decimal.NewFromInt(2)))
	assert.True(t, worst.TotalCost.Equal(decimal.RequireFromString("1200")), "got %s", worst.TotalCost)
	assert.True(t, worst.FillRate.Equal(decimal.RequireFromString("0.5")))
	assert.InDelta(t, 0.0, worst.Score, 1e-9)
}

func TestBrokerScores_FillQuantityCountedOncePerTrade(t *testing.T) {
	// One fill split across two orders must not double its reported quantity.
	orders := []*domain.ClientOrder{
		testOrder("O1", 30, "10.00"),
		testOrder("O2", 70, "10.00"),
	}
	fills := []*domain.BrokerFill{testFill("T1", 100, "10.00", "0", "0")}

	rec, err := Reconcile(orders, fills)
	require.NoError(t, err)

	scores := rec.BrokerScores()
	require.Len(t, scores, 1)
	assert.Equal(t, "BRK-1", scores[0].PartyCode)
	assert.True(t, scores[0].FillRate.Equal(decimal.NewFromInt(1)), "got %s", scores[0].FillRate)
}

func TestBrokerScores_TiesRankByPartyCode(t *testing.T) {
	// Two brokers with identical metrics score identically; the tie breaks
	// on party code so the ranking stays deterministic.
	orders := []*domain.ClientOrder{
		testOrder("O1", 50, "10.00"),
		func() *domain.ClientOrder {
			o := testOrder("O2", 50, "10.00")
			o.ISIN = otherISIN
			return o
		}(),
	}
	fillZ := testFill("T-Z", 50, "10.00", "0", "0")
	fillZ.PartyCode = "BRK-Z"
	fillA := testFill("T-A", 50, "10.00", "0", "0")
	fillA.ISIN = otherISIN
	fillA.PartyCode = "BRK-A"

	rec, err := Reconcile(orders, []*domain.BrokerFill{fillZ, fillA})
	require.NoError(t, err)

	scores := rec.BrokerScores()
	require.Len(t, scores, 2)
	assert.Equal(t, "BRK-A", scores[0].PartyCode)
	assert.Equal(t, "BRK-Z", scores[1].PartyCode)
	assert.Equal(t, scores[0].Score, scores[1].Score)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, normalize([]float64{10, 20, 30}))
	assert.Equal(t, []float64{0, 0, 0}, normalize([]float64{7, 7, 7}))
	assert.Empty(t, normalize(nil))
}
