package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeflow/reconengine/internal/domain"
)

var (
	testDate  = time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	otherDate = time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	testISIN  = "INE002A01018"
	otherISIN = "INE467B01029"
)

func testOrder(id string, qty int64, price string) *domain.ClientOrder {
	return &domain.ClientOrder{
		OrderID:    id,
		ClientID:   "CL-1",
		ISIN:       testISIN,
		Side:       domain.Buy,
		Quantity:   qty,
		OrderPrice: decimal.RequireFromString(price),
		OrderDate:  testDate,
	}
}

func testFill(id string, qty int64, cost, fee, tax string) *domain.BrokerFill {
	return &domain.BrokerFill{
		TradeID:        id,
		PartyCode:      "BRK-1",
		ISIN:           testISIN,
		Side:           domain.Buy,
		Quantity:       qty,
		UnitCost:       decimal.RequireFromString(cost),
		BrokerageFee:   decimal.RequireFromString(fee),
		TransactionTax: decimal.RequireFromString(tax),
		DealDate:       testDate,
	}
}

func TestReconcile_ExactMatch(t *testing.T) {
	orders := []*domain.ClientOrder{testOrder("O1", 100, "10.00")}
	fills := []*domain.BrokerFill{testFill("T1", 100, "10.00", "1", "0.5")}

	rec, err := Reconcile(orders, fills)
	require.NoError(t, err)
	require.Len(t, rec.Results, 1)

	r := rec.Results[0]
	require.NotNil(t, r.OrderID)
	assert.Equal(t, "O1", *r.OrderID)
	assert.Equal(t, domain.StatusMatched, r.Status)
	assert.Equal(t, int64(100), r.MatchedQuantity)
	assert.Equal(t, int64(0), r.UnmatchedQuantity)
	assert.True(t, r.TotalCost.Equal(decimal.RequireFromString("1001.5")), "got %s", r.TotalCost)
	require.True(t, r.ExecutionSlippage.Valid)
	assert.True(t, r.ExecutionSlippage.Decimal.IsZero())
}

func TestReconcile_PartialThenExcess(t *testing.T) {
	orders := []*domain.ClientOrder{testOrder("O1", 100, "10.00")}
	fills := []*domain.BrokerFill{
		testFill("T1", 60, "10.00", "1", "0"),
		testFill("T2", 50, "10.00", "2", "0"),
	}

	rec, err := Reconcile(orders, fills)
	require.NoError(t, err)
	require.Len(t, rec.Results, 3)

	first := rec.Results[0]
	assert.Equal(t, domain.StatusPartial, first.Status)
	assert.Equal(t, int64(60), first.MatchedQuantity)
	assert.Equal(t, int64(40), first.UnmatchedQuantity)
	assert.True(t, first.TotalCost.Equal(decimal.RequireFromString("601")), "got %s", first.TotalCost)

	second := rec.Results[1]
	assert.Equal(t, domain.StatusPartial, second.Status)
	assert.Equal(t, int64(40), second.MatchedQuantity)
	assert.Equal(t, int64(0), second.UnmatchedQuantity)
	// 40 of 50 units: 400 plus 4/5 of the 2.00 fee.
	assert.True(t, second.TotalCost.Equal(decimal.RequireFromString("401.6")), "got %s", second.TotalCost)

	excess := rec.Results[2]
	assert.Equal(t, domain.StatusExcess, excess.Status)
	assert.Nil(t, excess.OrderID)
	assert.Equal(t, int64(0), excess.MatchedQuantity)
	assert.Equal(t, int64(10), excess.UnmatchedQuantity)
	assert.True(t, excess.TotalCost.Equal(decimal.RequireFromString("100.4")), "got %s", excess.TotalCost)
	assert.False(t, excess.ExecutionSlippage.Valid)
}

func TestReconcile_FillWithoutCounterpartIsExcess(t *testing.T) {
	// The fill's key has no orders; the order exists under a different ISIN.
	orders := []*domain.ClientOrder{testOrder("O1", 30, "5.00")}
	fill := testFill("T1", 50, "7.00", "1", "0.5")
	fill.ISIN = otherISIN

	rec, err := Reconcile(orders, []*domain.BrokerFill{fill})
	require.NoError(t, err)
	require.Len(t, rec.Results, 2)

	pending := rec.Results[0]
	assert.Equal(t, domain.StatusPending, pending.Status)

	excess := rec.Results[1]
	assert.Equal(t, domain.StatusExcess, excess.Status)
	assert.Nil(t, excess.OrderID)
	assert.Equal(t, otherISIN, excess.ISIN)
	assert.Equal(t, int64(0), excess.MatchedQuantity)
	assert.Equal(t, int64(50), excess.UnmatchedQuantity)
	// Full cost: 50×7 + 1 + 0.5.
	assert.True(t, excess.TotalCost.Equal(decimal.RequireFromString("351.5")), "got %s", excess.TotalCost)
	assert.False(t, excess.ExecutionSlippage.Valid)
}

func TestReconcile_OrderWithoutCounterpartIsPending(t *testing.T) {
	orders := []*domain.ClientOrder{testOrder("O1", 50, "5.00")}
	fill := testFill("T1", 50, "5.00", "0", "0")
	fill.DealDate = otherDate

	rec, err := Reconcile(orders, []*domain.BrokerFill{fill})
	require.NoError(t, err)
	require.Len(t, rec.Results, 2)

	pending := rec.Results[0]
	require.NotNil(t, pending.OrderID)
	assert.Equal(t, "O1", *pending.OrderID)
	assert.Equal(t, domain.StatusPending, pending.Status)
	assert.Equal(t, int64(0), pending.MatchedQuantity)
	assert.Equal(t, int64(50), pending.UnmatchedQuantity)
	assert.True(t, pending.TotalCost.IsZero())
	assert.False(t, pending.ExecutionSlippage.Valid)
}

func TestReconcile_FIFOAcrossOrders(t *testing.T) {
	orders := []*domain.ClientOrder{
		testOrder("O1", 30, "10.00"),
		testOrder("O2", 70, "10.00"),
	}
	fills := []*domain.BrokerFill{testFill("T1", 50, "9.50", "0", "0")}

	rec, err := Reconcile(orders, fills)
	require.NoError(t, err)
	require.Len(t, rec.Results, 3)

	first := rec.Results[0]
	assert.Equal(t, "O1", *first.OrderID)
	assert.Equal(t, domain.StatusMatched, first.Status)
	assert.Equal(t, int64(30), first.MatchedQuantity)
	assert.Equal(t, int64(0), first.UnmatchedQuantity)
	require.True(t, first.ExecutionSlippage.Valid)
	assert.True(t, first.ExecutionSlippage.Decimal.Equal(decimal.RequireFromString("0.5")))

	second := rec.Results[1]
	assert.Equal(t, "O2", *second.OrderID)
	assert.Equal(t, domain.StatusPartial, second.Status)
	assert.Equal(t, int64(20), second.MatchedQuantity)
	assert.Equal(t, int64(50), second.UnmatchedQuantity)

	// The fill is fully consumed, so the only remaining row is O2's leftover.
	pending := rec.Results[2]
	assert.Equal(t, "O2", *pending.OrderID)
	assert.Equal(t, domain.StatusPending, pending.Status)
	assert.Equal(t, int64(50), pending.UnmatchedQuantity)
}

func TestReconcile_CheaperFillsAllocatedFirst(t *testing.T) {
	orders := []*domain.ClientOrder{testOrder("O1", 50, "10.00")}
	fills := []*domain.BrokerFill{
		testFill("T-expensive", 50, "11.00", "0", "0"),
		testFill("T-cheap", 50, "9.00", "0", "0"),
	}

	rec, err := Reconcile(orders, fills)
	require.NoError(t, err)
	require.Len(t, rec.Results, 2)

	// The cheap fill satisfies the order; the expensive one is surplus.
	matched := rec.Results[0]
	assert.Equal(t, domain.StatusMatched, matched.Status)
	assert.True(t, matched.TotalCost.Equal(decimal.RequireFromString("450")), "got %s", matched.TotalCost)

	assert.Equal(t, domain.StatusExcess, rec.Results[1].Status)
}

func TestReconcile_SidesDoNotCross(t *testing.T) {
	buy := testOrder("O-buy", 50, "10.00")
	sell := testFill("T-sell", 50, "10.00", "0", "0")
	sell.Side = domain.Sell

	rec, err := Reconcile([]*domain.ClientOrder{buy}, []*domain.BrokerFill{sell})
	require.NoError(t, err)
	require.Len(t, rec.Results, 2)
	assert.Equal(t, domain.StatusPending, rec.Results[0].Status)
	assert.Equal(t, domain.StatusExcess, rec.Results[1].Status)
}

func TestReconcile_EmptyInputs(t *testing.T) {
	orders := []*domain.ClientOrder{testOrder("O1", 10, "1")}
	fills := []*domain.BrokerFill{testFill("T1", 10, "1", "0", "0")}

	var emptyErr *domain.EmptyInputError

	_, err := Reconcile(nil, fills)
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "client orders", emptyErr.Collection)

	_, err = Reconcile(orders, nil)
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "broker fills", emptyErr.Collection)
}

func TestReconcile_MalformedRecordsRejectWholeRun(t *testing.T) {
	good := testOrder("O1", 10, "1")
	fills := []*domain.BrokerFill{testFill("T1", 10, "1", "0", "0")}

	cases := []struct {
		name   string
		orders []*domain.ClientOrder
		fills  []*domain.BrokerFill
	}{
		{
			name:   "negative order quantity",
			orders: []*domain.ClientOrder{good, testOrder("O2", -5, "1")},
			fills:  fills,
		},
		{
			name: "unknown order side",
			orders: func() []*domain.ClientOrder {
				o := testOrder("O2", 5, "1")
				o.Side = "HOLD"
				return []*domain.ClientOrder{good, o}
			}(),
			fills: fills,
		},
		{
			name:   "zero fill quantity",
			orders: []*domain.ClientOrder{good},
			fills:  []*domain.BrokerFill{testFill("T2", 0, "1", "0", "0")},
		},
		{
			name:   "missing trade id",
			orders: []*domain.ClientOrder{good},
			fills:  []*domain.BrokerFill{testFill("", 5, "1", "0", "0")},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := Reconcile(tc.orders, tc.fills)
			var malformed *domain.MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Nil(t, rec)
		})
	}
}

func TestReconcile_FilledQtyCarriesAcrossRun(t *testing.T) {
	// One order, two fills arriving at different costs; the order's running
	// fill state must be shared between them, not reset per fill.
	orders := []*domain.ClientOrder{testOrder("O1", 100, "10.00")}
	fills := []*domain.BrokerFill{
		testFill("T1", 70, "9.00", "0", "0"),
		testFill("T2", 30, "11.00", "0", "0"),
	}

	rec, err := Reconcile(orders, fills)
	require.NoError(t, err)
	require.Len(t, rec.Results, 2)
	assert.Equal(t, int64(100), orders[0].FilledQty)
	assert.Equal(t, domain.StatusPartial, rec.Results[0].Status)
	assert.Equal(t, domain.StatusPartial, rec.Results[1].Status)
	assert.Equal(t, int64(0), rec.Results[1].UnmatchedQuantity)
}
