package core

import (
	"github.com/tradeflow/reconengine/internal/domain"
)

// validateInputs rejects a run whose inputs are empty or malformed before any
// allocation happens. Fail-fast: a partially reconciled batch is worse than a
// failed one.
func validateInputs(orders []*domain.ClientOrder, fills []*domain.BrokerFill) error {
	if len(orders) == 0 {
		return &domain.EmptyInputError{Collection: "client orders"}
	}
	if len(fills) == 0 {
		return &domain.EmptyInputError{Collection: "broker fills"}
	}
	for _, o := range orders {
		if err := validateOrder(o); err != nil {
			return err
		}
	}
	for _, f := range fills {
		if err := validateFill(f); err != nil {
			return err
		}
	}
	return nil
}

func validateOrder(o *domain.ClientOrder) error {
	reject := func(reason string) error {
		return &domain.MalformedRecordError{Kind: "client order", ID: o.OrderID, Reason: reason}
	}
	switch {
	case o.OrderID == "":
		return reject("missing order id")
	case o.ISIN == "":
		return reject("missing instrument identifier")
	case !o.Side.Valid():
		return reject("unknown side " + string(o.Side))
	case o.Quantity <= 0:
		return reject("quantity must be positive")
	case o.OrderPrice.IsNegative():
		return reject("negative order price")
	case o.OrderDate.IsZero():
		return reject("missing order date")
	}
	return nil
}

func validateFill(f *domain.BrokerFill) error {
	reject := func(reason string) error {
		return &domain.MalformedRecordError{Kind: "broker fill", ID: f.TradeID, Reason: reason}
	}
	switch {
	case f.TradeID == "":
		return reject("missing trade id")
	case f.ISIN == "":
		return reject("missing instrument identifier")
	case !f.Side.Valid():
		return reject("unknown side " + string(f.Side))
	case f.Quantity <= 0:
		return reject("quantity must be positive")
	case f.UnitCost.IsNegative():
		return reject("negative unit cost")
	case f.BrokerageFee.IsNegative():
		return reject("negative brokerage fee")
	case f.TransactionTax.IsNegative():
		return reject("negative transaction tax")
	case f.DealDate.IsZero():
		return reject("missing deal date")
	}
	return nil
}
