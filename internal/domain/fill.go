package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BrokerFill is one executed trade reported by the broker, typically parsed
// from a contract-note spreadsheet. Fills are immutable once ingested; the
// engine fully consumes each fill across one or more orders or reports the
// remainder as excess.
type BrokerFill struct {
	TradeID        string
	PartyCode      string
	Instrument     string
	ISIN           string
	Side           Side
	Quantity       int64
	UnitCost       decimal.Decimal
	NetAmount      decimal.Decimal
	BrokerageFee   decimal.Decimal
	TransactionTax decimal.Decimal
	DealDate       time.Time
	SettlementDate time.Time
	ExchangeCode   string
	DepositoryCode string
}
