package mailbox

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/tradeflow/reconengine/internal/domain"
)

// Column headers as they appear on broker contract notes. Matching is
// case-insensitive after trimming.
const (
	colTradeID    = "trade id"
	colDealDate   = "deal date"
	colPartyCode  = "party code"
	colInstrument = "instrument"
	colISIN       = "isin"
	colSide       = "buy/sell flag"
	colQuantity   = "quantity"
	colCost       = "cost"
	colNetAmount  = "net amount"
	colBrokerage  = "brokerage amount"
	colSettlement = "settlement date"
	colSTT        = "stt"
	colExchange   = "exchange code"
	colDepository = "depository code"
)

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"01-02-2006",
	"2006/01/02",
}

// parseWorkbook reads the first sheet of a contract-note workbook into
// well-typed fills. The first row is the header; fully empty rows are
// skipped. Rows without a trade id column are assigned one.
func parseWorkbook(r io.Reader) ([]*domain.BrokerFill, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colDealDate, colISIN, colSide, colQuantity, colCost} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var fills []*domain.BrokerFill
	for n, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		f, err := parseRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		fills = append(fills, f)
	}
	return fills, nil
}

func parseRow(cols map[string]int, row []string) (*domain.BrokerFill, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	f := &domain.BrokerFill{
		TradeID:        cell(colTradeID),
		PartyCode:      cell(colPartyCode),
		Instrument:     cell(colInstrument),
		ISIN:           cell(colISIN),
		ExchangeCode:   cell(colExchange),
		DepositoryCode: cell(colDepository),
	}
	if f.TradeID == "" {
		f.TradeID = uuid.NewString()
	}

	side, err := parseSide(cell(colSide))
	if err != nil {
		return nil, err
	}
	f.Side = side

	if f.Quantity, err = parseQuantity(cell(colQuantity)); err != nil {
		return nil, err
	}
	if f.UnitCost, err = parseAmount(cell(colCost), "cost"); err != nil {
		return nil, err
	}
	if f.NetAmount, err = parseOptionalAmount(cell(colNetAmount), "net amount"); err != nil {
		return nil, err
	}
	if f.BrokerageFee, err = parseOptionalAmount(cell(colBrokerage), "brokerage amount"); err != nil {
		return nil, err
	}
	if f.TransactionTax, err = parseOptionalAmount(cell(colSTT), "stt"); err != nil {
		return nil, err
	}
	if f.DealDate, err = parseDate(cell(colDealDate), "deal date"); err != nil {
		return nil, err
	}
	if raw := cell(colSettlement); raw != "" {
		if f.SettlementDate, err = parseDate(raw, "settlement date"); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseSide(raw string) (domain.Side, error) {
	switch strings.ToUpper(raw) {
	case "B", "BUY":
		return domain.Buy, nil
	case "S", "SELL":
		return domain.Sell, nil
	default:
		return "", fmt.Errorf("unknown buy/sell flag %q", raw)
	}
}

func parseQuantity(raw string) (int64, error) {
	qty, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", raw, err)
	}
	return qty, nil
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

func parseOptionalAmount(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return parseAmount(raw, field)
}

func parseDate(raw, field string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse %s %q: unrecognized date format", field, raw)
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
