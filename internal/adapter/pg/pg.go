package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tradeflow/reconengine/internal/domain"
	"github.com/tradeflow/reconengine/internal/port"
)

var (
	_ port.Repository  = (*Repository)(nil)
	_ port.OrderSource = (*Repository)(nil)
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateRun(ctx context.Context, run *domain.Run) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO reconciliation_runs(run_id, status, reason, created_at, updated_at)
VALUES($1,$2,NULLIF($3,''),$4,$4)
`, run.ID, string(run.Status), run.Reason, run.CreatedAt)
	return err
}

func (r *Repository) UpdateRunStatus(ctx context.Context, runID string, status domain.RunStatus, reason string) error {
	res, err := r.pool.Exec(ctx, `
UPDATE reconciliation_runs
SET status = $1, reason = NULLIF($2,''), updated_at = now()
WHERE run_id = $3
`, string(status), reason, runID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// GetRun returns (nil, nil) for an unknown run id.
func (r *Repository) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	var (
		run    domain.Run
		status string
		reason *string
	)
	err := r.pool.QueryRow(ctx, `
SELECT run_id, status, reason, created_at, updated_at
FROM reconciliation_runs
WHERE run_id = $1
`, runID).Scan(&run.ID, &status, &reason, &run.CreatedAt, &run.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.Status = domain.RunStatus(status)
	if reason != nil {
		run.Reason = *reason
	}
	return &run, nil
}

func (r *Repository) SaveClientOrders(ctx context.Context, orders []*domain.ClientOrder) error {
	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(`
INSERT INTO client_orders(order_id, client_id, isin, side, quantity, order_price, order_date)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (order_id) DO UPDATE SET
  client_id = EXCLUDED.client_id,
  isin = EXCLUDED.isin,
  side = EXCLUDED.side,
  quantity = EXCLUDED.quantity,
  order_price = EXCLUDED.order_price,
  order_date = EXCLUDED.order_date
`, o.OrderID, o.ClientID, o.ISIN, string(o.Side), o.Quantity, o.OrderPrice.String(), o.OrderDate)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *Repository) SaveBrokerFills(ctx context.Context, fills []*domain.BrokerFill) error {
	batch := &pgx.Batch{}
	for _, f := range fills {
		batch.Queue(`
INSERT INTO broker_fills(trade_id, party_code, instrument, isin, side, quantity, unit_cost,
                         net_amount, brokerage_fee, transaction_tax, deal_date, settlement_date,
                         exchange_code, depository_code)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (trade_id) DO NOTHING
`, f.TradeID, f.PartyCode, f.Instrument, f.ISIN, string(f.Side), f.Quantity, f.UnitCost.String(),
			f.NetAmount.String(), f.BrokerageFee.String(), f.TransactionTax.String(), f.DealDate,
			f.SettlementDate, f.ExchangeCode, f.DepositoryCode)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *Repository) SaveResults(ctx context.Context, runID string, results []domain.ReconciliationResult) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, res := range results {
			var slippage *string
			if res.ExecutionSlippage.Valid {
				s := res.ExecutionSlippage.Decimal.String()
				slippage = &s
			}
			_, err := tx.Exec(ctx, `
INSERT INTO reconciliation_results(run_id, order_id, client_id, isin, matched_quantity,
                                   unmatched_quantity, status, total_cost, execution_slippage)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, runID, res.OrderID, res.ClientID, res.ISIN, res.MatchedQuantity,
				res.UnmatchedQuantity, string(res.Status), res.TotalCost.String(), slippage)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// FetchOrders reads the client order staging table in ingestion order,
// implementing port.OrderSource.
func (r *Repository) FetchOrders(ctx context.Context) ([]*domain.ClientOrder, error) {
	rows, err := r.pool.Query(ctx, `
SELECT order_id, client_id, isin, side, quantity, order_price::text, order_date
FROM client_orders
ORDER BY seq ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.ClientOrder
	for rows.Next() {
		var (
			o     domain.ClientOrder
			side  string
			price string
		)
		if err := rows.Scan(&o.OrderID, &o.ClientID, &o.ISIN, &side, &o.Quantity, &price, &o.OrderDate); err != nil {
			return nil, err
		}
		o.Side = domain.Side(side)
		if o.OrderPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("order %s: parse price: %w", o.OrderID, err)
		}
		res = append(res, &o)
	}
	return res, rows.Err()
}

func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}
