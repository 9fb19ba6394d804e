package port

import (
	"context"

	"github.com/tradeflow/reconengine/internal/domain"
)

// Repository is the durable store for runs, input snapshots, and results.
type Repository interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	UpdateRunStatus(ctx context.Context, runID string, status domain.RunStatus, reason string) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)

	SaveClientOrders(ctx context.Context, orders []*domain.ClientOrder) error
	SaveBrokerFills(ctx context.Context, fills []*domain.BrokerFill) error

	// SaveResults persists a run's full result set atomically: either every
	// row commits or none do.
	SaveResults(ctx context.Context, runID string, results []domain.ReconciliationResult) error
}
