package port

import (
	"context"

	"github.com/tradeflow/reconengine/internal/domain"
)

// StatusCache keeps recent run status records close to the polling endpoint.
// GetRun returns (nil, nil) on a miss; callers fall through to the repository.
type StatusCache interface {
	SetRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
}
