package in_memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tradeflow/reconengine/internal/domain"
	"github.com/tradeflow/reconengine/internal/port"
)

var (
	_ port.Repository  = (*Repo)(nil)
	_ port.OrderSource = (*Repo)(nil)
)

// Repo is the in-process stand-in for the Postgres repository, used by
// service and API tests.
type Repo struct {
	mu      sync.Mutex
	runs    map[string]*domain.Run
	orders  []*domain.ClientOrder
	fills   []*domain.BrokerFill
	results map[string][]domain.ReconciliationResult
}

func NewRepo() *Repo {
	return &Repo{
		runs:    make(map[string]*domain.Run),
		results: make(map[string][]domain.ReconciliationResult),
	}
}

func (r *Repo) CreateRun(ctx context.Context, run *domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *run
	r.runs[run.ID] = &cp
	return nil
}

func (r *Repo) UpdateRunStatus(ctx context.Context, runID string, status domain.RunStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return errors.New("run not found")
	}
	run.Status = status
	run.Reason = reason
	run.UpdatedAt = time.Now()
	return nil
}

func (r *Repo) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return nil, nil
	}
	cp := *run
	return &cp, nil
}

func (r *Repo) SaveClientOrders(ctx context.Context, orders []*domain.ClientOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append([]*domain.ClientOrder(nil), orders...)
	return nil
}

func (r *Repo) SaveBrokerFills(ctx context.Context, fills []*domain.BrokerFill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fills = append([]*domain.BrokerFill(nil), fills...)
	return nil
}

func (r *Repo) SaveResults(ctx context.Context, runID string, results []domain.ReconciliationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[runID] = append([]domain.ReconciliationResult(nil), results...)
	return nil
}

func (r *Repo) FetchOrders(ctx context.Context) ([]*domain.ClientOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.ClientOrder(nil), r.orders...), nil
}

// Results returns the persisted result set for a run.
func (r *Repo) Results(runID string) []domain.ReconciliationResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ReconciliationResult(nil), r.results[runID]...)
}
