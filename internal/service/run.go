// Package service orchestrates reconciliation runs: ingestion, the matching
// engine, persistence, and report generation.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradeflow/reconengine/internal/adapter/report"
	"github.com/tradeflow/reconengine/internal/core"
	"github.com/tradeflow/reconengine/internal/domain"
	"github.com/tradeflow/reconengine/internal/metrics"
	"github.com/tradeflow/reconengine/internal/port"
)

type RunService struct {
	repo    port.Repository
	cache   port.StatusCache
	orders  port.OrderSource
	fills   port.FillSource
	reports *report.Generator
	log     *zap.Logger
	timeout time.Duration
}

func NewRunService(
	repo port.Repository,
	cache port.StatusCache,
	orders port.OrderSource,
	fills port.FillSource,
	reports *report.Generator,
	log *zap.Logger,
	timeout time.Duration,
) *RunService {
	return &RunService{
		repo:    repo,
		cache:   cache,
		orders:  orders,
		fills:   fills,
		reports: reports,
		log:     log,
		timeout: timeout,
	}
}

// Trigger records a new pending run and executes it in the background. The
// returned id is immediately pollable via Status.
func (s *RunService) Trigger(ctx context.Context) (string, error) {
	run := &domain.Run{
		ID:        uuid.NewString(),
		Status:    domain.RunPending,
		CreatedAt: time.Now().UTC(),
	}
	run.UpdatedAt = run.CreatedAt
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	s.cacheRun(ctx, run)
	metrics.RunsStarted.Inc()

	go s.execute(run.ID)
	return run.ID, nil
}

// Status returns the run record for an id, or nil when unknown. The cache is
// consulted first; repository hits are written back.
func (s *RunService) Status(ctx context.Context, runID string) (*domain.Run, error) {
	if run, err := s.cache.GetRun(ctx, runID); err == nil && run != nil {
		return run, nil
	}
	run, err := s.repo.GetRun(ctx, runID)
	if err != nil || run == nil {
		return run, err
	}
	s.cacheRun(ctx, run)
	return run, nil
}

// execute owns the run's deadline; the engine itself has no timeout
// semantics.
func (s *RunService) execute(runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := s.runOnce(ctx, runID)
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RunsCompleted.WithLabelValues(string(domain.RunFailed)).Inc()
		s.log.Warn("reconciliation run failed",
			zap.String("run_id", runID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		s.finish(runID, domain.RunFailed, err.Error())
		return
	}
	metrics.RunsCompleted.WithLabelValues(string(domain.RunSuccess)).Inc()
	s.log.Info("reconciliation run succeeded",
		zap.String("run_id", runID),
		zap.Duration("elapsed", time.Since(start)))
	s.finish(runID, domain.RunSuccess, "")
}

func (s *RunService) runOnce(ctx context.Context, runID string) error {
	orders, err := s.orders.FetchOrders(ctx)
	if err != nil {
		return fmt.Errorf("fetch client orders: %w", err)
	}
	if len(orders) == 0 {
		return &domain.EmptyInputError{Collection: "client orders"}
	}
	fills, err := s.fills.FetchFills(ctx)
	if err != nil {
		return fmt.Errorf("fetch broker fills: %w", err)
	}
	if len(fills) == 0 {
		return &domain.EmptyInputError{Collection: "broker fills"}
	}

	// Snapshot the inputs before matching, as the audit trail for the run.
	if err := s.repo.SaveClientOrders(ctx, orders); err != nil {
		return fmt.Errorf("persist client orders: %w", err)
	}
	if err := s.repo.SaveBrokerFills(ctx, fills); err != nil {
		return fmt.Errorf("persist broker fills: %w", err)
	}

	rec, err := core.Reconcile(orders, fills)
	if err != nil {
		return err
	}
	for _, r := range rec.Results {
		metrics.ResultsEmitted.WithLabelValues(string(r.Status)).Inc()
	}

	if err := s.repo.SaveResults(ctx, runID, rec.Results); err != nil {
		return fmt.Errorf("persist results: %w", err)
	}
	if err := s.reports.Write(rec.Results, rec.BrokerScores()); err != nil {
		return err
	}
	return nil
}

func (s *RunService) finish(runID string, status domain.RunStatus, reason string) {
	// The run goroutine's context may already be past its deadline; status
	// bookkeeping gets its own.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.repo.UpdateRunStatus(ctx, runID, status, reason); err != nil {
		s.log.Error("failed to record run status",
			zap.String("run_id", runID),
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}
	if run, err := s.repo.GetRun(ctx, runID); err == nil && run != nil {
		s.cacheRun(ctx, run)
	}
}

func (s *RunService) cacheRun(ctx context.Context, run *domain.Run) {
	if err := s.cache.SetRun(ctx, run); err != nil {
		s.log.Debug("status cache write failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}
