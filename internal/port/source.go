package port

import (
	"context"

	"github.com/tradeflow/reconengine/internal/domain"
)

// OrderSource supplies the client orders for a run, already deduplicated and
// well-typed.
type OrderSource interface {
	FetchOrders(ctx context.Context) ([]*domain.ClientOrder, error)
}

// FillSource supplies the broker fills for a run. Attachment extraction,
// column mapping, and type coercion happen behind this interface.
type FillSource interface {
	FetchFills(ctx context.Context) ([]*domain.BrokerFill, error)
}
