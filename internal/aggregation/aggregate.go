// Package aggregation accumulates per-product sales quantities over a
// reporting window.
package aggregation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/storekit/sales-reporter/internal/types"
)

// OrderSource supplies the eligible orders for a window.
type OrderSource interface {
	EligibleOrders(ctx context.Context, status string, window types.ReportWindow) ([]types.OrderRecord, error)
}

// Totals holds cumulative quantities per product. ProductIDs preserves
// first-seen order so downstream ranking can break ties
// deterministically.
type Totals struct {
	Quantities map[string]int
	ProductIDs []string
}

// Result summarizes one aggregation pass. SkippedOrders counts orders
// whose items payload was missing or undecodable; those contribute zero
// and the run continues.
type Result struct {
	Totals        Totals
	OrderCount    int
	SkippedOrders int
}

// Aggregate queries all orders matching status within the window and
// sums line-item quantities per product. A missing or malformed items
// payload contributes zero items and is logged, never fatal. A query
// failure is fatal and propagated.
func Aggregate(ctx context.Context, src OrderSource, status string, window types.ReportWindow, log *slog.Logger) (*Result, error) {
	orders, err := src.EligibleOrders(ctx, status, window)
	if err != nil {
		return nil, fmt.Errorf("aggregation query failed: %w", err)
	}

	res := &Result{
		Totals:     Totals{Quantities: make(map[string]int)},
		OrderCount: len(orders),
	}
	for i := range orders {
		order := &orders[i]
		// Re-check eligibility so the fold does not depend on the
		// source's filtering.
		if order.Status != status || !window.Contains(order.CreatedAt) {
			continue
		}
		items, ok := order.DecodeItems()
		if !ok && len(order.Items) > 0 {
			res.SkippedOrders++
			log.Warn("order has malformed items payload, skipping",
				slog.String("order_id", order.ID))
			continue
		}
		if !ok {
			res.SkippedOrders++
			log.Warn("order has no items payload, skipping",
				slog.String("order_id", order.ID))
			continue
		}
		for _, item := range items {
			if item.ProductID == "" || item.Quantity <= 0 {
				continue
			}
			if _, seen := res.Totals.Quantities[item.ProductID]; !seen {
				res.Totals.ProductIDs = append(res.Totals.ProductIDs, item.ProductID)
			}
			res.Totals.Quantities[item.ProductID] += item.Quantity
		}
	}
	return res, nil
}
