package db

import (
	"context"
	"fmt"

	"github.com/storekit/sales-reporter/internal/types"
)

// EligibleOrders returns all orders with the given status created
// within the window, inclusive on both ends. Items is returned raw;
// lenient decoding is the aggregator's concern.
func (db *DB) EligibleOrders(ctx context.Context, status string, window types.ReportWindow) ([]types.OrderRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, status, created_at, ordered_by, items
		 FROM orders
		 WHERE status = $1 AND created_at BETWEEN $2 AND $3
		 ORDER BY created_at`,
		status, window.Start, window.End,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible orders: %w", err)
	}
	defer rows.Close()

	var orders []types.OrderRecord
	for rows.Next() {
		var o types.OrderRecord
		if err := rows.Scan(&o.ID, &o.Status, &o.CreatedAt, &o.OrderedBy, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order rows: %w", err)
	}
	return orders, nil
}
