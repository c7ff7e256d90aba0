package db

import (
	"context"
	"fmt"

	"github.com/storekit/sales-reporter/internal/types"
)

// ProductsByIDs bulk-looks-up products by id and returns them keyed by
// id. IDs with no matching row are simply absent from the result; the
// caller substitutes defaults. The lookup is issued as a single batched
// query (see DESIGN.md on the batch-size open question).
func (db *DB) ProductsByIDs(ctx context.Context, ids []string) (map[string]types.ProductRecord, error) {
	products := make(map[string]types.ProductRecord, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(image_url, '')
		 FROM products
		 WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p types.ProductRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}
