// Package ranking selects the best-selling products from aggregated
// sales totals.
package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/storekit/sales-reporter/internal/aggregation"
	"github.com/storekit/sales-reporter/internal/types"
)

// ProductSource supplies product metadata for a set of ids in one
// batched read.
type ProductSource interface {
	ProductsByIDs(ctx context.Context, ids []string) (map[string]types.ProductRecord, error)
}

// SelectTop joins aggregated totals with product metadata and returns
// the top-k items by quantity descending. Ties preserve the
// aggregator's first-seen order. Products missing from the lookup
// degrade to name "Unknown" with no image rather than failing.
func SelectTop(ctx context.Context, src ProductSource, totals aggregation.Totals, k int, log *slog.Logger) (types.RankedSelection, error) {
	products, err := src.ProductsByIDs(ctx, totals.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}

	selection := make(types.RankedSelection, 0, len(totals.ProductIDs))
	for _, id := range totals.ProductIDs {
		item := types.AggregatedItem{
			ProductID: id,
			Quantity:  totals.Quantities[id],
			Name:      types.UnknownProductName,
		}
		if p, found := products[id]; found {
			item.Name = p.Name
			item.ImageURL = p.ImageURL
		} else {
			log.Warn("product lookup miss, using fallback name",
				slog.String("product_id", id))
		}
		selection = append(selection, item)
	}

	// Stable sort keeps first-seen order on equal quantities.
	sort.SliceStable(selection, func(i, j int) bool {
		return selection[i].Quantity > selection[j].Quantity
	})

	if k >= 0 && len(selection) > k {
		selection = selection[:k]
	}
	return selection, nil
}
