package ranking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/sales-reporter/internal/aggregation"
	"github.com/storekit/sales-reporter/internal/types"
)

type fakeProductSource struct {
	products map[string]types.ProductRecord
	err      error
}

func (f *fakeProductSource) ProductsByIDs(_ context.Context, _ []string) (map[string]types.ProductRecord, error) {
	return f.products, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSelectTop_SortsByQuantityDescending(t *testing.T) {
	totals := aggregation.Totals{
		Quantities: map[string]int{"p1": 5, "p2": 1, "p3": 5},
		ProductIDs: []string{"p1", "p2", "p3"},
	}
	src := &fakeProductSource{products: map[string]types.ProductRecord{
		"p1": {ID: "p1", Name: "Widget", ImageURL: "https://cdn.example.com/widget.png"},
		"p2": {ID: "p2", Name: "Gadget"},
		"p3": {ID: "p3", Name: "Gizmo"},
	}}

	selection, err := SelectTop(context.Background(), src, totals, 3, discard())
	require.NoError(t, err)
	require.Len(t, selection, 3)

	// p1 and p3 tie at 5; p1 was seen first so it stays ahead.
	assert.Equal(t, "p1", selection[0].ProductID)
	assert.Equal(t, "p3", selection[1].ProductID)
	assert.Equal(t, "p2", selection[2].ProductID)
	assert.Equal(t, 5, selection[0].Quantity)
	assert.Equal(t, "Widget", selection[0].Name)
	assert.Equal(t, "https://cdn.example.com/widget.png", selection[0].ImageURL)
}

func TestSelectTop_TiesPreserveFirstSeenOrder(t *testing.T) {
	totals := aggregation.Totals{
		Quantities: map[string]int{"a": 5, "b": 5, "c": 3},
		ProductIDs: []string{"a", "b", "c"},
	}
	src := &fakeProductSource{products: map[string]types.ProductRecord{}}

	selection, err := SelectTop(context.Background(), src, totals, 3, discard())
	require.NoError(t, err)

	ids := []string{selection[0].ProductID, selection[1].ProductID, selection[2].ProductID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestSelectTop_TruncatesToK(t *testing.T) {
	totals := aggregation.Totals{
		Quantities: map[string]int{"p1": 9, "p2": 8, "p3": 7, "p4": 6},
		ProductIDs: []string{"p1", "p2", "p3", "p4"},
	}
	src := &fakeProductSource{products: map[string]types.ProductRecord{}}

	selection, err := SelectTop(context.Background(), src, totals, 3, discard())
	require.NoError(t, err)
	require.Len(t, selection, 3)
	assert.Equal(t, "p1", selection[0].ProductID)
	assert.Equal(t, "p3", selection[2].ProductID)
}

func TestSelectTop_FewerThanKReturnsAll(t *testing.T) {
	totals := aggregation.Totals{
		Quantities: map[string]int{"p1": 2},
		ProductIDs: []string{"p1"},
	}
	src := &fakeProductSource{products: map[string]types.ProductRecord{}}

	selection, err := SelectTop(context.Background(), src, totals, 3, discard())
	require.NoError(t, err)
	assert.Len(t, selection, 1)
}

func TestSelectTop_LookupMissFallsBackToUnknown(t *testing.T) {
	totals := aggregation.Totals{
		Quantities: map[string]int{"ghost": 4},
		ProductIDs: []string{"ghost"},
	}
	src := &fakeProductSource{products: map[string]types.ProductRecord{}}

	selection, err := SelectTop(context.Background(), src, totals, 3, discard())
	require.NoError(t, err)
	require.Len(t, selection, 1)
	assert.Equal(t, types.UnknownProductName, selection[0].Name)
	assert.Empty(t, selection[0].ImageURL)
}

func TestSelectTop_LookupErrorIsFatal(t *testing.T) {
	totals := aggregation.Totals{
		Quantities: map[string]int{"p1": 1},
		ProductIDs: []string{"p1"},
	}
	src := &fakeProductSource{err: errors.New("timeout")}

	_, err := SelectTop(context.Background(), src, totals, 3, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product lookup failed")
}

func TestSelectTop_EmptyTotals(t *testing.T) {
	src := &fakeProductSource{products: map[string]types.ProductRecord{}}

	selection, err := SelectTop(context.Background(), src, aggregation.Totals{Quantities: map[string]int{}}, 3, discard())
	require.NoError(t, err)
	assert.Empty(t, selection)
}
