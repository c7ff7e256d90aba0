package aggregation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/sales-reporter/internal/types"
)

type fakeOrderSource struct {
	orders []types.OrderRecord
	err    error
}

func (f *fakeOrderSource) EligibleOrders(_ context.Context, _ string, _ types.ReportWindow) ([]types.OrderRecord, error) {
	return f.orders, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWindow() types.ReportWindow {
	return types.TrailingWeek(time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC))
}

func order(id string, items string) types.OrderRecord {
	o := types.OrderRecord{
		ID:        id,
		Status:    types.OrderStatusDelivered,
		CreatedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
	if items != "" {
		o.Items = json.RawMessage(items)
	}
	return o
}

func TestAggregate_SumsQuantitiesPerProduct(t *testing.T) {
	src := &fakeOrderSource{orders: []types.OrderRecord{
		order("o1", `[{"product_id":"p1","quantity":2},{"product_id":"p2","quantity":1}]`),
		order("o2", `[{"product_id":"p1","quantity":3}]`),
		order("o3", `[{"product_id":"p3","quantity":5}]`),
	}}

	res, err := Aggregate(context.Background(), src, types.OrderStatusDelivered, testWindow(), discard())
	require.NoError(t, err)

	assert.Equal(t, 3, res.OrderCount)
	assert.Equal(t, 0, res.SkippedOrders)
	assert.Equal(t, map[string]int{"p1": 5, "p2": 1, "p3": 5}, res.Totals.Quantities)
	assert.Equal(t, []string{"p1", "p2", "p3"}, res.Totals.ProductIDs)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	forward := &fakeOrderSource{orders: []types.OrderRecord{
		order("o1", `[{"product_id":"p1","quantity":2}]`),
		order("o2", `[{"product_id":"p1","quantity":3},{"product_id":"p2","quantity":4}]`),
	}}
	reversed := &fakeOrderSource{orders: []types.OrderRecord{
		forward.orders[1], forward.orders[0],
	}}

	a, err := Aggregate(context.Background(), forward, types.OrderStatusDelivered, testWindow(), discard())
	require.NoError(t, err)
	b, err := Aggregate(context.Background(), reversed, types.OrderStatusDelivered, testWindow(), discard())
	require.NoError(t, err)

	assert.Equal(t, a.Totals.Quantities, b.Totals.Quantities)
}

func TestAggregate_MissingItemsContributesZero(t *testing.T) {
	src := &fakeOrderSource{orders: []types.OrderRecord{
		order("o1", ""),
		order("o2", `[{"product_id":"p1","quantity":1}]`),
	}}

	res, err := Aggregate(context.Background(), src, types.OrderStatusDelivered, testWindow(), discard())
	require.NoError(t, err)

	assert.Equal(t, 1, res.SkippedOrders)
	assert.Equal(t, map[string]int{"p1": 1}, res.Totals.Quantities)
}

func TestAggregate_MalformedItemsContributesZero(t *testing.T) {
	src := &fakeOrderSource{orders: []types.OrderRecord{
		order("o1", `{"product_id":"p1","quantity":9}`),
		order("o2", `[{"product_id":"p2","quantity":2}]`),
	}}

	res, err := Aggregate(context.Background(), src, types.OrderStatusDelivered, testWindow(), discard())
	require.NoError(t, err)

	assert.Equal(t, 1, res.SkippedOrders)
	assert.Equal(t, map[string]int{"p2": 2}, res.Totals.Quantities)
}

func TestAggregate_IgnoresNonPositiveQuantities(t *testing.T) {
	src := &fakeOrderSource{orders: []types.OrderRecord{
		order("o1", `[{"product_id":"p1","quantity":0},{"product_id":"p2","quantity":-3},{"product_id":"p3","quantity":1}]`),
	}}

	res, err := Aggregate(context.Background(), src, types.OrderStatusDelivered, testWindow(), discard())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"p3": 1}, res.Totals.Quantities)
	assert.Equal(t, []string{"p3"}, res.Totals.ProductIDs)
}

func TestAggregate_IneligibleOrOutOfWindowOrdersContributeZero(t *testing.T) {
	late := order("o-late", `[{"product_id":"p1","quantity":9}]`)
	late.CreatedAt = time.Date(2026, 9, 1, 1, 0, 0, 0, time.UTC) // invocation day
	cancelled := order("o-cancelled", `[{"product_id":"p1","quantity":9}]`)
	cancelled.Status = types.OrderStatusCancelled

	src := &fakeOrderSource{orders: []types.OrderRecord{
		late,
		cancelled,
		order("o-ok", `[{"product_id":"p1","quantity":2}]`),
	}}

	res, err := Aggregate(context.Background(), src, types.OrderStatusDelivered, testWindow(), discard())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2}, res.Totals.Quantities)
}

func TestAggregate_QueryFailureIsFatal(t *testing.T) {
	src := &fakeOrderSource{err: errors.New("connection refused")}

	_, err := Aggregate(context.Background(), src, types.OrderStatusDelivered, testWindow(), discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregation query failed")
}

func TestAggregate_EmptyWindow(t *testing.T) {
	src := &fakeOrderSource{}

	res, err := Aggregate(context.Background(), src, types.OrderStatusDelivered, testWindow(), discard())
	require.NoError(t, err)
	assert.Empty(t, res.Totals.Quantities)
	assert.Empty(t, res.Totals.ProductIDs)
	assert.Equal(t, 0, res.OrderCount)
}
