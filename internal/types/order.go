// Package types provides type definitions for structured data used throughout the sales-reporter system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"time"
)

// Order status values as stored in the orders table. Only delivered
// orders are eligible for the weekly report.
const (
	OrderStatusPending   = "pending"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// LineItem represents a single product/quantity pair within an order.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderRecord represents an order row as read from the store. Items is
// kept raw so a missing or malformed payload degrades to zero line
// items instead of failing the row scan.
type OrderRecord struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	OrderedBy string          `json:"ordered_by"`
	Items     json.RawMessage `json:"items,omitempty"`
}

// DecodeItems returns the order's line items. A nil, empty, or
// non-array payload yields no items and ok=false; the caller decides
// whether that is worth logging.
func (o *OrderRecord) DecodeItems() (items []LineItem, ok bool) {
	if len(o.Items) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, false
	}
	return items, true
}
