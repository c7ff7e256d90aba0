// Package notify relays new-order events to a fixed set of recipients
// over a messaging transport. Relay failures are logged, never retried,
// and never propagated back to the order-creation path.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// OrderCreatedEvent is the payload published when a new order record is
// created.
type OrderCreatedEvent struct {
	OrderID   string `json:"order_id"`
	OrderedBy string `json:"ordered_by"`
}

// orderCreatedSchema validates incoming payloads before they are
// decoded. Anything that fails here is dropped, not retried.
const orderCreatedSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["order_id", "ordered_by"],
	"properties": {
		"order_id": {"type": "string", "minLength": 1},
		"ordered_by": {"type": "string", "minLength": 1}
	}
}`

// ParseOrderCreated validates raw bytes against the event schema and
// decodes them.
func ParseOrderCreated(payload []byte) (*OrderCreatedEvent, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(orderCreatedSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate order event: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("order event does not match schema: %v", result.Errors())
	}

	var event OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode order event: %w", err)
	}
	return &event, nil
}
