package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/storekit/sales-reporter/internal/db"
)

// Contact fallbacks when the purchaser cannot be resolved.
const (
	ContactUnknown     = "Unknown"
	ContactNotProvided = "Not provided"
)

// UserSource resolves a purchaser's contact number.
type UserSource interface {
	ContactNumber(ctx context.Context, userID string) (string, error)
}

// MessageSender delivers one text message to one recipient.
type MessageSender interface {
	SendMessage(ctx context.Context, to, body string) error
}

// Relay consumes order-created events and notifies the configured
// recipients.
type Relay struct {
	users      UserSource
	sender     MessageSender
	recipients []string
	log        *slog.Logger
}

// NewRelay builds a Relay for a fixed recipient list.
func NewRelay(users UserSource, sender MessageSender, recipients []string, log *slog.Logger) *Relay {
	return &Relay{users: users, sender: sender, recipients: recipients, log: log}
}

// Run consumes deliveries until the channel closes or ctx is canceled.
// Every delivery is acked regardless of outcome: the relay never
// retries and never pushes a failure back at the producer.
func (r *Relay) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, open := <-deliveries:
			if !open {
				return nil
			}
			r.Handle(ctx, d.Body)
			if err := d.Ack(false); err != nil {
				r.log.Error("failed to ack delivery", slog.Any("error", err))
			}
		}
	}
}

// Handle processes one raw event payload end to end.
func (r *Relay) Handle(ctx context.Context, payload []byte) {
	event, err := ParseOrderCreated(payload)
	if err != nil {
		r.log.Warn("dropping invalid order event", slog.Any("error", err))
		return
	}

	contact := r.resolveContact(ctx, event.OrderedBy)
	body := FormatMessage(event.OrderID, contact)

	for _, to := range r.recipients {
		if err := r.sender.SendMessage(ctx, to, body); err != nil {
			r.log.Error("failed to send order notification",
				slog.String("order_id", event.OrderID),
				slog.String("recipient", to),
				slog.Any("error", err))
			continue
		}
		r.log.Info("order notification sent",
			slog.String("order_id", event.OrderID),
			slog.String("recipient", to))
	}
}

// resolveContact looks up the purchaser's number, degrading to a
// placeholder on a missing user, an empty number, or a lookup error.
func (r *Relay) resolveContact(ctx context.Context, userID string) string {
	phone, err := r.users.ContactNumber(ctx, userID)
	if errors.Is(err, db.ErrUserNotFound) {
		r.log.Warn("purchaser not found", slog.String("user_id", userID))
		return ContactUnknown
	}
	if err != nil {
		r.log.Error("purchaser lookup failed", slog.String("user_id", userID), slog.Any("error", err))
		return ContactUnknown
	}
	if phone == "" {
		return ContactNotProvided
	}
	return phone
}

// FormatMessage renders the notification text for one order.
func FormatMessage(orderID, contact string) string {
	return fmt.Sprintf("New order placed!\n\nOrder ID: %s\n\nContact number: %s", orderID, contact)
}
