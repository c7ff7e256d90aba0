// Package delivery sends the weekly report email with the rendered
// artifact attached.
package delivery

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Subject and attachment name are fixed for the weekly report.
const (
	Subject        = "Weekly Sales Report"
	AttachmentName = "weekly-sales-report.pdf"
)

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Dispatcher sends report emails over SMTP.
type Dispatcher struct {
	cfg       SMTPConfig
	sender    string
	recipient string
}

// NewDispatcher builds a Dispatcher with a fixed sender and recipient.
func NewDispatcher(cfg SMTPConfig, sender, recipient string) *Dispatcher {
	return &Dispatcher{cfg: cfg, sender: sender, recipient: recipient}
}

// Send emails the report with the artifact attached. Any failure is
// fatal to the run; the artifact is already durably stored by the time
// this is called.
func (d *Dispatcher) Send(ctx context.Context, body string, attachment []byte) error {
	msg, err := d.buildMessage(body, attachment)
	if err != nil {
		return err
	}

	opts := []mail.Option{mail.WithPort(d.cfg.Port)}
	if d.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(d.cfg.Username),
			mail.WithPassword(d.cfg.Password),
		)
	}
	client, err := mail.NewClient(d.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}
	return nil
}

// buildMessage assembles the fixed-envelope message. Split out so tests
// can inspect the message without a live SMTP server.
func (d *Dispatcher) buildMessage(body string, attachment []byte) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(d.sender); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", d.sender, err)
	}
	if err := msg.To(d.recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", d.recipient, err)
	}
	msg.Subject(Subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if err := msg.AttachReader(AttachmentName, bytes.NewReader(attachment)); err != nil {
		return nil, fmt.Errorf("failed to attach report: %w", err)
	}
	return msg, nil
}
