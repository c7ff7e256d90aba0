package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends WhatsApp messages through the Twilio API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender builds a sender using account credentials and a
// WhatsApp-enabled from number.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

// SendMessage sends one WhatsApp message. The context is accepted for
// interface symmetry; the Twilio SDK manages its own request deadlines.
func (s *TwilioSender) SendMessage(_ context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom("whatsapp:" + s.from)
	params.SetTo("whatsapp:" + to)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s failed: %w", to, err)
	}
	return nil
}
