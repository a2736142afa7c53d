// Package identity verifies and decodes user lifecycle webhooks sent by the
// identity provider. Deliveries are signed with svix.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	svix "github.com/svix/svix-webhooks/go"
)

const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

var (
	ErrMissingHeaders   = errors.New("missing webhook headers")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

type Verifier struct {
	wh *svix.Webhook
}

// NewVerifier takes the "whsec_..." signing secret.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("webhook signing secret is empty")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

// Sign returns the "v1,<base64>" signature for a delivery.
func (v *Verifier) Sign(msgID string, ts time.Time, body []byte) (string, error) {
	return v.wh.Sign(msgID, ts, body)
}

// Verify checks the delivery headers against body. Timestamps more than five
// minutes from now either way are rejected as replays.
func (v *Verifier) Verify(h http.Header, body []byte) error {
	if h.Get(HeaderID) == "" || h.Get(HeaderTimestamp) == "" || h.Get(HeaderSignature) == "" {
		return ErrMissingHeaders
	}
	if err := v.wh.Verify(body, h); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// Event is a user lifecycle delivery.
type Event struct {
	Type string   `json:"type"`
	Data UserData `json:"data"`
}

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

type UserData struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PhoneNumbers []struct {
		PhoneNumber string `json:"phone_number"`
	} `json:"phone_numbers"`
}

func (d UserData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

func (d UserData) PrimaryPhone() string {
	if len(d.PhoneNumbers) == 0 {
		return ""
	}
	return d.PhoneNumbers[0].PhoneNumber
}

func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, err
	}
	if ev.Type == "" {
		return nil, errors.New("event type is missing")
	}
	return &ev, nil
}
