package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnrecognizedShape = errors.New("verify response shape not recognized")
)

// APIError is a non-success response from the donations backend. Message is
// the server-provided message when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend request failed: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend request failed: status=%d", e.StatusCode)
}

type Config struct {
	BaseURL     string
	APIKey      string
	HTTPTimeout time.Duration
}

// Client talks to the donations backend REST API. The backend is the sole
// source of truth; every fetch overwrites local copies wholesale.
type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type InitiateInput struct {
	RequestID         string
	DonationID        string
	Provider          string
	PaymentMethod     string
	ExistingPaymentID string
}

type InitiateOutput struct {
	PaymentID     string
	CheckoutURL   string
	TransactionID string
}

// VerifyOutcome is the normalized result of a verify-payment call, produced
// from either response shape the backend may return (see ParseVerifyResponse).
type VerifyOutcome struct {
	Status      entity.PaymentStatus
	Message     string
	AmountCents int64
	FeeCents    int64
	Channel     string
	CompletedAt *time.Time
	Raw         json.RawMessage
}
