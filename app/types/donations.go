package types

import (
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

type VerifyDonationRequest struct {
	DonationID  string `json:"-"`
	PaymentID   string `json:"payment_id"`
	MaxAttempts int32  `json:"max_attempts"`
}

func NewVerifyDonationRequestFromContext(ctx echo.Context) (*VerifyDonationRequest, error) {
	var body VerifyDonationRequest
	if err := ctx.Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	body.DonationID = strings.TrimSpace(ctx.Param("id"))
	body.PaymentID = strings.TrimSpace(body.PaymentID)

	return &body, nil
}

func (r *VerifyDonationRequest) Validate() error {
	if r.DonationID == "" {
		return errors.New("donation id is required")
	}
	if r.MaxAttempts < 0 || r.MaxAttempts > 10 {
		return errors.New("max_attempts must be between 0 and 10")
	}
	return nil
}

type InitiatePaymentRequest struct {
	DonationID    string `json:"-"`
	Provider      string `json:"provider"`
	PaymentMethod string `json:"payment_method"`
	ConfirmReuse  bool   `json:"confirm_reuse"`
}

func NewInitiatePaymentRequestFromContext(ctx echo.Context) (*InitiatePaymentRequest, error) {
	var body InitiatePaymentRequest
	if err := ctx.Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	body.DonationID = strings.TrimSpace(ctx.Param("id"))
	body.Provider = strings.ToLower(strings.TrimSpace(body.Provider))
	body.PaymentMethod = strings.ToLower(strings.TrimSpace(body.PaymentMethod))

	return &body, nil
}

func (r *InitiatePaymentRequest) Validate() error {
	if r.DonationID == "" {
		return errors.New("donation id is required")
	}
	if r.Provider == "" {
		return errors.New("provider is required")
	}
	return nil
}

type GetDonationRequest struct {
	ID string
}

func NewGetDonationRequestFromContext(ctx echo.Context) (*GetDonationRequest, error) {
	return &GetDonationRequest{ID: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetDonationRequest) Validate() error {
	if r.ID == "" {
		return errors.New("donation id is required")
	}
	return nil
}
