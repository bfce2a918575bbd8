package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-donations/app/backend"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
	"github.com/vibast-solutions/ms-go-donations/config"
)

type stubBackend struct {
	donation    *entity.Donation
	payments    []*entity.Payment
	verify      *backend.VerifyOutcome
	verifyErr   error
	initiate    *backend.InitiateOutput
	initiateErr error
}

func (b *stubBackend) GetDonation(_ context.Context, _ string) (*entity.Donation, error) {
	if b.donation == nil {
		return nil, backend.ErrNotFound
	}
	copyItem := *b.donation
	return &copyItem, nil
}

func (b *stubBackend) ListDonationPayments(_ context.Context, _ string) ([]*entity.Payment, error) {
	return b.payments, nil
}

func (b *stubBackend) GetPayment(_ context.Context, _ string) (*entity.Payment, error) {
	return nil, backend.ErrNotFound
}

func (b *stubBackend) VerifyPayment(_ context.Context, _ string) (*backend.VerifyOutcome, error) {
	if b.verifyErr != nil {
		return nil, b.verifyErr
	}
	if b.verify == nil {
		return nil, errors.New("no verify outcome configured")
	}
	copyItem := *b.verify
	return &copyItem, nil
}

func (b *stubBackend) UpdateDonationStatus(_ context.Context, _ string, _ entity.PaymentStatus) error {
	return nil
}

func (b *stubBackend) InitiatePayment(_ context.Context, _ *backend.InitiateInput) (*backend.InitiateOutput, error) {
	if b.initiateErr != nil {
		return nil, b.initiateErr
	}
	if b.initiate == nil {
		return nil, errors.New("no initiate output configured")
	}
	copyItem := *b.initiate
	return &copyItem, nil
}

func (b *stubBackend) ListStalePendingDonations(_ context.Context, _ time.Time, _ int32) ([]*entity.Donation, error) {
	return nil, nil
}

func newTestController(b *stubBackend) *DonationController {
	svc := service.NewDonationService(b, config.ReconcileConfig{
		MaxAttempts: 3,
		BackoffStep: time.Millisecond,
	})
	return NewDonationController(svc)
}

func newRequestContext(method, target, body, donationID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)
	if donationID != "" {
		ctx.SetParamNames("id")
		ctx.SetParamValues(donationID)
	}
	return ctx, rec
}

func pendingDonation() *entity.Donation {
	return &entity.Donation{
		ID:          "don-1",
		AmountCents: 5000,
		Currency:    "XOF",
		Type:        entity.DonationTypeOneTime,
		Status:      entity.DonationStatusPending,
	}
}

func pendingPayment() *entity.Payment {
	return &entity.Payment{
		ID:          "pay-1",
		Status:      entity.PaymentStatusPending,
		AmountCents: 5000,
		Currency:    "XOF",
		Provider:    "paytech",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestHealth(t *testing.T) {
	ctx, rec := newRequestContext(http.MethodGet, "/health", "", "")
	c := newTestController(&stubBackend{})

	if err := c.Health(ctx); err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestGetDonationReturnsDonationAndPayment(t *testing.T) {
	c := newTestController(&stubBackend{
		donation: pendingDonation(),
		payments: []*entity.Payment{pendingPayment()},
	})
	ctx, rec := newRequestContext(http.MethodGet, "/donations/don-1", "", "don-1")

	if err := c.GetDonation(ctx); err != nil {
		t.Fatalf("get donation failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	var body types.DonationEnvelopeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Donation == nil || body.Donation.ID != "don-1" {
		t.Fatalf("unexpected donation: %+v", body.Donation)
	}
	if body.Payment == nil || body.Payment.ID != "pay-1" {
		t.Fatalf("unexpected payment: %+v", body.Payment)
	}
}

func TestGetDonationNotFound(t *testing.T) {
	c := newTestController(&stubBackend{})
	ctx, rec := newRequestContext(http.MethodGet, "/donations/missing", "", "missing")

	if err := c.GetDonation(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetDonationMissingID(t *testing.T) {
	c := newTestController(&stubBackend{})
	ctx, rec := newRequestContext(http.MethodGet, "/donations/", "", "")

	if err := c.GetDonation(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListDonationPayments(t *testing.T) {
	c := newTestController(&stubBackend{
		donation: pendingDonation(),
		payments: []*entity.Payment{pendingPayment()},
	})
	ctx, rec := newRequestContext(http.MethodGet, "/donations/don-1/payments", "", "don-1")

	if err := c.ListDonationPayments(ctx); err != nil {
		t.Fatalf("list payments failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body types.ListPaymentsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(body.Payments))
	}
}

func TestVerifyDonationConfirmed(t *testing.T) {
	c := newTestController(&stubBackend{
		donation: pendingDonation(),
		payments: []*entity.Payment{pendingPayment()},
		verify:   &backend.VerifyOutcome{Status: entity.PaymentStatusCompleted, AmountCents: 5000},
	})
	ctx, rec := newRequestContext(http.MethodPost, "/donations/don-1/verify", "", "don-1")

	if err := c.VerifyDonation(ctx); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	var body types.VerificationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Outcome != string(service.VerificationConfirmed) {
		t.Fatalf("expected confirmed, got %s", body.Outcome)
	}
	if body.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", body.Attempts)
	}
}

func TestVerifyDonationExhaustedReturnsBadGateway(t *testing.T) {
	c := newTestController(&stubBackend{
		donation:  pendingDonation(),
		payments:  []*entity.Payment{pendingPayment()},
		verifyErr: errors.New("provider unreachable"),
	})
	ctx, rec := newRequestContext(http.MethodPost, "/donations/don-1/verify", `{"max_attempts": 1}`, "don-1")

	if err := c.VerifyDonation(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var body types.VerificationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Outcome != "error" {
		t.Fatalf("expected error outcome, got %s", body.Outcome)
	}
	if len(body.RecoveryActions) != 1 || body.RecoveryActions[0] != service.RecoveryRetry {
		t.Fatalf("expected retry recovery action, got %v", body.RecoveryActions)
	}
}

func TestVerifyDonationRejectsInvalidAttempts(t *testing.T) {
	c := newTestController(&stubBackend{donation: pendingDonation()})
	ctx, rec := newRequestContext(http.MethodPost, "/donations/don-1/verify", `{"max_attempts": 99}`, "don-1")

	if err := c.VerifyDonation(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInitiatePaymentRedirect(t *testing.T) {
	c := newTestController(&stubBackend{
		donation: pendingDonation(),
		initiate: &backend.InitiateOutput{
			PaymentID:   "pay-new",
			CheckoutURL: "https://pay.example/checkout/pay-new",
		},
	})
	ctx, rec := newRequestContext(http.MethodPost, "/donations/don-1/pay", `{"provider": "paytech"}`, "don-1")

	if err := c.InitiatePayment(ctx); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	var body types.InitiationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Action != string(service.ActionRedirect) {
		t.Fatalf("expected redirect action, got %s", body.Action)
	}
	if body.CheckoutURL != "https://pay.example/checkout/pay-new" {
		t.Fatalf("unexpected checkout url: %s", body.CheckoutURL)
	}
}

func TestInitiatePaymentRejected(t *testing.T) {
	c := newTestController(&stubBackend{
		donation:    pendingDonation(),
		initiateErr: &backend.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "amount below provider minimum"},
	})
	ctx, rec := newRequestContext(http.MethodPost, "/donations/don-1/pay", `{"provider": "paytech"}`, "don-1")

	if err := c.InitiatePayment(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var body types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(body.Error, "amount below provider minimum") {
		t.Fatalf("expected server message surfaced, got %q", body.Error)
	}
}

func TestInitiatePaymentMissingProvider(t *testing.T) {
	c := newTestController(&stubBackend{donation: pendingDonation()})
	ctx, rec := newRequestContext(http.MethodPost, "/donations/don-1/pay", `{}`, "don-1")

	if err := c.InitiatePayment(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
