package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-donations/app/backend"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

type InitiationAction string

const (
	ActionAlreadyCompleted InitiationAction = "already_completed"
	ActionConfirmReuse     InitiationAction = "confirm_reuse"
	ActionRedirect         InitiationAction = "redirect"
)

type InitiatePaymentCommand struct {
	DonationID    string
	Provider      string
	PaymentMethod string
	// ConfirmReuse acknowledges the "a payment is already in progress"
	// prompt; without it a reusable payment yields a confirm_reuse decision
	// and no side effects.
	ConfirmReuse bool
}

type InitiationDecision struct {
	Action  InitiationAction
	Message string

	DonationID    string
	PaymentID     string
	CheckoutURL   string
	ProviderToken string

	Reused bool
}

// InitiatePayment decides between resuming an existing in-flight payment and
// creating a new one, to keep duplicate payment rows per donation to a
// minimum. The dedup is client-side best effort; the backend does not enforce
// a single active payment per donation.
func (s *DonationService) InitiatePayment(ctx context.Context, cmd *InitiatePaymentCommand) (*InitiationDecision, error) {
	donationID := strings.TrimSpace(cmd.DonationID)
	if donationID == "" {
		return nil, ErrInvalidRequest
	}

	donation, err := s.backend.GetDonation(ctx, donationID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}

	if donation.Status == entity.DonationStatusCompleted {
		return &InitiationDecision{
			Action:     ActionAlreadyCompleted,
			Message:    "This donation is already completed.",
			DonationID: donation.ID,
		}, nil
	}

	// Recurring cycles each get a fresh payment; reuse is never attempted.
	if donation.Type == entity.DonationTypeRecurring {
		return s.createPayment(ctx, donation, cmd, "")
	}

	payments, err := s.backend.ListDonationPayments(ctx, donationID)
	if err != nil {
		return nil, err
	}

	candidate := latestOf(payments, reusableStatus)
	if candidate == nil {
		return s.createPayment(ctx, donation, cmd, "")
	}

	checkoutURL := ""
	if candidate.CheckoutURL != nil {
		checkoutURL = strings.TrimSpace(*candidate.CheckoutURL)
	}
	if checkoutURL == "" {
		// Resumable attempt without a checkout URL: create, hinting the
		// backend to update the existing row rather than duplicate it.
		return s.createPayment(ctx, donation, cmd, candidate.ID)
	}

	if !cmd.ConfirmReuse {
		return &InitiationDecision{
			Action:      ActionConfirmReuse,
			Message:     "A payment for this donation is already in progress. Continue with it or cancel.",
			DonationID:  donation.ID,
			PaymentID:   candidate.ID,
			CheckoutURL: checkoutURL,
			Reused:      true,
		}, nil
	}

	if err := s.redirectCheck(checkoutURL); err != nil {
		s.logger.WithError(err).
			WithField("donation_id", donation.ID).
			WithField("payment_id", candidate.ID).
			Warn("Existing checkout url unusable, creating a new payment")
		return s.createPayment(ctx, donation, cmd, "")
	}

	return &InitiationDecision{
		Action:        ActionRedirect,
		DonationID:    donation.ID,
		PaymentID:     candidate.ID,
		CheckoutURL:   checkoutURL,
		ProviderToken: derefString(candidate.ProviderToken),
		Reused:        true,
	}, nil
}

func (s *DonationService) createPayment(ctx context.Context, donation *entity.Donation, cmd *InitiatePaymentCommand, existingPaymentID string) (*InitiationDecision, error) {
	provider := strings.TrimSpace(cmd.Provider)
	paymentMethod := strings.TrimSpace(cmd.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = donation.PaymentMethod
	}

	output, err := s.backend.InitiatePayment(ctx, &backend.InitiateInput{
		RequestID:         uuid.NewString(),
		DonationID:        donation.ID,
		Provider:          provider,
		PaymentMethod:     paymentMethod,
		ExistingPaymentID: existingPaymentID,
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrInitiationRejected, apiErr.Message)
		}
		return nil, err
	}

	return &InitiationDecision{
		Action:        ActionRedirect,
		DonationID:    donation.ID,
		PaymentID:     output.PaymentID,
		CheckoutURL:   output.CheckoutURL,
		ProviderToken: output.TransactionID,
	}, nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
