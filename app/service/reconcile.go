package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/backend"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

type VerificationOutcome string

const (
	VerificationConfirmed VerificationOutcome = "confirmed"
	VerificationFailed    VerificationOutcome = "failed"
	VerificationPending   VerificationOutcome = "pending"
	VerificationUnknown   VerificationOutcome = "unknown"
	VerificationNoPayment VerificationOutcome = "no_payment_found"
)

// Recovery actions offered to the caller alongside non-confirmed outcomes.
const (
	RecoveryRetry       = "retry"
	RecoveryInitiateNew = "initiate_new_payment"
)

type VerifyOptions struct {
	// PaymentID skips selection and verifies this payment directly when the
	// caller already holds one in view state.
	PaymentID   string
	MaxAttempts int32
}

type VerificationResult struct {
	Outcome  VerificationOutcome
	Summary  string
	Attempts int32

	Donation *entity.Donation
	Payment  *entity.Payment

	AmountCents int64
	FeeCents    int64
	Channel     string
	CompletedAt *time.Time

	RecoveryActions []string
}

type verifyCall struct {
	done   chan struct{}
	result *VerificationResult
	err    error
}

// VerifyDonation resolves the true settlement status of a donation's payment,
// retrying with linear backoff to tolerate webhook delivery delay. A second
// call for the same donation while one is running joins the in-flight attempt
// instead of starting a duplicate loop.
func (s *DonationService) VerifyDonation(ctx context.Context, donationID string, opts VerifyOptions) (*VerificationResult, error) {
	donationID = strings.TrimSpace(donationID)
	if donationID == "" {
		return nil, ErrInvalidRequest
	}

	s.mu.Lock()
	if call, ok := s.inflight[donationID]; ok {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-call.done:
			return call.result, call.err
		}
	}
	call := &verifyCall{done: make(chan struct{})}
	s.inflight[donationID] = call
	s.mu.Unlock()

	result, err := s.runVerifyLoop(ctx, donationID, opts)

	s.mu.Lock()
	delete(s.inflight, donationID)
	s.mu.Unlock()
	call.result = result
	call.err = err
	close(call.done)

	return result, err
}

func (s *DonationService) runVerifyLoop(ctx context.Context, donationID string, opts VerifyOptions) (*VerificationResult, error) {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = s.maxAttempts()
	}
	step := s.backoffStep()
	logger := s.logger.WithField("donation_id", donationID)

	for attempt := int32(1); attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, time.Duration(attempt-1)*step); err != nil {
				return nil, err
			}
		}

		result, err := s.verifyOnce(ctx, donationID, opts.PaymentID)
		if err != nil {
			if attempt == maxAttempts {
				return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
			}
			logger.WithError(err).WithField("attempt", attempt).Warn("Verification attempt failed, retrying")
			continue
		}
		if result != nil {
			result.Attempts = attempt
			return result, nil
		}
		if attempt == maxAttempts {
			return &VerificationResult{
				Outcome:         VerificationNoPayment,
				Summary:         "No payment found for this donation",
				Attempts:        attempt,
				RecoveryActions: []string{RecoveryRetry, RecoveryInitiateNew},
			}, nil
		}
		logger.WithField("attempt", attempt).Info("No payment found yet, retrying")
	}

	return nil, ErrVerificationFailed
}

// verifyOnce performs a single fetch-select-verify-sync pass. A nil result
// with nil error means no payment could be found this attempt.
func (s *DonationService) verifyOnce(ctx context.Context, donationID, knownPaymentID string) (*VerificationResult, error) {
	donation, err := s.backend.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}

	var candidate *entity.Payment
	if strings.TrimSpace(knownPaymentID) != "" {
		candidate, err = s.backend.GetPayment(ctx, strings.TrimSpace(knownPaymentID))
		if err != nil {
			return nil, err
		}
	} else {
		payments, err := s.backend.ListDonationPayments(ctx, donationID)
		if err != nil {
			return nil, err
		}
		if len(payments) == 0 {
			return nil, nil
		}
		candidate = SelectPayment(payments, donation)
		if candidate == nil {
			return nil, nil
		}
	}

	outcome, err := s.backend.VerifyPayment(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}

	if outcome.Status != "" {
		// Status sync is best effort; the verify result stands either way.
		if err := s.backend.UpdateDonationStatus(ctx, donationID, outcome.Status); err != nil {
			s.logger.WithError(err).WithField("donation_id", donationID).Warn("Donation status sync failed")
		}
		candidate.Status = outcome.Status
	}

	if refreshed, err := s.backend.GetDonation(ctx, donationID); err == nil {
		donation = refreshed
	} else {
		s.logger.WithError(err).WithField("donation_id", donationID).Warn("Donation refresh failed")
	}

	result := &VerificationResult{
		Outcome:     outcomeForStatus(outcome.Status),
		Summary:     summaryFor(outcome),
		Donation:    donation,
		Payment:     candidate,
		AmountCents: outcome.AmountCents,
		FeeCents:    outcome.FeeCents,
		Channel:     outcome.Channel,
		CompletedAt: outcome.CompletedAt,
	}
	if result.Outcome == VerificationFailed {
		result.RecoveryActions = []string{RecoveryRetry, RecoveryInitiateNew}
	}

	return result, nil
}

func outcomeForStatus(status entity.PaymentStatus) VerificationOutcome {
	switch {
	case settledStatus(status):
		return VerificationConfirmed
	case status == entity.PaymentStatusFailed:
		return VerificationFailed
	case inFlightStatus(status):
		return VerificationPending
	default:
		return VerificationUnknown
	}
}

func summaryFor(outcome *backend.VerifyOutcome) string {
	switch outcomeForStatus(outcome.Status) {
	case VerificationConfirmed:
		return "Payment confirmed"
	case VerificationFailed:
		return "Payment failed"
	case VerificationPending:
		return "Payment is still pending"
	default:
		if strings.TrimSpace(outcome.Message) != "" {
			return strings.TrimSpace(outcome.Message)
		}
		return "Payment status unknown"
	}
}
