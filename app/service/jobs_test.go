package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/backend"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

func TestRunReconcileBatchVerifiesStaleDonations(t *testing.T) {
	b := &fakeBackend{
		donation: oneTimeDonation(),
		payments: []*entity.Payment{paymentAt("pay-1", entity.PaymentStatusPending, time.Now().UTC())},
		stale: []*entity.Donation{
			{ID: "don-1", Type: entity.DonationTypeOneTime, Status: entity.DonationStatusPending},
			{ID: "don-2", Type: entity.DonationTypeOneTime, Status: entity.DonationStatusPending},
		},
		verifyOutcome: &backend.VerifyOutcome{Status: entity.PaymentStatusCompleted},
	}
	svc, delays := newTestService(b)

	if err := svc.RunReconcileBatch(context.Background()); err != nil {
		t.Fatalf("reconcile batch failed: %v", err)
	}
	if b.verifyCalls != 2 {
		t.Fatalf("expected one verify per stale donation, got %d", b.verifyCalls)
	}
	// The worker cadence provides retries, not the batch itself.
	if len(*delays) != 0 {
		t.Fatalf("expected no in-batch backoff, got %v", *delays)
	}
}

func TestRunReconcileBatchKeepsFirstErrorAndContinues(t *testing.T) {
	b := &fakeBackend{
		donation: oneTimeDonation(),
		payments: []*entity.Payment{paymentAt("pay-1", entity.PaymentStatusPending, time.Now().UTC())},
		stale: []*entity.Donation{
			{ID: "don-1", Type: entity.DonationTypeOneTime, Status: entity.DonationStatusPending},
			{ID: "don-2", Type: entity.DonationTypeOneTime, Status: entity.DonationStatusPending},
		},
		verifyErr: errors.New("provider unreachable"),
	}
	svc, _ := newTestService(b)

	err := svc.RunReconcileBatch(context.Background())
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
	if b.verifyCalls != 2 {
		t.Fatalf("expected both donations attempted despite the first failure, got %d", b.verifyCalls)
	}
}

func TestRunReconcileBatchSkipsBlankEntries(t *testing.T) {
	b := &fakeBackend{
		donation: oneTimeDonation(),
		payments: []*entity.Payment{paymentAt("pay-1", entity.PaymentStatusPending, time.Now().UTC())},
		stale: []*entity.Donation{
			nil,
			{ID: "", Status: entity.DonationStatusPending},
			{ID: "don-1", Type: entity.DonationTypeOneTime, Status: entity.DonationStatusPending},
		},
		verifyOutcome: &backend.VerifyOutcome{Status: entity.PaymentStatusCompleted},
	}
	svc, _ := newTestService(b)

	if err := svc.RunReconcileBatch(context.Background()); err != nil {
		t.Fatalf("reconcile batch failed: %v", err)
	}
	if b.verifyCalls != 1 {
		t.Fatalf("expected a single verify call, got %d", b.verifyCalls)
	}
}

func TestRunReconcileBatchListFailure(t *testing.T) {
	wantErr := errors.New("backend down")
	b := &fakeBackend{staleErr: wantErr}
	svc, _ := newTestService(b)

	if err := svc.RunReconcileBatch(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected list error surfaced, got %v", err)
	}
}
