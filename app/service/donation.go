package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/backend"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/config"
)

const (
	defaultVerifyAttempts = int32(3)
	defaultBackoffStep    = 2 * time.Second
	defaultBatchSize      = int32(100)
)

type backendClient interface {
	GetDonation(ctx context.Context, id string) (*entity.Donation, error)
	ListDonationPayments(ctx context.Context, donationID string) ([]*entity.Payment, error)
	GetPayment(ctx context.Context, id string) (*entity.Payment, error)
	VerifyPayment(ctx context.Context, paymentID string) (*backend.VerifyOutcome, error)
	UpdateDonationStatus(ctx context.Context, donationID string, paymentStatus entity.PaymentStatus) error
	InitiatePayment(ctx context.Context, input *backend.InitiateInput) (*backend.InitiateOutput, error)
	ListStalePendingDonations(ctx context.Context, before time.Time, limit int32) ([]*entity.Donation, error)
}

type DonationService struct {
	backend backendClient
	cfg     config.ReconcileConfig
	logger  logrus.FieldLogger

	sleep         func(ctx context.Context, d time.Duration) error
	redirectCheck func(rawURL string) error

	mu       sync.Mutex
	inflight map[string]*verifyCall
}

func NewDonationService(backend backendClient, cfg config.ReconcileConfig) *DonationService {
	return &DonationService{
		backend:       backend,
		cfg:           cfg,
		logger:        factory.NewModuleLogger("donations-service"),
		sleep:         sleepContext,
		redirectCheck: validateCheckoutURL,
		inflight:      map[string]*verifyCall{},
	}
}

// GetDonation returns the donation and the payment currently most relevant
// for it, if any.
func (s *DonationService) GetDonation(ctx context.Context, id string) (*entity.Donation, *entity.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil, ErrInvalidRequest
	}

	donation, err := s.backend.GetDonation(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, nil, ErrDonationNotFound
		}
		return nil, nil, err
	}

	payments, err := s.backend.ListDonationPayments(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return donation, SelectPayment(payments, donation), nil
}

func (s *DonationService) ListDonationPayments(ctx context.Context, donationID string) ([]*entity.Payment, error) {
	donationID = strings.TrimSpace(donationID)
	if donationID == "" {
		return nil, ErrInvalidRequest
	}

	payments, err := s.backend.ListDonationPayments(ctx, donationID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return payments, nil
}

func (s *DonationService) maxAttempts() int32 {
	if s.cfg.MaxAttempts > 0 {
		return s.cfg.MaxAttempts
	}
	return defaultVerifyAttempts
}

func (s *DonationService) backoffStep() time.Duration {
	if s.cfg.BackoffStep > 0 {
		return s.cfg.BackoffStep
	}
	return defaultBackoffStep
}

func (s *DonationService) batchSize() int32 {
	if s.cfg.BatchSize > 0 {
		return s.cfg.BatchSize
	}
	return defaultBatchSize
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func validateCheckoutURL(rawURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return err
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.New("checkout url is not an absolute http url")
	}
	return nil
}
