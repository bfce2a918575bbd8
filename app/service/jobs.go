package service

import (
	"context"
	"time"
)

// RunReconcileBatch verifies donations that have sat in pending long enough
// that a webhook was likely missed. Each donation gets a single verification
// attempt; the periodic worker provides the retry cadence.
func (s *DonationService) RunReconcileBatch(ctx context.Context) error {
	now := time.Now().UTC()
	before := now.Add(-s.cfg.StaleAfter)
	items, err := s.backend.ListStalePendingDonations(ctx, before, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, donation := range items {
		if donation == nil || donation.ID == "" {
			continue
		}
		if _, err := s.VerifyDonation(ctx, donation.ID, VerifyOptions{MaxAttempts: 1}); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}
