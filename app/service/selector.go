package service

import "github.com/vibast-solutions/ms-go-donations/app/entity"

// SelectPayment picks the single most relevant payment for a donation out of
// a possibly unsorted candidate set. Recurring donations produce a fresh
// payment per cycle, so the latest in-flight attempt (or latest overall)
// wins; one-time donations prioritize an in-flight attempt the user can
// resume, then a settled record, then the latest failed/unknown attempt.
//
// Pure function: inputs are never mutated and repeated calls with the same
// arguments return the same payment.
func SelectPayment(payments []*entity.Payment, donation *entity.Donation) *entity.Payment {
	candidates := make([]*entity.Payment, 0, len(payments))
	for _, item := range payments {
		if item != nil {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	if donation != nil && donation.Type == entity.DonationTypeRecurring {
		if pick := latestOf(candidates, inFlightStatus); pick != nil {
			return pick
		}
		return latestOf(candidates, nil)
	}

	if pick := latestOf(candidates, inFlightStatus); pick != nil {
		return pick
	}
	if pick := latestOf(candidates, settledStatus); pick != nil {
		return pick
	}
	return latestOf(candidates, nil)
}

// latestOf returns the payment with the most recent CreatedAt among those
// matching the filter. On equal timestamps the later element in input order
// wins, which keeps selection stable across calls.
func latestOf(payments []*entity.Payment, match func(entity.PaymentStatus) bool) *entity.Payment {
	var best *entity.Payment
	for _, item := range payments {
		if match != nil && !match(item.Status) {
			continue
		}
		if best == nil || !item.CreatedAt.Before(best.CreatedAt) {
			best = item
		}
	}
	return best
}

func inFlightStatus(status entity.PaymentStatus) bool {
	switch status {
	case entity.PaymentStatusPending, entity.PaymentStatusProcessing, entity.PaymentStatusInitialized:
		return true
	default:
		return false
	}
}

func settledStatus(status entity.PaymentStatus) bool {
	switch status {
	case entity.PaymentStatusCompleted, entity.PaymentStatusPaid:
		return true
	default:
		return false
	}
}

func reusableStatus(status entity.PaymentStatus) bool {
	return inFlightStatus(status) || status == entity.PaymentStatusFailed
}
