package entity

import "time"

type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusProcessing  PaymentStatus = "processing"
	PaymentStatusInitialized PaymentStatus = "initialized"
	PaymentStatusCompleted   PaymentStatus = "completed"
	PaymentStatusPaid        PaymentStatus = "paid"
	PaymentStatusFailed      PaymentStatus = "failed"
)

// Payment is one settlement attempt for a donation. Retries and webhook races
// can leave several payment rows pointing at the same donation; status is
// mutated only by the provider/backend.
type Payment struct {
	ID         string
	DonationID *string

	Status PaymentStatus

	AmountCents int64
	Currency    string

	Provider string

	CheckoutURL   *string
	ProviderToken *string

	CreatedAt time.Time
}
