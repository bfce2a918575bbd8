package entity

import "time"

type DonationType string

const (
	DonationTypeOneTime   DonationType = "one_time"
	DonationTypeRecurring DonationType = "recurring"
)

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

// Recurring carries the schedule sub-record of a recurring donation.
type Recurring struct {
	Frequency        string
	StartDate        *time.Time
	NextPaymentDate  *time.Time
	OccurrencesPaid  int32
	OccurrencesTotal int32
	Active           bool
}

// Donation is the backend's donation record. Status transitions are driven by
// the backend; this service only mirrors them after a verify confirmation.
type Donation struct {
	ID string

	AmountCents int64
	Currency    string
	Category    string

	Type   DonationType
	Status DonationStatus

	PaymentMethod string

	Recurring *Recurring

	Message       *string
	Anonymous     bool
	ReceiptNumber *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
