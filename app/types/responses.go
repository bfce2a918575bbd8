package types

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Recurring struct {
	Frequency        string `json:"frequency"`
	StartDate        string `json:"start_date,omitempty"`
	NextPaymentDate  string `json:"next_payment_date,omitempty"`
	OccurrencesPaid  int32  `json:"occurrences_paid"`
	OccurrencesTotal int32  `json:"occurrences_total"`
	Active           bool   `json:"active"`
}

type Donation struct {
	ID            string     `json:"id"`
	AmountCents   int64      `json:"amount_cents"`
	Currency      string     `json:"currency"`
	Category      string     `json:"category,omitempty"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Recurring     *Recurring `json:"recurring,omitempty"`
	Message       string     `json:"message,omitempty"`
	Anonymous     bool       `json:"anonymous"`
	ReceiptNumber string     `json:"receipt_number,omitempty"`
	CreatedAt     string     `json:"created_at"`
	UpdatedAt     string     `json:"updated_at"`
}

type Payment struct {
	ID            string `json:"id"`
	DonationID    string `json:"donation_id,omitempty"`
	Status        string `json:"status"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	Provider      string `json:"provider,omitempty"`
	CheckoutURL   string `json:"checkout_url,omitempty"`
	ProviderToken string `json:"provider_token,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type DonationEnvelopeResponse struct {
	Donation *Donation `json:"donation"`
	Payment  *Payment  `json:"payment,omitempty"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type VerificationResponse struct {
	Outcome         string    `json:"outcome"`
	Summary         string    `json:"summary"`
	Attempts        int32     `json:"attempts"`
	AmountCents     int64     `json:"amount_cents,omitempty"`
	FeeCents        int64     `json:"fee_cents,omitempty"`
	Channel         string    `json:"channel,omitempty"`
	CompletedAt     string    `json:"completed_at,omitempty"`
	RecoveryActions []string  `json:"recovery_actions,omitempty"`
	Donation        *Donation `json:"donation,omitempty"`
	Payment         *Payment  `json:"payment,omitempty"`
}

type InitiationResponse struct {
	Action        string `json:"action"`
	Message       string `json:"message,omitempty"`
	DonationID    string `json:"donation_id"`
	PaymentID     string `json:"payment_id,omitempty"`
	CheckoutURL   string `json:"checkout_url,omitempty"`
	ProviderToken string `json:"provider_token,omitempty"`
	Reused        bool   `json:"reused"`
}
