package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type donationPayload struct {
	ID            string  `json:"id"`
	AmountCents   int64   `json:"amount_cents"`
	Currency      string  `json:"currency"`
	Category      string  `json:"category"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	Message       *string `json:"message"`
	Anonymous     bool    `json:"anonymous"`
	ReceiptNumber *string `json:"receipt_number"`
	Recurring     *struct {
		Frequency        string     `json:"frequency"`
		StartDate        *time.Time `json:"start_date"`
		NextPaymentDate  *time.Time `json:"next_payment_date"`
		OccurrencesPaid  int32      `json:"occurrences_paid"`
		OccurrencesTotal int32      `json:"occurrences_total"`
		Active           bool       `json:"active"`
	} `json:"recurring"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type paymentPayload struct {
	ID            string    `json:"id"`
	DonationID    *string   `json:"donation_id"`
	Status        string    `json:"status"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	Provider      string    `json:"provider"`
	CheckoutURL   *string   `json:"checkout_url"`
	ProviderToken *string   `json:"provider_token"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Client) GetDonation(ctx context.Context, id string) (*entity.Donation, error) {
	body, err := c.getJSON(ctx, "/donations/"+url.PathEscape(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}

	var data struct {
		Donation *donationPayload `json:"donation"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	if data.Donation == nil {
		return nil, ErrNotFound
	}
	return donationToEntity(data.Donation), nil
}

func (c *Client) ListDonationPayments(ctx context.Context, donationID string) ([]*entity.Payment, error) {
	body, err := c.getJSON(ctx, "/donations/"+url.PathEscape(strings.TrimSpace(donationID))+"/payments")
	if err != nil {
		return nil, err
	}

	var data struct {
		Payments []*paymentPayload `json:"payments"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}

	items := make([]*entity.Payment, 0, len(data.Payments))
	for _, item := range data.Payments {
		if item == nil {
			continue
		}
		items = append(items, paymentToEntity(item))
	}
	return items, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*entity.Payment, error) {
	body, err := c.getJSON(ctx, "/payments/"+url.PathEscape(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}

	var data struct {
		Payment *paymentPayload `json:"payment"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	if data.Payment == nil {
		return nil, ErrNotFound
	}
	return paymentToEntity(data.Payment), nil
}

func (c *Client) VerifyPayment(ctx context.Context, paymentID string) (*VerifyOutcome, error) {
	body, err := c.do(ctx, http.MethodPost, "/payments/"+url.PathEscape(strings.TrimSpace(paymentID))+"/verify", nil)
	if err != nil {
		return nil, err
	}
	return ParseVerifyResponse(body)
}

func (c *Client) UpdateDonationStatus(ctx context.Context, donationID string, paymentStatus entity.PaymentStatus) error {
	payload := map[string]string{"payment_status": string(paymentStatus)}
	_, err := c.do(ctx, http.MethodPut, "/donations/"+url.PathEscape(strings.TrimSpace(donationID))+"/status", payload)
	return err
}

func (c *Client) InitiatePayment(ctx context.Context, input *InitiateInput) (*InitiateOutput, error) {
	payload := map[string]string{
		"request_id":     input.RequestID,
		"donation_id":    input.DonationID,
		"provider":       input.Provider,
		"payment_method": input.PaymentMethod,
	}
	if strings.TrimSpace(input.ExistingPaymentID) != "" {
		payload["existing_payment_id"] = strings.TrimSpace(input.ExistingPaymentID)
	}

	body, err := c.postJSON(ctx, "/payments", payload)
	if err != nil {
		return nil, err
	}

	var data struct {
		PaymentID     string `json:"payment_id"`
		PaymentURL    string `json:"payment_url"`
		TransactionID string `json:"transaction_id"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}

	return &InitiateOutput{
		PaymentID:     strings.TrimSpace(data.PaymentID),
		CheckoutURL:   strings.TrimSpace(data.PaymentURL),
		TransactionID: strings.TrimSpace(data.TransactionID),
	}, nil
}

func (c *Client) ListStalePendingDonations(ctx context.Context, before time.Time, limit int32) ([]*entity.Donation, error) {
	values := url.Values{}
	values.Set("status", string(entity.DonationStatusPending))
	values.Set("before", before.UTC().Format(time.RFC3339))
	if limit > 0 {
		values.Set("limit", strconv.FormatInt(int64(limit), 10))
	}

	body, err := c.getJSON(ctx, "/donations?"+values.Encode())
	if err != nil {
		return nil, err
	}

	var data struct {
		Donations []*donationPayload `json:"donations"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}

	items := make([]*entity.Donation, 0, len(data.Donations))
	for _, item := range data.Donations {
		if item == nil {
			continue
		}
		items = append(items, donationToEntity(item))
	}
	return items, nil
}

// getJSON performs a GET and unwraps the backend's {success, data} envelope.
func (c *Client) getJSON(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return unwrapEnvelope(body)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return unwrapEnvelope(body)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(c.cfg.APIKey) != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: extractMessage(body)}
	}

	return body, nil
}

func unwrapEnvelope(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		message := strings.TrimSpace(env.Message)
		if message == "" {
			message = "backend reported failure"
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: message}
	}
	return env.Data, nil
}

func extractMessage(body []byte) string {
	var env envelope
	if json.Unmarshal(body, &env) == nil && strings.TrimSpace(env.Message) != "" {
		return strings.TrimSpace(env.Message)
	}
	var fallback struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &fallback) == nil {
		return strings.TrimSpace(fallback.Error)
	}
	return ""
}

func donationToEntity(item *donationPayload) *entity.Donation {
	donation := &entity.Donation{
		ID:            strings.TrimSpace(item.ID),
		AmountCents:   item.AmountCents,
		Currency:      strings.ToUpper(strings.TrimSpace(item.Currency)),
		Category:      strings.TrimSpace(item.Category),
		Type:          entity.DonationType(strings.TrimSpace(item.Type)),
		Status:        entity.DonationStatus(strings.TrimSpace(item.Status)),
		PaymentMethod: strings.TrimSpace(item.PaymentMethod),
		Message:       item.Message,
		Anonymous:     item.Anonymous,
		ReceiptNumber: item.ReceiptNumber,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if item.Recurring != nil {
		donation.Recurring = &entity.Recurring{
			Frequency:        strings.TrimSpace(item.Recurring.Frequency),
			StartDate:        item.Recurring.StartDate,
			NextPaymentDate:  item.Recurring.NextPaymentDate,
			OccurrencesPaid:  item.Recurring.OccurrencesPaid,
			OccurrencesTotal: item.Recurring.OccurrencesTotal,
			Active:           item.Recurring.Active,
		}
	}
	return donation
}

func paymentToEntity(item *paymentPayload) *entity.Payment {
	return &entity.Payment{
		ID:            strings.TrimSpace(item.ID),
		DonationID:    item.DonationID,
		Status:        entity.PaymentStatus(strings.TrimSpace(strings.ToLower(item.Status))),
		AmountCents:   item.AmountCents,
		Currency:      strings.ToUpper(strings.TrimSpace(item.Currency)),
		Provider:      strings.TrimSpace(item.Provider),
		CheckoutURL:   item.CheckoutURL,
		ProviderToken: item.ProviderToken,
		CreatedAt:     item.CreatedAt,
	}
}
