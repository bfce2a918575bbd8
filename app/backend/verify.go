package backend

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

// The verify endpoint answers in one of two shapes depending on whether the
// backend proxied the provider response or wrapped it in its own envelope:
//
//	provider-direct: {"statut": ..., "message": ..., "data": {...}}
//	wrapped:         {"success": true, "data": {"data": {...}}}
//
// ParseVerifyResponse detects the discriminant field and normalizes both into
// a single VerifyOutcome so downstream logic never branches on shape again.
func ParseVerifyResponse(body []byte) (*VerifyOutcome, error) {
	var probe struct {
		Statut  json.RawMessage `json:"statut"`
		Message string          `json:"message"`
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, ErrUnrecognizedShape
	}

	switch {
	case len(probe.Statut) > 0:
		return parseProviderDirect(probe.Statut, probe.Message, probe.Data, body)
	case probe.Success != nil:
		return parseWrapped(probe.Data, probe.Message, body)
	default:
		return nil, ErrUnrecognizedShape
	}
}

type verifyDetails struct {
	Status      string     `json:"status"`
	AmountCents int64      `json:"amount_cents"`
	FeeCents    int64      `json:"fee_cents"`
	Channel     string     `json:"channel"`
	CompletedAt *time.Time `json:"completed_at"`
}

func parseProviderDirect(statut json.RawMessage, message string, data json.RawMessage, body []byte) (*VerifyOutcome, error) {
	outcome := &VerifyOutcome{
		Status:  normalizeProviderStatus(rawToString(statut)),
		Message: strings.TrimSpace(message),
		Raw:     json.RawMessage(body),
	}

	if len(data) > 0 {
		var details verifyDetails
		if json.Unmarshal(data, &details) == nil {
			applyDetails(outcome, &details)
		}
	}

	return outcome, nil
}

func parseWrapped(data json.RawMessage, message string, body []byte) (*VerifyOutcome, error) {
	outcome := &VerifyOutcome{
		Message: strings.TrimSpace(message),
		Raw:     json.RawMessage(body),
	}
	if len(data) == 0 {
		return outcome, nil
	}

	var inner struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &inner); err != nil {
		return nil, ErrUnrecognizedShape
	}

	details := &verifyDetails{}
	if len(inner.Data) > 0 {
		if err := json.Unmarshal(inner.Data, details); err != nil {
			return nil, ErrUnrecognizedShape
		}
	}
	outcome.Status = normalizeProviderStatus(details.Status)
	applyDetails(outcome, details)

	return outcome, nil
}

func applyDetails(outcome *VerifyOutcome, details *verifyDetails) {
	outcome.AmountCents = details.AmountCents
	outcome.FeeCents = details.FeeCents
	outcome.Channel = strings.TrimSpace(details.Channel)
	outcome.CompletedAt = details.CompletedAt
	if outcome.Status == "" {
		outcome.Status = normalizeProviderStatus(details.Status)
	}
}

// normalizeProviderStatus folds the provider's status vocabulary into the
// payment status set. Unknown values map to the empty status; the caller
// treats that as "no status reported", never as an error.
func normalizeProviderStatus(raw string) entity.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sale_complete", "completed", "complete", "success":
		return entity.PaymentStatusCompleted
	case "paid":
		return entity.PaymentStatusPaid
	case "pending", "sale_pending":
		return entity.PaymentStatusPending
	case "processing":
		return entity.PaymentStatusProcessing
	case "initialized":
		return entity.PaymentStatusInitialized
	case "failed", "sale_canceled", "canceled", "cancelled", "error":
		return entity.PaymentStatusFailed
	default:
		return ""
	}
}

// rawToString accepts both string and numeric encodings of the statut field.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
		return ""
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		// Numeric statut codes follow HTTP conventions: 2xx means the sale
		// completed, anything else is a provider-side failure signal.
		if v, err := n.Int64(); err == nil {
			if v >= 200 && v < 300 {
				return "completed"
			}
			return "failed"
		}
	}
	return string(raw)
}
