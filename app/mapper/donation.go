package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

func DonationToResponse(item *entity.Donation) *types.Donation {
	if item == nil {
		return nil
	}

	return &types.Donation{
		ID:            item.ID,
		AmountCents:   item.AmountCents,
		Currency:      item.Currency,
		Category:      item.Category,
		Type:          string(item.Type),
		Status:        string(item.Status),
		PaymentMethod: item.PaymentMethod,
		Recurring:     recurringToResponse(item.Recurring),
		Message:       derefString(item.Message),
		Anonymous:     item.Anonymous,
		ReceiptNumber: derefString(item.ReceiptNumber),
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}

func PaymentToResponse(item *entity.Payment) *types.Payment {
	if item == nil {
		return nil
	}

	return &types.Payment{
		ID:            item.ID,
		DonationID:    derefString(item.DonationID),
		Status:        string(item.Status),
		AmountCents:   item.AmountCents,
		Currency:      item.Currency,
		Provider:      item.Provider,
		CheckoutURL:   derefString(item.CheckoutURL),
		ProviderToken: derefString(item.ProviderToken),
		CreatedAt:     formatTime(item.CreatedAt),
	}
}

func PaymentsToResponse(items []*entity.Payment) []*types.Payment {
	result := make([]*types.Payment, 0, len(items))
	for _, item := range items {
		result = append(result, PaymentToResponse(item))
	}
	return result
}

func VerificationToResponse(item *service.VerificationResult) *types.VerificationResponse {
	if item == nil {
		return nil
	}

	resp := &types.VerificationResponse{
		Outcome:         string(item.Outcome),
		Summary:         item.Summary,
		Attempts:        item.Attempts,
		AmountCents:     item.AmountCents,
		FeeCents:        item.FeeCents,
		Channel:         item.Channel,
		RecoveryActions: item.RecoveryActions,
		Donation:        DonationToResponse(item.Donation),
		Payment:         PaymentToResponse(item.Payment),
	}
	if item.CompletedAt != nil {
		resp.CompletedAt = formatTime(*item.CompletedAt)
	}
	return resp
}

func InitiationToResponse(item *service.InitiationDecision) *types.InitiationResponse {
	if item == nil {
		return nil
	}

	return &types.InitiationResponse{
		Action:        string(item.Action),
		Message:       item.Message,
		DonationID:    item.DonationID,
		PaymentID:     item.PaymentID,
		CheckoutURL:   item.CheckoutURL,
		ProviderToken: item.ProviderToken,
		Reused:        item.Reused,
	}
}

func recurringToResponse(item *entity.Recurring) *types.Recurring {
	if item == nil {
		return nil
	}

	resp := &types.Recurring{
		Frequency:        item.Frequency,
		OccurrencesPaid:  item.OccurrencesPaid,
		OccurrencesTotal: item.OccurrencesTotal,
		Active:           item.Active,
	}
	if item.StartDate != nil {
		resp.StartDate = formatTime(*item.StartDate)
	}
	if item.NextPaymentDate != nil {
		resp.NextPaymentDate = formatTime(*item.NextPaymentDate)
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
