package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/mapper"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

type DonationController struct {
	donationService *service.DonationService
	logger          logrus.FieldLogger
}

func NewDonationController(donationService *service.DonationService) *DonationController {
	return &DonationController{
		donationService: donationService,
		logger:          factory.NewModuleLogger("donations-controller"),
	}
}

func (c *DonationController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *DonationController) GetDonation(ctx echo.Context) error {
	req, err := types.NewGetDonationRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	donation, payment, err := c.donationService.GetDonation(ctx.Request().Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDonationNotFound):
			return c.writeError(ctx, http.StatusNotFound, "donation not found")
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get donation failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.DonationEnvelopeResponse{
		Donation: mapper.DonationToResponse(donation),
		Payment:  mapper.PaymentToResponse(payment),
	})
}

func (c *DonationController) ListDonationPayments(ctx echo.Context) error {
	req, err := types.NewGetDonationRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	payments, err := c.donationService.ListDonationPayments(ctx.Request().Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDonationNotFound):
			return c.writeError(ctx, http.StatusNotFound, "donation not found")
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List donation payments failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.ListPaymentsResponse{Payments: mapper.PaymentsToResponse(payments)})
}

func (c *DonationController) VerifyDonation(ctx echo.Context) error {
	req, err := types.NewVerifyDonationRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.donationService.VerifyDonation(ctx.Request().Context(), req.DonationID, service.VerifyOptions{
		PaymentID:   req.PaymentID,
		MaxAttempts: req.MaxAttempts,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrVerificationFailed):
			// Exhausted retries: a manual retry is always safe.
			return ctx.JSON(http.StatusBadGateway, &types.VerificationResponse{
				Outcome:         "error",
				Summary:         err.Error(),
				RecoveryActions: []string{service.RecoveryRetry},
			})
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Verify donation failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.VerificationToResponse(result))
}

func (c *DonationController) InitiatePayment(ctx echo.Context) error {
	req, err := types.NewInitiatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	decision, err := c.donationService.InitiatePayment(ctx.Request().Context(), &service.InitiatePaymentCommand{
		DonationID:    req.DonationID,
		Provider:      req.Provider,
		PaymentMethod: req.PaymentMethod,
		ConfirmReuse:  req.ConfirmReuse,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDonationNotFound):
			return c.writeError(ctx, http.StatusNotFound, "donation not found")
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInitiationRejected):
			return c.writeError(ctx, http.StatusUnprocessableEntity, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Initiate payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.InitiationToResponse(decision))
}

func (c *DonationController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
