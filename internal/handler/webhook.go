package handler

import (
	"io"
	"net/http"

	"mediastore/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	paymentService service.PaymentService
}

func NewWebhookHandler(paymentService service.PaymentService) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
	}
}

// HandlePayment receives provider notifications. A failed signature check is
// the only client error; all verified events are acknowledged so the provider
// does not retry.
func (h *WebhookHandler) HandlePayment(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	sigHeader := c.Request().Header.Get("Stripe-Signature")
	if err := h.paymentService.HandleWebhook(ctx, payload, sigHeader); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}
