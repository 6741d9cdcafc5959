package handler

import (
	"errors"
	"net/http"

	"mediastore/internal/dto"
	"mediastore/internal/repository"
	"mediastore/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	orderRepo       repository.OrderRepository
	cartHandler     *CartHandler
}

func NewCheckoutHandler(checkoutService service.CheckoutService, orderRepo repository.OrderRepository, cartHandler *CartHandler) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		orderRepo:       orderRepo,
		cartHandler:     cartHandler,
	}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart := h.cartHandler.ReadCart(c)

	result, err := h.checkoutService.Checkout(ctx, cart, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrPaymentProvider) {
			return echo.NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// cart is deliberately NOT cleared here; see Success
	return c.JSON(http.StatusOK, result)
}

// Success is where the payment provider redirects the buyer after paying.
// Only now is the cart cookie dropped, so an abandoned payment can resume.
func (h *CheckoutHandler) Success(c echo.Context) error {
	ctx := c.Request().Context()

	ClearCart(c)

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	order, err := h.orderRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"order_id":     order.ID,
		"order_status": order.Status,
	})
}
