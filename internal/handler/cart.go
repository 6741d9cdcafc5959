package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"mediastore/internal/dto"
	"mediastore/internal/middleware"
	"mediastore/internal/service"
	"mediastore/internal/signing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	// CartSalt scopes cart cookies away from download and session tokens.
	CartSalt   = "cart-session"
	CartMaxAge = 7 * 24 * time.Hour
)

// CartHandler keeps the buyer's cart in a signed cookie, so the server stays
// stateless and checkout receives the cart as an explicit value.
type CartHandler struct {
	signer  *signing.Signer
	catalog service.CatalogService
}

func NewCartHandler(signer *signing.Signer, catalog service.CatalogService) *CartHandler {
	return &CartHandler{
		signer:  signer,
		catalog: catalog,
	}
}

// ReadCart decodes the cart cookie. Missing, tampered, or expired cookies all
// yield an empty cart.
func (h *CartHandler) ReadCart(c echo.Context) dto.Cart {
	cookie, err := c.Cookie(middleware.CartCookie)
	if err != nil {
		return dto.Cart{}
	}

	payload, err := h.signer.Verify(cookie.Value, CartMaxAge)
	if err != nil {
		return dto.Cart{}
	}

	var cart dto.Cart
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		return dto.Cart{}
	}
	return cart
}

func (h *CartHandler) writeCart(c echo.Context, cart dto.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	token, err := h.signer.Issue(string(payload))
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CartCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(CartMaxAge.Seconds()),
		HttpOnly: true,
	})
	return nil
}

// ClearCart drops the cart cookie. Called from the payment success page, not
// at checkout time, so an abandoned payment keeps the cart intact.
func ClearCart(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CartCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (h *CartHandler) Show(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ReadCart(c))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if _, err := h.catalog.Get(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return err
	}

	cart := h.ReadCart(c)
	if err := cart.Add(req.ProductID, req.Quantity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.writeCart(c, cart); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	cart := h.ReadCart(c)
	cart.Remove(uint(productID))

	if err := h.writeCart(c, cart); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}
