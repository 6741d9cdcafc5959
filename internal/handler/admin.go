package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"mediastore/internal/dto"
	"mediastore/internal/middleware"
	"mediastore/internal/model"
	"mediastore/internal/repository"
	"mediastore/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AdminHandler struct {
	authService    service.AuthService
	catalogService service.CatalogService
	orderRepo      repository.OrderRepository
}

func NewAdminHandler(authService service.AuthService, catalogService service.CatalogService, orderRepo repository.OrderRepository) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		catalogService: catalogService,
		orderRepo:      orderRepo,
	}
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req dto.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	token, err := h.authService.AdminLogin(req.Username, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(service.AdminSessionMaxAge.Seconds()),
		HttpOnly: true,
	})

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// upload pulls an optional file out of the multipart form. The caller must
// close the returned closer when non-nil.
func upload(c echo.Context, field string) (*dto.Upload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// field absent is fine
		return nil, nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	return &dto.Upload{
		Filename: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Reader:   f,
	}, f, nil
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogService.Search(c.Request().Context(), dto.ProductFilter{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var in dto.ProductInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	media, mediaFile, err := upload(c, "media")
	if err != nil {
		return err
	}
	if mediaFile != nil {
		defer mediaFile.Close()
	}

	thumb, thumbFile, err := upload(c, "thumbnail")
	if err != nil {
		return err
	}
	if thumbFile != nil {
		defer thumbFile.Close()
	}

	product, err := h.catalogService.CreateProduct(ctx, in, media, thumb)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var in dto.ProductInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	media, mediaFile, err := upload(c, "media")
	if err != nil {
		return err
	}
	if mediaFile != nil {
		defer mediaFile.Close()
	}

	thumb, thumbFile, err := upload(c, "thumbnail")
	if err != nil {
		return err
	}
	if thumbFile != nil {
		defer thumbFile.Close()
	}

	product, err := h.catalogService.UpdateProduct(ctx, uint(productID), in, media, thumb)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.catalogService.DeleteProduct(ctx, uint(productID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) UpdateStock(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req dto.SetStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.catalogService.UpdateStock(ctx, uint(productID), req.Stock); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderRepo.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.orderRepo.FindByID(ctx, uint(orderID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, order)
}

// SetOrderStatus is the trusted admin override: any status value is accepted,
// with no transition validation.
func (h *AdminHandler) SetOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req dto.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	if err := h.orderRepo.SetStatus(ctx, uint(orderID), model.OrderStatus(req.Status)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
