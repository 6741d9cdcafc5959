package handler

import (
	"errors"
	"net/http"
	"strconv"

	"mediastore/internal/repository"
	"mediastore/internal/service"
	"mediastore/internal/storage"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type DownloadHandler struct {
	downloadService service.DownloadService
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	store           storage.Storage
}

func NewDownloadHandler(
	downloadService service.DownloadService,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	store storage.Storage,
) *DownloadHandler {
	return &DownloadHandler{
		downloadService: downloadService,
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		store:           store,
	}
}

// ListDownloads returns the signed links for a paid order.
func (h *DownloadHandler) ListDownloads(c echo.Context) error {
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

	links, err := h.downloadService.DownloadsFor(ctx, order)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotPaid) {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
		return err
	}

	return c.JSON(http.StatusOK, links)
}

// Download verifies a signed token and streams the local media file. Token
// failures are forbidden with no detail; a valid token over a missing file is
// not found.
func (h *DownloadHandler) Download(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	mediaKey, err := h.downloadService.ResolveToken(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	rc, err := h.store.Open(ctx, mediaKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return err
	}
	defer rc.Close()

	mimeType := "application/octet-stream"
	if product, err := h.productRepo.FindByMediaKey(ctx, mediaKey); err == nil && product.MimeType != "" {
		mimeType = product.MimeType
	}

	return c.Stream(http.StatusOK, mimeType, rc)
}
