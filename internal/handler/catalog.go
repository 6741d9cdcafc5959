package handler

import (
	"errors"
	"net/http"
	"strconv"

	"mediastore/internal/dto"
	"mediastore/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	filter := dto.ProductFilter{
		Query:           c.QueryParam("q"),
		Category:        c.QueryParam("category"),
		MediaTypePrefix: c.QueryParam("media_type"),
	}
	if v := c.QueryParam("min_price_cents"); v != "" {
		if cents, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MinPriceCents = &cents
		}
	}
	if v := c.QueryParam("max_price_cents"); v != "" {
		if cents, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MaxPriceCents = &cents
		}
	}

	products, err := h.catalogService.Search(ctx, filter)
	if err != nil {
		return err
	}

	categories, mimeTypes, err := h.catalogService.Facets(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products":    products,
		"categories":  categories,
		"media_types": mimeTypes,
	})
}

func (h *CatalogHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.catalogService.Get(ctx, uint(productID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, product)
}
