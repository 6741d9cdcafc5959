package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediastore/internal/dto"
	"mediastore/internal/middleware"
	"mediastore/internal/model"
	"mediastore/internal/repository"
	"mediastore/internal/service"
	"mediastore/internal/signing"
	"mediastore/internal/storage"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	handler *CartHandler
	product *model.Product
	echo    *echo.Echo
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	db := newTestDB(t)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(db)
	product := &model.Product{Title: "Midnight Drive", PriceCents: 1500, MediaKey: "midnight.mp3", MimeType: "audio/mpeg"}
	require.NoError(t, productRepo.Create(context.Background(), product))

	signer := signing.NewSigner("test-secret", CartSalt)
	catalog := service.NewCatalogService(productRepo, store)

	return &cartFixture{
		handler: NewCartHandler(signer, catalog),
		product: product,
		echo:    echo.New(),
	}
}

func cartCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.CartCookie {
			return cookie
		}
	}
	t.Fatal("no cart cookie set")
	return nil
}

func (f *cartFixture) addItem(t *testing.T, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return rec, f.handler.AddItem(f.echo.NewContext(req, rec))
}

func TestCartAddItemRoundTrip(t *testing.T) {
	f := newCartFixture(t)

	rec, err := f.addItem(t, `{"product_id":1,"quantity":2}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := cartCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	// a second add with the cookie accumulates quantity
	rec, err = f.addItem(t, `{"product_id":1,"quantity":1}`, cookie)
	require.NoError(t, err)

	var cart dto.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Equal(t, dto.Cart{f.product.ID: 3}, cart)
}

func TestCartAddUnknownProduct(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.addItem(t, `{"product_id":999,"quantity":1}`)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestCartAddBadQuantity(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.addItem(t, `{"product_id":1,"quantity":0}`)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCartTamperedCookieReadsEmpty(t *testing.T) {
	f := newCartFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CartCookie, Value: "tampered-value"})
	rec := httptest.NewRecorder()

	require.NoError(t, f.handler.Show(f.echo.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestCartRemoveItem(t *testing.T) {
	f := newCartFixture(t)

	rec, err := f.addItem(t, `{"product_id":1,"quantity":2}`)
	require.NoError(t, err)
	cookie := cartCookie(t, rec)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetPath("/api/cart/items/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, f.handler.RemoveItem(c))

	var cart dto.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Empty(t, cart)
}
