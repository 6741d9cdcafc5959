package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mediastore/internal/dto"
	"mediastore/internal/model"
	"mediastore/internal/repository"
	"mediastore/internal/service"
	"mediastore/internal/signing"
	"mediastore/internal/storage"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type downloadFixture struct {
	db          *gorm.DB
	store       storage.Storage
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	service     service.DownloadService
	handler     *DownloadHandler
	echo        *echo.Echo
}

func newDownloadFixture(t *testing.T) *downloadFixture {
	t.Helper()

	db := newTestDB(t)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	signer := signing.NewSigner("test-secret", service.DownloadSalt)
	svc := service.NewDownloadService(signer, store, storage.BackendLocal, "http://localhost:8080", zap.NewNop())

	return &downloadFixture{
		db:          db,
		store:       store,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		service:     svc,
		handler:     NewDownloadHandler(svc, orderRepo, productRepo, store),
		echo:        echo.New(),
	}
}

// seedPaidOrder uploads media, creates the product and a paid order for it.
func (f *downloadFixture) seedPaidOrder(t *testing.T) *model.Order {
	t.Helper()
	ctx := context.Background()

	key, err := f.store.Save(ctx, "midnight.mp3", "audio/mpeg", strings.NewReader("media bytes"))
	require.NoError(t, err)

	product := &model.Product{Title: "Midnight Drive", PriceCents: 1500, MediaKey: key, MimeType: "audio/mpeg"}
	require.NoError(t, f.productRepo.Create(ctx, product))

	order := &model.Order{Email: "buyer@example.com", AmountCents: 3000, Currency: "usd", Status: model.StatusCreated}
	err = f.db.Transaction(func(tx *gorm.DB) error {
		if err := f.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		return f.orderRepo.CreateItems(ctx, tx, []*model.OrderItem{
			{OrderID: order.ID, ProductID: product.ID, Quantity: 2, UnitPriceCents: 1500},
		})
	})
	require.NoError(t, err)

	_, err = f.orderRepo.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	return order
}

func (f *downloadFixture) listDownloads(t *testing.T, orderID string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetPath("/api/orders/:id/downloads")
	c.SetParamNames("id")
	c.SetParamValues(orderID)
	return rec, f.handler.ListDownloads(c)
}

func TestListDownloadsPaidOrder(t *testing.T) {
	f := newDownloadFixture(t)
	order := f.seedPaidOrder(t)

	rec, err := f.listDownloads(t, fmt.Sprint(order.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var links []dto.DownloadLink
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
	require.Len(t, links, 1)
	assert.Equal(t, "Midnight Drive", links[0].Title)
	assert.Contains(t, links[0].URL, "/download?token=")
}

func TestListDownloadsUnpaidOrder(t *testing.T) {
	f := newDownloadFixture(t)
	order := f.seedPaidOrder(t)
	require.NoError(t, f.orderRepo.SetStatus(context.Background(), order.ID, model.StatusCreated))

	_, err := f.listDownloads(t, fmt.Sprint(order.ID))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestListDownloadsUnknownOrder(t *testing.T) {
	f := newDownloadFixture(t)

	_, err := f.listDownloads(t, "9999")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestDownloadStreamsMedia(t *testing.T) {
	f := newDownloadFixture(t)
	order := f.seedPaidOrder(t)

	ctx := context.Background()
	full, err := f.orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	links, err := f.service.DownloadsFor(ctx, full)
	require.NoError(t, err)
	require.Len(t, links, 1)

	parsed, err := url.Parse(links[0].URL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	req := httptest.NewRequest(http.MethodGet, "/download?token="+url.QueryEscape(token), nil)
	rec := httptest.NewRecorder()

	require.NoError(t, f.handler.Download(f.echo.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "media bytes", rec.Body.String())
	assert.Equal(t, "audio/mpeg", rec.Header().Get(echo.HeaderContentType))
}

func TestDownloadRejectsBadToken(t *testing.T) {
	f := newDownloadFixture(t)
	f.seedPaidOrder(t)

	req := httptest.NewRequest(http.MethodGet, "/download?token=tampered", nil)
	rec := httptest.NewRecorder()

	err := f.handler.Download(f.echo.NewContext(req, rec))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestDownloadMissingFile(t *testing.T) {
	f := newDownloadFixture(t)

	signer := signing.NewSigner("test-secret", service.DownloadSalt)
	token, err := signer.Issue("gone.mp3")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/download?token="+url.QueryEscape(token), nil)
	rec := httptest.NewRecorder()

	err = f.handler.Download(f.echo.NewContext(req, rec))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
