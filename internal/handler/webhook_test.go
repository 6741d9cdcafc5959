package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentService struct {
	err       error
	payload   []byte
	sigHeader string
	callCount int
}

func (s *stubPaymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	s.callCount++
	s.payload = payload
	s.sigHeader = sigHeader
	return s.err
}

func TestHandlePaymentAcknowledges(t *testing.T) {
	stub := &stubPaymentService{}
	h := NewWebhookHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/payment", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()

	err := h.HandlePayment(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"received"}`, rec.Body.String())

	assert.Equal(t, 1, stub.callCount)
	assert.Equal(t, `{"id":"evt_1"}`, string(stub.payload))
	assert.Equal(t, "t=1,v1=abc", stub.sigHeader)
}

func TestHandlePaymentRejectsOnServiceError(t *testing.T) {
	stub := &stubPaymentService{err: assert.AnError}
	h := NewWebhookHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/payment", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	err := h.HandlePayment(e.NewContext(req, rec))
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
