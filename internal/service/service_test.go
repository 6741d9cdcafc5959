package service

import (
	"context"
	"fmt"
	"testing"

	"mediastore/internal/client"
	"mediastore/internal/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.User{},
		&model.WebhookEvent{},
	)
	require.NoError(t, err)

	return db
}

type mockPaymentClient struct{ mock.Mock }

func (m *mockPaymentClient) CreateCheckoutSession(ctx context.Context, customerEmail string, lines []client.CheckoutLine) (*client.CheckoutSessionRef, error) {
	args := m.Called(ctx, customerEmail, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.CheckoutSessionRef), args.Error(1)
}

func (m *mockPaymentClient) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	args := m.Called(payload, sigHeader)
	return args.Get(0).(stripe.Event), args.Error(1)
}
