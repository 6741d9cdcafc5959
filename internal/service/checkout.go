package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"mediastore/internal/client"
	"mediastore/internal/dto"
	"mediastore/internal/model"
	"mediastore/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrPaymentProvider marks failures talking to the external payment provider,
// so the HTTP layer can answer with a gateway error instead of a client error.
var ErrPaymentProvider = errors.New("payment provider error")

type CheckoutService interface {
	Checkout(ctx context.Context, cart dto.Cart, email string) (*dto.CheckoutResult, error)
}

type checkoutServiceImpl struct {
	db          *gorm.DB
	payments    client.PaymentClient
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	currency    string
	logger      *zap.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	payments client.PaymentClient,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	currency string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:          db,
		payments:    payments,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		currency:    currency,
		logger:      logger,
	}
}

// Checkout turns a cart into a pending order plus an externally hosted payment
// session. The order and its item snapshots are committed before the provider
// is contacted, so a provider failure still leaves a traceable pending order.
// Cart entries referencing unknown products are dropped from the order and
// reported back in the result.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, cart dto.Cart, email string) (*dto.CheckoutResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}
	if err := cart.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cart: %w", err)
	}

	productIDs := make([]uint, 0, len(cart))
	for id := range cart {
		productIDs = append(productIDs, id)
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	resolved := make(map[uint]bool, len(products))
	for _, p := range products {
		resolved[p.ID] = true
	}
	var dropped []uint
	for _, id := range productIDs {
		if !resolved[id] {
			dropped = append(dropped, id)
		}
	}
	sort.Slice(dropped, func(i, j int) bool { return dropped[i] < dropped[j] })
	if len(dropped) > 0 {
		s.logger.Warn("dropping unknown products from cart",
			zap.Uints("product_ids", dropped),
			zap.String("email", email),
		)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no cart items could be resolved")
	}

	// snapshot current prices; the order total is frozen from here on
	var totalCents int64
	items := make([]*model.OrderItem, len(products))
	lines := make([]client.CheckoutLine, len(products))
	for i, product := range products {
		quantity := cart[product.ID]
		totalCents += product.PriceCents * int64(quantity)

		items[i] = &model.OrderItem{
			ProductID:      product.ID,
			Quantity:       quantity,
			UnitPriceCents: product.PriceCents,
		}
		lines[i] = client.CheckoutLine{
			Name:            product.Title,
			UnitAmountCents: product.PriceCents,
			Quantity:        int64(quantity),
			Currency:        s.currency,
		}
	}

	order := &model.Order{
		Email:       email,
		AmountCents: totalCents,
		Currency:    s.currency,
		Status:      model.StatusCreated,
	}

	// first commit: order + items, before any external call
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		for _, item := range items {
			item.OrderID = order.ID
		}
		if err := s.orderRepo.CreateItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sess, err := s.payments.CreateCheckoutSession(ctx, email, lines)
	if err != nil {
		// the pending order stays behind for manual inspection
		return nil, fmt.Errorf("%w: create session for order %d: %v", ErrPaymentProvider, order.ID, err)
	}

	// second commit: attach the provider session reference
	if err := s.orderRepo.SetSessionID(ctx, order.ID, sess.ID); err != nil {
		return nil, fmt.Errorf("store session reference: %w", err)
	}

	s.logger.Info("checkout session created",
		zap.Uint("order_id", order.ID),
		zap.String("session_id", sess.ID),
		zap.Int64("amount_cents", totalCents),
	)

	return &dto.CheckoutResult{
		OrderID:           order.ID,
		RedirectURL:       sess.URL,
		DroppedProductIDs: dropped,
	}, nil
}
