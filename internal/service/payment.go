package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mediastore/internal/client"
	"mediastore/internal/repository"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService interface {
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type paymentServiceImpl struct {
	payments         client.PaymentClient
	orderRepo        repository.OrderRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           *zap.Logger
}

func NewPaymentService(
	payments client.PaymentClient,
	orderRepo repository.OrderRepository,
	webhookEventRepo repository.WebhookEventRepository,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		payments:         payments,
		orderRepo:        orderRepo,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
	}
}

// HandleWebhook reconciles order state from provider notifications. A failed
// signature check is the only rejecting path; everything after verification is
// acknowledged to the provider so it does not retry, including events that
// match no order.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.payments.VerifyWebhook(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	processed, err := s.webhookEventRepo.Exists(ctx, event.ID)
	if err == nil && processed {
		s.logger.Info("skipping already-processed webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
		)
		return nil
	}

	switch event.Type {
	case "checkout.session.completed":
		s.handleCheckoutCompleted(ctx, event)
	default:
		s.logger.Debug("ignoring webhook event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
		)
	}

	if err := s.webhookEventRepo.MarkProcessed(ctx, event.ID, string(event.Type)); err != nil {
		// dedup is best effort; MarkPaid replays are no-ops anyway
		s.logger.Warn("failed to record webhook event", zap.String("event_id", event.ID), zap.Error(err))
	}

	return nil
}

func (s *paymentServiceImpl) handleCheckoutCompleted(ctx context.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		s.logger.Error("failed to unmarshal checkout session",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return
	}

	order, err := s.orderRepo.FindBySessionID(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// no order for this session; ack so the provider stops retrying
			s.logger.Warn("no order for checkout session", zap.String("session_id", sess.ID))
			return
		}
		s.logger.Error("lookup order by session failed", zap.String("session_id", sess.ID), zap.Error(err))
		return
	}

	if _, err := s.orderRepo.MarkPaid(ctx, order.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// admin moved the order off the reconciler path; leave it alone
			s.logger.Warn("order not on payable path, skipping",
				zap.Uint("order_id", order.ID),
				zap.String("status", string(order.Status)),
			)
			return
		}
		s.logger.Error("failed to mark order paid", zap.Uint("order_id", order.ID), zap.Error(err))
		return
	}

	s.logger.Info("order marked paid",
		zap.Uint("order_id", order.ID),
		zap.String("session_id", sess.ID),
	)
}
