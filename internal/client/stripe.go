package client

import (
	"context"
	"fmt"

	"mediastore/internal/config"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// CheckoutLine is one order line handed to the payment provider.
type CheckoutLine struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
	Currency        string
}

// CheckoutSessionRef identifies the externally hosted payment session.
type CheckoutSessionRef struct {
	ID  string
	URL string
}

type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, customerEmail string, lines []CheckoutLine) (*CheckoutSessionRef, error)
	VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

type stripeClientImpl struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeClient(cfg *config.Stripe, baseURL string) PaymentClient {
	stripe.Key = cfg.SecretKey

	return &stripeClientImpl{
		webhookSecret: cfg.WebhookSecret,
		successURL:    baseURL + "/api/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:     baseURL + "/api/cart",
	}
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, customerEmail string, lines []CheckoutLine) (*CheckoutSessionRef, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(lines))
	for i, line := range lines {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(line.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(line.Currency),
				UnitAmount: stripe.Int64(line.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(customerEmail),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(c.successURL),
		CancelURL:          stripe.String(c.cancelURL),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &CheckoutSessionRef{ID: sess.ID, URL: sess.URL}, nil
}

func (c *stripeClientImpl) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
}
