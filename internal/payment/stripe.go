package payment

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// LineItem is one priced cart entry; UnitAmount is in minor currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// CheckoutClient creates a hosted checkout session and returns its opaque id.
// The session is unrelated to any persisted order.
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, items []LineItem) (string, error)
}

type StripeClient struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

func NewStripeClient(secretKey, successURL, cancelURL string) *StripeClient {
	stripe.Key = secretKey
	return &StripeClient{
		Currency:   "usd",
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	}
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, items []LineItem) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(c.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(c.SuccessURL),
		CancelURL:          stripe.String(c.CancelURL),
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return "", err
	}
	return s.ID, nil
}
