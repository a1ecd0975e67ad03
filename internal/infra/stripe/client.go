// Package stripe wraps the Stripe calls used for course payments.
package stripe

import (
	"fmt"
	"math"

	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/session"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/price"
)

type Client struct {
	appURL string
}

// New sets the process-wide Stripe key.
func New(secretKey, appURL string) *Client {
	stripe.Key = secretKey
	return &Client{appURL: appURL}
}

// CourseCheckout opens a one-time Checkout Session for plan and returns
// its hosted URL.
func (c *Client) CourseCheckout(plan plans.Plan, u session.User) (string, error) {
	item := &stripe.CheckoutSessionLineItemParams{Quantity: stripe.Int64(1)}
	if plan.StripePriceID != nil && *plan.StripePriceID != "" {
		item.Price = stripe.String(*plan.StripePriceID)
	} else {
		item.PriceData = &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyCOP)),
			UnitAmount: stripe.Int64(int64(math.Round(plan.Price * 100))),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(plan.Name),
			},
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(c.appURL + "/courses?checkout=success"),
		CancelURL:         stripe.String(c.appURL + "/courses?checkout=canceled"),
		CustomerEmail:     stripe.String(u.Email),
		ClientReferenceID: stripe.String(u.ID),
		LineItems:         []*stripe.CheckoutSessionLineItemParams{item},
		Metadata: map[string]string{
			MetaUserID: u.ID,
			MetaPlanID: plan.ID,
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.URL, nil
}

// CoursePlans lists active one-time prices of course products as plans.
// It also reports how many prices were skipped.
func (c *Client) CoursePlans() ([]plans.Plan, int, error) {
	params := &stripe.PriceListParams{}
	params.Active = stripe.Bool(true)
	params.Type = stripe.String(string(stripe.PriceTypeOneTime))
	params.AddExpand("data.product")

	it := price.List(params)

	var out []plans.Plan
	skipped := 0
	for it.Next() {
		p, ok := PlanFromPrice(it.Price())
		if !ok {
			skipped++
			continue
		}
		out = append(out, p)
	}
	if err := it.Err(); err != nil {
		return nil, skipped, fmt.Errorf("list stripe prices: %w", err)
	}
	return out, skipped, nil
}
