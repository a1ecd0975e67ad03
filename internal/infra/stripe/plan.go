package stripe

import (
	"strconv"
	"strings"

	"impulsa-web/internal/domain/plans"

	"github.com/stripe/stripe-go/v75"
)

// Product metadata keys read when importing plans.
const (
	MetaCourse        = "course"
	MetaDurationWeeks = "duration_weeks"
	MetaFeatures      = "features"
	MetaMeetLink      = "meet_link"

	featureSeparator = "|"
)

// PlanFromPrice maps a Stripe price with its expanded product onto a plan.
// Only active one-time COP prices of active products flagged course=true
// qualify.
func PlanFromPrice(p *stripe.Price) (plans.Plan, bool) {
	if p == nil || !p.Active || p.Recurring != nil || p.Product == nil || !p.Product.Active {
		return plans.Plan{}, false
	}
	if p.Currency != stripe.CurrencyCOP {
		return plans.Plan{}, false
	}
	meta := p.Product.Metadata
	if meta[MetaCourse] != "true" {
		return plans.Plan{}, false
	}

	weeks, _ := strconv.Atoi(strings.TrimSpace(meta[MetaDurationWeeks]))
	priceID := p.ID

	plan := plans.Plan{
		Name:          p.Product.Name,
		Description:   p.Product.Description,
		Price:         float64(p.UnitAmount) / 100.0,
		DurationWeeks: weeks,
		Features:      splitFeatures(meta[MetaFeatures]),
		IsActive:      true,
		StripePriceID: &priceID,
	}
	if link := strings.TrimSpace(meta[MetaMeetLink]); link != "" {
		plan.MeetLink = &link
	}
	return plan, true
}

func splitFeatures(s string) []string {
	out := []string{}
	for _, f := range strings.Split(s, featureSeparator) {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
