package stripewebhooks

import (
	"context"
	"errors"
	"fmt"

	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/infra/dataservice"
	stripepay "impulsa-web/internal/infra/stripe"
	"impulsa-web/internal/metrics"

	"github.com/stripe/stripe-go/v75"
)

type PurchaseStore interface {
	InsertPurchase(ctx context.Context, p purchases.Purchase) (purchases.Purchase, error)
}

// handleCheckoutSessionCompleted records the purchase of a paid session.
// Unpaid sessions are skipped; a purchase that already exists counts as
// recorded so redelivered events are harmless.
func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) (bool, error) {
	if stripepay.PaymentState(session) != "paid" {
		return false, nil
	}

	userID, planID, err := stripepay.PurchaseRef(session)
	if err != nil {
		return false, fmt.Errorf("checkout %s: %w", session.ID, err)
	}

	_, err = h.store.InsertPurchase(ctx, purchases.Purchase{
		UserID: userID,
		PlanID: planID,
		Status: purchases.StatusCompleted,
	})
	switch {
	case errors.Is(err, dataservice.ErrDuplicate):
		metrics.PurchasesTotal.WithLabelValues("duplicate").Inc()
		return true, nil
	case err != nil:
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("failed to record purchase: %w", err)
	}

	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	return true, nil
}
