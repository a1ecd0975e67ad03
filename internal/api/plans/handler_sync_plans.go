// Package plans imports course plans from Stripe.
package plans

import (
	"context"
	"fmt"
	"net/http"

	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceSource lists the course plans offered in Stripe.
type PriceSource interface {
	CoursePlans() ([]plans.Plan, int, error)
}

type Store interface {
	UpsertPlanByStripePrice(ctx context.Context, in plans.Plan) (bool, error)
	DeactivateMissingStripePlans(ctx context.Context, keep []string) (int64, error)
}

type Result struct {
	Synced      int   `json:"synced"`
	Created     int   `json:"created"`
	Updated     int   `json:"updated"`
	Skipped     int   `json:"skipped"`
	Deactivated int64 `json:"deactivated"`
}

// Sync upserts every Stripe course plan by price id and hides the
// Stripe-backed plans that are no longer offered.
func Sync(ctx context.Context, src PriceSource, store Store) (Result, error) {
	list, skipped, err := src.CoursePlans()
	if err != nil {
		return Result{}, err
	}

	res := Result{Skipped: skipped}
	keep := make([]string, 0, len(list))
	for _, p := range list {
		created, err := store.UpsertPlanByStripePrice(ctx, p)
		if err != nil {
			return res, fmt.Errorf("sync plan %q: %w", p.Name, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		res.Synced++
		keep = append(keep, *p.StripePriceID)
	}

	res.Deactivated, err = store.DeactivateMissingStripePlans(ctx, keep)
	if err != nil {
		return res, fmt.Errorf("deactivate plans: %w", err)
	}
	return res, nil
}

type Handler struct {
	src   PriceSource
	store Store
}

// NewHandler takes a nil src when Stripe is not configured.
func NewHandler(src PriceSource, store Store) *Handler {
	return &Handler{src: src, store: store}
}

// POST /admin/sync-plans
func (h *Handler) SyncPlansFromStripe(c *gin.Context) {
	if h.src == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	res, err := Sync(c.Request.Context(), h.src, h.store)
	if err != nil {
		logger.FromGin(c).Error("sync plans", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync plans", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
