// Package billing opens Stripe Checkout for course purchases.
package billing

import (
	"context"
	"errors"
	"net/http"

	"impulsa-web/internal/app/http/middleware"
	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/domain/session"
	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Store interface {
	Plan(ctx context.Context, id string) (plans.Plan, error)
	PurchasesForUser(ctx context.Context, userID string) ([]purchases.Purchase, error)
}

// Checkout creates a hosted payment page for one plan.
type Checkout interface {
	CourseCheckout(plan plans.Plan, u session.User) (string, error)
}

type Handler struct {
	store    Store
	checkout Checkout
}

// NewHandler takes a nil checkout when Stripe is not configured.
func NewHandler(store Store, checkout Checkout) *Handler {
	return &Handler{store: store, checkout: checkout}
}

// POST /api/checkout
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	if h.checkout == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe not configured"})
		return
	}

	var body struct {
		PlanID string `json:"plan_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan_id"})
		return
	}

	ctx := c.Request.Context()
	sess := middleware.SessionFrom(c)

	// only catalog plans can be bought
	plan, err := h.store.Plan(ctx, body.PlanID)
	if errors.Is(err, dataservice.ErrNotFound) || (err == nil && !plan.IsActive) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("checkout: load plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	owned, err := h.store.PurchasesForUser(ctx, sess.User.ID)
	if err != nil {
		logger.FromGin(c).Error("checkout: load purchases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}
	if purchases.IsPurchased(owned, plan.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "Plan already purchased"})
		return
	}

	url, err := h.checkout.CourseCheckout(plan, sess.User)
	if err != nil {
		logger.FromGin(c).Error("checkout: create session", zap.String("plan_id", plan.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
