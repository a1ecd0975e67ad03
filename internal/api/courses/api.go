package courses

import (
	"errors"
	"net/http"

	"impulsa-web/internal/app/http/middleware"
	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/logger"
	"impulsa-web/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /api/plans
//
// Anonymous callers get the catalog with every plan unpurchased.
func (h *Handler) ListPlans(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.store.ActivePlans(ctx)
	if err != nil {
		logger.FromGin(c).Error("list plans", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	var owned []purchases.Purchase
	if sess := middleware.SessionFrom(c); sess != nil {
		owned, err = h.store.PurchasesForUser(ctx, sess.User.ID)
		if err != nil {
			logger.FromGin(c).Error("list purchases", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
			return
		}
	}

	out := make([]PlanDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toPlanDTO(p, purchases.IsPurchased(owned, p.ID)))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/purchases
func (h *Handler) ListPurchases(c *gin.Context) {
	sess := middleware.SessionFrom(c)

	list, err := h.store.PurchasesForUser(c.Request.Context(), sess.User.ID)
	if err != nil {
		logger.FromGin(c).Error("list purchases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/purchases
func (h *Handler) CreatePurchase(c *gin.Context) {
	var body struct {
		PlanID string `json:"plan_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan_id"})
		return
	}

	ctx := c.Request.Context()
	sess := middleware.SessionFrom(c)

	plan, err := h.store.Plan(ctx, body.PlanID)
	if errors.Is(err, dataservice.ErrNotFound) || (err == nil && !plan.IsActive) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown plan"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("load plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	created, err := h.store.InsertPurchase(ctx, purchases.Purchase{
		UserID: sess.User.ID,
		PlanID: plan.ID,
		Status: purchases.StatusCompleted,
	})
	switch {
	case errors.Is(err, dataservice.ErrDuplicate):
		metrics.PurchasesTotal.WithLabelValues("duplicate").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": "Plan already purchased"})
		return
	case err != nil:
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		logger.FromGin(c).Error("insert purchase", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusCreated, created)
}

// GET /api/plans/:id/classes
//
// Mounted behind middleware.RequirePurchase.
func (h *Handler) ListClasses(c *gin.Context) {
	list, err := h.store.ClassesForPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.FromGin(c).Error("list classes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load classes"})
		return
	}
	c.JSON(http.StatusOK, list)
}
