package middleware

import (
	"context"
	"net/http"

	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PurchaseSource interface {
	PurchasesForUser(ctx context.Context, userID string) ([]purchases.Purchase, error)
}

// RequirePurchase lets the request through only when the signed-in user
// owns the plan named by the route parameter param.
func RequirePurchase(src PurchaseSource, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		list, err := src.PurchasesForUser(c.Request.Context(), sess.User.ID)
		if err != nil {
			logger.FromGin(c).Error("purchase guard", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Could not check purchases"})
			return
		}

		if !purchases.IsPurchased(list, c.Param(param)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Course not purchased"})
			return
		}

		c.Next()
	}
}
