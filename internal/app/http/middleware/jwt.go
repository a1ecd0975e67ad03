package middleware

import (
	"context"
	"net/http"
	"strings"

	"impulsa-web/internal/domain/session"
	"impulsa-web/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionCookie = "impulsa_session"
	ctxSession    = "session"
)

type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*session.Session, error)
}

// SessionMiddleware resolves the request token, if any, and stores the
// session in the context. It never aborts.
func SessionMiddleware(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFrom(c)
		if token == "" {
			c.Next()
			return
		}

		sess, err := auth.GetSession(c.Request.Context(), token)
		if err != nil {
			logger.FromGin(c).Warn("session lookup failed", zap.Error(err))
		}
		if sess != nil {
			c.Set(ctxSession, sess)
			c.Set("email", sess.User.Email)
			c.Set("role", sess.User.Role)
			c.Set("user_id", sess.User.ID)
		}
		c.Next()
	}
}

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFrom(c) != nil {
			c.Next()
			return
		}
		if TokenFrom(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		if value != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// TokenFrom reads a Bearer token, falling back to the session cookie.
func TokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if tok := strings.TrimPrefix(h, "Bearer "); tok != h {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	tok, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return tok
}

func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
