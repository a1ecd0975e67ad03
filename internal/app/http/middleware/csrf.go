package middleware

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRF protects form posts with gorilla/csrf. JSON requests are exempt;
// they authenticate with a bearer token or a SameSite cookie.
func CSRF(authKey []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("impulsa_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid csrf token", http.StatusForbidden)
		})),
	)

	return func(c *gin.Context) {
		if c.ContentType() == gin.MIMEJSON {
			c.Next()
			return
		}

		req := c.Request
		if req.TLS == nil && !secure {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c.Request = r
			passed = true
		})).ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFField is the hidden form input for the current request. Empty when
// protection is off.
func CSRFField(c *gin.Context) template.HTML {
	return csrf.TemplateField(c.Request)
}
