package routes

import (
	"context"
	"net/http"
	"time"

	adminapi "impulsa-web/internal/api/admin"
	authapi "impulsa-web/internal/api/auth"
	"impulsa-web/internal/api/billing"
	clientsapi "impulsa-web/internal/api/clients"
	coursesapi "impulsa-web/internal/api/courses"
	"impulsa-web/internal/api/pages"
	"impulsa-web/internal/api/plans"
	stripewebhooks "impulsa-web/internal/api/stripewebhook"
	"impulsa-web/internal/app/http/middleware"
	"impulsa-web/internal/content"
	"impulsa-web/internal/infra/authprovider"
	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/infra/mailer"
	"impulsa-web/internal/infra/markdown"
	"impulsa-web/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the routes need. Checkout and Prices stay nil when
// Stripe is not configured, Google when Google sign-in is not.
type Deps struct {
	Store    *dataservice.Service
	Auth     *authprovider.Provider
	Mail     mailer.Sender
	Content  *content.Catalog
	Markdown *markdown.Renderer

	Checkout      billing.Checkout
	Prices        plans.PriceSource
	WebhookSecret string
	Google        *authapi.Google

	AppURL     string
	Secure     bool
	SessionTTL time.Duration
	// CSRFKey turns on form protection when set (32 bytes).
	CSRFKey []byte
	// KeepAlive is the comment interval of the auth event stream.
	KeepAlive time.Duration
	// Streams is cancelled at shutdown to end open event streams.
	Streams context.Context
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	tpl, err := web.Parse(d.Markdown)
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tpl)
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.WebhookSecret != "" {
		r.POST("/webhook", stripewebhooks.NewHandler(d.WebhookSecret, d.Store).StripeWebhook)
	}

	pagesHandler := pages.NewHandler(d.Content)
	layout := pagesHandler.Layout()
	courses := coursesapi.NewHandler(d.Store, d.Auth, layout, d.KeepAlive)
	if d.Streams != nil {
		courses.StopStreamsOn(d.Streams)
	}
	clients := clientsapi.NewHandler(d.Store, layout)
	auth := authapi.NewHandler(d.Store.DB(), d.Auth, d.Mail, layout, authapi.Config{
		AppURL: d.AppURL,
		Secure: d.Secure,
		TTL:    d.SessionTTL,
		Google: d.Google,
	})

	r.Use(middleware.SessionMiddleware(d.Auth))

	// Server-rendered pages
	site := r.Group("/")
	if len(d.CSRFKey) > 0 {
		site.Use(middleware.CSRF(d.CSRFKey, d.Secure))
	}
	site.GET("/", pagesHandler.Home)
	site.GET("/services", pagesHandler.Services)
	site.GET("/clients", clients.Page)

	site.GET("/courses", courses.Catalog)
	site.GET("/courses/events", courses.Events)
	site.POST("/courses/:id/purchase", courses.Purchase)
	site.GET("/courses/:id/schedule", courses.Schedule)

	authGroup := site.Group("/auth")
	authGroup.Use(middleware.SanitizeAndCleanInputMiddleware())
	authGroup.GET("", auth.Page)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/register", auth.Register)
	authGroup.GET("/verify", auth.Verify)
	authGroup.POST("/resend-verification", auth.ResendVerification)
	authGroup.POST("/signout", auth.SignOut)
	authGroup.GET("/google", auth.GoogleStart)
	authGroup.GET("/google/callback", auth.GoogleCallback)

	// JSON API
	api := r.Group("/api")
	api.Use(middleware.SanitizeAndCleanInputMiddleware())
	api.GET("/plans", courses.ListPlans)
	api.GET("/clients", clients.List)

	signedIn := api.Group("/")
	signedIn.Use(middleware.AuthMiddleware())
	signedIn.GET("/session", auth.Session)
	signedIn.GET("/purchases", courses.ListPurchases)
	signedIn.POST("/purchases", courses.CreatePurchase)
	signedIn.GET("/plans/:id/classes", middleware.RequirePurchase(d.Store, "id"), courses.ListClasses)
	if d.Checkout != nil {
		signedIn.POST("/checkout", billing.NewHandler(d.Store, d.Checkout).CreateCheckoutSession)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	adminHandler := adminapi.NewHandler(d.Store.DB())
	admin.GET("/users", adminHandler.ListAllUsers)
	admin.GET("/purchases", adminHandler.ListAllPurchases)
	admin.GET("/stats", adminHandler.GetAdminStats)
	admin.POST("/sync-plans", plans.NewHandler(d.Prices, d.Store).SyncPlansFromStripe)

	return nil
}
