package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"impulsa-web/config"
	"impulsa-web/database"
	authapi "impulsa-web/internal/api/auth"
	routes "impulsa-web/internal/app/http"
	"impulsa-web/internal/content"
	"impulsa-web/internal/infra/authprovider"
	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/infra/mailer"
	"impulsa-web/internal/infra/markdown"
	"impulsa-web/internal/infra/stripe"
	"impulsa-web/internal/logger"
	"impulsa-web/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	serveMigrate   bool
	serveKeepAlive time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "auto-migrate the schema before serving")
	serveCmd.Flags().DurationVar(&serveKeepAlive, "keep-alive", 25*time.Second, "ping interval of the auth event stream")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.L()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	if serveMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}
	store := dataservice.New(db)

	bus, revocations, closeBus, err := authBackend(ctx, log)
	if err != nil {
		return err
	}
	defer closeBus()

	auth := authprovider.New([]byte(config.JWT_SECRET), config.SESSION_TTL, bus, revocations,
		authprovider.WithLogger(log))

	cat, err := loadContent()
	if err != nil {
		return err
	}

	streams, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	deps := routes.Deps{
		Store:         store,
		Auth:          auth,
		Mail:          newMailer(log),
		Content:       cat,
		Markdown:      markdown.New(),
		WebhookSecret: config.STRIPE_WEBHOOK_SECRET,
		AppURL:        config.APP_URL,
		Secure:        config.IsProduction(),
		SessionTTL:    config.SESSION_TTL,
		KeepAlive:     serveKeepAlive,
		Streams:       streams,
	}
	if config.StripeEnabled() {
		sc := stripe.New(config.STRIPE_SECRET_KEY, config.APP_URL)
		deps.Checkout = sc
		deps.Prices = sc
	} else {
		log.Info("stripe disabled: STRIPE_SECRET_KEY not set")
	}
	if config.GoogleEnabled() {
		deps.Google = authapi.NewGoogle(config.GOOGLE_CLIENT_ID, config.GOOGLE_CLIENT_SECRET, config.GOOGLE_REDIRECT_URL)
	}
	if config.CSRF_KEY != "" {
		if len(config.CSRF_KEY) != 32 {
			return fmt.Errorf("CSRF_KEY must be 32 bytes, got %d", len(config.CSRF_KEY))
		}
		deps.CSRFKey = []byte(config.CSRF_KEY)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(), metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := routes.RegisterRoutes(r, deps); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// ordinary requests drain; event streams never finish on their own
	srv.RegisterOnShutdown(stopStreams)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", config.APP_ENV))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// authBackend shares sessions across instances through Redis when
// REDIS_URL is set, and keeps them in process otherwise.
func authBackend(ctx context.Context, log *zap.Logger) (authprovider.Bus, authprovider.RevocationStore, func(), error) {
	if config.REDIS_URL == "" {
		return authprovider.NewMemoryBus(), authprovider.NewMemoryRevocations(), func() {}, nil
	}

	opts, err := redis.ParseURL(config.REDIS_URL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	bus, err := authprovider.NewRedisBus(ctx, rdb, authprovider.DefaultChannel, log)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := bus.Close(); err != nil {
			log.Warn("close auth bus", zap.Error(err))
		}
		_ = rdb.Close()
	}
	return bus, authprovider.NewRedisRevocations(rdb), closeFn, nil
}

func newMailer(log *zap.Logger) mailer.Sender {
	if config.SMTPEnabled() {
		return mailer.NewSMTP(config.SMTP_HOST, config.SMTP_PORT, config.SMTP_USER, config.SMTP_PASSWORD, config.SMTP_FROM)
	}
	log.Info("smtp disabled: mail is logged")
	return mailer.NewLog(log)
}

func loadContent() (*content.Catalog, error) {
	if config.CONTENT_DIR != "" {
		return content.Load(os.DirFS(config.CONTENT_DIR))
	}
	return content.Load(content.Defaults())
}
