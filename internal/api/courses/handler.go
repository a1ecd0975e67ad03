// Package courses serves the course catalog, the class schedule and the
// live auth channel of the catalog page.
package courses

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	appcourses "impulsa-web/internal/app/courses"
	"impulsa-web/internal/app/http/middleware"
	"impulsa-web/internal/app/notify"
	"impulsa-web/internal/app/tracker"
	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/logger"
	"impulsa-web/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pageTitle = "Cursos"

// Store is what the course pages read from and write to.
type Store interface {
	appcourses.DataService
	Plan(ctx context.Context, id string) (plans.Plan, error)
}

type Handler struct {
	store     Store
	auth      tracker.AuthClient
	layout    web.Layout
	keepAlive time.Duration
	// closed when the server shuts down; nil blocks forever
	stop <-chan struct{}
}

func NewHandler(store Store, auth tracker.AuthClient, layout web.Layout, keepAlive time.Duration) *Handler {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	return &Handler{store: store, auth: auth, layout: layout, keepAlive: keepAlive}
}

// StopStreamsOn ends every open event stream once ctx is done, so a
// graceful shutdown does not wait on them.
func (h *Handler) StopStreamsOn(ctx context.Context) *Handler {
	h.stop = ctx.Done()
	return h
}

// page is one rendering of the catalog: its tracker, view and notifications.
type page struct {
	tracker *tracker.Tracker
	view    *appcourses.View
	notes   *notify.Collector
}

func (p *page) close() {
	p.view.Discard()
	p.tracker.Close()
}

// open binds a tracker and a view to the request. It answers with a
// redirect to the login page and returns false when there is no session.
func (h *Handler) open(c *gin.Context) (*page, bool) {
	log := logger.FromGin(c)

	var leave atomic.Bool
	tr := tracker.New(h.auth, tracker.NavigatorFunc(func(string) { leave.Store(true) }), log)
	sess := tr.Start(c.Request.Context(), middleware.TokenFrom(c))
	if sess == nil || leave.Load() {
		tr.Close()
		c.Redirect(http.StatusSeeOther, tracker.LoginPath)
		return nil, false
	}

	notes := &notify.Collector{}
	return &page{
		tracker: tr,
		view:    appcourses.NewView(h.store, sess, notes, log),
		notes:   notes,
	}, true
}

func (h *Handler) render(c *gin.Context, p *page) {
	out := h.layout.Page(c, pageTitle, p.view.Snapshot())
	out.User = p.tracker.User()
	out.Notes = p.notes.Drain()
	c.HTML(http.StatusOK, "courses.html", out)
}

// GET /courses
func (h *Handler) Catalog(c *gin.Context) {
	p, ok := h.open(c)
	if !ok {
		return
	}
	defer p.close()

	// read failures surface as notifications
	_ = p.view.Load(c.Request.Context())
	if c.Query("back") != "" {
		p.view.Back()
	}
	h.render(c, p)
}

// POST /courses/:id/purchase
func (h *Handler) Purchase(c *gin.Context) {
	p, ok := h.open(c)
	if !ok {
		return
	}
	defer p.close()

	ctx := c.Request.Context()
	_ = p.view.Load(ctx)
	if err := p.view.PurchaseOffered(ctx, c.Param("id")); err != nil {
		logger.FromGin(c).Info("purchase not recorded", zap.String("plan_id", c.Param("id")), zap.Error(err))
	}
	h.render(c, p)
}

// GET /courses/:id/schedule
func (h *Handler) Schedule(c *gin.Context) {
	p, ok := h.open(c)
	if !ok {
		return
	}
	defer p.close()

	ctx := c.Request.Context()
	_ = p.view.Load(ctx)
	// a plan the viewer does not own leaves the catalog on screen
	_, _ = p.view.SelectPlanByID(ctx, c.Param("id"))
	h.render(c, p)
}
