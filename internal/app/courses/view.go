// Package courses holds the state of one course-catalog view: the plan
// catalog, the viewer's purchases and the class schedule of an owned plan.
package courses

import (
	"context"
	"errors"
	"sync"

	"impulsa-web/internal/app/notify"
	"impulsa-web/internal/domain/classes"
	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/domain/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoSession        = errors.New("courses: sign-in required")
	ErrPurchaseInFlight = errors.New("courses: purchase already in progress")
	ErrAlreadyPurchased = errors.New("courses: plan already purchased")
	ErrPlanNotOffered   = errors.New("courses: plan not in the catalog")
)

const (
	msgPlansFailed     = "No se pudieron cargar los planes"
	msgPurchasesFailed = "No se pudieron cargar tus compras"
	msgClassesFailed   = "No se pudieron cargar las clases"
	msgPurchaseOK      = "¡Compra exitosa!"
	msgPurchaseOKDesc  = "Ya tienes acceso al curso. ¡Disfruta aprendiendo!"
	msgPurchaseFailed  = "Error en la compra"
	msgAlreadyOwned    = "Ya tienes este curso"
	msgAlreadyOwnedTip = "Lo encuentras en tu lista de cursos."
	msgNotOffered      = "Curso no disponible"
	msgNotOfferedDesc  = "Este curso ya no está a la venta."
)

type Mode string

const (
	ModeCatalog  Mode = "catalog"
	ModeSchedule Mode = "schedule"
)

type DataService interface {
	ActivePlans(ctx context.Context) ([]plans.Plan, error)
	PurchasesForUser(ctx context.Context, userID string) ([]purchases.Purchase, error)
	InsertPurchase(ctx context.Context, p purchases.Purchase) (purchases.Purchase, error)
	ClassesForPlan(ctx context.Context, planID string) ([]classes.Class, error)
}

// View is the state of one catalog page. It is safe for concurrent use;
// once discarded, late results are dropped.
type View struct {
	data  DataService
	sess  *session.Session
	notes notify.Notifier
	log   *zap.Logger

	mu         sync.Mutex
	plans      []plans.Plan
	purchases  []purchases.Purchase
	purchasing map[string]bool
	mode       Mode
	selected   *plans.Plan
	classes    []classes.Class
	classesFor string
	discarded  bool
}

func NewView(data DataService, sess *session.Session, notes notify.Notifier, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{
		data:       data,
		sess:       sess,
		notes:      notes,
		log:        log,
		plans:      []plans.Plan{},
		purchases:  []purchases.Purchase{},
		purchasing: map[string]bool{},
		mode:       ModeCatalog,
	}
}

// Load reads plans and purchases concurrently. Failures are reported as
// notifications; the returned error is the first one, for callers that
// need a status code.
func (v *View) Load(ctx context.Context) error {
	if v.sess == nil {
		return ErrNoSession
	}

	var g errgroup.Group
	g.Go(func() error { return v.LoadPlans(ctx) })
	g.Go(func() error { return v.LoadPurchases(ctx) })
	return g.Wait()
}

func (v *View) LoadPlans(ctx context.Context) error {
	list, err := v.data.ActivePlans(ctx)
	if err != nil {
		v.log.Warn("load plans", zap.Error(err))
		v.notify(notify.Error, msgPlansFailed, "")
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.discarded {
		v.plans = list
	}
	return nil
}

func (v *View) LoadPurchases(ctx context.Context) error {
	if v.sess == nil {
		return ErrNoSession
	}

	list, err := v.data.PurchasesForUser(ctx, v.sess.User.ID)
	if err != nil {
		v.log.Warn("load purchases", zap.Error(err))
		v.notify(notify.Error, msgPurchasesFailed, "")
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.discarded {
		v.purchases = list
	}
	return nil
}

// Purchase records a completed purchase of planID for the viewer and then
// re-reads purchases. Each plan has its own in-flight flag.
func (v *View) Purchase(ctx context.Context, planID string) error {
	if v.sess == nil {
		return ErrNoSession
	}

	v.mu.Lock()
	if v.purchasing[planID] {
		v.mu.Unlock()
		return ErrPurchaseInFlight
	}
	v.purchasing[planID] = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		delete(v.purchasing, planID)
		v.mu.Unlock()
	}()

	_, err := v.data.InsertPurchase(ctx, purchases.Purchase{
		UserID: v.sess.User.ID,
		PlanID: planID,
		Status: purchases.StatusCompleted,
	})
	switch {
	case isDuplicate(err):
		recordPurchase("duplicate")
		v.notify(notify.Info, msgAlreadyOwned, msgAlreadyOwnedTip)
		_ = v.LoadPurchases(ctx)
		return ErrAlreadyPurchased
	case err != nil:
		recordPurchase("error")
		v.log.Warn("purchase failed", zap.String("plan_id", planID), zap.Error(err))
		v.notify(notify.Error, msgPurchaseFailed, err.Error())
		return err
	}

	recordPurchase("ok")
	v.notify(notify.Success, msgPurchaseOK, msgPurchaseOKDesc)
	_ = v.LoadPurchases(ctx)
	return nil
}

// PurchaseOffered buys planID only when it is one of the loaded catalog
// plans. Inactive and unknown plans are refused with a notification.
func (v *View) PurchaseOffered(ctx context.Context, planID string) error {
	if v.sess == nil {
		return ErrNoSession
	}
	if _, ok := v.plan(planID); !ok {
		recordPurchase("not_offered")
		v.notify(notify.Error, msgNotOffered, msgNotOfferedDesc)
		return ErrPlanNotOffered
	}
	return v.Purchase(ctx, planID)
}

func (v *View) IsPurchased(planID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return purchases.IsPurchased(v.purchases, planID)
}

func (v *View) Purchasing(planID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.purchasing[planID]
}

// SelectPlan enters schedule mode for an owned plan. It does nothing for a
// plan the viewer has not bought. Classes already loaded for the same plan
// are reused.
func (v *View) SelectPlan(ctx context.Context, plan plans.Plan) (bool, error) {
	v.mu.Lock()
	if !purchases.IsPurchased(v.purchases, plan.ID) {
		v.mu.Unlock()
		return false, nil
	}
	if v.classesFor == plan.ID && v.classes != nil {
		v.mode = ModeSchedule
		v.selected = &plan
		v.mu.Unlock()
		return true, nil
	}
	v.mu.Unlock()

	list, err := v.data.ClassesForPlan(ctx, plan.ID)
	if err != nil {
		v.log.Warn("load classes", zap.String("plan_id", plan.ID), zap.Error(err))
		v.notify(notify.Error, msgClassesFailed, "")
		return false, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.discarded {
		return false, nil
	}
	v.classes = list
	v.classesFor = plan.ID
	v.mode = ModeSchedule
	v.selected = &plan
	return true, nil
}

// SelectPlanByID looks planID up among the loaded plans.
func (v *View) SelectPlanByID(ctx context.Context, planID string) (bool, error) {
	plan, ok := v.plan(planID)
	if !ok {
		return false, nil
	}
	return v.SelectPlan(ctx, plan)
}

// Back returns to the catalog. Loaded classes are kept.
func (v *View) Back() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = ModeCatalog
	v.selected = nil
}

// Discard tears the view down; results arriving afterwards are dropped.
func (v *View) Discard() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.discarded = true
}

func (v *View) plan(id string) (plans.Plan, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.plans {
		if p.ID == id {
			return p, true
		}
	}
	return plans.Plan{}, false
}

func (v *View) notify(level notify.Level, title, desc string) {
	v.mu.Lock()
	gone := v.discarded
	v.mu.Unlock()
	if gone || v.notes == nil {
		return
	}
	v.notes.Notify(notify.Notification{Level: level, Title: title, Description: desc})
}
