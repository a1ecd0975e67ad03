package courses

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"impulsa-web/internal/app/notify"
	"impulsa-web/internal/domain/classes"
	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/domain/session"
	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ana = &session.Session{User: session.User{ID: "user-1", Email: "ana@example.com"}}

type fakeData struct {
	ActivePlansFunc      func(ctx context.Context) ([]plans.Plan, error)
	PurchasesForUserFunc func(ctx context.Context, userID string) ([]purchases.Purchase, error)
	InsertPurchaseFunc   func(ctx context.Context, p purchases.Purchase) (purchases.Purchase, error)
	ClassesForPlanFunc   func(ctx context.Context, planID string) ([]classes.Class, error)

	mu           sync.Mutex
	classFetches int
}

func (f *fakeData) ActivePlans(ctx context.Context) ([]plans.Plan, error) {
	return f.ActivePlansFunc(ctx)
}

func (f *fakeData) PurchasesForUser(ctx context.Context, userID string) ([]purchases.Purchase, error) {
	return f.PurchasesForUserFunc(ctx, userID)
}

func (f *fakeData) InsertPurchase(ctx context.Context, p purchases.Purchase) (purchases.Purchase, error) {
	return f.InsertPurchaseFunc(ctx, p)
}

func (f *fakeData) ClassesForPlan(ctx context.Context, planID string) ([]classes.Class, error) {
	f.mu.Lock()
	f.classFetches++
	f.mu.Unlock()
	return f.ClassesForPlanFunc(ctx, planID)
}

func seedPlans(t *testing.T, svc *dataservice.Service) (cheap, pricey plans.Plan) {
	t.Helper()
	cheap = plans.Plan{Name: "Redes Sociales", Price: 100, IsActive: true, DurationWeeks: 4}
	pricey = plans.Plan{Name: "Estrategia Digital", Price: 200, IsActive: true, DurationWeeks: 8}
	hidden := plans.Plan{Name: "Retirado", Price: 50, IsActive: false}
	for _, p := range []*plans.Plan{&pricey, &hidden, &cheap} {
		require.NoError(t, svc.DB().Create(p).Error)
	}
	return cheap, pricey
}

func TestLoadRequiresSession(t *testing.T) {
	v := NewView(&fakeData{}, nil, &notify.Collector{}, nil)
	assert.ErrorIs(t, v.Load(context.Background()), ErrNoSession)
	assert.ErrorIs(t, v.Purchase(context.Background(), "plan"), ErrNoSession)
}

func TestCatalogExcludesInactivePlans(t *testing.T) {
	svc := dataservice.New(testutil.OpenDB(t))
	seedPlans(t, svc)

	v := NewView(svc, ana, &notify.Collector{}, nil)
	require.NoError(t, v.Load(context.Background()))

	for _, p := range v.Snapshot().Plans {
		assert.True(t, p.IsActive, p.Name)
	}
}

func TestPurchaseMakesPlanOwned(t *testing.T) {
	ctx := context.Background()
	svc := dataservice.New(testutil.OpenDB(t))
	cheap, pricey := seedPlans(t, svc)
	notes := &notify.Collector{}

	v := NewView(svc, ana, notes, nil)
	require.NoError(t, v.Load(ctx))

	st := v.Snapshot()
	require.Len(t, st.Plans, 2)
	assert.Equal(t, 100.0, st.Plans[0].Price)
	assert.Equal(t, 200.0, st.Plans[1].Price)
	assert.False(t, v.IsPurchased(cheap.ID))

	require.NoError(t, v.Purchase(ctx, cheap.ID))

	assert.True(t, v.IsPurchased(cheap.ID))
	assert.False(t, v.IsPurchased(pricey.ID))
	assert.False(t, v.Purchasing(cheap.ID))

	got := notes.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, notify.Success, got[0].Level)
	assert.Equal(t, "¡Compra exitosa!", got[0].Title)
}

func TestPurchaseTwiceReportsAlreadyOwned(t *testing.T) {
	ctx := context.Background()
	svc := dataservice.New(testutil.OpenDB(t))
	cheap, _ := seedPlans(t, svc)
	notes := &notify.Collector{}

	v := NewView(svc, ana, notes, nil)
	require.NoError(t, v.Load(ctx))
	require.NoError(t, v.Purchase(ctx, cheap.ID))
	notes.Drain()

	// a second view of the same user, opened before the first purchase
	stale := NewView(svc, ana, notes, nil)
	assert.ErrorIs(t, stale.Purchase(ctx, cheap.ID), ErrAlreadyPurchased)
	assert.True(t, stale.IsPurchased(cheap.ID))

	got := notes.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, notify.Info, got[0].Level)

	list, err := svc.PurchasesForUser(ctx, ana.User.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPurchaseFailureKeepsState(t *testing.T) {
	refreshed := false
	data := &fakeData{
		InsertPurchaseFunc: func(context.Context, purchases.Purchase) (purchases.Purchase, error) {
			return purchases.Purchase{}, errors.New("permission denied")
		},
		PurchasesForUserFunc: func(context.Context, string) ([]purchases.Purchase, error) {
			refreshed = true
			return nil, nil
		},
	}
	notes := &notify.Collector{}

	v := NewView(data, ana, notes, nil)
	err := v.Purchase(context.Background(), "plan-1")

	require.Error(t, err)
	assert.False(t, refreshed)
	assert.False(t, v.IsPurchased("plan-1"))
	assert.False(t, v.Purchasing("plan-1"))

	got := notes.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, notify.Error, got[0].Level)
	assert.Equal(t, "permission denied", got[0].Description)
}

func TestPurchaseFlagsArePerPlan(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 2)
	data := &fakeData{
		InsertPurchaseFunc: func(_ context.Context, p purchases.Purchase) (purchases.Purchase, error) {
			started <- p.PlanID
			<-release
			return p, nil
		},
		PurchasesForUserFunc: func(context.Context, string) ([]purchases.Purchase, error) {
			return nil, nil
		},
	}

	v := NewView(data, ana, &notify.Collector{}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"plan-a", "plan-b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, v.Purchase(ctx, id))
		}(id)
	}
	<-started
	<-started

	assert.True(t, v.Purchasing("plan-a"))
	assert.True(t, v.Purchasing("plan-b"))
	assert.ErrorIs(t, v.Purchase(ctx, "plan-a"), ErrPurchaseInFlight)

	close(release)
	wg.Wait()
	assert.False(t, v.Purchasing("plan-a"))
	assert.False(t, v.Purchasing("plan-b"))
}

func TestReadFailuresNotify(t *testing.T) {
	data := &fakeData{
		ActivePlansFunc: func(context.Context) ([]plans.Plan, error) {
			return nil, errors.New("timeout")
		},
		PurchasesForUserFunc: func(context.Context, string) ([]purchases.Purchase, error) {
			return nil, errors.New("timeout")
		},
	}
	notes := &notify.Collector{}

	v := NewView(data, ana, notes, nil)
	assert.Error(t, v.Load(context.Background()))

	st := v.Snapshot()
	assert.Empty(t, st.Plans)
	assert.Equal(t, ModeCatalog, st.Mode)

	titles := []string{}
	for _, n := range notes.Drain() {
		assert.Equal(t, notify.Error, n.Level)
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"No se pudieron cargar los planes", "No se pudieron cargar tus compras"}, titles)
}

func TestSelectUnpurchasedPlanIsNoop(t *testing.T) {
	data := &fakeData{
		PurchasesForUserFunc: func(context.Context, string) ([]purchases.Purchase, error) {
			return []purchases.Purchase{{PlanID: "plan-1", Status: "pending"}}, nil
		},
		ClassesForPlanFunc: func(context.Context, string) ([]classes.Class, error) {
			return nil, nil
		},
	}

	v := NewView(data, ana, &notify.Collector{}, nil)
	require.NoError(t, v.LoadPurchases(context.Background()))

	ok, err := v.SelectPlan(context.Background(), plans.Plan{ID: "plan-1"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ModeCatalog, v.Snapshot().Mode)
	assert.Equal(t, 0, data.classFetches)
}

func TestSelectPlanReusesClasses(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 2, 3, 19, 0, 0, 0, time.UTC)
	data := &fakeData{
		PurchasesForUserFunc: func(context.Context, string) ([]purchases.Purchase, error) {
			return []purchases.Purchase{{PlanID: "plan-1", Status: purchases.StatusCompleted}}, nil
		},
		ClassesForPlanFunc: func(context.Context, string) ([]classes.Class, error) {
			return []classes.Class{
				{ID: "c1", PlanID: "plan-1", ClassName: "Fundamentos", ClassDate: base},
				{ID: "c2", PlanID: "plan-1", ClassName: "Contenido", ClassDate: base.AddDate(0, 0, 7)},
			}, nil
		},
	}

	v := NewView(data, ana, &notify.Collector{}, nil)
	require.NoError(t, v.LoadPurchases(ctx))
	plan := plans.Plan{ID: "plan-1", Name: "Redes Sociales"}

	ok, err := v.SelectPlan(ctx, plan)
	require.NoError(t, err)
	require.True(t, ok)
	first := v.Snapshot()
	assert.True(t, first.InSchedule())
	assert.Equal(t, "Redes Sociales", first.Selected.Name)

	v.Back()
	back := v.Snapshot()
	assert.Equal(t, ModeCatalog, back.Mode)
	assert.Nil(t, back.Selected)
	assert.Len(t, back.Classes, 2)

	ok, err = v.SelectPlan(ctx, plan)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.Classes, v.Snapshot().Classes)
	assert.Equal(t, 1, data.classFetches)
}

func TestSelectPlanClassFailure(t *testing.T) {
	data := &fakeData{
		PurchasesForUserFunc: func(context.Context, string) ([]purchases.Purchase, error) {
			return []purchases.Purchase{{PlanID: "plan-1", Status: purchases.StatusCompleted}}, nil
		},
		ClassesForPlanFunc: func(context.Context, string) ([]classes.Class, error) {
			return nil, errors.New("offline")
		},
	}
	notes := &notify.Collector{}

	v := NewView(data, ana, notes, nil)
	require.NoError(t, v.LoadPurchases(context.Background()))

	ok, err := v.SelectPlan(context.Background(), plans.Plan{ID: "plan-1"})
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, ModeCatalog, v.Snapshot().Mode)
	assert.True(t, notes.HasErrors())
}

func TestSelectPlanByIDUnknown(t *testing.T) {
	v := NewView(&fakeData{}, ana, &notify.Collector{}, nil)

	ok, err := v.SelectPlanByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiscardDropsLateResults(t *testing.T) {
	release := make(chan struct{})
	data := &fakeData{
		ActivePlansFunc: func(context.Context) ([]plans.Plan, error) {
			<-release
			return []plans.Plan{{ID: "plan-1", Price: 100, IsActive: true}}, nil
		},
	}
	notes := &notify.Collector{}

	v := NewView(data, ana, notes, nil)
	done := make(chan error, 1)
	go func() { done <- v.LoadPlans(context.Background()) }()

	v.Discard()
	close(release)
	require.NoError(t, <-done)

	assert.Empty(t, v.Snapshot().Plans)
	assert.Empty(t, notes.Drain())
}

func TestPurchaseOfferedRefusesPlansOutsideCatalog(t *testing.T) {
	ctx := context.Background()
	svc := dataservice.New(testutil.OpenDB(t))
	cheap, _ := seedPlans(t, svc)
	var hidden plans.Plan
	require.NoError(t, svc.DB().Where("is_active = ?", false).First(&hidden).Error)
	notes := &notify.Collector{}

	v := NewView(svc, ana, notes, nil)
	require.NoError(t, v.Load(ctx))

	for _, id := range []string{hidden.ID, "does-not-exist"} {
		assert.ErrorIs(t, v.PurchaseOffered(ctx, id), ErrPlanNotOffered, id)
		got := notes.Drain()
		require.Len(t, got, 1)
		assert.Equal(t, notify.Error, got[0].Level)
		assert.Equal(t, "Curso no disponible", got[0].Title)
	}

	list, err := svc.PurchasesForUser(ctx, ana.User.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, v.PurchaseOffered(ctx, cheap.ID))
	assert.True(t, v.IsPurchased(cheap.ID))
}
