package plans

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceFunc func() ([]plans.Plan, int, error)

func (f sourceFunc) CoursePlans() ([]plans.Plan, int, error) { return f() }

func stripePlan(name, priceID string, price float64) plans.Plan {
	id := priceID
	return plans.Plan{Name: name, Price: price, IsActive: true, DurationWeeks: 4, StripePriceID: &id}
}

func TestSync(t *testing.T) {
	svc := dataservice.New(testutil.OpenDB(t))
	ctx := context.Background()

	first := sourceFunc(func() ([]plans.Plan, int, error) {
		return []plans.Plan{stripePlan("Redes", "price_a", 100), stripePlan("Ads", "price_b", 200)}, 3, nil
	})
	res, err := Sync(ctx, first, svc)
	require.NoError(t, err)
	assert.Equal(t, Result{Synced: 2, Created: 2, Skipped: 3}, res)

	second := sourceFunc(func() ([]plans.Plan, int, error) {
		return []plans.Plan{stripePlan("Redes Pro", "price_a", 120)}, 0, nil
	})
	res, err = Sync(ctx, second, svc)
	require.NoError(t, err)
	assert.Equal(t, Result{Synced: 1, Updated: 1, Deactivated: 1}, res)

	list, err := svc.ActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Redes Pro", list[0].Name)
	assert.Equal(t, 120.0, list[0].Price)
}

func TestSyncHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := dataservice.New(testutil.OpenDB(t))

	call := func(h *Handler) *httptest.ResponseRecorder {
		r := gin.New()
		r.POST("/admin/sync-plans", h.SyncPlansFromStripe)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/sync-plans", nil))
		return w
	}

	assert.Equal(t, http.StatusInternalServerError, call(NewHandler(nil, svc)).Code)

	failing := sourceFunc(func() ([]plans.Plan, int, error) { return nil, 0, errors.New("stripe down") })
	assert.Equal(t, http.StatusInternalServerError, call(NewHandler(failing, svc)).Code)

	ok := sourceFunc(func() ([]plans.Plan, int, error) { return []plans.Plan{stripePlan("Redes", "price_a", 100)}, 1, nil })
	w := call(NewHandler(ok, svc))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"synced":1,"created":1,"updated":0,"skipped":1,"deactivated":0}`, w.Body.String())
}
