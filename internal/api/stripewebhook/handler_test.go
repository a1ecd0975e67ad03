package stripewebhooks

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75/webhook"
)

const secret = "whsec_test"

func post(t *testing.T, h *Handler, payload string, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", h.StripeWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(payload))
	if sign {
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(payload), Secret: secret})
		req.Header.Set("Stripe-Signature", signed.Header)
	} else {
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkoutEvent(paymentStatus, userID, planID string) string {
	return `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{` +
		`"id":"cs_test_1","object":"checkout.session","status":"complete","payment_status":"` + paymentStatus + `",` +
		`"metadata":{"user_id":"` + userID + `","plan_id":"` + planID + `"}}}}`
}

func TestWebhookRecordsPaidCheckout(t *testing.T) {
	svc := dataservice.New(testutil.OpenDB(t))
	plan := plans.Plan{Name: "Redes", Price: 100, IsActive: true}
	require.NoError(t, svc.DB().Create(&plan).Error)
	userID := "7d3c8a52-0000-4000-8000-000000000001"

	h := NewHandler(secret, svc)

	w := post(t, h, checkoutEvent("paid", userID, plan.ID), true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"received"}`, w.Body.String())

	// redelivery is harmless
	w = post(t, h, checkoutEvent("paid", userID, plan.ID), true)
	require.Equal(t, http.StatusOK, w.Code)

	list, err := svc.PurchasesForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, purchases.StatusCompleted, list[0].Status)
}

func TestWebhookSkipsUnpaidAndUnknown(t *testing.T) {
	svc := dataservice.New(testutil.OpenDB(t))
	h := NewHandler(secret, svc)

	w := post(t, h, checkoutEvent("unpaid", "u1", "p1"), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, w.Body.String())

	w = post(t, h, `{"id":"evt_2","object":"event","type":"invoice.paid","data":{"object":{}}}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, w.Body.String())
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := NewHandler(secret, dataservice.New(testutil.OpenDB(t)))
	assert.Equal(t, http.StatusBadRequest, post(t, h, checkoutEvent("paid", "u1", "p1"), false).Code)

	assert.Equal(t, http.StatusInternalServerError, post(t, NewHandler("", nil), "{}", true).Code)
}

func TestWebhookMissingMetadata(t *testing.T) {
	h := NewHandler(secret, dataservice.New(testutil.OpenDB(t)))
	w := post(t, h, checkoutEvent("paid", "", "p1"), true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
