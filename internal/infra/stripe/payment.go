package stripe

import (
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v75"
)

const (
	MetaUserID = "user_id"
	MetaPlanID = "plan_id"
)

// PaymentState normalizes a checkout session's payment status to
// "paid", "unpaid" or "pending".
func PaymentState(s *stripe.CheckoutSession) string {
	if s == nil {
		return "unpaid"
	}
	switch s.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return "paid"
	case stripe.CheckoutSessionPaymentStatusUnpaid:
		if s.Status == stripe.CheckoutSessionStatusOpen {
			return "pending"
		}
		return "unpaid"
	default:
		return strings.TrimSpace(string(s.PaymentStatus))
	}
}

// PurchaseRef returns the user and plan a checkout session was opened for.
// The user falls back to client_reference_id.
func PurchaseRef(s *stripe.CheckoutSession) (userID, planID string, err error) {
	if s == nil {
		return "", "", errors.New("nil checkout session")
	}
	if s.Metadata != nil {
		userID = s.Metadata[MetaUserID]
		planID = s.Metadata[MetaPlanID]
	}
	if userID == "" {
		userID = s.ClientReferenceID
	}
	if userID == "" {
		return "", "", errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}
	if planID == "" {
		return "", "", errors.New("missing metadata.plan_id")
	}
	return userID, planID, nil
}
