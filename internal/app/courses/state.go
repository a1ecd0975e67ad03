package courses

import (
	"impulsa-web/internal/domain/classes"
	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/domain/session"
)

// State is a copy of a view, safe to hand to templates and encoders.
type State struct {
	User       *session.User
	Plans      []plans.Plan
	Purchases  []purchases.Purchase
	Purchasing map[string]bool
	Mode       Mode
	Selected   *plans.Plan
	Classes    []classes.Class
}

func (s State) Owns(planID string) bool {
	return purchases.IsPurchased(s.Purchases, planID)
}

func (s State) InSchedule() bool {
	return s.Mode == ModeSchedule && s.Selected != nil
}

func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := State{
		Plans:      append([]plans.Plan(nil), v.plans...),
		Purchases:  append([]purchases.Purchase(nil), v.purchases...),
		Purchasing: make(map[string]bool, len(v.purchasing)),
		Mode:       v.mode,
		Classes:    append([]classes.Class(nil), v.classes...),
	}
	if v.sess != nil {
		u := v.sess.User
		st.User = &u
	}
	for id, on := range v.purchasing {
		st.Purchasing[id] = on
	}
	if v.selected != nil {
		sel := *v.selected
		st.Selected = &sel
	}
	return st
}
