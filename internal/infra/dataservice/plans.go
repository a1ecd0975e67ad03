package dataservice

import (
	"context"
	"errors"

	"impulsa-web/internal/domain/plans"

	"gorm.io/gorm"
)

// ActivePlans returns active plans, cheapest first.
func (s *Service) ActivePlans(ctx context.Context) ([]plans.Plan, error) {
	var list []plans.Plan
	err := activePlansQuery(s.db.WithContext(ctx)).Find(&list).Error
	if err = translate("plans", "list", err); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) Plan(ctx context.Context, id string) (plans.Plan, error) {
	var p plans.Plan
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return p, translate("plans", "get", err)
}

// UpsertPlanByStripePrice creates or updates the plan bound to the
// plan's Stripe price. It reports whether a new row was created.
func (s *Service) UpsertPlanByStripePrice(ctx context.Context, in plans.Plan) (bool, error) {
	if in.StripePriceID == nil || *in.StripePriceID == "" {
		return false, errors.New("upsert plans: missing stripe price id")
	}

	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing plans.Plan
		err := tx.Where("stripe_price_id = ?", *in.StripePriceID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Updates(map[string]any{
				"name":           in.Name,
				"description":    in.Description,
				"price":          in.Price,
				"duration_weeks": in.DurationWeeks,
				"features":       in.Features,
				"meet_link":      in.MeetLink,
				"is_active":      in.IsActive,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(&in).Error
		default:
			return err
		}
	})
	return created, translate("plans", "upsert", err)
}

// DeactivateMissingStripePlans hides Stripe-backed plans whose price id is
// not in keep. Plans created by hand are left alone.
func (s *Service) DeactivateMissingStripePlans(ctx context.Context, keep []string) (int64, error) {
	q := s.db.WithContext(ctx).Model(&plans.Plan{}).
		Where("stripe_price_id IS NOT NULL").
		Where("is_active = ?", true)
	if len(keep) > 0 {
		q = q.Where("stripe_price_id NOT IN ?", keep)
	}
	res := q.Update("is_active", false)
	return res.RowsAffected, translate("plans", "deactivate", res.Error)
}
