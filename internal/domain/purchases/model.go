package purchases

import (
	"time"

	"impulsa-web/internal/domain/plans"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusCompleted is the only status that grants access. Other values
// (refunds, manual holds) are stored as given and never unlock a plan.
const StatusCompleted = "completed"

// Purchase links a user to a plan. (user_id, plan_id) is unique.
type Purchase struct {
	ID     string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string      `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_user_plan" json:"user_id"`
	PlanID string      `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_user_plan" json:"plan_id"`
	Plan   *plans.Plan `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Status string      `gorm:"type:varchar(20);not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p Purchase) Completed() bool {
	return p.Status == StatusCompleted
}

// IsPurchased reports whether list holds a completed purchase of planID.
func IsPurchased(list []Purchase, planID string) bool {
	for _, p := range list {
		if p.PlanID == planID && p.Completed() {
			return true
		}
	}
	return false
}
