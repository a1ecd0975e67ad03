package classes

import (
	"time"

	"impulsa-web/internal/domain/plans"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Class is one scheduled session of a plan.
type Class struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID      string      `gorm:"type:uuid;not null;index:idx_classes_plan_date" json:"plan_id"`
	Plan        *plans.Plan `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ClassName   string      `gorm:"not null" json:"class_name"`
	ClassDate   time.Time   `gorm:"not null;index:idx_classes_plan_date" json:"class_date"`
	TeacherName string      `json:"teacher_name"`
	MeetLink    string      `json:"meet_link"`
	Description *string     `json:"description"`

	CreatedAt time.Time `json:"-"`
}

func (c *Class) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
