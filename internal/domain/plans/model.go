package plans

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plan is a purchasable course. Only active plans are listed in the catalog.
type Plan struct {
	ID            string                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string                      `gorm:"not null" json:"name"`
	Description   string                      `json:"description"`
	Price         float64                     `gorm:"not null;index" json:"price"`
	Features      datatypes.JSONSlice[string] `json:"features"`
	MeetLink      *string                     `gorm:"column:meet_link" json:"meet_link"`
	DurationWeeks int                         `gorm:"not null" json:"duration_weeks"`
	IsActive      bool                        `gorm:"not null;index" json:"is_active"`
	Objectives    datatypes.JSONSlice[string] `json:"objectives"`
	Guidelines    datatypes.JSONSlice[string] `json:"guidelines"`
	StripePriceID *string                     `gorm:"column:stripe_price_id;uniqueIndex:idx_plans_stripe_price_id" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p Plan) HasMeetLink() bool {
	return p.MeetLink != nil && *p.MeetLink != ""
}
