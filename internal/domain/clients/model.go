package clients

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Client is a case study shown on the showcase page.
type Client struct {
	ID                    string         `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName           string         `gorm:"not null" json:"company_name"`
	Industry              string         `json:"industry"`
	ServiceType           string         `json:"service_type"`
	ProjectDescription    string         `json:"project_description"`
	InitialMetrics        datatypes.JSON `json:"initial_metrics"`
	FinalMetrics          datatypes.JSON `json:"final_metrics"`
	ImprovementPercentage float64        `gorm:"not null;index" json:"improvement_percentage"`
	ProjectDurationMonths int            `json:"project_duration_months"`
	Testimonial           string         `json:"testimonial"`
	ClientLogoURL         *string        `gorm:"column:client_logo_url" json:"client_logo_url"`
	Featured              bool           `gorm:"not null" json:"featured"`

	CreatedAt time.Time `json:"-"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Initial decodes the stored initial metrics. Malformed JSON yields an empty set.
func (c Client) Initial() Metrics {
	m, _ := ParseMetrics(c.InitialMetrics)
	return m
}

func (c Client) Final() Metrics {
	m, _ := ParseMetrics(c.FinalMetrics)
	return m
}
