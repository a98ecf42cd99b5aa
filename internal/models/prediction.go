package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Prediction is a stored risk assessment result. RiskLevel is derived
// from RiskScore when the record is created and never edited.
type Prediction struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	Name         string         `json:"name"`
	Age          int            `gorm:"not null" json:"age"`
	BMI          float64        `json:"bmi"`
	RiskScore    float64        `gorm:"not null" json:"risk_score"`
	RiskLevel    string         `gorm:"size:16;not null" json:"risk_level"`
	Contributors pq.StringArray `gorm:"type:text[]" json:"contributors"`
	Inputs       JSON           `gorm:"type:jsonb" json:"inputs,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns a random ID when none was set.
func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
