package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StepStatus string

const (
	StepStatusLocked    StepStatus = "locked"
	StepStatusUnlocked  StepStatus = "unlocked"
	StepStatusReview    StepStatus = "review"
	StepStatusFinalized StepStatus = "finalized"
)

type ActionOn string

const (
	ActionOnClient       ActionOn = "client"
	ActionOnPhotographer ActionOn = "photographer"
)

type PortalStep struct {
	PortalStepID uuid.UUID  `json:"portal_step_id"`
	ListID       *uuid.UUID `json:"list_id,omitempty"`
	Title        string     `json:"title"`
	StepStatus   StepStatus `json:"step_status"`
	ActionOn     ActionOn   `json:"action_on"`
	StepNumber   int        `json:"step_number"`
}

type Portal struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex;column:project_id" json:"project_id"`
	IsSetup              bool           `gorm:"not null;default:false;column:is_setup" json:"is_setup"`
	IsEnabled            bool           `gorm:"not null;default:false;column:is_enabled" json:"is_enabled"`
	Steps                datatypes.JSON `gorm:"type:jsonb;column:steps" json:"steps"`
	TotalSteps           int            `gorm:"not null;default:0;column:total_steps" json:"total_steps"`
	CompletedSteps       int            `gorm:"not null;default:0;column:completed_steps" json:"completed_steps"`
	CompletionPercentage float64        `gorm:"not null;default:0;column:completion_percentage" json:"completion_percentage"`
	ExpiresAt            *time.Time     `gorm:"column:expires_at" json:"expires_at,omitempty"`
	AccessToken          string         `gorm:"column:access_token" json:"-"`
	PortalURL            string         `gorm:"column:portal_url" json:"portal_url"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Portal) TableName() string {
	return "portal"
}

func (p *Portal) DecodeSteps() ([]PortalStep, error) {
	if len(p.Steps) == 0 {
		return nil, nil
	}
	var steps []PortalStep
	if err := json.Unmarshal(p.Steps, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (p *Portal) SetSteps(steps []PortalStep) error {
	raw, err := json.Marshal(steps)
	if err != nil {
		return err
	}
	p.Steps = datatypes.JSON(raw)
	p.TotalSteps = len(steps)
	return nil
}

// Expired is a pure predicate. Nothing fires on expiry; callers check it when
// they care.
func (p *Portal) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}
