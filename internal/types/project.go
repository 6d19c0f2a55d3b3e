package types

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID  uuid.UUID  `gorm:"type:uuid;not null;index;column:owner_user_id" json:"owner_user_id"`
	Name         string     `gorm:"not null;column:name" json:"name"`
	CoupleNames  string     `gorm:"column:couple_names" json:"couple_names"`
	WeddingDate  *time.Time `gorm:"column:wedding_date" json:"wedding_date,omitempty"`
	VenueAddress string     `gorm:"column:venue_address" json:"venue_address"`
	VenueLat     float64    `gorm:"column:venue_lat" json:"venue_lat"`
	VenueLng     float64    `gorm:"column:venue_lng" json:"venue_lng"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Project) TableName() string {
	return "project"
}
