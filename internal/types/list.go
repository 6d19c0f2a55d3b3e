package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ListType string

const (
	ListTypeTasks         ListType = "tasks"
	ListTypeKit           ListType = "kit"
	ListTypeShots         ListType = "shots"
	ListTypeVendors       ListType = "vendors"
	ListTypeNotes         ListType = "notes"
	ListTypeTags          ListType = "tags"
	ListTypeKeyPeople     ListType = "key_people"
	ListTypePhotoRequests ListType = "photo_requests"
	ListTypeTimeline      ListType = "timeline"
)

// AllListTypes is the seeding order for a new project.
var AllListTypes = []ListType{
	ListTypeTasks,
	ListTypeKit,
	ListTypeShots,
	ListTypeVendors,
	ListTypeNotes,
	ListTypeTags,
	ListTypeKeyPeople,
	ListTypePhotoRequests,
	ListTypeTimeline,
}

type ListStatus string

const (
	ListStatusActive    ListStatus = "active"
	ListStatusFinalized ListStatus = "finalized"
	ListStatusArchived  ListStatus = "archived"
)

const (
	MaxItemsPerList     = 500
	MaxItemsPerCategory = 100
)

type ImageStatus string

const (
	ImageStatusPending  ImageStatus = "pending"
	ImageStatusUploaded ImageStatus = "uploaded"
	ImageStatusRejected ImageStatus = "rejected"
)

// Item is the base item shape shared by every list type. The optional fields
// are only populated for the list types that use them: Quantity for kit,
// PoseNotes for shots, ImageURL/ImageStatus for photo requests, Avatar/IsVIP
// for key people.
type Item struct {
	ID              uuid.UUID   `json:"id"`
	ItemName        string      `json:"item_name"`
	ItemDescription string      `json:"item_description,omitempty"`
	CategoryID      *uuid.UUID  `json:"category_id,omitempty"`
	IsCustom        bool        `json:"is_custom"`
	IsChecked       bool        `json:"is_checked"`
	IsDisabled      bool        `json:"is_disabled"`
	Quantity        int         `json:"quantity,omitempty"`
	PoseNotes       string      `json:"pose_notes,omitempty"`
	ImageURL        string      `json:"image_url,omitempty"`
	ImageStatus     ImageStatus `json:"image_status,omitempty"`
	Avatar          string      `json:"avatar,omitempty"`
	IsVIP           bool        `json:"is_vip,omitempty"`
}

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ItemUpdate is a sparse patch merged into an existing item by ID. Nil fields
// are left untouched.
type ItemUpdate struct {
	ID              uuid.UUID    `json:"id"`
	ItemName        *string      `json:"item_name,omitempty"`
	ItemDescription *string      `json:"item_description,omitempty"`
	CategoryID      *uuid.UUID   `json:"category_id,omitempty"`
	IsChecked       *bool        `json:"is_checked,omitempty"`
	IsDisabled      *bool        `json:"is_disabled,omitempty"`
	Quantity        *int         `json:"quantity,omitempty"`
	PoseNotes       *string      `json:"pose_notes,omitempty"`
	ImageURL        *string      `json:"image_url,omitempty"`
	ImageStatus     *ImageStatus `json:"image_status,omitempty"`
	Avatar          *string      `json:"avatar,omitempty"`
	IsVIP           *bool        `json:"is_vip,omitempty"`
}

// List is stored as config columns plus JSONB document columns for items and
// categories, mirroring the collection/subcollection layout of the hosted
// document store it replaces.
type List struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index;column:project_id" json:"project_id"`
	Type        ListType       `gorm:"not null;column:type" json:"type"`
	Status      ListStatus     `gorm:"not null;default:'active';column:status" json:"status"`
	TotalItems  int            `gorm:"not null;default:0;column:total_items" json:"total_items"`
	Version     int            `gorm:"not null;default:1;column:version" json:"version"`
	IsFinalized bool           `gorm:"not null;default:false;column:is_finalized" json:"is_finalized"`
	Items       datatypes.JSON `gorm:"type:jsonb;column:items" json:"items"`
	Categories  datatypes.JSON `gorm:"type:jsonb;column:categories" json:"categories"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (List) TableName() string {
	return "list"
}

func (l *List) DecodeItems() ([]Item, error) {
	if len(l.Items) == 0 {
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal(l.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (l *List) DecodeCategories() ([]Category, error) {
	if len(l.Categories) == 0 {
		return nil, nil
	}
	var cats []Category
	if err := json.Unmarshal(l.Categories, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (l *List) SetItems(items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	l.Items = datatypes.JSON(raw)
	l.TotalItems = len(items)
	return nil
}

func (l *List) SetCategories(cats []Category) error {
	raw, err := json.Marshal(cats)
	if err != nil {
		return err
	}
	l.Categories = datatypes.JSON(raw)
	return nil
}
