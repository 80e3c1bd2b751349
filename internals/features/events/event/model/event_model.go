package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	userModel "eventhub_backend/internals/features/users/user/model"
)

const (
	StatusOpen      = "OPEN"
	StatusFull      = "FULL"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

var Statuses = []string{StatusOpen, StatusFull, StatusCancelled, StatusCompleted}

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:220;not null;uniqueIndex:uq_events_slug" json:"slug"`
	Category    string    `gorm:"size:100;not null;index:idx_events_category" json:"category"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`
	Time        string    `gorm:"size:20;not null" json:"time"`
	Location    string    `gorm:"size:255;not null" json:"location"`

	MinParticipants   int     `gorm:"not null;default:1" json:"minParticipants"`
	MaxParticipants   int     `gorm:"not null;default:1" json:"maxParticipants"`
	TotalParticipants int     `gorm:"not null;default:0;check:chk_events_capacity,total_participants <= max_participants" json:"totalParticipants"`
	Fee               float64 `gorm:"not null;default:0" json:"fee"`

	Images datatypes.JSONSlice[string] `json:"images"`
	Status string                      `gorm:"type:varchar(20);not null;default:'OPEN';index:idx_events_status" json:"status"`

	HostID uuid.UUID       `gorm:"type:uuid;not null;index:idx_events_host_id" json:"hostId"`
	Host   *userModel.Host `gorm:"foreignKey:HostID;constraint:OnDelete:RESTRICT" json:"host,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_events_created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Images == nil {
		e.Images = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (e *Event) IsFree() bool { return e.Fee == 0 }

// Joinable is false for FULL, CANCELLED and COMPLETED events.
func (e *Event) Joinable() bool { return e.Status == StatusOpen }
