package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Host is the secondary profile a user gets on their first event.
type Host struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_hosts_user_id" json:"userId"`
	Rating            float64   `gorm:"not null;default:0" json:"rating"`
	TotalEventsHosted int       `gorm:"not null;default:0" json:"totalEventsHosted"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Host) TableName() string { return "hosts" }

func (h *Host) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
