package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "eventhub_backend/internals/features/events/event/model"
	userModel "eventhub_backend/internals/features/users/user/model"
)

const (
	JoinPending   = "PENDING"
	JoinApproved  = "APPROVED"
	JoinCancelled = "CANCELLED"
	JoinRejected  = "REJECTED"
)

var JoinStatuses = []string{JoinPending, JoinApproved, JoinCancelled, JoinRejected}

// EventParticipant is one user's participation in one event. PaymentStatus
// takes the payment model's status values.
type EventParticipant struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_event_participants_event_user,priority:1" json:"eventId"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_event_participants_event_user,priority:2;index:idx_event_participants_user_id" json:"userId"`
	// copied from the event, used for authorization
	HostID uuid.UUID `gorm:"type:uuid;not null;index:idx_event_participants_host_id" json:"hostId"`

	JoinStatus    string `gorm:"type:varchar(20);not null;default:'PENDING'" json:"joinStatus"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'PENDING'" json:"paymentStatus"`

	User  *userModel.User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event *eventModel.Event `gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT" json:"event,omitempty"`
	Host  *userModel.Host   `gorm:"foreignKey:HostID" json:"host,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (EventParticipant) TableName() string { return "event_participants" }

func (p *EventParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HoldsSeat reports whether the participation counts toward totalParticipants.
func (p *EventParticipant) HoldsSeat() bool { return p.JoinStatus == JoinApproved }
