package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment statuses, shared with EventParticipant.PaymentStatus.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
	StatusRejected  = "REJECTED"
)

type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_payments_user_event,priority:1" json:"userId"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;index:idx_payments_user_event,priority:2" json:"eventId"`
	Amount        float64   `gorm:"not null" json:"amount"`
	TransactionID string    `gorm:"size:64;not null;uniqueIndex:uq_payments_transaction_id" json:"transactionId"`
	PaymentStatus string    `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_payments_status" json:"paymentStatus"`

	// hosted checkout page of the latest init
	PaymentURL  *string           `gorm:"type:text" json:"paymentUrl,omitempty"`
	GatewayData datatypes.JSONMap `json:"gatewayData,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_payments_created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
