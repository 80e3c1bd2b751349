package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;uniqueIndex:uq_users_email" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	Role   string `gorm:"type:varchar(20);not null;default:'USER';index:idx_users_role" json:"role"`
	Status string `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`

	// profile
	Gender        *Gender    `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Dob           *time.Time `json:"dob,omitempty"`
	ProfileImage  *string    `gorm:"type:text" json:"profileImage,omitempty"`
	ContactNumber *string    `gorm:"size:30" json:"contactNumber,omitempty"`
	Address       *string    `gorm:"type:text" json:"address,omitempty"`
	Bio           *string    `gorm:"type:text" json:"bio,omitempty"`

	IsHost     bool `gorm:"not null;default:false" json:"isHost"`
	IsVerified bool `gorm:"not null;default:false" json:"isVerified"`
	IsDeleted  bool `gorm:"not null;default:false;index:idx_users_is_deleted" json:"isDeleted"`

	Host *Host `gorm:"foreignKey:UserID" json:"host,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_users_created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BlockReason explains why the account may not sign in, "" when it may.
func (u *User) BlockReason() string {
	switch {
	case u.Status == constants.UserStatusInactive || u.Status == constants.UserStatusBlocked:
		return "User is " + u.Status
	case u.IsDeleted:
		return "User is deleted"
	}
	return ""
}
