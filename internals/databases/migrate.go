package database

import (
	"gorm.io/gorm"

	eventModel "eventhub_backend/internals/features/events/event/model"
	participantModel "eventhub_backend/internals/features/events/participant/model"
	paymentModel "eventhub_backend/internals/features/payments/payment/model"
	userModel "eventhub_backend/internals/features/users/user/model"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&userModel.User{},
		&userModel.Host{},
		&eventModel.Event{},
		&participantModel.EventParticipant{},
		&paymentModel.Payment{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
