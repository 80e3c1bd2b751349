package dto

import (
	"github.com/google/uuid"

	eventModel "eventhub_backend/internals/features/events/event/model"
	"eventhub_backend/internals/features/events/participant/model"
	paymentModel "eventhub_backend/internals/features/payments/payment/model"
	userModel "eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
)

type JoinEventRequest struct {
	EventID uuid.UUID `json:"eventId" validate:"required"`
}

// UpdateParticipantRequest: participants may only send CANCELLED, hosts only
// REJECTED.
type UpdateParticipantRequest struct {
	JoinStatus string `json:"joinStatus" validate:"required,oneof=CANCELLED REJECTED"`
}

type JoinEventResponse struct {
	Participant *model.EventParticipant `json:"participant"`
	// set for paid events
	Payment *paymentModel.Payment `json:"payment,omitempty"`
}

/* ===========================
   List filter
   =========================== */

var paymentStatuses = []string{
	paymentModel.StatusPending, paymentModel.StatusPaid, paymentModel.StatusFailed,
	paymentModel.StatusCancelled, paymentModel.StatusRejected,
}

// ParticipantFilterSpec columns are qualified with the aliases of the list
// query: u (participant), e (event), hu (host user).
var ParticipantFilterSpec = helper.FilterSpec{
	SearchColumns: []string{"u.name", "u.email", "hu.name", "hu.email", "e.title"},
	Fields: []helper.FilterField{
		{Param: "event.category", Column: "e.category", Kind: helper.FilterExact},
		{Param: "event.status", Column: "e.status", Kind: helper.FilterEnum, Allowed: eventModel.Statuses},
		{Param: "user.gender", Column: "u.gender", Kind: helper.FilterEnum, Allowed: []string{
			string(userModel.GenderMale), string(userModel.GenderFemale),
		}},
		{Param: "joinStatus", Column: "event_participants.join_status", Kind: helper.FilterEnum, Allowed: model.JoinStatuses},
		{Param: "paymentStatus", Column: "event_participants.payment_status", Kind: helper.FilterEnum, Allowed: paymentStatuses},
		{Param: "eventId", Column: "event_participants.event_id", Kind: helper.FilterUUID},
	},
}

var ParticipantSortColumns = map[string]string{
	"createdAt":     "event_participants.created_at",
	"updatedAt":     "event_participants.updated_at",
	"joinStatus":    "event_participants.join_status",
	"paymentStatus": "event_participants.payment_status",
	"eventDate":     "e.date",
	"eventTitle":    "e.title",
	"userName":      "u.name",
}
