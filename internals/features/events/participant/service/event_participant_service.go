package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventhub_backend/internals/constants"
	eventModel "eventhub_backend/internals/features/events/event/model"
	"eventhub_backend/internals/features/events/participant/dto"
	"eventhub_backend/internals/features/events/participant/model"
	paymentModel "eventhub_backend/internals/features/payments/payment/model"
	paymentService "eventhub_backend/internals/features/payments/payment/service"
	userModel "eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

type EventParticipantService struct {
	db *gorm.DB
}

func NewEventParticipantService(db *gorm.DB) *EventParticipantService {
	return &EventParticipantService{db: db}
}

/* =========================================================
   JOIN
   ========================================================= */

// Join creates the caller's participation. Free events seat the caller
// immediately; paid events get a PENDING participation and payment.
func (s *EventParticipantService) Join(ctx context.Context, actor helper.Actor, eventID uuid.UUID) (*dto.JoinEventResponse, error) {
	var (
		part    model.EventParticipant
		payment *paymentModel.Payment
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev eventModel.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ev, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Event not found")
			}
			return apperror.FromDB(err)
		}

		hostUserID, err := hostUserOf(tx, ev.HostID)
		if err != nil {
			return err
		}
		if hostUserID == actor.UserID {
			return apperror.BadRequest("You cannot join your own event")
		}
		if !ev.Joinable() {
			return apperror.BadRequest("Event is " + ev.Status)
		}

		var exists int64
		if err := tx.Model(&model.EventParticipant{}).
			Where("event_id = ? AND user_id = ?", ev.ID, actor.UserID).
			Count(&exists).Error; err != nil {
			return apperror.FromDB(err)
		}
		if exists > 0 {
			return apperror.BadRequest("Already joined this event")
		}

		// participating clears the host signal; roles stay as they are
		if err := tx.Model(&userModel.User{}).
			Where("id = ? AND is_host = ?", actor.UserID, true).
			Update("is_host", false).Error; err != nil {
			return apperror.FromDB(err)
		}

		part = model.EventParticipant{
			EventID:       ev.ID,
			UserID:        actor.UserID,
			HostID:        ev.HostID,
			JoinStatus:    model.JoinPending,
			PaymentStatus: paymentModel.StatusPending,
		}
		if ev.IsFree() {
			seated, err := paymentService.TakeSeat(tx, ev.ID)
			if err != nil {
				return err
			}
			if !seated {
				return apperror.BadRequest("Event is already full")
			}
			part.JoinStatus = model.JoinApproved
			part.PaymentStatus = paymentModel.StatusPaid
		}

		if err := tx.Create(&part).Error; err != nil {
			if apperror.IsDuplicate(err) {
				return apperror.BadRequest("Already joined this event")
			}
			return apperror.FromDB(err)
		}

		if !ev.IsFree() {
			if payment, err = paymentService.EnsurePendingForJoin(tx, actor.UserID, ev.ID, ev.Fee); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.load(ctx, s.db, part.ID)
	if err != nil {
		return nil, err
	}
	return &dto.JoinEventResponse{Participant: full, Payment: payment}, nil
}

/* =========================================================
   UPDATE (self-cancel / host-reject)
   ========================================================= */

// Update lets the participant cancel, or the event's host reject, a
// participation. A held seat is released and the latest payment follows.
func (s *EventParticipantService) Update(ctx context.Context, actor helper.Actor, id uuid.UUID, req dto.UpdateParticipantRequest) (*model.EventParticipant, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		part, err := lockParticipant(tx, id)
		if err != nil {
			return err
		}
		hostUserID, err := hostUserOf(tx, part.HostID)
		if err != nil {
			return err
		}

		switch {
		case part.UserID == actor.UserID:
			if req.JoinStatus != model.JoinCancelled {
				return apperror.Forbidden("Participants can only cancel their participation")
			}
		case hostUserID == actor.UserID:
			if req.JoinStatus != model.JoinRejected {
				return apperror.Forbidden("Hosts can only reject a participation")
			}
		default:
			return apperror.Forbidden("You are not allowed to update this participation")
		}

		if part.JoinStatus == req.JoinStatus {
			return nil
		}
		if part.JoinStatus == model.JoinCancelled || part.JoinStatus == model.JoinRejected {
			return apperror.BadRequest("Participation is already " + part.JoinStatus)
		}

		if part.HoldsSeat() {
			if err := paymentService.ReleaseSeat(tx, part.EventID); err != nil {
				return err
			}
		}

		// CANCELLED / REJECTED mirror onto the payment side
		if err := tx.Model(part).Updates(map[string]any{
			"join_status":    req.JoinStatus,
			"payment_status": req.JoinStatus,
		}).Error; err != nil {
			return apperror.FromDB(err)
		}
		return paymentService.CascadeStatus(tx, part.UserID, part.EventID, req.JoinStatus)
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.db, id)
}

/* =========================================================
   DELETE
   ========================================================= */

// Delete removes a participation of one of the caller's events.
func (s *EventParticipantService) Delete(ctx context.Context, actor helper.Actor, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		part, err := lockParticipant(tx, id)
		if err != nil {
			return err
		}
		hostUserID, err := hostUserOf(tx, part.HostID)
		if err != nil {
			return err
		}
		if hostUserID != actor.UserID {
			return apperror.Forbidden("Only the host can delete this participation")
		}

		if part.HoldsSeat() {
			if err := paymentService.ReleaseSeat(tx, part.EventID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&model.EventParticipant{}, "id = ?", part.ID).Error; err != nil {
			return apperror.FromDB(err)
		}
		return paymentService.CascadeStatus(tx, part.UserID, part.EventID, paymentModel.StatusCancelled)
	})
}

/* =========================================================
   READ
   ========================================================= */

// List returns participations visible to the caller: admins see all, other
// users see the ones they joined or host.
func (s *EventParticipantService) List(ctx context.Context, actor helper.Actor, f helper.Filter, p helper.Params) ([]model.EventParticipant, int64, error) {
	q := f.Apply(s.visible(s.db.WithContext(ctx), actor))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err)
	}

	rows := []model.EventParticipant{}
	err := withRelations(q.Select("event_participants.*")).
		Order(p.OrderClause(dto.ParticipantSortColumns, "createdAt")).
		Offset(p.Offset()).Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apperror.FromDB(err)
	}
	return rows, total, nil
}

func (s *EventParticipantService) GetByID(ctx context.Context, actor helper.Actor, id uuid.UUID) (*model.EventParticipant, error) {
	var part model.EventParticipant
	err := withRelations(s.visible(s.db.WithContext(ctx), actor).Select("event_participants.*")).
		Where("event_participants.id = ?", id).
		First(&part).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Participant not found")
		}
		return nil, apperror.FromDB(err)
	}
	return &part, nil
}

/* =========================================================
   helpers
   ========================================================= */

func (s *EventParticipantService) visible(db *gorm.DB, actor helper.Actor) *gorm.DB {
	q := db.Model(&model.EventParticipant{}).
		Joins("JOIN users u ON u.id = event_participants.user_id").
		Joins("JOIN events e ON e.id = event_participants.event_id").
		Joins("JOIN hosts h ON h.id = event_participants.host_id").
		Joins("JOIN users hu ON hu.id = h.user_id")
	if !constants.IsAdminRole(actor.Role) {
		q = q.Where("(event_participants.user_id = ? OR h.user_id = ?)", actor.UserID, actor.UserID)
	}
	return q
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("Event").Preload("Host.User")
}

func (s *EventParticipantService) load(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.EventParticipant, error) {
	var part model.EventParticipant
	if err := withRelations(db.WithContext(ctx)).First(&part, "id = ?", id).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &part, nil
}

func lockParticipant(tx *gorm.DB, id uuid.UUID) (*model.EventParticipant, error) {
	var part model.EventParticipant
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&part, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Participant not found")
		}
		return nil, apperror.FromDB(err)
	}
	return &part, nil
}

func hostUserOf(tx *gorm.DB, hostID uuid.UUID) (uuid.UUID, error) {
	var host userModel.Host
	if err := tx.Select("id", "user_id").First(&host, "id = ?", hostID).Error; err != nil {
		return uuid.Nil, apperror.FromDB(err)
	}
	return host.UserID, nil
}
