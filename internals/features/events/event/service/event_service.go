package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/events/event/dto"
	"eventhub_backend/internals/features/events/event/model"
	participantModel "eventhub_backend/internals/features/events/participant/model"
	userModel "eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

const slugMaxLen = 100

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

/* =========================================================
   CREATE
   ========================================================= */

// Create stores a new event for the caller. The caller's host profile is
// created on first use and a plain USER is promoted to HOST, all in the same
// transaction as the insert.
func (s *EventService) Create(ctx context.Context, actor helper.Actor, req dto.CreateEventRequest, images []string) (*model.Event, error) {
	ev, err := req.ToModel()
	if err != nil {
		return nil, err
	}
	ev.Images = images

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		host, err := ensureHost(tx, actor)
		if err != nil {
			return err
		}

		slug, err := helper.UniqueSlug(ctx, tx, "events", "slug", helper.Slugify(ev.Title, slugMaxLen), nil)
		if err != nil {
			return apperror.FromDB(err)
		}
		ev.Slug = slug
		ev.HostID = host.ID

		if err := tx.Create(ev).Error; err != nil {
			return apperror.FromDB(err)
		}
		if err := tx.Model(&userModel.Host{}).Where("id = ?", host.ID).
			UpdateColumn("total_events_hosted", gorm.Expr("total_events_hosted + 1")).Error; err != nil {
			return apperror.FromDB(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.findBySlug(ctx, s.db, ev.Slug)
}

// ensureHost returns the caller's host row, creating it when missing.
func ensureHost(tx *gorm.DB, actor helper.Actor) (*userModel.Host, error) {
	var host userModel.Host
	err := tx.Where("user_id = ?", actor.UserID).First(&host).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		host = userModel.Host{UserID: actor.UserID}
		if err := tx.Create(&host).Error; err != nil {
			return nil, apperror.FromDB(err)
		}
	case err != nil:
		return nil, apperror.FromDB(err)
	}

	updates := map[string]any{"is_host": true}
	// ADMIN / SUPER_ADMIN keep their role
	if actor.Role == constants.RoleUser {
		updates["role"] = constants.RoleHost
	}
	if err := tx.Model(&userModel.User{}).Where("id = ?", actor.UserID).Updates(updates).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &host, nil
}

/* =========================================================
   UPDATE
   ========================================================= */

// Update applies the patch to the event owned by the caller. The returned
// removed list holds image URLs dropped from the event; the caller deletes
// them from storage.
func (s *EventService) Update(
	ctx context.Context,
	slug string,
	actor helper.Actor,
	req dto.UpdateEventRequest,
	newImages []string,
) (ev *model.Event, removed []string, err error) {
	var newSlug string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.findOwned(tx, slug, actor, "You are not allowed to update this event")
		if err != nil {
			return err
		}

		oldTitle := cur.Title
		removed, err = req.Apply(cur, newImages)
		if err != nil {
			return err
		}

		if cur.Title != oldTitle {
			cur.Slug, err = helper.UniqueSlug(ctx, tx, "events", "slug", helper.Slugify(cur.Title, slugMaxLen),
				func(q *gorm.DB) *gorm.DB { return q.Where("id <> ?", cur.ID) })
			if err != nil {
				return apperror.FromDB(err)
			}
		}
		syncCapacityStatus(cur)

		if err := tx.Model(cur).Select(
			"title", "slug", "category", "description", "date", "time", "location",
			"min_participants", "max_participants", "fee", "images", "status",
		).Updates(cur).Error; err != nil {
			return apperror.FromDB(err)
		}
		newSlug = cur.Slug
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	ev, err = s.findBySlug(ctx, s.db, newSlug)
	if err != nil {
		return nil, nil, err
	}
	return ev, removed, nil
}

// syncCapacityStatus keeps OPEN/FULL in line with the counters after an edit;
// CANCELLED and COMPLETED are left alone.
func syncCapacityStatus(e *model.Event) {
	if e.Status != model.StatusOpen && e.Status != model.StatusFull {
		return
	}
	if e.TotalParticipants >= e.MaxParticipants {
		e.Status = model.StatusFull
	} else {
		e.Status = model.StatusOpen
	}
}

/* =========================================================
   DELETE
   ========================================================= */

// Delete hard-deletes the caller's event and returns its image URLs.
func (s *EventService) Delete(ctx context.Context, slug string, actor helper.Actor) ([]string, error) {
	var images []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := s.findOwned(tx, slug, actor, "You are not allowed to delete this event")
		if err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&participantModel.EventParticipant{}).
			Where("event_id = ?", ev.ID).Count(&n).Error; err != nil {
			return apperror.FromDB(err)
		}
		if n > 0 {
			return apperror.BadRequest("Event has participants")
		}

		if err := tx.Delete(&model.Event{}, "id = ?", ev.ID).Error; err != nil {
			return apperror.FromDB(err)
		}
		if err := tx.Model(&userModel.Host{}).
			Where("id = ? AND total_events_hosted > 0", ev.HostID).
			UpdateColumn("total_events_hosted", gorm.Expr("total_events_hosted - 1")).Error; err != nil {
			return apperror.FromDB(err)
		}
		images = ev.Images
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

/* =========================================================
   READ
   ========================================================= */

func (s *EventService) List(ctx context.Context, f helper.Filter, p helper.Params) ([]model.Event, int64, error) {
	q := f.Apply(s.db.WithContext(ctx).Model(&model.Event{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err)
	}

	events := []model.Event{}
	err := q.Preload("Host.User").
		Order(p.OrderClause(dto.EventSortColumns, "createdAt")).
		Offset(p.Offset()).Limit(p.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, apperror.FromDB(err)
	}
	return events, total, nil
}

func (s *EventService) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return s.findBySlug(ctx, s.db, slug)
}

// Categories lists the distinct categories in use, sorted.
func (s *EventService) Categories(ctx context.Context) ([]string, error) {
	cats := []string{}
	err := s.db.WithContext(ctx).Model(&model.Event{}).
		Distinct("category").Order("category ASC").
		Pluck("category", &cats).Error
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return cats, nil
}

/* =========================================================
   helpers
   ========================================================= */

func (s *EventService) findBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.Event, error) {
	var ev model.Event
	err := db.WithContext(ctx).Preload("Host.User").Where("slug = ?", slug).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Event not found")
		}
		return nil, apperror.FromDB(err)
	}
	return &ev, nil
}

// findOwned locks the event row by slug and checks the caller is its host.
// The lock keeps the seat counters stable until the caller's transaction
// ends, so status written back from them cannot go stale.
func (s *EventService) findOwned(tx *gorm.DB, slug string, actor helper.Actor, denied string) (*model.Event, error) {
	var ev model.Event
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("slug = ?", slug).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Event not found")
		}
		return nil, apperror.FromDB(err)
	}

	var host userModel.Host
	if err := tx.Select("id", "user_id").First(&host, "id = ?", ev.HostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbidden(denied)
		}
		return nil, apperror.FromDB(err)
	}
	if host.UserID != actor.UserID {
		return nil, apperror.Forbidden(denied)
	}
	return &ev, nil
}
