package dto

import (
	"slices"
	"strings"
	"time"

	"eventhub_backend/internals/features/events/event/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

/* ===========================
   Create
   =========================== */

type CreateEventRequest struct {
	Title           string   `json:"title" validate:"required,min=3"`
	Category        string   `json:"category" validate:"required,min=2"`
	Description     string   `json:"description" validate:"required,min=10"`
	Date            string   `json:"date" validate:"required"`
	Time            string   `json:"time" validate:"required"`
	Location        string   `json:"location" validate:"required,min=3"`
	MinParticipants int      `json:"minParticipants" validate:"required,gte=1"`
	MaxParticipants int      `json:"maxParticipants" validate:"required,gte=1,gtefield=MinParticipants"`
	Fee             *float64 `json:"fee" validate:"omitempty,gte=0"`
}

// ToModel builds the row; host, slug and images are filled by the service.
func (r *CreateEventRequest) ToModel() (*model.Event, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	fee := 0.0
	if r.Fee != nil {
		fee = *r.Fee
	}
	return &model.Event{
		Title:           strings.TrimSpace(r.Title),
		Category:        strings.TrimSpace(r.Category),
		Description:     strings.TrimSpace(r.Description),
		Date:            date,
		Time:            strings.TrimSpace(r.Time),
		Location:        strings.TrimSpace(r.Location),
		MinParticipants: r.MinParticipants,
		MaxParticipants: r.MaxParticipants,
		Fee:             fee,
		Status:          model.StatusOpen,
	}, nil
}

/* ===========================
   Update
   =========================== */

// UpdateEventRequest: nil keeps the stored value, a present value replaces it.
type UpdateEventRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=3"`
	Category        *string  `json:"category" validate:"omitempty,min=2"`
	Description     *string  `json:"description" validate:"omitempty,min=10"`
	Date            *string  `json:"date"`
	Time            *string  `json:"time" validate:"omitempty,min=1"`
	Location        *string  `json:"location" validate:"omitempty,min=3"`
	MinParticipants *int     `json:"minParticipants" validate:"omitempty,gte=1"`
	MaxParticipants *int     `json:"maxParticipants" validate:"omitempty,gte=1"`
	Fee             *float64 `json:"fee" validate:"omitempty,gte=0"`
	Status          *string  `json:"status" validate:"omitempty,oneof=OPEN FULL CANCELLED COMPLETED"`

	// images to drop from the event, matched by URL
	DeleteImages []string `json:"deleteImages"`
}

// Apply copies the present fields onto e and merges the image lists:
// removed URLs are filtered out, then newImages are appended. It returns the
// URLs that were actually removed.
func (r *UpdateEventRequest) Apply(e *model.Event, newImages []string) (removed []string, err error) {
	if r.Date != nil {
		d, err := ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		e.Date = d
	}
	if r.Title != nil {
		e.Title = strings.TrimSpace(*r.Title)
	}
	if r.Category != nil {
		e.Category = strings.TrimSpace(*r.Category)
	}
	if r.Description != nil {
		e.Description = strings.TrimSpace(*r.Description)
	}
	if r.Time != nil {
		e.Time = strings.TrimSpace(*r.Time)
	}
	if r.Location != nil {
		e.Location = strings.TrimSpace(*r.Location)
	}
	if r.MinParticipants != nil {
		e.MinParticipants = *r.MinParticipants
	}
	if r.MaxParticipants != nil {
		e.MaxParticipants = *r.MaxParticipants
	}
	if r.Fee != nil {
		e.Fee = *r.Fee
	}
	if r.Status != nil {
		e.Status = *r.Status
	}

	if e.MaxParticipants < e.MinParticipants {
		return nil, apperror.Validation([]apperror.FieldError{{
			Path: "maxParticipants", Message: "maxParticipants must be greater than or equal to minParticipants",
		}})
	}
	if e.MaxParticipants < e.TotalParticipants {
		return nil, apperror.Validation([]apperror.FieldError{{
			Path: "maxParticipants", Message: "maxParticipants cannot be lower than the current participants",
		}})
	}

	kept := make([]string, 0, len(e.Images)+len(newImages))
	for _, img := range e.Images {
		if slices.Contains(r.DeleteImages, img) {
			removed = append(removed, img)
			continue
		}
		kept = append(kept, img)
	}
	e.Images = append(kept, newImages...)
	return removed, nil
}

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.Validation([]apperror.FieldError{{Path: "date", Message: "Invalid date format"}})
}

/* ===========================
   List filter
   =========================== */

var EventFilterSpec = helper.FilterSpec{
	SearchColumns: []string{"title", "description", "category", "location"},
	Fields: []helper.FilterField{
		{Param: "category", Column: "category", Kind: helper.FilterExact},
		{Param: "status", Column: "status", Kind: helper.FilterEnum, Allowed: model.Statuses},
		{Param: "hostId", Column: "host_id", Kind: helper.FilterUUID},
		{Param: "isFree", Column: "fee", Kind: helper.FilterZero},
	},
}

var EventSortColumns = map[string]string{
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
	"date":              "date",
	"title":             "title",
	"fee":               "fee",
	"totalParticipants": "total_participants",
	"maxParticipants":   "max_participants",
}
