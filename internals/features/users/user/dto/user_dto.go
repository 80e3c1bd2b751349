package dto

import (
	"strings"
	"time"

	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

/* ===========================
   Requests
   =========================== */

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

// UpdateProfileRequest: nil keeps the stored value.
type UpdateProfileRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	Dob           *string `json:"dob"`
	Address       *string `json:"address" validate:"omitempty,min=3"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,min=10"`
	Bio           *string `json:"bio"`
}

// ParseDob accepts RFC3339 or YYYY-MM-DD.
func (r *UpdateProfileRequest) ParseDob() (*time.Time, error) {
	if r.Dob == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*r.Dob)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperror.Validation([]apperror.FieldError{{Path: "dob", Message: "Invalid date format"}})
}

// Apply copies the present fields onto u.
func (r *UpdateProfileRequest) Apply(u *model.User, dob *time.Time) {
	if r.Name != nil {
		u.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		u.Email = NormalizeEmail(*r.Email)
	}
	if r.Gender != nil {
		g := model.Gender(*r.Gender)
		u.Gender = &g
	}
	if dob != nil {
		u.Dob = dob
	}
	if r.Address != nil {
		u.Address = r.Address
	}
	if r.ContactNumber != nil {
		u.ContactNumber = r.ContactNumber
	}
	if r.Bio != nil {
		u.Bio = r.Bio
	}
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

/* ===========================
   List filter
   =========================== */

var UserFilterSpec = helper.FilterSpec{
	SearchColumns: []string{"name", "email"},
	Fields: []helper.FilterField{
		{Param: "role", Column: "role", Kind: helper.FilterEnum, Allowed: constants.AllRoles},
		{Param: "status", Column: "status", Kind: helper.FilterEnum, Allowed: []string{
			constants.UserStatusActive, constants.UserStatusInactive, constants.UserStatusBlocked,
		}},
		{Param: "gender", Column: "gender", Kind: helper.FilterEnum, Allowed: []string{
			string(model.GenderMale), string(model.GenderFemale),
		}},
		{Param: "isHost", Column: "is_host", Kind: helper.FilterBool},
		{Param: "isDeleted", Column: "is_deleted", Kind: helper.FilterBool},
	},
}

var UserSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"status":    "status",
}
