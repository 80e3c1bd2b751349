package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/users/user/dto"
	"eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

type UserService struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// Register creates a plain USER account.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	req.Normalize()

	var exists int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", req.Email).Count(&exists).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	if exists > 0 {
		return nil, apperror.BadRequest("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password", err)
	}

	u := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     constants.RoleUser,
		Status:   constants.UserStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if apperror.IsDuplicate(err) {
			return nil, apperror.BadRequest("User already exists")
		}
		return nil, apperror.FromDB(err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, f helper.Filter, p helper.Params) ([]model.User, int64, error) {
	q := f.Apply(s.db.WithContext(ctx).Model(&model.User{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err)
	}

	users := []model.User{}
	err := q.Order(p.OrderClause(dto.UserSortColumns, "createdAt")).
		Offset(p.Offset()).Limit(p.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperror.FromDB(err)
	}
	return users, total, nil
}

// GetByID returns the user with its host profile, if any.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Preload("Host").First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.FromDB(err)
	}
	return &u, nil
}

// UpdateProfile applies the patch for the calling user. newImage replaces
// the profile image; the replaced URL is returned so the caller can remove
// it from storage once the row is saved.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	req dto.UpdateProfileRequest,
	newImage *string,
) (user *model.User, replacedImage *string, err error) {
	dob, err := req.ParseDob()
	if err != nil {
		return nil, nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.First(&u, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("User not found")
			}
			return apperror.FromDB(err)
		}

		if req.Email != nil && dto.NormalizeEmail(*req.Email) != u.Email {
			var taken int64
			if err := tx.Model(&model.User{}).
				Where("email = ? AND id <> ?", dto.NormalizeEmail(*req.Email), u.ID).
				Count(&taken).Error; err != nil {
				return apperror.FromDB(err)
			}
			if taken > 0 {
				return apperror.BadRequest("Email already in use")
			}
		}

		req.Apply(&u, dob)
		if newImage != nil {
			replacedImage = u.ProfileImage
			u.ProfileImage = newImage
		}

		if err := tx.Model(&u).Select(
			"name", "email", "gender", "dob", "address", "contact_number", "bio", "profile_image",
		).Updates(&u).Error; err != nil {
			if apperror.IsDuplicate(err) {
				return apperror.BadRequest("Email already in use")
			}
			return apperror.FromDB(err)
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, replacedImage, nil
}
