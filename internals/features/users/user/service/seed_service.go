package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/users/user/dto"
	"eventhub_backend/internals/features/users/user/model"
)

// SeedSuperAdmin creates the SUPER_ADMIN account from config unless a user
// with that email already exists.
func (s *UserService) SeedSuperAdmin(ctx context.Context, admin configs.SuperAdminConfig, log *slog.Logger) error {
	email := dto.NormalizeEmail(admin.Email)
	if email == "" || admin.Password == "" {
		return errors.New("SUPER_ADMIN_EMAIL and SUPER_ADMIN_PASSWORD must be set")
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&exists).Error; err != nil {
		return err
	}
	if exists > 0 {
		log.Info("super admin already exists", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), s.bcryptCost)
	if err != nil {
		return err
	}
	u := &model.User{
		Name:       admin.Name,
		Email:      email,
		Password:   string(hash),
		Role:       constants.RoleSuperAdmin,
		Status:     constants.UserStatusActive,
		IsVerified: true,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return err
	}
	log.Info("✅ super admin created", "email", email)
	return nil
}
