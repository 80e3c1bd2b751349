package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/users/auth/dto"
	authRepo "eventhub_backend/internals/features/users/auth/repository"
	userDTO "eventhub_backend/internals/features/users/user/dto"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
	helpersAuth "eventhub_backend/internals/helpers/auth"
)

type AuthService struct {
	db         *gorm.DB
	tokens     *helpersAuth.TokenService
	bcryptCost int
}

func NewAuthService(db *gorm.DB, tokens *helpersAuth.TokenService, bcryptCost int) *AuthService {
	return &AuthService{db: db, tokens: tokens, bcryptCost: bcryptCost}
}

// ========================== LOGIN ==========================
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.db, userDTO.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("Invalid credentials")
		}
		return nil, apperror.FromDB(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperror.BadRequest("Invalid credentials")
	}
	if reason := user.BlockReason(); reason != "" {
		return nil, apperror.Forbidden(reason)
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal("Failed to issue tokens", err)
	}
	return &dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

// ========================== REFRESH ==========================

// NewAccessToken exchanges a refresh token for a fresh pair; the refresh
// token rotates too.
func (s *AuthService) NewAccessToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken == "" {
		return nil, apperror.Unauthorized("No refresh token received")
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired refresh token")
	}

	user, err := authRepo.FindUserByID(ctx, s.db, claims.UserUUID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("User does not exist")
		}
		return nil, apperror.FromDB(err)
	}
	if reason := user.BlockReason(); reason != "" {
		return nil, apperror.Forbidden(reason)
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal("Failed to issue tokens", err)
	}
	return &dto.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// ========================== CHANGE PASSWORD ==========================
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	user, err := authRepo.FindUserByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.FromDB(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		return apperror.BadRequest("Old password does not match")
	}
	return s.setPassword(ctx, user.ID, req.NewPassword)
}

// ========================== RESET PASSWORD ==========================

// ResetPassword sets a new password for the caller, or for the account
// named by Email when the caller is an admin.
func (s *AuthService) ResetPassword(ctx context.Context, actor helper.Actor, req dto.ResetPasswordRequest) error {
	target := actor.UserID

	email := userDTO.NormalizeEmail(req.Email)
	if email != "" && email != userDTO.NormalizeEmail(actor.Email) {
		if !constants.IsAdminRole(actor.Role) {
			return apperror.Forbidden("You can only reset your own password")
		}
		user, err := authRepo.FindUserByEmail(ctx, s.db, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("User not found")
			}
			return apperror.FromDB(err)
		}
		// admins cannot take over a super admin account
		if user.Role == constants.RoleSuperAdmin && actor.Role != constants.RoleSuperAdmin {
			return apperror.Forbidden("You are not allowed to reset this password")
		}
		target = user.ID
	}
	return s.setPassword(ctx, target, req.NewPassword)
}

func (s *AuthService) setPassword(ctx context.Context, userID uuid.UUID, plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.bcryptCost)
	if err != nil {
		return apperror.Internal("Failed to hash password", err)
	}
	if err := authRepo.UpdateUserPassword(ctx, s.db, userID, string(hash)); err != nil {
		return apperror.FromDB(err)
	}
	return nil
}
