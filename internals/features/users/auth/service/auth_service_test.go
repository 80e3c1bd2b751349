package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/users/auth/dto"
	userModel "eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	"eventhub_backend/internals/helpers/testdb"
)

func newService(t *testing.T) (*AuthService, *helpersAuth.TokenService) {
	t.Helper()
	tokens := helpersAuth.NewTokenService(configs.JWTConfig{
		AccessSecret:   "access-secret",
		AccessExpires:  time.Hour,
		RefreshSecret:  "refresh-secret",
		RefreshExpires: 24 * time.Hour,
	})
	return NewAuthService(testdb.Open(t), tokens, bcrypt.MinCost), tokens
}

func TestLogin(t *testing.T) {
	svc, tokens := newService(t)
	ctx := context.Background()
	u := testdb.User(t, svc.db, constants.RoleUser)

	res, err := svc.Login(ctx, dto.LoginRequest{Email: u.Email, Password: testdb.Password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := tokens.VerifyAccess(res.AccessToken)
	if err != nil || claims.UserUUID() != u.ID || claims.Role != constants.RoleUser {
		t.Fatalf("access token claims %+v, %v", claims, err)
	}
	if _, err := tokens.VerifyRefresh(res.RefreshToken); err != nil {
		t.Fatalf("refresh token: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", u.Email, "nope"},
		{"unknown email", "ghost@example.com", testdb.Password},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, dto.LoginRequest{Email: tc.email, Password: tc.password})
			ae, ok := apperror.As(err)
			if !ok || ae.Kind != apperror.KindBadRequest || ae.Message != "Invalid credentials" {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestLoginBlockedUser(t *testing.T) {
	svc, _ := newService(t)
	u := testdb.User(t, svc.db, constants.RoleUser)
	svc.db.Model(u).Update("status", constants.UserStatusBlocked)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: u.Email, Password: testdb.Password})
	ae, ok := apperror.As(err)
	if !ok || ae.Kind != apperror.KindForbidden || ae.Message != "User is BLOCKED" {
		t.Fatalf("got %v", err)
	}
}

func TestNewAccessToken(t *testing.T) {
	svc, tokens := newService(t)
	ctx := context.Background()
	u := testdb.User(t, svc.db, constants.RoleUser)

	pair, err := tokens.IssuePair(u.ID, u.Email, u.Role)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.NewAccessToken(ctx, pair.AccessToken); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}

	res, err := svc.NewAccessToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := tokens.VerifyAccess(res.AccessToken); err != nil {
		t.Fatalf("new access token: %v", err)
	}

	svc.db.Model(u).Update("is_deleted", true)
	_, err = svc.NewAccessToken(ctx, pair.RefreshToken)
	if ae, ok := apperror.As(err); !ok || ae.Message != "User is deleted" {
		t.Fatalf("deleted user: %v", err)
	}

	svc.db.Delete(&userModel.User{}, "id = ?", u.ID)
	_, err = svc.NewAccessToken(ctx, pair.RefreshToken)
	if ae, ok := apperror.As(err); !ok || ae.Message != "User does not exist" {
		t.Fatalf("missing user: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	u := testdb.User(t, svc.db, constants.RoleUser)

	err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newsecret"})
	if ae, ok := apperror.As(err); !ok || ae.Message != "Old password does not match" {
		t.Fatalf("got %v", err)
	}

	if err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{OldPassword: testdb.Password, NewPassword: "newsecret"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: u.Email, Password: "newsecret"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	user := testdb.User(t, svc.db, constants.RoleUser)
	other := testdb.User(t, svc.db, constants.RoleUser)
	admin := testdb.User(t, svc.db, constants.RoleAdmin)
	root := testdb.User(t, svc.db, constants.RoleSuperAdmin)

	asUser := helper.Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
	asAdmin := helper.Actor{UserID: admin.ID, Email: admin.Email, Role: admin.Role}

	if err := svc.ResetPassword(ctx, asUser, dto.ResetPasswordRequest{NewPassword: "mine123"}); err != nil {
		t.Fatalf("own reset: %v", err)
	}
	if err := svc.ResetPassword(ctx, asUser, dto.ResetPasswordRequest{Email: other.Email, NewPassword: "theirs1"}); !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("user resetting another account: %v", err)
	}
	if err := svc.ResetPassword(ctx, asAdmin, dto.ResetPasswordRequest{Email: other.Email, NewPassword: "theirs1"}); err != nil {
		t.Fatalf("admin reset: %v", err)
	}
	if err := svc.ResetPassword(ctx, asAdmin, dto.ResetPasswordRequest{Email: root.Email, NewPassword: "rooted1"}); !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("admin resetting super admin: %v", err)
	}

	if _, err := svc.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "mine123"}); err != nil {
		t.Fatalf("login user: %v", err)
	}
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: other.Email, Password: "theirs1"}); err != nil {
		t.Fatalf("login other: %v", err)
	}
}
