package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/users/user/dto"
	"eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
	"eventhub_backend/internals/helpers/testdb"
)

func ptr[T any](v T) *T { return &v }

func TestRegister(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()

	u, err := svc.Register(ctx, dto.RegisterRequest{Name: " Budi ", Email: "Budi@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "budi@example.com" || u.Name != "Budi" || u.Role != constants.RoleUser || u.Status != constants.UserStatusActive {
		t.Fatalf("unexpected user %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")) != nil {
		t.Fatal("password not hashed with bcrypt")
	}

	_, err = svc.Register(ctx, dto.RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "secret1"})
	if ae, ok := apperror.As(err); !ok || ae.Kind != apperror.KindBadRequest || ae.Message != "User already exists" {
		t.Fatalf("duplicate register: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, bcrypt.MinCost)
	u := testdb.User(t, db, constants.RoleUser)

	got, err := svc.GetByID(context.Background(), u.ID)
	if err != nil || got.ID != u.ID || got.Host != nil {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	if err := db.Delete(&model.User{}, "id = ?", u.ID).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetByID(context.Background(), u.ID); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, bcrypt.MinCost)
	ctx := context.Background()
	u := testdb.User(t, db, constants.RoleUser)
	other := testdb.User(t, db, constants.RoleUser)

	oldImage := "/uploads/users/old.png"
	if err := db.Model(u).Update("profile_image", oldImage).Error; err != nil {
		t.Fatal(err)
	}

	newImage := "/uploads/users/new.png"
	req := dto.UpdateProfileRequest{
		Bio:    ptr("hello"),
		Gender: ptr("FEMALE"),
		Dob:    ptr("1995-04-02"),
	}
	got, replaced, err := svc.UpdateProfile(ctx, u.ID, req, &newImage)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if replaced == nil || *replaced != oldImage {
		t.Fatalf("replaced = %v", replaced)
	}
	if got.Name != u.Name || *got.Bio != "hello" || *got.ProfileImage != newImage || got.Dob.Year() != 1995 {
		t.Fatalf("unexpected user %+v", got)
	}

	_, _, err = svc.UpdateProfile(ctx, u.ID, dto.UpdateProfileRequest{Email: ptr(other.Email)}, nil)
	if !apperror.IsKind(err, apperror.KindBadRequest) {
		t.Fatalf("expected email conflict, got %v", err)
	}

	_, _, err = svc.UpdateProfile(ctx, u.ID, dto.UpdateProfileRequest{Dob: ptr("yesterday")}, nil)
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPaginates(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, bcrypt.MinCost)
	for i := 0; i < 5; i++ {
		testdb.User(t, db, constants.RoleUser)
	}
	testdb.User(t, db, constants.RoleAdmin)

	f, err := helper.ParseFilter(map[string]string{"role": constants.RoleUser}, dto.UserFilterSpec)
	if err != nil {
		t.Fatal(err)
	}
	users, total, err := svc.List(context.Background(), f, helper.Params{Page: 2, Limit: 2, SortBy: "email", SortOrder: "asc"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 || len(users) != 2 {
		t.Fatalf("total=%d len=%d", total, len(users))
	}
	if users[0].Email > users[1].Email {
		t.Fatal("not sorted by email")
	}
}

func TestSeedSuperAdminIsIdempotent(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, bcrypt.MinCost)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := configs.SuperAdminConfig{Email: "root@example.com", Password: "rootpass", Name: "Root"}

	for i := 0; i < 2; i++ {
		if err := svc.SeedSuperAdmin(context.Background(), admin, log); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	var n int64
	db.Model(&model.User{}).Where("role = ?", constants.RoleSuperAdmin).Count(&n)
	if n != 1 {
		t.Fatalf("super admins = %d", n)
	}

	if err := svc.SeedSuperAdmin(context.Background(), configs.SuperAdminConfig{}, log); err == nil {
		t.Fatal("expected error for empty config")
	}
}
