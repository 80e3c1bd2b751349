package testdb

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
	eventModel "eventhub_backend/internals/features/events/event/model"
	userModel "eventhub_backend/internals/features/users/user/model"
)

// Password is the plain-text password of every fixture user.
const Password = "secret123"

var passwordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// User inserts an ACTIVE user with the given role.
func User(t testing.TB, db *gorm.DB, role string) *userModel.User {
	t.Helper()
	id := uuid.New()
	u := &userModel.User{
		ID:       id,
		Name:     "User " + id.String()[:8],
		Email:    fmt.Sprintf("%s@example.com", id.String()[:8]),
		Password: passwordHash,
		Role:     role,
		Status:   constants.UserStatusActive,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// Host inserts a HOST user together with its host row.
func Host(t testing.TB, db *gorm.DB) (*userModel.User, *userModel.Host) {
	t.Helper()
	u := User(t, db, constants.RoleHost)
	if err := db.Model(u).Update("is_host", true).Error; err != nil {
		t.Fatalf("flag host: %v", err)
	}
	u.IsHost = true
	h := &userModel.Host{UserID: u.ID}
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("create host: %v", err)
	}
	return u, h
}

// Event inserts an OPEN event owned by host.
func Event(t testing.TB, db *gorm.DB, host *userModel.Host, fee float64, maxParticipants int) *eventModel.Event {
	t.Helper()
	id := uuid.New()
	e := &eventModel.Event{
		ID:              id,
		Title:           "Event " + id.String()[:8],
		Slug:            "event-" + id.String()[:8],
		Category:        "music",
		Description:     "a fixture event for tests",
		Date:            time.Now().Add(72 * time.Hour).UTC(),
		Time:            "19:00",
		Location:        "Jakarta",
		MinParticipants: 1,
		MaxParticipants: maxParticipants,
		Fee:             fee,
		Status:          eventModel.StatusOpen,
		HostID:          host.ID,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

// Reload fetches the row again by primary key.
func Reload[T any](t testing.TB, db *gorm.DB, id uuid.UUID) *T {
	t.Helper()
	var out T
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	return &out
}
