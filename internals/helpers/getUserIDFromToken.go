package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"eventhub_backend/internals/helpers/apperror"
)

// Locals keys written by the auth middleware.
const (
	LocUserID    = "user_id"
	LocUserRole  = "userRole"
	LocUserEmail = "user_email"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// GetActor reads the caller from Locals. 401 when the route was not behind
// the auth middleware or the id is unusable.
func GetActor(c *fiber.Ctx) (Actor, error) {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return Actor{}, err
	}
	role, _ := c.Locals(LocUserRole).(string)
	email, _ := c.Locals(LocUserEmail).(string)
	return Actor{UserID: id, Email: email, Role: role}, nil
}

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	switch t := c.Locals(LocUserID).(type) {
	case uuid.UUID:
		if t != uuid.Nil {
			return t, nil
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return uuid.Nil, apperror.Unauthorized("Invalid user id in token")
			}
			return id, nil
		}
	}
	return uuid.Nil, apperror.Unauthorized("You are not authorized")
}

// ParseUUIDParam reads a path parameter as uuid, 400 when malformed.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.BadRequestf("Invalid %s", name)
	}
	return id, nil
}
