package auth

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/constants"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

// RequireRoles checks the role CheckAuth stored in Locals.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helper.LocUserRole).(string)
		if !ok || role == "" {
			return apperror.Unauthorized("You are not authorized")
		}
		if len(roles) > 0 && !slices.Contains(roles, role) {
			return apperror.Forbidden(constants.ErrNotPermittedRoute)
		}
		return c.Next()
	}
}
