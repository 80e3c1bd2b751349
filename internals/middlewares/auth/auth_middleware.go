// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userModel "eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
	helpersAuth "eventhub_backend/internals/helpers/auth"
)

// CheckAuth verifies the access token (Authorization header or cookie),
// loads the user and enforces the role allow-list. An empty list allows any
// authenticated user.
func CheckAuth(tokens *helpersAuth.TokenService, db *gorm.DB, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return apperror.Unauthorized("No token received")
		}

		claims, err := tokens.VerifyAccess(raw)
		if err != nil {
			slog.Debug("access token rejected", "path", c.Path(), "err", err)
			return apperror.Unauthorized("Invalid or expired token")
		}

		var user userModel.User
		err = db.WithContext(c.UserContext()).
			Select("id", "email", "role", "status", "is_deleted").
			First(&user, "id = ?", claims.UserUUID()).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.BadRequest("User does not exist")
			}
			return apperror.FromDB(err)
		}

		if reason := user.BlockReason(); reason != "" {
			return apperror.Forbidden(reason)
		}

		// role from the row, the token may predate a USER -> HOST promotion
		c.Locals(helper.LocUserID, user.ID)
		c.Locals(helper.LocUserEmail, user.Email)
		c.Locals(helper.LocUserRole, user.Role)

		return RequireRoles(roles...)(c)
	}
}
