package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/users/auth/controller"
	"eventhub_backend/internals/features/users/auth/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	rateLimiter "eventhub_backend/internals/middlewares"
	authMiddleware "eventhub_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /auth under api.
func AuthRoutes(api fiber.Router, db *gorm.DB, cfg *configs.Config, tokens *helpersAuth.TokenService) {
	ctl := controller.NewAuthController(service.NewAuthService(db, tokens, cfg.BcryptCost), cfg)
	anyRole := authMiddleware.CheckAuth(tokens, db, constants.AllRoles...)

	auth := api.Group("/auth")
	auth.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	auth.Post("/get-new-token", ctl.GetNewAccessToken)
	auth.Post("/logout", ctl.Logout)
	auth.Post("/change-password", anyRole, ctl.ChangePassword)
	auth.Post("/reset-password", rateLimiter.ResetPasswordRateLimiter(), anyRole, ctl.ResetPassword)
}
