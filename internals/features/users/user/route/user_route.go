package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/users/user/controller"
	"eventhub_backend/internals/features/users/user/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	helperOSS "eventhub_backend/internals/helpers/oss"
	rateLimiter "eventhub_backend/internals/middlewares"
	authMiddleware "eventhub_backend/internals/middlewares/auth"
)

// UserRoutes mounts /users under api.
func UserRoutes(
	api fiber.Router,
	db *gorm.DB,
	cfg *configs.Config,
	tokens *helpersAuth.TokenService,
	blob helperOSS.BlobService,
	log *slog.Logger,
) {
	ctl := controller.NewUserController(service.NewUserService(db, cfg.BcryptCost), blob, log)
	anyRole := authMiddleware.CheckAuth(tokens, db, constants.AllRoles...)

	users := api.Group("/users")
	users.Post("/register", rateLimiter.RegisterRateLimiter(), ctl.Register)
	users.Get("/", authMiddleware.CheckAuth(tokens, db, constants.AdminRoles...), ctl.GetUsers)
	users.Get("/me", anyRole, ctl.GetMe)
	users.Get("/:id", anyRole, ctl.GetUserByID)
	users.Patch("/", anyRole, ctl.UpdateProfile)
}
