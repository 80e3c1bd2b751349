package details

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	authRoute "eventhub_backend/internals/features/users/auth/route"
	userRoute "eventhub_backend/internals/features/users/user/route"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	helperOSS "eventhub_backend/internals/helpers/oss"
)

func UserRoutes(
	api fiber.Router,
	db *gorm.DB,
	cfg *configs.Config,
	tokens *helpersAuth.TokenService,
	blob helperOSS.BlobService,
	log *slog.Logger,
) {
	authRoute.AuthRoutes(api, db, cfg, tokens)
	userRoute.UserRoutes(api, db, cfg, tokens, blob, log)
}
