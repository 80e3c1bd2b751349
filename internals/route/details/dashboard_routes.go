package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	metaRoute "eventhub_backend/internals/features/dashboard/meta/route"
	helpersAuth "eventhub_backend/internals/helpers/auth"
)

// DashboardRoutes: admin only, role check lives in the feature route.
func DashboardRoutes(api fiber.Router, db *gorm.DB, tokens *helpersAuth.TokenService) {
	metaRoute.DashboardRoutes(api, db, tokens)
}
