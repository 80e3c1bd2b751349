package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/dashboard/meta/controller"
	"eventhub_backend/internals/features/dashboard/meta/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	authMiddleware "eventhub_backend/internals/middlewares/auth"
)

// DashboardRoutes mounts /dashboard under api, admins only.
func DashboardRoutes(api fiber.Router, db *gorm.DB, tokens *helpersAuth.TokenService) {
	ctl := controller.NewMetaController(service.NewMetaService(db))

	dashboard := api.Group("/dashboard", authMiddleware.CheckAuth(tokens, db, constants.AdminRoles...))
	dashboard.Get("/meta-data", ctl.GetAdminDashboardMetaData)
}
