// file: internals/route/index.go
package routes

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	database "eventhub_backend/internals/databases"
	paymentService "eventhub_backend/internals/features/payments/payment/service"
	helper "eventhub_backend/internals/helpers"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	helperOSS "eventhub_backend/internals/helpers/oss"
	routeDetails "eventhub_backend/internals/route/details"
)

// Deps is everything the feature routes need, built once in main.
type Deps struct {
	DB      *gorm.DB
	Config  *configs.Config
	Tokens  *helpersAuth.TokenService
	Blob    helperOSS.BlobService
	Gateway paymentService.Gateway
	Log     *slog.Logger
}

var startTime time.Time

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	api := app.Group("/api/v1")

	// ===================== HEALTH =====================
	api.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		if err := database.Ping(c.UserContext(), d.DB); err != nil {
			d.Log.Warn("health: db ping failed", "err", err)
			status = "degraded"
		}
		return helper.JsonOK(c, "Server is running", fiber.Map{
			"status": status,
			"uptime": time.Since(startTime).Round(time.Second).String(),
		})
	})

	d.Log.Info("setting up user routes")
	routeDetails.UserRoutes(api, d.DB, d.Config, d.Tokens, d.Blob, d.Log)

	d.Log.Info("setting up event routes")
	routeDetails.EventRoutes(api, d.DB, d.Tokens, d.Blob, d.Log)

	d.Log.Info("setting up payment routes")
	routeDetails.PaymentRoutes(api, d.DB, d.Config, d.Tokens, d.Gateway, d.Log)

	d.Log.Info("setting up dashboard routes")
	routeDetails.DashboardRoutes(api, d.DB, d.Tokens)
}
