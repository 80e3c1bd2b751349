package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/events/event/controller"
	"eventhub_backend/internals/features/events/event/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	helperOSS "eventhub_backend/internals/helpers/oss"
	authMiddleware "eventhub_backend/internals/middlewares/auth"
)

// EventRoutes mounts /events under api. Reads are public.
func EventRoutes(api fiber.Router, db *gorm.DB, tokens *helpersAuth.TokenService, blob helperOSS.BlobService, log *slog.Logger) {
	ctl := controller.NewEventController(service.NewEventService(db), blob, log)
	anyRole := authMiddleware.CheckAuth(tokens, db, constants.AllRoles...)

	events := api.Group("/events")
	events.Post("/create-event", anyRole, ctl.CreateEvent)
	events.Get("/", ctl.GetAllEvents)
	events.Get("/category", ctl.GetCategories)
	events.Patch("/update/:slug", anyRole, ctl.UpdateEvent)
	events.Get("/:slug", ctl.GetEventBySlug)
	events.Delete("/:slug", anyRole, ctl.DeleteEvent)
}
