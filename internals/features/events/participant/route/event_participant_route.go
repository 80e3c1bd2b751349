package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/events/participant/controller"
	"eventhub_backend/internals/features/events/participant/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	authMiddleware "eventhub_backend/internals/middlewares/auth"
)

// EventParticipantRoutes mounts /event-participants under api.
func EventParticipantRoutes(api fiber.Router, db *gorm.DB, tokens *helpersAuth.TokenService) {
	ctl := controller.NewEventParticipantController(service.NewEventParticipantService(db))

	ep := api.Group("/event-participants", authMiddleware.CheckAuth(tokens, db, constants.AllRoles...))
	ep.Post("/join-event", ctl.JoinEvent)
	ep.Get("/", ctl.GetAllParticipants)
	ep.Get("/:id", ctl.GetParticipantByID)
	ep.Patch("/:id", ctl.UpdateParticipant)
	ep.Delete("/:id", ctl.DeleteParticipant)
}
