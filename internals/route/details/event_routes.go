package details

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventRoute "eventhub_backend/internals/features/events/event/route"
	participantRoute "eventhub_backend/internals/features/events/participant/route"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	helperOSS "eventhub_backend/internals/helpers/oss"
)

// EventRoutes: /events (public reads) + /event-participants (login)
func EventRoutes(api fiber.Router, db *gorm.DB, tokens *helpersAuth.TokenService, blob helperOSS.BlobService, log *slog.Logger) {
	eventRoute.EventRoutes(api, db, tokens, blob, log)
	participantRoute.EventParticipantRoutes(api, db, tokens)
}
