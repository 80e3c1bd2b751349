package details

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	paymentRoute "eventhub_backend/internals/features/payments/payment/route"
	paymentService "eventhub_backend/internals/features/payments/payment/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
)

func PaymentRoutes(
	api fiber.Router,
	db *gorm.DB,
	cfg *configs.Config,
	tokens *helpersAuth.TokenService,
	gateway paymentService.Gateway,
	log *slog.Logger,
) {
	paymentRoute.PaymentRoutes(api, db, cfg, tokens, gateway, log)
}
