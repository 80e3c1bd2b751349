package route

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/payments/payment/controller"
	"eventhub_backend/internals/features/payments/payment/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	authMiddleware "eventhub_backend/internals/middlewares/auth"
)

// PaymentRoutes mounts /payment under api. Callback and IPN routes are
// public: the gateway and the customer's browser call them.
func PaymentRoutes(
	api fiber.Router,
	db *gorm.DB,
	cfg *configs.Config,
	tokens *helpersAuth.TokenService,
	gateway service.Gateway,
	log *slog.Logger,
) {
	svc := service.NewPaymentService(db, gateway, cfg.Payment, log)
	ctl := controller.NewPaymentController(svc, cfg.Payment)

	payment := api.Group("/payment")
	payment.Post("/init-payment/:participantId", authMiddleware.CheckAuth(tokens, db, constants.AllRoles...), ctl.InitPayment)

	for _, m := range []string{fiber.MethodGet, fiber.MethodPost} {
		payment.Add(m, "/success", ctl.SuccessPayment)
		payment.Add(m, "/fail", ctl.FailPayment)
		payment.Add(m, "/cancel", ctl.CancelPayment)
	}
	payment.Post("/validate-payment", ctl.ValidatePayment)
}
