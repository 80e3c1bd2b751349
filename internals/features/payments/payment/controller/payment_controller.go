package controller

import (
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/features/payments/payment/dto"
	"eventhub_backend/internals/features/payments/payment/service"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

type PaymentController struct {
	Service *service.PaymentService
	cfg     configs.PaymentConfig
}

func NewPaymentController(svc *service.PaymentService, cfg configs.PaymentConfig) *PaymentController {
	return &PaymentController{Service: svc, cfg: cfg}
}

// POST /payment/init-payment/:participantId
func (pc *PaymentController) InitPayment(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	participantID, err := helper.ParseUUIDParam(c, "participantId")
	if err != nil {
		return err
	}
	res, err := pc.Service.Init(c.UserContext(), actor, participantID)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Payment initiated successfully", res)
}

// GET|POST /payment/success
func (pc *PaymentController) SuccessPayment(c *fiber.Ctx) error {
	return pc.handleRedirect(c, service.OutcomeSuccess)
}

// GET|POST /payment/fail
func (pc *PaymentController) FailPayment(c *fiber.Ctx) error {
	return pc.handleRedirect(c, service.OutcomeFail)
}

// GET|POST /payment/cancel
func (pc *PaymentController) CancelPayment(c *fiber.Ctx) error {
	return pc.handleRedirect(c, service.OutcomeCancel)
}

func (pc *PaymentController) handleRedirect(c *fiber.Ctx, claimed service.Outcome) error {
	var p dto.CallbackParams
	if err := c.QueryParser(&p); err != nil {
		return apperror.BadRequest("Invalid callback parameters")
	}
	if p.ID() == "" && c.Method() == fiber.MethodPost {
		// some gateways post the fields instead of appending them
		_ = c.BodyParser(&p)
	}
	txID := p.ID()
	if txID == "" {
		return apperror.BadRequest("transactionId is required")
	}

	outcome, gross, err := pc.Service.ConfirmRedirect(c.UserContext(), txID, claimed)
	if err != nil {
		return err
	}

	message := outcome.Message()
	if outcome != service.OutcomePending {
		details := map[string]any{"source": "redirect"}
		if gross != "" {
			details[service.DetailGrossAmount] = gross
		}
		res, err := pc.Service.Reconcile(c.UserContext(), txID, outcome, details)
		if err != nil {
			return err
		}
		message = res.Message
	} else {
		outcome = claimed
	}

	status := p.Status
	if status == "" {
		status = p.TransactionStatus
	}
	q := url.Values{}
	q.Set("transactionId", txID)
	q.Set("message", message)
	q.Set("amount", p.Amount)
	q.Set("status", status)
	return c.Redirect(pc.redirectBase(outcome)+"?"+q.Encode(), fiber.StatusFound)
}

func (pc *PaymentController) redirectBase(o service.Outcome) string {
	switch o {
	case service.OutcomeSuccess:
		return pc.cfg.SuccessURL
	case service.OutcomeFail:
		return pc.cfg.FailURL
	default:
		return pc.cfg.CancelURL
	}
}

// POST /payment/validate-payment  (midtrans HTTP notification)
func (pc *PaymentController) ValidatePayment(c *fiber.Ctx) error {
	var n dto.Notification
	if err := sonic.Unmarshal(c.Body(), &n); err != nil {
		return apperror.BadRequest("Invalid notification payload")
	}
	outcome, err := pc.Service.HandleNotification(c.UserContext(), n)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Payment notification processed", fiber.Map{
		"transactionId": n.OrderID,
		"outcome":       outcome,
	})
}
