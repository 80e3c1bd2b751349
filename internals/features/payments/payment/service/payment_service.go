package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	eventModel "eventhub_backend/internals/features/events/event/model"
	participantModel "eventhub_backend/internals/features/events/participant/model"
	"eventhub_backend/internals/features/payments/payment/dto"
	"eventhub_backend/internals/features/payments/payment/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

// Outcome is what the gateway reported for a transaction.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFail    Outcome = "fail"
	OutcomeCancel  Outcome = "cancel"
	// still waiting on the customer, nothing to reconcile
	OutcomePending Outcome = "pending"
)

func (o Outcome) paymentStatus() string {
	switch o {
	case OutcomeSuccess:
		return model.StatusPaid
	case OutcomeFail:
		return model.StatusFailed
	default:
		return model.StatusCancelled
	}
}

// Message is the text shown to the customer for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "Payment successful"
	case OutcomeFail:
		return "Payment failed"
	case OutcomePending:
		return "Payment pending"
	default:
		return "Payment cancelled"
	}
}

// OutcomeFromGateway maps midtrans transaction_status / fraud_status.
func OutcomeFromGateway(transactionStatus, fraudStatus string) Outcome {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "", "accept":
			return OutcomeSuccess
		case "deny":
			return OutcomeFail
		default:
			return OutcomePending
		}
	case "settlement":
		return OutcomeSuccess
	case "deny", "failure", "expire":
		return OutcomeFail
	case "cancel":
		return OutcomeCancel
	default:
		return OutcomePending
	}
}

const defaultGatewayTimeout = 15 * time.Second

// DetailGrossAmount is the Reconcile detail key carrying the amount the
// gateway says it captured. A success whose amount differs is refused.
const DetailGrossAmount = "grossAmount"

type PaymentService struct {
	db      *gorm.DB
	gateway Gateway
	cfg     configs.PaymentConfig
	log     *slog.Logger
}

func NewPaymentService(db *gorm.DB, gateway Gateway, cfg configs.PaymentConfig, log *slog.Logger) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, cfg: cfg, log: log}
}

/* =========================================================
   INIT
   ========================================================= */

// Init prepares the participation's pending payment and opens a hosted
// checkout for it. Only the participant or an admin may initiate.
func (s *PaymentService) Init(ctx context.Context, actor helper.Actor, participantID uuid.UUID) (*dto.InitPaymentResponse, error) {
	var (
		payment *model.Payment
		req     CheckoutRequest
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var part participantModel.EventParticipant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&part, "id = ?", participantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Participant not found")
			}
			return apperror.FromDB(err)
		}
		if part.UserID != actor.UserID && !constants.IsAdminRole(actor.Role) {
			return apperror.Forbidden("You are not allowed to pay for this participation")
		}
		if part.PaymentStatus == model.StatusPaid {
			return apperror.BadRequest("Payment already completed")
		}
		if part.JoinStatus == participantModel.JoinRejected {
			return apperror.BadRequest("Participation was rejected by the host")
		}

		var ev eventModel.Event
		if err := tx.First(&ev, "id = ?", part.EventID).Error; err != nil {
			return apperror.FromDB(err)
		}
		if !ev.Joinable() {
			return apperror.BadRequest("Event is " + ev.Status)
		}

		var err error
		if payment, err = EnsurePending(tx, part.UserID, part.EventID, ev.Fee); err != nil {
			return err
		}

		// a retry after fail / cancel reopens the participation
		if part.JoinStatus != participantModel.JoinPending || part.PaymentStatus != model.StatusPending {
			if err := tx.Model(&part).Updates(map[string]any{
				"join_status":    participantModel.JoinPending,
				"payment_status": model.StatusPending,
			}).Error; err != nil {
				return apperror.FromDB(err)
			}
		}

		var payer struct {
			Name          string
			Email         string
			ContactNumber *string
		}
		if err := tx.Table("users").Select("name", "email", "contact_number").
			Where("id = ?", part.UserID).Take(&payer).Error; err != nil {
			return apperror.FromDB(err)
		}

		req = CheckoutRequest{
			TransactionID: payment.TransactionID,
			Amount:        payment.Amount,
			ItemID:        ev.ID.String(),
			ItemName:      ev.Title,
			CustomerName:  payer.Name,
			CustomerEmail: payer.Email,
		}
		if payer.ContactNumber != nil {
			req.CustomerPhone = *payer.ContactNumber
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// outside the transaction, the row lock is not held across the network call
	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout())
	defer cancel()
	res, err := s.gateway.Checkout(gctx, req)
	if err != nil {
		s.log.Error("payment checkout failed", "transaction_id", req.TransactionID, "err", err)
		return nil, apperror.Internal("Failed to initiate payment", err)
	}
	if res == nil || strings.TrimSpace(res.RedirectURL) == "" {
		return nil, apperror.Internal("Payment gateway returned no redirect URL", nil)
	}

	err = s.db.WithContext(ctx).Model(payment).Updates(map[string]any{
		"payment_url": res.RedirectURL,
		"gateway_data": withGatewayData(payment.GatewayData, map[string]any{
			"snapToken":   res.Token,
			"redirectUrl": res.RedirectURL,
		}),
	}).Error
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	return &dto.InitPaymentResponse{PaymentURL: res.RedirectURL, TransactionID: payment.TransactionID}, nil
}

func (s *PaymentService) gatewayTimeout() time.Duration {
	if s.cfg.GatewayTimeout > 0 {
		return s.cfg.GatewayTimeout
	}
	return defaultGatewayTimeout
}

/* =========================================================
   RECONCILE
   ========================================================= */

// Reconcile applies a gateway outcome to the payment, its participation and
// the event, all under row locks in one transaction. Repeating an outcome
// the payment already has is a no-op, and a late fail/cancel never undoes a
// PAID payment.
func (s *PaymentService) Reconcile(ctx context.Context, transactionID string, outcome Outcome, details map[string]any) (*dto.ReconcileResult, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, apperror.BadRequest("transactionId is required")
	}
	if outcome == OutcomePending {
		return nil, apperror.BadRequest("Payment is still pending")
	}

	result := &dto.ReconcileResult{Message: outcome.Message()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// participation before payment, the same order Init and the
		// participant service take, so the two never wait on each other
		var ref model.Payment
		if err := tx.Select("id", "user_id", "event_id").
			Where("transaction_id = ?", transactionID).First(&ref).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Payment not found")
			}
			return apperror.FromDB(err)
		}

		var part *participantModel.EventParticipant
		var row participantModel.EventParticipant
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ? AND user_id = ?", ref.EventID, ref.UserID).First(&row).Error
		switch {
		case err == nil:
			part = &row
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return apperror.FromDB(err)
		}

		var p model.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", ref.ID).Error; err != nil {
			return apperror.FromDB(err)
		}
		result.Payment = &p

		target := outcome.paymentStatus()
		if p.PaymentStatus == target {
			return nil
		}
		if p.PaymentStatus == model.StatusPaid {
			s.log.Warn("late gateway outcome ignored", "transaction_id", transactionID, "outcome", outcome)
			return nil
		}

		if outcome == OutcomeSuccess {
			if gross, ok := details[DetailGrossAmount].(string); ok && gross != "" && !amountMatches(gross, p.Amount) {
				s.log.Warn("payment amount mismatch",
					"transaction_id", transactionID,
					"expected", p.Amount,
					"gross_amount", gross,
				)
				return apperror.BadRequest("Payment amount mismatch")
			}
		}

		data := map[string]any{"lastOutcome": string(outcome)}
		for k, v := range details {
			data[k] = v
		}

		var join, partPayment string
		switch outcome {
		case OutcomeSuccess:
			seated, err := s.takeSeat(tx, p.EventID, part)
			if err != nil {
				return err
			}
			if seated {
				join, partPayment = participantModel.JoinApproved, model.StatusPaid
			} else {
				// money captured without a seat
				data["refundRequired"] = true
				join, partPayment = participantModel.JoinRejected, model.StatusRejected
			}
		case OutcomeFail:
			join, partPayment = participantModel.JoinCancelled, model.StatusFailed
		case OutcomeCancel:
			join, partPayment = participantModel.JoinCancelled, model.StatusCancelled
		}

		p.PaymentStatus = target
		p.GatewayData = withGatewayData(p.GatewayData, data)
		if err := tx.Model(&p).Select("payment_status", "gateway_data").Updates(&p).Error; err != nil {
			return apperror.FromDB(err)
		}

		// a seated participation is only released through cancel / reject
		if part != nil && !part.HoldsSeat() {
			if err := tx.Model(part).Updates(map[string]any{
				"join_status":    join,
				"payment_status": partPayment,
			}).Error; err != nil {
				return apperror.FromDB(err)
			}
		}
		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Applied {
		s.log.Info("payment reconciled",
			"transaction_id", transactionID,
			"outcome", outcome,
			"status", result.Payment.PaymentStatus,
		)
	}
	return result, nil
}

// amountMatches compares the gateway's gross amount with the whole-rupiah
// amount that was charged.
func amountMatches(gross string, amount float64) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(gross), 64)
	if err != nil {
		return false
	}
	return math.Abs(v-math.Round(amount)) < 0.005
}

// takeSeat books one seat for a paid participation. It reports false when
// the participation is gone or rejected, or the event has no free seat.
func (s *PaymentService) takeSeat(tx *gorm.DB, eventID uuid.UUID, part *participantModel.EventParticipant) (bool, error) {
	if part == nil || part.JoinStatus == participantModel.JoinRejected {
		return false, nil
	}
	if part.HoldsSeat() {
		return true, nil
	}
	return TakeSeat(tx, eventID)
}

// TakeSeat increments the event's participant count when a seat is free and
// the event is OPEN, flipping it to FULL on the last seat. It reports whether
// a seat was taken.
func TakeSeat(tx *gorm.DB, eventID uuid.UUID) (bool, error) {
	res := tx.Model(&eventModel.Event{}).
		Where("id = ? AND status = ? AND total_participants < max_participants", eventID, eventModel.StatusOpen).
		Updates(map[string]any{
			"total_participants": gorm.Expr("total_participants + 1"),
			"status": gorm.Expr("CASE WHEN total_participants + 1 >= max_participants THEN ? ELSE status END",
				eventModel.StatusFull),
		})
	if res.Error != nil {
		return false, apperror.FromDB(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ReleaseSeat gives a seat back and reopens a FULL event.
func ReleaseSeat(tx *gorm.DB, eventID uuid.UUID) error {
	err := tx.Model(&eventModel.Event{}).
		Where("id = ? AND total_participants > 0", eventID).
		Updates(map[string]any{
			"total_participants": gorm.Expr("total_participants - 1"),
			"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
				eventModel.StatusFull, eventModel.StatusOpen),
		}).Error
	if err != nil {
		return apperror.FromDB(err)
	}
	return nil
}

/* =========================================================
   GATEWAY CALLBACKS
   ========================================================= */

// ConfirmRedirect double-checks a browser redirect with the gateway's status
// API when redirect verification is on, returning the verified outcome and
// the gross amount the gateway reports. The claimed outcome is returned
// unchanged, with no amount, otherwise.
func (s *PaymentService) ConfirmRedirect(ctx context.Context, transactionID string, claimed Outcome) (Outcome, string, error) {
	if !s.cfg.VerifyRedirects || claimed != OutcomeSuccess {
		return claimed, "", nil
	}
	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout())
	defer cancel()

	st, err := s.gateway.Status(gctx, transactionID)
	if err != nil {
		s.log.Error("payment status check failed", "transaction_id", transactionID, "err", err)
		return "", "", apperror.Internal("Failed to verify payment", err)
	}
	return OutcomeFromGateway(st.TransactionStatus, st.FraudStatus), st.GrossAmount, nil
}

// VerifySignature checks SHA512(order_id + status_code + gross_amount + serverKey).
func (s *PaymentService) VerifySignature(n dto.Notification) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + s.cfg.MidtransServerKey))
	want := hex.EncodeToString(sum[:])
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// HandleNotification verifies and reconciles a server-to-server
// notification. Pending notifications are acknowledged without changes.
func (s *PaymentService) HandleNotification(ctx context.Context, n dto.Notification) (Outcome, error) {
	if strings.TrimSpace(n.OrderID) == "" {
		return "", apperror.BadRequest("order_id is required")
	}
	if !s.VerifySignature(n) {
		return "", apperror.Unauthorized("Invalid signature")
	}

	outcome := OutcomeFromGateway(n.TransactionStatus, n.FraudStatus)
	if outcome == OutcomePending {
		s.log.Info("payment notification pending", "transaction_id", n.OrderID, "status", n.TransactionStatus)
		return outcome, nil
	}

	_, err := s.Reconcile(ctx, n.OrderID, outcome, map[string]any{
		"transactionStatus":    n.TransactionStatus,
		"fraudStatus":          n.FraudStatus,
		"paymentType":          n.PaymentType,
		"gatewayTransactionId": n.TransactionID,
		DetailGrossAmount:      n.GrossAmount,
	})
	return outcome, err
}
