package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventhub_backend/internals/features/payments/payment/model"
	"eventhub_backend/internals/helpers/apperror"
)

const (
	transactionPrefix  = "Tnx-"
	transactionIDChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	transactionIDLen   = 8
)

// GenerateTransactionID returns "Tnx-" followed by 8 random alphanumerics.
func GenerateTransactionID() (string, error) {
	buf := make([]byte, transactionIDLen)
	max := big.NewInt(int64(len(transactionIDChars)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate transaction id: %w", err)
		}
		buf[i] = transactionIDChars[n.Int64()]
	}
	return transactionPrefix + string(buf), nil
}

// EnsurePending returns the single non-PAID payment of (user, event) with a
// fresh transaction id and PENDING status, creating it when none exists.
// amount is only used for a new row; a reused row keeps the amount it was
// created with, so a checkout retry bills what the join quoted. Must run
// inside the caller's transaction.
func EnsurePending(tx *gorm.DB, userID, eventID uuid.UUID, amount float64) (*model.Payment, error) {
	return ensurePending(tx, userID, eventID, amount, false)
}

// EnsurePendingForJoin is EnsurePending for a new participation: a reused
// row is re-priced to amount, the event's fee at join time.
func EnsurePendingForJoin(tx *gorm.DB, userID, eventID uuid.UUID, amount float64) (*model.Payment, error) {
	return ensurePending(tx, userID, eventID, amount, true)
}

func ensurePending(tx *gorm.DB, userID, eventID uuid.UUID, amount float64, reprice bool) (*model.Payment, error) {
	txID, err := GenerateTransactionID()
	if err != nil {
		return nil, apperror.Internal("Failed to generate transaction id", err)
	}

	var p model.Payment
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND event_id = ? AND payment_status <> ?", userID, eventID, model.StatusPaid).
		Order("created_at DESC").
		First(&p).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = model.Payment{
			UserID:        userID,
			EventID:       eventID,
			Amount:        amount,
			TransactionID: txID,
			PaymentStatus: model.StatusPending,
		}
		if err := tx.Create(&p).Error; err != nil {
			return nil, apperror.FromDB(err)
		}
		return &p, nil
	case err != nil:
		return nil, apperror.FromDB(err)
	}

	p.TransactionID = txID
	p.PaymentStatus = model.StatusPending
	p.PaymentURL = nil
	cols := []string{"transaction_id", "payment_status", "payment_url"}
	if reprice {
		p.Amount = amount
		cols = append(cols, "amount")
	}
	if err := tx.Model(&p).Select(cols).Updates(&p).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &p, nil
}

// CascadeStatus follows a participation change onto its latest payment. A
// PAID payment keeps its status and is flagged for refund instead.
func CascadeStatus(tx *gorm.DB, userID, eventID uuid.UUID, status string) error {
	var p model.Payment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Order("created_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return apperror.FromDB(err)
	}

	if p.PaymentStatus == model.StatusPaid {
		return tx.Model(&p).Update("gateway_data", withGatewayData(p.GatewayData, map[string]any{
			"refundRequired": true,
			"refundReason":   status,
		})).Error
	}
	if p.PaymentStatus == status {
		return nil
	}
	return tx.Model(&p).Update("payment_status", status).Error
}

// withGatewayData returns a copy of base with extra merged on top plus the
// update time.
func withGatewayData(base map[string]any, extra map[string]any) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(base)+len(extra)+1)
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	out["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	return out
}
