package dto

import (
	"strings"

	"eventhub_backend/internals/features/payments/payment/model"
)

type InitPaymentResponse struct {
	PaymentURL    string `json:"paymentUrl"`
	TransactionID string `json:"transactionId"`
}

// CallbackParams are read from the query string or form of a redirect
// callback. Midtrans appends order_id / transaction_status on its own.
type CallbackParams struct {
	TransactionID     string `query:"transactionId" form:"transactionId"`
	OrderID           string `query:"order_id" form:"order_id"`
	Amount            string `query:"amount" form:"amount"`
	Status            string `query:"status" form:"status"`
	TransactionStatus string `query:"transaction_status" form:"transaction_status"`
}

func (p CallbackParams) ID() string {
	if id := strings.TrimSpace(p.TransactionID); id != "" {
		return id
	}
	return strings.TrimSpace(p.OrderID)
}

// Notification is the server-to-server payload midtrans posts to the IPN
// endpoint.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
	TransactionTime   string `json:"transaction_time"`
}

// ReconcileResult is what a callback reports back to the browser.
type ReconcileResult struct {
	Payment *model.Payment
	Message string
	// false when the payment already had the target status
	Applied bool
}
