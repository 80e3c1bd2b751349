package service

import (
	"context"
	"math"
	"net/http"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"eventhub_backend/internals/configs"
)

// CheckoutRequest is what the hosted checkout needs to bill one participation.
type CheckoutRequest struct {
	TransactionID string
	Amount        float64
	ItemID        string
	ItemName      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

type CheckoutResult struct {
	Token       string
	RedirectURL string
}

// GatewayStatus is the gateway's view of one transaction.
type GatewayStatus struct {
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	GrossAmount       string
}

// Gateway is the payment provider behind init and redirect verification.
type Gateway interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	Status(ctx context.Context, transactionID string) (*GatewayStatus, error)
}

/* =========================================================
   Midtrans (Snap checkout + Core API status)
   ========================================================= */

type MidtransGateway struct {
	snap      snap.Client
	core      coreapi.Client
	finishURL string
}

// NewMidtransGateway builds the Snap and Core API clients. Every outbound
// call is bounded by cfg.GatewayTimeout.
func NewMidtransGateway(cfg configs.PaymentConfig, backendURL string) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.MidtransProduction {
		env = midtrans.Production
	}
	timeout := cfg.GatewayTimeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	// the SDK builds its http client from this package variable
	midtrans.DefaultGoHttpClient = &http.Client{Timeout: timeout}

	g := &MidtransGateway{finishURL: backendURL + "/api/v1/payment/success"}
	g.snap.New(cfg.MidtransServerKey, env)
	g.core.New(cfg.MidtransServerKey, env)
	return g
}

func (g *MidtransGateway) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	amount := int64(math.Round(req.Amount))
	sreq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.TransactionID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    req.ItemID,
			Name:  truncate(req.ItemName, 50),
			Price: amount,
			Qty:   1,
		}},
		Callbacks: &snap.Callbacks{Finish: g.finishURL},
	}

	return callWithContext(ctx, func() (*CheckoutResult, error) {
		resp, merr := g.snap.CreateTransaction(sreq)
		if merr != nil {
			return nil, merr
		}
		return &CheckoutResult{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
	})
}

func (g *MidtransGateway) Status(ctx context.Context, transactionID string) (*GatewayStatus, error) {
	return callWithContext(ctx, func() (*GatewayStatus, error) {
		resp, merr := g.core.CheckTransaction(transactionID)
		if merr != nil {
			return nil, merr
		}
		return &GatewayStatus{
			TransactionStatus: resp.TransactionStatus,
			FraudStatus:       resp.FraudStatus,
			StatusCode:        resp.StatusCode,
			GrossAmount:       resp.GrossAmount,
		}, nil
	})
}

// callWithContext returns early when ctx ends; the SDK call itself is
// bounded by the http client timeout.
func callWithContext[T any](ctx context.Context, fn func() (*T, error)) (*T, error) {
	type result struct {
		v   *T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
