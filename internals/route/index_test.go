package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/configs"
	paymentService "eventhub_backend/internals/features/payments/payment/service"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	helperOSS "eventhub_backend/internals/helpers/oss"
	"eventhub_backend/internals/helpers/testdb"
	"eventhub_backend/internals/middlewares"
)

type noGateway struct{}

func (noGateway) Checkout(ctx context.Context, req paymentService.CheckoutRequest) (*paymentService.CheckoutResult, error) {
	return nil, errors.New("gateway disabled in tests")
}

func (noGateway) Status(ctx context.Context, id string) (*paymentService.GatewayStatus, error) {
	return nil, errors.New("gateway disabled in tests")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &configs.Config{
		Env:        configs.EnvDevelopment,
		BcryptCost: 4,
		JWT: configs.JWTConfig{
			AccessSecret:   "access",
			AccessExpires:  time.Hour,
			RefreshSecret:  "refresh",
			RefreshExpires: 2 * time.Hour,
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	blob, err := helperOSS.NewLocalBlobService(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.NewErrorHandler(cfg, blob, log)})
	SetupRoutes(app, Deps{
		DB:      testdb.Open(t),
		Config:  cfg,
		Tokens:  helpersAuth.NewTokenService(cfg.JWT),
		Blob:    blob,
		Gateway: noGateway{},
		Log:     log,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	if code, env := call(t, app, "POST", "/api/v1/users/register", "", fiber.Map{
		"name": name, "email": email, "password": "secret123",
	}); code != fiber.StatusCreated {
		t.Fatalf("register %s: %d %s", email, code, env.Message)
	}
	code, env := call(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{"email": email, "password": "secret123"})
	if code != fiber.StatusOK {
		t.Fatalf("login %s: %d %s", email, code, env.Message)
	}
	var res struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil || res.AccessToken == "" {
		t.Fatalf("login payload: %s", env.Data)
	}
	return res.AccessToken
}

func TestHealth(t *testing.T) {
	app := newApp(t)
	code, env := call(t, app, "GET", "/api/v1/health", "", nil)
	if code != fiber.StatusOK || !env.Success {
		t.Fatalf("health = %d %+v", code, env)
	}
}

func TestFreeEventFlow(t *testing.T) {
	app := newApp(t)
	hostToken := login(t, app, "Host One", "host@example.com")
	guestToken := login(t, app, "Guest One", "guest@example.com")

	code, env := call(t, app, "POST", "/api/v1/events/create-event", hostToken, fiber.Map{
		"title":           "Go Meetup",
		"category":        "tech",
		"description":     "An evening of Go talks",
		"date":            "2030-01-15",
		"time":            "19:00",
		"location":        "Jakarta",
		"minParticipants": 1,
		"maxParticipants": 1,
	})
	if code != fiber.StatusCreated {
		t.Fatalf("create event: %d %s", code, env.Message)
	}
	var ev struct {
		ID     string `json:"id"`
		Slug   string `json:"slug"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Slug != "go-meetup" || ev.Status != "OPEN" {
		t.Fatalf("event = %+v", ev)
	}

	if code, _ := call(t, app, "GET", "/api/v1/events/go-meetup", "", nil); code != fiber.StatusOK {
		t.Fatalf("public get = %d", code)
	}

	if code, env := call(t, app, "POST", "/api/v1/event-participants/join-event", hostToken, fiber.Map{"eventId": ev.ID}); code != fiber.StatusBadRequest {
		t.Fatalf("host joining own event = %d %s", code, env.Message)
	}

	code, env = call(t, app, "POST", "/api/v1/event-participants/join-event", guestToken, fiber.Map{"eventId": ev.ID})
	if code != fiber.StatusCreated {
		t.Fatalf("join = %d %s", code, env.Message)
	}

	_, env = call(t, app, "GET", "/api/v1/events/go-meetup", "", nil)
	_ = json.Unmarshal(env.Data, &ev)
	if ev.Status != "FULL" {
		t.Fatalf("status after last seat = %s", ev.Status)
	}

	if code, _ := call(t, app, "GET", "/api/v1/dashboard/meta-data", hostToken, nil); code != fiber.StatusForbidden {
		t.Fatalf("dashboard for non-admin = %d", code)
	}
	if code, _ := call(t, app, "GET", "/api/v1/event-participants", "", nil); code != fiber.StatusUnauthorized {
		t.Fatalf("participants without token = %d", code)
	}
}
