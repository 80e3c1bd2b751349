package auth

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/constants"
	helper "eventhub_backend/internals/helpers"
	helpersAuth "eventhub_backend/internals/helpers/auth"
	"eventhub_backend/internals/helpers/testdb"
	"eventhub_backend/internals/middlewares"
)

func TestCheckAuth(t *testing.T) {
	db := testdb.Open(t)
	tokens := helpersAuth.NewTokenService(configs.JWTConfig{
		AccessSecret: "a", AccessExpires: time.Hour,
		RefreshSecret: "r", RefreshExpires: time.Hour,
	})
	cfg := &configs.Config{Env: configs.EnvProduction}
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.NewErrorHandler(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil))),
	})
	app.Get("/admin", CheckAuth(tokens, db, constants.AdminRoles...), func(c *fiber.Ctx) error {
		actor, err := helper.GetActor(c)
		if err != nil {
			return err
		}
		return c.SendString(actor.Role)
	})

	user := testdb.User(t, db, constants.RoleUser)
	admin := testdb.User(t, db, constants.RoleAdmin)
	blocked := testdb.User(t, db, constants.RoleAdmin)
	db.Model(blocked).Update("status", constants.UserStatusBlocked)

	userTok, _ := tokens.IssueAccess(user.ID, user.Email, user.Role)
	adminTok, _ := tokens.IssueAccess(admin.ID, admin.Email, admin.Role)
	blockedTok, _ := tokens.IssueAccess(blocked.ID, blocked.Email, blocked.Role)

	cases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no token", "", "", fiber.StatusUnauthorized},
		{"garbage token", "Bearer nope", "", fiber.StatusUnauthorized},
		{"wrong role", "Bearer " + userTok, "", fiber.StatusForbidden},
		{"blocked", "Bearer " + blockedTok, "", fiber.StatusForbidden},
		{"admin header", "Bearer " + adminTok, "", fiber.StatusOK},
		{"admin raw header", adminTok, "", fiber.StatusOK},
		{"admin cookie", "", adminTok, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			if tc.cookie != "" {
				req.Header.Set(fiber.HeaderCookie, helper.AccessTokenCookie+"="+tc.cookie)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.want {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("status %d, want %d: %s", resp.StatusCode, tc.want, body)
			}
		})
	}
}
