package helper

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// GetRawAccessToken returns the access token from:
// 1) Authorization header ("Bearer <token>" or the bare token)
// 2) cookie "accessToken"
func GetRawAccessToken(c *fiber.Ctx) string {
	if auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); auth != "" {
		fields := strings.Fields(auth)
		switch {
		case len(fields) == 1 && !strings.EqualFold(fields[0], "Bearer"):
			return strings.Trim(fields[0], "\"'")
		case len(fields) == 2 && strings.EqualFold(fields[0], "Bearer"):
			return strings.Trim(fields[1], "\"'")
		default:
			return ""
		}
	}
	return strings.TrimSpace(c.Cookies(AccessTokenCookie))
}

func GetRefreshTokenFromCookie(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Cookies(RefreshTokenCookie))
}

// SetAuthCookie writes an httpOnly token cookie; secure outside development.
func SetAuthCookie(c *fiber.Ctx, name, value string, ttl time.Duration, secure bool) {
	sameSite := fiber.CookieSameSiteLaxMode
	if secure {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

func ClearAuthCookie(c *fiber.Ctx, name string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
	})
}
