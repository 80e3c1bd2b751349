package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/features/users/auth/dto"
	"eventhub_backend/internals/features/users/auth/service"
	helper "eventhub_backend/internals/helpers"
)

type AuthController struct {
	Service *service.AuthService
	cfg     *configs.Config
}

func NewAuthController(svc *service.AuthService, cfg *configs.Config) *AuthController {
	return &AuthController{Service: svc, cfg: cfg}
}

func (ac *AuthController) secureCookies() bool { return !ac.cfg.IsDevelopment() }

func (ac *AuthController) setTokenCookies(c *fiber.Ctx, access, refresh string) {
	helper.SetAuthCookie(c, helper.AccessTokenCookie, access, ac.cfg.JWT.AccessExpires, ac.secureCookies())
	helper.SetAuthCookie(c, helper.RefreshTokenCookie, refresh, ac.cfg.JWT.RefreshExpires, ac.secureCookies())
}

// POST /auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return err
	}
	res, err := ac.Service.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	ac.setTokenCookies(c, res.AccessToken, res.RefreshToken)
	return helper.JsonOK(c, "User logged in successfully", res)
}

// POST /auth/get-new-token  (cookie first, body as fallback)
func (ac *AuthController) GetNewAccessToken(c *fiber.Ctx) error {
	refresh := helper.GetRefreshTokenFromCookie(c)
	if refresh == "" && len(c.Body()) > 0 {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			refresh = strings.TrimSpace(req.RefreshToken)
		}
	}

	res, err := ac.Service.NewAccessToken(c.UserContext(), refresh)
	if err != nil {
		return err
	}
	ac.setTokenCookies(c, res.AccessToken, res.RefreshToken)
	return helper.JsonOK(c, "New access token generated successfully", res)
}

// POST /auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	helper.ClearAuthCookie(c, helper.AccessTokenCookie, ac.secureCookies())
	helper.ClearAuthCookie(c, helper.RefreshTokenCookie, ac.secureCookies())
	return helper.JsonOK(c, "User logged out successfully", nil)
}

// POST /auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return err
	}
	if err := ac.Service.ChangePassword(c.UserContext(), actor.UserID, req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Password changed successfully", nil)
}

// POST /auth/reset-password
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	var req dto.ResetPasswordRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return err
	}
	if err := ac.Service.ResetPassword(c.UserContext(), actor, req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Password reset successfully", nil)
}
