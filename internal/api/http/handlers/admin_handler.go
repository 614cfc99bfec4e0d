package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-admin/internal/api/dto"
	"github.com/spec-kit/store-admin/internal/auth"
	"github.com/spec-kit/store-admin/internal/service"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// AdminHandler exposes the cookie-based admin session endpoints.
type AdminHandler struct {
	auth    *service.AuthService
	cookies auth.CookieConfig
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, cookies auth.CookieConfig) *AdminHandler {
	return &AdminHandler{auth: authService, cookies: cookies}
}

// fail answers with the {success:false,error} envelope the dashboard expects.
func fail(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	message := domainErr.Message
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		message = "internal server error"
	}
	return c.Status(domainErr.HTTPStatus).JSON(dto.AdminAuthResponse{Success: false, Error: message})
}

// Envelope renders errors raised further down the admin group, such as a
// missing session, in the admin envelope instead of the generic error body.
func (h *AdminHandler) Envelope(c *fiber.Ctx) error {
	if err := c.Next(); err != nil {
		return fail(c, err)
	}
	return nil
}

func validEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), "email") == nil
}

// Register handles POST /api/admin/register.
func (h *AdminHandler) Register(c *fiber.Ctx) error {
	var req dto.AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.NewValidationError("invalid payload", nil))
	}
	if strings.TrimSpace(req.Email) != "" && !validEmail(req.Email) {
		return fail(c, apperrors.NewValidationError("invalid email format", nil))
	}

	admin, pair, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return fail(c, err)
	}
	auth.SetSessionCookies(c, h.cookies, pair)
	return c.Status(fiber.StatusCreated).JSON(dto.AdminAuthResponse{Success: true, UserID: admin.ID})
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.NewValidationError("invalid payload", nil))
	}

	admin, pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	auth.SetSessionCookies(c, h.cookies, pair)
	return c.JSON(dto.AdminAuthResponse{Success: true, UserID: admin.ID})
}

// Refresh handles POST /api/admin/refresh.
func (h *AdminHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(auth.RefreshCookieName)
	if token == "" {
		return fail(c, apperrors.NewUnauthorized("no refresh token"))
	}

	admin, pair, err := h.auth.Refresh(c.UserContext(), token)
	if err != nil {
		if apperrors.StatusOf(err) == fiber.StatusUnauthorized {
			auth.ClearSessionCookies(c, h.cookies)
		}
		return fail(c, err)
	}
	auth.SetSessionCookies(c, h.cookies, pair)
	return c.JSON(dto.AdminAuthResponse{Success: true, UserID: admin.ID})
}

// Logout handles POST /api/admin/logout.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	auth.ClearSessionCookies(c, h.cookies)
	return c.JSON(dto.AdminAuthResponse{Success: true})
}

// Me handles GET /api/admin/me.
func (h *AdminHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fail(c, apperrors.NewUnauthorized(auth.ErrNotAuthenticated.Error()))
	}
	return c.JSON(dto.AdminAuthResponse{Success: true, UserID: principal.Admin.ID, Email: principal.Admin.Email})
}

// ChangePassword handles POST /api/admin/password.
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := adminID(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	pair, err := h.auth.ChangePassword(c.UserContext(), id, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return fail(c, err)
	}
	auth.SetSessionCookies(c, h.cookies, pair)
	return c.JSON(dto.AdminAuthResponse{Success: true, UserID: id})
}

// Revoke handles POST /api/admin/revoke: every session of the admin ends.
func (h *AdminHandler) Revoke(c *fiber.Ctx) error {
	id, err := adminID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.auth.RevokeSessions(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	auth.ClearSessionCookies(c, h.cookies)
	return c.JSON(dto.AdminAuthResponse{Success: true})
}
