package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

const principalKey = "auth_principal"

// ErrNotAuthenticated is the only failure surfaced to callers of protected routes.
var ErrNotAuthenticated = errors.New("not authenticated")

// Principal represents the authenticated caller.
type Principal struct {
	Admin  *domain.Admin
	Claims *Claims
}

// AdminID returns the caller's admin id.
func (p *Principal) AdminID() string {
	if p == nil || p.Admin == nil {
		return ""
	}
	return p.Admin.ID
}

// AuthMiddleware validates access tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	admins repository.AdminRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, admins repository.AdminRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, admins: admins}
}

// Authenticate resolves an access token to its admin. Signature, expiry, kind and
// token version all have to check out.
func (m *AuthMiddleware) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := m.tokens.VerifyKind(token, TokenKindAccess)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	admin, err := m.admins.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	if admin.TokenVersion != claims.TokenVersion {
		return nil, ErrNotAuthenticated
	}
	return &Principal{Admin: admin, Claims: claims}, nil
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")

	principal, err := m.Authenticate(c.UserContext(), accessTokenFrom(c))
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return apperrors.NewUnauthorized(ErrNotAuthenticated.Error())
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func accessTokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies(AccessCookieName); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
