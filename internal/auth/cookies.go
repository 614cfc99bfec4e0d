package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	AccessCookieName  = "admin_access_token"
	RefreshCookieName = "admin_refresh_token"
)

// CookieConfig carries the attributes shared by both session cookies.
type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite string
}

// SetSessionCookies writes the access and refresh tokens as http-only cookies.
func SetSessionCookies(c *fiber.Ctx, cfg CookieConfig, pair TokenPair) {
	c.Cookie(sessionCookie(cfg, AccessCookieName, pair.AccessToken, pair.AccessExpiresAt))
	c.Cookie(sessionCookie(cfg, RefreshCookieName, pair.RefreshToken, pair.RefreshExpiresAt))
}

// ClearSessionCookies expires both session cookies. fasthttp writes max-age
// only when positive, so deletion relies on an expiry in the past.
func ClearSessionCookies(c *fiber.Ctx, cfg CookieConfig) {
	c.Cookie(sessionCookie(cfg, AccessCookieName, "", fasthttp.CookieExpireDelete))
	c.Cookie(sessionCookie(cfg, RefreshCookieName, "", fasthttp.CookieExpireDelete))
}

func sessionCookie(cfg CookieConfig, name, value string, expires time.Time) *fiber.Cookie {
	sameSite := cfg.SameSite
	if sameSite == "" {
		sameSite = fiber.CookieSameSiteLaxMode
	}
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Domain,
		Expires:  expires,
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: sameSite,
	}
}
