package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func cookiesByName(resp *http.Response) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSetAndClearSessionCookies(t *testing.T) {
	cfg := CookieConfig{Secure: true, SameSite: fiber.CookieSameSiteStrictMode}
	pair := TokenPair{
		AccessToken:      "access",
		AccessExpiresAt:  time.Now().Add(time.Hour),
		RefreshToken:     "refresh",
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
	}

	app := fiber.New()
	app.Post("/in", func(c *fiber.Ctx) error {
		SetSessionCookies(c, cfg, pair)
		return c.SendStatus(http.StatusNoContent)
	})
	app.Post("/out", func(c *fiber.Ctx) error {
		ClearSessionCookies(c, cfg)
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/in", nil))
	require.NoError(t, err)
	set := cookiesByName(resp)
	require.Contains(t, set, AccessCookieName)
	require.Contains(t, set, RefreshCookieName)
	assert.Equal(t, "access", set[AccessCookieName].Value)
	assert.True(t, set[AccessCookieName].HttpOnly)
	assert.True(t, set[AccessCookieName].Secure)
	assert.Equal(t, "/", set[RefreshCookieName].Path)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/out", nil))
	require.NoError(t, err)
	cleared := cookiesByName(resp)
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		require.Contains(t, cleared, name)
		assert.Empty(t, cleared[name].Value)
		assert.True(t, cleared[name].Expires.Before(time.Now()), name)
		assert.True(t, cleared[name].Expires.Equal(fasthttp.CookieExpireDelete), name)
		assert.True(t, cleared[name].HttpOnly, name)
	}
	for _, raw := range resp.Header.Values("Set-Cookie") {
		assert.Contains(t, raw, "expires=Tue, 10 Nov 2009 23:00:00 GMT")
		assert.NotContains(t, raw, "max-age")
	}
}
