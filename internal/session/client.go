package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the server rejects the session cookies.
var ErrUnauthorized = errors.New("session: unauthorized")

// Identity is the signed-in admin as reported by /api/admin/me.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// API is the admin auth surface a Session drives.
type API interface {
	Me(ctx context.Context) (*Identity, error)
	Login(ctx context.Context, email, password string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

// HTTPClient implements API over the admin endpoints, keeping the session
// cookies in a jar between calls.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for baseURL such as https://admin.example.com.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Identity
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = raw
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%s %s: %s", method, path, msg)
	}
	return &env, nil
}

// Me reports the admin behind the current cookies.
func (c *HTTPClient) Me(ctx context.Context) (*Identity, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/admin/me", nil)
	if err != nil {
		return nil, err
	}
	id := env.Identity
	return &id, nil
}

// Login exchanges credentials for session cookies.
func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/admin/login", map[string]string{"email": email, "password": password})
	return err
}

// Refresh rotates the session cookies.
func (c *HTTPClient) Refresh(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/admin/refresh", nil)
	return err
}

// Logout clears the session cookies server side.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/admin/logout", nil)
	return err
}
