package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/store-admin/internal/domain"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

const (
	ownedStoreID   = "7d0c1c8e-5a0a-4d8c-9f3e-2a1b6f1e0a01"
	foreignStoreID = "7d0c1c8e-5a0a-4d8c-9f3e-2a1b6f1e0a02"
	missingStoreID = "7d0c1c8e-5a0a-4d8c-9f3e-2a1b6f1e0a03"
)

type fakeStores struct {
	byID map[string]*domain.Store
}

func (f *fakeStores) Create(context.Context, *domain.Store) error { return nil }
func (f *fakeStores) Update(context.Context, *domain.Store) error { return nil }
func (f *fakeStores) Delete(context.Context, string) error        { return nil }

func (f *fakeStores) GetByID(_ context.Context, id string) (*domain.Store, error) {
	if s, ok := f.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStores) ListByOwner(context.Context, string) ([]domain.Store, error) {
	return nil, nil
}

func newOwnerApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	mw, tokens, _ := newTestMiddleware()
	stores := &fakeStores{byID: map[string]*domain.Store{
		ownedStoreID:   {ID: ownedStoreID, Name: "Mine", OwnerID: "admin-1"},
		foreignStoreID: {ID: foreignStoreID, Name: "Theirs", OwnerID: "admin-2"},
	}}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/api/:storeId/orders", mw.Handle, RequireStoreOwner(stores), func(c *fiber.Ctx) error {
		store, ok := StoreFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(store.Name)
	})

	token, _, err := tokens.Issue("admin-1", 2, TokenKindAccess)
	require.NoError(t, err)
	return app, token
}

func TestRequireStoreOwner(t *testing.T) {
	app, token := newOwnerApp(t)

	cases := []struct {
		name    string
		storeID string
		status  int
		body    string
	}{
		{"owner", ownedStoreID, http.StatusOK, "Mine"},
		{"another admin's store", foreignStoreID, http.StatusForbidden, "FORBIDDEN"},
		{"unknown store", missingStoreID, http.StatusForbidden, "FORBIDDEN"},
		{"malformed store id", "not-a-uuid", http.StatusBadRequest, "VALIDATION_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/"+tc.storeID+"/orders", nil)
			req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: token})
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.body, string(body))
			assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))
		})
	}
}

func TestRequireStoreOwnerWithoutSession(t *testing.T) {
	stores := &fakeStores{byID: map[string]*domain.Store{}}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.StatusOf(err))
		},
	})
	app.Get("/api/:storeId/orders", RequireAdmin(), RequireStoreOwner(stores), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/"+ownedStoreID+"/orders", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
