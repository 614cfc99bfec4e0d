package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

const storeKey = "auth_store"

// RequireAdmin ensures an authenticated admin is present.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized(ErrNotAuthenticated.Error())
		}
		return c.Next()
	}
}

// RequireStoreOwner ensures the :storeId route parameter names a store owned by the caller.
// Unknown stores are reported as forbidden so store ids cannot be probed.
func RequireStoreOwner(stores repository.StoreRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(ErrNotAuthenticated.Error())
		}

		storeID := c.Params("storeId")
		if _, err := uuid.Parse(storeID); err != nil {
			return apperrors.NewValidationError("invalid store id", map[string]any{"storeId": storeID})
		}

		store, err := stores.GetByID(c.UserContext(), storeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewForbidden("store access denied")
			}
			return apperrors.MapError(err)
		}
		if !store.OwnedBy(principal.AdminID()) {
			return apperrors.NewForbidden("store access denied")
		}

		c.Locals(storeKey, store)
		return c.Next()
	}
}

// StoreFromContext returns the store loaded by RequireStoreOwner.
func StoreFromContext(c *fiber.Ctx) (*domain.Store, bool) {
	store, ok := c.Locals(storeKey).(*domain.Store)
	return store, ok
}
