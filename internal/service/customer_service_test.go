package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/store-admin/internal/domain"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

func TestCreateCustomerNormalizesContacts(t *testing.T) {
	svc := NewCustomerService(newMemCustomers())

	c, err := svc.Create(context.Background(), "store-1", CustomerInput{Name: " Ann ", Email: " Ann@Example.COM "})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "ann@example.com", c.Email)
}

func TestCustomerValidation(t *testing.T) {
	svc := NewCustomerService(newMemCustomers(&domain.Customer{ID: "cust-1", StoreID: "store-1", Phone: "+7900"}))

	_, err := svc.Create(context.Background(), "store-1", CustomerInput{Name: "No contacts"})
	assert.Equal(t, 400, apperrors.StatusOf(err))

	_, err = svc.Update(context.Background(), "store-1", "cust-1", CustomerInput{Name: "Blank", Email: " ", Phone: " "})
	assert.Equal(t, 400, apperrors.StatusOf(err))

	_, err = svc.AdjustBalance(context.Background(), "store-1", "cust-1", 0)
	assert.Equal(t, 400, apperrors.StatusOf(err))
}

func TestCustomerMissingOrForeignIsNotFound(t *testing.T) {
	svc := NewCustomerService(newMemCustomers(&domain.Customer{ID: "cust-2", StoreID: "store-2", Phone: "+7900"}))
	ctx := context.Background()

	for _, id := range []string{"ghost", "cust-2"} {
		_, err := svc.Get(ctx, "store-1", id)
		assert.Equal(t, 404, apperrors.StatusOf(err), id)

		_, err = svc.Update(ctx, "store-1", id, CustomerInput{Phone: "+7911"})
		assert.Equal(t, 404, apperrors.StatusOf(err), id)

		_, err = svc.AdjustBalance(ctx, "store-1", id, 100)
		assert.Equal(t, 404, apperrors.StatusOf(err), id)

		assert.Equal(t, 404, apperrors.StatusOf(svc.Delete(ctx, "store-1", id)), id)
	}
}

func TestAdjustBalanceCreditsAndDebits(t *testing.T) {
	svc := NewCustomerService(newMemCustomers(&domain.Customer{ID: "cust-1", StoreID: "store-1", Phone: "+7900", Balance: 500}))

	c, err := svc.AdjustBalance(context.Background(), "store-1", "cust-1", 1500)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), c.Balance)

	c, err = svc.AdjustBalance(context.Background(), "store-1", "cust-1", -700)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), c.Balance)
}
