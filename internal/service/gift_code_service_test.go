package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/store-admin/internal/config"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

func TestGenerateGiftCodeUsesUnambiguousAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateGiftCode(8)
		require.NoError(t, err)
		require.Len(t, code, 8)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(GiftCodeAlphabet, r), "unexpected %q in %s", r, code)
		}
	}
}

func TestPurchaseIsIdempotentPerOrderItem(t *testing.T) {
	repo := newMemGiftCodes().withItems("store-1", "item-1")
	svc := NewGiftCodeService(repo, config.GiftCodeConfig{Length: 8, ValidityDays: 365}, nil, nil)

	first, created, err := svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 5000, OrderItemID: "item-1"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 5000, OrderItemID: "item-1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, 1, repo.count())
}

func TestPurchaseRegeneratesOnCollision(t *testing.T) {
	repo := newMemGiftCodes().withItems("store-1", "item-1")
	repo.codes["taken"] = &domain.GiftCode{ID: "taken", StoreID: "store-1", Code: "AAAAAAAA"}
	svc := NewGiftCodeService(repo, config.GiftCodeConfig{}, nil, nil)

	candidates := []string{"AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
	svc.generate = func(int) (string, error) {
		next := candidates[0]
		candidates = candidates[1:]
		return next, nil
	}

	code, created, err := svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 100, OrderItemID: "item-1"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "BBBBBBBB", code.Code)
	assert.Empty(t, candidates)
}

func TestPurchaseDefaultsExpiryToValidityWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewGiftCodeService(newMemGiftCodes().withItems("store-1", "item-1", "item-2"), config.GiftCodeConfig{ValidityDays: 365}, nil, nil)
	svc.now = func() time.Time { return now }

	code, _, err := svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 100, OrderItemID: "item-1"})
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 365), code.ExpiresAt)
	assert.False(t, code.Expired(now))
	assert.True(t, code.Expired(now.AddDate(2, 0, 0)))

	explicit := now.Add(48 * time.Hour)
	code, _, err = svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 100, OrderItemID: "item-2", ExpiresAt: &explicit})
	require.NoError(t, err)
	assert.Equal(t, explicit, code.ExpiresAt)
}

func TestPurchaseValidatesInput(t *testing.T) {
	svc := NewGiftCodeService(newMemGiftCodes(), config.GiftCodeConfig{}, nil, nil)

	_, _, err := svc.Purchase(context.Background(), "store-1", PurchaseInput{OrderItemID: "item-1"})
	assert.Equal(t, 400, apperrors.StatusOf(err))

	_, _, err = svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 100})
	assert.Equal(t, 400, apperrors.StatusOf(err))
}

type racingGiftCodes struct {
	*memGiftCodes
	lookups int
}

// GetByOrderItem misses on the first lookup to simulate a purchase that lands
// between the existence check and the insert.
func (r *racingGiftCodes) GetByOrderItem(ctx context.Context, storeID, orderItemID string) (*domain.GiftCode, error) {
	r.lookups++
	if r.lookups == 1 {
		return r.memGiftCodes.GetByOrderItem(ctx, storeID, "missing")
	}
	return r.memGiftCodes.GetByOrderItem(ctx, storeID, orderItemID)
}

func TestPurchaseReturnsWinnerAfterLostRace(t *testing.T) {
	mem := newMemGiftCodes().withItems("store-1", "item-1")
	winner := &domain.GiftCode{StoreID: "store-1", Code: "WINNER22", Amount: 100}
	require.NoError(t, mem.CreateWithPurchase(context.Background(), winner, &domain.GiftCodePurchase{OrderItemID: "item-1"}))

	var repo repository.GiftCodeRepository = &racingGiftCodes{memGiftCodes: mem}
	svc := NewGiftCodeService(repo, config.GiftCodeConfig{}, nil, nil)

	code, created, err := svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 100, OrderItemID: "item-1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "WINNER22", code.Code)
	assert.Equal(t, 1, mem.count())
}

func TestPurchaseRejectsOrderItemOfAnotherStore(t *testing.T) {
	repo := newMemGiftCodes().withItems("store-1", "item-1").withItems("store-2", "item-2")
	svc := NewGiftCodeService(repo, config.GiftCodeConfig{}, nil, nil)

	// store-2 owns item-2; store-1 must neither claim it nor see it.
	_, _, err := svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 100, OrderItemID: "item-2"})
	assert.Equal(t, 404, apperrors.StatusOf(err))
	assert.Equal(t, 0, repo.count())

	_, _, err = svc.Purchase(context.Background(), "store-1", PurchaseInput{Amount: 100, OrderItemID: "unknown"})
	assert.Equal(t, 404, apperrors.StatusOf(err))

	code, created, err := svc.Purchase(context.Background(), "store-2", PurchaseInput{Amount: 100, OrderItemID: "item-2"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "store-2", code.StoreID)

	// A code issued for store-2 is not returned to store-1 either.
	got, err := svc.existing(context.Background(), "store-1", "item-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteGiftCodeMissing(t *testing.T) {
	svc := NewGiftCodeService(newMemGiftCodes(), config.GiftCodeConfig{}, nil, nil)
	err := svc.Delete(context.Background(), "store-1", "nope")
	assert.Equal(t, 404, apperrors.StatusOf(err))
}
