package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/store-admin/internal/config"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/observability"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// GiftCodeAlphabet excludes the look-alike characters 0, O, 1 and I.
const GiftCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const maxCodeAttempts = 10

// PurchaseInput describes a gift code bought by an order item.
type PurchaseInput struct {
	Amount      int64
	OrderItemID string
	CustomerID  *string
	ExpiresAt   *time.Time
}

// GiftCodeService issues gift codes, at most one per order item.
type GiftCodeService struct {
	codes    repository.GiftCodeRepository
	length   int
	validity time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
	generate func(length int) (string, error)
}

// NewGiftCodeService constructs the service.
func NewGiftCodeService(codes repository.GiftCodeRepository, cfg config.GiftCodeConfig, metrics *observability.Metrics, logger *zap.Logger) *GiftCodeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	length := cfg.Length
	if length <= 0 {
		length = 8
	}
	days := cfg.ValidityDays
	if days <= 0 {
		days = 365
	}
	return &GiftCodeService{
		codes:    codes,
		length:   length,
		validity: time.Duration(days) * 24 * time.Hour,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		generate: GenerateGiftCode,
	}
}

// GenerateGiftCode returns length characters drawn uniformly from GiftCodeAlphabet.
func GenerateGiftCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(GiftCodeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b.WriteByte(GiftCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Purchase returns the code for the order item, creating it on first call.
// The boolean reports whether this call created it.
func (s *GiftCodeService) Purchase(ctx context.Context, storeID string, in PurchaseInput) (*domain.GiftCode, bool, error) {
	if in.Amount <= 0 || strings.TrimSpace(in.OrderItemID) == "" {
		return nil, false, apperrors.NewValidationError("amount and orderItemId are required", nil)
	}

	if err := s.checkOrderItem(ctx, storeID, in.OrderItemID); err != nil {
		return nil, false, err
	}

	existing, err := s.existing(ctx, storeID, in.OrderItemID)
	if err != nil || existing != nil {
		return existing, false, err
	}

	expires := s.now().Add(s.validity)
	if in.ExpiresAt != nil && !in.ExpiresAt.IsZero() {
		expires = *in.ExpiresAt
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		value, err := s.generate(s.length)
		if err != nil {
			s.metrics.RecordGiftCode(false)
			return nil, false, apperrors.NewInternalError(err)
		}
		code := &domain.GiftCode{
			StoreID:   storeID,
			Code:      value,
			Amount:    in.Amount,
			IsActive:  true,
			ExpiresAt: expires.UTC(),
		}
		purchase := &domain.GiftCodePurchase{OrderItemID: in.OrderItemID, CustomerID: in.CustomerID}

		err = s.codes.CreateWithPurchase(ctx, code, purchase)
		switch {
		case err == nil:
			s.metrics.RecordGiftCode(true)
			s.logger.Info("gift code issued",
				zap.String("store_id", storeID),
				zap.String("order_item_id", in.OrderItemID),
				zap.String("gift_code_id", code.ID))
			return code, true, nil
		case errors.Is(err, repository.ErrCodeTaken):
			s.logger.Debug("gift code collision, regenerating", zap.Int("attempt", attempt+1))
			continue
		case errors.Is(err, repository.ErrPurchaseExists):
			// Lost a race against a concurrent purchase for the same item.
			existing, lookupErr := s.existing(ctx, storeID, in.OrderItemID)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if existing != nil {
				return existing, false, nil
			}
			return nil, false, apperrors.NewInternalError(err)
		default:
			s.metrics.RecordGiftCode(false)
			return nil, false, apperrors.MapError(err)
		}
	}
	s.metrics.RecordGiftCode(false)
	return nil, false, apperrors.NewInternalError(fmt.Errorf("no free gift code after %d attempts", maxCodeAttempts))
}

// checkOrderItem reports items of other stores as missing so their existence
// does not leak across stores.
func (s *GiftCodeService) checkOrderItem(ctx context.Context, storeID, orderItemID string) error {
	owner, err := s.codes.OrderItemStore(ctx, orderItemID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	if err != nil || owner != storeID {
		return apperrors.NewNotFound("order item", map[string]any{"orderItemId": orderItemID})
	}
	return nil
}

func (s *GiftCodeService) existing(ctx context.Context, storeID, orderItemID string) (*domain.GiftCode, error) {
	code, err := s.codes.GetByOrderItem(ctx, storeID, orderItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return code, nil
}

// List returns the store's gift codes, newest first.
func (s *GiftCodeService) List(ctx context.Context, storeID string) ([]domain.GiftCode, error) {
	out, err := s.codes.ListByStore(ctx, storeID)
	return out, apperrors.MapError(err)
}

// Delete removes a gift code together with its purchase record.
func (s *GiftCodeService) Delete(ctx context.Context, storeID, id string) error {
	return notFoundAs(s.codes.Delete(ctx, storeID, id), "gift code")
}
