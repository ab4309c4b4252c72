package commands

import (
	"context"
	"time"

	"coupon-service/internal/domain/coupon"
	"coupon-service/internal/infra"
	"coupon-service/internal/pkg/clock"
	"coupon-service/internal/pkg/config"
	"coupon-service/internal/pkg/errs"
	"coupon-service/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateCode           = errs.New("coupon code already exists")
	ErrCodeGenerationExhausted = errs.New("could not generate a unique coupon code")
	ErrCouponLookupFailed      = errs.New("coupon lookup failed")
	ErrUsageCountFailed        = errs.New("usage count lookup failed")
)

type ValidateCouponInput struct {
	Code     string
	UserID   *uuid.UUID
	Items    []coupon.CartLine
	Subtotal decimal.Decimal
}

type CreateCouponInput struct {
	Code            string
	DiscountType    string
	DiscountPercent *decimal.Decimal
	DiscountAmount  *decimal.Decimal
	MaxDiscount     *decimal.Decimal
	StartsAt        time.Time
	EndsAt          time.Time
	MinPurchase     *decimal.Decimal
	UsageLimit      *int32
	UserUsageLimit  *int32
	UserIDs         []uuid.UUID
	ApplyToAll      bool
	ProductIDs      []uuid.UUID
	CategoryIDs     []uuid.UUID
	IsActive        bool
}

type CouponCommands interface {
	// Validate answers "is this coupon currently eligible for this cart" and
	// computes the discount. Pure read: no counters move here.
	Validate(ctx context.Context, in ValidateCouponInput) (*coupon.Evaluation, error)
	// Redeem records a usage at order placement, transactionally re-checking
	// the caps. This is the write boundary Validate deliberately lacks.
	Redeem(ctx context.Context, code string, userID, orderID uuid.UUID) error
	Create(ctx context.Context, in CreateCouponInput) (uuid.UUID, error)
	GenerateUniqueCode(ctx context.Context, length int) (string, error)
}

type couponCommandsImpl struct {
	reads  shared.CouponReadStore
	writes shared.CouponWriteRepository
	clock  clock.Clock
	cfg    config.CouponConfig
}

func NewCouponCommands(
	reads shared.CouponReadStore,
	writes shared.CouponWriteRepository,
	clk clock.Clock,
	cfg config.Config,
) CouponCommands {
	return &couponCommandsImpl{
		reads:  reads,
		writes: writes,
		clock:  clk,
		cfg:    cfg.Coupon,
	}
}

func (uc *couponCommandsImpl) Validate(ctx context.Context, in ValidateCouponInput) (*coupon.Evaluation, error) {
	snap, err := uc.reads.FindByCode(ctx, coupon.NormalizeCode(in.Code))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, coupon.ErrNotFound
		}
		return nil, errs.Mark(err, ErrCouponLookupFailed)
	}

	entity, err := snapshotToEntity(snap)
	if err != nil {
		return nil, coupon.ErrInvalidConfiguration
	}

	input := coupon.EvaluationInput{
		UserID:   in.UserID,
		Items:    in.Items,
		Subtotal: in.Subtotal,
	}

	// The per-user count is the engine's only other repository read; fetch it
	// up front so evaluation itself stays pure.
	if entity.UserUsageLimit() != nil && in.UserID != nil {
		count, err := uc.reads.CountUsagesByUser(ctx, entity.ID(), *in.UserID)
		if err != nil {
			return nil, errs.Mark(err, ErrUsageCountFailed)
		}
		input.PriorUserUsage = count
	}

	opts := coupon.Options{FailClosedForAnonymous: uc.cfg.FailClosedForAnonymous}
	return coupon.Evaluate(entity, input, uc.clock.Now(), opts)
}

func (uc *couponCommandsImpl) Redeem(ctx context.Context, code string, userID, orderID uuid.UUID) error {
	snap, err := uc.reads.FindByCode(ctx, coupon.NormalizeCode(code))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return coupon.ErrNotFound
		}
		return errs.Mark(err, ErrCouponLookupFailed)
	}
	return uc.writes.RecordUsage(ctx, snap.ID, userID, orderID)
}

func (uc *couponCommandsImpl) Create(ctx context.Context, in CreateCouponInput) (uuid.UUID, error) {
	discount, err := coupon.NewDiscount(
		coupon.DiscountType(in.DiscountType),
		in.DiscountPercent,
		in.DiscountAmount,
		in.MaxDiscount,
	)
	if err != nil {
		return uuid.Nil, err
	}

	entity, err := coupon.NewCoupon(coupon.NewCouponParams{
		Code:           in.Code,
		Discount:       discount,
		StartsAt:       in.StartsAt,
		EndsAt:         in.EndsAt,
		MinPurchase:    in.MinPurchase,
		UsageLimit:     in.UsageLimit,
		UserUsageLimit: in.UserUsageLimit,
		UserIDs:        in.UserIDs,
		ApplyToAll:     in.ApplyToAll,
		ProductIDs:     in.ProductIDs,
		CategoryIDs:    in.CategoryIDs,
		IsActive:       in.IsActive,
	})
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uc.writes.Create(ctx, entity)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateCode
		}
		return uuid.Nil, err
	}
	return id, nil
}

// GenerateUniqueCode draws random codes until one is unused, bounded by the
// configured attempt limit rather than looping forever.
func (uc *couponCommandsImpl) GenerateUniqueCode(ctx context.Context, length int) (string, error) {
	attempts := uc.cfg.CodeGenerationAttempts
	if attempts <= 0 {
		attempts = 10
	}

	for range attempts {
		code := coupon.GenerateCode(length)
		exists, err := uc.reads.CodeExists(ctx, code)
		if err != nil {
			return "", errs.Mark(err, ErrCouponLookupFailed)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}

func snapshotToEntity(snap *shared.CouponSnapshot) (*coupon.Coupon, error) {
	discount, err := coupon.NewDiscount(
		coupon.DiscountType(snap.DiscountType),
		snap.DiscountPercent,
		snap.DiscountAmount,
		snap.MaxDiscount,
	)
	if err != nil {
		return nil, err
	}

	return coupon.Reconstruct(coupon.ReconstructParams{
		ID:             snap.ID,
		Code:           snap.Code,
		Discount:       discount,
		StartsAt:       snap.StartsAt,
		EndsAt:         snap.EndsAt,
		MinPurchase:    snap.MinPurchase,
		UsageLimit:     snap.UsageLimit,
		UsageCount:     snap.UsageCount,
		UserUsageLimit: snap.UserUsageLimit,
		UserIDs:        snap.UserIDs,
		ApplyToAll:     snap.ApplyToAll,
		ProductIDs:     snap.ProductIDs,
		CategoryIDs:    snap.CategoryIDs,
		IsActive:       snap.IsActive,
		CreatedAt:      snap.CreatedAt,
		UpdatedAt:      snap.UpdatedAt,
	}), nil
}
