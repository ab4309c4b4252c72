//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "coupon-service/internal/domain/coupon"
	reqdto "coupon-service/internal/handler/dto/request"
	"coupon-service/internal/usecase/queries"
	"coupon-service/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponBuilder assembles coupons for tests. The default is a 10 percent
// discount, active, valid for the surrounding year, unrestricted.
type CouponBuilder struct {
	ID              uuid.UUID
	Code            string
	DiscountType    string
	DiscountPercent *decimal.Decimal
	DiscountAmount  *decimal.Decimal
	MaxDiscount     *decimal.Decimal
	StartsAt        time.Time
	EndsAt          time.Time
	MinPurchase     *decimal.Decimal
	UsageLimit      *int32
	UsageCount      int32
	UserUsageLimit  *int32
	UserIDs         []uuid.UUID
	ApplyToAll      bool
	ProductIDs      []uuid.UUID
	CategoryIDs     []uuid.UUID
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewCouponBuilder() *CouponBuilder {
	now := time.Now()
	percent := decimal.NewFromInt(10)
	return &CouponBuilder{
		ID:              uuid.New(),
		Code:            "SAVE10",
		DiscountType:    string(domcoupon.DiscountPercentage),
		DiscountPercent: &percent,
		StartsAt:        now.AddDate(0, -1, 0),
		EndsAt:          now.AddDate(0, 11, 0),
		ApplyToAll:      true,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

// Build methods

func (b *CouponBuilder) BuildDiscount() (domcoupon.Discount, error) {
	return domcoupon.NewDiscount(
		domcoupon.DiscountType(b.DiscountType),
		b.DiscountPercent,
		b.DiscountAmount,
		b.MaxDiscount,
	)
}

func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	discount, err := b.BuildDiscount()
	if err != nil {
		return nil, err
	}
	return domcoupon.NewCoupon(domcoupon.NewCouponParams{
		Code:           b.Code,
		Discount:       discount,
		StartsAt:       b.StartsAt,
		EndsAt:         b.EndsAt,
		MinPurchase:    b.MinPurchase,
		UsageLimit:     b.UsageLimit,
		UserUsageLimit: b.UserUsageLimit,
		UserIDs:        b.UserIDs,
		ApplyToAll:     b.ApplyToAll,
		ProductIDs:     b.ProductIDs,
		CategoryIDs:    b.CategoryIDs,
		IsActive:       b.IsActive,
	})
}

// BuildEntity reconstructs the aggregate as if loaded from storage, so tests
// can set usage counts and skip creation invariants.
func (b *CouponBuilder) BuildEntity() *domcoupon.Coupon {
	discount, err := b.BuildDiscount()
	if err != nil {
		panic("builder produced invalid discount: " + err.Error())
	}
	return domcoupon.Reconstruct(domcoupon.ReconstructParams{
		ID:             b.ID,
		Code:           b.Code,
		Discount:       discount,
		StartsAt:       b.StartsAt,
		EndsAt:         b.EndsAt,
		MinPurchase:    b.MinPurchase,
		UsageLimit:     b.UsageLimit,
		UsageCount:     b.UsageCount,
		UserUsageLimit: b.UserUsageLimit,
		UserIDs:        b.UserIDs,
		ApplyToAll:     b.ApplyToAll,
		ProductIDs:     b.ProductIDs,
		CategoryIDs:    b.CategoryIDs,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	})
}

func (b *CouponBuilder) BuildSnapshot() *shared.CouponSnapshot {
	return &shared.CouponSnapshot{
		ID:              b.ID,
		Code:            b.Code,
		DiscountType:    b.DiscountType,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		MaxDiscount:     b.MaxDiscount,
		StartsAt:        b.StartsAt,
		EndsAt:          b.EndsAt,
		MinPurchase:     b.MinPurchase,
		UsageLimit:      b.UsageLimit,
		UsageCount:      b.UsageCount,
		UserUsageLimit:  b.UserUsageLimit,
		UserIDs:         b.UserIDs,
		ApplyToAll:      b.ApplyToAll,
		ProductIDs:      b.ProductIDs,
		CategoryIDs:     b.CategoryIDs,
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	return &queries.CouponView{
		ID:              b.ID,
		Code:            b.Code,
		DiscountType:    b.DiscountType,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		MaxDiscount:     b.MaxDiscount,
		StartsAt:        b.StartsAt,
		EndsAt:          b.EndsAt,
		MinPurchase:     b.MinPurchase,
		UsageLimit:      b.UsageLimit,
		UsageCount:      b.UsageCount,
		UserUsageLimit:  b.UserUsageLimit,
		ApplyToAll:      b.ApplyToAll,
		ProductIDs:      b.ProductIDs,
		CategoryIDs:     b.CategoryIDs,
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (b *CouponBuilder) BuildListItem() *queries.CouponListItem {
	return &queries.CouponListItem{
		ID:           b.ID,
		Code:         b.Code,
		DiscountType: b.DiscountType,
		StartsAt:     b.StartsAt,
		EndsAt:       b.EndsAt,
		UsageCount:   b.UsageCount,
		IsActive:     b.IsActive,
		CreatedAt:    b.CreatedAt,
	}
}

func (b *CouponBuilder) BuildCreateRequestDTO() reqdto.CreateCouponRequest {
	isActive := b.IsActive
	return reqdto.CreateCouponRequest{
		Code:            b.Code,
		DiscountType:    b.DiscountType,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		MaxDiscount:     b.MaxDiscount,
		StartsAt:        b.StartsAt,
		EndsAt:          b.EndsAt,
		MinPurchase:     b.MinPurchase,
		UsageLimit:      b.UsageLimit,
		UserUsageLimit:  b.UserUsageLimit,
		UserIDs:         b.UserIDs,
		ApplyToAll:      b.ApplyToAll,
		ProductIDs:      b.ProductIDs,
		CategoryIDs:     b.CategoryIDs,
		IsActive:        &isActive,
	}
}

// Fluent builder methods

func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.Code = code
	return b
}

func (b *CouponBuilder) WithPercentage(percent int64) *CouponBuilder {
	p := decimal.NewFromInt(percent)
	b.DiscountType = string(domcoupon.DiscountPercentage)
	b.DiscountPercent = &p
	b.DiscountAmount = nil
	return b
}

func (b *CouponBuilder) WithFixedAmount(amount string) *CouponBuilder {
	a := decimal.RequireFromString(amount)
	b.DiscountType = string(domcoupon.DiscountFixed)
	b.DiscountAmount = &a
	b.DiscountPercent = nil
	b.MaxDiscount = nil
	return b
}

func (b *CouponBuilder) WithMaxDiscount(amount string) *CouponBuilder {
	m := decimal.RequireFromString(amount)
	b.MaxDiscount = &m
	return b
}

func (b *CouponBuilder) WithMinPurchase(amount string) *CouponBuilder {
	m := decimal.RequireFromString(amount)
	b.MinPurchase = &m
	return b
}

func (b *CouponBuilder) WithWindow(startsAt, endsAt time.Time) *CouponBuilder {
	b.StartsAt = startsAt
	b.EndsAt = endsAt
	return b
}

func (b *CouponBuilder) WithUsageLimit(limit int32, count int32) *CouponBuilder {
	b.UsageLimit = &limit
	b.UsageCount = count
	return b
}

func (b *CouponBuilder) WithUserUsageLimit(limit int32) *CouponBuilder {
	b.UserUsageLimit = &limit
	return b
}

func (b *CouponBuilder) WithUserIDs(ids ...uuid.UUID) *CouponBuilder {
	b.UserIDs = ids
	return b
}

func (b *CouponBuilder) WithProductScope(ids ...uuid.UUID) *CouponBuilder {
	b.ApplyToAll = false
	b.ProductIDs = ids
	return b
}

func (b *CouponBuilder) WithCategoryScope(ids ...uuid.UUID) *CouponBuilder {
	b.ApplyToAll = false
	b.CategoryIDs = ids
	return b
}

func (b *CouponBuilder) AsInactive() *CouponBuilder {
	b.IsActive = false
	return b
}

func (b *CouponBuilder) AsExpired() *CouponBuilder {
	now := time.Now()
	b.StartsAt = now.AddDate(0, -2, 0)
	b.EndsAt = now.AddDate(0, -1, 0)
	return b
}
