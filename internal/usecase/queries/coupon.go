package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)
type CouponView struct {
	ID              uuid.UUID        `json:"id"`
	Code            string           `json:"code"`
	DiscountType    string           `json:"discount_type"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	MaxDiscount     *decimal.Decimal `json:"max_discount,omitempty"`
	StartsAt        time.Time        `json:"starts_at"`
	EndsAt          time.Time        `json:"ends_at"`
	MinPurchase     *decimal.Decimal `json:"min_purchase,omitempty"`
	UsageLimit      *int32           `json:"usage_limit,omitempty"`
	UsageCount      int32            `json:"usage_count"`
	UserUsageLimit  *int32           `json:"user_usage_limit,omitempty"`
	ApplyToAll      bool             `json:"apply_to_all"`
	ProductIDs      []uuid.UUID      `json:"product_ids,omitempty"`
	CategoryIDs     []uuid.UUID      `json:"category_ids,omitempty"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type CouponListItem struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	DiscountType string    `json:"discount_type"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	UsageCount   int32     `json:"usage_count"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type CouponQueries interface {
	GetByCode(ctx context.Context, code string) (*CouponView, error)
	List(ctx context.Context, limit, offset int) ([]*CouponListItem, error)
}

type CouponViewRepo interface {
	FindViewByCode(ctx context.Context, code string) (*CouponView, error)
	ListViews(ctx context.Context, limit, offset int32) ([]*CouponListItem, error)
}

type couponQueriesImpl struct {
	repo CouponViewRepo
}

func NewCouponQueries(repo CouponViewRepo) CouponQueries {
	return &couponQueriesImpl{repo: repo}
}

func (q *couponQueriesImpl) GetByCode(ctx context.Context, code string) (*CouponView, error) {
	return q.repo.FindViewByCode(ctx, code)
}

func (q *couponQueriesImpl) List(ctx context.Context, limit, offset int) ([]*CouponListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return q.repo.ListViews(ctx, int32(limit), int32(offset))
}
