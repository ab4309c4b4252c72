package shared

import (
	"context"
	"time"

	"coupon-service/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponSnapshot is a point-in-time read of a coupon row. UsageCount is the
// value at load time; the authoritative recheck happens inside the redeem
// transaction, not here.
type CouponSnapshot struct {
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

// CouponReadStore is the engine's read-side dependency: lookup by
// normalized code and the per-user usage count, plus the existence probe
// used by the code-generation retry loop.
type CouponReadStore interface {
	FindByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	CountUsagesByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

// CouponWriteRepository owns the transactional redeem boundary: the usage
// counter increment is a conditional update re-checked at commit time so two
// concurrent checkouts cannot both exceed the caps.
type CouponWriteRepository interface {
	Create(ctx context.Context, c *coupon.Coupon) (uuid.UUID, error)
	RecordUsage(ctx context.Context, couponID, userID, orderID uuid.UUID) error
}
