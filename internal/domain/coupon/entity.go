package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidDateWindow = errors.New("start date must be before end date")

// Coupon is a read-mostly aggregate: the engine never mutates persisted
// state, and usageCount is a point-in-time snapshot taken at load.
type Coupon struct {
	id             uuid.UUID
	code           Code
	discount       Discount
	startsAt       time.Time
	endsAt         time.Time
	minPurchase    *decimal.Decimal
	usageLimit     *int32
	usageCount     int32
	userUsageLimit *int32
	userIDs        []uuid.UUID
	applyToAll     bool
	productIDs     []uuid.UUID
	categoryIDs    []uuid.UUID
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

type NewCouponParams struct {
	Code           string
	Discount       Discount
	StartsAt       time.Time
	EndsAt         time.Time
	MinPurchase    *decimal.Decimal
	UsageLimit     *int32
	UserUsageLimit *int32
	UserIDs        []uuid.UUID
	ApplyToAll     bool
	ProductIDs     []uuid.UUID
	CategoryIDs    []uuid.UUID
	IsActive       bool
}

func NewCoupon(p NewCouponParams) (*Coupon, error) {
	code, err := NewCode(p.Code)
	if err != nil {
		return nil, err
	}
	if !p.StartsAt.Before(p.EndsAt) {
		return nil, ErrInvalidDateWindow
	}
	return &Coupon{
		id:             uuid.New(),
		code:           code,
		discount:       p.Discount,
		startsAt:       p.StartsAt,
		endsAt:         p.EndsAt,
		minPurchase:    p.MinPurchase,
		usageLimit:     p.UsageLimit,
		userUsageLimit: p.UserUsageLimit,
		userIDs:        p.UserIDs,
		applyToAll:     p.ApplyToAll,
		productIDs:     p.ProductIDs,
		categoryIDs:    p.CategoryIDs,
		isActive:       p.IsActive,
	}, nil
}

type ReconstructParams struct {
	ID             uuid.UUID
	Code           string
	Discount       Discount
	StartsAt       time.Time
	EndsAt         time.Time
	MinPurchase    *decimal.Decimal
	UsageLimit     *int32
	UsageCount     int32
	UserUsageLimit *int32
	UserIDs        []uuid.UUID
	ApplyToAll     bool
	ProductIDs     []uuid.UUID
	CategoryIDs    []uuid.UUID
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reconstruct rebuilds the aggregate from a stored row. Unlike NewCoupon it
// does not re-run creation invariants: stored data is validated separately by
// the engine so a malformed row rejects instead of failing the load.
func Reconstruct(p ReconstructParams) *Coupon {
	return &Coupon{
		id:             p.ID,
		code:           Code(p.Code),
		discount:       p.Discount,
		startsAt:       p.StartsAt,
		endsAt:         p.EndsAt,
		minPurchase:    p.MinPurchase,
		usageLimit:     p.UsageLimit,
		usageCount:     p.UsageCount,
		userUsageLimit: p.UserUsageLimit,
		userIDs:        p.UserIDs,
		applyToAll:     p.ApplyToAll,
		productIDs:     p.ProductIDs,
		categoryIDs:    p.CategoryIDs,
		isActive:       p.IsActive,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}
}

// IsWithinWindow reports whether t falls inside [startsAt, endsAt], inclusive.
func (c *Coupon) IsWithinWindow(t time.Time) bool {
	return !t.Before(c.startsAt) && !t.After(c.endsAt)
}

func (c *Coupon) IsPersonalized() bool {
	return len(c.userIDs) > 0
}

func (c *Coupon) IsIssuedTo(userID uuid.UUID) bool {
	for _, id := range c.userIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Coupon) ID() uuid.UUID                 { return c.id }
func (c *Coupon) Code() Code                    { return c.code }
func (c *Coupon) Discount() Discount            { return c.discount }
func (c *Coupon) StartsAt() time.Time           { return c.startsAt }
func (c *Coupon) EndsAt() time.Time             { return c.endsAt }
func (c *Coupon) MinPurchase() *decimal.Decimal { return c.minPurchase }
func (c *Coupon) UsageLimit() *int32            { return c.usageLimit }
func (c *Coupon) UsageCount() int32             { return c.usageCount }
func (c *Coupon) UserUsageLimit() *int32        { return c.userUsageLimit }
func (c *Coupon) UserIDs() []uuid.UUID          { return c.userIDs }
func (c *Coupon) ApplyToAll() bool              { return c.applyToAll }
func (c *Coupon) ProductIDs() []uuid.UUID       { return c.productIDs }
func (c *Coupon) CategoryIDs() []uuid.UUID      { return c.categoryIDs }
func (c *Coupon) IsActive() bool                { return c.isActive }
func (c *Coupon) CreatedAt() time.Time          { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time          { return c.updatedAt }
