package response

import (
	"time"

	"coupon-service/internal/domain/coupon"
	"coupon-service/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidateCouponResponse is the success envelope: the matched coupon and the
// discount computed against the submitted subtotal. Decimals serialize as
// JSON numbers via shopspring's MarshalJSON.
type ValidateCouponResponse struct {
	Valid    bool            `json:"valid"`
	Coupon   CouponSummary   `json:"coupon"`
	Discount decimal.Decimal `json:"discount"`
}

type CouponSummary struct {
	ID              uuid.UUID        `json:"id"`
	Code            string           `json:"code"`
	DiscountType    string           `json:"discountType"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discountAmount,omitempty"`
	MaxDiscount     *decimal.Decimal `json:"maxDiscount,omitempty"`
	MinPurchase     *decimal.Decimal `json:"minPurchase,omitempty"`
	StartsAt        time.Time        `json:"startsAt"`
	EndsAt          time.Time        `json:"endsAt"`
}

func FromEvaluation(ev *coupon.Evaluation) *ValidateCouponResponse {
	c := ev.Coupon
	d := c.Discount()

	summary := CouponSummary{
		ID:           c.ID(),
		Code:         c.Code().String(),
		DiscountType: string(d.Type()),
		MaxDiscount:  d.MaxDiscount(),
		MinPurchase:  c.MinPurchase(),
		StartsAt:     c.StartsAt(),
		EndsAt:       c.EndsAt(),
	}
	if d.IsPercentage() {
		percent := d.Percent()
		summary.DiscountPercent = &percent
	} else {
		amount := d.Amount()
		summary.DiscountAmount = &amount
	}

	return &ValidateCouponResponse{
		Valid:    true,
		Coupon:   summary,
		Discount: ev.Discount,
	}
}

type CouponResponse struct {
	ID              uuid.UUID        `json:"id"`
	Code            string           `json:"code"`
	DiscountType    string           `json:"discountType"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discountAmount,omitempty"`
	MaxDiscount     *decimal.Decimal `json:"maxDiscount,omitempty"`
	StartsAt        time.Time        `json:"startsAt"`
	EndsAt          time.Time        `json:"endsAt"`
	MinPurchase     *decimal.Decimal `json:"minPurchase,omitempty"`
	UsageLimit      *int32           `json:"usageLimit,omitempty"`
	UsageCount      int32            `json:"usageCount"`
	UserUsageLimit  *int32           `json:"userUsageLimit,omitempty"`
	ApplyToAll      bool             `json:"applyToAll"`
	ProductIDs      []uuid.UUID      `json:"productIds,omitempty"`
	CategoryIDs     []uuid.UUID      `json:"categoryIds,omitempty"`
	IsActive        bool             `json:"isActive"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type CouponListResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	DiscountType string    `json:"discountType"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	UsageCount   int32     `json:"usageCount"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateCouponResponse struct {
	ID uuid.UUID `json:"id"`
}

type GenerateCodeResponse struct {
	Code string `json:"code"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:              v.ID,
		Code:            v.Code,
		DiscountType:    v.DiscountType,
		DiscountPercent: v.DiscountPercent,
		DiscountAmount:  v.DiscountAmount,
		MaxDiscount:     v.MaxDiscount,
		StartsAt:        v.StartsAt,
		EndsAt:          v.EndsAt,
		MinPurchase:     v.MinPurchase,
		UsageLimit:      v.UsageLimit,
		UsageCount:      v.UsageCount,
		UserUsageLimit:  v.UserUsageLimit,
		ApplyToAll:      v.ApplyToAll,
		ProductIDs:      v.ProductIDs,
		CategoryIDs:     v.CategoryIDs,
		IsActive:        v.IsActive,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func FromCouponListItem(v *queries.CouponListItem) *CouponListResponse {
	return &CouponListResponse{
		ID:           v.ID,
		Code:         v.Code,
		DiscountType: v.DiscountType,
		StartsAt:     v.StartsAt,
		EndsAt:       v.EndsAt,
		UsageCount:   v.UsageCount,
		IsActive:     v.IsActive,
		CreatedAt:    v.CreatedAt,
	}
}
