package request

import (
	"time"

	"coupon-service/internal/domain/coupon"
	"coupon-service/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID  uuid.UUID `json:"productId" binding:"required"`
	CategoryID uuid.UUID `json:"categoryId" binding:"required"`
}

type ValidateCouponRequest struct {
	Code      string          `json:"code" binding:"required"`
	CartItems []CartItem      `json:"cartItems"`
	Subtotal  decimal.Decimal `json:"subtotal" binding:"required"`
}

func (r ValidateCouponRequest) ToInput(userID *uuid.UUID) commands.ValidateCouponInput {
	items := make([]coupon.CartLine, len(r.CartItems))
	for i, it := range r.CartItems {
		items[i] = coupon.CartLine{ProductID: it.ProductID, CategoryID: it.CategoryID}
	}
	return commands.ValidateCouponInput{
		Code:     r.Code,
		UserID:   userID,
		Items:    items,
		Subtotal: r.Subtotal,
	}
}

type CreateCouponRequest struct {
	Code            string           `json:"code" binding:"required"`
	DiscountType    string           `json:"discountType" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discountAmount,omitempty"`
	MaxDiscount     *decimal.Decimal `json:"maxDiscount,omitempty"`
	StartsAt        time.Time        `json:"startsAt" binding:"required"`
	EndsAt          time.Time        `json:"endsAt" binding:"required"`
	MinPurchase     *decimal.Decimal `json:"minPurchase,omitempty"`
	UsageLimit      *int32           `json:"usageLimit,omitempty"`
	UserUsageLimit  *int32           `json:"userUsageLimit,omitempty"`
	UserIDs         []uuid.UUID      `json:"userIds,omitempty"`
	ApplyToAll      bool             `json:"applyToAll"`
	ProductIDs      []uuid.UUID      `json:"productIds,omitempty"`
	CategoryIDs     []uuid.UUID      `json:"categoryIds,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
}

func (r CreateCouponRequest) ToInput() commands.CreateCouponInput {
	// New coupons default to active unless the caller says otherwise.
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return commands.CreateCouponInput{
		Code:            r.Code,
		DiscountType:    r.DiscountType,
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		MaxDiscount:     r.MaxDiscount,
		StartsAt:        r.StartsAt,
		EndsAt:          r.EndsAt,
		MinPurchase:     r.MinPurchase,
		UsageLimit:      r.UsageLimit,
		UserUsageLimit:  r.UserUsageLimit,
		UserIDs:         r.UserIDs,
		ApplyToAll:      r.ApplyToAll,
		ProductIDs:      r.ProductIDs,
		CategoryIDs:     r.CategoryIDs,
		IsActive:        isActive,
	}
}

type GenerateCodeRequest struct {
	Length int `json:"length,omitempty"`
}

type RedeemCouponRequest struct {
	UserID  uuid.UUID `json:"userId" binding:"required"`
	OrderID uuid.UUID `json:"orderId" binding:"required"`
}
