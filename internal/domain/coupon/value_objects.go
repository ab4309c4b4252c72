package coupon

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("fixed discount amount must be positive")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be in (0, 100]")
	ErrInvalidMaxDiscount     = errors.New("max discount must be positive")
	ErrConflictingDiscount    = errors.New("discount must be either percentage or fixed amount, not both")
	ErrMissingDiscount        = errors.New("discount must have either percentage or fixed amount")
)

// Codes are stored normalized to uppercase; lookups are case-insensitive.
var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCode(code string) (Code, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

// NormalizeCode uppercases without validating, for repository lookups
// where an unknown code must surface as not-found rather than bad format.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
)

var hundred = decimal.NewFromInt(100)

type Discount struct {
	kind        DiscountType
	percent     decimal.Decimal
	amount      decimal.Decimal
	maxDiscount *decimal.Decimal
}

func NewPercentageDiscount(percent decimal.Decimal, maxDiscount *decimal.Decimal) (Discount, error) {
	if !percent.IsPositive() || percent.GreaterThan(hundred) {
		return Discount{}, ErrInvalidDiscountPercent
	}
	if maxDiscount != nil && !maxDiscount.IsPositive() {
		return Discount{}, ErrInvalidMaxDiscount
	}
	return Discount{kind: DiscountPercentage, percent: percent, maxDiscount: maxDiscount}, nil
}

func NewFixedDiscount(amount decimal.Decimal) (Discount, error) {
	if !amount.IsPositive() {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{kind: DiscountFixed, amount: amount}, nil
}

// NewDiscount builds the discount from loosely-typed storage columns.
// Exactly one of percent/amount must be populated, matching the declared type.
func NewDiscount(kind DiscountType, percent, amount, maxDiscount *decimal.Decimal) (Discount, error) {
	switch kind {
	case DiscountPercentage:
		if percent == nil {
			return Discount{}, ErrMissingDiscount
		}
		if amount != nil {
			return Discount{}, ErrConflictingDiscount
		}
		return NewPercentageDiscount(*percent, maxDiscount)
	case DiscountFixed:
		if amount == nil {
			return Discount{}, ErrMissingDiscount
		}
		if percent != nil {
			return Discount{}, ErrConflictingDiscount
		}
		return NewFixedDiscount(*amount)
	default:
		return Discount{}, ErrMissingDiscount
	}
}

func (d Discount) Type() DiscountType { return d.kind }

func (d Discount) IsPercentage() bool { return d.kind == DiscountPercentage }

func (d Discount) IsFixed() bool { return d.kind == DiscountFixed }

func (d Discount) Percent() decimal.Decimal { return d.percent }

func (d Discount) Amount() decimal.Decimal { return d.amount }

func (d Discount) MaxDiscount() *decimal.Decimal { return d.maxDiscount }

// AmountFor computes the discount against the given subtotal.
// PERCENTAGE: subtotal * percent / 100, clamped to maxDiscount when set.
// FIXED_AMOUNT: the amount, clamped to the subtotal (never exceeds cart value).
// The result is rounded to 2 decimal places half-up (decimal.Round rounds
// half away from zero, which is half-up for non-negative money).
func (d Discount) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch d.kind {
	case DiscountPercentage:
		discount = subtotal.Mul(d.percent).Div(hundred)
		if d.maxDiscount != nil && discount.GreaterThan(*d.maxDiscount) {
			discount = *d.maxDiscount
		}
	case DiscountFixed:
		discount = d.amount
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount.Round(2)
}
