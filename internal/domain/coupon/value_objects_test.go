//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"coupon-service/internal/domain/coupon"
	"coupon-service/tests/common/builder"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		errIs error
	}{
		{name: "uppercase alphanumeric", input: "SAVE10", want: "SAVE10"},
		{name: "lowercase is normalized", input: "save10", want: "SAVE10"},
		{name: "surrounding whitespace trimmed", input: "  SAVE10  ", want: "SAVE10"},
		{name: "minimum length", input: "ABC", want: "ABC"},
		{name: "maximum length", input: "ABCDEFGHIJ1234567890", want: "ABCDEFGHIJ1234567890"},
		{name: "too short", input: "AB", errIs: coupon.ErrInvalidCouponCode},
		{name: "too long", input: "ABCDEFGHIJ12345678901", errIs: coupon.ErrInvalidCouponCode},
		{name: "empty", input: "", errIs: coupon.ErrInvalidCouponCode},
		{name: "special characters", input: "SAVE-10", errIs: coupon.ErrInvalidCouponCode},
		{name: "embedded space", input: "SAVE 10", errIs: coupon.ErrInvalidCouponCode},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, err := coupon.NewCode(c.input)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, code.String())
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", coupon.NormalizeCode(" save10 "))
	// Not validated: unknown garbage should surface as not-found downstream.
	assert.Equal(t, "!!", coupon.NormalizeCode("!!"))
}

func TestNewDiscount(t *testing.T) {
	ten := decimal.NewFromInt(10)
	hundredOne := decimal.NewFromInt(101)
	zero := decimal.Zero
	negative := decimal.NewFromInt(-5)

	cases := []struct {
		name    string
		kind    coupon.DiscountType
		percent *decimal.Decimal
		amount  *decimal.Decimal
		max     *decimal.Decimal
		errIs   error
	}{
		{name: "valid percentage", kind: coupon.DiscountPercentage, percent: &ten},
		{name: "valid percentage with cap", kind: coupon.DiscountPercentage, percent: &ten, max: &ten},
		{name: "valid fixed", kind: coupon.DiscountFixed, amount: &ten},
		{name: "percentage over 100", kind: coupon.DiscountPercentage, percent: &hundredOne, errIs: coupon.ErrInvalidDiscountPercent},
		{name: "percentage zero", kind: coupon.DiscountPercentage, percent: &zero, errIs: coupon.ErrInvalidDiscountPercent},
		{name: "percentage missing value", kind: coupon.DiscountPercentage, errIs: coupon.ErrMissingDiscount},
		{name: "percentage with conflicting amount", kind: coupon.DiscountPercentage, percent: &ten, amount: &ten, errIs: coupon.ErrConflictingDiscount},
		{name: "fixed zero", kind: coupon.DiscountFixed, amount: &zero, errIs: coupon.ErrInvalidDiscountAmount},
		{name: "fixed negative", kind: coupon.DiscountFixed, amount: &negative, errIs: coupon.ErrInvalidDiscountAmount},
		{name: "fixed missing value", kind: coupon.DiscountFixed, errIs: coupon.ErrMissingDiscount},
		{name: "fixed with conflicting percent", kind: coupon.DiscountFixed, amount: &ten, percent: &ten, errIs: coupon.ErrConflictingDiscount},
		{name: "non-positive max discount", kind: coupon.DiscountPercentage, percent: &ten, max: &zero, errIs: coupon.ErrInvalidMaxDiscount},
		{name: "unknown type", kind: coupon.DiscountType("BOGOF"), errIs: coupon.ErrMissingDiscount},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := coupon.NewDiscount(c.kind, c.percent, c.amount, c.max)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewCoupon(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)
		assert.Equal(t, "SAVE10", actual.Code().String())
		assert.True(t, actual.IsActive())
	})

	t.Run("code is normalized on creation", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().WithCode("summer25").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "SUMMER25", actual.Code().String())
	})

	t.Run("start must precede end", func(t *testing.T) {
		now := time.Now()
		_, err := builder.NewCouponBuilder().WithWindow(now, now).BuildDomain()
		require.ErrorIs(t, err, coupon.ErrInvalidDateWindow)

		_, err = builder.NewCouponBuilder().WithWindow(now.Add(time.Hour), now).BuildDomain()
		require.ErrorIs(t, err, coupon.ErrInvalidDateWindow)
	})

	t.Run("invalid code rejected", func(t *testing.T) {
		_, err := builder.NewCouponBuilder().WithCode("x").BuildDomain()
		require.ErrorIs(t, err, coupon.ErrInvalidCouponCode)
	})
}

func TestDiscountAmountFor(t *testing.T) {
	cases := []struct {
		name     string
		build    func() (coupon.Discount, error)
		subtotal string
		want     string
	}{
		{
			name: "10 percent of 50",
			build: func() (coupon.Discount, error) {
				return coupon.NewPercentageDiscount(decimal.NewFromInt(10), nil)
			},
			subtotal: "50.00",
			want:     "5.00",
		},
		{
			name: "rounding half-up",
			build: func() (coupon.Discount, error) {
				return coupon.NewPercentageDiscount(decimal.NewFromInt(15), nil)
			},
			subtotal: "33.33",
			want:     "5.00",
		},
		{
			name: "max discount cap",
			build: func() (coupon.Discount, error) {
				ceiling := decimal.RequireFromString("7.50")
				return coupon.NewPercentageDiscount(decimal.NewFromInt(20), &ceiling)
			},
			subtotal: "100.00",
			want:     "7.50",
		},
		{
			name: "fixed below subtotal",
			build: func() (coupon.Discount, error) {
				return coupon.NewFixedDiscount(decimal.RequireFromString("20.00"))
			},
			subtotal: "80.00",
			want:     "20.00",
		},
		{
			name: "fixed clamped to subtotal",
			build: func() (coupon.Discount, error) {
				return coupon.NewFixedDiscount(decimal.RequireFromString("20.00"))
			},
			subtotal: "15.00",
			want:     "15.00",
		},
		{
			name: "100 percent",
			build: func() (coupon.Discount, error) {
				return coupon.NewPercentageDiscount(decimal.NewFromInt(100), nil)
			},
			subtotal: "42.42",
			want:     "42.42",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, err := c.build()
			require.NoError(t, err)
			got := d.AmountFor(decimal.RequireFromString(c.subtotal))
			assert.Equal(t, c.want, got.StringFixed(2))
		})
	}
}
