//go:build unit

package coupon_test

import (
	"errors"
	"testing"
	"time"

	"coupon-service/internal/domain/coupon"
	"coupon-service/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func windowAround(t time.Time) (time.Time, time.Time) {
	return t.AddDate(0, -1, 0), t.AddDate(0, 1, 0)
}

func evaluate(t *testing.T, b *builder.CouponBuilder, in coupon.EvaluationInput) (*coupon.Evaluation, error) {
	t.Helper()
	startsAt, endsAt := windowAround(evalNow)
	if b.StartsAt.IsZero() {
		b.WithWindow(startsAt, endsAt)
	}
	return coupon.Evaluate(b.BuildEntity(), in, evalNow, coupon.Options{})
}

func subtotalInput(subtotal string) coupon.EvaluationInput {
	return coupon.EvaluationInput{Subtotal: decimal.RequireFromString(subtotal)}
}

func TestEvaluate_Discounts(t *testing.T) {
	startsAt, endsAt := windowAround(evalNow)

	t.Run("percentage discount on subtotal", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithCode("SAVE10").WithPercentage(10).WithWindow(startsAt, endsAt)

		ev, err := evaluate(t, b, subtotalInput("50.00"))
		require.NoError(t, err)
		assert.True(t, ev.Discount.Equal(decimal.RequireFromString("5.00")), "got %s", ev.Discount)
	})

	t.Run("percentage discount clamped by max discount", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithPercentage(50).WithMaxDiscount("10.00").WithWindow(startsAt, endsAt)

		ev, err := evaluate(t, b, subtotalInput("100.00"))
		require.NoError(t, err)
		assert.True(t, ev.Discount.Equal(decimal.RequireFromString("10.00")), "got %s", ev.Discount)
	})

	t.Run("percentage rounds to 2 decimal places", func(t *testing.T) {
		// 15% of 33.33 = 4.9995, rounds half-up to 5.00
		b := builder.NewCouponBuilder().WithPercentage(15).WithWindow(startsAt, endsAt)

		ev, err := evaluate(t, b, subtotalInput("33.33"))
		require.NoError(t, err)
		assert.Equal(t, "5.00", ev.Discount.StringFixed(2))
	})

	t.Run("fixed discount", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithCode("FLAT20").WithFixedAmount("20.00").WithWindow(startsAt, endsAt)

		ev, err := evaluate(t, b, subtotalInput("80.00"))
		require.NoError(t, err)
		assert.True(t, ev.Discount.Equal(decimal.RequireFromString("20.00")), "got %s", ev.Discount)
	})

	t.Run("fixed discount never exceeds subtotal", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithCode("FLAT20").WithFixedAmount("20.00").WithWindow(startsAt, endsAt)

		ev, err := evaluate(t, b, subtotalInput("15.00"))
		require.NoError(t, err)
		assert.True(t, ev.Discount.Equal(decimal.RequireFromString("15.00")), "got %s", ev.Discount)
	})

	t.Run("zero subtotal yields zero discount", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithPercentage(10).WithWindow(startsAt, endsAt)

		ev, err := evaluate(t, b, subtotalInput("0"))
		require.NoError(t, err)
		assert.True(t, ev.Discount.IsZero())
	})
}

func TestEvaluate_RuleOrder(t *testing.T) {
	startsAt, endsAt := windowAround(evalNow)

	t.Run("inactive coupon", func(t *testing.T) {
		b := builder.NewCouponBuilder().AsInactive().WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.ErrorIs(t, err, coupon.ErrInactive)
	})

	t.Run("inactive wins over expired window", func(t *testing.T) {
		b := builder.NewCouponBuilder().AsInactive().
			WithWindow(evalNow.AddDate(0, -2, 0), evalNow.AddDate(0, -1, 0))

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.ErrorIs(t, err, coupon.ErrInactive)
	})

	t.Run("before window", func(t *testing.T) {
		b := builder.NewCouponBuilder().
			WithWindow(evalNow.AddDate(0, 1, 0), evalNow.AddDate(0, 2, 0))

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.ErrorIs(t, err, coupon.ErrOutOfWindow)
	})

	t.Run("after window", func(t *testing.T) {
		b := builder.NewCouponBuilder().AsExpired().
			WithWindow(evalNow.AddDate(0, -2, 0), evalNow.AddDate(0, -1, 0))

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.ErrorIs(t, err, coupon.ErrOutOfWindow)
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithWindow(evalNow, evalNow.AddDate(0, 1, 0))
		_, err := coupon.Evaluate(b.BuildEntity(), subtotalInput("50.00"), evalNow, coupon.Options{})
		require.NoError(t, err)

		b2 := builder.NewCouponBuilder().WithWindow(evalNow.AddDate(0, -1, 0), evalNow)
		_, err = coupon.Evaluate(b2.BuildEntity(), subtotalInput("50.00"), evalNow, coupon.Options{})
		require.NoError(t, err)
	})

	t.Run("global usage limit reached", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUsageLimit(100, 100).WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.ErrorIs(t, err, coupon.ErrUsageLimitReached)
	})

	t.Run("global usage limit with one slot left", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUsageLimit(100, 99).WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.NoError(t, err)
	})

	t.Run("minimum purchase not met carries the required amount", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithMinPurchase("30.00").WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("25.00"))
		require.ErrorIs(t, err, coupon.ErrBelowMinimumPurchase)

		var ve *coupon.ValidationError
		require.ErrorAs(t, err, &ve)
		require.NotNil(t, ve.RequiredMinimum)
		assert.Equal(t, "30.00", ve.RequiredMinimum.StringFixed(2))
	})

	t.Run("minimum purchase met exactly", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithMinPurchase("30.00").WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("30.00"))
		require.NoError(t, err)
	})
}

func TestEvaluate_UserRules(t *testing.T) {
	startsAt, endsAt := windowAround(evalNow)
	userID := uuid.New()

	t.Run("per-user limit reached", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUserUsageLimit(1).WithWindow(startsAt, endsAt)
		in := subtotalInput("50.00")
		in.UserID = &userID
		in.PriorUserUsage = 1

		_, err := evaluate(t, b, in)
		require.ErrorIs(t, err, coupon.ErrUserUsageLimitReached)
	})

	t.Run("per-user limit with remaining uses", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUserUsageLimit(2).WithWindow(startsAt, endsAt)
		in := subtotalInput("50.00")
		in.UserID = &userID
		in.PriorUserUsage = 1

		_, err := evaluate(t, b, in)
		require.NoError(t, err)
	})

	t.Run("guest skips per-user limit by default", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUserUsageLimit(1).WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.NoError(t, err)
	})

	t.Run("guest rejected when fail-closed is configured", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUserUsageLimit(1).WithWindow(startsAt, endsAt)

		_, err := coupon.Evaluate(b.BuildEntity(), subtotalInput("50.00"), evalNow,
			coupon.Options{FailClosedForAnonymous: true})
		require.ErrorIs(t, err, coupon.ErrUserUsageLimitReached)
	})

	t.Run("personalized coupon for issued user", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUserIDs(userID).WithWindow(startsAt, endsAt)
		in := subtotalInput("50.00")
		in.UserID = &userID

		_, err := evaluate(t, b, in)
		require.NoError(t, err)
	})

	t.Run("personalized coupon for a different user", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUserIDs(uuid.New()).WithWindow(startsAt, endsAt)
		in := subtotalInput("50.00")
		in.UserID = &userID

		_, err := evaluate(t, b, in)
		require.ErrorIs(t, err, coupon.ErrNotEligibleUser)
	})

	t.Run("personalized coupon for a guest", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUserIDs(uuid.New()).WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.ErrorIs(t, err, coupon.ErrNotEligibleUser)
	})
}

func TestEvaluate_Scope(t *testing.T) {
	startsAt, endsAt := windowAround(evalNow)
	productID := uuid.New()
	categoryID := uuid.New()

	cartWith := func(lines ...coupon.CartLine) coupon.EvaluationInput {
		in := subtotalInput("50.00")
		in.Items = lines
		return in
	}

	t.Run("product scope match", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithProductScope(productID).WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, cartWith(coupon.CartLine{ProductID: productID, CategoryID: uuid.New()}))
		require.NoError(t, err)
	})

	t.Run("category scope match", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithCategoryScope(categoryID).WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, cartWith(coupon.CartLine{ProductID: uuid.New(), CategoryID: categoryID}))
		require.NoError(t, err)
	})

	t.Run("either set matching suffices", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithProductScope(uuid.New()).WithCategoryScope(categoryID).
			WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, cartWith(coupon.CartLine{ProductID: uuid.New(), CategoryID: categoryID}))
		require.NoError(t, err)
	})

	t.Run("no line matches", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithProductScope(productID).WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, cartWith(coupon.CartLine{ProductID: uuid.New(), CategoryID: uuid.New()}))
		require.ErrorIs(t, err, coupon.ErrScopeMismatch)
	})

	t.Run("empty cart against scoped coupon", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithProductScope(productID).WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.ErrorIs(t, err, coupon.ErrScopeMismatch)
	})

	t.Run("scoped coupon with both sets empty rejects", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithWindow(startsAt, endsAt)
		b.ApplyToAll = false

		_, err := evaluate(t, b, cartWith(coupon.CartLine{ProductID: productID, CategoryID: categoryID}))
		require.ErrorIs(t, err, coupon.ErrScopeMismatch)
	})

	t.Run("apply-to-all ignores cart contents", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithWindow(startsAt, endsAt)

		_, err := evaluate(t, b, subtotalInput("50.00"))
		require.NoError(t, err)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("ReasonOf extracts the reason", func(t *testing.T) {
		reason, ok := coupon.ReasonOf(coupon.ErrScopeMismatch)
		require.True(t, ok)
		assert.Equal(t, coupon.ReasonScopeMismatch, reason)
	})

	t.Run("ReasonOf rejects unrelated errors", func(t *testing.T) {
		_, ok := coupon.ReasonOf(errors.New("db down"))
		assert.False(t, ok)
	})

	t.Run("errors.Is matches by reason", func(t *testing.T) {
		min := decimal.RequireFromString("30.00")
		err := &coupon.ValidationError{Reason: coupon.ReasonBelowMinimumPurchase, RequiredMinimum: &min}
		assert.ErrorIs(t, err, coupon.ErrBelowMinimumPurchase)
		assert.NotErrorIs(t, err, coupon.ErrScopeMismatch)
	})
}
