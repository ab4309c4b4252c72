//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"coupon-service/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertCoupon writes the builder's coupon directly, bypassing the API, so
// tests can seed state the admin surface will not produce (usage counts etc).
func InsertCoupon(t *testing.T, pool *pgxpool.Pool, b *builder.CouponBuilder) uuid.UUID {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIDs := uuidStrings(b.UserIDs)
	productIDs := uuidStrings(b.ProductIDs)
	categoryIDs := uuidStrings(b.CategoryIDs)

	_, err := pool.Exec(ctx, `
		INSERT INTO coupons (
			id, code, discount_type, discount_percent, discount_amount, max_discount,
			starts_at, ends_at, min_purchase, usage_limit, usage_count, user_usage_limit,
			user_ids, apply_to_all, product_ids, category_ids, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::uuid[], $14, $15::uuid[], $16::uuid[], $17)`,
		b.ID, b.Code, b.DiscountType, b.DiscountPercent, b.DiscountAmount, b.MaxDiscount,
		b.StartsAt, b.EndsAt, b.MinPurchase, b.UsageLimit, b.UsageCount, b.UserUsageLimit,
		userIDs, b.ApplyToAll, productIDs, categoryIDs, b.IsActive,
	)
	require.NoError(t, err, "failed to insert coupon fixture")
	return b.ID
}

func InsertCouponUsage(t *testing.T, pool *pgxpool.Pool, couponID, userID uuid.UUID) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		INSERT INTO coupon_usages (coupon_id, user_id, order_id) VALUES ($1, $2, $3)`,
		couponID, userID, uuid.New())
	require.NoError(t, err, "failed to insert coupon usage fixture")
}

func CountCouponUsages(t *testing.T, pool *pgxpool.Pool, couponID uuid.UUID) int64 {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int64
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1`, couponID).Scan(&count)
	require.NoError(t, err)
	return count
}

// ResetDB truncates all coupon state between subtests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `TRUNCATE coupon_usages, coupons RESTART IDENTITY CASCADE`)
	return err
}

func uuidStrings(ids []uuid.UUID) []string {
	if len(ids) == 0 {
		return nil
	}
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, id.String())
	}
	return ss
}
