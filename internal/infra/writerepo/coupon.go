package writerepo

import (
	"context"
	"errors"

	"coupon-service/internal/domain/coupon"
	"coupon-service/internal/infra"
	"coupon-service/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type CouponWriteRepository struct {
	pool *pgxpool.Pool
}

func NewCouponWriteRepository(pool *pgxpool.Pool) *CouponWriteRepository {
	return &CouponWriteRepository{pool: pool}
}

func (r *CouponWriteRepository) Create(ctx context.Context, c *coupon.Coupon) (uuid.UUID, error) {
	var percent, amount decimal.NullDecimal
	d := c.Discount()
	if d.IsPercentage() {
		percent = decimal.NullDecimal{Decimal: d.Percent(), Valid: true}
	} else {
		amount = decimal.NullDecimal{Decimal: d.Amount(), Valid: true}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO coupons (
			id, code, discount_type, discount_percent, discount_amount, max_discount,
			starts_at, ends_at, min_purchase, usage_limit, user_usage_limit,
			user_ids, apply_to_all, product_ids, category_ids, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12::uuid[], $13, $14::uuid[], $15::uuid[], $16
		)`,
		c.ID(), c.Code().String(), string(d.Type()), percent, amount,
		pgconv.NullFromDecimalPtr(d.MaxDiscount()),
		c.StartsAt(), c.EndsAt(), pgconv.NullFromDecimalPtr(c.MinPurchase()),
		pgconv.Int32PtrToPgtype(c.UsageLimit()), pgconv.Int32PtrToPgtype(c.UserUsageLimit()),
		pgconv.StringsFromUUIDs(c.UserIDs()), c.ApplyToAll(),
		pgconv.StringsFromUUIDs(c.ProductIDs()), pgconv.StringsFromUUIDs(c.CategoryIDs()),
		c.IsActive(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return c.ID(), nil
}

// RecordUsage atomically consumes one use of the coupon for the given order.
// The global and per-user caps are re-checked inside the transaction under a
// row lock, so concurrent redemptions of the last slot cannot both commit.
func (r *CouponWriteRepository) RecordUsage(ctx context.Context, couponID, userID, orderID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin redeem transaction", err)
	}
	defer tx.Rollback(ctx)

	var usageLimit, userUsageLimit pgtype.Int4
	var usageCount int32
	err = tx.QueryRow(ctx, `
		SELECT usage_limit, usage_count, user_usage_limit
		FROM coupons WHERE id = $1 FOR UPDATE`, couponID).
		Scan(&usageLimit, &usageCount, &userUsageLimit)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to lock coupon row", err)
	}

	if usageLimit.Valid && usageCount >= usageLimit.Int32 {
		return infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConflict)
	}

	if userUsageLimit.Valid {
		var used int64
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM coupon_usages
			WHERE coupon_id = $1 AND user_id = $2`, couponID, userID).Scan(&used)
		if err != nil {
			return infra.WrapRepoErr("failed to count user usages", err)
		}
		if used >= int64(userUsageLimit.Int32) {
			return infra.WrapRepoErr("per-user usage limit reached", nil, infra.KindConflict)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE coupons SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)`, couponID)
	if err != nil {
		return infra.WrapRepoErr("failed to increment usage count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConflict)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO coupon_usages (coupon_id, user_id, order_id)
		VALUES ($1, $2, $3)`, couponID, userID, orderID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return infra.WrapRepoErr("order already redeemed this coupon", err, infra.KindDuplicateKey)
			case pgForeignKeyViolation:
				return infra.WrapRepoErr("coupon no longer exists", err, infra.KindForeignKeyViolated)
			}
		}
		return infra.WrapRepoErr("failed to record coupon usage", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit redeem transaction", err)
	}
	return nil
}
