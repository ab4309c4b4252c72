package readstore

import (
	"context"
	"time"

	"coupon-service/internal/infra"
	"coupon-service/internal/pkg/pgconv"
	"coupon-service/internal/usecase/queries"
	"coupon-service/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const couponColumns = `
	id, code, discount_type, discount_percent, discount_amount, max_discount,
	starts_at, ends_at, min_purchase, usage_limit, usage_count, user_usage_limit,
	user_ids::text[], apply_to_all, product_ids::text[], category_ids::text[],
	is_active, created_at, updated_at`

type CouponReadStore struct {
	pool *pgxpool.Pool
}

func NewCouponReadStore(pool *pgxpool.Pool) *CouponReadStore {
	return &CouponReadStore{pool: pool}
}

// couponRow mirrors the coupons table; nullable columns use pgtype /
// NullDecimal wrappers and uuid arrays travel as text[].
type couponRow struct {
	ID              uuid.UUID
	Code            string
	DiscountType    string
	DiscountPercent decimal.NullDecimal
	DiscountAmount  decimal.NullDecimal
	MaxDiscount     decimal.NullDecimal
	StartsAt        time.Time
	EndsAt          time.Time
	MinPurchase     decimal.NullDecimal
	UsageLimit      pgtype.Int4
	UsageCount      int32
	UserUsageLimit  pgtype.Int4
	UserIDs         []string
	ApplyToAll      bool
	ProductIDs      []string
	CategoryIDs     []string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func scanCouponRow(row pgx.Row) (*couponRow, error) {
	var r couponRow
	err := row.Scan(
		&r.ID, &r.Code, &r.DiscountType, &r.DiscountPercent, &r.DiscountAmount, &r.MaxDiscount,
		&r.StartsAt, &r.EndsAt, &r.MinPurchase, &r.UsageLimit, &r.UsageCount, &r.UserUsageLimit,
		&r.UserIDs, &r.ApplyToAll, &r.ProductIDs, &r.CategoryIDs,
		&r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindByCode expects an already-normalized (uppercase) code.
func (r *CouponReadStore) FindByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error) {
	row, err := scanCouponRow(r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return toCouponSnapshot(row)
}

func (r *CouponReadStore) CountUsagesByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`,
		couponID, userID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count coupon usages", err)
	}
	return count, nil
}

func (r *CouponReadStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check coupon code existence", err)
	}
	return exists, nil
}

func (r *CouponReadStore) FindViewByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	row, err := scanCouponRow(r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon view by code", err)
	}
	return toCouponView(row)
}

func (r *CouponReadStore) ListViews(ctx context.Context, limit, offset int32) ([]*queries.CouponListItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, discount_type, starts_at, ends_at, usage_count, is_active, created_at
		 FROM coupons ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	items := make([]*queries.CouponListItem, 0)
	for rows.Next() {
		var it queries.CouponListItem
		if err := rows.Scan(&it.ID, &it.Code, &it.DiscountType, &it.StartsAt, &it.EndsAt,
			&it.UsageCount, &it.IsActive, &it.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon list row", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon list", err)
	}
	return items, nil
}

func toCouponSnapshot(row *couponRow) (*shared.CouponSnapshot, error) {
	userIDs, err := pgconv.UUIDsFromStrings(row.UserIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid user id in coupon row", err)
	}
	productIDs, err := pgconv.UUIDsFromStrings(row.ProductIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid product id in coupon row", err)
	}
	categoryIDs, err := pgconv.UUIDsFromStrings(row.CategoryIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid category id in coupon row", err)
	}

	return &shared.CouponSnapshot{
		ID:              row.ID,
		Code:            row.Code,
		DiscountType:    row.DiscountType,
		DiscountPercent: pgconv.DecimalPtrFromNull(row.DiscountPercent),
		DiscountAmount:  pgconv.DecimalPtrFromNull(row.DiscountAmount),
		MaxDiscount:     pgconv.DecimalPtrFromNull(row.MaxDiscount),
		StartsAt:        row.StartsAt,
		EndsAt:          row.EndsAt,
		MinPurchase:     pgconv.DecimalPtrFromNull(row.MinPurchase),
		UsageLimit:      pgconv.Int32PtrFromPgtype(row.UsageLimit),
		UsageCount:      row.UsageCount,
		UserUsageLimit:  pgconv.Int32PtrFromPgtype(row.UserUsageLimit),
		UserIDs:         userIDs,
		ApplyToAll:      row.ApplyToAll,
		ProductIDs:      productIDs,
		CategoryIDs:     categoryIDs,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

func toCouponView(row *couponRow) (*queries.CouponView, error) {
	productIDs, err := pgconv.UUIDsFromStrings(row.ProductIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid product id in coupon row", err)
	}
	categoryIDs, err := pgconv.UUIDsFromStrings(row.CategoryIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid category id in coupon row", err)
	}

	return &queries.CouponView{
		ID:              row.ID,
		Code:            row.Code,
		DiscountType:    row.DiscountType,
		DiscountPercent: pgconv.DecimalPtrFromNull(row.DiscountPercent),
		DiscountAmount:  pgconv.DecimalPtrFromNull(row.DiscountAmount),
		MaxDiscount:     pgconv.DecimalPtrFromNull(row.MaxDiscount),
		StartsAt:        row.StartsAt,
		EndsAt:          row.EndsAt,
		MinPurchase:     pgconv.DecimalPtrFromNull(row.MinPurchase),
		UsageLimit:      pgconv.Int32PtrFromPgtype(row.UsageLimit),
		UsageCount:      row.UsageCount,
		UserUsageLimit:  pgconv.Int32PtrFromPgtype(row.UserUsageLimit),
		ApplyToAll:      row.ApplyToAll,
		ProductIDs:      productIDs,
		CategoryIDs:     categoryIDs,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}
