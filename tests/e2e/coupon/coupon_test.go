//go:build e2e

package coupon_test

import (
	"net/http"
	"testing"
	"time"

	"coupon-service/internal/handler/dto/response"
	"coupon-service/tests/common/authtest"
	"coupon-service/tests/common/builder"
	"coupon-service/tests/common/dbtest"
	"coupon-service/tests/common/httptest"
	"coupon-service/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	validateURL     = "/api/coupons/validate"
	adminCouponsURL = "/api/admin/coupons"
)

type CouponSuite struct {
	e2e.SharedSuite
}

func (s *CouponSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestCouponSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CouponSuite))
}

func activeWindow() (time.Time, time.Time) {
	now := time.Now()
	return now.AddDate(0, -1, 0), now.AddDate(0, 1, 0)
}

func validateBody(code, subtotal string) map[string]any {
	return map[string]any{
		"code":      code,
		"cartItems": []map[string]any{},
		"subtotal":  subtotal,
	}
}

// =============================================================================
// TestValidateCoupon - Storefront validation API tests
// =============================================================================

func (s *CouponSuite) TestValidateCoupon() {
	s.Run("Normal case: percentage coupon computes discount", func() {
		t := s.T()
		startsAt, endsAt := activeWindow()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("SAVE10").WithPercentage(10).WithWindow(startsAt, endsAt))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody("save10", "50.00"), "")

		var body response.ValidateCouponResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		require.True(t, body.Valid)
		require.Equal(t, "SAVE10", body.Coupon.Code)
		require.Equal(t, "5.00", body.Discount.StringFixed(2))
	})

	s.Run("Normal case: fixed coupon clamped to subtotal", func() {
		t := s.T()
		startsAt, endsAt := activeWindow()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("FLAT20").WithFixedAmount("20.00").WithWindow(startsAt, endsAt))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody("FLAT20", "15.00"), "")

		var body response.ValidateCouponResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		require.Equal(t, "15.00", body.Discount.StringFixed(2))
	})

	s.Run("Error case: unknown code returns 404", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody("NOPE99", "50.00"), "")
		httptest.AssertRejectionResponse(t, w, http.StatusNotFound, "COUPON_NOT_FOUND")
	})

	s.Run("Error case: below minimum purchase returns reason and required amount", func() {
		t := s.T()
		startsAt, endsAt := activeWindow()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("BIG30").WithMinPurchase("30.00").WithWindow(startsAt, endsAt))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody("BIG30", "25.00"), "")

		httptest.AssertRejectionResponse(t, w, http.StatusUnprocessableEntity, "BELOW_MINIMUM_PURCHASE")
		require.Contains(t, w.Body.String(), "requiredMinimum")
	})

	s.Run("Error case: expired coupon returns out-of-window reason", func() {
		t := s.T()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().WithCode("OLD10").AsExpired())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody("OLD10", "50.00"), "")
		httptest.AssertRejectionResponse(t, w, http.StatusUnprocessableEntity, "COUPON_OUT_OF_WINDOW")
	})

	s.Run("Error case: authenticated user hits per-user limit", func() {
		t := s.T()
		userID := uuid.New()
		startsAt, endsAt := activeWindow()
		couponID := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("ONCE10").WithUserUsageLimit(1).WithWindow(startsAt, endsAt))
		dbtest.InsertCouponUsage(t, s.DB, couponID, userID)

		token := authtest.GenerateCustomerToken(t, s.Config, userID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody("ONCE10", "50.00"), token)
		httptest.AssertRejectionResponse(t, w, http.StatusUnprocessableEntity, "USER_USAGE_LIMIT_REACHED")
	})

	s.Run("Normal case: guest skips per-user limit", func() {
		t := s.T()
		startsAt, endsAt := activeWindow()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("ONCE10").WithUserUsageLimit(1).WithWindow(startsAt, endsAt))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody("ONCE10", "50.00"), "")

		var body response.ValidateCouponResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
	})

	s.Run("Normal case: scoped coupon matches by category", func() {
		t := s.T()
		categoryID := uuid.New()
		startsAt, endsAt := activeWindow()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("CAT10").WithCategoryScope(categoryID).WithWindow(startsAt, endsAt))

		body := map[string]any{
			"code": "CAT10",
			"cartItems": []map[string]any{
				{"productId": uuid.New().String(), "categoryId": categoryID.String()},
			},
			"subtotal": "50.00",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, body, "")

		var resp response.ValidateCouponResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &resp)
	})
}

// =============================================================================
// TestAdminCoupons - Admin create / read / code generation
// =============================================================================

func (s *CouponSuite) TestAdminCoupons() {
	s.Run("Normal case: admin creates a coupon and it validates", func() {
		t := s.T()
		token := authtest.GenerateAdminToken(t, s.Config)

		startsAt, endsAt := activeWindow()
		reqBody := builder.NewCouponBuilder().
			WithCode("SUMMER25").WithPercentage(25).WithWindow(startsAt, endsAt).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL, reqBody, token)

		var created response.CreateCouponResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.NotEqual(t, uuid.Nil, created.ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody("summer25", "100.00"), "")
		var validated response.ValidateCouponResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &validated)
		require.Equal(t, "25.00", validated.Discount.StringFixed(2))
	})

	s.Run("Error case: duplicate code returns 409", func() {
		t := s.T()
		token := authtest.GenerateAdminToken(t, s.Config)

		startsAt, endsAt := activeWindow()
		reqBody := builder.NewCouponBuilder().
			WithCode("DUP10").WithWindow(startsAt, endsAt).BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL, reqBody, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already exists")
	})

	s.Run("Error case: missing token returns 401, customer role returns 403", func() {
		t := s.T()
		startsAt, endsAt := activeWindow()
		reqBody := builder.NewCouponBuilder().WithWindow(startsAt, endsAt).BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL, reqBody, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)

		customerToken := authtest.GenerateCustomerToken(t, s.Config, uuid.New())
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL, reqBody, customerToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("Normal case: get and list round-trip", func() {
		t := s.T()
		token := authtest.GenerateAdminToken(t, s.Config)
		startsAt, endsAt := activeWindow()
		couponID := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("ROUND10").WithWindow(startsAt, endsAt))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, adminCouponsURL+"/round10", nil, token)
		var got response.CouponResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)

		percent := decimal.NewFromInt(10)
		expected := &response.CouponResponse{
			ID:              couponID,
			Code:            "ROUND10",
			DiscountType:    "PERCENTAGE",
			DiscountPercent: &percent,
			ApplyToAll:      true,
			IsActive:        true,
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.CouponResponse{}, "StartsAt", "EndsAt", "CreatedAt", "UpdatedAt"),
			cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		}
		if diff := cmp.Diff(expected, &got, opts...); diff != "" {
			t.Errorf("Coupon response mismatch (-want +got):\n%s", diff)
		}

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, adminCouponsURL, nil, token)
		var list []response.CouponListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
		require.Len(t, list, 1)
	})

	s.Run("Normal case: generated code is unique and usable", func() {
		t := s.T()
		token := authtest.GenerateAdminToken(t, s.Config)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL+"/codes",
			map[string]any{"length": 10}, token)

		var generated response.GenerateCodeResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &generated)
		require.Len(t, generated.Code, 10)

		startsAt, endsAt := activeWindow()
		reqBody := builder.NewCouponBuilder().
			WithCode(generated.Code).WithWindow(startsAt, endsAt).BuildCreateRequestDTO()
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code)
	})
}

// =============================================================================
// TestRedeemCoupon - Transactional usage recording
// =============================================================================

func (s *CouponSuite) TestRedeemCoupon() {
	redeemBody := func() map[string]any {
		return map[string]any{"userId": uuid.New().String(), "orderId": uuid.New().String()}
	}

	s.Run("Normal case: redeem records a usage", func() {
		t := s.T()
		token := authtest.GenerateAdminToken(t, s.Config)
		startsAt, endsAt := activeWindow()
		couponID := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("USE10").WithWindow(startsAt, endsAt))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			adminCouponsURL+"/USE10/redeem", redeemBody(), token)
		require.Equal(t, http.StatusNoContent, w.Code)

		require.Equal(t, int64(1), dbtest.CountCouponUsages(t, s.DB, couponID))
	})

	s.Run("Error case: redeem past the global cap returns 409", func() {
		t := s.T()
		token := authtest.GenerateAdminToken(t, s.Config)
		startsAt, endsAt := activeWindow()
		couponID := dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("LAST1").WithUsageLimit(1, 0).WithWindow(startsAt, endsAt))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			adminCouponsURL+"/LAST1/redeem", redeemBody(), token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			adminCouponsURL+"/LAST1/redeem", redeemBody(), token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "usage limit")

		require.Equal(t, int64(1), dbtest.CountCouponUsages(t, s.DB, couponID))
	})

	s.Run("Error case: same order cannot redeem twice", func() {
		t := s.T()
		token := authtest.GenerateAdminToken(t, s.Config)
		startsAt, endsAt := activeWindow()
		dbtest.InsertCoupon(t, s.DB, builder.NewCouponBuilder().
			WithCode("ORDER1").WithWindow(startsAt, endsAt))

		body := redeemBody()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			adminCouponsURL+"/ORDER1/redeem", body, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			adminCouponsURL+"/ORDER1/redeem", body, token)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Error case: redeeming an unknown coupon returns 404", func() {
		t := s.T()
		token := authtest.GenerateAdminToken(t, s.Config)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			adminCouponsURL+"/NOPE99/redeem", redeemBody(), token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
