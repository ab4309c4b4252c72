package api

import (
	"errors"
	"net/http"
	"strconv"

	"coupon-service/internal/domain/coupon"
	reqdto "coupon-service/internal/handler/dto/request"
	resdto "coupon-service/internal/handler/dto/response"
	"coupon-service/internal/handler/httperr"
	"coupon-service/internal/handler/middleware"
	"coupon-service/internal/infra"
	"coupon-service/internal/usecase/commands"
	"coupon-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Validate coupon
// @Description Validate a coupon against a cart and compute the discount
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body reqdto.ValidateCouponRequest true "Cart and coupon code"
// @Success 200 {object} resdto.ValidateCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var req reqdto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	if req.Subtotal.IsNegative() {
		httperr.AbortWithError(c, http.StatusBadRequest, coupon.ErrInvalidConfiguration, "Subtotal must be non-negative", nil)
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	ev, err := h.couponCommands.Validate(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		if reason, ok := coupon.ReasonOf(err); ok {
			status := http.StatusUnprocessableEntity
			if reason == coupon.ReasonNotFound {
				status = http.StatusNotFound
			}
			httperr.AbortWithReason(c, status, err, string(reason), rejectionMessage(reason), rejectionDetail(err))
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromEvaluation(ev))
}

// @Summary Create coupon
// @Description Create a new coupon
// @Tags admin-coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCouponRequest true "Coupon definition"
// @Success 201 {object} resdto.CreateCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req reqdto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.couponCommands.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateCode):
			httperr.AbortWithError(c, http.StatusConflict, err, "Coupon code already exists", nil)
		case isDomainValidationError(err):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateCouponResponse{ID: id})
}

// @Summary Get coupon
// @Description Get coupon details by code
// @Tags admin-coupons
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {object} resdto.CouponResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/coupons/{code} [get]
func (h *CouponHandler) GetByCode(c *gin.Context) {
	code := coupon.NormalizeCode(c.Param("code"))

	view, err := h.couponQueries.GetByCode(c.Request.Context(), code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary List coupons
// @Description List coupons, newest first
// @Tags admin-coupons
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100, default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} resdto.CouponListResponse
// @Failure 401 {object} httperr.Response
// @Router /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.couponQueries.List(c.Request.Context(), limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.CouponListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromCouponListItem(item)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Generate coupon code
// @Description Generate a random coupon code unused by any existing coupon
// @Tags admin-coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GenerateCodeRequest false "Code length (default 8)"
// @Success 200 {object} resdto.GenerateCodeResponse
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/coupons/codes [post]
func (h *CouponHandler) GenerateCode(c *gin.Context) {
	var req reqdto.GenerateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	code, err := h.couponCommands.GenerateUniqueCode(c.Request.Context(), req.Length)
	if err != nil {
		if errors.Is(err, commands.ErrCodeGenerationExhausted) {
			httperr.AbortWithError(c, http.StatusConflict, err, "Could not generate a unique code", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.GenerateCodeResponse{Code: code})
}

// @Summary Redeem coupon
// @Description Record a coupon usage for an order, re-checking usage caps transactionally
// @Tags admin-coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Param request body reqdto.RedeemCouponRequest true "User and order"
// @Success 204
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/coupons/{code}/redeem [post]
func (h *CouponHandler) Redeem(c *gin.Context) {
	var req reqdto.RedeemCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err := h.couponCommands.Redeem(c.Request.Context(), c.Param("code"), req.UserID, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, coupon.ErrNotFound), infra.IsKind(err, infra.KindNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
		case infra.IsKind(err, infra.KindConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Coupon usage limit reached", nil)
		case infra.IsKind(err, infra.KindDuplicateKey):
			httperr.AbortWithError(c, http.StatusConflict, err, "Order already redeemed this coupon", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func rejectionMessage(reason coupon.Reason) string {
	switch reason {
	case coupon.ReasonNotFound:
		return "Coupon not found"
	case coupon.ReasonInactive:
		return "Coupon is not active"
	case coupon.ReasonOutOfWindow:
		return "Coupon is outside its validity window"
	case coupon.ReasonUsageLimitReached:
		return "Coupon usage limit reached"
	case coupon.ReasonUserUsageLimitReached:
		return "You have already used this coupon the maximum number of times"
	case coupon.ReasonNotEligibleUser:
		return "Coupon is not available for this user"
	case coupon.ReasonBelowMinimumPurchase:
		return "Cart subtotal is below the coupon minimum"
	case coupon.ReasonScopeMismatch:
		return "Coupon does not apply to any item in the cart"
	default:
		return "Coupon cannot be applied"
	}
}

// rejectionDetail surfaces the required minimum on BELOW_MINIMUM_PURCHASE so
// storefronts can render "add X more to qualify".
func rejectionDetail(err error) any {
	var ve *coupon.ValidationError
	if errors.As(err, &ve) && ve.RequiredMinimum != nil {
		return gin.H{"requiredMinimum": ve.RequiredMinimum}
	}
	return nil
}

func isDomainValidationError(err error) bool {
	return errors.Is(err, coupon.ErrInvalidCouponCode) ||
		errors.Is(err, coupon.ErrInvalidDiscountAmount) ||
		errors.Is(err, coupon.ErrInvalidDiscountPercent) ||
		errors.Is(err, coupon.ErrInvalidMaxDiscount) ||
		errors.Is(err, coupon.ErrConflictingDiscount) ||
		errors.Is(err, coupon.ErrMissingDiscount) ||
		errors.Is(err, coupon.ErrInvalidDateWindow)
}
