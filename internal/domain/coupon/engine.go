package coupon

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reason is a stable machine-readable rejection code. Callers branch on it;
// human-readable messages are a presentation concern layered on top.
type Reason string

const (
	ReasonNotFound              Reason = "COUPON_NOT_FOUND"
	ReasonInactive              Reason = "COUPON_INACTIVE"
	ReasonOutOfWindow           Reason = "COUPON_OUT_OF_WINDOW"
	ReasonUsageLimitReached     Reason = "USAGE_LIMIT_REACHED"
	ReasonUserUsageLimitReached Reason = "USER_USAGE_LIMIT_REACHED"
	ReasonNotEligibleUser       Reason = "NOT_ELIGIBLE_USER"
	ReasonBelowMinimumPurchase  Reason = "BELOW_MINIMUM_PURCHASE"
	ReasonScopeMismatch         Reason = "SCOPE_MISMATCH"
	ReasonInvalidConfiguration  Reason = "INVALID_CONFIGURATION"
)

// ValidationError is a rejection, never a transient failure. It carries the
// reason code and, for BELOW_MINIMUM_PURCHASE, the required minimum for UI display.
type ValidationError struct {
	Reason          Reason
	RequiredMinimum *decimal.Decimal
}

func (e *ValidationError) Error() string {
	if e.RequiredMinimum != nil {
		return fmt.Sprintf("coupon rejected: %s (minimum purchase %s)", e.Reason, e.RequiredMinimum.StringFixed(2))
	}
	return "coupon rejected: " + string(e.Reason)
}

// Is matches any *ValidationError with the same reason, so callers can use
// errors.Is against the package sentinels below.
func (e *ValidationError) Is(target error) bool {
	var ve *ValidationError
	if !errors.As(target, &ve) {
		return false
	}
	return e.Reason == ve.Reason
}

var (
	ErrNotFound              = &ValidationError{Reason: ReasonNotFound}
	ErrInactive              = &ValidationError{Reason: ReasonInactive}
	ErrOutOfWindow           = &ValidationError{Reason: ReasonOutOfWindow}
	ErrUsageLimitReached     = &ValidationError{Reason: ReasonUsageLimitReached}
	ErrUserUsageLimitReached = &ValidationError{Reason: ReasonUserUsageLimitReached}
	ErrNotEligibleUser       = &ValidationError{Reason: ReasonNotEligibleUser}
	ErrBelowMinimumPurchase  = &ValidationError{Reason: ReasonBelowMinimumPurchase}
	ErrScopeMismatch         = &ValidationError{Reason: ReasonScopeMismatch}
	ErrInvalidConfiguration  = &ValidationError{Reason: ReasonInvalidConfiguration}
)

// ReasonOf extracts the rejection reason, if err is a coupon rejection.
func ReasonOf(err error) (Reason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

// CartLine is the engine's view of one cart item. Quantity and price are not
// needed here; the caller precomputes the subtotal.
type CartLine struct {
	ProductID  uuid.UUID
	CategoryID uuid.UUID
}

// EvaluationInput is constructed per request. UserID is nil for guest
// checkout. PriorUserUsage is the repository count of the user's previous
// redemptions of this coupon, fetched by the caller before evaluation so the
// engine stays a pure function of its inputs.
type EvaluationInput struct {
	UserID         *uuid.UUID
	Items          []CartLine
	Subtotal       decimal.Decimal
	PriorUserUsage int64
}

type Evaluation struct {
	Coupon   *Coupon
	Discount decimal.Decimal
}

type Options struct {
	// FailClosedForAnonymous rejects per-user-limited coupons for guest
	// checkout instead of skipping the check. The lenient default mirrors
	// the historical behavior; the flag makes the choice explicit.
	FailClosedForAnonymous bool
}

// Evaluate runs the eligibility rules in a fixed order, short-circuiting on
// the first failure, then computes the discount. It is pure: no repository
// access, no mutation, identical inputs yield identical results.
//
// Rule order: active flag, date window, global usage cap, per-user usage cap,
// audience targeting, minimum purchase, item/category scope.
func Evaluate(c *Coupon, in EvaluationInput, now time.Time, opts Options) (*Evaluation, error) {
	if !c.isActive {
		return nil, ErrInactive
	}

	if !c.IsWithinWindow(now) {
		return nil, ErrOutOfWindow
	}

	if c.usageLimit != nil && c.usageCount >= *c.usageLimit {
		return nil, ErrUsageLimitReached
	}

	if c.userUsageLimit != nil {
		switch {
		case in.UserID != nil:
			if in.PriorUserUsage >= int64(*c.userUsageLimit) {
				return nil, ErrUserUsageLimitReached
			}
		case opts.FailClosedForAnonymous:
			return nil, ErrUserUsageLimitReached
		}
		// Guest checkout cannot be counted against a per-user cap; with the
		// lenient default the rule is treated as not blocking.
	}

	if c.IsPersonalized() {
		if in.UserID == nil || !c.IsIssuedTo(*in.UserID) {
			return nil, ErrNotEligibleUser
		}
	}

	if c.minPurchase != nil && in.Subtotal.LessThan(*c.minPurchase) {
		required := *c.minPurchase
		return nil, &ValidationError{Reason: ReasonBelowMinimumPurchase, RequiredMinimum: &required}
	}

	if !c.applyToAll && !c.matchesScope(in.Items) {
		return nil, ErrScopeMismatch
	}

	if c.discount.kind == "" {
		return nil, ErrInvalidConfiguration
	}

	return &Evaluation{
		Coupon:   c,
		Discount: c.discount.AmountFor(in.Subtotal),
	}, nil
}

// matchesScope reports whether any cart line falls inside the coupon's
// product or category sets. Products are checked first; either match
// suffices. Both sets empty means nothing can match.
func (c *Coupon) matchesScope(items []CartLine) bool {
	if len(c.productIDs) == 0 && len(c.categoryIDs) == 0 {
		return false
	}

	products := make(map[uuid.UUID]struct{}, len(c.productIDs))
	for _, id := range c.productIDs {
		products[id] = struct{}{}
	}
	for _, item := range items {
		if _, ok := products[item.ProductID]; ok {
			return true
		}
	}

	categories := make(map[uuid.UUID]struct{}, len(c.categoryIDs))
	for _, id := range c.categoryIDs {
		categories[id] = struct{}{}
	}
	for _, item := range items {
		if _, ok := categories[item.CategoryID]; ok {
			return true
		}
	}
	return false
}
