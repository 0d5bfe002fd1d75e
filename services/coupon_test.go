package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

func seedCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func TestCouponFixedDiscount(t *testing.T) {
	db := newTestDB(t)
	service := NewCouponService()
	coupon := seedCoupon(t, db, &models.Coupon{
		Code:   "TENOFF",
		Type:   models.CouponTypeFixed,
		Value:  decimal.RequireFromString("10.00"),
		Active: true,
	})

	result, err := service.Validate(db, "TENOFF", "u1", decimal.RequireFromString("45.00"))
	require.NoError(t, err)
	assert.Equal(t, coupon.ID, result.CouponID)
	assert.True(t, result.Discount.Equal(decimal.RequireFromString("10.00")))
}

func TestCouponPercentDiscountRounds(t *testing.T) {
	db := newTestDB(t)
	service := NewCouponService()
	seedCoupon(t, db, &models.Coupon{
		Code:   "TENPCT",
		Type:   models.CouponTypePercent,
		Value:  decimal.RequireFromString("10"),
		Active: true,
	})

	result, err := service.Validate(db, "TENPCT", "u1", decimal.RequireFromString("45.45"))
	require.NoError(t, err)
	// 10% of 45.45 is 4.545, rounded half up
	assert.True(t, result.Discount.Equal(decimal.RequireFromString("4.55")), "discount was %s", result.Discount)
}

func TestCouponDiscountCappedAtSubtotal(t *testing.T) {
	db := newTestDB(t)
	service := NewCouponService()
	seedCoupon(t, db, &models.Coupon{
		Code:   "BIG",
		Type:   models.CouponTypeFixed,
		Value:  decimal.RequireFromString("100.00"),
		Active: true,
	})

	result, err := service.Validate(db, "BIG", "u1", decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(decimal.RequireFromString("30.00")))
}

func TestCouponRejections(t *testing.T) {
	db := newTestDB(t)
	service := NewCouponService()
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	seedCoupon(t, db, &models.Coupon{Code: "OFF", Type: models.CouponTypeFixed, Value: decimal.RequireFromString("5.00"), Active: false})
	seedCoupon(t, db, &models.Coupon{Code: "EXPIRED", Type: models.CouponTypeFixed, Value: decimal.RequireFromString("5.00"), Active: true, ExpiresAt: &past})
	seedCoupon(t, db, &models.Coupon{Code: "SOON", Type: models.CouponTypeFixed, Value: decimal.RequireFromString("5.00"), Active: true, StartsAt: &future})
	seedCoupon(t, db, &models.Coupon{Code: "MIN50", Type: models.CouponTypeFixed, Value: decimal.RequireFromString("5.00"), Active: true, MinSubtotal: decimal.RequireFromString("50.00")})

	// Active=false must survive the insert as-is.
	var off models.Coupon
	require.NoError(t, db.First(&off, "code = ?", "OFF").Error)
	assert.False(t, off.Active)

	subtotal := decimal.RequireFromString("45.00")
	for _, code := range []string{"NOPE", "OFF", "EXPIRED", "SOON", "MIN50"} {
		_, err := service.Validate(db, code, "u1", subtotal)
		// Every rejection reason collapses to the same generic error.
		assert.ErrorIs(t, err, ErrInvalidCoupon, "code %s", code)
	}
}

func TestCouponUsageCaps(t *testing.T) {
	db := newTestDB(t)
	service := NewCouponService()
	subtotal := decimal.RequireFromString("45.00")

	capped := seedCoupon(t, db, &models.Coupon{Code: "ONCE", Type: models.CouponTypeFixed, Value: decimal.RequireFromString("5.00"), Active: true, MaxUses: 1})
	perUser := seedCoupon(t, db, &models.Coupon{Code: "ONEEACH", Type: models.CouponTypeFixed, Value: decimal.RequireFromString("5.00"), Active: true, MaxUsesPerUser: 1})

	require.NoError(t, service.RegisterRedemption(db, capped.ID, "u1", 1))
	require.NoError(t, service.RegisterRedemption(db, perUser.ID, "u1", 2))

	_, err := service.Validate(db, "ONCE", "u2", subtotal)
	assert.ErrorIs(t, err, ErrInvalidCoupon, "global cap counts everyone")

	_, err = service.Validate(db, "ONEEACH", "u1", subtotal)
	assert.ErrorIs(t, err, ErrInvalidCoupon, "per-user cap blocks the repeat user")

	_, err = service.Validate(db, "ONEEACH", "u2", subtotal)
	assert.NoError(t, err, "per-user cap leaves other users alone")
}

// The cap read must run on the caller's transaction: it has to see a
// redemption written moments earlier in the same unit of work, and must
// not reach for a second pool connection (the test pool has one).
func TestCouponValidateRunsOnCallerTransaction(t *testing.T) {
	db := newTestDB(t)
	service := NewCouponService()
	subtotal := decimal.RequireFromString("45.00")
	coupon := seedCoupon(t, db, &models.Coupon{Code: "ONCE", Type: models.CouponTypeFixed, Value: decimal.RequireFromString("5.00"), Active: true, MaxUses: 1})

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := service.Validate(tx, "ONCE", "u1", subtotal)
		require.NoError(t, err)
		require.NoError(t, service.RegisterRedemption(tx, coupon.ID, "u1", 1))

		_, err = service.Validate(tx, "ONCE", "u2", subtotal)
		assert.ErrorIs(t, err, ErrInvalidCoupon, "the cap sees the uncommitted redemption")
		return nil
	}))
}
