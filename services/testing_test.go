package services

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory
	// database and serializes concurrent transactions the way a real
	// server would contend on row locks.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusLog{},
		&models.OrderSequence{},
		&models.InventoryMovement{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.LoyaltyAccount{},
		&models.LoyaltyEntry{},
	))
	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	user := &models.User{ID: id, Email: id + "@example.com", Name: "Test User"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedDefaultAddress(t *testing.T, db *gorm.DB, userID string) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:    userID,
		Recipient: "Test User",
		Line1:     "1 Main St",
		City:      "Springfield",
		IsDefault: true,
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

// seedProduct creates a product and records its opening stock through
// the ledger, so continuity checks start from an INITIAL row.
func seedProduct(t *testing.T, db *gorm.DB, ledger *Ledger, name, sku, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		SKU:    sku,
		Price:  dec(t, price),
		Status: models.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	if stock > 0 {
		_, err := ledger.Apply(context.Background(), MovementRef{ProductID: product.ID}, stock, models.MovementInitial, "initial stock", SystemActor())
		require.NoError(t, err)
	}
	return product
}

func seedVariant(t *testing.T, db *gorm.DB, ledger *Ledger, productID uint, name, sku, price string, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ProductID: productID,
		Name:      name,
		SKU:       sku,
	}
	if price != "" {
		p := dec(t, price)
		variant.Price = &p
	}
	require.NoError(t, db.Create(variant).Error)
	if stock > 0 {
		_, err := ledger.Apply(context.Background(), MovementRef{ProductID: productID, VariantID: &variant.ID}, stock, models.MovementInitial, "initial stock", SystemActor())
		require.NoError(t, err)
	}
	return variant
}

// fakeNotifier records every notification and can be told to fail.
type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []string
	changed   []models.OrderStatus
	ready     []string
	fail      error
}

func (f *fakeNotifier) OrderConfirmed(order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, order.OrderNumber)
	return f.fail
}

func (f *fakeNotifier) StatusChanged(order *models.Order, status models.OrderStatus, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, status)
	return f.fail
}

func (f *fakeNotifier) ReadyForPickup(userID, orderNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = append(f.ready, orderNumber)
	return f.fail
}

type accrual struct {
	UserID    string
	Points    int64
	Reference string
}

// fakeLoyalty records accruals and can be told to fail.
type fakeLoyalty struct {
	mu       sync.Mutex
	accruals []accrual
	fail     error
}

func (f *fakeLoyalty) Accrue(ctx context.Context, userID string, points int64, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.accruals = append(f.accruals, accrual{UserID: userID, Points: points, Reference: reference})
	return nil
}

func newCheckoutFixture(t *testing.T) (*gorm.DB, *Ledger, *CheckoutService, *fakeNotifier) {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedger(db)
	notifier := &fakeNotifier{}
	checkout := NewCheckoutService(db, ledger, NewOrderNumberAllocator("TST"), NewCouponService(), notifier)
	return db, ledger, checkout, notifier
}

func newStateMachineFixture(t *testing.T) (*gorm.DB, *Ledger, *StateMachine, *fakeLoyalty, *fakeNotifier) {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedger(db)
	loyalty := &fakeLoyalty{}
	notifier := &fakeNotifier{}
	return db, ledger, NewStateMachine(db, ledger, loyalty, notifier), loyalty, notifier
}
