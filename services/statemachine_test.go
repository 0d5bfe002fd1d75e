package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

// seedOrder places a real pending order (stock debited through the
// ledger) so transitions run against the same state a checkout leaves
// behind.
func seedOrder(t *testing.T, db *gorm.DB, ledger *Ledger, userID string, quantity int) (*models.Order, *models.Product) {
	t.Helper()
	ctx := context.Background()

	user := seedUser(t, db, userID)
	address := seedDefaultAddress(t, db, user.ID)
	product := seedProduct(t, db, ledger, "Mug", "MUG-"+userID, "10.00", 5)

	_, err := ledger.Apply(ctx, MovementRef{ProductID: product.ID}, -quantity, models.MovementSale, "sale", Actor{UserID: userID})
	require.NoError(t, err)

	subtotal := decimal.RequireFromString("10.00").Mul(decimal.NewFromInt(int64(quantity)))
	order := &models.Order{
		OrderNumber: "ORD260315" + userID,
		UserID:      user.ID,
		AddressID:   address.ID,
		Items: []models.OrderItem{{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Price:       product.Price,
			Quantity:    quantity,
			Total:       subtotal,
		}},
		Subtotal:      subtotal,
		ShippingCost:  decimal.RequireFromString("5.00"),
		Discount:      decimal.Zero,
		Total:         subtotal.Add(decimal.RequireFromString("5.00")),
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: "card",
	}
	require.NoError(t, db.Create(order).Error)
	return order, product
}

func TestTransitionToPaid(t *testing.T) {
	db, ledger, states, loyalty, notifier := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 2) // total 25.00

	updated, err := states.Transition(context.Background(), Actor{UserID: "admin", Admin: true}, order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPaid, updated.Status)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaidAt)

	require.Len(t, loyalty.accruals, 1)
	assert.Equal(t, "u1", loyalty.accruals[0].UserID)
	assert.Equal(t, int64(25), loyalty.accruals[0].Points)
	assert.Equal(t, order.OrderNumber, loyalty.accruals[0].Reference)

	assert.Equal(t, []models.OrderStatus{models.OrderStatusPaid}, notifier.changed)
}

func TestTransitionAccruesPointsOnlyOnce(t *testing.T) {
	db, ledger, states, loyalty, _ := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 2)
	ctx := context.Background()
	admin := Actor{UserID: "admin", Admin: true}

	_, err := states.Transition(ctx, admin, order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err)
	_, err = states.Transition(ctx, admin, order.ID, models.OrderStatusPreparing, "")
	require.NoError(t, err)
	// Walking back through paid must not pay out again.
	_, err = states.Transition(ctx, admin, order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err)

	assert.Len(t, loyalty.accruals, 1)
}

func TestRepaidKeepsOriginalPaymentTimestamp(t *testing.T) {
	db, ledger, states, _, _ := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 1)
	ctx := context.Background()
	admin := Actor{UserID: "admin", Admin: true}

	firstPayment := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	states.now = func() time.Time { return firstPayment }

	paid, err := states.Transition(ctx, admin, order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)

	states.now = func() time.Time { return firstPayment.Add(time.Hour) }
	_, err = states.Transition(ctx, admin, order.ID, models.OrderStatusPreparing, "")
	require.NoError(t, err)
	repaid, err := states.Transition(ctx, admin, order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err)

	require.NotNil(t, repaid.PaidAt)
	assert.True(t, repaid.PaidAt.Equal(*paid.PaidAt), "paid_at still records the first payment")
}

func TestTransitionToReady(t *testing.T) {
	db, ledger, states, _, notifier := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 1)

	updated, err := states.Transition(context.Background(), Actor{UserID: "admin", Admin: true}, order.ID, models.OrderStatusReady, "")
	require.NoError(t, err)
	require.NotNil(t, updated.ShippedAt)
	assert.Equal(t, []string{order.OrderNumber}, notifier.ready)
}

func TestCancelRestocksEveryLine(t *testing.T) {
	db, ledger, states, _, _ := newStateMachineFixture(t)
	order, product := seedOrder(t, db, ledger, "u1", 2) // stock now 3
	ctx := context.Background()
	admin := Actor{UserID: "admin", Admin: true}

	_, err := states.Transition(ctx, admin, order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err)

	updated, err := states.Transition(ctx, admin, order.ID, models.OrderStatusCancelled, "customer request")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelledAt)
	assert.Equal(t, "customer request", updated.CancellationReason)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 5, reloaded.Stock, "cancellation restores the sold units")

	var returns []models.InventoryMovement
	require.NoError(t, db.Where("type = ?", models.MovementReturn).Find(&returns).Error)
	require.Len(t, returns, 1)
	assert.Equal(t, 2, returns[0].Quantity)
	assert.Contains(t, returns[0].Notes, order.OrderNumber)

	// A second cancellation must neither succeed nor restock again.
	_, err = states.Transition(ctx, admin, order.ID, models.OrderStatusCancelled, "again")
	require.ErrorIs(t, err, ErrIllegalStateTransition)
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestTerminalOrdersRejectTransitions(t *testing.T) {
	db, ledger, states, _, _ := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 1)
	ctx := context.Background()
	admin := Actor{UserID: "admin", Admin: true}

	_, err := states.Transition(ctx, admin, order.ID, models.OrderStatusDelivered, "")
	require.NoError(t, err)

	_, err = states.Transition(ctx, admin, order.ID, models.OrderStatusPreparing, "")
	assert.ErrorIs(t, err, ErrIllegalStateTransition)
}

func TestTransitionRejectsBadTargets(t *testing.T) {
	db, ledger, states, _, _ := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 1)
	ctx := context.Background()
	admin := Actor{UserID: "admin", Admin: true}
	var vErr *ValidationError

	_, err := states.Transition(ctx, admin, order.ID, models.OrderStatus("shipped"), "")
	assert.ErrorAs(t, err, &vErr, "unknown status")

	_, err = states.Transition(ctx, admin, order.ID, models.OrderStatusPending, "")
	assert.ErrorAs(t, err, &vErr, "back to pending")

	_, err = states.Transition(ctx, admin, 9999, models.OrderStatusPaid, "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTransitionWritesAuditLog(t *testing.T) {
	db, ledger, states, _, _ := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 1)
	ctx := context.Background()
	admin := Actor{UserID: "admin", Admin: true}

	_, err := states.Transition(ctx, admin, order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err)
	_, err = states.Transition(ctx, SystemActor(), order.ID, models.OrderStatusPreparing, "packing")
	require.NoError(t, err)

	var logs []models.OrderStatusLog
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)

	assert.Equal(t, models.OrderStatusPending, logs[0].FromStatus)
	assert.Equal(t, models.OrderStatusPaid, logs[0].ToStatus)
	require.NotNil(t, logs[0].ChangedBy)
	assert.Equal(t, "admin", *logs[0].ChangedBy)

	assert.Equal(t, models.OrderStatusPaid, logs[1].FromStatus)
	assert.Equal(t, models.OrderStatusPreparing, logs[1].ToStatus)
	assert.Nil(t, logs[1].ChangedBy, "system actions have no actor reference")
	assert.Equal(t, "packing", logs[1].Note)
}

func TestTransitionSurvivesNotifierFailure(t *testing.T) {
	db, ledger, states, _, notifier := newStateMachineFixture(t)
	notifier.fail = errors.New("smtp down")
	order, _ := seedOrder(t, db, ledger, "u1", 1)

	updated, err := states.Transition(context.Background(), Actor{UserID: "admin", Admin: true}, order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err, "notification failures are soft")
	assert.Equal(t, models.OrderStatusPaid, updated.Status)
}

func TestMarkPaymentFailed(t *testing.T) {
	db, ledger, states, _, _ := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 1)
	ctx := context.Background()

	updated, err := states.MarkPaymentFailed(ctx, SystemActor(), order.ID, "card declined")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, updated.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, updated.Status, "order status is untouched")

	var logs []models.OrderStatusLog
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Note, "card declined")
}

func TestMarkPaymentFailedAfterPaid(t *testing.T) {
	db, ledger, states, _, _ := newStateMachineFixture(t)
	order, _ := seedOrder(t, db, ledger, "u1", 1)
	ctx := context.Background()

	_, err := states.Transition(ctx, SystemActor(), order.ID, models.OrderStatusPaid, "")
	require.NoError(t, err)

	_, err = states.MarkPaymentFailed(ctx, SystemActor(), order.ID, "late decline")
	assert.ErrorIs(t, err, ErrIllegalStateTransition)
}
