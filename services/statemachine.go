package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

var knownStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusPaid:      true,
	models.OrderStatusPreparing: true,
	models.OrderStatusReady:     true,
	models.OrderStatusDelivered: true,
	models.OrderStatusCancelled: true,
}

// StateMachine governs order status changes and the side effects each
// target requires. Ordering is loose: any non-terminal order may move to
// any other status, but side effects are guarded so a caller cannot
// double-accrue points or double-restock no matter how it sequences
// calls. The status write is a compare-and-set, so two racing transitions
// cannot both apply.
type StateMachine struct {
	db       *gorm.DB
	ledger   *Ledger
	loyalty  LoyaltyService
	notifier Notifier
	now      func() time.Time
}

func NewStateMachine(db *gorm.DB, ledger *Ledger, loyalty LoyaltyService, notifier Notifier) *StateMachine {
	return &StateMachine{
		db:       db,
		ledger:   ledger,
		loyalty:  loyalty,
		notifier: notifier,
		now:      time.Now,
	}
}

// Transition moves the order to target and applies the target's side
// effects. Cancellation restocks every line or none; loyalty accrual and
// notifications run post-commit and fail soft.
func (m *StateMachine) Transition(ctx context.Context, actor Actor, orderID uint, target models.OrderStatus, reason string) (*models.Order, error) {
	if !knownStatuses[target] {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown order status %q", target)}
	}
	if target == models.OrderStatusPending {
		return nil, &ValidationError{Msg: "orders cannot be moved back to pending"}
	}

	var updated *models.Order
	hooks := &postCommit{}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if order.Status.Terminal() {
			return fmt.Errorf("%w: order %s is %s", ErrIllegalStateTransition, order.OrderNumber, order.Status)
		}
		if order.Status == target {
			return fmt.Errorf("%w: order %s is already %s", ErrIllegalStateTransition, order.OrderNumber, target)
		}

		from := order.Status
		now := m.now()
		changes := map[string]interface{}{"status": target}

		switch target {
		case models.OrderStatusPaid:
			changes["payment_status"] = models.PaymentStatusPaid
			// paid_at records the first payment; re-entering PAID after
			// a detour through another status keeps the original stamp.
			if order.PaidAt == nil {
				changes["paid_at"] = now
				// 1 point per whole currency unit of the total
				points := order.Total.IntPart()
				userID := order.UserID
				reference := order.OrderNumber
				hooks.add("loyalty accrual", func() error {
					return m.loyalty.Accrue(context.Background(), userID, points, reference)
				})
			}
		case models.OrderStatusReady:
			changes["shipped_at"] = now
			userID := order.UserID
			number := order.OrderNumber
			hooks.add("ready for pickup push", func() error {
				return m.notifier.ReadyForPickup(userID, number)
			})
		case models.OrderStatusDelivered:
			changes["delivered_at"] = now
		case models.OrderStatusCancelled:
			changes["cancelled_at"] = now
			changes["cancellation_reason"] = reason
			for _, item := range order.Items {
				ref := MovementRef{ProductID: item.ProductID, VariantID: item.VariantID}
				note := fmt.Sprintf("restock for cancelled order %s", order.OrderNumber)
				if _, err := m.ledger.ApplyMovement(tx, ref, item.Quantity, models.MovementReturn, note, actor); err != nil {
					return err
				}
			}
		}

		// Compare-and-set against the status we read, so a racing
		// transition rolls this one back, restocks included.
		res := tx.Model(&models.Order{}).Where("id = ? AND status = ?", order.ID, from).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %s", ErrConcurrencyConflict, order.OrderNumber)
		}

		if err := tx.Create(&models.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: from,
			ToStatus:   target,
			ChangedBy:  actor.Ref(),
			Note:       reason,
		}).Error; err != nil {
			return err
		}

		if err := tx.Preload("Items").First(&order, "id = ?", order.ID).Error; err != nil {
			return err
		}
		updated = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	hooks.add("status notification", func() error {
		return m.notifier.StatusChanged(updated, target, statusMessage(target))
	})
	hooks.run()

	return updated, nil
}

// MarkPaymentFailed records a declined payment without moving the order
// status, keeping the webhook on the same write path as every other
// lifecycle change.
func (m *StateMachine) MarkPaymentFailed(ctx context.Context, actor Actor, orderID uint, note string) (*models.Order, error) {
	var updated *models.Order
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			return fmt.Errorf("%w: order %s is already paid", ErrIllegalStateTransition, order.OrderNumber)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status <> ?", order.ID, models.PaymentStatusPaid).
			Update("payment_status", models.PaymentStatusFailed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %s", ErrConcurrencyConflict, order.OrderNumber)
		}

		logNote := "payment failed"
		if note != "" {
			logNote = "payment failed: " + note
		}
		if err := tx.Create(&models.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   order.Status,
			ChangedBy:  actor.Ref(),
			Note:       logNote,
		}).Error; err != nil {
			return err
		}

		if err := tx.Preload("Items").First(&order, "id = ?", order.ID).Error; err != nil {
			return err
		}
		updated = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	hooks := &postCommit{}
	hooks.add("status notification", func() error {
		return m.notifier.StatusChanged(updated, updated.Status, "Your payment could not be processed")
	})
	hooks.run()

	return updated, nil
}

func statusMessage(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusPaid:
		return "Your payment has been received"
	case models.OrderStatusPreparing:
		return "Your order is being prepared"
	case models.OrderStatusReady:
		return "Your order is ready for pickup"
	case models.OrderStatusDelivered:
		return "Your order has been delivered"
	case models.OrderStatusCancelled:
		return "Your order has been cancelled"
	default:
		return "Your order status has changed"
	}
}
