package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

// CheckoutItem is one requested line.
type CheckoutItem struct {
	ProductID uint
	VariantID *uint
	Quantity  int
}

// InlineAddress is an address supplied with the checkout payload. It is
// stored (or matched against an existing row) under the ordering user.
type InlineAddress struct {
	Label      string
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	Country    string
	PostalCode string
}

// CheckoutRequest carries everything a checkout needs. Explicit Items win
// over the stored cart; with no items the cart is read regardless of
// UseCart.
type CheckoutRequest struct {
	AddressID     *uint
	Address       *InlineAddress
	Items         []CheckoutItem
	UseCart       bool
	ShippingCost  decimal.Decimal
	CouponCode    string
	Notes         string
	PaymentMethod string
}

// CheckoutService turns a cart (or explicit item list) into a durable
// order: address and item resolution, pricing snapshot, coupon
// validation, order number allocation, order + item insert, per-line
// stock debit and cart clearing all run in one transaction. Notifications
// fire after commit and are best-effort.
type CheckoutService struct {
	db        *gorm.DB
	ledger    *Ledger
	allocator *OrderNumberAllocator
	coupons   CouponService
	notifier  Notifier
}

func NewCheckoutService(db *gorm.DB, ledger *Ledger, allocator *OrderNumberAllocator, coupons CouponService, notifier Notifier) *CheckoutService {
	return &CheckoutService{
		db:        db,
		ledger:    ledger,
		allocator: allocator,
		coupons:   coupons,
		notifier:  notifier,
	}
}

type resolvedLine struct {
	ProductID uint
	VariantID *uint
	Quantity  int
}

// Checkout places an order for the acting user.
func (s *CheckoutService) Checkout(ctx context.Context, actor Actor, req CheckoutRequest) (*models.Order, error) {
	if actor.UserID == "" {
		return nil, &ValidationError{Msg: "user identity is required"}
	}
	if req.PaymentMethod == "" {
		return nil, &ValidationError{Msg: "payment_method is required"}
	}
	if req.ShippingCost.IsNegative() {
		return nil, &ValidationError{Msg: "shipping_cost must not be negative"}
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		address, err := s.resolveAddress(tx, actor.UserID, req)
		if err != nil {
			return err
		}

		lines, cartID, err := s.resolveItems(tx, actor.UserID, req)
		if err != nil {
			return err
		}

		priced := make([]PricedLine, 0, len(lines))
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, variant, err := s.loadLine(tx, line)
			if err != nil {
				return err
			}
			if !product.Sellable() {
				return &ValidationError{Msg: fmt.Sprintf("product %q is not available for sale", product.Name)}
			}
			pl := NewPricedLine(product, variant, line.Quantity)
			priced = append(priced, pl)
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				VariantID:   line.VariantID,
				ProductName: lineName(product, variant),
				SKU:         lineSKU(product, variant),
				Price:       pl.UnitPrice,
				Quantity:    line.Quantity,
				Total:       pl.LineTotal,
			})
		}

		subtotal := decimal.Zero
		for _, pl := range priced {
			subtotal = subtotal.Add(pl.LineTotal)
		}

		discount := decimal.Zero
		var couponCode *string
		var couponID uint
		if req.CouponCode != "" {
			result, err := s.coupons.Validate(tx, req.CouponCode, actor.UserID, subtotal)
			if err != nil {
				return err
			}
			discount = result.Discount
			couponID = result.CouponID
			code := req.CouponCode
			couponCode = &code
		}

		totals := ComputeTotals(priced, req.ShippingCost, discount)

		number, err := s.allocator.Next(tx)
		if err != nil {
			return err
		}

		o := &models.Order{
			OrderNumber:   number,
			UserID:        actor.UserID,
			AddressID:     address.ID,
			Items:         items,
			Subtotal:      totals.Subtotal,
			ShippingCost:  req.ShippingCost,
			Discount:      discount,
			CouponCode:    couponCode,
			Total:         totals.Total,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}

		for _, line := range lines {
			ref := MovementRef{ProductID: line.ProductID, VariantID: line.VariantID}
			note := fmt.Sprintf("sale for order %s", number)
			if _, err := s.ledger.ApplyMovement(tx, ref, -line.Quantity, models.MovementSale, note, actor); err != nil {
				return err
			}
		}

		if couponID != 0 {
			if err := s.coupons.RegisterRedemption(tx, couponID, actor.UserID, o.ID); err != nil {
				return err
			}
		}

		if cartID != nil {
			if err := tx.Where("cart_id = ?", *cartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	hooks := &postCommit{}
	hooks.add("order confirmation", func() error {
		return s.notifier.OrderConfirmed(order)
	})
	hooks.add("status notification", func() error {
		return s.notifier.StatusChanged(order, order.Status, "Your order has been received")
	})
	hooks.run()

	return order, nil
}

// resolveAddress follows the resolution order: explicit reference, inline
// payload (create-or-reuse), stored default, stored pickup address.
func (s *CheckoutService) resolveAddress(tx *gorm.DB, userID string, req CheckoutRequest) (*models.Address, error) {
	if req.AddressID != nil {
		var address models.Address
		if err := tx.First(&address, "id = ? AND user_id = ?", *req.AddressID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: address %d", ErrNotFound, *req.AddressID)
			}
			return nil, err
		}
		return &address, nil
	}

	if req.Address != nil {
		in := req.Address
		if in.Line1 == "" {
			return nil, &ValidationError{Msg: "address line1 is required"}
		}
		var address models.Address
		err := tx.Where("user_id = ? AND line1 = ? AND city = ? AND postal_code = ?",
			userID, in.Line1, in.City, in.PostalCode).First(&address).Error
		if err == nil {
			return &address, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		address = models.Address{
			UserID:     userID,
			Label:      in.Label,
			Recipient:  in.Recipient,
			Phone:      in.Phone,
			Line1:      in.Line1,
			Line2:      in.Line2,
			City:       in.City,
			Country:    in.Country,
			PostalCode: in.PostalCode,
		}
		if err := tx.Create(&address).Error; err != nil {
			return nil, err
		}
		return &address, nil
	}

	var address models.Address
	err := tx.Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if err == nil {
		return &address, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	err = tx.Where("user_id = ? AND type = ?", userID, models.AddressTypePickup).First(&address).Error
	if err == nil {
		return &address, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, ErrAddressRequired
}

// resolveItems returns the lines to order and, when they came from the
// stored cart, the cart ID to clear after the order is written.
func (s *CheckoutService) resolveItems(tx *gorm.DB, userID string, req CheckoutRequest) ([]resolvedLine, *uint, error) {
	if len(req.Items) > 0 {
		lines := make([]resolvedLine, 0, len(req.Items))
		for _, item := range req.Items {
			if item.Quantity < 1 {
				return nil, nil, &ValidationError{Msg: "item quantity must be at least 1"}
			}
			lines = append(lines, resolvedLine{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
			})
		}
		return lines, nil, nil
	}

	var cart models.Cart
	if err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEmptyCart
		}
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}
	lines := make([]resolvedLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, resolvedLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	cartID := cart.CartID
	return lines, &cartID, nil
}

func (s *CheckoutService) loadLine(tx *gorm.DB, line resolvedLine) (*models.Product, *models.ProductVariant, error) {
	var product models.Product
	if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: product %d", ErrNotFound, line.ProductID)
		}
		return nil, nil, err
	}
	if line.VariantID == nil {
		return &product, nil, nil
	}
	var variant models.ProductVariant
	if err := tx.First(&variant, "id = ? AND product_id = ?", *line.VariantID, product.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: variant %d of product %d", ErrNotFound, *line.VariantID, product.ID)
		}
		return nil, nil, err
	}
	return &product, &variant, nil
}

func lineName(p *models.Product, v *models.ProductVariant) string {
	if v != nil {
		return p.Name + " / " + v.Name
	}
	return p.Name
}

func lineSKU(p *models.Product, v *models.ProductVariant) string {
	if v != nil {
		return v.SKU
	}
	return p.SKU
}
