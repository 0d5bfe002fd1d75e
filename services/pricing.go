package services

import (
	"github.com/shopspring/decimal"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

// PricedLine pairs an order line with the unit price resolved at checkout
// time. The price is baked into the OrderItem snapshot afterwards; later
// catalog changes never touch existing orders.
type PricedLine struct {
	Product   *models.Product
	Variant   *models.ProductVariant
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// NewPricedLine resolves the unit price for a line and precomputes its
// total.
func NewPricedLine(p *models.Product, v *models.ProductVariant, quantity int) PricedLine {
	unit := UnitPrice(p, v)
	return PricedLine{
		Product:   p,
		Variant:   v,
		Quantity:  quantity,
		UnitPrice: unit,
		LineTotal: unit.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// UnitPrice is the authoritative price for a line: the variant override
// when one is set, otherwise the product's base price.
func UnitPrice(p *models.Product, v *models.ProductVariant) decimal.Decimal {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

type Totals struct {
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives the order totals. The discount is applied
// arithmetically only; validating it is the coupon service's job. The
// final total is floor-clamped at zero.
func ComputeTotals(lines []PricedLine, shipping, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	total := subtotal.Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{Subtotal: subtotal, Total: total}
}

// RoundMoney rounds to two decimal places, half up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
