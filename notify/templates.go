package notify

import (
	"fmt"
	"strings"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

func buildOrderConfirmedBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thank you for your order</h2>")
	fmt.Fprintf(&b, "<p>Order number: <strong>%s</strong></p>", order.OrderNumber)
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
			item.ProductName, item.Quantity, item.Price.StringFixed(2), item.Total.StringFixed(2))
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>Subtotal: %s</p>", order.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "<p>Shipping: %s</p>", order.ShippingCost.StringFixed(2))
	if order.Discount.IsPositive() {
		fmt.Fprintf(&b, "<p>Discount: -%s</p>", order.Discount.StringFixed(2))
	}
	fmt.Fprintf(&b, "<p><strong>Total: %s</strong></p>", order.Total.StringFixed(2))
	return b.String()
}

func buildStatusChangedBody(order *models.Order, status models.OrderStatus, message string) string {
	return fmt.Sprintf(
		"<p>%s</p><p>Order <strong>%s</strong> is now <strong>%s</strong>.</p>",
		message, order.OrderNumber, status)
}
