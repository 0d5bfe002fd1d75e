package orderControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		headers := []string{
			"OrderNumber", "UserID", "Status", "PaymentStatus", "PaymentMethod",
			"Subtotal", "ShippingCost", "Discount", "Total", "CouponCode",
			"Items", "CreatedAt", "PaidAt", "DeliveredAt", "CancelledAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows
		for _, o := range orders {
			row := sheet.AddRow()

			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.PaymentMethod)
			row.AddCell().SetValue(o.Subtotal.StringFixed(2))
			row.AddCell().SetValue(o.ShippingCost.StringFixed(2))
			row.AddCell().SetValue(o.Discount.StringFixed(2))
			row.AddCell().SetValue(o.Total.StringFixed(2))
			if o.CouponCode != nil {
				row.AddCell().SetValue(*o.CouponCode)
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(len(o.Items))
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(formatNullableTime(o.PaidAt))
			row.AddCell().SetValue(formatNullableTime(o.DeliveredAt))
			row.AddCell().SetValue(formatNullableTime(o.CancelledAt))
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

func formatNullableTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
