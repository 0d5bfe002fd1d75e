package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
	"github.com/BeltranHC/ecomerce-akemy-sub000/services"
)

// -------- Request Structs --------

type AddressPayload struct {
	Label      string `json:"label"`
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type OrderItemPayload struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	AddressID     *uint              `json:"address_id"`
	Address       *AddressPayload    `json:"address"`
	Items         []OrderItemPayload `json:"items"`
	UseCart       bool               `json:"use_cart"`
	ShippingCost  decimal.Decimal    `json:"shipping_cost"`
	CouponCode    string             `json:"coupon_code"`
	Notes         string             `json:"notes"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusPaid):
		return models.OrderStatusPaid, nil
	case string(models.OrderStatusPreparing):
		return models.OrderStatusPreparing, nil
	case string(models.OrderStatusReady):
		return models.OrderStatusReady, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// respondError maps engine error kinds to HTTP responses without leaking
// internals.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Msg})
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrAddressRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
	case errors.Is(err, services.ErrInvalidCoupon):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "coupon not valid"})
	case errors.Is(err, services.ErrIllegalStateTransition),
		errors.Is(err, services.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toCheckoutRequest(req PlaceOrderRequest) services.CheckoutRequest {
	out := services.CheckoutRequest{
		AddressID:     req.AddressID,
		UseCart:       req.UseCart,
		ShippingCost:  req.ShippingCost,
		CouponCode:    req.CouponCode,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	}
	if req.Address != nil {
		out.Address = &services.InlineAddress{
			Label:      req.Address.Label,
			Recipient:  req.Address.Recipient,
			Phone:      req.Address.Phone,
			Line1:      req.Address.Line1,
			Line2:      req.Address.Line2,
			City:       req.Address.City,
			Country:    req.Address.Country,
			PostalCode: req.Address.PostalCode,
		}
	}
	for _, item := range req.Items {
		out.Items = append(out.Items, services.CheckoutItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return out
}

// -------- Handlers --------

// Place order (user)
func PlaceOrderHandler(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := checkout.Checkout(c.Request.Context(), services.Actor{UserID: userID}, toCheckoutRequest(req))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Address").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Preload("Address").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByIDHandler accepts a numeric id or an order number.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		query := db.Preload("User").Preload("Items").Preload("Address")
		if _, err := strconv.ParseUint(id, 10, 64); err == nil {
			query = query.Where("id = ? OR order_number = ?", id, id)
		} else {
			query = query.Where("order_number = ?", id)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// Update order status (admin)
func UpdateOrderStatusHandler(states *services.StateMachine) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderID"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		actor := services.Actor{Admin: true}
		if userID := c.GetString("user_id"); userID != "" {
			actor.UserID = userID
		} else {
			actor = services.SystemActor()
		}

		order, err := states.Transition(c.Request.Context(), actor, uint(orderID), newStatus, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// Cancel order (user cancels their own pending/paid order)
func CancelOrderHandler(db *gorm.DB, states *services.StateMachine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderID"})
			return
		}
		var req CancelOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
			return
		}

		updated, err := states.Transition(c.Request.Context(), services.Actor{UserID: userID}, order.ID, models.OrderStatusCancelled, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// Order status history (admin)
func GetOrderStatusLogHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderID"})
			return
		}
		var logs []models.OrderStatusLog
		if err := db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status history"})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
