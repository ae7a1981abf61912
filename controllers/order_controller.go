package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"ateaze/models"
	"ateaze/services"
)

type OrderController struct {
	orders *services.OrderService
	logger *zap.Logger
}

func NewOrderController(orders *services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

func (o *OrderController) Create(c *gin.Context) {
	user, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var body struct {
		Items []struct {
			Product  string `json:"product" binding:"required"`
			Quantity int    `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1,dive"`
		ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}

	items := make([]services.OrderItemInput, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, services.OrderItemInput{
			ProductID: item.Product,
			Quantity:  item.Quantity,
		})
	}

	order, gatewayOrder, err := o.orders.CreateOrder(c.Request.Context(), user, items, body.ShippingAddress)
	if err != nil {
		var itemErr *services.ItemError
		switch {
		case errors.As(err, &itemErr):
			c.JSON(http.StatusBadRequest, gin.H{"message": itemErr.Error()})
		case errors.Is(err, services.ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order must contain at least one item"})
		default:
			o.logger.Error("order_creation_failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order. Please try again."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":         order,
		"razorpayOrder": gatewayOrder,
	})
}

// VerifyPayment checks the gateway callback signature and marks the order paid.
func (o *OrderController) VerifyPayment(c *gin.Context) {
	var body struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Order ID, payment ID and signature are required"})
		return
	}

	_, err := o.orders.VerifyPayment(c.Request.Context(), body.RazorpayOrderID, body.RazorpayPaymentID, body.RazorpaySignature)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
	case errors.Is(err, services.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment verification failed."})
	case err != nil:
		o.logger.Error("payment_verification_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred during payment verification."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Payment verified successfully"})
	}
}

func (o *OrderController) MyOrders(c *gin.Context) {
	user, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	orders, err := o.orders.ListUserOrders(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (o *OrderController) ListAll(c *gin.Context) {
	orders, err := o.orders.ListAllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (o *OrderController) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order ID"})
		return
	}

	order, err := o.orders.GetOrder(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	default:
		c.JSON(http.StatusOK, order)
	}
}

var updatableStatuses = map[models.OrderStatus]bool{
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

func (o *OrderController) UpdateStatus(c *gin.Context) {
	actor, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order ID"})
		return
	}

	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !updatableStatuses[body.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	order, err := o.orders.UpdateStatus(c.Request.Context(), id, body.Status, actor, currentRole(c))
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
	case errors.Is(err, services.ErrNotOrderVendor):
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this order"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	default:
		c.JSON(http.StatusOK, order)
	}
}
