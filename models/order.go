package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderItem carries the price snapshotted at order-creation time so later
// product edits never change what the buyer owes.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Vendor   primitive.ObjectID `bson:"vendor" json:"vendor"`
}

type ShippingAddress struct {
	Street  string `bson:"street" json:"street" binding:"required"`
	City    string `bson:"city" json:"city" binding:"required"`
	State   string `bson:"state" json:"state" binding:"required"`
	Country string `bson:"country" json:"country" binding:"required"`
	ZipCode string `bson:"zipCode" json:"zipCode" binding:"required"`
}

type PaymentInfo struct {
	ID     string `bson:"id,omitempty" json:"id,omitempty"`
	Status string `bson:"status,omitempty" json:"status,omitempty"`
	Type   string `bson:"type,omitempty" json:"type,omitempty"`
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User              primitive.ObjectID `bson:"user" json:"user"`
	Items             []OrderItem        `bson:"items" json:"items"`
	ShippingAddress   ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentInfo       PaymentInfo        `bson:"paymentInfo,omitempty" json:"paymentInfo"`
	TotalAmount       float64            `bson:"totalAmount" json:"totalAmount"`
	Status            OrderStatus        `bson:"status" json:"status"`
	RazorpayOrderID   string             `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string             `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string             `bson:"razorpaySignature,omitempty" json:"razorpaySignature,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// HasVendor reports whether at least one line item belongs to the vendor.
func (o *Order) HasVendor(vendor primitive.ObjectID) bool {
	for _, item := range o.Items {
		if item.Vendor == vendor {
			return true
		}
	}
	return false
}
