package models

import "time"

// Order statuses. An order is created pending and moves to processing when a
// payment is recorded; completed/cancelled are driven by fulfillment.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Order is a finalized checkout. OrderID is the opaque client-facing
// identifier; TotalPrice is fixed at creation and never recalculated.
type Order struct {
	OrderID    string    `json:"orderId" bson:"orderid"`
	UserID     string    `json:"userId" bson:"userId"`
	TotalPrice float64   `json:"totalPrice" bson:"totalPrice"`
	Status     string    `json:"status" bson:"status"`
	CouponCode string    `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OrderDetail holds the shipping/contact metadata, 1:1 with Order.
// Immutable once written.
type OrderDetail struct {
	OrderID       string    `json:"orderId" bson:"orderid"`
	Email         string    `json:"email" bson:"email"`
	PhoneNumber   string    `json:"phoneNumber" bson:"phoneNumber"`
	Address       string    `json:"address" bson:"address"`
	GoogleMapLink string    `json:"googleMapLink,omitempty" bson:"googleMapLink,omitempty"`
	Remarks       string    `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// OrderItem captures one cart line at purchase time. Unit prices and
// discounts are frozen here so later catalog changes never touch history.
type OrderItem struct {
	OrderID            string  `json:"orderId" bson:"orderid"`
	ProductID          string  `json:"productId" bson:"productId"`
	ProductName        string  `json:"productName" bson:"productName"`
	Quantity           int     `json:"quantity" bson:"quantity"`
	UnitPrice          float64 `json:"unitPrice" bson:"unitPrice"`
	DiscountPercentage float64 `json:"discountPercentage" bson:"discountPercentage"`
	DiscountAmount     float64 `json:"discountAmount" bson:"discountAmount"` // per unit
	DiscountedPrice    float64 `json:"discountedPrice" bson:"discountedPrice"`
	LineTotal          float64 `json:"lineTotal" bson:"lineTotal"`
}
