package models

import "time"

// Product is a catalog entry. Price is the current list price; historical
// orders capture their own copy of it at purchase time.
type Product struct {
	ProductID   string    `json:"productid" bson:"productid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	ImagePath   string    `json:"imagePath,omitempty" bson:"imagePath,omitempty"`
	CreatedBy   string    `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Discount is a time-bounded percentage discount attached to a product.
// It applies only while IsActive and now is inside [StartDate, EndDate].
type Discount struct {
	ProductID  string    `json:"productid" bson:"productid"`
	Percentage float64   `json:"percentage" bson:"percentage"` // 0..100
	IsActive   bool      `json:"isActive" bson:"isActive"`
	StartDate  time.Time `json:"startDate" bson:"startDate"`
	EndDate    time.Time `json:"endDate" bson:"endDate"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

type Coupon struct {
	Code      string    `json:"code" bson:"code"`
	Discount  float64   `json:"discount" bson:"discount"` // % value e.g. 10 means 10%
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	Active    bool      `json:"active" bson:"active"`
}
