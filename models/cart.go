package models

import "time"

// CartItem is one row of a user's cart, keyed by (userId, productId).
// Only the quantity lives here; price and discount are joined in fresh at
// checkout time.
type CartItem struct {
	UserID    string    `json:"userId" bson:"userId"`
	ProductID string    `json:"productId" bson:"productId"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}
