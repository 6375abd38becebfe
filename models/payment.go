package models

import "time"

// Payment methods accepted at checkout. Only qr_code requires synchronous
// verification against the banking API.
const (
	MethodCreditCard     = "credit_card"
	MethodPaypal         = "paypal"
	MethodCashOnDelivery = "cash_on_delivery"
	MethodQRCode         = "qr_code"
)

// Payment is the record of one verified external payment. TransactionHash is
// unique across the collection; a reused hash is rejected at insert.
type Payment struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	OrderID         string    `bson:"orderid" json:"order_id"`
	TransactionHash string    `bson:"transaction_hash" json:"transaction_hash"`
	Method          string    `bson:"method" json:"method"`
	Amount          float64   `bson:"amount" json:"amount"`
	Currency        string    `bson:"currency" json:"currency"`
	Status          string    `bson:"status" json:"status"` // pending, paid, failed, completed
	FromAccount     string    `bson:"from_account,omitempty" json:"from_account,omitempty"`
	ToAccount       string    `bson:"to_account,omitempty" json:"to_account,omitempty"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	ExternalRef     string    `bson:"external_ref,omitempty" json:"external_ref,omitempty"`
	ProviderCreated time.Time `bson:"provider_created_at,omitempty" json:"provider_created_at,omitempty"`
	ProviderAcked   time.Time `bson:"provider_acked_at,omitempty" json:"provider_acked_at,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
