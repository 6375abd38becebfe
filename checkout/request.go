package checkout

import (
	"strings"

	"sambok/models"
	"sambok/utils"
)

// Request is the checkout payload. MD5Hash identifies the out-of-band QR
// payment and is required only for that method.
type Request struct {
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	CurrentAddress string `json:"current_address"`
	GoogleMapLink  string `json:"google_map_link,omitempty"`
	Remarks        string `json:"remarks,omitempty"`
	CouponCode     string `json:"coupon_code,omitempty"`
	PaymentMethod  string `json:"payment_method"`
	MD5Hash        string `json:"md5_hash,omitempty"`
}

var paymentMethods = map[string]bool{
	models.MethodCreditCard:     true,
	models.MethodPaypal:         true,
	models.MethodCashOnDelivery: true,
	models.MethodQRCode:         true,
}

// Validate normalizes the request and returns a validation Error carrying
// per-field messages, or nil.
func (req *Request) Validate() *Error {
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.CurrentAddress = strings.TrimSpace(req.CurrentAddress)
	req.CouponCode = strings.TrimSpace(strings.ToLower(req.CouponCode))
	req.MD5Hash = strings.TrimSpace(req.MD5Hash)

	fields := map[string]string{}

	if req.Email == "" {
		fields["email"] = "email is required"
	} else if !utils.IsValidEmail(req.Email) {
		fields["email"] = "email is not valid"
	}
	if req.PhoneNumber == "" {
		fields["phone_number"] = "phone_number is required"
	}
	if req.CurrentAddress == "" {
		fields["current_address"] = "current_address is required"
	}
	if req.PaymentMethod == "" {
		fields["payment_method"] = "payment_method is required"
	} else if !paymentMethods[req.PaymentMethod] {
		fields["payment_method"] = "payment_method must be one of credit_card, paypal, cash_on_delivery, qr_code"
	}
	if req.PaymentMethod == models.MethodQRCode && req.MD5Hash == "" {
		fields["md5_hash"] = "md5_hash is required for qr_code payments"
	}

	if len(fields) > 0 {
		return &Error{Kind: KindValidation, Message: "invalid checkout request", Fields: fields}
	}
	return nil
}
