package checkout

import (
	"net/http"
	"testing"

	"sambok/models"
)

func validRequest() Request {
	return Request{
		Email:          "buyer@example.com",
		PhoneNumber:    "+855 12 345 678",
		CurrentAddress: "Phnom Penh",
		PaymentMethod:  models.MethodCashOnDelivery,
	}
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	req := validRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v (fields %v)", err, err.Fields)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	req := Request{}
	err := req.Validate()
	if err == nil {
		t.Fatal("expected validation error for empty request")
	}
	if err.Kind != KindValidation {
		t.Fatalf("kind = %q, want %q", err.Kind, KindValidation)
	}
	for _, field := range []string{"email", "phone_number", "current_address", "payment_method"} {
		if _, ok := err.Fields[field]; !ok {
			t.Errorf("missing field error for %q", field)
		}
	}
}

func TestValidateRejectsBadEmail(t *testing.T) {
	req := validRequest()
	req.Email = "not-an-email"
	err := req.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := err.Fields["email"]; !ok {
		t.Errorf("missing field error for email, got %v", err.Fields)
	}
}

func TestValidateRejectsUnknownPaymentMethod(t *testing.T) {
	req := validRequest()
	req.PaymentMethod = "bitcoin"
	err := req.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := err.Fields["payment_method"]; !ok {
		t.Errorf("missing field error for payment_method, got %v", err.Fields)
	}
}

func TestValidateQRCodeRequiresHash(t *testing.T) {
	req := validRequest()
	req.PaymentMethod = models.MethodQRCode
	err := req.Validate()
	if err == nil {
		t.Fatal("expected validation error when md5_hash is absent")
	}
	if _, ok := err.Fields["md5_hash"]; !ok {
		t.Errorf("missing field error for md5_hash, got %v", err.Fields)
	}

	req.MD5Hash = "d5a4c2f1e8b94b3a9c7d6e5f4a3b2c1d"
	if verr := req.Validate(); verr != nil {
		t.Fatalf("expected valid request with hash, got %v", verr)
	}
}

func TestValidateHashOptionalForOtherMethods(t *testing.T) {
	req := validRequest()
	req.PaymentMethod = models.MethodCreditCard
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateNormalizes(t *testing.T) {
	req := validRequest()
	req.Email = "  buyer@example.com  "
	req.CouponCode = "  SUMMER25 "
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if req.Email != "buyer@example.com" {
		t.Errorf("email not trimmed: %q", req.Email)
	}
	if req.CouponCode != "summer25" {
		t.Errorf("coupon not normalized: %q", req.CouponCode)
	}
}

func TestErrorHTTPStatus(t *testing.T) {
	cases := []struct {
		kind string
		want int
	}{
		{KindValidation, http.StatusUnprocessableEntity},
		{KindEmptyCart, http.StatusBadRequest},
		{KindPaymentDeclined, http.StatusBadRequest},
		{KindPaymentUnreachable, http.StatusBadGateway},
		{KindDuplicateTransaction, http.StatusConflict},
		{KindPersistence, http.StatusInternalServerError},
	}
	for _, c := range cases {
		e := &Error{Kind: c.kind}
		if got := e.HTTPStatus(); got != c.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestStatusAfterCheckout(t *testing.T) {
	qr := validRequest()
	qr.PaymentMethod = models.MethodQRCode
	if got := statusAfterCheckout(&qr); got != models.OrderProcessing {
		t.Errorf("qr_code status = %q, want %q", got, models.OrderProcessing)
	}
	cod := validRequest()
	if got := statusAfterCheckout(&cod); got != models.OrderPending {
		t.Errorf("cash_on_delivery status = %q, want %q", got, models.OrderPending)
	}
}
