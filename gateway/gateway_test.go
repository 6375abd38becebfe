package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyTransactionVerified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/check_transaction_by_md5" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", got)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["md5"] != "abc123" {
			t.Errorf("md5 = %q, want abc123", req["md5"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"responseCode":    0,
			"responseMessage": "Getting transaction successfully.",
			"data": map[string]any{
				"hash":               "abc123",
				"fromAccountId":      "payer@bank",
				"toAccountId":        "shop@bank",
				"currency":           "USD",
				"amount":             80.0,
				"description":        "order payment",
				"createdDateMs":      1718445600000,
				"acknowledgedDateMs": 1718445605000,
				"externalRef":        "FT123",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	v, err := c.VerifyTransaction(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Verified {
		t.Fatalf("expected verified, got decline: %s", v.Reason)
	}
	if v.Amount != 80 || v.Currency != "USD" {
		t.Errorf("amount/currency = %v %s", v.Amount, v.Currency)
	}
	if v.FromAccount != "payer@bank" || v.ToAccount != "shop@bank" {
		t.Errorf("accounts = %s -> %s", v.FromAccount, v.ToAccount)
	}
	if v.ExternalRef != "FT123" {
		t.Errorf("external ref = %s", v.ExternalRef)
	}
	if v.CreatedAt.IsZero() || v.AcknowledgedAt.IsZero() {
		t.Errorf("provider timestamps not mapped")
	}
}

func TestVerifyTransactionDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"responseCode":    1,
			"responseMessage": "Transaction could not be found.",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	v, err := c.VerifyTransaction(context.Background(), "missing")
	if err != nil {
		t.Fatalf("decline must not be an error: %v", err)
	}
	if v.Verified {
		t.Fatal("expected decline")
	}
	if v.Reason != "Transaction could not be found." {
		t.Errorf("reason = %q", v.Reason)
	}
}

func TestVerifyTransactionProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.VerifyTransaction(context.Background(), "abc")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("5xx should map to ErrUnreachable, got %v", err)
	}
}

func TestVerifyTransactionNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "tok")
	_, err := c.VerifyTransaction(context.Background(), "abc")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("network failure should map to ErrUnreachable, got %v", err)
	}
}
