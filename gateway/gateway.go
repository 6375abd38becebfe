package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ErrUnreachable marks a network-level failure talking to the verification
// API, as opposed to an explicit decline. Callers surface the two differently.
var ErrUnreachable = errors.New("payment gateway unreachable")

// Verification is the normalized outcome of checking a transaction hash
// against the banking API. Verified=false carries the decline Reason.
type Verification struct {
	Verified       bool
	Reason         string
	Amount         float64
	Currency       string
	FromAccount    string
	ToAccount      string
	Description    string
	ExternalRef    string
	CreatedAt      time.Time
	AcknowledgedAt time.Time
}

// Client talks to the QR payment verification API (check-transaction-by-md5).
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a gateway client. The 10s timeout bounds how long a
// checkout transaction can be held open waiting on the provider.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientFromEnv reads PAYMENT_API_URL / PAYMENT_API_TOKEN.
func NewClientFromEnv() *Client {
	return NewClient(os.Getenv("PAYMENT_API_URL"), os.Getenv("PAYMENT_API_TOKEN"))
}

// wire shapes of the provider
type verifyRequest struct {
	MD5 string `json:"md5"`
}

type verifyResponse struct {
	ResponseCode    int    `json:"responseCode"` // 0 = found, anything else = declined
	ResponseMessage string `json:"responseMessage"`
	Data            struct {
		Hash               string  `json:"hash"`
		FromAccountID      string  `json:"fromAccountId"`
		ToAccountID        string  `json:"toAccountId"`
		Currency           string  `json:"currency"`
		Amount             float64 `json:"amount"`
		Description        string  `json:"description"`
		CreatedDateMs      int64   `json:"createdDateMs"`
		AcknowledgedDateMs int64   `json:"acknowledgedDateMs"`
		ExternalRef        string  `json:"externalRef"`
	} `json:"data"`
}

// VerifyTransaction checks an out-of-band QR payment by its transaction hash.
// A nil error with Verified=false means the provider explicitly declined; a
// non-nil error wraps ErrUnreachable and should be treated as retryable by
// the client, never retried here.
func (c *Client) VerifyTransaction(ctx context.Context, md5Hash string) (*Verification, error) {
	payload, err := json.Marshal(verifyRequest{MD5: md5Hash})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check_transaction_by_md5", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: provider returned %d", ErrUnreachable, resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("%w: bad provider response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK || vr.ResponseCode != 0 {
		reason := vr.ResponseMessage
		if reason == "" {
			reason = fmt.Sprintf("provider returned status %d", resp.StatusCode)
		}
		return &Verification{Verified: false, Reason: reason}, nil
	}

	return &Verification{
		Verified:       true,
		Amount:         vr.Data.Amount,
		Currency:       vr.Data.Currency,
		FromAccount:    vr.Data.FromAccountID,
		ToAccount:      vr.Data.ToAccountID,
		Description:    vr.Data.Description,
		ExternalRef:    vr.Data.ExternalRef,
		CreatedAt:      time.UnixMilli(vr.Data.CreatedDateMs),
		AcknowledgedAt: time.UnixMilli(vr.Data.AcknowledgedDateMs),
	}, nil
}
