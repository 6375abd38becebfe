package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"sambok/db"
	"sambok/gateway"
	"sambok/globals"
	"sambok/models"
	"sambok/rdx"
	"sambok/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

// stubVerifier stands in for the gateway client.
type stubVerifier struct {
	v   *gateway.Verification
	err error
}

func (s stubVerifier) VerifyTransaction(ctx context.Context, md5Hash string) (*gateway.Verification, error) {
	return s.v, s.err
}

func TestVerifyDeclinedAbortsBeforeAnyWrite(t *testing.T) {
	h := NewHandler(stubVerifier{v: &gateway.Verification{Verified: false, Reason: "Transaction could not be found"}})
	order := models.Order{OrderID: utils.NewOrderID()}

	cerr := h.verifyAndRecordPayment(nil, &order, "deadbeef", time.Now())
	if cerr == nil {
		t.Fatal("expected an error for a declined verification")
	}
	if cerr.Kind != KindPaymentDeclined {
		t.Fatalf("kind = %q, want %q", cerr.Kind, KindPaymentDeclined)
	}
	if !strings.Contains(cerr.Message, "Transaction could not be found") {
		t.Errorf("message should carry the provider reason, got %q", cerr.Message)
	}
	if order.Status == models.OrderProcessing {
		t.Error("order must not advance to processing on decline")
	}
}

func TestVerifyUnreachableAbortsBeforeAnyWrite(t *testing.T) {
	h := NewHandler(stubVerifier{err: fmt.Errorf("%w: dial tcp: connection refused", gateway.ErrUnreachable)})
	order := models.Order{OrderID: utils.NewOrderID()}

	cerr := h.verifyAndRecordPayment(nil, &order, "deadbeef", time.Now())
	if cerr == nil {
		t.Fatal("expected an error for an unreachable provider")
	}
	if cerr.Kind != KindPaymentUnreachable {
		t.Fatalf("kind = %q, want %q", cerr.Kind, KindPaymentUnreachable)
	}
}

func TestCheckoutLockErrorIsNotContention(t *testing.T) {
	// Point the Redis client at a dead address: the lock attempt must surface
	// as a persistence failure, never as "checkout already in progress".
	old := rdx.Conn
	rdx.Conn = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer func() { rdx.Conn = old }()

	h := NewHandler(stubVerifier{})
	body, _ := json.Marshal(validRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(string(body)))
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "user-lock-test"))
	rec := httptest.NewRecorder()

	h.Checkout(rec, req, nil)

	if rec.Code == http.StatusTooManyRequests {
		t.Fatal("redis failure must not be reported as lock contention")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

// The tests below run the coordinator against a real Mongo deployment.
// Transactions need a replica set, so they are opt-in.
func requireTxnMongo(t *testing.T) {
	t.Helper()
	if os.Getenv("MONGO_TXN_TESTS") == "" {
		t.Skip("MONGO_TXN_TESTS not set; requires a Mongo replica set")
	}
}

func seedCartLine(t *testing.T, ctx context.Context, userID string, price float64, qty int) string {
	t.Helper()
	now := time.Now()
	productID := utils.GetUUID()

	if _, err := db.ProductCollection.InsertOne(ctx, models.Product{
		ProductID: productID,
		Name:      "Ceramic Mug",
		Price:     price,
		Stock:     10,
		CreatedBy: "seller-test",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if _, err := db.CartCollection.InsertOne(ctx, models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   now,
	}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	t.Cleanup(func() {
		cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		cur, err := db.OrderCollection.Find(cctx, bson.M{"userId": userID})
		if err == nil {
			var placed []models.Order
			_ = cur.All(cctx, &placed)
			for _, o := range placed {
				db.OrderDetailCollection.DeleteMany(cctx, bson.M{"orderid": o.OrderID})
				db.OrderItemCollection.DeleteMany(cctx, bson.M{"orderid": o.OrderID})
				db.PaymentCollection.DeleteMany(cctx, bson.M{"orderid": o.OrderID})
			}
		}
		db.OrderCollection.DeleteMany(cctx, bson.M{"userId": userID})
		db.CartCollection.DeleteMany(cctx, bson.M{"userId": userID})
		db.ProductCollection.DeleteOne(cctx, bson.M{"productid": productID})
	})
	return productID
}

func TestCheckoutClearsCartAndFixesTotal(t *testing.T) {
	requireTxnMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userID := "user-" + utils.GetUUID()
	seedCartLine(t, ctx, userID, 50.00, 2)

	h := NewHandler(stubVerifier{})
	req := validRequest()
	res, cerr := h.process(ctx, userID, &req)
	if cerr != nil {
		t.Fatalf("checkout failed: %v", cerr)
	}
	if res.TotalPrice != 100.00 {
		t.Errorf("total = %.2f, want 100.00", res.TotalPrice)
	}

	n, err := db.CartCollection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		t.Fatalf("count cart: %v", err)
	}
	if n != 0 {
		t.Errorf("cart rows after checkout = %d, want 0", n)
	}
}

func TestCheckoutDeclinedPaymentRollsBackEverything(t *testing.T) {
	requireTxnMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userID := "user-" + utils.GetUUID()
	seedCartLine(t, ctx, userID, 50.00, 2)

	h := NewHandler(stubVerifier{v: &gateway.Verification{Verified: false, Reason: "not found"}})
	req := validRequest()
	req.PaymentMethod = models.MethodQRCode
	req.MD5Hash = utils.GetUUID()

	_, cerr := h.process(ctx, userID, &req)
	if cerr == nil || cerr.Kind != KindPaymentDeclined {
		t.Fatalf("expected %s, got %v", KindPaymentDeclined, cerr)
	}

	if n, _ := db.OrderCollection.CountDocuments(ctx, bson.M{"userId": userID}); n != 0 {
		t.Errorf("orders after rollback = %d, want 0", n)
	}
	if n, _ := db.PaymentCollection.CountDocuments(ctx, bson.M{"transaction_hash": req.MD5Hash}); n != 0 {
		t.Errorf("payments after rollback = %d, want 0", n)
	}
	if n, _ := db.CartCollection.CountDocuments(ctx, bson.M{"userId": userID}); n != 1 {
		t.Errorf("cart rows after rollback = %d, want 1", n)
	}
}

func TestCheckoutRejectsReplayedTransactionHash(t *testing.T) {
	requireTxnMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	userID := "user-" + utils.GetUUID()
	hash := utils.GetUUID()
	h := NewHandler(stubVerifier{v: &gateway.Verification{Verified: true, Amount: 100.00, Currency: "USD"}})

	seedCartLine(t, ctx, userID, 50.00, 2)
	req := validRequest()
	req.PaymentMethod = models.MethodQRCode
	req.MD5Hash = hash
	if _, cerr := h.process(ctx, userID, &req); cerr != nil {
		t.Fatalf("first checkout failed: %v", cerr)
	}

	seedCartLine(t, ctx, userID, 50.00, 2)
	_, cerr := h.process(ctx, userID, &req)
	if cerr == nil || cerr.Kind != KindDuplicateTransaction {
		t.Fatalf("expected %s, got %v", KindDuplicateTransaction, cerr)
	}

	if n, _ := db.PaymentCollection.CountDocuments(ctx, bson.M{"transaction_hash": hash}); n != 1 {
		t.Errorf("payment rows for hash = %d, want 1", n)
	}
	if n, _ := db.OrderCollection.CountDocuments(ctx, bson.M{"userId": userID}); n != 1 {
		t.Errorf("orders for user = %d, want 1", n)
	}
}

func TestCheckoutEmptyCartCreatesNothing(t *testing.T) {
	requireTxnMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userID := "user-" + utils.GetUUID()
	h := NewHandler(stubVerifier{})
	req := validRequest()

	_, cerr := h.process(ctx, userID, &req)
	if cerr == nil || cerr.Kind != KindEmptyCart {
		t.Fatalf("expected %s, got %v", KindEmptyCart, cerr)
	}
	if n, _ := db.OrderCollection.CountDocuments(ctx, bson.M{"userId": userID}); n != 0 {
		t.Errorf("orders for user = %d, want 0", n)
	}
}
