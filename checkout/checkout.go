package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"sambok/db"
	"sambok/gateway"
	"sambok/models"
	"sambok/orders"
	"sambok/pricing"
	"sambok/rdx"
	"sambok/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// checkoutLockTTL bounds the per-user Redis lock held across one checkout.
const checkoutLockTTL = 30 * time.Second

// TransactionVerifier is the slice of the gateway client the coordinator
// needs. gateway.Client satisfies it; tests substitute a stub.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, md5Hash string) (*gateway.Verification, error)
}

// Handler orchestrates checkout. The verifier is injected so routes can point
// it at the configured provider and tests at a fake.
type Handler struct {
	Gateway TransactionVerifier
}

func NewHandler(g TransactionVerifier) *Handler {
	return &Handler{Gateway: g}
}

// LineBreakdown is the per-line pricing echo returned for client confirmation.
type LineBreakdown struct {
	ProductUUID        string  `json:"product_uuid"`
	ProductName        string  `json:"product_name"`
	Quantity           int     `json:"quantity"`
	OriginalPrice      float64 `json:"original_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	TotalDiscount      float64 `json:"total_discount"`
	DiscountedPrice    float64 `json:"discounted_price"`
	TotalPrice         float64 `json:"total_price"`
}

// Result is the success payload of one checkout.
type Result struct {
	OrderID    string          `json:"order_id"`
	TotalPrice float64         `json:"total_price"`
	CartItems  []LineBreakdown `json:"cart_items"`
}

// Checkout converts the user's cart into an order.
// POST /api/v1/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, http.StatusBadRequest, KindValidation, "invalid JSON payload", nil)
		return
	}
	if verr := req.Validate(); verr != nil {
		utils.SendError(w, verr.HTTPStatus(), verr.Kind, verr.Message, verr.Fields)
		return
	}

	// One checkout per user at a time; the cart is read and deleted with no
	// row locking, so serialize at this level instead. A Redis failure is not
	// contention and must not masquerade as it.
	acquired, err := rdx.RdxSetNX("checkout_lock:"+userID, "1", checkoutLockTTL)
	if err != nil {
		log.Printf("Checkout: lock acquire failed for user %s: %v", userID, err)
		utils.SendError(w, http.StatusInternalServerError, KindPersistence, "checkout failed", nil)
		return
	}
	if !acquired {
		http.Error(w, "checkout already in progress, please retry", http.StatusTooManyRequests)
		return
	}
	defer rdx.RdxDel("checkout_lock:" + userID)

	result, cerr := h.process(ctx, userID, &req)
	if cerr != nil {
		if cerr.Kind == KindPersistence {
			log.Printf("Checkout: persistence failure for user %s: %v", userID, cerr.Message)
			utils.SendError(w, cerr.HTTPStatus(), cerr.Kind, "checkout failed", nil)
			return
		}
		utils.SendError(w, cerr.HTTPStatus(), cerr.Kind, cerr.Message, cerr.Fields)
		return
	}

	// Post-commit, best effort: push the status to any order stream watchers.
	orders.Broadcast(result.OrderID, orders.StatusUpdate{OrderID: result.OrderID, Status: statusAfterCheckout(&req)})

	utils.SendResponse(w, http.StatusCreated, result, "Order placed successfully", nil)
}

func statusAfterCheckout(req *Request) string {
	if req.PaymentMethod == models.MethodQRCode {
		return models.OrderProcessing
	}
	return models.OrderPending
}

// process runs the whole checkout as one Mongo transaction: snapshot, price,
// write Order/OrderDetail/OrderItems (+ Payment), clear the cart. Any error
// aborts the transaction and nothing persists.
func (h *Handler) process(ctx context.Context, userID string, req *Request) (*Result, *Error) {
	session, err := db.Client.StartSession()
	if err != nil {
		return nil, failf(KindPersistence, err.Error())
	}
	defer session.EndSession(ctx)

	res, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return h.runSteps(sc, userID, req)
	})
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			return nil, cerr
		}
		return nil, failf(KindPersistence, err.Error())
	}

	return res.(*Result), nil
}

// runSteps executes inside the transaction's session context.
func (h *Handler) runSteps(sc mongo.SessionContext, userID string, req *Request) (*Result, error) {
	now := time.Now()

	lines, err := loadCartLines(sc, userID)
	if err != nil {
		return nil, failf(KindPersistence, err.Error())
	}
	if len(lines) == 0 {
		return nil, failf(KindEmptyCart, "cart is empty")
	}

	priced, total, err := pricing.PriceCart(lines, now)
	if err != nil {
		// cart invariants should make this unreachable; surface as validation
		return nil, &Error{Kind: KindValidation, Message: err.Error()}
	}

	if req.CouponCode != "" {
		if cerr := checkCoupon(sc, req.CouponCode, now); cerr != nil {
			return nil, cerr
		}
	}

	order := models.Order{
		OrderID:    utils.NewOrderID(),
		UserID:     userID,
		TotalPrice: total,
		Status:     models.OrderPending,
		CouponCode: req.CouponCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := db.OrderCollection.InsertOne(sc, order); err != nil {
		return nil, failf(KindPersistence, err.Error())
	}

	detail := models.OrderDetail{
		OrderID:       order.OrderID,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.CurrentAddress,
		GoogleMapLink: req.GoogleMapLink,
		Remarks:       req.Remarks,
		CreatedAt:     now,
	}
	if _, err := db.OrderDetailCollection.InsertOne(sc, detail); err != nil {
		return nil, failf(KindPersistence, err.Error())
	}

	items := make([]interface{}, 0, len(priced))
	breakdown := make([]LineBreakdown, 0, len(priced))
	for _, p := range priced {
		items = append(items, models.OrderItem{
			OrderID:            order.OrderID,
			ProductID:          p.ProductID,
			ProductName:        p.ProductName,
			Quantity:           p.Quantity,
			UnitPrice:          p.UnitPrice,
			DiscountPercentage: p.DiscountPct,
			DiscountAmount:     p.DiscountAmount,
			DiscountedPrice:    p.DiscountedPrice,
			LineTotal:          p.LineTotal,
		})
		breakdown = append(breakdown, LineBreakdown{
			ProductUUID:        p.ProductID,
			ProductName:        p.ProductName,
			Quantity:           p.Quantity,
			OriginalPrice:      p.UnitPrice,
			DiscountPercentage: p.DiscountPct,
			TotalDiscount:      p.TotalDiscount,
			DiscountedPrice:    p.DiscountedPrice,
			TotalPrice:         p.LineTotal,
		})
	}
	if _, err := db.OrderItemCollection.InsertMany(sc, items); err != nil {
		return nil, failf(KindPersistence, err.Error())
	}

	if req.PaymentMethod == models.MethodQRCode {
		if cerr := h.verifyAndRecordPayment(sc, &order, req.MD5Hash, now); cerr != nil {
			return nil, cerr
		}
	}

	// Clearing inside the transaction: the cart is consumed iff the order
	// commits; any abort above leaves it untouched.
	if _, err := db.CartCollection.DeleteMany(sc, bson.M{"userId": userID}); err != nil {
		return nil, failf(KindPersistence, err.Error())
	}

	return &Result{
		OrderID:    order.OrderID,
		TotalPrice: total,
		CartItems:  breakdown,
	}, nil
}

// verifyAndRecordPayment calls the provider synchronously, writes the Payment
// row, and moves the order pending -> processing. The unique index on
// transaction_hash rejects a replayed hash.
func (h *Handler) verifyAndRecordPayment(sc mongo.SessionContext, order *models.Order, md5Hash string, now time.Time) *Error {
	v, err := h.Gateway.VerifyTransaction(sc, md5Hash)
	if err != nil {
		if errors.Is(err, gateway.ErrUnreachable) {
			return failf(KindPaymentUnreachable, "payment provider unreachable, please retry")
		}
		return failf(KindPersistence, err.Error())
	}
	if !v.Verified {
		return failf(KindPaymentDeclined, "payment verification failed: "+v.Reason)
	}

	payment := models.Payment{
		ID:              utils.GetUUID(),
		OrderID:         order.OrderID,
		TransactionHash: md5Hash,
		Method:          models.MethodQRCode,
		Amount:          v.Amount,
		Currency:        v.Currency,
		Status:          "completed",
		FromAccount:     v.FromAccount,
		ToAccount:       v.ToAccount,
		Description:     v.Description,
		ExternalRef:     v.ExternalRef,
		ProviderCreated: v.CreatedAt,
		ProviderAcked:   v.AcknowledgedAt,
		CreatedAt:       now,
	}
	if _, err := db.PaymentCollection.InsertOne(sc, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return failf(KindDuplicateTransaction, "this transaction has already been used for another order")
		}
		return failf(KindPersistence, err.Error())
	}

	if _, err := db.OrderCollection.UpdateOne(sc,
		bson.M{"orderid": order.OrderID},
		bson.M{"$set": bson.M{"status": models.OrderProcessing, "updatedAt": now}},
	); err != nil {
		return failf(KindPersistence, err.Error())
	}
	order.Status = models.OrderProcessing
	return nil
}

// checkCoupon validates an optional coupon reference. The coupon is recorded
// on the order but does not change the total; line-level discounts are the
// only price inputs (see total consistency invariant).
func checkCoupon(sc mongo.SessionContext, code string, now time.Time) *Error {
	var coupon models.Coupon
	if err := db.CouponCollection.FindOne(sc, bson.M{"code": code}).Decode(&coupon); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &Error{Kind: KindValidation, Message: "invalid coupon", Fields: map[string]string{"coupon_code": "coupon not found"}}
		}
		return failf(KindPersistence, err.Error())
	}
	if !coupon.Active {
		return &Error{Kind: KindValidation, Message: "invalid coupon", Fields: map[string]string{"coupon_code": "coupon inactive"}}
	}
	if now.After(coupon.ExpiresAt) {
		return &Error{Kind: KindValidation, Message: "invalid coupon", Fields: map[string]string{"coupon_code": "coupon expired"}}
	}
	return nil
}
