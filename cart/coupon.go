package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"sambok/db"
	"sambok/models"
	"sambok/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type CouponRequest struct {
	Code string  `json:"code"`
	Cart float64 `json:"cart"` // cart subtotal, for the discount preview
}

type CouponResponse struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"` // absolute amount, not %
	Message  string  `json:"message"`
}

// ValidateCouponHandler previews a coupon against the given subtotal. The
// checkout flow re-validates server-side; this endpoint only informs the UI.
func ValidateCouponHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	code := strings.TrimSpace(strings.ToLower(req.Code))
	if code == "" {
		utils.RespondWithJSON(w, http.StatusOK, CouponResponse{Valid: false, Message: "No coupon provided"})
		return
	}

	var coupon models.Coupon
	err := db.CouponCollection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, CouponResponse{Valid: false, Message: "Coupon not found"})
		return
	}

	if !coupon.Active {
		utils.RespondWithJSON(w, http.StatusOK, CouponResponse{Valid: false, Message: "Coupon inactive"})
		return
	}
	if time.Now().After(coupon.ExpiresAt) {
		utils.RespondWithJSON(w, http.StatusOK, CouponResponse{Valid: false, Message: "Coupon expired"})
		return
	}

	discount := 0.0
	if req.Cart > 0 {
		discount = (req.Cart * coupon.Discount) / 100
	}

	utils.RespondWithJSON(w, http.StatusOK, CouponResponse{
		Valid:    true,
		Discount: discount,
		Message:  "Coupon applied successfully",
	})
}
