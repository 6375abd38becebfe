package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"sambok/db"
	"sambok/models"
	"sambok/rdx"
	"sambok/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetDiscount attaches (or replaces) the product's discount. One discount per
// product; checkout decides applicability from the flag and window.
func SetDiscount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	var discount models.Discount
	if err := json.NewDecoder(r.Body).Decode(&discount); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if discount.Percentage < 0 || discount.Percentage > 100 {
		http.Error(w, "Percentage must be between 0 and 100", http.StatusBadRequest)
		return
	}
	if discount.EndDate.Before(discount.StartDate) {
		http.Error(w, "end date must not precede start date", http.StatusBadRequest)
		return
	}

	// only the product owner may discount it
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID, "createdBy": userID}).Err(); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	discount.ProductID = productID
	discount.CreatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	if _, err := db.DiscountCollection.ReplaceOne(ctx, bson.M{"productid": productID}, discount, opts); err != nil {
		log.Println("SetDiscount ReplaceOne error:", err)
		http.Error(w, "Failed to set discount", http.StatusInternalServerError)
		return
	}

	rdx.RdxDel("product:" + productID)
	utils.SendResponse(w, http.StatusCreated, discount, "Discount set", nil)
}

// RemoveDiscount detaches the product's discount.
func RemoveDiscount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID, "createdBy": userID}).Err(); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if _, err := db.DiscountCollection.DeleteOne(ctx, bson.M{"productid": productID}); err != nil {
		log.Println("RemoveDiscount DeleteOne error:", err)
		http.Error(w, "Failed to remove discount", http.StatusInternalServerError)
		return
	}

	rdx.RdxDel("product:" + productID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
