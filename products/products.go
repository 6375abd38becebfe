package products

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"sambok/db"
	"sambok/models"
	"sambok/rdx"
	"sambok/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productCacheTTL = 5 * time.Minute

// CreateProduct inserts a catalog entry owned by the authenticated user.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if product.Name == "" || product.Price <= 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	now := time.Now()
	product.ProductID = utils.GetUUID()
	product.CreatedBy = userID
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Product creation failed", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusCreated, product, "Product created", nil)
}

// GetProduct returns a product with its current discount attached. Reads go
// through a short Redis cache; checkout always reads Mongo directly.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	cacheKey := "product:" + productID
	if cached := rdx.RdxGet(cacheKey); cached != "" {
		var payload map[string]any
		if err := json.Unmarshal([]byte(cached), &payload); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, payload)
			return
		}
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Println("GetProduct FindOne error:", err)
		http.Error(w, "Could not retrieve product", http.StatusInternalServerError)
		return
	}

	payload := utils.M{"product": product}

	var discount models.Discount
	err := db.DiscountCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&discount)
	if err == nil {
		payload["discount"] = discount
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Println("GetProduct discount error:", err)
	}

	if buf, err := json.Marshal(payload); err == nil {
		if err := rdx.RdxSetWithTTL(cacheKey, string(buf), productCacheTTL); err != nil {
			log.Println("GetProduct cache set error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// ListProducts returns a page of products, newest first.
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50)
	cursor, err := db.ProductCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Println("ListProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListProducts cursor.All error:", err)
		http.Error(w, "Error reading product data", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// UpdateProduct patches price/name/description/stock; the owner only.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	var patch struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Stock       *int     `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			http.Error(w, "Price must be positive", http.StatusBadRequest)
			return
		}
		set["price"] = *patch.Price
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}

	result, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID, "createdBy": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		log.Println("UpdateProduct UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	rdx.RdxDel("product:" + productID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
