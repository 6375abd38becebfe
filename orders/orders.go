package orders

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"sambok/db"
	"sambok/models"
	"sambok/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetMyOrders returns the authenticated user's orders, newest first.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	findOptions := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50)
	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		log.Println("GetMyOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetMyOrders cursor.All error:", err)
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Order{}
	}

	utils.SendResponse(w, http.StatusOK, list, "Orders fetched", nil)
}

// loadOrderForUser fetches an order and enforces ownership.
func loadOrderForUser(ctx context.Context, orderID, userID string) (*models.Order, error) {
	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID, "userId": userID}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder returns one order with its detail, items, and payment (if any).
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	orderID := ps.ByName("orderid")

	order, err := loadOrderForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Println("GetOrder FindOne error:", err)
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	var detail models.OrderDetail
	if err := db.OrderDetailCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&detail); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		log.Println("GetOrder detail error:", err)
		http.Error(w, "Could not retrieve order detail", http.StatusInternalServerError)
		return
	}

	cursor, err := db.OrderItemCollection.Find(ctx, bson.M{"orderid": orderID})
	if err != nil {
		log.Println("GetOrder items error:", err)
		http.Error(w, "Could not retrieve order items", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetOrder items decode error:", err)
		http.Error(w, "Error reading order items", http.StatusInternalServerError)
		return
	}

	payload := utils.M{
		"order":  order,
		"detail": detail,
		"items":  items,
	}

	var payment models.Payment
	err = db.PaymentCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&payment)
	if err == nil {
		payload["payment"] = payment
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Println("GetOrder payment error:", err)
	}

	utils.SendResponse(w, http.StatusOK, payload, "Order fetched", nil)
}
