package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	ProductCollection     *mongo.Collection
	DiscountCollection    *mongo.Collection
	CartCollection        *mongo.Collection
	CouponCollection      *mongo.Collection
	OrderCollection       *mongo.Collection
	OrderDetailCollection *mongo.Collection
	OrderItemCollection   *mongo.Collection
	PaymentCollection     *mongo.Collection
	BlogPostsCollection   *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "shopdb"
	}

	UserCollection = Client.Database(dbName).Collection("users")
	ProductCollection = Client.Database(dbName).Collection("products")
	DiscountCollection = Client.Database(dbName).Collection("discounts")
	CartCollection = Client.Database(dbName).Collection("carts")
	CouponCollection = Client.Database(dbName).Collection("coupons")
	OrderCollection = Client.Database(dbName).Collection("orders")
	OrderDetailCollection = Client.Database(dbName).Collection("orderdetails")
	OrderItemCollection = Client.Database(dbName).Collection("orderitems")
	PaymentCollection = Client.Database(dbName).Collection("payments")
	BlogPostsCollection = Client.Database(dbName).Collection("blogposts")
}

// EnsureIndexes creates the indexes the write paths rely on. The unique index
// on payments.transaction_hash is what rejects a replayed payment hash.
func EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := PaymentCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"transaction_hash": 1},
		Options: options.Index().SetUnique(true).SetName("unique_transaction_hash"),
	})
	if err != nil {
		return err
	}

	_, err = CartCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_user_product"),
	})
	if err != nil {
		return err
	}

	_, err = ProductCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"productid": 1},
		Options: options.Index().SetUnique(true).SetName("unique_productid"),
	})
	if err != nil {
		return err
	}

	_, err = OrderCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"orderid": 1},
		Options: options.Index().SetUnique(true).SetName("unique_orderid"),
	})
	return err
}
