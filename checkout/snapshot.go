package checkout

import (
	"context"
	"errors"

	"sambok/db"
	"sambok/models"
	"sambok/pricing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// loadCartLines takes the point-in-time cart snapshot: every cart row joined
// with the live product price/name and the product's current discount. No row
// locks are taken; the per-user checkout lock in the handler is the only
// guard against a concurrent mutation racing this read.
func loadCartLines(ctx context.Context, userID string) ([]pricing.Line, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		var product models.Product
		if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": item.ProductID}).Decode(&product); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				// product removed since it was carted; skip the stale row
				continue
			}
			return nil, err
		}

		line := pricing.Line{
			ProductID:   product.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
		}

		var discount models.Discount
		err := db.DiscountCollection.FindOne(ctx, bson.M{"productid": item.ProductID}).Decode(&discount)
		switch {
		case err == nil:
			line.DiscountPct = discount.Percentage
			line.DiscountActive = discount.IsActive
			line.DiscountStart = discount.StartDate
			line.DiscountEnd = discount.EndDate
		case errors.Is(err, mongo.ErrNoDocuments):
			// no discount attached; line stays at list price
		default:
			return nil, err
		}

		lines = append(lines, line)
	}

	return lines, nil
}
