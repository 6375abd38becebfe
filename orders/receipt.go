package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"sambok/db"
	"sambok/models"
	"sambok/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func receiptSecret() []byte {
	if s := os.Getenv("RECEIPT_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev_receipt_secret")
}

// receiptPayload builds the signed QR payload orderID|userID|signature used
// to verify a printed receipt at handover.
func receiptPayload(orderID, userID string) string {
	data := fmt.Sprintf("%s|%s", orderID, userID)
	h := hmac.New(sha256.New, receiptSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// OrderReceipt renders the order as a PDF receipt with a verification QR.
// GET /api/v1/orders/:orderid/receipt
func OrderReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	var detail models.OrderDetail
	_ = db.OrderDetailCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&detail)

	cursor, err := db.OrderItemCollection.Find(ctx, bson.M{"orderid": orderID})
	if err != nil {
		http.Error(w, "Could not retrieve order items", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		http.Error(w, "Error reading order items", http.StatusInternalServerError)
		return
	}

	qrPNG, err := qrcode.Encode(receiptPayload(order.OrderID, userID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	if detail.Address != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Deliver to: %s", detail.Address))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(80, 8, "Item")
	pdf.Cell(20, 8, "Qty")
	pdf.Cell(30, 8, "Unit")
	pdf.Cell(30, 8, "Total")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	for _, item := range items {
		pdf.Cell(80, 8, item.ProductName)
		pdf.Cell(20, 8, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(30, 8, fmt.Sprintf("%.2f", item.DiscountedPrice))
		pdf.Cell(30, 8, fmt.Sprintf("%.2f", item.LineTotal))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f", order.TotalPrice))
	pdf.Ln(14)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("receipt-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("receipt-qr", 10, pdf.GetY(), 40, 40, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", order.OrderID))
	if err := pdf.Output(w); err != nil {
		log.Println("OrderReceipt pdf output error:", err)
	}
}
