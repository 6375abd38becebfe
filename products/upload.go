package products

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"sambok/db"
	"sambok/rdx"
	"sambok/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const productPicDir = "static/productpic"

// UploadProductImage accepts a multipart "photo" field, saves the original
// and a 300px thumbnail, and stores the path on the product.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
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

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Invalid image file", http.StatusBadRequest)
		return
	}

	fileName := productID + ".jpg"
	originalPath := filepath.Join(productPicDir, fileName)
	thumbDir := filepath.Join(productPicDir, "thumb")
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		log.Println("UploadProductImage mkdir error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	if err := imaging.Save(img, originalPath); err != nil {
		log.Println("UploadProductImage save error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		log.Println("UploadProductImage thumbnail error:", err)
		http.Error(w, "Failed to store thumbnail", http.StatusInternalServerError)
		return
	}

	imagePath := "/static/productpic/" + fileName
	if _, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"imagePath": imagePath, "updatedAt": time.Now()}},
	); err != nil {
		log.Println("UploadProductImage UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}

	rdx.RdxDel("product:" + productID)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"imagePath": imagePath,
		"thumbnail": fmt.Sprintf("/static/productpic/thumb/%s", fileName),
	})
}
