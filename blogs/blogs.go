package blogs

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"sambok/db"
	"sambok/models"
	"sambok/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateBlogPost publishes a post authored by the authenticated user.
func CreateBlogPost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var post models.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" || strings.TrimSpace(post.Body) == "" {
		http.Error(w, "Title and body are required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	post.PostID = utils.GetUUID()
	post.AuthorID = userID
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := db.BlogPostsCollection.InsertOne(ctx, post); err != nil {
		log.Println("CreateBlogPost InsertOne error:", err)
		http.Error(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusCreated, post, "Post created", nil)
}

// GetBlogPost returns a single post by id.
func GetBlogPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var post models.BlogPost
	err := db.BlogPostsCollection.FindOne(ctx, bson.M{"postid": ps.ByName("postid")}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		log.Println("GetBlogPost FindOne error:", err)
		http.Error(w, "Could not retrieve post", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, post)
}

// ListBlogPosts returns recent posts, optionally filtered by ?tag=.
func ListBlogPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filter["tags"] = tag
	}

	findOptions := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(30)
	cursor, err := db.BlogPostsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("ListBlogPosts Find error:", err)
		http.Error(w, "Could not retrieve posts", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var posts []models.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		log.Println("ListBlogPosts cursor.All error:", err)
		http.Error(w, "Error reading posts", http.StatusInternalServerError)
		return
	}
	if len(posts) == 0 {
		posts = []models.BlogPost{}
	}

	utils.RespondWithJSON(w, http.StatusOK, posts)
}

// UpdateBlogPost edits title/body/tags; the author only.
func UpdateBlogPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var patch struct {
		Title *string   `json:"title"`
		Body  *string   `json:"body"`
		Tags  *[]string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			http.Error(w, "Title must not be empty", http.StatusBadRequest)
			return
		}
		set["title"] = *patch.Title
	}
	if patch.Body != nil {
		set["body"] = *patch.Body
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}

	result, err := db.BlogPostsCollection.UpdateOne(ctx,
		bson.M{"postid": ps.ByName("postid"), "authorId": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		log.Println("UpdateBlogPost UpdateOne error:", err)
		http.Error(w, "Failed to update post", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteBlogPost removes a post; the author only.
func DeleteBlogPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := db.BlogPostsCollection.DeleteOne(ctx, bson.M{"postid": ps.ByName("postid"), "authorId": userID})
	if err != nil {
		log.Println("DeleteBlogPost DeleteOne error:", err)
		http.Error(w, "Failed to delete post", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
