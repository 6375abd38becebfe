package models

import "time"

type BlogPost struct {
	PostID    string    `json:"postid" bson:"postid"`
	Title     string    `json:"title" bson:"title"`
	Body      string    `json:"body" bson:"body"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	AuthorID  string    `json:"authorId" bson:"authorId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
