package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"text"`
	Completed bool               `bson:"completed" json:"completed"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NoteWithUser is a note joined with its owner's username.
type NoteWithUser struct {
	Note
	Username string `json:"username"`
}
