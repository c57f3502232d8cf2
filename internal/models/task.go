package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Task is a single to-do item
type Task struct {
	ID        bson.ObjectID `json:"id"`
	Task      string        `json:"task"`
	CreatedAt time.Time     `json:"created_at"` // From the ObjectID timestamp
}

// IDHex returns the identifier as it appears in URLs
func (t *Task) IDHex() string {
	return t.ID.Hex()
}
