// Package converters maps store documents to domain models and back.
//
// Conversion is lenient on read: a document missing its task text converts
// to an empty string, since the store enforces no schema.
package converters

import (
	"github.com/thenoetrevino/todo/internal/docstore"
	"github.com/thenoetrevino/todo/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TaskToModel converts a task document to models.Task.
func TaskToModel(doc docstore.Document) *models.Task {
	task := &models.Task{}
	if id, ok := doc[models.FieldID].(bson.ObjectID); ok {
		task.ID = id
		task.CreatedAt = id.Timestamp()
	}
	if text, ok := doc[models.FieldTask].(string); ok {
		task.Task = text
	}
	return task
}

// TasksToModels converts a query result, preserving order.
func TasksToModels(docs []docstore.Document) []*models.Task {
	result := make([]*models.Task, 0, len(docs))
	for _, doc := range docs {
		result = append(result, TaskToModel(doc))
	}
	return result
}

// NewTaskDocument builds the document inserted for a new task.
func NewTaskDocument(content string) docstore.Document {
	return docstore.Document{models.FieldTask: content}
}

// TaskTextUpdate builds the partial update replacing a task's text.
func TaskTextUpdate(content string) docstore.Document {
	return docstore.Document{"$set": map[string]any{models.FieldTask: content}}
}
