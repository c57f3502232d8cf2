package converters

import (
	"testing"

	"github.com/thenoetrevino/todo/internal/docstore"
	"github.com/thenoetrevino/todo/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestTaskToModel(t *testing.T) {
	id := bson.NewObjectID()

	tests := []struct {
		name     string
		input    docstore.Document
		expected models.Task
	}{
		{
			name:     "complete document",
			input:    docstore.Document{"_id": id, "task": "buy milk"},
			expected: models.Task{ID: id, Task: "buy milk", CreatedAt: id.Timestamp()},
		},
		{
			name:     "missing task text",
			input:    docstore.Document{"_id": id},
			expected: models.Task{ID: id, CreatedAt: id.Timestamp()},
		},
		{
			name:     "non-string task text",
			input:    docstore.Document{"_id": id, "task": int32(7)},
			expected: models.Task{ID: id, CreatedAt: id.Timestamp()},
		},
		{
			name:     "missing id",
			input:    docstore.Document{"task": "orphan"},
			expected: models.Task{Task: "orphan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TaskToModel(tt.input)
			if *got != tt.expected {
				t.Errorf("TaskToModel() = %+v, want %+v", *got, tt.expected)
			}
		})
	}
}

func TestTasksToModelsKeepsOrder(t *testing.T) {
	docs := []docstore.Document{
		{"_id": bson.NewObjectID(), "task": "first"},
		{"_id": bson.NewObjectID(), "task": "second"},
	}

	got := TasksToModels(docs)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Task != "first" || got[1].Task != "second" {
		t.Errorf("order not preserved: %q, %q", got[0].Task, got[1].Task)
	}
}

func TestTasksToModelsEmpty(t *testing.T) {
	got := TasksToModels(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("TasksToModels(nil) = %v, want empty non-nil slice", got)
	}
}

func TestTaskTextUpdate(t *testing.T) {
	update := TaskTextUpdate("new text")
	set, ok := update["$set"].(map[string]any)
	if !ok {
		t.Fatalf("$set missing or wrong type: %#v", update)
	}
	if set["task"] != "new text" {
		t.Errorf("$set.task = %v, want %q", set["task"], "new text")
	}
	if len(set) != 1 {
		t.Errorf("update touches %d fields, want 1", len(set))
	}
}
