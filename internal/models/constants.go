package models

// TasksCollection is the document collection holding tasks
const TasksCollection = "tasks"

// Document field names for a task
const (
	FieldID   = "_id"
	FieldTask = "task"
)
