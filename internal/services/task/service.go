package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/thenoetrevino/todo/internal/converters"
	"github.com/thenoetrevino/todo/internal/docstore"
	"github.com/thenoetrevino/todo/internal/models"
)

// Service defines all task-related business operations
type Service interface {
	// Read operations
	ListTasks(ctx context.Context) ([]*models.Task, error)
	GetTask(ctx context.Context, taskID string) (*models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, content string) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID, content string) error
	DeleteTask(ctx context.Context, taskID string) error
}

// service implements Service interface
type service struct {
	store docstore.Store
}

// NewService creates a new task service
func NewService(store docstore.Store) Service {
	return &service{store: store}
}

// ListTasks returns every task in insertion order
func (s *service) ListTasks(ctx context.Context) ([]*models.Task, error) {
	docs, err := s.store.Query(ctx, models.TasksCollection, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return converters.TasksToModels(docs), nil
}

// GetTask returns the task with the given identifier
func (s *service) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, models.TasksCollection, idFilter(taskID))
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrTaskNotFound
	}
	return converters.TaskToModel(docs[0]), nil
}

// CreateTask stores a new task with the given text
func (s *service) CreateTask(ctx context.Context, content string) (*models.Task, error) {
	id, err := s.store.Insert(ctx, models.TasksCollection, converters.NewTaskDocument(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &models.Task{ID: id, Task: content, CreatedAt: id.Timestamp()}, nil
}

// UpdateTask replaces the text of an existing task, leaving other fields alone
func (s *service) UpdateTask(ctx context.Context, taskID, content string) error {
	if err := validateTaskID(taskID); err != nil {
		return err
	}

	if err := s.store.Update(ctx, models.TasksCollection, idFilter(taskID), converters.TaskTextUpdate(content)); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// DeleteTask removes a task
func (s *service) DeleteTask(ctx context.Context, taskID string) error {
	if err := validateTaskID(taskID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, models.TasksCollection, idFilter(taskID)); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// validateTaskID checks presence only; format errors surface from the store
func validateTaskID(taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return ErrInvalidTaskID
	}
	return nil
}

func idFilter(taskID string) docstore.Filter {
	return docstore.Filter{models.FieldID: taskID}
}
