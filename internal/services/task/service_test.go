package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/todo/internal/docstore"
	"github.com/thenoetrevino/todo/internal/models"
	"github.com/thenoetrevino/todo/internal/testutil"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func setupService(t *testing.T) (Service, *docstore.DB) {
	t.Helper()
	db := testutil.NewStore(t)
	return NewService(db), db
}

// ============================================================================
// TEST CASES
// ============================================================================

func TestCreateThenList(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "buy milk")
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "buy milk", created.Task)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
	assert.Equal(t, "buy milk", tasks[0].Task)
}

func TestListEmpty(t *testing.T) {
	svc, _ := setupService(t)

	tasks, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestGetTask(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "walk dog")
	require.NoError(t, err)

	got, err := svc.GetTask(ctx, created.IDHex())
	require.NoError(t, err)
	assert.Equal(t, "walk dog", got.Task)
}

func TestGetTaskErrors(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		taskID  string
		wantErr error
	}{
		{"empty id", "", ErrInvalidTaskID},
		{"blank id", "   ", ErrInvalidTaskID},
		{"unknown id", bson.NewObjectID().Hex(), ErrTaskNotFound},
		{"malformed id", "xyz", docstore.ErrQueryFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetTask(ctx, tt.taskID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	id, err := db.Insert(ctx, models.TasksCollection, docstore.Document{"task": "old", "note": "keep"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTask(ctx, id.Hex(), "new"))

	docs, err := db.Query(ctx, models.TasksCollection, docstore.Filter{"_id": id})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "new", docs[0]["task"])
	assert.Equal(t, "keep", docs[0]["note"])
}

func TestUpdateMissingTask(t *testing.T) {
	svc, _ := setupService(t)

	err := svc.UpdateTask(context.Background(), bson.NewObjectID().Hex(), "x")
	assert.ErrorIs(t, err, docstore.ErrUpdateFailure)
	assert.ErrorIs(t, err, docstore.ErrNoMatch)
}

func TestDeleteTaskTwice(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "buy milk")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, created.IDHex()))

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	err = svc.DeleteTask(ctx, created.IDHex())
	assert.ErrorIs(t, err, docstore.ErrDeleteFailure)
}

func TestWriteOperationsRejectEmptyID(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateTask(ctx, "", "x"), ErrInvalidTaskID)
	assert.ErrorIs(t, svc.DeleteTask(ctx, ""), ErrInvalidTaskID)
}

// failingStore fails every call with the operation's failure error.
type failingStore struct{}

func (failingStore) Insert(context.Context, string, docstore.Document) (bson.ObjectID, error) {
	return bson.NilObjectID, docstore.ErrInsertFailure
}

func (failingStore) Query(context.Context, string, docstore.Filter) ([]docstore.Document, error) {
	return nil, docstore.ErrQueryFailure
}

func (failingStore) Delete(context.Context, string, docstore.Filter) error {
	return docstore.ErrDeleteFailure
}

func (failingStore) Update(context.Context, string, docstore.Filter, docstore.Document) error {
	return docstore.ErrUpdateFailure
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	svc := NewService(failingStore{})
	ctx := context.Background()
	id := bson.NewObjectID().Hex()

	_, err := svc.CreateTask(ctx, "x")
	assert.True(t, errors.Is(err, docstore.ErrInsertFailure))

	_, err = svc.ListTasks(ctx)
	assert.True(t, errors.Is(err, docstore.ErrQueryFailure))

	_, err = svc.GetTask(ctx, id)
	assert.True(t, errors.Is(err, docstore.ErrQueryFailure))

	assert.True(t, errors.Is(svc.UpdateTask(ctx, id, "x"), docstore.ErrUpdateFailure))
	assert.True(t, errors.Is(svc.DeleteTask(ctx, id), docstore.ErrDeleteFailure))
}
