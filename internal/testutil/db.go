// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/thenoetrevino/todo/internal/docstore"
)

// NewStore opens an in-memory embedded document store for one test.
// It is closed automatically when the test finishes.
func NewStore(t *testing.T, opts ...docstore.Option) *docstore.DB {
	t.Helper()

	driver, err := docstore.OpenSQLite(context.Background(), docstore.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	db := docstore.New(driver, opts...)
	t.Cleanup(func() {
		if err := db.Close(context.Background()); err != nil {
			t.Logf("failed to close test store: %v", err)
		}
	})
	return db
}
