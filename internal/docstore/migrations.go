package docstore

import (
	"context"
	"database/sql"
)

// runMigrations creates the embedded store's schema if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	// One row per document; body is the BSON encoding including _id
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			body BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_documents_collection
		ON documents(collection)
	`)
	return err
}
