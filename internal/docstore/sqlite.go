package docstore

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/v2/bson"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteDriver is an embedded document store: every document is kept as a
// BSON blob in one table keyed by (collection, id). Filters are evaluated in
// Go with Matches, so it needs no server and round-trips ObjectIDs natively.
type SQLiteDriver struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Driver = (*SQLiteDriver)(nil)

// SQLiteOption configures a SQLiteDriver.
type SQLiteOption func(*SQLiteDriver)

// WithSQLiteLogger sets the logger for transaction and shutdown failures.
func WithSQLiteLogger(logger *slog.Logger) SQLiteOption {
	return func(d *SQLiteDriver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func newSQLiteDriver(db *sql.DB, opts []SQLiteOption) *SQLiteDriver {
	d := &SQLiteDriver{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OpenSQLite opens (creating if needed) the database at path and prepares the schema.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteDriver, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	d := newSQLiteDriver(db, opts)

	// An in-memory database only exists on its own connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			d.closeQuietly()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		d.closeQuietly()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := d.migrate(ctx); err != nil {
		d.closeQuietly()
		return nil, err
	}
	d.logger.Debug("sqlite store opened", "path", path)
	return d, nil
}

// NewSQLiteDriver wraps an already open database and runs migrations.
func NewSQLiteDriver(ctx context.Context, db *sql.DB, opts ...SQLiteOption) (*SQLiteDriver, error) {
	d := newSQLiteDriver(db, opts)
	if err := d.migrate(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *SQLiteDriver) migrate(ctx context.Context) error {
	if err := runMigrations(ctx, d.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// InsertOne stores doc. The document must already carry an ObjectID.
func (d *SQLiteDriver) InsertOne(ctx context.Context, collection string, doc Document) (InsertResult, error) {
	id, ok := doc[IDField].(bson.ObjectID)
	if !ok {
		return InsertResult{}, fmt.Errorf("%w: document has no %s", ErrInvalidID, IDField)
	}
	body, err := bson.Marshal(doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)`,
		collection, id.Hex(), body,
	)
	if err != nil {
		return InsertResult{}, err
	}
	return InsertResult{ID: id, Acknowledged: true}, nil
}

// Find returns matching documents in insertion order.
func (d *SQLiteDriver) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	return scanDocuments(ctx, d.db, collection, filter, 0)
}

// DeleteOne removes the first matching document.
func (d *SQLiteDriver) DeleteOne(ctx context.Context, collection string, filter Filter) (DeleteResult, error) {
	result := DeleteResult{}
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		docs, err := scanDocuments(ctx, tx, collection, filter, 1)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = ? AND id = ?`,
			collection, documentKey(docs[0]),
		)
		if err != nil {
			return err
		}
		result.DeletedCount, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return DeleteResult{}, err
	}
	result.Acknowledged = true
	return result, nil
}

// UpdateOne applies update to the first matching document.
func (d *SQLiteDriver) UpdateOne(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error) {
	result := UpdateResult{}
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		docs, err := scanDocuments(ctx, tx, collection, filter, 1)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		result.MatchedCount = 1

		updated, changed, err := ApplyUpdate(docs[0], update)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		body, err := bson.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE documents
			 SET body = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE collection = ? AND id = ?`,
			body, collection, documentKey(docs[0]),
		)
		if err != nil {
			return err
		}
		result.ModifiedCount, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return UpdateResult{}, err
	}
	result.Acknowledged = true
	return result, nil
}

// Close closes the underlying database.
func (d *SQLiteDriver) Close(context.Context) error {
	return d.db.Close()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// scanDocuments decodes the collection in insertion order and keeps the
// documents matching filter, stopping after limit matches when limit > 0.
func scanDocuments(ctx context.Context, q queryer, collection string, filter Filter, limit int) ([]Document, error) {
	query := `SELECT body FROM documents WHERE collection = ?`
	args := []any{collection}
	if id, ok := filter[IDField].(bson.ObjectID); ok {
		query += ` AND id = ?`
		args = append(args, id.Hex())
	}
	query += ` ORDER BY rowid`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(body)
		if err != nil {
			return nil, err
		}
		ok, err := Matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		docs = append(docs, doc)
		if limit > 0 && len(docs) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func decodeDocument(body []byte) (Document, error) {
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(body)))
	dec.DefaultDocumentM()

	var m bson.M
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return Document(m), nil
}

func documentKey(doc Document) string {
	if id, ok := doc[IDField].(bson.ObjectID); ok {
		return id.Hex()
	}
	return ""
}

// withTx runs fn inside a transaction, rolling back unless fn and the commit succeed.
func (d *SQLiteDriver) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			d.logger.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (d *SQLiteDriver) closeQuietly() {
	if err := d.db.Close(); err != nil {
		d.logger.Error("error closing db", "error", err)
	}
}
