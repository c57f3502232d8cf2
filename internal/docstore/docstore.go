// Package docstore is the data access layer over a document database.
//
// A DB is built once at start-up and passed to whoever needs it. It exposes
// four operations on named collections (insert, query, update, delete),
// normalizes identifier fields to bson.ObjectID before they reach the store,
// and turns driver results into one failure error per operation.
package docstore

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// Document is a schema-less record stored in a collection.
type Document map[string]any

// Filter selects documents. A nil or empty filter matches everything.
type Filter map[string]any

// InsertResult is what a driver reports for a single-document insert.
type InsertResult struct {
	ID           bson.ObjectID
	Acknowledged bool
}

// DeleteResult is what a driver reports for a single-document delete.
type DeleteResult struct {
	Acknowledged bool
	DeletedCount int64
}

// UpdateResult is what a driver reports for a single-document update.
type UpdateResult struct {
	Acknowledged  bool
	MatchedCount  int64
	ModifiedCount int64
}

// Driver is a document database backend. Filters handed to a Driver have
// already been normalized by DB.
type Driver interface {
	InsertOne(ctx context.Context, collection string, doc Document) (InsertResult, error)
	Find(ctx context.Context, collection string, filter Filter) ([]Document, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) (DeleteResult, error)
	UpdateOne(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error)
	Close(ctx context.Context) error
}

// Store is the data access contract consumers depend on. *DB implements it.
type Store interface {
	Insert(ctx context.Context, collection string, doc Document) (bson.ObjectID, error)
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Delete(ctx context.Context, collection string, filter Filter) error
	Update(ctx context.Context, collection string, filter Filter, update Document) error
}

var _ Store = (*DB)(nil)

// Recorder receives one observation per DB operation.
type Recorder interface {
	ObserveStoreOperation(operation, collection string, err error, elapsed time.Duration)
}

// DB is the data access layer.
type DB struct {
	driver   Driver
	logger   *slog.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger used to report failed operations.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// WithTracer sets the tracer used to open one span per operation.
func WithTracer(tracer trace.Tracer) Option {
	return func(db *DB) {
		if tracer != nil {
			db.tracer = tracer
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(recorder Recorder) Option {
	return func(db *DB) {
		db.recorder = recorder
	}
}

// New wraps a driver.
func New(driver Driver, opts ...Option) *DB {
	db := &DB{
		driver: driver,
		logger: slog.Default(),
		tracer: nooptrace.NewTracerProvider().Tracer("docstore"),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Insert stores one document and returns its identifier. A document without
// an identifier gets a fresh one; an existing identifier is converted to
// bson.ObjectID.
func (db *DB) Insert(ctx context.Context, collection string, doc Document) (id bson.ObjectID, err error) {
	ctx, done := db.begin(ctx, "insert", collection)
	defer func() { done(err) }()

	record := make(Document, len(doc)+1)
	maps.Copy(record, doc)
	if raw, ok := record[IDField]; ok && raw != nil {
		id, err = ToObjectID(raw)
		if err != nil {
			return bson.NilObjectID, fail(ErrInsertFailure, err)
		}
	} else {
		id = bson.NewObjectID()
	}
	record[IDField] = id

	res, err := db.driver.InsertOne(ctx, collection, record)
	if err != nil {
		return bson.NilObjectID, fail(ErrInsertFailure, err)
	}
	if !res.Acknowledged {
		return bson.NilObjectID, fail(ErrInsertFailure, ErrNotAcknowledged)
	}
	if !res.ID.IsZero() {
		id = res.ID
	}
	return id, nil
}

// Query returns every document of collection matching filter.
func (db *DB) Query(ctx context.Context, collection string, filter Filter) (docs []Document, err error) {
	ctx, done := db.begin(ctx, "query", collection)
	defer func() { done(err) }()

	normalized, err := NormalizeIDs(filter)
	if err != nil {
		return nil, fail(ErrQueryFailure, err)
	}
	docs, err = db.driver.Find(ctx, collection, normalized)
	if err != nil {
		return nil, fail(ErrQueryFailure, err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// Delete removes the first document matching filter. It fails unless exactly
// one document was removed.
func (db *DB) Delete(ctx context.Context, collection string, filter Filter) (err error) {
	ctx, done := db.begin(ctx, "delete", collection)
	defer func() { done(err) }()

	normalized, err := NormalizeIDs(filter)
	if err != nil {
		return fail(ErrDeleteFailure, err)
	}
	res, err := db.driver.DeleteOne(ctx, collection, normalized)
	if err != nil {
		return fail(ErrDeleteFailure, err)
	}
	if !res.Acknowledged {
		return fail(ErrDeleteFailure, ErrNotAcknowledged)
	}
	if res.DeletedCount != 1 {
		return fail(ErrDeleteFailure, ErrNoMatch)
	}
	return nil
}

// Update applies a partial update such as {"$set": {"task": "..."}} to the
// first document matching filter. An update that matches nothing fails.
func (db *DB) Update(ctx context.Context, collection string, filter Filter, update Document) (err error) {
	ctx, done := db.begin(ctx, "update", collection)
	defer func() { done(err) }()

	normalized, err := NormalizeIDs(filter)
	if err != nil {
		return fail(ErrUpdateFailure, err)
	}
	res, err := db.driver.UpdateOne(ctx, collection, normalized, update)
	if err != nil {
		return fail(ErrUpdateFailure, err)
	}
	if !res.Acknowledged {
		return fail(ErrUpdateFailure, ErrNotAcknowledged)
	}
	if res.MatchedCount == 0 {
		return fail(ErrUpdateFailure, ErrNoMatch)
	}
	return nil
}

// Close releases the driver's connection.
func (db *DB) Close(ctx context.Context) error {
	return db.driver.Close(ctx)
}

// begin opens a span for op and returns a func that ends it and records the outcome.
func (db *DB) begin(ctx context.Context, op, collection string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := db.tracer.Start(ctx, "docstore."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.operation", op),
			attribute.String("db.collection", collection),
		),
	)
	return ctx, func(err error) {
		elapsed := time.Since(start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			db.logger.WarnContext(ctx, "store operation failed",
				"operation", op,
				"collection", collection,
				"error", err,
			)
		}
		span.End()
		if db.recorder != nil {
			db.recorder.ObserveStoreOperation(op, collection, err, elapsed)
		}
	}
}
