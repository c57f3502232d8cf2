package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// DefaultDatabase is used when neither the config nor the URI names one.
const DefaultDatabase = "todo"

// MongoDriver talks to a MongoDB deployment.
type MongoDriver struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Driver = (*MongoDriver)(nil)

// OpenMongo connects to uri and verifies the deployment answers. An empty
// database name falls back to the one in the URI path, then DefaultDatabase.
func OpenMongo(ctx context.Context, uri, database string) (*MongoDriver, error) {
	if database == "" {
		database = DatabaseFromURI(uri)
	}

	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &MongoDriver{client: client, db: client.Database(database)}, nil
}

// DatabaseFromURI extracts the database name from a connection string.
func DatabaseFromURI(uri string) string {
	cs, err := connstring.Parse(uri)
	if err != nil || cs.Database == "" {
		return DefaultDatabase
	}
	return cs.Database
}

// InsertOne inserts doc into collection.
func (d *MongoDriver) InsertOne(ctx context.Context, collection string, doc Document) (InsertResult, error) {
	res, err := d.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return InsertResult{}, err
	}
	result := InsertResult{Acknowledged: res.Acknowledged}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		result.ID = id
	}
	return result, nil
}

// Find returns every document matching filter.
func (d *MongoDriver) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	cursor, err := d.db.Collection(collection).Find(ctx, bson.M(filter))
	if err != nil {
		return nil, err
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	docs := make([]Document, len(raw))
	for i, m := range raw {
		docs[i] = Document(m)
	}
	return docs, nil
}

// DeleteOne removes the first document matching filter.
func (d *MongoDriver) DeleteOne(ctx context.Context, collection string, filter Filter) (DeleteResult, error) {
	res, err := d.db.Collection(collection).DeleteOne(ctx, bson.M(filter))
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{
		Acknowledged: res.Acknowledged,
		DeletedCount: res.DeletedCount,
	}, nil
}

// UpdateOne applies update to the first document matching filter.
func (d *MongoDriver) UpdateOne(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error) {
	res, err := d.db.Collection(collection).UpdateOne(ctx, bson.M(filter), bson.M(update))
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{
		Acknowledged:  res.Acknowledged,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

// Close disconnects the client.
func (d *MongoDriver) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
