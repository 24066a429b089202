package realtime

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore implements ConditionalStore on a MongoDB collection. Each node
// is a document keyed by its tree path, and CompareAndSwap maps onto a single
// FindOneAndUpdate whose filter carries the precondition, so atomicity comes
// from the server rather than a read-modify-write loop.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore wraps the collection holding the realtime projections.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (s *MongoStore) Put(ctx context.Context, path string, value any) error {
	doc, err := toDocument(value)
	if err != nil {
		return fmt.Errorf("realtime: encode %s: %w", path, err)
	}
	doc["_id"] = path

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": path}, doc, opts); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Patch(ctx context.Context, path string, fields map[string]any) error {
	update := bson.M{"$set": bson.M(fields)}
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": path}, update); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, path string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": path}); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// CompareAndSwap commits iff the filter matches: the document exists and the
// field is either absent or still holds one of the expected values. A missing
// document reports false rather than creating a partial projection.
func (s *MongoStore) CompareAndSwap(ctx context.Context, path, field string, expect []string, next string) (bool, error) {
	expectAny := make([]any, len(expect))
	for i, v := range expect {
		expectAny[i] = v
	}

	filter := bson.M{
		"_id": path,
		"$or": bson.A{
			bson.M{field: bson.M{"$in": expectAny}},
			bson.M{field: bson.M{"$exists": false}},
		},
	}
	update := bson.M{"$set": bson.M{field: next}}

	err := s.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return true, nil
}

// toDocument converts an arbitrary value into a bson document via a marshal
// round-trip so struct projections and plain maps are handled uniformly.
func toDocument(value any) (bson.M, error) {
	raw, err := bson.Marshal(value)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
