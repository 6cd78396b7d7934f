// Package mongo persists scan records in a MongoDB collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aviscan-ph/aviscan/internal/model"
	"github.com/aviscan-ph/aviscan/internal/store"
)

const collectionName = "scans"

// Store is a MongoDB-backed ScanStore.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// scanDoc is the BSON layout of one record. The ObjectID doubles as the
// tie-break key for ListRecent since it is monotonically increasing within
// one process second.
type scanDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id,omitempty"`
	ImageURL     string             `bson:"image_url"`
	Prediction   string             `bson:"prediction"`
	Confidence   float64            `bson:"confidence"`
	Latitude     float64            `bson:"latitude"`
	Longitude    float64            `bson:"longitude"`
	Municipality string             `bson:"municipality,omitempty"`
	Barangay     string             `bson:"barangay,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d scanDoc) toRecord() model.ScanRecord {
	return model.ScanRecord{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		ImageURL:     d.ImageURL,
		Prediction:   d.Prediction,
		Confidence:   d.Confidence,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Municipality: d.Municipality,
		Barangay:     d.Barangay,
		CreatedAt:    d.CreatedAt,
	}
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo store: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo store: ping: %w", err)
	}

	return &Store{
		client: client,
		coll:   client.Database(dbName).Collection(collectionName),
	}, nil
}

// Save inserts a new record, stamping CreatedAt server-side.
func (s *Store) Save(ctx context.Context, p store.SaveParams) (model.ScanRecord, error) {
	doc := scanDoc{
		UserID:       p.UserID,
		ImageURL:     p.ImageURL,
		Prediction:   p.Prediction,
		Confidence:   p.Confidence,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Municipality: p.Municipality,
		Barangay:     p.Barangay,
		CreatedAt:    time.Now().UTC(),
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return model.ScanRecord{}, fmt.Errorf("%w: insert: %v", store.ErrUnavailable, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return model.ScanRecord{}, fmt.Errorf("mongo store: unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toRecord(), nil
}

// ListRecent returns records sorted by created_at descending, _id descending
// as the stable secondary key.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]model.ScanRecord, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", store.ErrUnavailable, err)
	}
	defer cur.Close(ctx)

	records := make([]model.ScanRecord, 0, limit)
	for cur.Next(ctx) {
		var doc scanDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo store: decode: %w", err)
		}
		records = append(records, doc.toRecord())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor: %v", store.ErrUnavailable, err)
	}
	return records, nil
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
