// Package mongo stores the event log in a MongoDB collection. Sequential
// ids come from a counter document updated with $inc.
package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDatabase    = "dispatch"
	logsCollection     = "event_logs"
	countersCollection = "counters"
	logCounterID       = "event_logs"
)

type logDoc struct {
	ID        int64     `bson:"_id"`
	Source    string    `bson:"source"`
	Action    string    `bson:"action"`
	Level     string    `bson:"level"`
	ParcelID  string    `bson:"parcel_id,omitempty"`
	Detail    string    `bson:"detail"`
	Timestamp time.Time `bson:"timestamp"`
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// LogRepository implements ports.LogRepository on MongoDB.
type LogRepository struct {
	logs     *mongo.Collection
	counters *mongo.Collection
}

var _ ports.LogRepository = (*LogRepository)(nil)

// NewLogRepository uses DefaultDatabase when dbName is empty.
func NewLogRepository(client *mongo.Client, dbName string) *LogRepository {
	if dbName == "" {
		dbName = DefaultDatabase
	}
	db := client.Database(dbName)
	return &LogRepository{
		logs:     db.Collection(logsCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the parcel_id index used by filtered listings.
func (r *LogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parcel_id", Value: 1}, {Key: "_id", Value: -1}},
	})
	return err
}

func (r *LogRepository) Append(ctx context.Context, entry *logentry.Entry) (*logentry.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	detail, err := json.Marshal(entry.Detail())
	if err != nil {
		return nil, fmt.Errorf("encode detail of %s/%s: %w", entry.Source(), entry.Action(), err)
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := logDoc{
		ID:        id,
		Source:    entry.Source(),
		Action:    entry.Action(),
		Level:     entry.Level().String(),
		Detail:    string(detail),
		Timestamp: entry.Timestamp().UTC(),
	}
	if parcelID, ok := entry.ParcelID(); ok {
		doc.ParcelID = parcelID
	}

	if _, err := r.logs.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return entry.WithID(id), nil
}

// List returns entries newest first.
func (r *LogRepository) List(ctx context.Context, filter ports.LogFilter) ([]*logentry.Entry, error) {
	query := bson.M{}
	if filter.ParcelID != "" {
		query["parcel_id"] = filter.ParcelID
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.logs.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []logDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]*logentry.Entry, 0, len(docs))
	for _, doc := range docs {
		e, err := doc.restore()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *LogRepository) nextID(ctx context.Context) (int64, error) {
	var counter counterDoc
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": logCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate log id: %w", err)
	}
	return counter.Seq, nil
}

func (doc logDoc) restore() (*logentry.Entry, error) {
	level, err := logentry.ParseLevel(doc.Level)
	if err != nil {
		return nil, err
	}

	var detail map[string]any
	if err := json.Unmarshal([]byte(doc.Detail), &detail); err != nil {
		return nil, fmt.Errorf("decode detail of log entry %d: %w", doc.ID, err)
	}

	return logentry.RestoreEntry(doc.ID, doc.Source, doc.Action, level, detail, doc.Timestamp.UTC())
}
