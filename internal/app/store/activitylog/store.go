// internal/app/store/activitylog/store.go
package activitylog

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// MaxExportRows caps how many entries a single export may pull.
const MaxExportRows = 10000

// Store manages activity log entries.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity log Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_logs")}
}

// Insert records an activity entry. Entries are append-only; nothing
// mutates them afterward except the retention sweep.
func (s *Store) Insert(ctx context.Context, entry *models.ActivityLogEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// QueryFilter defines the predicates for querying activity entries.
// Zero values mean "no filter on this field".
type QueryFilter struct {
	ActorID   *primitive.ObjectID
	Action    string
	Resource  string
	Status    string
	Severity  string
	IPAddress string
	// Search matches description and action, case-insensitively. The
	// text is quoted before building the regex so user input cannot
	// inject pattern syntax.
	Search    string
	StartTime *time.Time
	EndTime   *time.Time
}

// query builds the Mongo filter document. Soft-deleted entries are
// always excluded from reads.
func (f QueryFilter) query() bson.M {
	q := bson.M{"is_deleted": bson.M{"$ne": true}}

	if f.ActorID != nil {
		q["actor_id"] = *f.ActorID
	}
	if f.Action != "" {
		q["action"] = f.Action
	}
	if f.Resource != "" {
		q["resource"] = f.Resource
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Severity != "" {
		q["severity"] = f.Severity
	}
	if f.IPAddress != "" {
		q["ip_address"] = f.IPAddress
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = []bson.M{
			{"description": re},
			{"action": re},
		}
	}
	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		q["timestamp"] = timeQuery
	}
	return q
}

// sortFields whitelists the sortable fields. Anything else falls back
// to timestamp.
var sortFields = map[string]string{
	"timestamp": "timestamp",
	"action":    "action",
	"resource":  "resource",
	"status":    "status",
	"severity":  "severity",
}

// QueryOptions controls ordering and the page window.
type QueryOptions struct {
	SortBy    string // timestamp, action, resource, status, severity
	SortOrder string // "asc" or "desc"; default desc
	Limit     int64
	Skip      int64
}

func (o QueryOptions) sort() bson.D {
	field, ok := sortFields[o.SortBy]
	if !ok {
		field = "timestamp"
	}
	dir := -1
	if o.SortOrder == "asc" {
		dir = 1
	}
	// Tie-break on _id so pagination is stable within equal sort values.
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

// Query retrieves entries matching the filter, ordered and windowed by
// the options.
func (s *Store) Query(ctx context.Context, filter QueryFilter, opt QueryOptions) ([]models.ActivityLogEntry, error) {
	limit := opt.Limit
	if limit <= 0 {
		limit = 100
	}

	findOpts := options.Find().
		SetSort(opt.sort()).
		SetLimit(limit).
		SetSkip(opt.Skip)

	cursor, err := s.c.Find(ctx, filter.query(), findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.ActivityLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByFilter returns the number of entries matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// GetByID loads a single entry. Returns mongo.ErrNoDocuments if the
// entry does not exist or is soft-deleted.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ActivityLogEntry, error) {
	var entry models.ActivityLogEntry
	err := s.c.FindOne(ctx, bson.M{
		"_id":        id,
		"is_deleted": bson.M{"$ne": true},
	}).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Export retrieves up to MaxExportRows entries matching the filter in
// chronological order for CSV export.
func (s *Store) Export(ctx context.Context, filter QueryFilter) ([]models.ActivityLogEntry, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetLimit(MaxExportRows)

	cursor, err := s.c.Find(ctx, filter.query(), findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.ActivityLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Summary holds overall counts for a date range.
type Summary struct {
	Total   int64 `bson:"total" json:"total"`
	Success int64 `bson:"success" json:"success"`
	Failed  int64 `bson:"failed" json:"failed"`
}

// Summarize computes total/success/failed counts over a date range.
func (s *Store) Summarize(ctx context.Context, start, end time.Time) (Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"is_deleted": bson.M{"$ne": true},
			"timestamp":  bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"total":   bson.M{"$sum": 1},
			"success": bson.M{"$sum": successCond()},
			"failed":  bson.M{"$sum": failedCond()},
		}}},
	}

	cursor, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Summary{}, err
	}
	defer cursor.Close(ctx)

	var results []Summary
	if err := cursor.All(ctx, &results); err != nil {
		return Summary{}, err
	}
	if len(results) == 0 {
		return Summary{}, nil
	}
	return results[0], nil
}

// TrendBucket is one time bucket in a trends aggregation.
type TrendBucket struct {
	Bucket  string   `bson:"_id" json:"bucket"`
	Total   int64    `bson:"total" json:"total"`
	Success int64    `bson:"success" json:"success"`
	Failed  int64    `bson:"failed" json:"failed"`
	Actions []string `bson:"actions" json:"actions"`
}

// bucketFormats maps a groupBy token to a $dateToString format. Week
// uses ISO year-week so buckets never split across year boundaries.
var bucketFormats = map[string]string{
	"hour":  "%Y-%m-%dT%H:00",
	"day":   "%Y-%m-%d",
	"week":  "%G-W%V",
	"month": "%Y-%m",
}

// ValidBucket reports whether groupBy names a supported trend bucket.
func ValidBucket(groupBy string) bool {
	_, ok := bucketFormats[groupBy]
	return ok
}

// Trends folds the log stream into time buckets, each reporting
// total/success/failed counts and the distinct actions observed. This
// recomputes on every call rather than maintaining a materialized view;
// audit-log read volume is low relative to writes.
func (s *Store) Trends(ctx context.Context, start, end time.Time, groupBy string) ([]TrendBucket, error) {
	format, ok := bucketFormats[groupBy]
	if !ok {
		return nil, fmt.Errorf("unsupported trend bucket %q", groupBy)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"is_deleted": bson.M{"$ne": true},
			"timestamp":  bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": format,
				"date":   "$timestamp",
			}},
			"total":   bson.M{"$sum": 1},
			"success": bson.M{"$sum": successCond()},
			"failed":  bson.M{"$sum": failedCond()},
			"actions": bson.M{"$addToSet": "$action"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []TrendBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func successCond() bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$status", models.ActivityStatusSuccess}}, 1, 0,
	}}
}

func failedCond() bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$status", models.ActivityStatusFailed}}, 1, 0,
	}}
}

// Clean removes entries older than daysToKeep days and returns how many
// were affected. With hardDelete the documents are removed; otherwise
// they are flagged is_deleted and excluded from all reads. Both modes
// are idempotent: a second run over the same data affects zero rows.
func (s *Store) Clean(ctx context.Context, daysToKeep int, hardDelete bool) (int64, error) {
	if daysToKeep < 1 {
		return 0, fmt.Errorf("daysToKeep must be at least 1, got %d", daysToKeep)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep)

	if hardDelete {
		res, err := s.c.DeleteMany(ctx, bson.M{
			"timestamp": bson.M{"$lt": cutoff},
		})
		if err != nil {
			return 0, err
		}
		return res.DeletedCount, nil
	}

	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"timestamp":  bson.M{"$lt": cutoff},
			"is_deleted": bson.M{"$ne": true},
		},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
