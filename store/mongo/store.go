// Package mongo implements the MemToken store on MongoDB via Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	memtoken "github.com/xraph/memtoken"
	"github.com/xraph/memtoken/event"
	memtokenstore "github.com/xraph/memtoken/store"
)

// Collection name constants.
const (
	colEvents    = "memtoken_events"
	colSnapshots = "memtoken_snapshots"
)

// compile-time interface check
var _ memtokenstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all memtoken collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("memtoken/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Journal ====================

func (s *Store) AppendEvents(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}
	models := make([]eventModel, len(events))
	for i, e := range events {
		models[i] = *toEventModel(e)
	}
	_, err := s.mdb.NewInsert(&models).Exec(ctx)
	if err != nil {
		return fmt.Errorf("memtoken/mongo: append events: %w", err)
	}
	return nil
}

func (s *Store) QueryEvents(ctx context.Context, opts event.QueryOpts) ([]*event.Event, error) {
	var models []eventModel

	filter := bson.M{}
	if len(opts.Kinds) > 0 {
		kinds := make([]string, len(opts.Kinds))
		for i, k := range opts.Kinds {
			kinds[i] = string(k)
		}
		filter["kind"] = bson.M{"$in": kinds}
	}
	if !opts.Account.IsZero() {
		addr := opts.Account.String()
		filter["$or"] = bson.A{
			bson.M{"from_addr": addr},
			bson.M{"to_addr": addr},
			bson.M{"owner": addr},
			bson.M{"spender": addr},
			bson.M{"voter": addr},
		}
	}
	if opts.SessionID != nil {
		filter["session_id"] = *opts.SessionID
	}
	if !opts.Since.IsZero() || !opts.Until.IsZero() {
		at := bson.M{}
		if !opts.Since.IsZero() {
			at["$gte"] = opts.Since.UTC()
		}
		if !opts.Until.IsZero() {
			at["$lt"] = opts.Until.UTC()
		}
		filter["at"] = at
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "at", Value: 1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("memtoken/mongo: query events: %w", err)
	}

	result := make([]*event.Event, len(models))
	for i := range models {
		e, err := fromEventModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (s *Store) PurgeEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*eventModel)(nil)).
		Filter(bson.M{"at": bson.M{"$lt": before.UTC()}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("memtoken/mongo: purge events: %w", err)
	}
	return res.DeletedCount(), nil
}

// ==================== Snapshots ====================

func (s *Store) SaveSnapshot(ctx context.Context, snap *memtokenstore.Snapshot) error {
	m, err := toSnapshotModel(snap)
	if err != nil {
		return err
	}
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("memtoken/mongo: save snapshot: %w", err)
	}
	return nil
}

func (s *Store) LoadLatestSnapshot(ctx context.Context) (*memtokenstore.Snapshot, error) {
	var m snapshotModel
	err := s.mdb.NewFind(&m).
		Sort(bson.D{{Key: "taken_at", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, memtoken.ErrNotFound
		}
		return nil, fmt.Errorf("memtoken/mongo: load latest snapshot: %w", err)
	}
	return fromSnapshotModel(&m)
}

// ==================== Helpers ====================

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all memtoken collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colEvents: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "at", Value: 1}}},
			{Keys: bson.D{{Key: "at", Value: 1}}},
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}},
				Options: options.Index().SetSparse(true),
			},
		},
		colSnapshots: {
			{Keys: bson.D{{Key: "taken_at", Value: -1}}},
		},
	}
}
