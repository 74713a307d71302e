// Package store defines the persistence interface for MemToken. The engine
// state is authoritative in memory; a Store persists the append-only event
// journal and periodic full-state snapshots used to restore on restart.
package store

import (
	"context"
	"time"

	"github.com/xraph/memtoken/event"
	"github.com/xraph/memtoken/id"
	"github.com/xraph/memtoken/token"
	"github.com/xraph/memtoken/types"
	"github.com/xraph/memtoken/vote"
)

// Store is the unified persistence interface for the ledger journal and
// state snapshots.
type Store interface {
	// Journal methods
	AppendEvents(ctx context.Context, events []*event.Event) error
	QueryEvents(ctx context.Context, opts event.QueryOpts) ([]*event.Event, error)
	PurgeEvents(ctx context.Context, before time.Time) (int64, error)

	// Snapshot methods
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	LoadLatestSnapshot(ctx context.Context) (*Snapshot, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Snapshot is a complete copy of the engine state at one point in time:
// token metadata, fee parameters, every balance and allowance, the native
// reserve, and the governance session machine including historical vote
// records. Restoring a snapshot reproduces the state bit for bit.
type Snapshot struct {
	ID      id.ID     `json:"id"`
	TakenAt time.Time `json:"taken_at"`

	Meta       token.Meta    `json:"meta"`
	Admin      types.Address `json:"admin"`
	FeeBps     uint32        `json:"fee_bps"`
	TimeToVote time.Duration `json:"time_to_vote"`

	TotalSupply types.Amount                                    `json:"total_supply"`
	Reserve     types.Amount                                    `json:"reserve"`
	Balances    map[types.Address]types.Amount                  `json:"balances"`
	Allowances  map[types.Address]map[types.Address]types.Amount `json:"allowances"`

	// Session is the most recent session (active or finalized), nil before
	// the first session ever starts.
	Session *Session `json:"session,omitempty"`
	// Votes holds every vote record, keyed by session id.
	Votes map[uint64][]*vote.Record `json:"votes,omitempty"`
	// FinalPrice is the price published by the most recently finalized
	// session; zero means no usable price exists yet.
	FinalPrice types.Amount `json:"final_price"`
	// NextSessionID is the id the next session will take.
	NextSessionID uint64 `json:"next_session_id"`
}

// Session aliases vote.Session for snapshot serialization.
type Session = vote.Session

// NewSnapshot allocates an empty snapshot with a fresh id.
func NewSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		ID:         id.NewSnapshotID(),
		TakenAt:    now,
		Balances:   make(map[types.Address]types.Amount),
		Allowances: make(map[types.Address]map[types.Address]types.Amount),
		Votes:      make(map[uint64][]*vote.Record),
	}
}
