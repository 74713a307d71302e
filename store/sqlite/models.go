package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/memtoken/event"
	"github.com/xraph/memtoken/id"
	"github.com/xraph/memtoken/store"
	"github.com/xraph/memtoken/types"
)

// ==================== Event models ====================

// Amounts travel as decimal strings so values past int64 survive the round
// trip unscathed.
type eventModel struct {
	grove.BaseModel `grove:"table:memtoken_events"`

	ID        string    `grove:"id,pk"`
	Kind      string    `grove:"kind"`
	At        time.Time `grove:"at"`
	FromAddr  string    `grove:"from_addr"`
	ToAddr    string    `grove:"to_addr"`
	Amount    string    `grove:"amount"`
	Owner     string    `grove:"owner"`
	Spender   string    `grove:"spender"`
	SessionID uint64    `grove:"session_id"`
	Voter     string    `grove:"voter"`
	Price     string    `grove:"price"`
	Weight    string    `grove:"weight"`
	FeeBps    uint32    `grove:"fee_bps"`
	Native    string    `grove:"native"`
	CreatedAt time.Time `grove:"created_at"`
}

func toEventModel(e *event.Event) *eventModel {
	return &eventModel{
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		At:        e.At.UTC(),
		FromAddr:  e.From.String(),
		ToAddr:    e.To.String(),
		Amount:    e.Amount.String(),
		Owner:     e.Owner.String(),
		Spender:   e.Spender.String(),
		SessionID: e.SessionID,
		Voter:     e.Voter.String(),
		Price:     e.Price.String(),
		Weight:    e.Weight.String(),
		FeeBps:    e.FeeBps,
		Native:    e.Native.String(),
		CreatedAt: time.Now().UTC(),
	}
}

func fromEventModel(m *eventModel) (*event.Event, error) {
	evID, err := id.ParseEventID(m.ID)
	if err != nil {
		return nil, err
	}

	amount, err := types.ParseAmount(m.Amount)
	if err != nil {
		return nil, err
	}
	price, err := types.ParseAmount(m.Price)
	if err != nil {
		return nil, err
	}
	weight, err := types.ParseAmount(m.Weight)
	if err != nil {
		return nil, err
	}
	native, err := types.ParseAmount(m.Native)
	if err != nil {
		return nil, err
	}

	return &event.Event{
		ID:        evID,
		Kind:      event.Kind(m.Kind),
		At:        m.At,
		From:      types.Address(m.FromAddr),
		To:        types.Address(m.ToAddr),
		Amount:    amount,
		Owner:     types.Address(m.Owner),
		Spender:   types.Address(m.Spender),
		SessionID: m.SessionID,
		Voter:     types.Address(m.Voter),
		Price:     price,
		Weight:    weight,
		FeeBps:    m.FeeBps,
		Native:    native,
	}, nil
}

// ==================== Snapshot models ====================

// The snapshot body is one JSON document. Snapshots are written rarely and
// read once on startup, so a queryable column layout buys nothing.
type snapshotModel struct {
	grove.BaseModel `grove:"table:memtoken_snapshots"`

	ID      string    `grove:"id,pk"`
	TakenAt time.Time `grove:"taken_at"`
	State   []byte    `grove:"state"`
}

func toSnapshotModel(snap *store.Snapshot) (*snapshotModel, error) {
	state, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return &snapshotModel{
		ID:      snap.ID.String(),
		TakenAt: snap.TakenAt.UTC(),
		State:   state,
	}, nil
}

func fromSnapshotModel(m *snapshotModel) (*store.Snapshot, error) {
	snap := new(store.Snapshot)
	if err := json.Unmarshal(m.State, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
