// Package event defines the ledger's notification model. Every committed
// state transition produces one or more events; the engine journals them to
// the store and fans them out to plugins.
package event

import (
	"time"

	"github.com/xraph/memtoken/id"
	"github.com/xraph/memtoken/types"
)

// Kind identifies the state transition an event describes.
type Kind string

const (
	// KindTransfer is a balance movement. Mints carry the zero address as
	// From; burns carry it as To.
	KindTransfer Kind = "transfer"
	// KindApproval is an allowance being set.
	KindApproval Kind = "approval"
	// KindFeeUpdated is an admin fee-rate change.
	KindFeeUpdated Kind = "fee_updated"
	// KindVotingStarted opens a governance session.
	KindVotingStarted Kind = "voting_started"
	// KindVoted records one cast vote.
	KindVoted Kind = "voted"
	// KindVotingEnded seals a session with its final price.
	KindVotingEnded Kind = "voting_ended"
	// KindBuy summarizes a market purchase.
	KindBuy Kind = "buy"
	// KindSell summarizes a market sale.
	KindSell Kind = "sell"
)

// Event is a single ledger notification. It is a flat record: only the
// fields relevant to its Kind are populated, the rest stay zero. Events are
// immutable once created.
type Event struct {
	ID   id.ID     `json:"id"`
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`

	// Transfer fields. From/To double as buyer/seller identities on
	// buy/sell summary events.
	From   types.Address `json:"from,omitempty"`
	To     types.Address `json:"to,omitempty"`
	Amount types.Amount  `json:"amount,omitzero"`

	// Approval fields.
	Owner   types.Address `json:"owner,omitempty"`
	Spender types.Address `json:"spender,omitempty"`

	// Governance fields.
	SessionID uint64        `json:"session_id,omitempty"`
	Voter     types.Address `json:"voter,omitempty"`
	Price     types.Amount  `json:"price,omitzero"`
	Weight    types.Amount  `json:"weight,omitzero"`

	// Fee-update fields.
	FeeBps uint32 `json:"fee_bps,omitempty"`

	// Market fields: native value moved alongside Amount token units.
	Native types.Amount `json:"native,omitzero"`
}

// NewTransfer creates a transfer event. Use types.ZeroAddress for mints
// (from) and burns (to).
func NewTransfer(now time.Time, from, to types.Address, amount types.Amount) *Event {
	return &Event{
		ID:     id.NewEventID(),
		Kind:   KindTransfer,
		At:     now,
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// NewApproval creates an approval event.
func NewApproval(now time.Time, owner, spender types.Address, amount types.Amount) *Event {
	return &Event{
		ID:      id.NewEventID(),
		Kind:    KindApproval,
		At:      now,
		Owner:   owner,
		Spender: spender,
		Amount:  amount,
	}
}

// NewFeeUpdated creates a fee-rate change event.
func NewFeeUpdated(now time.Time, admin types.Address, feeBps uint32) *Event {
	return &Event{
		ID:     id.NewEventID(),
		Kind:   KindFeeUpdated,
		At:     now,
		From:   admin,
		FeeBps: feeBps,
	}
}

// NewVotingStarted creates a session-opened event.
func NewVotingStarted(now time.Time, sessionID uint64, starter types.Address) *Event {
	return &Event{
		ID:        id.NewEventID(),
		Kind:      KindVotingStarted,
		At:        now,
		SessionID: sessionID,
		From:      starter,
	}
}

// NewVoted creates a vote-cast event.
func NewVoted(now time.Time, sessionID uint64, voter types.Address, price, weight types.Amount) *Event {
	return &Event{
		ID:        id.NewEventID(),
		Kind:      KindVoted,
		At:        now,
		SessionID: sessionID,
		Voter:     voter,
		Price:     price,
		Weight:    weight,
	}
}

// NewVotingEnded creates a session-sealed event carrying the final price.
func NewVotingEnded(now time.Time, sessionID uint64, finalPrice types.Amount) *Event {
	return &Event{
		ID:        id.NewEventID(),
		Kind:      KindVotingEnded,
		At:        now,
		SessionID: sessionID,
		Price:     finalPrice,
	}
}

// NewBuy creates a purchase summary event.
func NewBuy(now time.Time, buyer types.Address, tokensNet, native, price types.Amount) *Event {
	return &Event{
		ID:     id.NewEventID(),
		Kind:   KindBuy,
		At:     now,
		To:     buyer,
		Amount: tokensNet,
		Native: native,
		Price:  price,
	}
}

// NewSell creates a sale summary event.
func NewSell(now time.Time, seller types.Address, tokensNet, native, price types.Amount) *Event {
	return &Event{
		ID:     id.NewEventID(),
		Kind:   KindSell,
		At:     now,
		From:   seller,
		Amount: tokensNet,
		Native: native,
		Price:  price,
	}
}

// Touches reports whether the event involves the given address in any role.
func (e *Event) Touches(addr types.Address) bool {
	if addr.IsZero() {
		return false
	}
	return e.From == addr || e.To == addr || e.Owner == addr || e.Spender == addr || e.Voter == addr
}

// QueryOpts filters journal reads.
type QueryOpts struct {
	// Kinds restricts results to the listed kinds. Empty means all.
	Kinds []Kind
	// Account restricts results to events touching the address in any role.
	Account types.Address
	// SessionID restricts results to one governance session.
	SessionID *uint64
	// Since/Until bound the event time (inclusive since, exclusive until).
	Since time.Time
	Until time.Time

	Limit  int
	Offset int
}

// Match reports whether the event passes the non-pagination filters.
func (o QueryOpts) Match(e *Event) bool {
	if len(o.Kinds) > 0 {
		found := false
		for _, k := range o.Kinds {
			if e.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !o.Account.IsZero() && !e.Touches(o.Account) {
		return false
	}
	if o.SessionID != nil && e.SessionID != *o.SessionID {
		return false
	}
	if !o.Since.IsZero() && e.At.Before(o.Since) {
		return false
	}
	if !o.Until.IsZero() && !e.At.Before(o.Until) {
		return false
	}
	return true
}
