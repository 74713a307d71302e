// Package vote defines the governance session machine's data model: one
// active-or-finalized session at a time, per-voter records with weight
// snapshots, and the stake-weighted price accumulation.
package vote

import (
	"time"

	"github.com/xraph/memtoken/types"
)

// Status describes where a session sits in its lifecycle relative to an
// externally supplied current time.
type Status string

const (
	// StatusIdle means no unfinalized session exists.
	StatusIdle Status = "idle"
	// StatusActive means the session exists, is unfinalized, and its voting
	// window is still open.
	StatusActive Status = "active"
	// StatusExpired means the voting window has closed but the session has
	// not yet been finalized. Trading remains blocked in this state.
	StatusExpired Status = "expired"
	// StatusFinalized is terminal for a session.
	StatusFinalized Status = "finalized"
)

// Session is one governance round. Sessions transition Active to Finalized
// and never revert; ids increase monotonically and are never reused.
type Session struct {
	ID        uint64    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Finalized bool      `json:"finalized"`

	// WeightedPriceSum accumulates proposedPrice * weight over all votes.
	WeightedPriceSum types.Amount `json:"weighted_price_sum"`
	// TotalWeight accumulates the balance snapshots of all voters.
	TotalWeight types.Amount `json:"total_weight"`
	// FinalPrice is zero until finalization, then the stake-weighted
	// average of submitted prices (integer division, truncated).
	FinalPrice types.Amount `json:"final_price"`
}

// NewSession creates an Active session starting at now.
func NewSession(id uint64, now time.Time, timeToVote time.Duration) *Session {
	return &Session{
		ID:        id,
		StartTime: now,
		EndTime:   now.Add(timeToVote),
	}
}

// Status returns the session's lifecycle status at the given time.
// A nil session is Idle.
func (s *Session) Status(now time.Time) Status {
	switch {
	case s == nil:
		return StatusIdle
	case s.Finalized:
		return StatusFinalized
	case now.Before(s.EndTime):
		return StatusActive
	default:
		return StatusExpired
	}
}

// Open reports whether votes can still be cast at the given time.
func (s *Session) Open(now time.Time) bool {
	return s.Status(now) == StatusActive
}

// Pending reports whether the session exists and has not been finalized,
// regardless of whether its window has elapsed. Trading is blocked while a
// session is pending.
func (s *Session) Pending() bool {
	return s != nil && !s.Finalized
}

// Accumulate folds one vote into the running sums.
func (s *Session) Accumulate(price, weight types.Amount) {
	s.WeightedPriceSum = s.WeightedPriceSum.Add(price.Mul(weight))
	s.TotalWeight = s.TotalWeight.Add(weight)
}

// Finalize seals the session and computes FinalPrice as the truncated
// stake-weighted average. With no votes the final price is zero, which the
// market treats as unset.
func (s *Session) Finalize() types.Amount {
	if s.TotalWeight.IsPositive() {
		s.FinalPrice = s.WeightedPriceSum.Div(s.TotalWeight)
	}
	s.Finalized = true
	return s.FinalPrice
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Record is one voter's immutable vote in a session. Weight is the voter's
// balance snapshot at the moment of the call; later balance changes never
// alter it.
type Record struct {
	SessionID uint64        `json:"session_id"`
	Voter     types.Address `json:"voter"`
	Price     types.Amount  `json:"price"`
	Weight    types.Amount  `json:"weight"`
	HasVoted  bool          `json:"has_voted"`
	CastAt    time.Time     `json:"cast_at"`
}

// NewRecord captures a vote at cast time.
func NewRecord(sessionID uint64, voter types.Address, price, weight types.Amount, now time.Time) *Record {
	return &Record{
		SessionID: sessionID,
		Voter:     voter,
		Price:     price,
		Weight:    weight,
		HasVoted:  true,
		CastAt:    now,
	}
}
