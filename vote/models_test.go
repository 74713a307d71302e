package vote

import (
	"testing"
	"time"

	"github.com/xraph/memtoken/types"
)

var sessionStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestSessionStatus(t *testing.T) {
	s := NewSession(1, sessionStart, time.Minute)

	tests := []struct {
		name string
		s    *Session
		now  time.Time
		want Status
	}{
		{"nil session is idle", nil, sessionStart, StatusIdle},
		{"at start", s, sessionStart, StatusActive},
		{"mid window", s, sessionStart.Add(30 * time.Second), StatusActive},
		{"at end time", s, sessionStart.Add(time.Minute), StatusExpired},
		{"past end time", s, sessionStart.Add(time.Hour), StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Status(tt.now); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	s.Finalize()
	if got := s.Status(sessionStart); got != StatusFinalized {
		t.Errorf("finalized session: got %s, want %s", got, StatusFinalized)
	}
}

func TestSessionOpen(t *testing.T) {
	s := NewSession(1, sessionStart, time.Minute)

	if !s.Open(sessionStart.Add(59 * time.Second)) {
		t.Error("session should be open inside the window")
	}
	if s.Open(sessionStart.Add(time.Minute)) {
		t.Error("session should be closed exactly at end time")
	}

	// Finalization closes the window regardless of time.
	s.Finalize()
	if s.Open(sessionStart) {
		t.Error("finalized session should not be open")
	}
}

func TestSessionPending(t *testing.T) {
	var nilSession *Session
	if nilSession.Pending() {
		t.Error("nil session should not be pending")
	}

	s := NewSession(1, sessionStart, time.Minute)
	if !s.Pending() {
		t.Error("fresh session should be pending")
	}

	// Pending outlasts the window: only finalization clears it.
	if !s.Pending() {
		t.Error("expired unfinalized session should still be pending")
	}
	s.Finalize()
	if s.Pending() {
		t.Error("finalized session should not be pending")
	}
}

func TestFinalizeWeightedAverage(t *testing.T) {
	tests := []struct {
		name  string
		votes [][2]int64 // price, weight
		want  int64
	}{
		{"single vote", [][2]int64{{100, 1}}, 100},
		{"equal weights", [][2]int64{{100, 5}, {200, 5}}, 150},
		{"weight dominates", [][2]int64{{100, 1}, {200, 9}}, 190},
		{"truncates toward zero", [][2]int64{{100, 1}, {101, 1}, {101, 1}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(1, sessionStart, time.Minute)
			for _, v := range tt.votes {
				s.Accumulate(types.NewAmount(v[0]), types.NewAmount(v[1]))
			}

			got := s.Finalize()
			if !got.Equal(types.NewAmount(tt.want)) {
				t.Errorf("final price: got %s, want %d", got, tt.want)
			}
			if !s.Finalized {
				t.Error("session not marked finalized")
			}
			if !s.FinalPrice.Equal(got) {
				t.Errorf("stored price %s differs from returned %s", s.FinalPrice, got)
			}
		})
	}
}

func TestFinalizeWithNoVotes(t *testing.T) {
	s := NewSession(1, sessionStart, time.Minute)

	got := s.Finalize()
	if !got.IsZero() {
		t.Errorf("empty session final price: got %s, want 0", got)
	}
	if !s.Finalized {
		t.Error("session not marked finalized")
	}
}

func TestFinalizeBigWeights(t *testing.T) {
	// Weights are full-precision balances, far past int64.
	s := NewSession(1, sessionStart, time.Minute)
	price := types.MustAmount("100000000000000") // 1e14
	weight := types.Units(1000, 18)

	s.Accumulate(price, weight)
	s.Accumulate(price, weight)

	if got := s.Finalize(); !got.Equal(price) {
		t.Errorf("final price: got %s, want %s", got, price)
	}
}

func TestClone(t *testing.T) {
	var nilSession *Session
	if nilSession.Clone() != nil {
		t.Error("clone of nil should be nil")
	}

	s := NewSession(7, sessionStart, time.Minute)
	s.Accumulate(types.NewAmount(100), types.NewAmount(3))

	c := s.Clone()
	if c == s {
		t.Fatal("clone aliases the original")
	}
	if c.ID != s.ID || !c.TotalWeight.Equal(s.TotalWeight) {
		t.Error("clone diverges from original")
	}

	// Mutating the clone must not leak into the original.
	c.Finalize()
	if s.Finalized {
		t.Error("finalizing the clone mutated the original")
	}
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord(3, types.Address("acct:alice"), types.NewAmount(150), types.Units(1000, 18), sessionStart)

	if rec.SessionID != 3 {
		t.Errorf("session id: got %d, want 3", rec.SessionID)
	}
	if rec.Voter != types.Address("acct:alice") {
		t.Errorf("voter: got %s", rec.Voter)
	}
	if !rec.HasVoted {
		t.Error("record not marked as voted")
	}
	if !rec.CastAt.Equal(sessionStart) {
		t.Errorf("cast at: got %s, want %s", rec.CastAt, sessionStart)
	}
}
