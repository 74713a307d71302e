package memtoken_test

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/memtoken"
	"github.com/xraph/memtoken/event"
	"github.com/xraph/memtoken/store/memory"
	"github.com/xraph/memtoken/token"
	"github.com/xraph/memtoken/types"
)

func persistParams() token.Params {
	return token.Params{
		Meta: token.Meta{
			Name:     "Meme Token",
			Symbol:   "MEME",
			Decimals: 18,
		},
		Admin:         types.Address("acct:admin"),
		InitialSupply: types.Units(1000000, 18),
		TimeToVote:    time.Minute,
		FeeBps:        300,
	}
}

func TestStopFlushesJournal(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	eng, err := memtoken.New(persistParams(), s,
		memtoken.WithJournalConfig(100, time.Hour)) // interval too long to fire
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	admin := types.Address("acct:admin")
	for i := 0; i < 5; i++ {
		if err := eng.Transfer(ctx, admin, types.Address("acct:alice"), types.Units(1, 18)); err != nil {
			t.Fatalf("Transfer: %v", err)
		}
	}

	if err := eng.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// Stop closed the store; read the journal directly.
	got := s.EventCount()
	if got != 5 {
		t.Errorf("journaled events: got %d, want 5", got)
	}
}

func TestRestartRestoresState(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	admin := types.Address("acct:admin")
	alice := types.Address("acct:alice")
	bob := types.Address("acct:bob")

	eng, err := memtoken.New(persistParams(), s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := eng.Transfer(ctx, admin, alice, types.Units(2500, 18)); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if err := eng.Approve(ctx, admin, bob, types.Units(100, 18)); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	sid, err := eng.StartVoting(ctx, admin)
	if err != nil {
		t.Fatalf("StartVoting: %v", err)
	}
	if err := eng.Vote(ctx, admin, types.NewAmount(1500)); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	// Stop takes a final snapshot but leaves the store closed, so restart
	// against a fresh store wrapper is not possible; instead take the
	// snapshot explicitly before stopping.
	if err := eng.SaveSnapshot(ctx); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	// A second engine booted from the same store must see identical state.
	restored, err := memtoken.New(persistParams(), s)
	if err != nil {
		t.Fatalf("New restored: %v", err)
	}
	if err := restored.Start(ctx); err != nil {
		t.Fatalf("Start restored: %v", err)
	}
	defer restored.Stop() //nolint:errcheck

	if got, want := restored.BalanceOf(alice), types.Units(2500, 18); !got.Equal(want) {
		t.Errorf("restored balance: got %s, want %s", got, want)
	}
	if got, want := restored.Allowance(admin, bob), types.Units(100, 18); !got.Equal(want) {
		t.Errorf("restored allowance: got %s, want %s", got, want)
	}
	if got := restored.CurrentSessionID(); got != sid {
		t.Errorf("restored session id: got %d, want %d", got, sid)
	}
	rec, err := restored.VoteOf(sid, admin)
	if err != nil {
		t.Fatalf("restored VoteOf: %v", err)
	}
	if !rec.Price.Equal(types.NewAmount(1500)) {
		t.Errorf("restored vote price: got %s, want 1500", rec.Price)
	}
	if got, want := restored.TotalSupply(), persistParams().InitialSupply; !got.Equal(want) {
		t.Errorf("restored supply: got %s, want %s", got, want)
	}

	// The restored session is still pending, so trading stays blocked.
	if _, err := restored.BuyToken(ctx, alice, types.Units(1, 18)); err == nil {
		t.Error("expected buy against pending restored session to fail")
	}
}

func TestJournalCarriesEventDetail(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	eng, err := memtoken.New(persistParams(), s,
		memtoken.WithJournalConfig(1, 10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer eng.Stop() //nolint:errcheck

	admin := types.Address("acct:admin")
	alice := types.Address("acct:alice")
	if err := eng.Transfer(ctx, admin, alice, types.Units(7, 18)); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	// The flush worker is asynchronous; wait for the event to land.
	deadline := time.Now().Add(2 * time.Second)
	for s.EventCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("journal never flushed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	got, err := s.QueryEvents(ctx, event.QueryOpts{Kinds: []event.Kind{event.KindTransfer}})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transfer events, want 1", len(got))
	}
	ev := got[0]
	if ev.From != admin || ev.To != alice {
		t.Errorf("event parties: got %s -> %s", ev.From, ev.To)
	}
	if !ev.Amount.Equal(types.Units(7, 18)) {
		t.Errorf("event amount: got %s, want %s", ev.Amount, types.Units(7, 18))
	}
}
