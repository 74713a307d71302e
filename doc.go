// Package memtoken provides an embeddable fungible-token ledger with
// stake-gated price governance and a fixed-price market for Go applications.
//
// Memtoken is designed as a library, not a service. Import it directly into
// your Go application and drive it through explicit caller addresses. It
// provides:
//
//   - An account ledger with balances, allowances, and delegated transfers
//   - Stake-weighted voting sessions that publish a reference price
//   - A buy/sell market executing at the governed price with a bps fee
//   - Append-only event journal with batched persistence
//   - Full-state snapshots for fast restarts
//   - Pluggable hooks for every ledger, governance, and market event
//
// # Quick Start
//
// Create an engine with your preferred store:
//
//	import (
//	    "github.com/xraph/memtoken"
//	    "github.com/xraph/memtoken/store/sqlite"
//	    "github.com/xraph/memtoken/token"
//	)
//
//	st, err := sqlite.New("memtoken.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	eng, err := memtoken.New(token.Params{
//	    Meta:          token.Meta{Name: "Demo Token", Symbol: "DEMO", Decimals: 18},
//	    Admin:         "acct:alice",
//	    InitialSupply: memtoken.Units(1000, 18),
//	    TimeToVote:    time.Hour,
//	    FeeBps:        300,
//	}, st)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop()
//
// # Core Concepts
//
// The ledger tracks whole token units per address. Transfers and delegated
// transfers move exact amounts with no fee:
//
//	err := eng.Transfer(ctx, "acct:alice", "acct:bob", memtoken.Units(5, 18))
//
// Governance runs in sessions. Any holder of at least 0.1% of supply may
// open one; holders of at least 0.05% may vote once, weighted by their
// balance at the moment of the vote. After the session window elapses,
// anyone may seal it:
//
//	sid, err := eng.StartVoting(ctx, "acct:alice")
//	err = eng.Vote(ctx, "acct:bob", memtoken.NewAmount(1500))
//	price, err := eng.EndVoting(ctx, "acct:carol")
//
// The market executes at the finalized price. Buys mint tokens against
// native value, sells burn tokens and pay native value out of the reserve;
// both legs skim the protocol fee in tokens to the system account:
//
//	trade, err := eng.BuyToken(ctx, "acct:bob", memtoken.Units(1, 18))
//	trade, err = eng.SellToken(ctx, "acct:bob", trade.Net)
//
// Trading is suspended while a session is unfinalized, even after its
// window has elapsed, until someone calls EndVoting.
//
// # Arithmetic
//
// All amounts are arbitrary-precision integers in the token's smallest
// unit. Divisions truncate toward zero; there is no floating point anywhere
// in the engine.
//
// # Persistence
//
// The in-memory state is authoritative. Every committed operation appends
// events to a journal that a background worker flushes to the store in
// batches, and snapshots capture the complete state for restart. Memory,
// SQLite, Postgres, and MongoDB stores ship in store/.
package memtoken
