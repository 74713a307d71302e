package memtoken_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/memtoken"
	"github.com/xraph/memtoken/store/memory"
	"github.com/xraph/memtoken/token"
	"github.com/xraph/memtoken/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Define the token at genesis
		params := token.Params{
			Meta: token.Meta{
				Name:     "Meme Token",
				Symbol:   "MEME",
				Decimals: 18,
			},
			Admin:         "acct:admin",
			InitialSupply: types.Units(1000000, 18), // one million whole tokens
			TimeToVote:    time.Hour,
			FeeBps:        300, // 3% market fee
		}

		// Initialize the engine
		eng, err := memtoken.New(params, store,
			memtoken.WithLogger(slog.Default()),
			memtoken.WithJournalConfig(100, 5*time.Second),
			memtoken.WithSnapshotInterval(time.Minute),
		)
		if err != nil {
			t.Fatal(err)
		}

		// Start the engine
		ctx := context.Background()
		if err := eng.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer eng.Stop()

		// Move tokens around
		if err := eng.Transfer(ctx, "acct:admin", "acct:alice", types.Units(5000, 18)); err != nil {
			t.Fatal(err)
		}

		// Delegate spending
		if err := eng.Approve(ctx, "acct:alice", "acct:bob", types.Units(100, 18)); err != nil {
			t.Fatal(err)
		}
		if err := eng.TransferFrom(ctx, "acct:bob", "acct:alice", "acct:carol", types.Units(40, 18)); err != nil {
			t.Fatal(err)
		}

		// Open a governance session and vote on a price
		sid, err := eng.StartVoting(ctx, "acct:admin")
		if err != nil {
			t.Fatal(err)
		}
		if err := eng.Vote(ctx, "acct:alice", types.MustAmount("100000000000000")); err != nil {
			t.Fatal(err)
		}

		log.Printf("session %d open, alice holds %s\n", sid, eng.BalanceOf("acct:alice"))
	})

	// Test Amount type examples
	t.Run("AmountExamples", func(t *testing.T) {
		// Constructors
		_ = types.NewAmount(100)
		_ = types.Units(5, 18)
		_ = types.MustAmount("9700000000000000000000")

		// Arithmetic, always in smallest units
		a := types.Units(1, 18)
		b := types.Units(2, 18)
		_ = a.Add(b)
		_ = a.MulInt64(3)
		_ = a.MulDiv(types.NewAmount(300), types.NewAmount(10000)) // 3% of a

		// Comparison
		if a.LessThan(b) {
			// a is less than b
		}

		// Formatting
		_ = a.String()        // "1000000000000000000"
		_ = a.FormatUnits(18) // "1.000000000000000000"
	})
}
