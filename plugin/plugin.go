// Package plugin provides an extensible plugin system for MemToken.
// Plugins can hook into ledger, governance, and market lifecycle events to
// extend functionality. Domain objects are passed as interface{} so plugin
// authors depend only on this package; concrete types are documented per
// hook.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized. The engine argument is
// the *memtoken.Engine.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnTransfer is called after a committed balance movement, including the
// mint/burn legs of market trades. ev is an *event.Event of kind transfer.
type OnTransfer interface {
	Plugin
	OnTransfer(ctx context.Context, ev interface{}) error
}

// OnApproval is called after an allowance is set. ev is an *event.Event of
// kind approval.
type OnApproval interface {
	Plugin
	OnApproval(ctx context.Context, ev interface{}) error
}

// OnFeeUpdated is called after the admin changes the fee rate.
type OnFeeUpdated interface {
	Plugin
	OnFeeUpdated(ctx context.Context, oldBps, newBps uint32) error
}

// ──────────────────────────────────────────────────
// Governance hooks
// ──────────────────────────────────────────────────

// OnVotingStarted is called when a session opens. session is a
// *vote.Session.
type OnVotingStarted interface {
	Plugin
	OnVotingStarted(ctx context.Context, session interface{}) error
}

// OnVoteCast is called when a vote is recorded. record is a *vote.Record.
type OnVoteCast interface {
	Plugin
	OnVoteCast(ctx context.Context, record interface{}) error
}

// OnVotingEnded is called when a session is finalized. session is the
// sealed *vote.Session carrying the final price.
type OnVotingEnded interface {
	Plugin
	OnVotingEnded(ctx context.Context, session interface{}) error
}

// ──────────────────────────────────────────────────
// Market hooks
// ──────────────────────────────────────────────────

// OnTokensPurchased is called after a committed buy. trade is a
// *market.Trade.
type OnTokensPurchased interface {
	Plugin
	OnTokensPurchased(ctx context.Context, trade interface{}) error
}

// OnTokensSold is called after a committed sell. trade is a *market.Trade.
type OnTokensSold interface {
	Plugin
	OnTokensSold(ctx context.Context, trade interface{}) error
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnEventsFlushed is called when a batch of journal events is persisted.
type OnEventsFlushed interface {
	Plugin
	OnEventsFlushed(ctx context.Context, count int, elapsed time.Duration) error
}

// OnSnapshotSaved is called when a state snapshot is persisted. snap is a
// *store.Snapshot.
type OnSnapshotSaved interface {
	Plugin
	OnSnapshotSaved(ctx context.Context, snap interface{}) error
}
