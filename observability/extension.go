// Package observability provides a metrics extension for MemToken that
// records lifecycle event counts through a caller-supplied MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/memtoken/plugin"
	"github.com/xraph/memtoken/vote"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin            = (*MetricsExtension)(nil)
	_ plugin.OnInit            = (*MetricsExtension)(nil)
	_ plugin.OnTransfer        = (*MetricsExtension)(nil)
	_ plugin.OnApproval        = (*MetricsExtension)(nil)
	_ plugin.OnFeeUpdated      = (*MetricsExtension)(nil)
	_ plugin.OnVotingStarted   = (*MetricsExtension)(nil)
	_ plugin.OnVoteCast        = (*MetricsExtension)(nil)
	_ plugin.OnVotingEnded     = (*MetricsExtension)(nil)
	_ plugin.OnTokensPurchased = (*MetricsExtension)(nil)
	_ plugin.OnTokensSold      = (*MetricsExtension)(nil)
	_ plugin.OnEventsFlushed   = (*MetricsExtension)(nil)
	_ plugin.OnSnapshotSaved   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a MemToken plugin to automatically track ledger,
// governance, and market metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Ledger metrics
	Transfers  Counter
	Approvals  Counter
	FeeUpdates Counter

	// Governance metrics
	SessionsStarted   Counter
	VotesCast         Counter
	SessionsFinalized Counter
	EmptySessions     Counter

	// Market metrics
	Buys  Counter
	Sells Counter

	// Persistence metrics
	JournalBatchSize    Histogram
	JournalFlushLatency Histogram
	SnapshotsSaved      Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Ledger metrics
		Transfers:  factory.Counter("memtoken.ledger.transfers"),
		Approvals:  factory.Counter("memtoken.ledger.approvals"),
		FeeUpdates: factory.Counter("memtoken.ledger.fee_updates"),

		// Governance metrics
		SessionsStarted:   factory.Counter("memtoken.governance.sessions.started"),
		VotesCast:         factory.Counter("memtoken.governance.votes.cast"),
		SessionsFinalized: factory.Counter("memtoken.governance.sessions.finalized"),
		EmptySessions:     factory.Counter("memtoken.governance.sessions.empty"),

		// Market metrics
		Buys:  factory.Counter("memtoken.market.buys"),
		Sells: factory.Counter("memtoken.market.sells"),

		// Persistence metrics
		JournalBatchSize:    factory.Histogram("memtoken.journal.batch.size"),
		JournalFlushLatency: factory.Histogram("memtoken.journal.flush.latency_ms"),
		SnapshotsSaved:      factory.Counter("memtoken.snapshots.saved"),

		// Error metrics
		StoreErrors:  factory.Counter("memtoken.store.errors"),
		PluginErrors: factory.Counter("memtoken.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnTransfer implements plugin.OnTransfer.
func (m *MetricsExtension) OnTransfer(_ context.Context, _ interface{}) error {
	m.Transfers.Inc()
	return nil
}

// OnApproval implements plugin.OnApproval.
func (m *MetricsExtension) OnApproval(_ context.Context, _ interface{}) error {
	m.Approvals.Inc()
	return nil
}

// OnFeeUpdated implements plugin.OnFeeUpdated.
func (m *MetricsExtension) OnFeeUpdated(_ context.Context, _, _ uint32) error {
	m.FeeUpdates.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Governance hooks
// ──────────────────────────────────────────────────

// OnVotingStarted implements plugin.OnVotingStarted.
func (m *MetricsExtension) OnVotingStarted(_ context.Context, _ interface{}) error {
	m.SessionsStarted.Inc()
	return nil
}

// OnVoteCast implements plugin.OnVoteCast.
func (m *MetricsExtension) OnVoteCast(_ context.Context, _ interface{}) error {
	m.VotesCast.Inc()
	return nil
}

// OnVotingEnded implements plugin.OnVotingEnded.
func (m *MetricsExtension) OnVotingEnded(_ context.Context, session interface{}) error {
	m.SessionsFinalized.Inc()
	if s, ok := session.(*vote.Session); ok && s.TotalWeight.IsZero() {
		m.EmptySessions.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// Market hooks
// ──────────────────────────────────────────────────

// OnTokensPurchased implements plugin.OnTokensPurchased.
func (m *MetricsExtension) OnTokensPurchased(_ context.Context, _ interface{}) error {
	m.Buys.Inc()
	return nil
}

// OnTokensSold implements plugin.OnTokensSold.
func (m *MetricsExtension) OnTokensSold(_ context.Context, _ interface{}) error {
	m.Sells.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Persistence hooks
// ──────────────────────────────────────────────────

// OnEventsFlushed implements plugin.OnEventsFlushed.
func (m *MetricsExtension) OnEventsFlushed(_ context.Context, count int, elapsed time.Duration) error {
	m.JournalBatchSize.Observe(float64(count))
	m.JournalFlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}

// OnSnapshotSaved implements plugin.OnSnapshotSaved.
func (m *MetricsExtension) OnSnapshotSaved(_ context.Context, _ interface{}) error {
	m.SnapshotsSaved.Inc()
	return nil
}
