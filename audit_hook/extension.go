// Package audithook bridges MemToken lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xraph/memtoken/event"
	"github.com/xraph/memtoken/market"
	"github.com/xraph/memtoken/plugin"
	"github.com/xraph/memtoken/vote"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin            = (*Extension)(nil)
	_ plugin.OnTransfer        = (*Extension)(nil)
	_ plugin.OnApproval        = (*Extension)(nil)
	_ plugin.OnFeeUpdated      = (*Extension)(nil)
	_ plugin.OnVotingStarted   = (*Extension)(nil)
	_ plugin.OnVoteCast        = (*Extension)(nil)
	_ plugin.OnVotingEnded     = (*Extension)(nil)
	_ plugin.OnTokensPurchased = (*Extension)(nil)
	_ plugin.OnTokensSold      = (*Extension)(nil)
	_ plugin.OnEventsFlushed   = (*Extension)(nil)
	_ plugin.OnSnapshotSaved   = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly; callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges MemToken lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnTransfer implements plugin.OnTransfer.
func (e *Extension) OnTransfer(ctx context.Context, ev interface{}) error {
	transfer, ok := ev.(*event.Event)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionTransfer, SeverityInfo, OutcomeSuccess,
		ResourceAccount, transfer.ID.String(), CategoryLedger, nil,
		"from", transfer.From.String(),
		"to", transfer.To.String(),
		"amount", transfer.Amount.String(),
	)
}

// OnApproval implements plugin.OnApproval.
func (e *Extension) OnApproval(ctx context.Context, ev interface{}) error {
	approval, ok := ev.(*event.Event)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionApproval, SeverityInfo, OutcomeSuccess,
		ResourceAccount, approval.ID.String(), CategoryLedger, nil,
		"owner", approval.Owner.String(),
		"spender", approval.Spender.String(),
		"amount", approval.Amount.String(),
	)
}

// OnFeeUpdated implements plugin.OnFeeUpdated.
func (e *Extension) OnFeeUpdated(ctx context.Context, oldBps, newBps uint32) error {
	return e.record(ctx, ActionFeeUpdated, SeverityWarning, OutcomeSuccess,
		ResourceAccount, "", CategoryLedger, nil,
		"old_bps", oldBps,
		"new_bps", newBps,
	)
}

// ──────────────────────────────────────────────────
// Governance hooks
// ──────────────────────────────────────────────────

// OnVotingStarted implements plugin.OnVotingStarted.
func (e *Extension) OnVotingStarted(ctx context.Context, session interface{}) error {
	s, ok := session.(*vote.Session)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionVotingStarted, SeverityInfo, OutcomeSuccess,
		ResourceSession, strconv.FormatUint(s.ID, 10), CategoryGovernance, nil,
		"session_id", s.ID,
		"end_time", s.EndTime,
	)
}

// OnVoteCast implements plugin.OnVoteCast.
func (e *Extension) OnVoteCast(ctx context.Context, record interface{}) error {
	r, ok := record.(*vote.Record)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionVoteCast, SeverityInfo, OutcomeSuccess,
		ResourceSession, strconv.FormatUint(r.SessionID, 10), CategoryGovernance, nil,
		"session_id", r.SessionID,
		"voter", r.Voter.String(),
		"price", r.Price.String(),
		"weight", r.Weight.String(),
	)
}

// OnVotingEnded implements plugin.OnVotingEnded.
func (e *Extension) OnVotingEnded(ctx context.Context, session interface{}) error {
	s, ok := session.(*vote.Session)
	if !ok {
		return nil
	}

	// A zero final price freezes the market until the next session.
	severity := SeverityInfo
	if s.FinalPrice.IsZero() {
		severity = SeverityWarning
	}

	return e.record(ctx, ActionVotingEnded, severity, OutcomeSuccess,
		ResourceSession, strconv.FormatUint(s.ID, 10), CategoryGovernance, nil,
		"session_id", s.ID,
		"final_price", s.FinalPrice.String(),
		"total_weight", s.TotalWeight.String(),
	)
}

// ──────────────────────────────────────────────────
// Market hooks
// ──────────────────────────────────────────────────

// OnTokensPurchased implements plugin.OnTokensPurchased.
func (e *Extension) OnTokensPurchased(ctx context.Context, trade interface{}) error {
	t, ok := trade.(*market.Trade)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionTokensPurchased, SeverityInfo, OutcomeSuccess,
		ResourceTrade, t.ID.String(), CategoryMarket, nil,
		"trader", t.Trader.String(),
		"native", t.Native.String(),
		"gross", t.Gross.String(),
		"fee", t.Fee.String(),
		"net", t.Net.String(),
		"price", t.Price.String(),
	)
}

// OnTokensSold implements plugin.OnTokensSold.
func (e *Extension) OnTokensSold(ctx context.Context, trade interface{}) error {
	t, ok := trade.(*market.Trade)
	if !ok {
		return nil
	}
	return e.record(ctx, ActionTokensSold, SeverityInfo, OutcomeSuccess,
		ResourceTrade, t.ID.String(), CategoryMarket, nil,
		"trader", t.Trader.String(),
		"native", t.Native.String(),
		"gross", t.Gross.String(),
		"fee", t.Fee.String(),
		"net", t.Net.String(),
		"price", t.Price.String(),
	)
}

// ──────────────────────────────────────────────────
// Persistence hooks
// ──────────────────────────────────────────────────

// OnEventsFlushed implements plugin.OnEventsFlushed.
func (e *Extension) OnEventsFlushed(ctx context.Context, count int, elapsed time.Duration) error {
	return e.record(ctx, ActionEventsFlushed, SeverityInfo, OutcomeSuccess,
		ResourceJournal, "", CategoryPersistence, nil,
		"count", count,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// OnSnapshotSaved implements plugin.OnSnapshotSaved.
func (e *Extension) OnSnapshotSaved(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionSnapshotSaved, SeverityInfo, OutcomeSuccess,
		ResourceSnapshot, "", CategoryPersistence, nil,
		"event", "snapshot_saved",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
