package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit            []OnInit
	onShutdown        []OnShutdown
	onTransfer        []OnTransfer
	onApproval        []OnApproval
	onFeeUpdated      []OnFeeUpdated
	onVotingStarted   []OnVotingStarted
	onVoteCast        []OnVoteCast
	onVotingEnded     []OnVotingEnded
	onTokensPurchased []OnTokensPurchased
	onTokensSold      []OnTokensSold
	onEventsFlushed   []OnEventsFlushed
	onSnapshotSaved   []OnSnapshotSaved
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnTransfer); ok {
		r.onTransfer = append(r.onTransfer, v)
	}
	if v, ok := p.(OnApproval); ok {
		r.onApproval = append(r.onApproval, v)
	}
	if v, ok := p.(OnFeeUpdated); ok {
		r.onFeeUpdated = append(r.onFeeUpdated, v)
	}
	if v, ok := p.(OnVotingStarted); ok {
		r.onVotingStarted = append(r.onVotingStarted, v)
	}
	if v, ok := p.(OnVoteCast); ok {
		r.onVoteCast = append(r.onVoteCast, v)
	}
	if v, ok := p.(OnVotingEnded); ok {
		r.onVotingEnded = append(r.onVotingEnded, v)
	}
	if v, ok := p.(OnTokensPurchased); ok {
		r.onTokensPurchased = append(r.onTokensPurchased, v)
	}
	if v, ok := p.(OnTokensSold); ok {
		r.onTokensSold = append(r.onTokensSold, v)
	}
	if v, ok := p.(OnEventsFlushed); ok {
		r.onEventsFlushed = append(r.onEventsFlushed, v)
	}
	if v, ok := p.(OnSnapshotSaved); ok {
		r.onSnapshotSaved = append(r.onSnapshotSaved, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnTransfer)(nil)).Elem(), "OnTransfer")
	checkInterface(reflect.TypeOf((*OnApproval)(nil)).Elem(), "OnApproval")
	checkInterface(reflect.TypeOf((*OnFeeUpdated)(nil)).Elem(), "OnFeeUpdated")
	checkInterface(reflect.TypeOf((*OnVotingStarted)(nil)).Elem(), "OnVotingStarted")
	checkInterface(reflect.TypeOf((*OnVoteCast)(nil)).Elem(), "OnVoteCast")
	checkInterface(reflect.TypeOf((*OnVotingEnded)(nil)).Elem(), "OnVotingEnded")
	checkInterface(reflect.TypeOf((*OnTokensPurchased)(nil)).Elem(), "OnTokensPurchased")
	checkInterface(reflect.TypeOf((*OnTokensSold)(nil)).Elem(), "OnTokensSold")
	checkInterface(reflect.TypeOf((*OnEventsFlushed)(nil)).Elem(), "OnEventsFlushed")
	checkInterface(reflect.TypeOf((*OnSnapshotSaved)(nil)).Elem(), "OnSnapshotSaved")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTransfer emits a transfer event.
func (r *Registry) EmitTransfer(ctx context.Context, ev interface{}) {
	r.mu.RLock()
	plugins := r.onTransfer
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTransfer(ctx, ev)
		}); err != nil {
			r.logger.Warn("plugin OnTransfer failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitApproval emits an approval event.
func (r *Registry) EmitApproval(ctx context.Context, ev interface{}) {
	r.mu.RLock()
	plugins := r.onApproval
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnApproval(ctx, ev)
		}); err != nil {
			r.logger.Warn("plugin OnApproval failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitFeeUpdated emits a fee-rate change event.
func (r *Registry) EmitFeeUpdated(ctx context.Context, oldBps, newBps uint32) {
	r.mu.RLock()
	plugins := r.onFeeUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnFeeUpdated(ctx, oldBps, newBps)
		}); err != nil {
			r.logger.Warn("plugin OnFeeUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitVotingStarted emits a session-opened event.
func (r *Registry) EmitVotingStarted(ctx context.Context, session interface{}) {
	r.mu.RLock()
	plugins := r.onVotingStarted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnVotingStarted(ctx, session)
		}); err != nil {
			r.logger.Warn("plugin OnVotingStarted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitVoteCast emits a vote-cast event.
func (r *Registry) EmitVoteCast(ctx context.Context, record interface{}) {
	r.mu.RLock()
	plugins := r.onVoteCast
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnVoteCast(ctx, record)
		}); err != nil {
			r.logger.Warn("plugin OnVoteCast failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitVotingEnded emits a session-sealed event.
func (r *Registry) EmitVotingEnded(ctx context.Context, session interface{}) {
	r.mu.RLock()
	plugins := r.onVotingEnded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnVotingEnded(ctx, session)
		}); err != nil {
			r.logger.Warn("plugin OnVotingEnded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTokensPurchased emits a buy-trade event.
func (r *Registry) EmitTokensPurchased(ctx context.Context, trade interface{}) {
	r.mu.RLock()
	plugins := r.onTokensPurchased
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTokensPurchased(ctx, trade)
		}); err != nil {
			r.logger.Warn("plugin OnTokensPurchased failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTokensSold emits a sell-trade event.
func (r *Registry) EmitTokensSold(ctx context.Context, trade interface{}) {
	r.mu.RLock()
	plugins := r.onTokensSold
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTokensSold(ctx, trade)
		}); err != nil {
			r.logger.Warn("plugin OnTokensSold failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEventsFlushed emits a journal flushed event.
func (r *Registry) EmitEventsFlushed(ctx context.Context, count int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onEventsFlushed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEventsFlushed(ctx, count, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnEventsFlushed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSnapshotSaved emits a snapshot-persisted event.
func (r *Registry) EmitSnapshotSaved(ctx context.Context, snap interface{}) {
	r.mu.RLock()
	plugins := r.onSnapshotSaved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSnapshotSaved(ctx, snap)
		}); err != nil {
			r.logger.Warn("plugin OnSnapshotSaved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the ledger pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
