package memtoken

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/memtoken/event"
	"github.com/xraph/memtoken/market"
	"github.com/xraph/memtoken/plugin"
	"github.com/xraph/memtoken/store"
	"github.com/xraph/memtoken/token"
	"github.com/xraph/memtoken/types"
	"github.com/xraph/memtoken/vote"
)

// PayoutFunc delivers native value to an account during a sell. It is
// invoked before any ledger mutation; a non-nil error aborts the sell with
// ErrPayoutFailed and zero state change. Implementations must not call back
// into the engine.
type PayoutFunc func(ctx context.Context, to types.Address, native types.Amount) error

// Engine is the single-writer ledger state machine: token balances, fee
// control, the governance session machine, and the price-driven market. One
// external call fully commits or leaves the state untouched; there is no
// partial-success mode.
type Engine struct {
	mu sync.RWMutex

	// Immutable after genesis
	meta       token.Meta
	admin      types.Address
	timeToVote time.Duration

	// Ledger state
	feeBps      uint32
	totalSupply types.Amount
	reserve     types.Amount
	balances    map[types.Address]types.Amount
	allowances  map[types.Address]map[types.Address]types.Amount

	// Governance state
	session       *vote.Session
	votes         map[uint64]map[types.Address]*vote.Record
	finalPrice    types.Amount
	nextSessionID uint64

	// Collaborators
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   func() time.Time
	payout  PayoutFunc

	// Journal worker
	journal  chan *event.Event
	stopChan chan struct{}
	wg       sync.WaitGroup
	dropped  uint64

	// Configuration
	journalBatchSize     int
	journalFlushInterval time.Duration
	snapshotInterval     time.Duration
}

// New creates an Engine from genesis parameters. The initial supply is
// credited to the admin. Call Start to begin persistence workers.
func New(params token.Params, s store.Store, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	e := &Engine{
		meta:       params.Meta,
		admin:      params.Admin,
		timeToVote: params.TimeToVote,
		feeBps:     params.FeeBps,

		totalSupply: params.InitialSupply,
		balances:    make(map[types.Address]types.Amount),
		allowances:  make(map[types.Address]map[types.Address]types.Amount),
		votes:       make(map[uint64]map[types.Address]*vote.Record),

		nextSessionID: 1,

		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		clock:   time.Now,

		journal:  make(chan *event.Event, 10000),
		stopChan: make(chan struct{}),

		journalBatchSize:     100,
		journalFlushInterval: 5 * time.Second,
	}

	if params.InitialSupply.IsPositive() {
		e.balances[params.Admin] = params.InitialSupply
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithClock substitutes the current-time source. Session windows are
// data-driven gates checked against this clock, not scheduler deadlines, so
// tests can advance time freely.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPayout sets the native-value payout callback used by SellToken.
func WithPayout(fn PayoutFunc) Option {
	return func(e *Engine) {
		e.payout = fn
	}
}

// WithJournalConfig configures event journal batching.
func WithJournalConfig(batchSize int, flushInterval time.Duration) Option {
	return func(e *Engine) {
		e.journalBatchSize = batchSize
		e.journalFlushInterval = flushInterval
	}
}

// WithSnapshotInterval enables periodic state snapshots. Zero disables the
// snapshot worker; snapshots are still taken on Stop.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(e *Engine) {
		e.snapshotInterval = interval
	}
}

// Start migrates the store, restores the latest snapshot if one exists, and
// begins background workers.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	snap, err := e.store.LoadLatestSnapshot(ctx)
	switch {
	case err == nil:
		if err := e.restore(snap); err != nil {
			return err
		}
		e.logger.Info("state restored from snapshot",
			"snapshot_id", snap.ID.String(),
			"taken_at", snap.TakenAt,
		)
	case errors.Is(err, ErrNotFound):
		// Fresh genesis state.
	default:
		return err
	}

	e.plugins.EmitInit(ctx, e)

	e.wg.Add(1)
	go e.journalFlushWorker(ctx)

	if e.snapshotInterval > 0 {
		e.wg.Add(1)
		go e.snapshotWorker(ctx)
	}

	e.logger.Info("memtoken engine started",
		"symbol", e.meta.Symbol,
		"decimals", e.meta.Decimals,
		"fee_bps", e.feeBps,
		"time_to_vote", e.timeToVote,
	)

	return nil
}

// Stop flushes the journal, saves a final snapshot, and shuts down.
func (e *Engine) Stop() error {
	close(e.stopChan)
	e.wg.Wait()

	ctx := context.Background()
	if err := e.SaveSnapshot(ctx); err != nil {
		e.logger.Error("final snapshot failed", "error", err)
	}
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Ledger operations
// ──────────────────────────────────────────────────

// Transfer moves amount from caller to to. No fee, no rounding.
func (e *Engine) Transfer(ctx context.Context, caller, to types.Address, amount types.Amount) error {
	if !caller.Valid() || !to.Valid() {
		return fmt.Errorf("%w: transfer requires valid from and to addresses", ErrInvalidInput)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: transfer amount must not be negative", ErrInvalidInput)
	}

	e.mu.Lock()
	now := e.clock()

	if e.balanceOf(caller).LessThan(amount) {
		e.mu.Unlock()
		return ErrInsufficientBalance
	}

	e.debit(caller, amount)
	e.credit(to, amount)

	ev := event.NewTransfer(now, caller, to, amount)
	e.mu.Unlock()

	e.journalEvent(ev)
	e.plugins.EmitTransfer(ctx, ev)
	return nil
}

// Approve sets the allowance of spender over caller's balance. This is an
// absolute set, not additive.
func (e *Engine) Approve(ctx context.Context, caller, spender types.Address, amount types.Amount) error {
	if !caller.Valid() || !spender.Valid() {
		return fmt.Errorf("%w: approve requires valid owner and spender addresses", ErrInvalidInput)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: allowance must not be negative", ErrInvalidInput)
	}

	e.mu.Lock()
	now := e.clock()

	if e.allowances[caller] == nil {
		e.allowances[caller] = make(map[types.Address]types.Amount)
	}
	e.allowances[caller][spender] = amount

	ev := event.NewApproval(now, caller, spender, amount)
	e.mu.Unlock()

	e.journalEvent(ev)
	e.plugins.EmitApproval(ctx, ev)
	return nil
}

// TransferFrom moves amount from owner to to, spending caller's allowance.
// The allowance decreases by exactly the amount moved, atomically with the
// balance movement.
func (e *Engine) TransferFrom(ctx context.Context, caller, owner, to types.Address, amount types.Amount) error {
	if !caller.Valid() || !owner.Valid() || !to.Valid() {
		return fmt.Errorf("%w: transferFrom requires valid addresses", ErrInvalidInput)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: transfer amount must not be negative", ErrInvalidInput)
	}

	e.mu.Lock()
	now := e.clock()

	if e.allowanceOf(owner, caller).LessThan(amount) {
		e.mu.Unlock()
		return ErrInsufficientAllowance
	}
	if e.balanceOf(owner).LessThan(amount) {
		e.mu.Unlock()
		return ErrInsufficientBalance
	}

	e.allowances[owner][caller] = e.allowances[owner][caller].Sub(amount)
	e.debit(owner, amount)
	e.credit(to, amount)

	ev := event.NewTransfer(now, owner, to, amount)
	e.mu.Unlock()

	e.journalEvent(ev)
	e.plugins.EmitTransfer(ctx, ev)
	return nil
}

// ──────────────────────────────────────────────────
// Fee control
// ──────────────────────────────────────────────────

// SetFeeBps replaces the protocol fee rate. Admin only.
func (e *Engine) SetFeeBps(ctx context.Context, caller types.Address, newFee uint32) error {
	e.mu.Lock()
	now := e.clock()

	if caller != e.admin {
		e.mu.Unlock()
		return fmt.Errorf("%w: only admin may set the fee rate", ErrUnauthorized)
	}
	if newFee > token.MaxFeeBps {
		e.mu.Unlock()
		return fmt.Errorf("%w: %d bps > %d", ErrFeeTooHigh, newFee, token.MaxFeeBps)
	}

	oldFee := e.feeBps
	e.feeBps = newFee

	ev := event.NewFeeUpdated(now, caller, newFee)
	e.mu.Unlock()

	e.journalEvent(ev)
	e.plugins.EmitFeeUpdated(ctx, oldFee, newFee)
	return nil
}

// ──────────────────────────────────────────────────
// Governance operations
// ──────────────────────────────────────────────────

// StartVoting opens a new session. The caller must hold at least
// token.StakeStartBps of the total supply, and no unfinalized session may
// exist. Returns the new session id.
func (e *Engine) StartVoting(ctx context.Context, caller types.Address) (uint64, error) {
	if !caller.Valid() {
		return 0, fmt.Errorf("%w: caller address is not valid", ErrInvalidInput)
	}

	e.mu.Lock()
	now := e.clock()

	if e.session.Pending() {
		e.mu.Unlock()
		return 0, ErrSessionActive
	}
	if !token.MeetsStake(e.balanceOf(caller), e.totalSupply, token.StakeStartBps) {
		e.mu.Unlock()
		return 0, fmt.Errorf("%w: stake below start threshold", ErrUnauthorized)
	}

	sid := e.nextSessionID
	e.nextSessionID++
	e.session = vote.NewSession(sid, now, e.timeToVote)
	e.votes[sid] = make(map[types.Address]*vote.Record)

	snapshot := e.session.Clone()
	ev := event.NewVotingStarted(now, sid, caller)
	e.mu.Unlock()

	e.journalEvent(ev)
	e.plugins.EmitVotingStarted(ctx, snapshot)
	return sid, nil
}

// Vote records the caller's proposed price for the active session. The
// caller must hold at least token.StakeVoteBps of the total supply and may
// vote once per session. The vote's weight is the caller's balance at this
// moment; later balance changes do not alter it.
func (e *Engine) Vote(ctx context.Context, caller types.Address, proposedPrice types.Amount) error {
	if !caller.Valid() {
		return fmt.Errorf("%w: caller address is not valid", ErrInvalidInput)
	}
	if !proposedPrice.IsPositive() {
		return fmt.Errorf("%w: proposed price must be positive", ErrInvalidInput)
	}

	e.mu.Lock()
	now := e.clock()

	if !e.session.Open(now) {
		e.mu.Unlock()
		return ErrNoActiveSession
	}
	if !token.MeetsStake(e.balanceOf(caller), e.totalSupply, token.StakeVoteBps) {
		e.mu.Unlock()
		return fmt.Errorf("%w: stake below vote threshold", ErrUnauthorized)
	}

	sid := e.session.ID
	if _, voted := e.votes[sid][caller]; voted {
		e.mu.Unlock()
		return ErrAlreadyVoted
	}

	weight := e.balanceOf(caller)
	rec := vote.NewRecord(sid, caller, proposedPrice, weight, now)
	e.votes[sid][caller] = rec
	e.session.Accumulate(proposedPrice, weight)

	ev := event.NewVoted(now, sid, caller, proposedPrice, weight)
	e.mu.Unlock()

	e.journalEvent(ev)
	e.plugins.EmitVoteCast(ctx, rec)
	return nil
}

// EndVoting seals an expired session and publishes its stake-weighted
// average price. Any caller may end an expired session; the stake gates
// apply only to starting and voting. Returns the finalized price.
func (e *Engine) EndVoting(ctx context.Context, caller types.Address) (types.Amount, error) {
	if !caller.Valid() {
		return types.Amount{}, fmt.Errorf("%w: caller address is not valid", ErrInvalidInput)
	}

	e.mu.Lock()
	now := e.clock()

	if !e.session.Pending() {
		e.mu.Unlock()
		return types.Amount{}, ErrNoActiveSession
	}
	if now.Before(e.session.EndTime) {
		e.mu.Unlock()
		return types.Amount{}, ErrVotingPeriodNotElapsed
	}

	finalPrice := e.session.Finalize()
	e.finalPrice = finalPrice
	sid := e.session.ID
	snapshot := e.session.Clone()

	ev := event.NewVotingEnded(now, sid, finalPrice)
	e.mu.Unlock()

	if finalPrice.IsZero() {
		e.logger.Warn("session finalized with no votes; market price unset",
			"session_id", sid,
		)
	}

	e.journalEvent(ev)
	e.plugins.EmitVotingEnded(ctx, snapshot)
	return finalPrice, nil
}

// ──────────────────────────────────────────────────
// Market operations
// ──────────────────────────────────────────────────

// BuyToken converts native value into token units at the finalized price,
// net of the protocol fee. The net units are minted to the caller and the
// fee units to the system account; the native value joins the reserve.
func (e *Engine) BuyToken(ctx context.Context, caller types.Address, nativeValue types.Amount) (*market.Trade, error) {
	if !caller.Valid() {
		return nil, fmt.Errorf("%w: caller address is not valid", ErrInvalidInput)
	}
	if nativeValue.IsNegative() {
		return nil, fmt.Errorf("%w: native value must not be negative", ErrInvalidInput)
	}

	e.mu.Lock()
	now := e.clock()

	if e.session.Pending() {
		e.mu.Unlock()
		return nil, ErrVotingInProgress
	}
	if e.finalPrice.IsZero() {
		e.mu.Unlock()
		return nil, ErrPriceNotSet
	}
	if nativeValue.IsZero() {
		e.mu.Unlock()
		return nil, ErrZeroValue
	}

	price := e.finalPrice
	quote := market.BuyQuote(nativeValue, price, e.meta.Scale(), e.feeBps)

	e.credit(caller, quote.Net)
	e.credit(token.SystemAccount, quote.Fee)
	e.totalSupply = e.totalSupply.Add(quote.Gross)
	e.reserve = e.reserve.Add(nativeValue)

	trade := market.NewTrade(market.SideBuy, caller, price, quote, nativeValue, now)

	events := []*event.Event{
		event.NewTransfer(now, types.ZeroAddress, caller, quote.Net),
	}
	if quote.Fee.IsPositive() {
		events = append(events, event.NewTransfer(now, types.ZeroAddress, token.SystemAccount, quote.Fee))
	}
	events = append(events, event.NewBuy(now, caller, quote.Net, nativeValue, price))
	e.mu.Unlock()

	for _, ev := range events {
		e.journalEvent(ev)
		if ev.Kind == event.KindTransfer {
			e.plugins.EmitTransfer(ctx, ev)
		}
	}
	e.plugins.EmitTokensPurchased(ctx, trade)
	return trade, nil
}

// SellToken converts token units back into native value at the finalized
// price. The fee is skimmed in tokens to the system account, the net units
// are burned, and the native payout comes out of the reserve. The payout is
// attempted before any ledger mutation; failure surfaces as ErrPayoutFailed
// with zero state change.
func (e *Engine) SellToken(ctx context.Context, caller types.Address, amount types.Amount) (*market.Trade, error) {
	if !caller.Valid() {
		return nil, fmt.Errorf("%w: caller address is not valid", ErrInvalidInput)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: sell amount must not be negative", ErrInvalidInput)
	}

	e.mu.Lock()
	now := e.clock()

	if e.session.Pending() {
		e.mu.Unlock()
		return nil, ErrVotingInProgress
	}
	if e.finalPrice.IsZero() {
		e.mu.Unlock()
		return nil, ErrPriceNotSet
	}
	if e.balanceOf(caller).LessThan(amount) {
		e.mu.Unlock()
		return nil, ErrInsufficientBalance
	}

	price := e.finalPrice
	quote, nativeOut := market.SellQuote(amount, price, e.meta.Scale(), e.feeBps)

	if e.reserve.LessThan(nativeOut) {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: reserve below payout", ErrPayoutFailed)
	}
	if e.payout != nil && nativeOut.IsPositive() {
		if err := e.payout(ctx, caller, nativeOut); err != nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
		}
	}

	e.debit(caller, amount)
	e.credit(token.SystemAccount, quote.Fee)
	e.totalSupply = e.totalSupply.Sub(quote.Net)
	e.reserve = e.reserve.Sub(nativeOut)

	trade := market.NewTrade(market.SideSell, caller, price, quote, nativeOut, now)

	events := []*event.Event{
		event.NewTransfer(now, caller, types.ZeroAddress, quote.Net),
	}
	if quote.Fee.IsPositive() {
		events = append(events, event.NewTransfer(now, caller, token.SystemAccount, quote.Fee))
	}
	events = append(events, event.NewSell(now, caller, quote.Net, nativeOut, price))
	e.mu.Unlock()

	for _, ev := range events {
		e.journalEvent(ev)
		if ev.Kind == event.KindTransfer {
			e.plugins.EmitTransfer(ctx, ev)
		}
	}
	e.plugins.EmitTokensSold(ctx, trade)
	return trade, nil
}

// ──────────────────────────────────────────────────
// Read accessors
// ──────────────────────────────────────────────────

// Name returns the token name.
func (e *Engine) Name() string { return e.meta.Name }

// Symbol returns the token symbol.
func (e *Engine) Symbol() string { return e.meta.Symbol }

// Decimals returns the token's decimal precision.
func (e *Engine) Decimals() uint8 { return e.meta.Decimals }

// Admin returns the administrator address.
func (e *Engine) Admin() types.Address { return e.admin }

// TimeToVote returns the fixed session duration.
func (e *Engine) TimeToVote() time.Duration { return e.timeToVote }

// FeeBps returns the current protocol fee rate in basis points.
func (e *Engine) FeeBps() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.feeBps
}

// TotalSupply returns the current token supply.
func (e *Engine) TotalSupply() types.Amount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalSupply
}

// Reserve returns the native value held by the system.
func (e *Engine) Reserve() types.Amount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reserve
}

// BalanceOf returns the balance of an address.
func (e *Engine) BalanceOf(addr types.Address) types.Amount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.balanceOf(addr)
}

// Allowance returns the remaining spend authorization of spender over
// owner's balance.
func (e *Engine) Allowance(owner, spender types.Address) types.Amount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.allowanceOf(owner, spender)
}

// CurrentSessionID returns the id of the most recent session, zero if no
// session has ever started.
func (e *Engine) CurrentSessionID() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.session == nil {
		return 0
	}
	return e.session.ID
}

// Session returns a copy of the most recent session, nil if none exists.
func (e *Engine) Session() *vote.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.Clone()
}

// SessionStatus returns the governance status at the current time.
func (e *Engine) SessionStatus() vote.Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.Status(e.clock())
}

// VoteOf returns the vote record of an address in a session, or ErrNotFound.
func (e *Engine) VoteOf(sessionID uint64, voter types.Address) (*vote.Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, ok := e.votes[sessionID][voter]
	if !ok {
		return nil, ErrNotFound
	}
	c := *rec
	return &c, nil
}

// FinalPrice returns the governance-finalized price. A zero value means no
// usable price has been published.
func (e *Engine) FinalPrice() types.Amount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.finalPrice
}

// ──────────────────────────────────────────────────
// Internal ledger helpers (callers hold e.mu)
// ──────────────────────────────────────────────────

func (e *Engine) balanceOf(addr types.Address) types.Amount {
	return e.balances[addr]
}

func (e *Engine) allowanceOf(owner, spender types.Address) types.Amount {
	return e.allowances[owner][spender]
}

func (e *Engine) credit(addr types.Address, amount types.Amount) {
	if amount.IsZero() {
		if _, ok := e.balances[addr]; !ok {
			return
		}
	}
	e.balances[addr] = e.balances[addr].Add(amount)
}

func (e *Engine) debit(addr types.Address, amount types.Amount) {
	next := e.balances[addr].Sub(amount)
	if next.IsZero() {
		delete(e.balances, addr)
		return
	}
	e.balances[addr] = next
}

// ──────────────────────────────────────────────────
// Journal worker
// ──────────────────────────────────────────────────

// journalEvent enqueues an event for persistence. The journal is
// best-effort: a full buffer drops the event with a warning rather than
// blocking a committed operation.
func (e *Engine) journalEvent(ev *event.Event) {
	select {
	case e.journal <- ev:
	default:
		e.mu.Lock()
		e.dropped++
		n := e.dropped
		e.mu.Unlock()
		e.logger.Warn("journal buffer full, event dropped",
			"kind", ev.Kind,
			"dropped_total", n,
		)
	}
}

// journalFlushWorker flushes journal events to the store in batches.
func (e *Engine) journalFlushWorker(ctx context.Context) {
	defer e.wg.Done()

	batch := make([]*event.Event, 0, e.journalBatchSize)
	ticker := time.NewTicker(e.journalFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopChan:
			// Drain whatever is still buffered, then final flush.
			for {
				select {
				case ev := <-e.journal:
					batch = append(batch, ev)
					continue
				default:
				}
				break
			}
			if len(batch) > 0 {
				e.flushJournalBatch(ctx, batch)
			}
			return

		case ev := <-e.journal:
			batch = append(batch, ev)
			if len(batch) >= e.journalBatchSize {
				e.flushJournalBatch(ctx, batch)
				batch = make([]*event.Event, 0, e.journalBatchSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				e.flushJournalBatch(ctx, batch)
				batch = make([]*event.Event, 0, e.journalBatchSize)
			}
		}
	}
}

func (e *Engine) flushJournalBatch(ctx context.Context, batch []*event.Event) {
	start := time.Now()

	if err := e.store.AppendEvents(ctx, batch); err != nil {
		e.logger.Error("failed to flush journal batch",
			"error", err,
			"batch_size", len(batch),
		)
		return
	}

	elapsed := time.Since(start)
	e.plugins.EmitEventsFlushed(ctx, len(batch), elapsed)

	e.logger.Debug("flushed journal batch",
		"batch_size", len(batch),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Snapshots
// ──────────────────────────────────────────────────

// snapshotWorker periodically persists full-state snapshots.
func (e *Engine) snapshotWorker(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			if err := e.SaveSnapshot(ctx); err != nil {
				e.logger.Error("periodic snapshot failed", "error", err)
			}
		}
	}
}

// Snapshot builds a deep copy of the complete engine state.
func (e *Engine) Snapshot() *store.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := store.NewSnapshot(e.clock())
	snap.Meta = e.meta
	snap.Admin = e.admin
	snap.FeeBps = e.feeBps
	snap.TimeToVote = e.timeToVote
	snap.TotalSupply = e.totalSupply
	snap.Reserve = e.reserve
	snap.Session = e.session.Clone()
	snap.FinalPrice = e.finalPrice
	snap.NextSessionID = e.nextSessionID

	for addr, bal := range e.balances {
		snap.Balances[addr] = bal
	}
	for owner, spenders := range e.allowances {
		inner := make(map[types.Address]types.Amount, len(spenders))
		for spender, amount := range spenders {
			inner[spender] = amount
		}
		snap.Allowances[owner] = inner
	}
	for sid, records := range e.votes {
		list := make([]*vote.Record, 0, len(records))
		for _, rec := range records {
			c := *rec
			list = append(list, &c)
		}
		snap.Votes[sid] = list
	}

	return snap
}

// SaveSnapshot persists a snapshot of the current state.
func (e *Engine) SaveSnapshot(ctx context.Context) error {
	snap := e.Snapshot()
	if err := e.store.SaveSnapshot(ctx, snap); err != nil {
		return err
	}
	e.plugins.EmitSnapshotSaved(ctx, snap)
	return nil
}

// restore replaces the engine state with a snapshot's contents.
func (e *Engine) restore(snap *store.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidInput)
	}
	if snap.NextSessionID == 0 {
		return fmt.Errorf("%w: snapshot next session id must be positive", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.meta = snap.Meta
	e.admin = snap.Admin
	e.feeBps = snap.FeeBps
	e.timeToVote = snap.TimeToVote
	e.totalSupply = snap.TotalSupply
	e.reserve = snap.Reserve
	e.session = snap.Session.Clone()
	e.finalPrice = snap.FinalPrice
	e.nextSessionID = snap.NextSessionID

	e.balances = make(map[types.Address]types.Amount, len(snap.Balances))
	for addr, bal := range snap.Balances {
		e.balances[addr] = bal
	}

	e.allowances = make(map[types.Address]map[types.Address]types.Amount, len(snap.Allowances))
	for owner, spenders := range snap.Allowances {
		inner := make(map[types.Address]types.Amount, len(spenders))
		for spender, amount := range spenders {
			inner[spender] = amount
		}
		e.allowances[owner] = inner
	}

	e.votes = make(map[uint64]map[types.Address]*vote.Record, len(snap.Votes))
	for sid, list := range snap.Votes {
		records := make(map[types.Address]*vote.Record, len(list))
		for _, rec := range list {
			c := *rec
			records[rec.Voter] = &c
		}
		e.votes[sid] = records
	}

	return nil
}
