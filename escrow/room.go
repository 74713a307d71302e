// Package escrow provides a single-occupant booking escrow: one party owns
// the room, any other party may book it by sending native value at or above
// the minimum, and the full value is forwarded to the owner. Once occupied
// the room stays occupied.
package escrow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/memtoken/types"
)

// NativeDecimals is the precision of native value amounts.
const NativeDecimals = 18

// DefaultMinimum is the smallest booking value accepted, two whole native
// units.
var DefaultMinimum = types.Units(2, NativeDecimals)

// PayoutFunc delivers native value to the owner. A non-nil error aborts the
// booking with ErrPayoutFailed and the room stays vacant.
type PayoutFunc func(ctx context.Context, to types.Address, native types.Amount) error

// OccupyFunc is notified after a successful booking with the guest and the
// value they sent.
type OccupyFunc func(ctx context.Context, guest types.Address, value types.Amount)

// Room is a single-occupant escrow. All methods are safe for concurrent use.
type Room struct {
	mu sync.RWMutex

	owner   types.Address
	minimum types.Amount

	occupied bool
	guest    types.Address
	bookedAt time.Time

	payout PayoutFunc
	notify OccupyFunc
	logger *slog.Logger
	clock  func() time.Time
}

// Option configures a Room.
type Option func(*Room)

// WithMinimum overrides the minimum booking value.
func WithMinimum(minimum types.Amount) Option {
	return func(r *Room) {
		r.minimum = minimum
	}
}

// WithPayout sets the callback that forwards booking value to the owner.
func WithPayout(fn PayoutFunc) Option {
	return func(r *Room) {
		r.payout = fn
	}
}

// WithOccupyNotify sets the callback invoked after a successful booking.
func WithOccupyNotify(fn OccupyFunc) Option {
	return func(r *Room) {
		r.notify = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Room) {
		r.logger = logger
	}
}

// WithClock substitutes the current-time source.
func WithClock(clock func() time.Time) Option {
	return func(r *Room) {
		r.clock = clock
	}
}

// NewRoom creates a vacant room owned by owner.
func NewRoom(owner types.Address, opts ...Option) (*Room, error) {
	if !owner.Valid() {
		return nil, fmt.Errorf("%w: owner address is not valid", ErrInvalidInput)
	}

	r := &Room{
		owner:   owner,
		minimum: DefaultMinimum,
		logger:  slog.Default(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Book occupies the room for caller, forwarding the full value to the
// owner. The value must meet the minimum and the room must be vacant.
func (r *Room) Book(ctx context.Context, caller types.Address, value types.Amount) error {
	if !caller.Valid() {
		return fmt.Errorf("%w: caller address is not valid", ErrInvalidInput)
	}

	r.mu.Lock()

	if r.occupied {
		r.mu.Unlock()
		return ErrRoomOccupied
	}
	if value.LessThan(r.minimum) {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s < %s", ErrBelowMinimum, value, r.minimum)
	}

	// The owner is paid before the room flips to occupied; payout failure
	// leaves the room bookable.
	if r.payout != nil {
		if err := r.payout(ctx, r.owner, value); err != nil {
			r.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrPayoutFailed, err)
		}
	}

	now := r.clock()
	r.occupied = true
	r.guest = caller
	r.bookedAt = now
	notify := r.notify
	r.mu.Unlock()

	r.logger.Info("room booked",
		"guest", caller,
		"value", value,
		"owner", r.owner,
	)

	if notify != nil {
		notify(ctx, caller, value)
	}
	return nil
}

// Owner returns the room's owner.
func (r *Room) Owner() types.Address { return r.owner }

// Minimum returns the smallest accepted booking value.
func (r *Room) Minimum() types.Amount { return r.minimum }

// Occupied reports whether the room has been booked.
func (r *Room) Occupied() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.occupied
}

// Guest returns the occupying guest, zero address while vacant.
func (r *Room) Guest() types.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.guest
}

// BookedAt returns the booking time, zero while vacant.
func (r *Room) BookedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bookedAt
}
