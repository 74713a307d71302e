package escrow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/memtoken/types"
)

const (
	owner = types.Address("acct:owner")
	guest = types.Address("acct:guest")
	other = types.Address("acct:other")
)

func TestNewRoom(t *testing.T) {
	r, err := NewRoom(owner)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}

	if r.Owner() != owner {
		t.Errorf("owner: got %s, want %s", r.Owner(), owner)
	}
	if !r.Minimum().Equal(DefaultMinimum) {
		t.Errorf("minimum: got %s, want %s", r.Minimum(), DefaultMinimum)
	}
	if r.Occupied() {
		t.Error("new room should be vacant")
	}
	if !r.Guest().IsZero() {
		t.Errorf("vacant room guest: got %s, want zero", r.Guest())
	}

	if _, err := NewRoom(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("invalid owner: got %v, want ErrInvalidInput", err)
	}
}

func TestBookForwardsFullValueToOwner(t *testing.T) {
	var paidTo types.Address
	var paidValue types.Amount

	r, err := NewRoom(owner, WithPayout(func(_ context.Context, to types.Address, value types.Amount) error {
		paidTo = to
		paidValue = value
		return nil
	}))
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}

	// Overpayment is kept by the owner, not refunded.
	value := types.Units(3, NativeDecimals)
	if err := r.Book(context.Background(), guest, value); err != nil {
		t.Fatalf("Book: %v", err)
	}

	if paidTo != owner {
		t.Errorf("payout recipient: got %s, want %s", paidTo, owner)
	}
	if !paidValue.Equal(value) {
		t.Errorf("payout value: got %s, want %s", paidValue, value)
	}
	if !r.Occupied() {
		t.Error("room should be occupied after booking")
	}
	if r.Guest() != guest {
		t.Errorf("guest: got %s, want %s", r.Guest(), guest)
	}
}

func TestBookRejectsValueBelowMinimum(t *testing.T) {
	r, err := NewRoom(owner)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}

	// 1.99 native units against a 2 unit minimum.
	low := types.MustAmount("1990000000000000000")
	if err := r.Book(context.Background(), guest, low); !errors.Is(err, ErrBelowMinimum) {
		t.Errorf("got %v, want ErrBelowMinimum", err)
	}
	if r.Occupied() {
		t.Error("room should stay vacant after rejected booking")
	}

	// Exactly the minimum books.
	if err := r.Book(context.Background(), guest, DefaultMinimum); err != nil {
		t.Errorf("Book at minimum: %v", err)
	}
}

func TestBookRejectsSecondGuest(t *testing.T) {
	r, err := NewRoom(owner)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	ctx := context.Background()

	if err := r.Book(ctx, guest, DefaultMinimum); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := r.Book(ctx, other, DefaultMinimum); !errors.Is(err, ErrRoomOccupied) {
		t.Errorf("second booking: got %v, want ErrRoomOccupied", err)
	}
	if r.Guest() != guest {
		t.Errorf("guest: got %s, want original guest %s", r.Guest(), guest)
	}
}

func TestBookPayoutFailureLeavesRoomVacant(t *testing.T) {
	r, err := NewRoom(owner, WithPayout(func(context.Context, types.Address, types.Amount) error {
		return errors.New("transfer bounced")
	}))
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}

	if err := r.Book(context.Background(), guest, DefaultMinimum); !errors.Is(err, ErrPayoutFailed) {
		t.Errorf("got %v, want ErrPayoutFailed", err)
	}
	if r.Occupied() {
		t.Error("room should stay vacant after payout failure")
	}
}

func TestBookNotifiesOccupancy(t *testing.T) {
	var gotGuest types.Address
	var gotValue types.Amount

	r, err := NewRoom(owner, WithOccupyNotify(func(_ context.Context, g types.Address, v types.Amount) {
		gotGuest = g
		gotValue = v
	}))
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}

	value := types.Units(2, NativeDecimals)
	if err := r.Book(context.Background(), guest, value); err != nil {
		t.Fatalf("Book: %v", err)
	}

	if gotGuest != guest {
		t.Errorf("notified guest: got %s, want %s", gotGuest, guest)
	}
	if !gotValue.Equal(value) {
		t.Errorf("notified value: got %s, want %s", gotValue, value)
	}
}

func TestBookRecordsTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r, err := NewRoom(owner,
		WithClock(func() time.Time { return now }),
		WithMinimum(types.NewAmount(10)),
	)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}

	if err := r.Book(context.Background(), guest, types.NewAmount(10)); err != nil {
		t.Fatalf("Book: %v", err)
	}
	if !r.BookedAt().Equal(now) {
		t.Errorf("booked at: got %s, want %s", r.BookedAt(), now)
	}
}
