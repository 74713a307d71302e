package escrow

import "errors"

var (
	// ErrInvalidInput indicates a malformed address or amount.
	ErrInvalidInput = errors.New("escrow: invalid input")

	// ErrRoomOccupied is returned when booking an already occupied room.
	ErrRoomOccupied = errors.New("escrow: room occupied")

	// ErrBelowMinimum is returned when the booking value is under the
	// room's minimum.
	ErrBelowMinimum = errors.New("escrow: value below minimum")

	// ErrPayoutFailed is returned when forwarding value to the owner
	// fails; the room stays vacant.
	ErrPayoutFailed = errors.New("escrow: payout failed")
)
