package memtoken

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios. Every failure leaves the
// engine state unchanged; retry, if desired, is the caller's responsibility.
var (
	// General errors
	ErrNotFound     = errors.New("memtoken: not found")
	ErrInvalidInput = errors.New("memtoken: invalid input")
	ErrUnauthorized = errors.New("memtoken: unauthorized")

	// Ledger errors
	ErrInsufficientBalance   = errors.New("memtoken: insufficient balance")
	ErrInsufficientAllowance = errors.New("memtoken: insufficient allowance")

	// Fee control errors
	ErrFeeTooHigh = errors.New("memtoken: fee exceeds maximum")

	// Governance errors
	ErrSessionActive          = errors.New("memtoken: voting session already active")
	ErrNoActiveSession        = errors.New("memtoken: no active voting session")
	ErrAlreadyVoted           = errors.New("memtoken: already voted in this session")
	ErrVotingPeriodNotElapsed = errors.New("memtoken: voting period not elapsed")

	// Market errors
	ErrVotingInProgress = errors.New("memtoken: voting in progress")
	ErrPriceNotSet      = errors.New("memtoken: price not set")
	ErrZeroValue        = errors.New("memtoken: zero value")
	ErrPayoutFailed     = errors.New("memtoken: native payout failed")

	// Engine/store errors
	ErrEngineClosed = errors.New("memtoken: engine is closed")
	ErrStoreClosed  = errors.New("memtoken: store is closed")
	ErrJournalFull  = errors.New("memtoken: event journal buffer full")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("memtoken: validation failed for %s: %s", e.Field, e.Message)
}

// IsAuthorizationError returns true if the error is a role or stake gate
// failure.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsFundsError returns true if the error reflects insufficient balance,
// allowance, or reserve.
func IsFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientAllowance) ||
		errors.Is(err, ErrPayoutFailed)
}

// IsSessionError returns true if the error is a governance lifecycle
// violation.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrSessionActive) ||
		errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrAlreadyVoted) ||
		errors.Is(err, ErrVotingPeriodNotElapsed) ||
		errors.Is(err, ErrVotingInProgress)
}

// IsRetryable returns true if the error is temporary and the operation can
// be retried as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrJournalFull) ||
		errors.Is(err, ErrVotingInProgress) ||
		errors.Is(err, ErrVotingPeriodNotElapsed)
}
