package types

import "strings"

// Address identifies an account in the ledger. The engine treats addresses
// as opaque case-sensitive strings; callers decide the naming scheme
// (hex-encoded keys, user ids, service names).
type Address string

// ZeroAddress is the empty account. Mint and burn transfers use it as the
// counterparty, and it can never hold a balance.
const ZeroAddress Address = ""

// IsZero reports whether the address is the zero account.
func (a Address) IsZero() bool { return a == ZeroAddress }

// String returns the address string.
func (a Address) String() string { return string(a) }

// Valid reports whether the address can own a balance: non-empty and free
// of surrounding whitespace.
func (a Address) Valid() bool {
	if a.IsZero() {
		return false
	}
	return strings.TrimSpace(string(a)) == string(a)
}
