package memtoken

import "github.com/xraph/memtoken/types"

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Address is re-exported from types package.
type Address = types.Address

// ZeroAddress is re-exported from types package.
const ZeroAddress = types.ZeroAddress

// Re-export Amount constructors
var (
	NewAmount     = types.NewAmount
	AmountFromBig = types.AmountFromBig
	ParseAmount   = types.ParseAmount
	MustAmount    = types.MustAmount
	Pow10         = types.Pow10
	Units         = types.Units
	Sum           = types.Sum
)
