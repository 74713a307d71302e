// Package token defines the token metadata, genesis parameters, and the
// basis-point arithmetic shared by the fee and stake gates.
package token

import (
	"fmt"
	"time"

	"github.com/xraph/memtoken/types"
)

// Basis-point constants. All rate parameters are expressed in basis points
// over BpsDenominator.
const (
	// BpsDenominator is the basis-point scale (10000 = 100%).
	BpsDenominator uint32 = 10000

	// MaxFeeBps caps the protocol fee at 100%.
	MaxFeeBps uint32 = 10000

	// StakeStartBps is the share of total supply (0.1%) a caller must hold
	// to open a voting session.
	StakeStartBps uint32 = 10

	// StakeVoteBps is the share of total supply (0.05%) a caller must hold
	// to cast a vote.
	StakeVoteBps uint32 = 5
)

// SystemAccount is the ledger's own account. Protocol fees accrue here as
// ordinary balance, not through a special-cased treasury type.
const SystemAccount = types.Address("memtoken:system")

// Meta holds the immutable descriptive fields of the token. Set once at
// genesis, never mutated.
type Meta struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Scale returns 10^decimals, the number of smallest units per whole token.
func (m Meta) Scale() types.Amount {
	return types.Pow10(int(m.Decimals))
}

// Params are the genesis parameters of a ledger instance.
type Params struct {
	Meta

	// Admin is the single administrator and deployer. The initial supply is
	// credited here, and only this address may change the fee rate.
	Admin types.Address `json:"admin"`

	// InitialSupply is credited to Admin at genesis.
	InitialSupply types.Amount `json:"initial_supply"`

	// TimeToVote is the fixed duration of every voting session.
	TimeToVote time.Duration `json:"time_to_vote"`

	// FeeBps is the protocol fee rate applied by the market, in basis
	// points over BpsDenominator.
	FeeBps uint32 `json:"fee_bps"`
}

// Validate checks the genesis parameters.
func (p Params) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("token: name must not be empty")
	}
	if p.Symbol == "" {
		return fmt.Errorf("token: symbol must not be empty")
	}
	if !p.Admin.Valid() {
		return fmt.Errorf("token: admin address %q is not valid", p.Admin)
	}
	if p.Admin == SystemAccount {
		return fmt.Errorf("token: admin must not be the system account")
	}
	if p.InitialSupply.IsNegative() {
		return fmt.Errorf("token: initial supply must not be negative")
	}
	if p.TimeToVote <= 0 {
		return fmt.Errorf("token: time to vote must be positive")
	}
	if p.FeeBps > MaxFeeBps {
		return fmt.Errorf("token: fee %d bps exceeds maximum %d", p.FeeBps, MaxFeeBps)
	}
	return nil
}

// FeeOn returns the fee portion of amount at the given rate, truncated:
// amount * feeBps / BpsDenominator.
func FeeOn(amount types.Amount, feeBps uint32) types.Amount {
	return amount.MulDiv(types.NewAmount(int64(feeBps)), types.NewAmount(int64(BpsDenominator)))
}

// StakeThreshold returns the minimum balance implied by a stake gate:
// supply * bps / BpsDenominator.
func StakeThreshold(supply types.Amount, bps uint32) types.Amount {
	return supply.MulDiv(types.NewAmount(int64(bps)), types.NewAmount(int64(BpsDenominator)))
}

// MeetsStake reports whether balance clears the stake gate for the given
// supply and basis-point threshold.
func MeetsStake(balance, supply types.Amount, bps uint32) bool {
	return !balance.LessThan(StakeThreshold(supply, bps))
}
