// Package market holds the pure price/fee arithmetic for buy and sell
// operations and the trade receipt model. It owns no persisted state of its
// own; the finalized price is governance output and the balances live in
// the engine's ledger.
package market

import (
	"time"

	"github.com/xraph/memtoken/id"
	"github.com/xraph/memtoken/token"
	"github.com/xraph/memtoken/types"
)

// Side distinguishes buy and sell trades.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Quote is the token-unit breakdown of a trade: gross units priced, the
// protocol fee skimmed, and the net units the trader keeps or gives up.
// Gross == Fee + Net always.
type Quote struct {
	Gross types.Amount `json:"gross"`
	Fee   types.Amount `json:"fee"`
	Net   types.Amount `json:"net"`
}

// BuyQuote prices a purchase: native value in, token units out. Price is
// native units per whole token; scale is 10^decimals. The fee is skimmed
// from the gross token amount, truncated. Price must be positive; the
// engine gates on a finalized nonzero price before quoting.
func BuyQuote(native, price, scale types.Amount, feeBps uint32) Quote {
	gross := native.MulDiv(scale, price)
	fee := token.FeeOn(gross, feeBps)
	return Quote{
		Gross: gross,
		Fee:   fee,
		Net:   gross.Sub(fee),
	}
}

// SellQuote prices a sale of token units. The fee is skimmed in tokens
// before conversion; the returned native payout covers only the net units.
// Price must be positive.
func SellQuote(amount, price, scale types.Amount, feeBps uint32) (Quote, types.Amount) {
	fee := token.FeeOn(amount, feeBps)
	net := amount.Sub(fee)
	nativeOut := net.MulDiv(price, scale)
	return Quote{
		Gross: amount,
		Fee:   fee,
		Net:   net,
	}, nativeOut
}

// Trade is the receipt for one executed market operation.
type Trade struct {
	ID     id.ID         `json:"id"`
	Side   Side          `json:"side"`
	Trader types.Address `json:"trader"`

	// Price is the governance-finalized price the trade executed at.
	Price types.Amount `json:"price"`
	Quote

	// Native is the native value received by the system (buy) or paid out
	// to the trader (sell).
	Native types.Amount `json:"native"`

	ExecutedAt time.Time `json:"executed_at"`
}

// NewTrade builds a receipt for an executed trade.
func NewTrade(side Side, trader types.Address, price types.Amount, q Quote, native types.Amount, now time.Time) *Trade {
	return &Trade{
		ID:         id.NewTradeID(),
		Side:       side,
		Trader:     trader,
		Price:      price,
		Quote:      q,
		Native:     native,
		ExecutedAt: now,
	}
}
