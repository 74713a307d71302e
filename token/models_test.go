package token

import (
	"testing"
	"time"

	"github.com/xraph/memtoken/types"
)

func validParams() Params {
	return Params{
		Meta: Meta{
			Name:     "Meme Token",
			Symbol:   "MEME",
			Decimals: 18,
		},
		Admin:         types.Address("acct:admin"),
		InitialSupply: types.Units(1000000, 18),
		TimeToVote:    time.Minute,
		FeeBps:        300,
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"valid", func(p *Params) {}, false},
		{"zero supply is valid", func(p *Params) { p.InitialSupply = types.NewAmount(0) }, false},
		{"max fee is valid", func(p *Params) { p.FeeBps = 10000 }, false},
		{"empty name", func(p *Params) { p.Name = "" }, true},
		{"empty symbol", func(p *Params) { p.Symbol = "" }, true},
		{"invalid admin", func(p *Params) { p.Admin = "" }, true},
		{"admin is system account", func(p *Params) { p.Admin = SystemAccount }, true},
		{"negative supply", func(p *Params) { p.InitialSupply = types.NewAmount(-1) }, true},
		{"zero voting window", func(p *Params) { p.TimeToVote = 0 }, true},
		{"negative voting window", func(p *Params) { p.TimeToVote = -time.Second }, true},
		{"fee above maximum", func(p *Params) { p.FeeBps = 10001 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMetaScale(t *testing.T) {
	tests := []struct {
		decimals uint8
		want     string
	}{
		{0, "1"},
		{2, "100"},
		{18, "1000000000000000000"},
	}

	for _, tt := range tests {
		m := Meta{Name: "T", Symbol: "T", Decimals: tt.decimals}
		if got := m.Scale(); got.String() != tt.want {
			t.Errorf("Scale(%d): got %s, want %s", tt.decimals, got, tt.want)
		}
	}
}

func TestFeeOn(t *testing.T) {
	tests := []struct {
		name   string
		amount types.Amount
		bps    uint32
		want   string
	}{
		{"three percent", types.MustAmount("10000000000000000000000"), 300, "300000000000000000000"},
		{"zero fee", types.NewAmount(1000), 0, "0"},
		{"full fee", types.NewAmount(1000), 10000, "1000"},
		{"truncates dust", types.NewAmount(33), 300, "0"},
		{"one bp", types.NewAmount(10000), 1, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FeeOn(tt.amount, tt.bps); got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStakeThreshold(t *testing.T) {
	supply := types.Units(1000000, 18)

	// 0.1% of one million whole tokens is one thousand whole tokens.
	if got, want := StakeThreshold(supply, StakeStartBps), types.Units(1000, 18); !got.Equal(want) {
		t.Errorf("start threshold: got %s, want %s", got, want)
	}
	// 0.05% is five hundred.
	if got, want := StakeThreshold(supply, StakeVoteBps), types.Units(500, 18); !got.Equal(want) {
		t.Errorf("vote threshold: got %s, want %s", got, want)
	}
}

func TestMeetsStake(t *testing.T) {
	supply := types.Units(1000000, 18)
	threshold := types.Units(1000, 18)

	tests := []struct {
		name    string
		balance types.Amount
		want    bool
	}{
		{"exactly at threshold", threshold, true},
		{"above threshold", threshold.Add(types.NewAmount(1)), true},
		{"one unit below", threshold.Sub(types.NewAmount(1)), false},
		{"zero balance", types.NewAmount(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeetsStake(tt.balance, supply, StakeStartBps); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeetsStakeZeroSupply(t *testing.T) {
	// With zero supply the threshold is zero, so any balance qualifies.
	if !MeetsStake(types.NewAmount(0), types.NewAmount(0), StakeStartBps) {
		t.Error("zero balance should meet a zero threshold")
	}
}
