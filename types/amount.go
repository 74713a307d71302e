// Package types provides common types used across MemToken.
package types

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// Amount represents a quantity of token units or native value in the
// smallest unit. All arithmetic is integer-only; no floating point.
// Quantities routinely exceed int64 (a 18-decimals token holds 1e18 units
// per whole token), so Amount is backed by a big integer.
//
// The zero value is a valid zero Amount. Operations never mutate their
// receiver; every result is a fresh value.
type Amount struct {
	i *big.Int
}

// NewAmount creates an Amount from an int64.
func NewAmount(v int64) Amount {
	return Amount{i: big.NewInt(v)}
}

// AmountFromBig creates an Amount from a big.Int. The input is copied.
func AmountFromBig(v *big.Int) Amount {
	if v == nil {
		return Amount{}
	}
	return Amount{i: new(big.Int).Set(v)}
}

// ParseAmount parses a base-10 integer string into an Amount.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, fmt.Errorf("amount: parse %q: empty string", s)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("amount: parse %q: not a base-10 integer", s)
	}
	return Amount{i: v}, nil
}

// MustAmount is like ParseAmount but panics on error. Use for hardcoded values.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err.Error())
	}
	return a
}

// Pow10 returns 10^exp as an Amount. It panics on negative exponents.
func Pow10(exp int) Amount {
	if exp < 0 {
		panic("amount: negative exponent")
	}
	return Amount{i: new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)}
}

// Units returns whole * 10^decimals, the smallest-unit representation of a
// whole-token quantity.
func Units(whole int64, decimals uint8) Amount {
	return NewAmount(whole).Mul(Pow10(int(decimals)))
}

// big returns the backing integer, treating the zero value as 0.
func (a Amount) big() *big.Int {
	if a.i == nil {
		return new(big.Int)
	}
	return a.i
}

// Arithmetic operations

// Add returns a + other.
func (a Amount) Add(other Amount) Amount {
	return Amount{i: new(big.Int).Add(a.big(), other.big())}
}

// Sub returns a - other.
func (a Amount) Sub(other Amount) Amount {
	return Amount{i: new(big.Int).Sub(a.big(), other.big())}
}

// Mul returns a * other.
func (a Amount) Mul(other Amount) Amount {
	return Amount{i: new(big.Int).Mul(a.big(), other.big())}
}

// MulInt64 returns a * v.
func (a Amount) MulInt64(v int64) Amount {
	return Amount{i: new(big.Int).Mul(a.big(), big.NewInt(v))}
}

// Div returns a / other, truncated toward zero. Panics on division by zero.
func (a Amount) Div(other Amount) Amount {
	if other.IsZero() {
		panic("amount: division by zero")
	}
	return Amount{i: new(big.Int).Quo(a.big(), other.big())}
}

// MulDiv returns a * mul / div at full intermediate precision, truncated.
// Panics on division by zero.
func (a Amount) MulDiv(mul, div Amount) Amount {
	if div.IsZero() {
		panic("amount: division by zero")
	}
	p := new(big.Int).Mul(a.big(), mul.big())
	return Amount{i: p.Quo(p, div.big())}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{i: new(big.Int).Neg(a.big())}
}

// Comparison methods

// Cmp compares a and other: -1 if a < other, 0 if equal, +1 if a > other.
func (a Amount) Cmp(other Amount) int { return a.big().Cmp(other.big()) }

// Sign returns -1, 0, or +1 for negative, zero, or positive amounts.
func (a Amount) Sign() int { return a.big().Sign() }

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a.Sign() == 0 }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a.Sign() > 0 }

// IsNegative returns true if the amount is less than zero.
func (a Amount) IsNegative() bool { return a.Sign() < 0 }

// Equal returns true if both amounts are numerically equal.
func (a Amount) Equal(other Amount) bool { return a.Cmp(other) == 0 }

// LessThan returns true if a < other.
func (a Amount) LessThan(other Amount) bool { return a.Cmp(other) < 0 }

// GreaterThan returns true if a > other.
func (a Amount) GreaterThan(other Amount) bool { return a.Cmp(other) > 0 }

// Min returns the smaller of two amounts.
func (a Amount) Min(other Amount) Amount {
	if a.Cmp(other) < 0 {
		return a
	}
	return other
}

// Max returns the larger of two amounts.
func (a Amount) Max(other Amount) Amount {
	if a.Cmp(other) > 0 {
		return a
	}
	return other
}

// BigInt returns a copy of the backing integer.
func (a Amount) BigInt() *big.Int { return new(big.Int).Set(a.big()) }

// Int64 returns the amount as an int64 and whether the conversion was exact.
func (a Amount) Int64() (int64, bool) {
	b := a.big()
	return b.Int64(), b.IsInt64()
}

// Formatting methods

// String returns the base-10 smallest-unit representation.
func (a Amount) String() string { return a.big().String() }

// FormatUnits renders the amount in whole-token units with the given decimal
// precision: Units(15, 1).FormatUnits(1) == "1.5" at decimals=1.
func (a Amount) FormatUnits(decimals uint8) string {
	b := a.big()
	if decimals == 0 {
		return b.String()
	}

	neg := b.Sign() < 0
	abs := new(big.Int).Abs(b)
	scale := Pow10(int(decimals)).big()
	whole, frac := new(big.Int).QuoRem(abs, scale, new(big.Int))

	result := fmt.Sprintf("%s.%0*s", whole.String(), int(decimals), frac.String())
	if neg {
		return "-" + result
	}
	return result
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*a = Amount{}
		return nil
	}
	parsed, err := ParseAmount(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. Amounts serialize as base-10
// strings since they overflow JSON numbers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. Accepts both string and
// number forms.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*a = Amount{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return a.UnmarshalText([]byte(s))
}

// Value implements driver.Valuer for database storage (TEXT column).
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Amount{}
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	case int64:
		*a = NewAmount(v)
		return nil
	default:
		return fmt.Errorf("amount: cannot scan %T into Amount", src)
	}
}

// Sum calculates the sum of multiple amounts.
func Sum(values ...Amount) Amount {
	result := Amount{}
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
