package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenAmount holds a raw on-chain integer amount together with the token's
// decimal count. Raw values stay as strings so 256-bit amounts never lose
// precision on the way through.
type TokenAmount struct {
	Value   string `json:"value"`
	Decimal int    `json:"decimal"`
}

// ToDecimal converts the raw amount to its human representation, e.g.
// {"1500000", 6} -> 1.5. Unparseable values convert to zero.
func (t *TokenAmount) ToDecimal() decimal.Decimal {
	raw, ok := new(big.Int).SetString(t.Value, 10)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(t.Decimal))
}

func (t *TokenAmount) IsZero() bool {
	raw, ok := new(big.Int).SetString(t.Value, 10)
	if !ok {
		return true
	}
	return raw.Sign() == 0
}

func (t *TokenAmount) Add(other *TokenAmount) *TokenAmount {
	a := new(big.Int)
	a.SetString(t.Value, 10)

	b := new(big.Int)
	b.SetString(other.Value, 10)

	result := new(big.Int)
	result.Add(a, b)

	return &TokenAmount{
		Value:   result.String(),
		Decimal: t.Decimal,
	}
}

func (t *TokenAmount) Sub(other *TokenAmount) *TokenAmount {
	a := new(big.Int)
	a.SetString(t.Value, 10)

	b := new(big.Int)
	b.SetString(other.Value, 10)

	result := new(big.Int)
	result.Sub(a, b)

	return &TokenAmount{
		Value:   result.String(),
		Decimal: t.Decimal,
	}
}

// FromDecimal converts a human amount back to a raw integer amount with the
// given decimal count, truncating anything below the smallest unit.
func FromDecimal(amount decimal.Decimal, decimals int) *TokenAmount {
	raw := amount.Shift(int32(decimals)).Truncate(0)
	return &TokenAmount{
		Value:   raw.BigInt().String(),
		Decimal: decimals,
	}
}

// ZeroTokenAmount is what chain clients return when a balance or transfer
// lookup fails: callers must never mistake a read failure for a deposit.
func ZeroTokenAmount(decimals int) *TokenAmount {
	return &TokenAmount{Value: "0", Decimal: decimals}
}
