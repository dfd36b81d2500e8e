package asset

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// CanonicalDecimals is the precision backing amounts are recorded in,
// whatever the reserve asset uses natively.
const CanonicalDecimals = 18

// Rescale moves amount from one fraction-digit precision to another.
// Digits lost when narrowing are truncated, so the result never exceeds
// the exact value.
func Rescale(amount *big.Int, from, to uint8) *big.Int {
	if from == to {
		return new(big.Int).Set(amount)
	}
	d := decimal.NewFromBigInt(amount, 0).Shift(int32(to) - int32(from))
	return d.BigInt()
}

// Format renders a native-unit amount for logs, e.g. 1500000000 with 9
// decimals as "1.5".
func Format(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
