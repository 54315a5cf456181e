package catalog

import (
	"math"
	"math/big"
	"strconv"
)

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280

	// beyond this the int64 product overflows
	lcgSafeBase = (math.MaxInt64 - lcgIncrement) / lcgMultiplier
)

// DeriveAttributes returns a stable price/quantity pair for a card that has no
// persisted stock. Same inputs always give the same pair; the values are a
// stand-in, not a distribution.
func DeriveAttributes(name string, seedExtra int64) (price float64, quantity int) {
	var runes int64
	for _, c := range name {
		runes += int64(c)
	}

	r := float64(lcgStep(seedExtra, runes)) / lcgModulus

	// explicit conversions keep the products from being fused into FMA
	price = roundCents(0.5 + float64(r*9.5))
	quantity = int(math.Floor(1 + float64(r*20)))
	if quantity < 1 {
		quantity = 1
	}
	return price, quantity
}

// lcgStep returns (seedExtra+runes)*a + c mod m, floored, so it is never negative.
func lcgStep(seedExtra, runes int64) int64 {
	const half = lcgSafeBase / 2
	if seedExtra > -half && seedExtra < half && runes < half {
		m := ((seedExtra+runes)*lcgMultiplier + lcgIncrement) % lcgModulus
		if m < 0 {
			m += lcgModulus
		}
		return m
	}

	b := new(big.Int).Add(big.NewInt(seedExtra), big.NewInt(runes))
	b.Mul(b, big.NewInt(lcgMultiplier))
	b.Add(b, big.NewInt(lcgIncrement))
	return b.Mod(b, big.NewInt(lcgModulus)).Int64()
}

// roundCents rounds the exact binary value to two decimals, ties to even.
func roundCents(v float64) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return out
}
