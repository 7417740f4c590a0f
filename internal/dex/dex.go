// Package dex integrates decentralized exchanges on Hedera. Every price
// source sits behind the Source interface so placeholder integrations can be
// replaced without touching the aggregation logic.
package dex

import (
	"context"
	"math"
	"math/big"
)

// Quote is a price estimate for exchanging one asset for another.
type Quote struct {
	Exchange  string  `json:"exchange"`
	TokenIn   string  `json:"tokenIn"`
	TokenOut  string  `json:"tokenOut"`
	AmountIn  float64 `json:"amountIn"`
	AmountOut float64 `json:"amountOut"`
}

// Source produces quotes for a token pair.
type Source interface {
	Name() string
	Quote(ctx context.Context, tokenIn, tokenOut string, amount float64) (Quote, error)
}

// toBaseUnits converts a human amount into the token's smallest denomination.
func toBaseUnits(amount float64, decimals int) *big.Int {
	scaled := new(big.Float).Mul(big.NewFloat(amount), big.NewFloat(math.Pow10(decimals)))
	units, _ := scaled.Int(nil)
	return units
}

// fromBaseUnits converts a smallest-denomination amount back to a human value.
func fromBaseUnits(units *big.Int, decimals int) float64 {
	if units == nil {
		return 0
	}
	value := new(big.Float).Quo(new(big.Float).SetInt(units), big.NewFloat(math.Pow10(decimals)))
	out, _ := value.Float64()
	return out
}
