package dex

import (
	"context"
	"strings"

	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
)

// FixedRateSource is a placeholder integration: it answers every quote with
// a fixed multiplier instead of a live price. HeliSwap and Pangolin ship as
// fixed-rate stand-ins until their real endpoints are wired up.
type FixedRateSource struct {
	name       string
	multiplier float64
}

// NewFixedRateSource builds a placeholder source.
func NewFixedRateSource(name string, multiplier float64) *FixedRateSource {
	return &FixedRateSource{name: name, multiplier: multiplier}
}

// NewHeliSwapSource is the HeliSwap placeholder.
func NewHeliSwapSource() *FixedRateSource {
	return NewFixedRateSource("heliswap", 0.9879)
}

// NewPangolinSource is the Pangolin placeholder.
func NewPangolinSource() *FixedRateSource {
	return NewFixedRateSource("pangolin", 0.9797)
}

// Name identifies the exchange in quotes and aggregation results.
func (s *FixedRateSource) Name() string { return s.name }

// Quote applies the fixed multiplier to the input amount.
func (s *FixedRateSource) Quote(ctx context.Context, tokenIn, tokenOut string, amount float64) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	if amount <= 0 {
		return Quote{}, xerrors.Newf(xerrors.CodeInvalidArgument, "quote amount must be positive, got %v", amount)
	}
	return Quote{
		Exchange:  s.name,
		TokenIn:   strings.ToUpper(tokenIn),
		TokenOut:  strings.ToUpper(tokenOut),
		AmountIn:  amount,
		AmountOut: amount * s.multiplier,
	}, nil
}
