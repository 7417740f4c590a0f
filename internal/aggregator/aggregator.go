// Package aggregator compares quotes across exchanges. It is a plain
// selection over whatever quotes survive: best by output amount, plus the
// unweighted mean of the survivors.
package aggregator

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/imaad666/Aya-Wallet-MCP/internal/dex"
	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
	"github.com/imaad666/Aya-Wallet-MCP/pkg/logger"
)

// BestRate is the outcome of one cross-exchange comparison. Savings is the
// literal best-minus-average figure; it is reported for compatibility and is
// not a realizable gain.
type BestRate struct {
	TokenIn  string      `json:"tokenIn"`
	TokenOut string      `json:"tokenOut"`
	AmountIn float64     `json:"amountIn"`
	Best     dex.Quote   `json:"best"`
	Average  float64     `json:"average"`
	Savings  float64     `json:"savings"`
	Quotes   []dex.Quote `json:"quotes"`
}

// Aggregator fans a quote request out to every configured source.
type Aggregator struct {
	sources []dex.Source
	log     *slog.Logger
}

// New builds an aggregator over the given sources.
func New(sources ...dex.Source) *Aggregator {
	return &Aggregator{sources: sources, log: logger.Named("aggregator")}
}

// BestRate queries all sources concurrently, discards the ones that failed,
// and selects the best surviving quote. It fails only when every source
// failed.
func (a *Aggregator) BestRate(ctx context.Context, tokenIn, tokenOut string, amount float64) (BestRate, error) {
	if len(a.sources) == 0 {
		return BestRate{}, xerrors.New(xerrors.CodeInitializationFailure, "no quote sources configured")
	}

	var (
		mu      sync.Mutex
		quotes  []dex.Quote
		group   errgroup.Group
		lastErr error
	)
	for _, source := range a.sources {
		group.Go(func() error {
			quote, err := source.Quote(ctx, tokenIn, tokenOut, amount)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// A failed source is dropped, not fatal.
				a.log.Warn("quote source failed",
					slog.String("exchange", source.Name()),
					slog.String("error", err.Error()))
				lastErr = err
				return nil
			}
			quotes = append(quotes, quote)
			return nil
		})
	}
	_ = group.Wait()

	if len(quotes) == 0 {
		return BestRate{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, lastErr, "all quote sources failed")
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].AmountOut > quotes[j].AmountOut
	})

	var sum float64
	for _, quote := range quotes {
		sum += quote.AmountOut
	}
	average := round6(sum / float64(len(quotes)))

	return BestRate{
		TokenIn:  quotes[0].TokenIn,
		TokenOut: quotes[0].TokenOut,
		AmountIn: amount,
		Best:     quotes[0],
		Average:  average,
		Savings:  round6(quotes[0].AmountOut - average),
		Quotes:   quotes,
	}, nil
}

func round6(value float64) float64 {
	return math.Round(value*1e6) / 1e6
}
