package dex

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
)

// SaucerSwapSource quotes swaps against the live SaucerSwap router through
// the JSON-RPC relay.
type SaucerSwapSource struct {
	relay  *RelayClient
	router common.Address
	tokens *Registry
}

// NewSaucerSwapSource binds a relay client to the router contract. The router
// is configured as a Hedera contract id or a 0x EVM address.
func NewSaucerSwapSource(relay *RelayClient, routerAddress string, tokens *Registry) (*SaucerSwapSource, error) {
	addr, err := routerEVMAddress(routerAddress)
	if err != nil {
		return nil, err
	}
	return &SaucerSwapSource{relay: relay, router: addr, tokens: tokens}, nil
}

// Name identifies the exchange in quotes and aggregation results.
func (s *SaucerSwapSource) Name() string { return "saucerswap" }

// Quote resolves the pair, asks the router for amounts out, and rescales the
// result to a human amount.
func (s *SaucerSwapSource) Quote(ctx context.Context, tokenIn, tokenOut string, amount float64) (Quote, error) {
	in, err := s.tokens.Resolve(tokenIn)
	if err != nil {
		return Quote{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "resolve input token")
	}
	out, err := s.tokens.Resolve(tokenOut)
	if err != nil {
		return Quote{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "resolve output token")
	}
	if amount <= 0 {
		return Quote{}, xerrors.Newf(xerrors.CodeInvalidArgument, "quote amount must be positive, got %v", amount)
	}

	path := []common.Address{common.HexToAddress(in.EVMAddress), common.HexToAddress(out.EVMAddress)}
	amounts, err := s.relay.AmountsOut(ctx, s.router, toBaseUnits(amount, in.Decimals), path)
	if err != nil {
		return Quote{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "saucerswap router quote")
	}
	if len(amounts) < 2 {
		return Quote{}, xerrors.Newf(xerrors.CodeDownstreamFailure, "router returned %d amounts", len(amounts))
	}

	return Quote{
		Exchange:  s.Name(),
		TokenIn:   strings.ToUpper(tokenIn),
		TokenOut:  strings.ToUpper(tokenOut),
		AmountIn:  amount,
		AmountOut: fromBaseUnits(amounts[len(amounts)-1], out.Decimals),
	}, nil
}

// routerEVMAddress accepts either a 0x address or a shard.realm.num contract
// id, mapping the latter onto its long-zero EVM form.
func routerEVMAddress(raw string) (common.Address, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return common.Address{}, fmt.Errorf("router address is empty")
	}
	if strings.HasPrefix(trimmed, "0x") {
		if !common.IsHexAddress(trimmed) {
			return common.Address{}, fmt.Errorf("invalid router address %q", raw)
		}
		return common.HexToAddress(trimmed), nil
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return common.Address{}, fmt.Errorf("invalid router contract id %q", raw)
	}
	var num uint64
	if _, err := fmt.Sscanf(parts[2], "%d", &num); err != nil {
		return common.Address{}, fmt.Errorf("invalid router contract id %q: %w", raw, err)
	}
	return common.BigToAddress(new(big.Int).SetUint64(num)), nil
}
