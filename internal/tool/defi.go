package tool

import (
	"context"

	"github.com/imaad666/Aya-Wallet-MCP/internal/aggregator"
	"github.com/imaad666/Aya-Wallet-MCP/internal/dex"
	"github.com/imaad666/Aya-Wallet-MCP/internal/hedera"
)

// Ledger is the slice of the Hedera client the catalog needs.
type Ledger interface {
	AccountBalance(ctx context.Context, accountID string) (hedera.Balance, error)
	TransferHbar(ctx context.Context, toAccountID string, amount float64) (hedera.Transfer, error)
	CreateToken(ctx context.Context, name, symbol string, decimals uint, initialSupply uint64) (hedera.TokenCreation, error)
	MintToken(ctx context.Context, tokenID string, amount uint64) (hedera.TokenMint, error)
}

// Exchange executes swaps and liquidity provisioning against the router.
type Exchange interface {
	Swap(ctx context.Context, tokenIn, tokenOut string, amount, slippagePct float64) (dex.SwapResult, error)
	AddLiquidity(ctx context.Context, tokenA, tokenB string, amountA, amountB float64) (dex.LiquidityResult, error)
}

// RateFinder compares quotes across exchanges.
type RateFinder interface {
	BestRate(ctx context.Context, tokenIn, tokenOut string, amount float64) (aggregator.BestRate, error)
}

// Catalog builds the fixed operation catalog. The set of names registered
// here is exactly the set Invoke accepts.
func Catalog(ledger Ledger, quoter dex.Source, exchange Exchange, rates RateFinder) (*Registry, error) {
	registry := NewRegistry()

	defs := []Definition{
		{
			Descriptor: Descriptor{
				Name:        "get_account_balance",
				Description: "Get the HBAR balance of a Hedera account. Defaults to the operator account.",
				ParamOrder:  []string{"accountId"},
				Params: map[string]Param{
					"accountId": {Type: TypeString, Description: "Account id in shard.realm.num form"},
				},
			},
			Handler: func(ctx context.Context, args Arguments) (any, error) {
				return ledger.AccountBalance(ctx, args.String("accountId"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "transfer_hbar",
				Description: "Transfer HBAR from the operator account to a recipient.",
				ParamOrder:  []string{"toAccountId", "amount"},
				Params: map[string]Param{
					"toAccountId": {Type: TypeString, Description: "Recipient account id", Required: true},
					"amount":      {Type: TypeNumber, Description: "Amount in HBAR", Required: true},
				},
			},
			Mutating: true,
			Handler: func(ctx context.Context, args Arguments) (any, error) {
				return ledger.TransferHbar(ctx, args.String("toAccountId"), args.Float("amount"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "get_swap_quote",
				Description: "Quote a token swap on SaucerSwap.",
				ParamOrder:  []string{"tokenIn", "tokenOut", "amount"},
				Params: map[string]Param{
					"tokenIn":  {Type: TypeString, Description: "Input token symbol", Required: true},
					"tokenOut": {Type: TypeString, Description: "Output token symbol", Required: true},
					"amount":   {Type: TypeNumber, Description: "Input amount", Required: true},
				},
			},
			Handler: func(ctx context.Context, args Arguments) (any, error) {
				return quoter.Quote(ctx, args.String("tokenIn"), args.String("tokenOut"), args.Float("amount"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "swap_tokens",
				Description: "Execute a token swap through the SaucerSwap router.",
				ParamOrder:  []string{"tokenIn", "tokenOut", "amount", "slippage"},
				Params: map[string]Param{
					"tokenIn":  {Type: TypeString, Description: "Input token symbol", Required: true},
					"tokenOut": {Type: TypeString, Description: "Output token symbol", Required: true},
					"amount":   {Type: TypeNumber, Description: "Input amount", Required: true},
					"slippage": {Type: TypeNumber, Description: "Slippage tolerance in percent", Default: 0.5},
				},
			},
			Mutating: true,
			Handler: func(ctx context.Context, args Arguments) (any, error) {
				return exchange.Swap(ctx, args.String("tokenIn"), args.String("tokenOut"), args.Float("amount"), args.Float("slippage"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "add_liquidity",
				Description: "Provide liquidity to a SaucerSwap pool.",
				ParamOrder:  []string{"tokenA", "tokenB", "amountA", "amountB"},
				Params: map[string]Param{
					"tokenA":  {Type: TypeString, Description: "First token symbol", Required: true},
					"tokenB":  {Type: TypeString, Description: "Second token symbol", Required: true},
					"amountA": {Type: TypeNumber, Description: "Amount of token A", Required: true},
					"amountB": {Type: TypeNumber, Description: "Amount of token B", Required: true},
				},
			},
			Mutating: true,
			Handler: func(ctx context.Context, args Arguments) (any, error) {
				return exchange.AddLiquidity(ctx, args.String("tokenA"), args.String("tokenB"), args.Float("amountA"), args.Float("amountB"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "create_token",
				Description: "Create a new fungible token with the operator as treasury.",
				ParamOrder:  []string{"name", "symbol", "initialSupply", "decimals"},
				Params: map[string]Param{
					"name":          {Type: TypeString, Description: "Token name", Required: true},
					"symbol":        {Type: TypeString, Description: "Token symbol", Required: true},
					"initialSupply": {Type: TypeNumber, Description: "Initial supply in base units", Required: true},
					"decimals":      {Type: TypeNumber, Description: "Number of decimals", Default: float64(2)},
				},
			},
			Mutating: true,
			Handler: func(ctx context.Context, args Arguments) (any, error) {
				return ledger.CreateToken(ctx, args.String("name"), args.String("symbol"), uint(args.Uint("decimals")), args.Uint("initialSupply"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "mint_token",
				Description: "Mint additional supply for an existing token.",
				ParamOrder:  []string{"tokenId", "amount"},
				Params: map[string]Param{
					"tokenId": {Type: TypeString, Description: "Token id in shard.realm.num form", Required: true},
					"amount":  {Type: TypeNumber, Description: "Amount to mint in base units", Required: true},
				},
			},
			Mutating: true,
			Handler: func(ctx context.Context, args Arguments) (any, error) {
				return ledger.MintToken(ctx, args.String("tokenId"), args.Uint("amount"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "get_best_rate",
				Description: "Compare swap rates across exchanges and report the best quote.",
				ParamOrder:  []string{"tokenIn", "tokenOut", "amount"},
				Params: map[string]Param{
					"tokenIn":  {Type: TypeString, Description: "Input token symbol", Required: true},
					"tokenOut": {Type: TypeString, Description: "Output token symbol", Required: true},
					"amount":   {Type: TypeNumber, Description: "Input amount", Required: true},
				},
			},
			Handler: func(ctx context.Context, args Arguments) (any, error) {
				return rates.BestRate(ctx, args.String("tokenIn"), args.String("tokenOut"), args.Float("amount"))
			},
		},
	}

	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
