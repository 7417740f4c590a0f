package dex

import (
	"context"
	"math/big"
	"strings"
	"time"

	sdk "github.com/hashgraph/hedera-sdk-go/v2"

	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
	"github.com/imaad666/Aya-Wallet-MCP/internal/hedera"
)

// ContractExecutor is the slice of the ledger client the router needs.
type ContractExecutor interface {
	ExecuteContract(ctx context.Context, call hedera.ContractCall) (hedera.ContractExecution, error)
	OperatorEVMAddress() string
}

// SwapResult reports an executed router swap.
type SwapResult struct {
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status"`
	Exchange      string  `json:"exchange"`
	TokenIn       string  `json:"tokenIn"`
	TokenOut      string  `json:"tokenOut"`
	AmountIn      float64 `json:"amountIn"`
	ExpectedOut   float64 `json:"expectedOut"`
	MinAmountOut  float64 `json:"minAmountOut"`
	SlippagePct   float64 `json:"slippagePct"`
}

// LiquidityResult reports a completed add-liquidity call.
type LiquidityResult struct {
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status"`
	Exchange      string  `json:"exchange"`
	TokenA        string  `json:"tokenA"`
	TokenB        string  `json:"tokenB"`
	AmountA       float64 `json:"amountA"`
	AmountB       float64 `json:"amountB"`
}

// Router executes swaps and liquidity provisioning against the SaucerSwap
// router contract. Quoting and execution are deliberately separate: quotes go
// through the relay, mutations go through the ledger.
type Router struct {
	executor   ContractExecutor
	quoter     Source
	contractID string
	tokens     *Registry
	gas        uint64
	deadline   time.Duration
}

// NewRouter binds the executor and quote source to the router contract id.
func NewRouter(executor ContractExecutor, quoter Source, contractID string, tokens *Registry) *Router {
	return &Router{
		executor:   executor,
		quoter:     quoter,
		contractID: contractID,
		tokens:     tokens,
		gas:        3_000_000,
		deadline:   2 * time.Minute,
	}
}

// Swap quotes the pair, derives the minimum acceptable output from the
// slippage tolerance, and submits swapExactTokensForTokens.
func (r *Router) Swap(ctx context.Context, tokenIn, tokenOut string, amount, slippagePct float64) (SwapResult, error) {
	in, err := r.tokens.Resolve(tokenIn)
	if err != nil {
		return SwapResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "resolve input token")
	}
	out, err := r.tokens.Resolve(tokenOut)
	if err != nil {
		return SwapResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "resolve output token")
	}
	if amount <= 0 {
		return SwapResult{}, xerrors.Newf(xerrors.CodeInvalidArgument, "swap amount must be positive, got %v", amount)
	}
	if slippagePct < 0 || slippagePct >= 100 {
		return SwapResult{}, xerrors.Newf(xerrors.CodeInvalidArgument, "slippage must be in [0, 100), got %v", slippagePct)
	}

	quote, err := r.quoter.Quote(ctx, tokenIn, tokenOut, amount)
	if err != nil {
		return SwapResult{}, err
	}
	minOut := quote.AmountOut * (1 - slippagePct/100)

	params := sdk.NewContractFunctionParameters().
		AddUint256(uint256Bytes(toBaseUnits(amount, in.Decimals))).
		AddUint256(uint256Bytes(toBaseUnits(minOut, out.Decimals)))
	params, err = params.AddAddressArray([]string{in.EVMAddress, out.EVMAddress})
	if err != nil {
		return SwapResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "encode swap path")
	}
	params, err = params.AddAddress(r.executor.OperatorEVMAddress())
	if err != nil {
		return SwapResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "encode recipient")
	}
	params = params.AddUint256(uint256Bytes(r.deadlineUnix()))

	execution, err := r.executor.ExecuteContract(ctx, hedera.ContractCall{
		ContractID: r.contractID,
		Function:   "swapExactTokensForTokens",
		Parameters: params,
		Gas:        r.gas,
	})
	if err != nil {
		return SwapResult{}, err
	}

	return SwapResult{
		TransactionID: execution.TransactionID,
		Status:        execution.Status,
		Exchange:      r.quoter.Name(),
		TokenIn:       strings.ToUpper(tokenIn),
		TokenOut:      strings.ToUpper(tokenOut),
		AmountIn:      amount,
		ExpectedOut:   quote.AmountOut,
		MinAmountOut:  minOut,
		SlippagePct:   slippagePct,
	}, nil
}

// liquiditySlippage is the fixed tolerance applied to both legs of an
// add-liquidity call.
const liquiditySlippage = 0.05

// AddLiquidity submits addLiquidity for the pair with a fixed 5% tolerance
// on both desired amounts.
func (r *Router) AddLiquidity(ctx context.Context, tokenA, tokenB string, amountA, amountB float64) (LiquidityResult, error) {
	a, err := r.tokens.Resolve(tokenA)
	if err != nil {
		return LiquidityResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "resolve token A")
	}
	b, err := r.tokens.Resolve(tokenB)
	if err != nil {
		return LiquidityResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "resolve token B")
	}
	if amountA <= 0 || amountB <= 0 {
		return LiquidityResult{}, xerrors.New(xerrors.CodeInvalidArgument, "liquidity amounts must be positive")
	}

	params := sdk.NewContractFunctionParameters()
	params, err = params.AddAddress(a.EVMAddress)
	if err != nil {
		return LiquidityResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "encode token A")
	}
	params, err = params.AddAddress(b.EVMAddress)
	if err != nil {
		return LiquidityResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "encode token B")
	}
	params = params.
		AddUint256(uint256Bytes(toBaseUnits(amountA, a.Decimals))).
		AddUint256(uint256Bytes(toBaseUnits(amountB, b.Decimals))).
		AddUint256(uint256Bytes(toBaseUnits(amountA*(1-liquiditySlippage), a.Decimals))).
		AddUint256(uint256Bytes(toBaseUnits(amountB*(1-liquiditySlippage), b.Decimals)))
	params, err = params.AddAddress(r.executor.OperatorEVMAddress())
	if err != nil {
		return LiquidityResult{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, "encode recipient")
	}
	params = params.AddUint256(uint256Bytes(r.deadlineUnix()))

	execution, err := r.executor.ExecuteContract(ctx, hedera.ContractCall{
		ContractID: r.contractID,
		Function:   "addLiquidity",
		Parameters: params,
		Gas:        r.gas,
	})
	if err != nil {
		return LiquidityResult{}, err
	}

	return LiquidityResult{
		TransactionID: execution.TransactionID,
		Status:        execution.Status,
		Exchange:      r.quoter.Name(),
		TokenA:        strings.ToUpper(tokenA),
		TokenB:        strings.ToUpper(tokenB),
		AmountA:       amountA,
		AmountB:       amountB,
	}, nil
}

func (r *Router) deadlineUnix() *big.Int {
	return big.NewInt(time.Now().Add(r.deadline).Unix())
}

// uint256Bytes left-pads a big.Int to the 32-byte ABI word the SDK expects.
func uint256Bytes(value *big.Int) []byte {
	word := make([]byte, 32)
	if value == nil || value.Sign() <= 0 {
		return word
	}
	raw := value.Bytes()
	if len(raw) > 32 {
		raw = raw[len(raw)-32:]
	}
	copy(word[32-len(raw):], raw)
	return word
}
