package dex

import (
	"bytes"
	"context"
	"math"
	"math/big"
	"testing"

	"github.com/imaad666/Aya-Wallet-MCP/internal/hedera"
)

type recordingExecutor struct {
	calls []hedera.ContractCall
}

func (e *recordingExecutor) ExecuteContract(_ context.Context, call hedera.ContractCall) (hedera.ContractExecution, error) {
	e.calls = append(e.calls, call)
	return hedera.ContractExecution{TransactionID: "0.0.1001@1700000000.000000001", Status: "SUCCESS"}, nil
}

func (e *recordingExecutor) OperatorEVMAddress() string {
	return "0x00000000000000000000000000000000000003E9"
}

type fixedQuoter struct{ multiplier float64 }

func (q fixedQuoter) Name() string { return "saucerswap" }

func (q fixedQuoter) Quote(_ context.Context, tokenIn, tokenOut string, amount float64) (Quote, error) {
	return Quote{Exchange: "saucerswap", TokenIn: tokenIn, TokenOut: tokenOut, AmountIn: amount, AmountOut: amount * q.multiplier}, nil
}

func newTestRouter(executor *recordingExecutor) *Router {
	return NewRouter(executor, fixedQuoter{multiplier: 0.98}, "0.0.19264", NewRegistry(TestnetTokens()))
}

func TestSwapSubmitsRouterCall(t *testing.T) {
	executor := &recordingExecutor{}
	router := newTestRouter(executor)

	result, err := router.Swap(context.Background(), "HBAR", "SAUCE", 100, 0.5)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}

	if len(executor.calls) != 1 {
		t.Fatalf("expected 1 contract call, got %d", len(executor.calls))
	}
	call := executor.calls[0]
	if call.Function != "swapExactTokensForTokens" {
		t.Fatalf("function = %s", call.Function)
	}
	if call.ContractID != "0.0.19264" {
		t.Fatalf("contract id = %s", call.ContractID)
	}

	if result.Status != "SUCCESS" || result.TransactionID == "" {
		t.Fatalf("result = %+v", result)
	}
	if result.ExpectedOut != 98 {
		t.Fatalf("expected out = %v", result.ExpectedOut)
	}
	wantMin := 98 * (1 - 0.5/100)
	if math.Abs(result.MinAmountOut-wantMin) > 1e-9 {
		t.Fatalf("min out = %v, want %v", result.MinAmountOut, wantMin)
	}
	if result.TokenIn != "HBAR" || result.TokenOut != "SAUCE" {
		t.Fatalf("pair = %s/%s", result.TokenIn, result.TokenOut)
	}
}

func TestSwapRejectsBadInputs(t *testing.T) {
	router := newTestRouter(&recordingExecutor{})
	ctx := context.Background()

	if _, err := router.Swap(ctx, "DOGE", "SAUCE", 100, 0.5); err == nil {
		t.Fatal("unknown input token should fail")
	}
	if _, err := router.Swap(ctx, "HBAR", "DOGE", 100, 0.5); err == nil {
		t.Fatal("unknown output token should fail")
	}
	if _, err := router.Swap(ctx, "HBAR", "SAUCE", 0, 0.5); err == nil {
		t.Fatal("zero amount should fail")
	}
	if _, err := router.Swap(ctx, "HBAR", "SAUCE", 100, 100); err == nil {
		t.Fatal("slippage of 100% should fail")
	}
	if _, err := router.Swap(ctx, "HBAR", "SAUCE", 100, -1); err == nil {
		t.Fatal("negative slippage should fail")
	}
}

func TestAddLiquiditySubmitsRouterCall(t *testing.T) {
	executor := &recordingExecutor{}
	router := newTestRouter(executor)

	result, err := router.AddLiquidity(context.Background(), "HBAR", "USDC", 50, 12.5)
	if err != nil {
		t.Fatalf("add liquidity: %v", err)
	}

	if len(executor.calls) != 1 {
		t.Fatalf("expected 1 contract call, got %d", len(executor.calls))
	}
	if executor.calls[0].Function != "addLiquidity" {
		t.Fatalf("function = %s", executor.calls[0].Function)
	}
	if result.TokenA != "HBAR" || result.TokenB != "USDC" {
		t.Fatalf("pair = %s/%s", result.TokenA, result.TokenB)
	}
	if result.AmountA != 50 || result.AmountB != 12.5 {
		t.Fatalf("amounts = %v/%v", result.AmountA, result.AmountB)
	}
}

func TestAddLiquidityRejectsBadInputs(t *testing.T) {
	router := newTestRouter(&recordingExecutor{})
	ctx := context.Background()

	if _, err := router.AddLiquidity(ctx, "HBAR", "DOGE", 1, 1); err == nil {
		t.Fatal("unknown token should fail")
	}
	if _, err := router.AddLiquidity(ctx, "HBAR", "USDC", 0, 1); err == nil {
		t.Fatal("zero amount should fail")
	}
}

func TestUint256Bytes(t *testing.T) {
	word := uint256Bytes(big.NewInt(1))
	if len(word) != 32 {
		t.Fatalf("word length = %d", len(word))
	}
	want := make([]byte, 32)
	want[31] = 1
	if !bytes.Equal(word, want) {
		t.Fatalf("word = %x", word)
	}

	if !bytes.Equal(uint256Bytes(nil), make([]byte, 32)) {
		t.Fatal("nil should encode to the zero word")
	}
	if !bytes.Equal(uint256Bytes(big.NewInt(-5)), make([]byte, 32)) {
		t.Fatal("negative should encode to the zero word")
	}
}

func TestBaseUnitConversion(t *testing.T) {
	units := toBaseUnits(1.5, 8)
	if units.Cmp(big.NewInt(150_000_000)) != 0 {
		t.Fatalf("base units = %s", units)
	}
	back := fromBaseUnits(units, 8)
	if math.Abs(back-1.5) > 1e-9 {
		t.Fatalf("round trip = %v", back)
	}
}
