package hedera

import (
	"context"
	"errors"
	"strings"
	"testing"

	sdk "github.com/hashgraph/hedera-sdk-go/v2"

	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	key, err := sdk.PrivateKeyGenerateEd25519()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return Config{
		Network:            "testnet",
		OperatorAccountID:  "0.0.1001",
		OperatorPrivateKey: key.String(),
	}
}

// testClient builds a client without a network connection. Every assertion
// below exercises validation that runs before the SDK client is touched.
func testClient(t *testing.T) *Client {
	t.Helper()
	cfg := testConfig(t)
	operator, key, err := parseOperator(cfg)
	if err != nil {
		t.Fatalf("parse operator: %v", err)
	}
	return &Client{operator: operator, key: key, network: cfg.Network}
}

func TestParseOperator(t *testing.T) {
	cfg := testConfig(t)
	operator, _, err := parseOperator(cfg)
	if err != nil {
		t.Fatalf("parse operator: %v", err)
	}
	if operator.String() != "0.0.1001" {
		t.Fatalf("operator = %s", operator.String())
	}

	bad := cfg
	bad.OperatorAccountID = "not-an-account"
	if _, _, err := parseOperator(bad); err == nil {
		t.Fatal("bad operator account should fail")
	}

	bad = cfg
	bad.OperatorPrivateKey = "not-a-key"
	if _, _, err := parseOperator(bad); err == nil {
		t.Fatal("bad operator key should fail")
	}
}

func TestNewClientRejectsUnknownNetwork(t *testing.T) {
	cfg := testConfig(t)
	cfg.Network = "notanet"
	if _, err := NewClient(cfg); err == nil {
		t.Fatal("unknown network should fail")
	}
}

func TestClientIdentity(t *testing.T) {
	client := testClient(t)
	defer client.Close()

	if client.OperatorID() != "0.0.1001" {
		t.Fatalf("operator = %s", client.OperatorID())
	}
	if client.Network() != "testnet" {
		t.Fatalf("network = %s", client.Network())
	}

	evm := client.OperatorEVMAddress()
	if !strings.HasPrefix(evm, "0x") || len(evm) != 42 {
		t.Fatalf("evm address = %s", evm)
	}
}

func TestNewBalance(t *testing.T) {
	account, err := sdk.AccountIDFromString("0.0.1001")
	if err != nil {
		t.Fatalf("parse account: %v", err)
	}

	balance := newBalance(account, sdk.AccountBalance{Hbars: sdk.NewHbar(2)})
	if balance.AccountID != "0.0.1001" {
		t.Fatalf("account id = %s", balance.AccountID)
	}
	if balance.Tinybars != 200_000_000 {
		t.Fatalf("tinybars = %d", balance.Tinybars)
	}
	if !strings.Contains(balance.Hbars, "2") {
		t.Fatalf("hbars rendering = %q", balance.Hbars)
	}
	if balance.Tokens == nil || len(balance.Tokens) != 0 {
		t.Fatalf("tokens = %v", balance.Tokens)
	}
}

func TestParseTokenBalances(t *testing.T) {
	tokens := parseTokenBalances("0.0.1183558=500\n0.0.429274=25\n")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens["0.0.1183558"] != 500 {
		t.Fatalf("sauce balance = %d", tokens["0.0.1183558"])
	}
	if tokens["0.0.429274"] != 25 {
		t.Fatalf("usdc balance = %d", tokens["0.0.429274"])
	}

	if got := parseTokenBalances(""); len(got) != 0 {
		t.Fatalf("empty rendering should yield no tokens, got %v", got)
	}
	if got := parseTokenBalances("garbage\n0.0.5=abc\n0.0.6=7"); len(got) != 1 || got["0.0.6"] != 7 {
		t.Fatalf("malformed lines should be skipped, got %v", got)
	}
}

func TestCancelledContextShortCircuits(t *testing.T) {
	client := testClient(t)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.AccountBalance(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("balance err = %v", err)
	}
	if _, err := client.TransferHbar(ctx, "0.0.2002", 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("transfer err = %v", err)
	}
	if _, err := client.MintToken(ctx, "0.0.5005", 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("mint err = %v", err)
	}
}

func TestInvalidIdentifiersAreArgumentErrors(t *testing.T) {
	client := testClient(t)
	defer client.Close()
	ctx := context.Background()

	if _, err := client.AccountBalance(ctx, "junk"); xerrors.CodeOf(err) != xerrors.CodeInvalidArgument {
		t.Fatalf("balance code = %s", xerrors.CodeOf(err))
	}
	if _, err := client.TransferHbar(ctx, "junk", 1); xerrors.CodeOf(err) != xerrors.CodeInvalidArgument {
		t.Fatalf("transfer code = %s", xerrors.CodeOf(err))
	}
	if _, err := client.TransferHbar(ctx, "0.0.2002", -1); xerrors.CodeOf(err) != xerrors.CodeInvalidArgument {
		t.Fatalf("negative amount code = %s", xerrors.CodeOf(err))
	}
	if _, err := client.MintToken(ctx, "junk", 1); xerrors.CodeOf(err) != xerrors.CodeInvalidArgument {
		t.Fatalf("mint code = %s", xerrors.CodeOf(err))
	}
	if _, err := client.CreateToken(ctx, "", "", 2, 100); xerrors.CodeOf(err) != xerrors.CodeInvalidArgument {
		t.Fatalf("create code = %s", xerrors.CodeOf(err))
	}
	if _, err := client.ExecuteContract(ctx, ContractCall{ContractID: "junk"}); xerrors.CodeOf(err) != xerrors.CodeInvalidArgument {
		t.Fatalf("contract code = %s", xerrors.CodeOf(err))
	}
}
