// Package hedera wraps the Hedera SDK behind the small surface the tool
// catalog needs. One client is dialed at startup and reused for the process
// lifetime; every mutation is submitted with the configured operator.
package hedera

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sdk "github.com/hashgraph/hedera-sdk-go/v2"

	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
)

// Config describes how to construct the ledger client.
type Config struct {
	Network            string
	OperatorAccountID  string
	OperatorPrivateKey string
}

// Client holds the long-lived Hedera network client and operator identity.
type Client struct {
	sdk      *sdk.Client
	operator sdk.AccountID
	key      sdk.PrivateKey
	network  string
}

// NewClient builds a network client for the configured Hedera environment
// and registers the operator used to sign and pay for transactions. The
// operator identity is validated before any network client is constructed.
func NewClient(cfg Config) (*Client, error) {
	network := strings.TrimSpace(cfg.Network)
	operator, key, err := parseOperator(cfg)
	if err != nil {
		return nil, err
	}

	client, err := sdk.ClientForName(network)
	if err != nil {
		return nil, fmt.Errorf("unsupported hedera network %q: %w", network, err)
	}
	client.SetOperator(operator, key)

	return &Client{sdk: client, operator: operator, key: key, network: network}, nil
}

// parseOperator validates the configured operator account and signing key.
func parseOperator(cfg Config) (sdk.AccountID, sdk.PrivateKey, error) {
	operator, err := sdk.AccountIDFromString(strings.TrimSpace(cfg.OperatorAccountID))
	if err != nil {
		return sdk.AccountID{}, sdk.PrivateKey{}, fmt.Errorf("parse operator account id: %w", err)
	}
	key, err := sdk.PrivateKeyFromString(strings.TrimSpace(cfg.OperatorPrivateKey))
	if err != nil {
		return sdk.AccountID{}, sdk.PrivateKey{}, fmt.Errorf("parse operator private key: %w", err)
	}
	return operator, key, nil
}

// OperatorID returns the configured operator account in shard.realm.num form.
func (c *Client) OperatorID() string {
	return c.operator.String()
}

// OperatorEVMAddress returns the operator account in its long-zero EVM form,
// used as the recipient of router swaps and liquidity positions.
func (c *Client) OperatorEVMAddress() string {
	return "0x" + c.operator.ToSolidityAddress()
}

// Network returns the configured network name.
func (c *Client) Network() string {
	return c.network
}

// Close releases the network channels held by the SDK client.
func (c *Client) Close() error {
	if c == nil || c.sdk == nil {
		return nil
	}
	return c.sdk.Close()
}

// AccountBalance looks up the HBAR balance of the given account. An empty
// account id falls back to the operator.
func (c *Client) AccountBalance(ctx context.Context, accountID string) (Balance, error) {
	if err := ctx.Err(); err != nil {
		return Balance{}, err
	}

	target := c.operator
	if trimmed := strings.TrimSpace(accountID); trimmed != "" {
		parsed, err := sdk.AccountIDFromString(trimmed)
		if err != nil {
			return Balance{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, fmt.Sprintf("invalid account id %q", trimmed))
		}
		target = parsed
	}

	balance, err := sdk.NewAccountBalanceQuery().
		SetAccountID(target).
		Execute(c.sdk)
	if err != nil {
		return Balance{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "balance query failed")
	}

	return newBalance(target, balance), nil
}

// newBalance flattens the SDK balance result into the tool payload.
func newBalance(account sdk.AccountID, balance sdk.AccountBalance) Balance {
	return Balance{
		AccountID: account.String(),
		Hbars:     balance.Hbars.String(),
		Tinybars:  balance.Hbars.AsTinybar(),
		Tokens:    parseTokenBalances(balance.Tokens.String()),
	}
}

// parseTokenBalances decodes the SDK's token balance rendering, one
// "token_id=amount" entry per line.
func parseTokenBalances(raw string) map[string]uint64 {
	tokens := make(map[string]uint64)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokenID, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		amount, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}
		tokens[strings.TrimSpace(tokenID)] = amount
	}
	return tokens
}

// TransferHbar moves the given amount of HBAR from the operator to the
// recipient and waits for the consensus receipt.
func (c *Client) TransferHbar(ctx context.Context, toAccountID string, amount float64) (Transfer, error) {
	if err := ctx.Err(); err != nil {
		return Transfer{}, err
	}

	recipient, err := sdk.AccountIDFromString(strings.TrimSpace(toAccountID))
	if err != nil {
		return Transfer{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, fmt.Sprintf("invalid recipient account id %q", toAccountID))
	}
	if amount <= 0 {
		return Transfer{}, xerrors.Newf(xerrors.CodeInvalidArgument, "transfer amount must be positive, got %v", amount)
	}

	hbars := sdk.NewHbar(amount)
	resp, err := sdk.NewTransferTransaction().
		AddHbarTransfer(c.operator, hbars.Negated()).
		AddHbarTransfer(recipient, hbars).
		Execute(c.sdk)
	if err != nil {
		return Transfer{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "submit hbar transfer")
	}

	receipt, err := resp.GetReceipt(c.sdk)
	if err != nil {
		return Transfer{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "fetch transfer receipt")
	}
	if receipt.Status != sdk.StatusSuccess {
		return Transfer{}, xerrors.Newf(xerrors.CodeDownstreamFailure, "transfer failed with status %s", receipt.Status)
	}

	return Transfer{
		TransactionID: resp.TransactionID.String(),
		From:          c.operator.String(),
		To:            recipient.String(),
		Amount:        hbars.String(),
		Status:        receipt.Status.String(),
	}, nil
}

// CreateToken issues a new fungible token with the operator as treasury,
// admin and supply authority.
func (c *Client) CreateToken(ctx context.Context, name, symbol string, decimals uint, initialSupply uint64) (TokenCreation, error) {
	if err := ctx.Err(); err != nil {
		return TokenCreation{}, err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(symbol) == "" {
		return TokenCreation{}, xerrors.New(xerrors.CodeInvalidArgument, "token name and symbol are required")
	}

	resp, err := sdk.NewTokenCreateTransaction().
		SetTokenName(name).
		SetTokenSymbol(symbol).
		SetDecimals(decimals).
		SetInitialSupply(initialSupply).
		SetTreasuryAccountID(c.operator).
		SetAdminKey(c.key.PublicKey()).
		SetSupplyKey(c.key.PublicKey()).
		Execute(c.sdk)
	if err != nil {
		return TokenCreation{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "submit token create")
	}

	receipt, err := resp.GetReceipt(c.sdk)
	if err != nil {
		return TokenCreation{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "fetch token create receipt")
	}
	if receipt.Status != sdk.StatusSuccess {
		return TokenCreation{}, xerrors.Newf(xerrors.CodeDownstreamFailure, "token create failed with status %s", receipt.Status)
	}
	if receipt.TokenID == nil {
		return TokenCreation{}, xerrors.New(xerrors.CodeDownstreamFailure, "token create receipt carried no token id")
	}

	return TokenCreation{
		TokenID:       receipt.TokenID.String(),
		Name:          name,
		Symbol:        symbol,
		Decimals:      decimals,
		InitialSupply: initialSupply,
		TransactionID: resp.TransactionID.String(),
		Status:        receipt.Status.String(),
	}, nil
}

// MintToken mints additional supply for an existing token. The operator must
// hold the token's supply key.
func (c *Client) MintToken(ctx context.Context, tokenID string, amount uint64) (TokenMint, error) {
	if err := ctx.Err(); err != nil {
		return TokenMint{}, err
	}

	token, err := sdk.TokenIDFromString(strings.TrimSpace(tokenID))
	if err != nil {
		return TokenMint{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, fmt.Sprintf("invalid token id %q", tokenID))
	}
	if amount == 0 {
		return TokenMint{}, xerrors.New(xerrors.CodeInvalidArgument, "mint amount must be positive")
	}

	resp, err := sdk.NewTokenMintTransaction().
		SetTokenID(token).
		SetAmount(amount).
		Execute(c.sdk)
	if err != nil {
		return TokenMint{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "submit token mint")
	}

	receipt, err := resp.GetReceipt(c.sdk)
	if err != nil {
		return TokenMint{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "fetch token mint receipt")
	}
	if receipt.Status != sdk.StatusSuccess {
		return TokenMint{}, xerrors.Newf(xerrors.CodeDownstreamFailure, "token mint failed with status %s", receipt.Status)
	}

	return TokenMint{
		TokenID:       token.String(),
		Amount:        amount,
		TotalSupply:   receipt.TotalSupply,
		TransactionID: resp.TransactionID.String(),
		Status:        receipt.Status.String(),
	}, nil
}

// ExecuteContract submits a contract call transaction. The DEX layer uses it
// for router swaps and liquidity provisioning.
func (c *Client) ExecuteContract(ctx context.Context, call ContractCall) (ContractExecution, error) {
	if err := ctx.Err(); err != nil {
		return ContractExecution{}, err
	}

	contract, err := sdk.ContractIDFromString(strings.TrimSpace(call.ContractID))
	if err != nil {
		return ContractExecution{}, xerrors.Wrap(xerrors.CodeInvalidArgument, err, fmt.Sprintf("invalid contract id %q", call.ContractID))
	}

	gas := call.Gas
	if gas == 0 {
		gas = defaultContractGas
	}

	tx := sdk.NewContractExecuteTransaction().
		SetContractID(contract).
		SetGas(gas).
		SetFunction(call.Function, call.Parameters)
	if call.PayableTinybars > 0 {
		tx = tx.SetPayableAmount(sdk.HbarFromTinybar(call.PayableTinybars))
	}

	resp, err := tx.Execute(c.sdk)
	if err != nil {
		return ContractExecution{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, fmt.Sprintf("submit contract call %s", call.Function))
	}

	receipt, err := resp.GetReceipt(c.sdk)
	if err != nil {
		return ContractExecution{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "fetch contract call receipt")
	}
	if receipt.Status != sdk.StatusSuccess {
		return ContractExecution{}, xerrors.Newf(xerrors.CodeDownstreamFailure, "contract call failed with status %s", receipt.Status)
	}

	return ContractExecution{
		TransactionID: resp.TransactionID.String(),
		Status:        receipt.Status.String(),
	}, nil
}

const defaultContractGas = 3_000_000
