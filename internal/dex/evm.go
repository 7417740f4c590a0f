package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	gethcore "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// routerABI is the read-only slice of the UniswapV2-style router interface
// that quoting needs.
const routerABI = `[{"constant":true,"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"}]`

// RelayClient reads router state through a Hedera JSON-RPC relay endpoint.
type RelayClient struct {
	eth    *ethclient.Client
	parsed abi.ABI
}

// DialRelay connects to the JSON-RPC relay for the configured network.
func DialRelay(ctx context.Context, rawURL string) (*RelayClient, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return nil, errors.New("relay url is empty")
	}
	eth, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial json-rpc relay: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(routerABI))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("parse router abi: %w", err)
	}
	return &RelayClient{eth: eth, parsed: parsed}, nil
}

// Close releases the relay connection.
func (c *RelayClient) Close() {
	if c != nil && c.eth != nil {
		c.eth.Close()
	}
}

// AmountsOut calls getAmountsOut on the router and returns the amounts along
// the path, in base units.
func (c *RelayClient) AmountsOut(ctx context.Context, router common.Address, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	if c == nil || c.eth == nil {
		return nil, errors.New("relay client not initialized")
	}
	if len(path) < 2 {
		return nil, errors.New("swap path needs at least two tokens")
	}

	input, err := c.parsed.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("pack getAmountsOut: %w", err)
	}

	output, err := c.eth.CallContract(ctx, gethcore.CallMsg{To: &router, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("call getAmountsOut: %w", err)
	}

	results, err := c.parsed.Unpack("getAmountsOut", output)
	if err != nil {
		return nil, fmt.Errorf("unpack getAmountsOut: %w", err)
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected getAmountsOut result arity %d", len(results))
	}
	amounts, ok := results[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected getAmountsOut result type %T", results[0])
	}
	return amounts, nil
}
