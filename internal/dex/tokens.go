package dex

import (
	"fmt"
	"strings"
)

// Token describes an asset the router can trade: its Hedera token id, its
// EVM address on the relay, and its decimals.
type Token struct {
	Symbol     string
	TokenID    string
	EVMAddress string
	Decimals   int
}

// Registry resolves token symbols to on-chain identities for one network.
type Registry struct {
	tokens map[string]Token
}

// NewRegistry builds a registry from a token list.
func NewRegistry(tokens []Token) *Registry {
	index := make(map[string]Token, len(tokens))
	for _, token := range tokens {
		index[strings.ToUpper(token.Symbol)] = token
	}
	return &Registry{tokens: index}
}

// Resolve returns the token for a symbol. HBAR resolves to the wrapped WHBAR
// entry since the router only trades ERC-20 style assets.
func (r *Registry) Resolve(symbol string) (Token, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if key == "HBAR" {
		key = "WHBAR"
	}
	token, ok := r.tokens[key]
	if !ok {
		return Token{}, fmt.Errorf("unknown token symbol %q", symbol)
	}
	return token, nil
}

// TestnetTokens is the built-in token list for the Hedera testnet.
func TestnetTokens() []Token {
	return []Token{
		{Symbol: "WHBAR", TokenID: "0.0.15058", EVMAddress: "0x0000000000000000000000000000000000003aD2", Decimals: 8},
		{Symbol: "SAUCE", TokenID: "0.0.1183558", EVMAddress: "0x0000000000000000000000000000000000120f46", Decimals: 6},
		{Symbol: "USDC", TokenID: "0.0.429274", EVMAddress: "0x0000000000000000000000000000000000068cDa", Decimals: 6},
	}
}

// MainnetTokens is the built-in token list for the Hedera mainnet.
func MainnetTokens() []Token {
	return []Token{
		{Symbol: "WHBAR", TokenID: "0.0.1456986", EVMAddress: "0x0000000000000000000000000000000000163B5a", Decimals: 8},
		{Symbol: "SAUCE", TokenID: "0.0.731861", EVMAddress: "0x00000000000000000000000000000000000b2aD5", Decimals: 6},
		{Symbol: "USDC", TokenID: "0.0.456858", EVMAddress: "0x000000000000000000000000000000000006f89a", Decimals: 6},
	}
}

// RegistryForNetwork picks the built-in token list matching the network.
func RegistryForNetwork(network string) *Registry {
	if network == "mainnet" {
		return NewRegistry(MainnetTokens())
	}
	return NewRegistry(TestnetTokens())
}
