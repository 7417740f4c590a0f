package hedera

import sdk "github.com/hashgraph/hedera-sdk-go/v2"

// Balance is the result of an account balance lookup. AccountID is echoed
// back unchanged so callers can correlate. Tokens maps token ids to holdings
// in base units.
type Balance struct {
	AccountID string            `json:"accountId"`
	Hbars     string            `json:"hbars"`
	Tinybars  int64             `json:"tinybars"`
	Tokens    map[string]uint64 `json:"tokens"`
}

// Transfer is the receipt-backed result of an HBAR transfer.
type Transfer struct {
	TransactionID string `json:"transactionId"`
	From          string `json:"from"`
	To            string `json:"to"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}

// TokenCreation reports a newly issued fungible token.
type TokenCreation struct {
	TokenID       string `json:"tokenId"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Decimals      uint   `json:"decimals"`
	InitialSupply uint64 `json:"initialSupply"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// TokenMint reports additional supply minted for an existing token.
type TokenMint struct {
	TokenID       string `json:"tokenId"`
	Amount        uint64 `json:"amount"`
	TotalSupply   uint64 `json:"totalSupply"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// ContractCall describes a single contract execution request.
type ContractCall struct {
	ContractID      string
	Function        string
	Parameters      *sdk.ContractFunctionParameters
	Gas             uint64
	PayableTinybars int64
}

// ContractExecution is the receipt-backed outcome of a contract call.
type ContractExecution struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}
