package service

import (
	"context"
	"math/big"

	"namereg/internal/domain/entity"
)

// Receipt is the part of a transaction receipt the client relies on.
type Receipt struct {
	TxHash      string
	Status      uint64
	BlockNumber *big.Int
}

// Provider is the wallet provider the session talks to. Chain ids are returned in
// decimal form regardless of how the wallet reports them.
type Provider interface {
	// RequestAccounts asks the wallet to authorize accounts for this client.
	RequestAccounts(ctx context.Context) ([]string, error)

	// ChainID returns the wallet's active chain id.
	ChainID(ctx context.Context) (string, error)

	// SwitchChain asks the wallet to move to chainIDHex.
	SwitchChain(ctx context.Context, chainIDHex string) error

	// Call executes a read-only contract call as from.
	Call(ctx context.Context, from, to string, data []byte) ([]byte, error)

	// SendTransaction asks the wallet to sign and submit a transaction and returns its hash.
	SendTransaction(ctx context.Context, from, to string, data []byte) (string, error)

	// TransactionReceipt returns the receipt for txHash, or nil while pending.
	TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error)

	// Balance returns the wei balance of account.
	Balance(ctx context.Context, account string) (*big.Int, error)

	// Events delivers account and chain changes pushed by the wallet. The channel is
	// closed when the provider disconnects.
	Events() <-chan entity.SessionEvent
}
