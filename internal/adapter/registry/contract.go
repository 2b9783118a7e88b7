package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"namereg/internal/domain"
	domainService "namereg/internal/domain/service"
	"namereg/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.NameRegistry = (*Contract)(nil)

// Contract encodes registry calls with the NameStorage ABI and sends them through
// the wallet provider. It does not know about bindings; callers gate access.
type Contract struct {
	address      common.Address
	abi          abi.ABI
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewContract parses the registry ABI and binds it to address.
func NewContract(address string, pollInterval time.Duration, logger *zap.Logger) (*Contract, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: registry address %q is not a hex address", apperrors.ErrInvalidInput, address)
	}
	parsed, err := abi.JSON(strings.NewReader(NameStorageABI))
	if err != nil {
		return nil, fmt.Errorf("%w: parse registry abi: %v", apperrors.ErrInternal, err)
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Contract{
		address:      common.HexToAddress(address),
		abi:          parsed,
		pollInterval: pollInterval,
		logger:       logger.Named("RegistryContract"),
	}, nil
}

// Address returns the checksummed contract address.
func (c *Contract) Address() string {
	return c.address.Hex()
}

func (c *Contract) read(ctx context.Context, p domainService.Provider, from string, result interface{}, method string, args ...interface{}) error {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("%w: pack %s: %v", apperrors.ErrInvalidInput, method, err)
	}
	out, err := p.Call(ctx, from, c.address.Hex(), data)
	if err != nil {
		return fmt.Errorf("%s call: %w", method, err)
	}
	if err := c.abi.UnpackIntoInterface(result, method, out); err != nil {
		return fmt.Errorf("%w: unpack %s: %v", apperrors.ErrExternalServiceFailure, method, err)
	}
	return nil
}

// ReadName returns the name stored for from.
func (c *Contract) ReadName(ctx context.Context, p domainService.Provider, from string) (string, error) {
	var name string
	if err := c.read(ctx, p, from, &name, "readName"); err != nil {
		return "", err
	}
	return name, nil
}

// IsNameExists reports whether name is already registered, evaluated as from.
func (c *Contract) IsNameExists(ctx context.Context, p domainService.Provider, from, name string) (bool, error) {
	var exists bool
	if err := c.read(ctx, p, from, &exists, "isNameExists", name); err != nil {
		return false, err
	}
	return exists, nil
}

// SetName submits setName(name) from the given account and blocks until the
// transaction has a receipt. It returns the receipt; callers judge its status.
func (c *Contract) SetName(ctx context.Context, p domainService.Provider, from, name string) (*domainService.Receipt, error) {
	data, err := c.abi.Pack("setName", name)
	if err != nil {
		return nil, fmt.Errorf("%w: pack setName: %v", apperrors.ErrInvalidInput, err)
	}

	txHash, err := p.SendTransaction(ctx, from, c.address.Hex(), data)
	if err != nil {
		return nil, fmt.Errorf("setName send: %w", err)
	}
	c.logger.Info("setName submitted", zap.String("txHash", txHash), zap.String("from", from))
	if txHash == "" {
		return &domainService.Receipt{}, nil
	}

	return c.waitReceipt(ctx, p, txHash)
}

// waitReceipt polls for the receipt on a ticker until it is mined, ctx ends or
// the provider goes away. Other lookup errors are retried.
func (c *Contract) waitReceipt(ctx context.Context, p domainService.Provider, txHash string) (*domainService.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := p.TransactionReceipt(ctx, txHash)
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return nil, fmt.Errorf("waiting for receipt of %s: %w", txHash, err)
		}
		if err != nil {
			c.logger.Debug("Receipt lookup failed, retrying", zap.String("txHash", txHash), zap.Error(err))
		} else if receipt != nil {
			if receipt.TxHash == "" {
				receipt.TxHash = txHash
			}
			return receipt, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for receipt of %s: %v", apperrors.ErrTimeout, txHash, ctx.Err())
		}
	}
}
