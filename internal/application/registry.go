package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"namereg/internal/domain"
	"namereg/internal/domain/entity"
	domainService "namereg/internal/domain/service"

	"go.uber.org/zap"
)

// RegistryClient exposes the registry operations, available only while the
// session is bound to the registry chain.
type RegistryClient struct {
	session         *Session
	contract        domainService.NameRegistry
	requiredChainID string
	confirmTimeout  time.Duration
	logger          *zap.Logger
}

// NewRegistryClient creates a client for contract deployed on requiredChainID.
// confirmTimeout bounds the wait for a write receipt; zero waits indefinitely.
func NewRegistryClient(
	session *Session,
	contract domainService.NameRegistry,
	requiredChainID string,
	confirmTimeout time.Duration,
	logger *zap.Logger,
) *RegistryClient {
	return &RegistryClient{
		session:         session,
		contract:        contract,
		requiredChainID: requiredChainID,
		confirmTimeout:  confirmTimeout,
		logger:          logger.Named("RegistryClient"),
	}
}

// RequiredChainID is the chain the registry lives on.
func (r *RegistryClient) RequiredChainID() string {
	return r.requiredChainID
}

// Binding returns the current registry binding, if any.
func (r *RegistryClient) Binding() (entity.RegistryBinding, bool) {
	if r.contract == nil {
		return entity.RegistryBinding{}, false
	}
	return entity.BindingFor(r.session.Snapshot(), r.requiredChainID, r.contract.Address())
}

func (r *RegistryClient) bound() (domainService.Provider, error) {
	if _, ok := r.Binding(); !ok {
		return nil, domain.ErrRegistryUnbound
	}
	p := r.session.Provider()
	if p == nil {
		return nil, domain.ErrProviderUnavailable
	}
	return p, nil
}

// ReadName returns the name stored for account, or "" when unbound, when there
// is no account or when the read fails.
func (r *RegistryClient) ReadName(ctx context.Context, account string) string {
	if account == "" {
		return ""
	}
	p, err := r.bound()
	if err != nil {
		return ""
	}
	name, err := r.contract.ReadName(ctx, p, account)
	if err != nil {
		r.logger.Warn("readName failed", zap.String("account", account), zap.Error(err))
		return ""
	}
	return name
}

// NameExists reports whether candidate is registered, evaluated as account.
func (r *RegistryClient) NameExists(ctx context.Context, account, candidate string) (bool, error) {
	p, err := r.bound()
	if err != nil {
		return false, err
	}
	return r.contract.IsNameExists(ctx, p, account, candidate)
}

// SetName submits candidate for account and waits for confirmation. It returns
// the transaction hash and true only for a confirmed, successful transaction.
func (r *RegistryClient) SetName(ctx context.Context, account, candidate string) (string, bool) {
	p, err := r.bound()
	if err != nil {
		r.logger.Warn("setName skipped", zap.Error(err))
		return "", false
	}

	if r.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.confirmTimeout)
		defer cancel()
	}

	receipt, err := r.contract.SetName(ctx, p, account, candidate)
	if errors.Is(err, domain.ErrUserRejected) {
		r.logger.Info("setName declined by user", zap.String("name", candidate))
		return "", false
	}
	if err != nil {
		r.logger.Warn("setName rejected",
			zap.String("name", candidate),
			zap.Error(fmt.Errorf("%w: %v", domain.ErrTransactionRejected, err)))
		return "", false
	}
	if receipt == nil || receipt.TxHash == "" {
		r.logger.Warn("setName returned an empty confirmation", zap.String("name", candidate))
		return "", false
	}
	if receipt.Status != 1 {
		r.logger.Warn("setName reverted",
			zap.String("name", candidate), zap.String("txHash", receipt.TxHash),
			zap.Error(errors.New("receipt status 0")))
		return "", false
	}

	r.logger.Info("setName confirmed", zap.String("name", candidate), zap.String("txHash", receipt.TxHash))
	return receipt.TxHash, true
}
