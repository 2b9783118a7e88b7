package application

import (
	"context"
	"errors"
	"fmt"

	"namereg/internal/domain"
	"namereg/internal/domain/entity"

	"go.uber.org/zap"
)

// NetworkReconciler moves the wallet onto the registry's chain when they differ.
type NetworkReconciler struct {
	session *Session
	logger  *zap.Logger
}

// NewNetworkReconciler creates a reconciler acting on session's provider.
func NewNetworkReconciler(session *Session, logger *zap.Logger) *NetworkReconciler {
	return &NetworkReconciler{
		session: session,
		logger:  logger.Named("NetworkReconciler"),
	}
}

// Reconcile returns true when no switch is needed or the wallet accepted the
// switch, false when the wallet rejected or failed it. It never fails otherwise.
func (r *NetworkReconciler) Reconcile(ctx context.Context, active, required string) bool {
	if active == "" || required == "" || active == required {
		return true
	}
	p := r.session.Provider()
	if p == nil {
		return true
	}

	chainIDHex, err := entity.ChainIDToHex(required)
	if err != nil {
		r.logger.Error("Required chain id is not numeric", zap.String("required", required), zap.Error(err))
		return false
	}

	r.logger.Info("Requesting network switch",
		zap.String("active", active), zap.String("required", required))

	if err := p.SwitchChain(ctx, chainIDHex); err != nil {
		if errors.Is(err, domain.ErrUserRejected) {
			r.logger.Info("Network switch declined by user", zap.String("required", required))
			return false
		}
		r.logger.Warn("Network switch failed",
			zap.String("required", required),
			zap.Error(fmt.Errorf("%w: %v", domain.ErrNetworkMismatch, err)))
		return false
	}

	// The pushed chainChanged may arrive after the caller re-reads the session.
	// Only a moved chain is dispatched, so listeners that reconcile again stop
	// once the wallet settles.
	if chainID, ok := r.session.ActiveChainID(ctx); ok && chainID != r.session.Snapshot().ChainID {
		r.session.dispatch(ctx, entity.SessionEvent{Kind: entity.EventChainChanged, ChainID: chainID})
	}
	return true
}
