package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"namereg/internal/domain"
	"namereg/internal/domain/entity"
	domainService "namereg/internal/domain/service"
	"namereg/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Suggester proposes free alternatives for a taken name.
type Suggester interface {
	Suggest(ctx context.Context, account, base string) []string
}

// Refresher recomputes displayed state after a successful write.
type Refresher interface {
	Refresh(ctx context.Context) entity.DisplayState
}

// RegistrationOrchestrator runs the name registration protocol. One registration
// runs at a time; every run ends back in idle.
type RegistrationOrchestrator struct {
	session    *Session
	reconciler *NetworkReconciler
	registry   *RegistryClient
	suggester  Suggester
	prompter   domainService.Prompter
	refresher  Refresher
	logger     *zap.Logger

	busy  atomic.Bool
	mu    sync.RWMutex
	state entity.RegistrationState
}

// NewRegistrationOrchestrator wires the protocol. prompter may be nil, in which
// case every conflict is treated as dismissed.
func NewRegistrationOrchestrator(
	session *Session,
	reconciler *NetworkReconciler,
	registry *RegistryClient,
	suggester Suggester,
	prompter domainService.Prompter,
	refresher Refresher,
	logger *zap.Logger,
) *RegistrationOrchestrator {
	return &RegistrationOrchestrator{
		session:    session,
		reconciler: reconciler,
		registry:   registry,
		suggester:  suggester,
		prompter:   prompter,
		refresher:  refresher,
		logger:     logger.Named("RegistrationOrchestrator"),
		state:      entity.StateIdle,
	}
}

// State returns the state the orchestrator is currently in.
func (o *RegistrationOrchestrator) State() entity.RegistrationState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Ready reports whether a new submission would be accepted.
func (o *RegistrationOrchestrator) Ready() bool {
	return !o.busy.Load()
}

func (o *RegistrationOrchestrator) enter(out *entity.Outcome, s entity.RegistrationState) {
	o.mu.Lock()
	prev := o.state
	o.state = s
	o.mu.Unlock()

	out.Final = s
	out.Trace = append(out.Trace, s)
	o.logger.Debug("Registration transition",
		zap.String("from", string(prev)), zap.String("to", string(s)), zap.String("name", out.Requested))
}

// Submit runs one registration attempt for name. It fails only when name is
// empty or another attempt is in flight; every protocol result, including
// failures, is reported through the outcome.
func (o *RegistrationOrchestrator) Submit(ctx context.Context, name string) (out entity.Outcome, err error) {
	if strings.TrimSpace(name) == "" {
		return out, fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if !o.busy.CompareAndSwap(false, true) {
		return out, domain.ErrBusy
	}

	out.Requested = name
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Registration aborted by unexpected fault",
				zap.String("name", name), zap.Any("panic", r))
			o.enter(&out, entity.StateFailed)
		}
		o.mu.Lock()
		o.state = entity.StateIdle
		o.mu.Unlock()
		o.busy.Store(false)
	}()

	o.run(ctx, &out)
	return out, nil
}

func (o *RegistrationOrchestrator) run(ctx context.Context, out *entity.Outcome) {
	name := out.Requested
	o.enter(out, entity.StateNetworkChecking)

	required := o.registry.RequiredChainID()
	networkOK := o.reconciler.Reconcile(ctx, o.session.Snapshot().ChainID, required)

	account, ok := o.actingAccount(networkOK)
	if !ok {
		o.enter(out, entity.StateNetworkInvalid)
		return
	}

	o.enter(out, entity.StateExistenceChecking)
	exists, err := o.registry.NameExists(ctx, account, name)
	if err != nil {
		o.logger.Warn("Existence check failed", zap.String("name", name), zap.Error(err))
		o.enter(out, entity.StateFailed)
		return
	}

	if exists {
		o.resolveConflict(ctx, out, account)
		return
	}

	// The existence check suspended; the wallet may have moved meanwhile.
	if current, ok := o.actingAccount(true); !ok || current != account {
		o.logger.Info("Session changed before submission, halting", zap.String("name", name))
		o.enter(out, entity.StateNetworkInvalid)
		return
	}

	o.enter(out, entity.StateSubmitting)
	txHash, ok := o.registry.SetName(ctx, account, name)
	if !ok {
		o.enter(out, entity.StateFailed)
		return
	}

	out.TxHash = txHash
	o.enter(out, entity.StateConfirmed)
	if o.refresher != nil {
		o.refresher.Refresh(ctx)
	}
}

// actingAccount re-reads the session and returns the acting account when the
// network is valid, the registry is bound and an account is authorized.
func (o *RegistrationOrchestrator) actingAccount(networkOK bool) (string, bool) {
	if !networkOK {
		o.logger.Info("Network not valid for registration", zap.Error(domain.ErrNetworkMismatch))
		return "", false
	}
	if _, bound := o.registry.Binding(); !bound {
		o.logger.Info("Registration halted", zap.Error(domain.ErrRegistryUnbound))
		return "", false
	}
	account, ok := o.session.Snapshot().Account()
	if !ok {
		o.logger.Info("Registration halted, no authorized account")
		return "", false
	}
	return account, true
}

func (o *RegistrationOrchestrator) resolveConflict(ctx context.Context, out *entity.Outcome, account string) {
	o.enter(out, entity.StateConflictResolving)
	o.logger.Info("Requested name is taken", zap.String("name", out.Requested), zap.Error(domain.ErrConflictExists))

	out.Suggestions = o.suggester.Suggest(ctx, account, out.Requested)
	if len(out.Suggestions) == 0 {
		o.enter(out, entity.StateCancelled)
		return
	}

	if o.prompter == nil {
		o.enter(out, entity.StateCancelled)
		return
	}
	choice, ok := o.prompter.Choose(ctx, out.Requested, out.Suggestions)
	if !ok || choice == "" {
		o.enter(out, entity.StateCancelled)
		return
	}

	// The selection replaces the pending name; it is not submitted until the
	// user submits again.
	out.PendingName = choice
	o.enter(out, entity.StateIdle)
}
