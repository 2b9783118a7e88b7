package application

import (
	"context"
	"sync"

	"namereg/internal/domain/entity"
	domainService "namereg/internal/domain/service"

	"go.uber.org/zap"
)

// ChangeListener is told about every applied session event together with the
// state it produced.
type ChangeListener func(ctx context.Context, ev entity.SessionEvent, state entity.SessionState)

// Session owns the wallet-side state of one user session. Apply is the only
// writer; everyone else reads copies through Snapshot.
type Session struct {
	provider domainService.Provider
	logger   *zap.Logger

	mu        sync.RWMutex
	state     entity.SessionState
	version   uint64
	listeners []ChangeListener
}

// NewSession creates a session around provider, which may be nil when no wallet
// is available.
func NewSession(provider domainService.Provider, logger *zap.Logger) *Session {
	return &Session{
		provider: provider,
		logger:   logger.Named("WalletSession"),
		state:    entity.SessionState{ProviderPresent: provider != nil},
	}
}

// Provider returns the attached provider, or nil once none is present.
func (s *Session) Provider() domainService.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.ProviderPresent {
		return nil
	}
	return s.provider
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() entity.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Version increases with every applied event. A reader that saw the same version
// before and after a suspension knows the state did not move underneath it.
func (s *Session) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// OnChange registers l for every event applied by Run.
func (s *Session) OnChange(l ChangeListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Apply folds ev into the state and returns the new state.
func (s *Session) Apply(ev entity.SessionEvent) entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case entity.EventAccountsChanged:
		s.state.Accounts = append([]string(nil), ev.Accounts...)
	case entity.EventChainChanged:
		s.state.ChainID = ev.ChainID
	case entity.EventProviderDetached:
		s.state = entity.SessionState{}
	}
	s.version++

	s.logger.Debug("Session event applied",
		zap.Stringer("kind", ev.Kind),
		zap.Strings("accounts", s.state.Accounts),
		zap.String("chainId", s.state.ChainID),
		zap.Bool("providerPresent", s.state.ProviderPresent),
	)
	return s.state.Clone()
}

// Connect requests account authorization and records the resulting accounts and
// active chain. It returns the authorized accounts, empty when the user refused
// or no provider is present.
func (s *Session) Connect(ctx context.Context) []string {
	p := s.Provider()
	if p == nil {
		s.logger.Info("No wallet provider, session stays empty")
		return nil
	}

	accounts, err := p.RequestAccounts(ctx)
	if err != nil {
		s.logger.Warn("Account authorization failed", zap.Error(err))
		accounts = nil
	}
	s.Apply(entity.SessionEvent{Kind: entity.EventAccountsChanged, Accounts: accounts})

	if chainID, ok := s.ActiveChainID(ctx); ok {
		s.Apply(entity.SessionEvent{Kind: entity.EventChainChanged, ChainID: chainID})
	}
	return accounts
}

// ActiveChainID asks the provider for its active chain, in decimal form.
func (s *Session) ActiveChainID(ctx context.Context) (string, bool) {
	p := s.Provider()
	if p == nil {
		return "", false
	}
	chainID, err := p.ChainID(ctx)
	if err != nil {
		s.logger.Warn("Failed to read active chain id", zap.Error(err))
		return "", false
	}
	return chainID, true
}

// Run consumes provider events until ctx ends or the provider disconnects,
// applying each one and propagating it to the registered listeners in order.
func (s *Session) Run(ctx context.Context) {
	p := s.Provider()
	if p == nil {
		return
	}
	events := p.Events()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				s.logger.Warn("Wallet provider disconnected")
				ev = entity.SessionEvent{Kind: entity.EventProviderDetached}
			}
			s.dispatch(ctx, ev)
			if !ok {
				return
			}
		}
	}
}

// dispatch applies ev and tells every listener about it. Listeners may dispatch
// again; the reconciler does so after a switch it requested.
func (s *Session) dispatch(ctx context.Context, ev entity.SessionEvent) {
	state := s.Apply(ev)

	s.mu.RLock()
	listeners := append([]ChangeListener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, ev, state)
	}
}
