package application

import (
	"context"

	"namereg/internal/application/port"
	"namereg/internal/config"
	"namereg/internal/domain/entity"
	domainRepo "namereg/internal/domain/repository"
	domainService "namereg/internal/domain/service"

	"go.uber.org/zap"
)

// Deps are the adapters a Client is assembled from. Provider and Contract may be
// nil: without a wallet or a configured contract the client degrades to blank
// reads and no-op submissions.
type Deps struct {
	Provider  domainService.Provider
	Contract  domainService.NameRegistry
	ChainRepo domainRepo.ChainRepository
	Store     domainRepo.CatalogStore
	Prompter  domainService.Prompter
	Source    RandomSource
}

// Client is one user session with every component wired together.
type Client struct {
	Session      *Session
	Catalog      *ChainCatalog
	Reconciler   *NetworkReconciler
	Registry     *RegistryClient
	Suggestions  *SuggestionEngine
	Display      *DisplayRefresher
	Orchestrator *RegistrationOrchestrator

	logger *zap.Logger
}

// NewClient assembles a client and subscribes its dependents to session changes.
func NewClient(cfg config.Config, deps Deps, logger *zap.Logger) *Client {
	session := NewSession(deps.Provider, logger)
	catalog := NewChainCatalog(deps.ChainRepo, deps.Store, logger)
	reconciler := NewNetworkReconciler(session, logger)
	registry := NewRegistryClient(session, deps.Contract, cfg.Registry.ChainID, cfg.Registry.ConfirmTimeout, logger)
	suggestions := NewSuggestionEngine(registry, deps.Source, cfg.Suggestion.Count, logger)
	display := NewDisplayRefresher(session, catalog, registry, logger)
	orchestrator := NewRegistrationOrchestrator(session, reconciler, registry, suggestions, deps.Prompter, display, logger)

	c := &Client{
		Session:      session,
		Catalog:      catalog,
		Reconciler:   reconciler,
		Registry:     registry,
		Suggestions:  suggestions,
		Display:      display,
		Orchestrator: orchestrator,
		logger:       logger.Named("Client"),
	}
	session.OnChange(c.onSessionChange)
	return c
}

func (c *Client) onSessionChange(ctx context.Context, ev entity.SessionEvent, state entity.SessionState) {
	if ev.Kind == entity.EventChainChanged {
		c.Reconciler.Reconcile(ctx, state.ChainID, c.Registry.RequiredChainID())
	}
	c.Display.Refresh(ctx)
}

// Start loads the catalog, connects the wallet, reconciles the network and
// computes the first display state. It returns the authorized accounts.
func (c *Client) Start(ctx context.Context) []string {
	c.Catalog.Load(ctx)
	accounts := c.Session.Connect(ctx)

	snap := c.Session.Snapshot()
	c.Reconciler.Reconcile(ctx, snap.ChainID, c.Registry.RequiredChainID())
	c.Display.Refresh(ctx)

	c.logger.Info("Session started",
		zap.Bool("providerPresent", snap.ProviderPresent),
		zap.Int("accounts", len(accounts)),
		zap.String("chainId", snap.ChainID))
	return accounts
}

// Run propagates wallet events until ctx ends or the wallet disconnects.
func (c *Client) Run(ctx context.Context) {
	c.Session.Run(ctx)
}

// Compile-time checks
var (
	_ port.Registration = (*RegistrationOrchestrator)(nil)
	_ port.Display      = (*DisplayRefresher)(nil)
	_ port.Catalog      = (*ChainCatalog)(nil)
)
