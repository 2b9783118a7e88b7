package main

import (
	"context"

	"namereg/internal/adapter/registry"
	"namereg/internal/adapter/storage/chainlist"
	"namereg/internal/adapter/storage/memory"
	"namereg/internal/adapter/wallet"
	"namereg/internal/application"
	"namereg/internal/config"
	"namereg/internal/domain"
	domainService "namereg/internal/domain/service"
	"namereg/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "namereg",
		Short: "Read and update your name in an on-chain name registry",
		Long: `namereg connects to a wallet bridge, makes sure the wallet is on the network the
name registry is deployed on, and lets you read or register the name stored for
your first authorized account. When a name is taken it proposes free alternatives.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "configs", "directory holding config.yaml")

	cmd.AddCommand(
		newServeCmd(opts),
		newShowCmd(opts),
		newSetCmd(opts),
		newChainCmd(opts),
	)
	return cmd
}

// session bundles what a command needs for the lifetime of one run.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	client *application.Client
	close  func()
}

// prompterFactory builds the conflict prompt surface once config and logger exist.
type prompterFactory func(cfg *config.Config, log *zap.Logger) domainService.Prompter

// openSession loads configuration, dials the wallet and assembles the client.
// A wallet that cannot be reached is not an error: the client runs without one.
func openSession(ctx context.Context, opts *rootOptions, newPrompter prompterFactory, logToStderr bool) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logger, logToStderr)

	var provider domainService.Provider
	closeProvider := func() {}
	if p, err := wallet.Dial(ctx, cfg.Provider, log); err != nil {
		log.Warn("Running without a wallet", zap.Error(domain.ErrProviderUnavailable), zap.NamedError("cause", err))
	} else {
		provider = p
		closeProvider = func() { _ = p.Close() }
	}

	var contract domainService.NameRegistry
	if c, err := registry.NewContract(cfg.Registry.Address, cfg.Registry.GetReceiptPollInterval(), log); err != nil {
		log.Warn("Registry contract not configured, registry operations disabled", zap.Error(err))
	} else {
		contract = c
	}

	client := application.NewClient(*cfg, application.Deps{
		Provider:  provider,
		Contract:  contract,
		ChainRepo: chainlist.NewRepository(cfg.Chainlist, log),
		Store:     memory.NewCatalogStore(log),
		Prompter:  newPrompter(cfg, log),
		Source:    application.UUIDSource{},
	}, log)

	return &session{
		cfg:    cfg,
		logger: log,
		client: client,
		close: func() {
			closeProvider()
			_ = log.Sync()
		},
	}, nil
}
