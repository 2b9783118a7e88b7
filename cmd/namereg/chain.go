package main

import (
	"fmt"

	"namereg/internal/adapter/storage/chainlist"
	"namereg/internal/adapter/storage/memory"
	"namereg/internal/application"
	"namereg/internal/config"
	"namereg/internal/domain/entity"
	"namereg/internal/logger"

	"github.com/spf13/cobra"
)

func newChainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chain <chainId>",
		Short: "Look up a chain's display name in the chain catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := entity.NormalizeChainID(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Logger, true)
			defer log.Sync()

			catalog := application.NewChainCatalog(chainlist.NewRepository(cfg.Chainlist, log), memory.NewCatalogStore(log), log)
			catalog.Load(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), catalog.Lookup(chainID))
			return nil
		},
	}
}
