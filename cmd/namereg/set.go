package main

import (
	"fmt"
	"os"

	"namereg/internal/adapter/prompt"
	"namereg/internal/config"
	"namereg/internal/domain/entity"
	domainService "namereg/internal/domain/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Register a name for your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			terminal := func(*config.Config, *zap.Logger) domainService.Prompter {
				return prompt.NewTerminal(os.Stdin, out)
			}
			s, err := openSession(cmd.Context(), opts, terminal, true)
			if err != nil {
				return err
			}
			defer s.close()

			s.client.Start(cmd.Context())
			outcome, err := s.client.Orchestrator.Submit(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch outcome.Final {
			case entity.StateConfirmed:
				fmt.Fprintf(out, "Name set to %s (tx %s)\n", s.client.Display.Current().Name, outcome.TxHash)
			case entity.StateIdle:
				fmt.Fprintf(out, "Selected %s; run `namereg set %s` to register it\n", outcome.PendingName, outcome.PendingName)
			case entity.StateNetworkInvalid:
				fmt.Fprintln(out, "Wallet is not ready for the registry network; nothing was submitted")
			case entity.StateCancelled:
				fmt.Fprintln(out, "Cancelled")
			default:
				fmt.Fprintln(out, "Submission failed")
			}
			return nil
		},
	}
}
