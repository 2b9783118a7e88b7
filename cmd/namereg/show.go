package main

import (
	"encoding/json"
	"fmt"
	"io"

	"namereg/internal/config"
	"namereg/internal/domain/entity"
	domainService "namereg/internal/domain/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func noPrompter(*config.Config, *zap.Logger) domainService.Prompter { return nil }

func newShowCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current network, balance and registered name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts, noPrompter, true)
			if err != nil {
				return err
			}
			defer s.close()

			s.client.Start(cmd.Context())
			return renderDisplay(cmd.OutOrStdout(), s.client.Display.Current(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	return cmd
}

func renderDisplay(w io.Writer, state entity.DisplayState, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(state)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
