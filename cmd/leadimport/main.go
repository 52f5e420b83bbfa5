package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/oneconsig-crm/internal/config"
	"github.com/xavierca1/oneconsig-crm/internal/infra/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "leadimport",
		Short:         "Importa mailings CSV direto no banco de leads",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.AppEnv)
			if err != nil {
				return fmt.Errorf("erro ao criar logger: %w", err)
			}
			zap.ReplaceGlobals(logger)
			return nil
		},
	}
	cmd.AddCommand(newCheckCmd(), newRunCmd(), newHandoffCmd())
	return cmd
}
