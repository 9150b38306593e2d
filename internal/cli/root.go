package cli

import (
	"context"
	"os"

	"github.com/danmuck/runecheck/internal/logging"
	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "runecheck",
		Short:        "Strict UTF-8 decoding from files, stdin or HTTP",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.ConfigureRuntime()
			if logLevel != "" {
				logging.SetLevel(logLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (trace|debug|info|warn|error|off)")
	cmd.AddCommand(decodeCmd(), bytesCmd(), serveCmd(), configCmd())
	return cmd
}
