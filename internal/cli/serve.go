package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/danmuck/runecheck/internal/config"
	"github.com/danmuck/runecheck/internal/logging"
	"github.com/danmuck/runecheck/internal/observability"
	"github.com/danmuck/runecheck/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var configPath string
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decoder over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServiceConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if !cmd.Flags().Changed("log-level") && !logging.SetLevel(cfg.LogLevel) {
				log.Warn().Str("log_level", cfg.LogLevel).Msg("ignoring unknown log level")
			}
			gin.SetMode(gin.ReleaseMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Str("config", configPath).Str("addr", cfg.Addr).Msg("starting runecheck")
			srv, err := server.New(cfg, observability.ComponentLogger(cfg.ID, "http"))
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	c.Flags().StringVarP(&configPath, "config", "c", "", "TOML config path (defaults apply when omitted)")
	c.Flags().StringVar(&addr, "addr", "", "listen address override")
	return c
}

func configCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Create, check and print runecheck config files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write an example config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(args[0], force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	checkCmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Validate a config file, rejecting unknown keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CheckStrict(args[0]); err != nil {
				return err
			}
			if _, err := loadServiceConfig(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return err
		},
	}

	var showPath string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServiceConfig(showPath)
			if err != nil {
				return err
			}
			out, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	showCmd.Flags().StringVarP(&showPath, "config", "c", "", "TOML config path")

	c.AddCommand(initCmd, checkCmd, showCmd)
	return c
}
