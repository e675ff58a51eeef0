package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/daemon"
)

func (a *app) daemonCommand() *cobra.Command {
	var display string
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the tiling daemon in the foreground",
		Long: `Run the tiling daemon in the foreground.

The daemon tiles managed windows, grabs the configured key bindings and
serves the control socket used by the other commands. Send SIGHUP or run
'treetile reload' to re-read the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			return daemon.Run(cmd.Context(), daemon.Options{
				ConfigPath: a.configPath,
				Display:    display,
				Logger:     slogFromContext(cmd.Context()),
				OnConfig: func(cfg *config.Config) {
					if !a.verbose {
						logger.SetLevel(configLevel(cfg.LogLevel))
					}
				},
			})
		},
	}
	cmd.Flags().StringVar(&display, "display", "", "X display to connect to (default: $DISPLAY)")
	return cmd
}
