// Command gamedock deploys and manages a single containerized game
// server: persistent volumes, a staged game bundle, an initialized
// configuration, and the running server container.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gamedock/cmd/gamedock/ui"
	"gamedock/internal/config"
	"gamedock/internal/logging"
	"gamedock/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	var debug bool

	if err := logging.Configure(logging.LevelInfo); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	interactive := ui.Configure()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "gamedock",
		Short:         "Deploy and manage a containerized game server",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelInfo
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cfg.BindFlags(root)

	root.AddCommand(
		bootstrapCmd(&cfg),
		upCmd(&cfg),
		restartCmd(&cfg),
		downCmd(&cfg),
		updateAssetCmd(&cfg),
		statusCmd(&cfg),
		logsCmd(&cfg),
		purgeCmd(&cfg, interactive),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, server.ErrAborted) {
			fmt.Fprintln(os.Stderr, ui.WarnMsg("aborted, nothing was changed"))
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
