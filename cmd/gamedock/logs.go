package main

import (
	"fmt"
	"os"

	"gamedock/cmd/gamedock/ui"
	"gamedock/internal/config"

	"github.com/spf13/cobra"
)

func logsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Follow server logs until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeRT, err := newServer(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRT()

			fmt.Fprintln(os.Stderr, ui.Muted("following logs, ctrl-c to stop"))
			return srv.Logs(cmd.Context(), os.Stdout, os.Stderr)
		},
	}
}
