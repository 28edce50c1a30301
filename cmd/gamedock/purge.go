package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gamedock/cmd/gamedock/ui"
	"gamedock/internal/config"
	"gamedock/internal/server"

	"github.com/spf13/cobra"
)

// purgeToken is what the user must type to confirm destruction.
const purgeToken = "yes"

func purgeCmd(cfg *config.Config, interactive bool) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Destroy the server container and all persistent volumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeRT, err := newServer(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRT()

			return runPurge(cmd.Context(), cmd.OutOrStdout(), srv, *cfg, purgeConfirm(yes, interactive))
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

// purgeConfirm picks the confirmation strategy: --yes bypasses the
// prompt, non-interactive terminals cannot confirm at all.
func purgeConfirm(yes, interactive bool) func() (bool, error) {
	if yes {
		return func() (bool, error) { return true, nil }
	}
	if !interactive {
		return func() (bool, error) {
			return false, errors.New("confirmation required: re-run with --yes or from an interactive terminal")
		}
	}
	return func() (bool, error) {
		return ui.ConfirmToken("Destroy everything?", purgeToken)
	}
}

// runPurge enumerates exactly what is about to be destroyed, asks for
// confirmation, and only then mutates anything. A declined confirmation
// leaves the host untouched.
func runPurge(ctx context.Context, out io.Writer, srv *server.Server, cfg config.Config, confirm func() (bool, error)) error {
	fmt.Fprintln(out, ui.WarnMsg("this permanently destroys:"))
	fmt.Fprintln(out, ui.Muted("  container "+cfg.Name))
	for _, v := range cfg.Volumes() {
		fmt.Fprintln(out, ui.Muted("  volume "+v+" and everything in it"))
	}

	ok, err := confirm()
	if err != nil {
		return err
	}
	if !ok {
		return server.ErrAborted
	}

	if err := srv.Purge(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, ui.SuccessMsg("%s purged", cfg.Name))
	return nil
}
