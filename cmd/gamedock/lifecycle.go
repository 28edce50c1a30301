package main

import (
	"fmt"

	"gamedock/cmd/gamedock/ui"
	"gamedock/internal/config"

	"github.com/spf13/cobra"
)

func bootstrapCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Provision volumes, fetch the game bundle, and start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeRT, err := newServer(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRT()

			if err := srv.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("%s bootstrapped and running on port %d", cfg.Name, cfg.Port))
			return nil
		},
	}
}

func upCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Converge to a running server, fetching the bundle only when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeRT, err := newServer(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRT()

			if err := srv.Up(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("%s running on port %d", cfg.Name, cfg.Port))
			return nil
		},
	}
}

func restartCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the server, bringing it up when absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeRT, err := newServer(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRT()

			if err := srv.Restart(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("%s restarted", cfg.Name))
			return nil
		},
	}
}

func downCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the server container, keeping all data",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeRT, err := newServer(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRT()

			if err := srv.Down(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("%s stopped", cfg.Name))
			fmt.Println(ui.Muted("  volumes kept, use up to start again"))
			return nil
		},
	}
}

func updateAssetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "update-asset",
		Short: "Re-fetch the game bundle and reload a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeRT, err := newServer(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRT()

			if err := srv.UpdateGame(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("game %s updated", cfg.Game))
			return nil
		},
	}
}
