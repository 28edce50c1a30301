package main

import (
	"fmt"
	"strings"

	"gamedock/cmd/gamedock/ui"
	"gamedock/internal/config"
	"gamedock/internal/server"

	"github.com/spf13/cobra"
)

func statusCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server and volume state",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeRT, err := newServer(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer closeRT()

			st, err := srv.Inspect(cmd.Context())
			if err != nil {
				return err
			}

			pairs := []ui.Pair{
				ui.KV("server", st.Name),
				ui.KV("state", ui.StateText(st.State.String())),
			}
			if st.Image != "" {
				pairs = append(pairs, ui.KV("image", st.Image))
			}
			if st.Detail != "" {
				pairs = append(pairs, ui.KV("detail", st.Detail))
			}
			if len(st.Ports) > 0 {
				pairs = append(pairs, ui.KV("ports", portsText(st.Ports)))
			}
			for _, v := range st.Volumes {
				state := ui.SuccessStyle.Render("present")
				if !v.Exists {
					state = ui.ErrorStyle.Render("missing")
				}
				pairs = append(pairs, ui.KV("volume "+v.Name, state))
			}
			fmt.Print(ui.KeyValues("", pairs...))
			return nil
		},
	}
}

func portsText(ports []server.PortBinding) string {
	var parts []string
	for _, p := range ports {
		parts = append(parts, fmt.Sprintf("%d->%d/%s", p.HostPort, p.ContainerPort, p.Protocol))
	}
	return strings.Join(parts, ", ")
}
