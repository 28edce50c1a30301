package main

import (
	"context"

	"gamedock/internal/adapter/docker"
	"gamedock/internal/config"
	"gamedock/internal/server"
)

// newServer wires the orchestrator to a Docker runtime. The returned
// close function releases the Docker client.
func newServer(ctx context.Context, cfg config.Config) (*server.Server, func() error, error) {
	rt, err := docker.NewRuntime()
	if err != nil {
		return nil, nil, err
	}
	if err := rt.Ping(ctx); err != nil {
		_ = rt.Close()
		return nil, nil, err
	}
	return server.New(cfg, rt), rt.Close, nil
}
