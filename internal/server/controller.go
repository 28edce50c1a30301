package server

import (
	"context"
	"fmt"
	"log/slog"
)

// Controller drives the server container between Absent, Stopped and
// Running. It is the only component that mutates container state.
type Controller struct {
	rt   Runtime
	spec LaunchSpec
}

func NewController(rt Runtime, spec LaunchSpec) *Controller {
	return &Controller{rt: rt, spec: spec}
}

// State reports the current lifecycle state of the server container.
func (c *Controller) State(ctx context.Context) (State, error) {
	list, err := c.rt.List(ctx, c.spec.Name)
	if err != nil {
		return StateAbsent, fmt.Errorf("list container %q: %w", c.spec.Name, err)
	}
	if len(list) == 0 {
		return StateAbsent, nil
	}
	if list[0].Running {
		return StateRunning, nil
	}
	return StateStopped, nil
}

// EnsureRunning converges the container to Running. A running container
// is restarted in place so it picks up staged bundles and config edits
// without losing its identity. A stopped container is recreated from the
// launch spec; its removal is best-effort.
func (c *Controller) EnsureRunning(ctx context.Context) error {
	state, err := c.State(ctx)
	if err != nil {
		return err
	}

	switch state {
	case StateRunning:
		slog.Info("Server running, restarting in place.", "name", c.spec.Name)
		if err := c.rt.Restart(ctx, c.spec.Name); err != nil {
			return fmt.Errorf("restart container %q: %w", c.spec.Name, err)
		}
		return nil
	case StateStopped:
		slog.Info("Replacing stopped server container.", "name", c.spec.Name)
		if err := c.rt.ForceRemove(ctx, c.spec.Name); err != nil {
			slog.Warn("Failed to remove stopped container, creating anyway.", "name", c.spec.Name, "err", err)
		}
	case StateAbsent:
		slog.Info("Creating server container.", "name", c.spec.Name)
	}

	if err := c.rt.CreateAndStart(ctx, c.spec); err != nil {
		return fmt.Errorf("create container %q: %w", c.spec.Name, err)
	}
	return nil
}

// Stop removes the server container. Removal failure is logged, not
// fatal: the volumes hold all persistent state and a later up recreates
// the container anyway.
func (c *Controller) Stop(ctx context.Context) error {
	state, err := c.State(ctx)
	if err != nil {
		return err
	}
	if state == StateAbsent {
		slog.Warn("Server container not found, nothing to stop.", "name", c.spec.Name)
		return nil
	}
	if err := c.rt.ForceRemove(ctx, c.spec.Name); err != nil {
		slog.Warn("Failed to remove server container.", "name", c.spec.Name, "err", err)
		return nil
	}
	slog.Info("Server stopped.", "name", c.spec.Name)
	return nil
}

// Restart restarts the container in place, or brings it up from the
// launch spec when no container exists.
func (c *Controller) Restart(ctx context.Context) error {
	state, err := c.State(ctx)
	if err != nil {
		return err
	}
	if state == StateAbsent {
		slog.Info("Server container not found, bringing up instead.", "name", c.spec.Name)
		return c.EnsureRunning(ctx)
	}
	if err := c.rt.Restart(ctx, c.spec.Name); err != nil {
		return fmt.Errorf("restart container %q: %w", c.spec.Name, err)
	}
	return nil
}

// Destroy removes the container unconditionally. Only purge calls this.
func (c *Controller) Destroy(ctx context.Context) error {
	if err := c.rt.ForceRemove(ctx, c.spec.Name); err != nil {
		return fmt.Errorf("remove container %q: %w", c.spec.Name, err)
	}
	return nil
}
