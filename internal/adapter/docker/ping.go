package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
)

// Ping verifies the daemon is reachable before any operation runs.
func (r *Runtime) Ping(ctx context.Context) error {
	if _, err := r.cli.Ping(ctx); err != nil {
		if client.IsErrConnectionFailed(err) {
			return fmt.Errorf("docker daemon unreachable, is it running?: %w", err)
		}
		return fmt.Errorf("ping docker daemon: %w", err)
	}
	return nil
}
