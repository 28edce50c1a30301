// Package docker implements server.Runtime against the Docker Engine
// API.
package docker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gamedock/internal/server"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

var _ server.Runtime = (*Runtime)(nil)

// Runtime drives a local Docker daemon.
type Runtime struct {
	cli *client.Client
}

// NewRuntime creates a Runtime with a new Docker client from the
// environment.
func NewRuntime() (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Runtime{cli: cli}, nil
}

// NewRuntimeFromClient wraps an existing Docker client.
func NewRuntimeFromClient(cli *client.Client) *Runtime {
	return &Runtime{cli: cli}
}

func (r *Runtime) Close() error {
	return r.cli.Close()
}

func (r *Runtime) CreateVolume(ctx context.Context, name string) error {
	if _, err := r.cli.VolumeCreate(ctx, volume.CreateOptions{Name: name}); err != nil {
		return fmt.Errorf("create volume %q: %w", name, err)
	}
	return nil
}

func (r *Runtime) VolumeExists(ctx context.Context, name string) (bool, error) {
	if _, err := r.cli.VolumeInspect(ctx, name); err != nil {
		if errdefs.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("inspect volume %q: %w", name, err)
	}
	return true, nil
}

func (r *Runtime) RemoveVolume(ctx context.Context, name string) error {
	if err := r.cli.VolumeRemove(ctx, name, false); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("remove volume %q: %w", name, err)
	}
	return nil
}

// RunEphemeral runs the job container to completion and returns its
// exit status. The container is force-removed on every exit path.
func (r *Runtime) RunEphemeral(ctx context.Context, job server.EphemeralJob) (int, error) {
	cc := &container.Config{
		Image: job.Image,
		Cmd:   job.Cmd,
		Env:   job.Env,
	}
	hc := &container.HostConfig{Mounts: volumeMounts(job.Mounts)}

	resp, err := r.cli.ContainerCreate(ctx, cc, hc, nil, nil, "")
	if err != nil {
		if !errdefs.IsNotFound(err) {
			return 0, fmt.Errorf("create worker container: %w", err)
		}
		if err := r.pullImage(ctx, job.Image); err != nil {
			return 0, err
		}
		if resp, err = r.cli.ContainerCreate(ctx, cc, hc, nil, nil, ""); err != nil {
			return 0, fmt.Errorf("create worker container after pull: %w", err)
		}
	}
	defer func() {
		// Cleanup must survive ctx cancellation.
		rmCtx := context.WithoutCancel(ctx)
		if err := r.cli.ContainerRemove(rmCtx, resp.ID, container.RemoveOptions{Force: true}); err != nil && !errdefs.IsNotFound(err) {
			slog.Warn("Failed to remove worker container.", "id", resp.ID, "err", err)
		}
	}()

	if err := r.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return 0, fmt.Errorf("start worker container: %w", err)
	}

	waitCh, errCh := r.cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case res := <-waitCh:
		if res.Error != nil {
			return 0, fmt.Errorf("wait for worker: %s", res.Error.Message)
		}
		return int(res.StatusCode), nil
	case err := <-errCh:
		return 0, fmt.Errorf("wait for worker: %w", err)
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// CreateAndStart creates the server container from the launch spec and
// starts it, pulling the image when it is not available locally.
func (r *Runtime) CreateAndStart(ctx context.Context, spec server.LaunchSpec) error {
	tcpPort := nat.Port(fmt.Sprintf("%d/tcp", spec.Port))
	udpPort := nat.Port(fmt.Sprintf("%d/udp", spec.Port))
	hostBinding := []nat.PortBinding{{HostPort: fmt.Sprintf("%d", spec.Port)}}

	cc := &container.Config{
		Image: spec.Image,
		Cmd:   spec.Cmd,
		ExposedPorts: nat.PortSet{
			tcpPort: struct{}{},
			udpPort: struct{}{},
		},
	}
	hc := &container.HostConfig{
		RestartPolicy: container.RestartPolicy{
			Name: container.RestartPolicyUnlessStopped,
		},
		Mounts: volumeMounts(spec.Mounts),
		PortBindings: nat.PortMap{
			tcpPort: hostBinding,
			udpPort: hostBinding,
		},
	}

	_, err := r.cli.ContainerCreate(ctx, cc, hc, nil, nil, spec.Name)
	if err != nil {
		if !errdefs.IsNotFound(err) {
			return fmt.Errorf("create container: %w", err)
		}
		if err := r.pullImage(ctx, spec.Image); err != nil {
			return err
		}
		if _, err = r.cli.ContainerCreate(ctx, cc, hc, nil, nil, spec.Name); err != nil {
			return fmt.Errorf("create container after pull: %w", err)
		}
	}

	if err := r.cli.ContainerStart(ctx, spec.Name, container.StartOptions{}); err != nil {
		return fmt.Errorf("start container: %w", err)
	}
	return nil
}

func (r *Runtime) Restart(ctx context.Context, name string) error {
	if err := r.cli.ContainerRestart(ctx, name, container.StopOptions{}); err != nil {
		return fmt.Errorf("restart container %q: %w", name, err)
	}
	return nil
}

func (r *Runtime) ForceRemove(ctx context.Context, name string) error {
	if err := r.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true}); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("remove container %q: %w", name, err)
	}
	return nil
}

// List returns structured status for containers whose name matches
// exactly. The docker name filter matches substrings, so results are
// narrowed here.
func (r *Runtime) List(ctx context.Context, name string) ([]server.Instance, error) {
	summaries, err := r.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	var out []server.Instance
	for _, c := range summaries {
		if !hasName(c.Names, name) {
			continue
		}
		inst := server.Instance{
			Name:    name,
			Image:   c.Image,
			Running: c.State == "running",
			Status:  c.Status,
		}
		for _, p := range c.Ports {
			inst.Ports = append(inst.Ports, server.PortBinding{
				HostPort:      p.PublicPort,
				ContainerPort: p.PrivatePort,
				Protocol:      p.Type,
			})
		}
		out = append(out, inst)
	}
	return out, nil
}

// FollowLogs streams container output, demultiplexing the docker stream
// framing onto stdout and stderr. It blocks until ctx is cancelled or
// the stream ends.
func (r *Runtime) FollowLogs(ctx context.Context, name string, stdout, stderr io.Writer) error {
	rc, err := r.cli.ContainerLogs(ctx, name, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return fmt.Errorf("container logs %q: %w", name, err)
	}
	defer rc.Close()

	if _, err := stdcopy.StdCopy(stdout, stderr, rc); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream logs %q: %w", name, err)
	}
	return ctx.Err()
}

func (r *Runtime) pullImage(ctx context.Context, img string) error {
	slog.Info("Pulling image.", "image", img)
	resp, err := r.cli.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", img, err)
	}
	defer resp.Close()
	// Drain the pull output to completion.
	if _, err := io.Copy(io.Discard, resp); err != nil {
		return fmt.Errorf("pull image %s: read response: %w", img, err)
	}
	return nil
}

func volumeMounts(mounts []server.Mount) []mount.Mount {
	var out []mount.Mount
	for _, m := range mounts {
		out = append(out, mount.Mount{
			Type:     mount.TypeVolume,
			Source:   m.Volume,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}
	return out
}

func hasName(names []string, want string) bool {
	for _, n := range names {
		if strings.TrimPrefix(n, "/") == want {
			return true
		}
	}
	return false
}
