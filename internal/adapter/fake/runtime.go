// Package fake provides an in-memory server.Runtime for tests.
package fake

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gamedock/internal/server"
)

var _ server.Runtime = (*Runtime)(nil)

type instanceState struct {
	Spec    server.LaunchSpec
	Running bool
}

// Runtime is an in-memory implementation of server.Runtime. It tracks
// volumes and containers like a tiny Docker host and records every call
// for assertion.
type Runtime struct {
	CallRecorder
	mu        sync.Mutex
	volumes   map[string]bool
	instances map[string]*instanceState

	// EphemeralExit decides the exit status of ephemeral jobs. Nil
	// means every job exits 0.
	EphemeralExit func(job server.EphemeralJob) int
	// LogLines is written to stdout by FollowLogs.
	LogLines []string

	CreateVolumeErr   error
	VolumeExistsErr   error
	RemoveVolumeErr   error
	RunEphemeralErr   error
	CreateAndStartErr error
	RestartErr        error
	ForceRemoveErr    error
	ListErr           error
	FollowLogsErr     error
}

func NewRuntime() *Runtime {
	return &Runtime{
		volumes:   make(map[string]bool),
		instances: make(map[string]*instanceState),
	}
}

func (r *Runtime) CreateVolume(ctx context.Context, name string) error {
	r.record("CreateVolume", name)
	if r.CreateVolumeErr != nil {
		return r.CreateVolumeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.volumes[name] {
		return fmt.Errorf("volume %q already exists", name)
	}
	r.volumes[name] = true
	return nil
}

func (r *Runtime) VolumeExists(ctx context.Context, name string) (bool, error) {
	r.record("VolumeExists", name)
	if r.VolumeExistsErr != nil {
		return false, r.VolumeExistsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volumes[name], nil
}

func (r *Runtime) RemoveVolume(ctx context.Context, name string) error {
	r.record("RemoveVolume", name)
	if r.RemoveVolumeErr != nil {
		return r.RemoveVolumeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.volumes, name)
	return nil
}

func (r *Runtime) RunEphemeral(ctx context.Context, job server.EphemeralJob) (int, error) {
	r.record("RunEphemeral", job)
	if r.RunEphemeralErr != nil {
		return 0, r.RunEphemeralErr
	}
	if r.EphemeralExit != nil {
		return r.EphemeralExit(job), nil
	}
	return 0, nil
}

func (r *Runtime) CreateAndStart(ctx context.Context, spec server.LaunchSpec) error {
	r.record("CreateAndStart", spec)
	if r.CreateAndStartErr != nil {
		return r.CreateAndStartErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[spec.Name] = &instanceState{Spec: spec, Running: true}
	return nil
}

func (r *Runtime) Restart(ctx context.Context, name string) error {
	r.record("Restart", name)
	if r.RestartErr != nil {
		return r.RestartErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[name]
	if !ok {
		return fmt.Errorf("container %q not found", name)
	}
	inst.Running = true
	return nil
}

func (r *Runtime) ForceRemove(ctx context.Context, name string) error {
	r.record("ForceRemove", name)
	if r.ForceRemoveErr != nil {
		return r.ForceRemoveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, name)
	return nil
}

func (r *Runtime) List(ctx context.Context, name string) ([]server.Instance, error) {
	r.record("List", name)
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[name]
	if !ok {
		return nil, nil
	}
	out := server.Instance{
		Name:    name,
		Image:   inst.Spec.Image,
		Running: inst.Running,
	}
	if inst.Spec.Port != 0 {
		for _, proto := range []string{"tcp", "udp"} {
			out.Ports = append(out.Ports, server.PortBinding{
				HostPort:      inst.Spec.Port,
				ContainerPort: inst.Spec.Port,
				Protocol:      proto,
			})
		}
	}
	return []server.Instance{out}, nil
}

func (r *Runtime) FollowLogs(ctx context.Context, name string, stdout, stderr io.Writer) error {
	r.record("FollowLogs", name)
	if r.FollowLogsErr != nil {
		return r.FollowLogsErr
	}
	for _, line := range r.LogLines {
		fmt.Fprintln(stdout, line)
	}
	return nil
}

// SetVolume seeds volume state without recording a call.
func (r *Runtime) SetVolume(name string, exists bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if exists {
		r.volumes[name] = true
	} else {
		delete(r.volumes, name)
	}
}

// SetInstance seeds container state without recording a call.
func (r *Runtime) SetInstance(spec server.LaunchSpec, running bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[spec.Name] = &instanceState{Spec: spec, Running: running}
}

// Instance returns the current state of a named container, if any.
func (r *Runtime) Instance(name string) (server.LaunchSpec, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[name]
	if !ok {
		return server.LaunchSpec{}, false, false
	}
	return inst.Spec, inst.Running, true
}

// Volumes returns the names of existing volumes.
func (r *Runtime) Volumes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for name := range r.volumes {
		out = append(out, name)
	}
	return out
}
