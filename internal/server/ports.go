package server

import (
	"context"
	"io"
)

// Runtime is the container runtime consumed by the orchestrator.
// In production this is the Docker Engine API; in tests it is a fake
// recording calls against an in-memory host state.
type Runtime interface {
	// CreateVolume creates a named volume. Creating an existing volume
	// is an error; callers gate on VolumeExists.
	CreateVolume(ctx context.Context, name string) error
	VolumeExists(ctx context.Context, name string) (bool, error)
	// RemoveVolume removes a named volume. Removing a missing volume
	// is not an error.
	RemoveVolume(ctx context.Context, name string) error

	// RunEphemeral runs a short-lived helper container to completion and
	// returns its exit status. The container is force-removed on every
	// exit path, including errors.
	RunEphemeral(ctx context.Context, job EphemeralJob) (int, error)

	CreateAndStart(ctx context.Context, spec LaunchSpec) error
	// Restart restarts a container in place, keeping its filesystem and
	// mounts. Mounted volume contents are re-read by the server process.
	Restart(ctx context.Context, name string) error
	// ForceRemove stops and removes a container. Missing containers are
	// not an error.
	ForceRemove(ctx context.Context, name string) error
	// List returns structured status for containers matching the exact
	// name. Empty result means no such container.
	List(ctx context.Context, name string) ([]Instance, error)
	// FollowLogs streams container output until ctx is cancelled or the
	// container stops. It does not return on its own while the container
	// runs.
	FollowLogs(ctx context.Context, name string, stdout, stderr io.Writer) error
}

// Mount attaches a named volume inside a container.
type Mount struct {
	Volume   string
	Target   string
	ReadOnly bool
}

// EphemeralJob describes a helper container used for a single mounted
// file operation.
type EphemeralJob struct {
	Image  string
	Mounts []Mount
	Cmd    []string
	Env    []string
}

// LaunchSpec is the immutable set of parameters the server container is
// created from. Port is published for both TCP and UDP, host port equal
// to container port.
type LaunchSpec struct {
	Name   string
	Image  string
	Port   uint16
	Cmd    []string
	Mounts []Mount
}

// Instance is the structured status of a managed container.
type Instance struct {
	Name    string
	Image   string
	Running bool
	Status  string
	Ports   []PortBinding
}

// PortBinding is one published port of a running instance.
type PortBinding struct {
	HostPort      uint16
	ContainerPort uint16
	Protocol      string
}
