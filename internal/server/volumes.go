package server

import (
	"context"
	"fmt"
	"log/slog"
)

// VolumeManager ensures named volumes exist. Creation is monotonic:
// nothing here ever removes a volume except an explicit Remove from
// purge.
type VolumeManager struct {
	rt Runtime
}

func NewVolumeManager(rt Runtime) *VolumeManager {
	return &VolumeManager{rt: rt}
}

// Ensure creates each named volume that does not already exist.
// Existing volumes are left untouched, so calling Ensure repeatedly
// converges to the same volume set.
func (m *VolumeManager) Ensure(ctx context.Context, names ...string) error {
	for _, name := range names {
		exists, err := m.rt.VolumeExists(ctx, name)
		if err != nil {
			return fmt.Errorf("inspect volume %q: %w", name, err)
		}
		if exists {
			continue
		}
		if err := m.rt.CreateVolume(ctx, name); err != nil {
			return fmt.Errorf("create volume %q: %w", name, err)
		}
		slog.Info("Volume created.", "name", name)
	}
	return nil
}

// Remove deletes the named volumes. Only purge calls this.
func (m *VolumeManager) Remove(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := m.rt.RemoveVolume(ctx, name); err != nil {
			return fmt.Errorf("remove volume %q: %w", name, err)
		}
		slog.Info("Volume removed.", "name", name)
	}
	return nil
}
