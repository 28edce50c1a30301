// Package server converges a Docker host to the desired state for a
// single game server: volumes present, a game bundle staged, config
// initialized, and the server container running. Every operation is
// idempotent and safe to re-run from any starting state; none of them
// touch user data except the explicitly confirmed Purge.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"gamedock/internal/config"
)

// defaultServerConf is written to the config volume exactly once. After
// that the file belongs to the user.
const defaultServerConf = `# gamedock server configuration.
# Edit freely: gamedock never overwrites this file.
server_name = Gamedock Server
server_description = A gamedock managed world
enable_damage = true
creative_mode = false
default_privs = interact, shout
`

// Server composes the lifecycle components into the named operations
// exposed by the CLI. Steps run sequentially and fail fast; the only
// swallowed failure is best-effort container removal.
type Server struct {
	cfg     config.Config
	volumes *VolumeManager
	games   *GameStager
	conf    *ConfigWriter
	ctrl    *Controller
	rt      Runtime
}

func New(cfg config.Config, rt Runtime) *Server {
	return &Server{
		cfg:     cfg,
		volumes: NewVolumeManager(rt),
		games:   NewGameStager(rt, cfg.WorkerImage, cfg.CacheVolume, cfg.DataVolume),
		conf:    NewConfigWriter(rt, cfg.WorkerImage, cfg.ConfigVolume, defaultServerConf),
		ctrl:    NewController(rt, launchSpec(cfg)),
		rt:      rt,
	}
}

// launchSpec maps the configuration onto the immutable container spec.
func launchSpec(cfg config.Config) LaunchSpec {
	return LaunchSpec{
		Name:  cfg.Name,
		Image: cfg.Image,
		Port:  cfg.Port,
		Cmd: []string{
			"--server",
			"--config", serverConfPath(),
			"--world", worldPath(cfg.World),
			"--gameid", cfg.Game,
			"--port", strconv.Itoa(int(cfg.Port)),
		},
		Mounts: []Mount{
			{Volume: cfg.DataVolume, Target: dataMount},
			{Volume: cfg.ConfigVolume, Target: configMount},
		},
	}
}

// Bootstrap provisions everything from scratch: volumes, a fresh bundle
// fetch, config, world directory, and a running server.
func (s *Server) Bootstrap(ctx context.Context) error {
	if err := s.volumes.Ensure(ctx, s.cfg.Volumes()...); err != nil {
		return err
	}
	if err := s.games.Stage(ctx, s.cfg.Game, s.cfg.Source); err != nil {
		return err
	}
	return s.finishUp(ctx)
}

// Up converges to running, fetching the bundle only when the staged
// copy is missing or invalid.
func (s *Server) Up(ctx context.Context) error {
	if err := s.volumes.Ensure(ctx, s.cfg.Volumes()...); err != nil {
		return err
	}
	staged, err := s.games.IsStaged(ctx, s.cfg.Game)
	if err != nil {
		return err
	}
	if staged {
		slog.Info("Game bundle already staged, skipping fetch.", "game", s.cfg.Game)
	} else if err := s.games.Stage(ctx, s.cfg.Game, s.cfg.Source); err != nil {
		return err
	}
	return s.finishUp(ctx)
}

func (s *Server) finishUp(ctx context.Context) error {
	if err := s.conf.Ensure(ctx); err != nil {
		return err
	}
	if err := s.ensureWorld(ctx); err != nil {
		return err
	}
	return s.ctrl.EnsureRunning(ctx)
}

// ensureWorld creates the world directory if absent. The directory is
// owned by the server process once it runs; nothing here ever modifies
// or removes it.
func (s *Server) ensureWorld(ctx context.Context) error {
	code, err := s.rt.RunEphemeral(ctx, EphemeralJob{
		Image:  s.cfg.WorkerImage,
		Mounts: []Mount{{Volume: s.cfg.DataVolume, Target: dataMount}},
		Cmd:    shellCmd("mkdir -p " + shQuote(worldPath(s.cfg.World))),
	})
	if err != nil {
		return fmt.Errorf("ensure world %q: %w", s.cfg.World, err)
	}
	if code != 0 {
		return fmt.Errorf("ensure world %q: worker exited with status %d", s.cfg.World, code)
	}
	return nil
}

// Restart restarts the server, bringing it up when no container exists.
func (s *Server) Restart(ctx context.Context) error {
	return s.ctrl.Restart(ctx)
}

// Down stops and removes the server container. Volumes are untouched.
func (s *Server) Down(ctx context.Context) error {
	return s.ctrl.Stop(ctx)
}

// UpdateGame re-fetches and re-installs the bundle unconditionally,
// then soft-restarts a live server so it loads the new content.
func (s *Server) UpdateGame(ctx context.Context) error {
	if err := s.games.Stage(ctx, s.cfg.Game, s.cfg.Source); err != nil {
		return err
	}
	state, err := s.ctrl.State(ctx)
	if err != nil {
		return err
	}
	if state == StateAbsent {
		slog.Info("No server container, new bundle loads on next up.")
		return nil
	}
	return s.ctrl.Restart(ctx)
}

// Status is the read-only view assembled for the status command.
type Status struct {
	Name    string
	State   State
	Image   string
	Detail  string
	Ports   []PortBinding
	Volumes []VolumeStatus
}

type VolumeStatus struct {
	Name   string
	Exists bool
}

// Inspect gathers container and volume state without mutating anything.
func (s *Server) Inspect(ctx context.Context) (Status, error) {
	st := Status{Name: s.cfg.Name, State: StateAbsent}

	list, err := s.rt.List(ctx, s.cfg.Name)
	if err != nil {
		return Status{}, fmt.Errorf("list container %q: %w", s.cfg.Name, err)
	}
	if len(list) > 0 {
		inst := list[0]
		st.Image = inst.Image
		st.Detail = inst.Status
		st.Ports = inst.Ports
		if inst.Running {
			st.State = StateRunning
		} else {
			st.State = StateStopped
		}
	}

	for _, name := range s.cfg.Volumes() {
		exists, err := s.rt.VolumeExists(ctx, name)
		if err != nil {
			return Status{}, fmt.Errorf("inspect volume %q: %w", name, err)
		}
		st.Volumes = append(st.Volumes, VolumeStatus{Name: name, Exists: exists})
	}
	return st, nil
}

// Logs follows the server output until ctx is cancelled.
func (s *Server) Logs(ctx context.Context, stdout, stderr io.Writer) error {
	return s.rt.FollowLogs(ctx, s.cfg.Name, stdout, stderr)
}

// Purge destroys the container and all three volumes. Confirmation is
// the caller's responsibility; by the time Purge runs there is no way
// back.
func (s *Server) Purge(ctx context.Context) error {
	if err := s.ctrl.Destroy(ctx); err != nil {
		return err
	}
	return s.volumes.Remove(ctx, s.cfg.Volumes()...)
}
