package server

import (
	"context"
	"fmt"
	"log/slog"
)

// defaultConfEnv carries the default file content into the worker so no
// shell interpolation touches it.
const defaultConfEnv = "GAMEDOCK_DEFAULT_CONF"

// ConfigWriter initializes the server configuration file. The file is
// written once with defaults; after that its presence is the only thing
// ever checked, so user edits are preserved verbatim.
type ConfigWriter struct {
	rt           Runtime
	workerImage  string
	configVolume string
	defaults     string
}

func NewConfigWriter(rt Runtime, workerImage, configVolume, defaults string) *ConfigWriter {
	return &ConfigWriter{
		rt:           rt,
		workerImage:  workerImage,
		configVolume: configVolume,
		defaults:     defaults,
	}
}

// Ensure writes the default configuration if and only if the file does
// not exist yet. Existing content is never read, diffed, or merged.
func (w *ConfigWriter) Ensure(ctx context.Context) error {
	script := fmt.Sprintf(`[ -e %[1]s ] || printf '%%s' "$%[2]s" > %[1]s`,
		shQuote(serverConfPath()), defaultConfEnv)
	code, err := w.rt.RunEphemeral(ctx, EphemeralJob{
		Image:  w.workerImage,
		Mounts: []Mount{{Volume: w.configVolume, Target: configMount}},
		Cmd:    shellCmd(script),
		Env:    []string{defaultConfEnv + "=" + w.defaults},
	})
	if err != nil {
		return fmt.Errorf("initialize config: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("initialize config: worker exited with status %d", code)
	}
	slog.Debug("Config file ensured.", "path", serverConfPath())
	return nil
}
