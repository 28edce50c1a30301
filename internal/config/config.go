// Package config builds the immutable gamedock configuration.
//
// Precedence, lowest to highest: built-in defaults, the config file at
// $XDG_CONFIG_HOME/gamedock/config.yaml (~/.config fallback), GAMEDOCK_*
// environment variables, command-line flags. The resulting Config is
// constructed once at startup and passed to every component; nothing
// mutates it afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the managed server deployment.
type Config struct {
	// Image runs the game server; WorkerImage runs ephemeral file
	// operation helpers and needs only a POSIX sh, wget and tar/unzip.
	Image       string `yaml:"image" env:"GAMEDOCK_IMAGE"`
	WorkerImage string `yaml:"worker-image" env:"GAMEDOCK_WORKER_IMAGE"`

	// Name is the server container name; identity is stable across
	// recreation.
	Name  string `yaml:"name" env:"GAMEDOCK_NAME"`
	World string `yaml:"world" env:"GAMEDOCK_WORLD"`
	// Port is published for both TCP and UDP, host equal to container.
	Port uint16 `yaml:"port" env:"GAMEDOCK_PORT"`

	CacheVolume  string `yaml:"cache-volume" env:"GAMEDOCK_CACHE_VOLUME"`
	DataVolume   string `yaml:"data-volume" env:"GAMEDOCK_DATA_VOLUME"`
	ConfigVolume string `yaml:"config-volume" env:"GAMEDOCK_CONFIG_VOLUME"`

	// Game identifies the content bundle; Source is where its archive
	// is downloaded from.
	Game   string `yaml:"game" env:"GAMEDOCK_GAME"`
	Source string `yaml:"source" env:"GAMEDOCK_SOURCE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Image:        "ghcr.io/gamedock/server:stable",
		WorkerImage:  "alpine:3.21",
		Name:         "gamedock-server",
		World:        "main",
		Port:         30000,
		CacheVolume:  "gamedock-games-cache",
		DataVolume:   "gamedock-data",
		ConfigVolume: "gamedock-config",
		Game:         "basegame",
		Source:       "https://downloads.gamedock.dev/games/basegame.tar.gz",
	}
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/gamedock/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "gamedock", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "gamedock", "config.yaml")
}

// Load builds the configuration from defaults, the config file and the
// environment. A missing config file is not an error.
func Load() (Config, error) {
	return load(Path())
}

func load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// BindFlags registers persistent flags on cmd that override the loaded
// values. Current values double as flag defaults so --help shows the
// effective configuration.
func (c *Config) BindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&c.Image, "image", c.Image, "Server container image reference")
	f.StringVar(&c.WorkerImage, "worker-image", c.WorkerImage, "Helper container image for file operations")
	f.StringVar(&c.Name, "name", c.Name, "Server container name")
	f.StringVar(&c.World, "world", c.World, "World name inside the data volume")
	f.Uint16Var(&c.Port, "port", c.Port, "Server port, published for TCP and UDP")
	f.StringVar(&c.CacheVolume, "cache-volume", c.CacheVolume, "Volume holding raw downloaded bundles")
	f.StringVar(&c.DataVolume, "data-volume", c.DataVolume, "Volume holding worlds and staged games")
	f.StringVar(&c.ConfigVolume, "config-volume", c.ConfigVolume, "Volume holding the server configuration")
	f.StringVar(&c.Game, "game", c.Game, "Game id of the content bundle")
	f.StringVar(&c.Source, "source", c.Source, "Download URL of the game archive")
}

// Volumes returns the three persistent volumes in creation order.
func (c Config) Volumes() []string {
	return []string{c.CacheVolume, c.DataVolume, c.ConfigVolume}
}
