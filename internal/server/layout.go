package server

import "path"

// Mount targets inside worker and server containers, and the on-volume
// layout the server process expects.
const (
	cacheMount  = "/cache"
	dataMount   = "/data"
	configMount = "/config"

	// Staged game bundles live under the data volume so the server sees
	// them next to its worlds.
	localGamesDir = ".local-games"
	worldsDir     = "worlds"

	// descriptorFile is the marker whose presence is the sole validity
	// check for a staged bundle.
	descriptorFile = "game-descriptor"

	// serverConfFile is the single configuration file inside the config
	// volume.
	serverConfFile = "server.conf"
)

func cachedGamePath(gameID string) string {
	return path.Join(cacheMount, gameID)
}

func stagedGamePath(gameID string) string {
	return path.Join(dataMount, localGamesDir, gameID)
}

func worldPath(world string) string {
	return path.Join(dataMount, worldsDir, world)
}

func serverConfPath() string {
	return path.Join(configMount, serverConfFile)
}
