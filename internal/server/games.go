package server

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
)

// Worker exit codes for staging scripts. Anything else is a plain
// runtime failure.
const (
	exitDownloadFailed    = 10
	exitExtractFailed     = 11
	exitArchiveLayout     = 12
	exitDescriptorMissing = 13
)

// GameStager downloads game bundles into the cache volume and installs
// them into the data volume. All file operations run inside ephemeral
// worker containers so the volumes never need host mounts.
type GameStager struct {
	rt          Runtime
	workerImage string
	cacheVolume string
	dataVolume  string
}

func NewGameStager(rt Runtime, workerImage, cacheVolume, dataVolume string) *GameStager {
	return &GameStager{
		rt:          rt,
		workerImage: workerImage,
		cacheVolume: cacheVolume,
		dataVolume:  dataVolume,
	}
}

// Stage fetches the bundle from sourceURL into the cache volume, then
// installs it at the operational path inside the data volume. The fetch
// leaves partial scratch state behind on failure; the install replaces
// the operational copy only after the new copy verifies.
func (s *GameStager) Stage(ctx context.Context, gameID, sourceURL string) error {
	slog.Info("Fetching game bundle.", "game", gameID, "source", sourceURL)
	code, err := s.rt.RunEphemeral(ctx, EphemeralJob{
		Image:  s.workerImage,
		Mounts: []Mount{{Volume: s.cacheVolume, Target: cacheMount}},
		Cmd:    shellCmd(fetchScript(gameID, sourceURL)),
	})
	if err != nil {
		return fmt.Errorf("fetch game %q: %w", gameID, err)
	}
	if err := stageExitError(code); err != nil {
		return fmt.Errorf("fetch game %q: %w", gameID, err)
	}

	slog.Info("Installing game bundle.", "game", gameID)
	code, err = s.rt.RunEphemeral(ctx, EphemeralJob{
		Image: s.workerImage,
		Mounts: []Mount{
			{Volume: s.cacheVolume, Target: cacheMount, ReadOnly: true},
			{Volume: s.dataVolume, Target: dataMount},
		},
		Cmd: shellCmd(installScript(gameID)),
	})
	if err != nil {
		return fmt.Errorf("install game %q: %w", gameID, err)
	}
	if err := stageExitError(code); err != nil {
		return fmt.Errorf("install game %q: %w", gameID, err)
	}

	slog.Info("Game bundle staged.", "game", gameID)
	return nil
}

// IsStaged reports whether the operational path holds a bundle with its
// game-descriptor present. Nothing else is inspected.
func (s *GameStager) IsStaged(ctx context.Context, gameID string) (bool, error) {
	code, err := s.rt.RunEphemeral(ctx, EphemeralJob{
		Image:  s.workerImage,
		Mounts: []Mount{{Volume: s.dataVolume, Target: dataMount, ReadOnly: true}},
		Cmd:    shellCmd(fmt.Sprintf("[ -f %s ]", shQuote(path.Join(stagedGamePath(gameID), descriptorFile)))),
	})
	if err != nil {
		return false, fmt.Errorf("check staged game %q: %w", gameID, err)
	}
	return code == 0, nil
}

// fetchScript downloads and unpacks the archive in a scratch directory,
// normalizes the single top-level directory to the game id, and asserts
// the descriptor. Scratch state is only cleaned by the next fetch.
func fetchScript(gameID, sourceURL string) string {
	scratch := path.Join(cacheMount, ".fetch")
	extract := "tar -xzf \"$scratch/bundle\" -C \"$scratch/tree\""
	if strings.HasSuffix(strings.ToLower(sourceURL), ".zip") {
		extract = "unzip -q \"$scratch/bundle\" -d \"$scratch/tree\""
	}
	return strings.Join([]string{
		"scratch=" + shQuote(scratch),
		`rm -rf "$scratch" && mkdir -p "$scratch/tree" || exit 1`,
		fmt.Sprintf(`wget -q -O "$scratch/bundle" %s || exit %d`, shQuote(sourceURL), exitDownloadFailed),
		fmt.Sprintf(`%s || exit %d`, extract, exitExtractFailed),
		`set -- "$scratch/tree"/*`,
		fmt.Sprintf(`[ $# -eq 1 ] && [ -d "$1" ] || exit %d`, exitArchiveLayout),
		fmt.Sprintf(`rm -rf %s && mv "$1" %s || exit 1`, shQuote(cachedGamePath(gameID)), shQuote(cachedGamePath(gameID))),
		fmt.Sprintf(`[ -f %s ] || exit %d`, shQuote(path.Join(cachedGamePath(gameID), descriptorFile)), exitDescriptorMissing),
	}, "\n")
}

// installScript copies the cache copy to a staging path, verifies it,
// then swaps it into the operational path. The swap is remove-then-move
// of two sibling directories; the verified staging copy survives any
// failure in between.
func installScript(gameID string) string {
	staged := stagedGamePath(gameID)
	staging := path.Join(dataMount, localGamesDir, "."+gameID+".staging")
	return strings.Join([]string{
		"staging=" + shQuote(staging),
		fmt.Sprintf(`rm -rf "$staging" && mkdir -p %s || exit 1`, shQuote(path.Join(dataMount, localGamesDir))),
		fmt.Sprintf(`cp -a %s "$staging" || exit 1`, shQuote(cachedGamePath(gameID))),
		fmt.Sprintf(`[ -f "$staging/%s" ] || exit %d`, descriptorFile, exitDescriptorMissing),
		fmt.Sprintf(`rm -rf %s && mv "$staging" %s || exit 1`, shQuote(staged), shQuote(staged)),
		fmt.Sprintf(`[ -f %s ] || exit %d`, shQuote(path.Join(staged, descriptorFile)), exitDescriptorMissing),
	}, "\n")
}

func stageExitError(code int) error {
	switch code {
	case 0:
		return nil
	case exitDownloadFailed:
		return ErrDownloadFailed
	case exitExtractFailed:
		return ErrExtractFailed
	case exitArchiveLayout:
		return ErrArchiveLayout
	case exitDescriptorMissing:
		return ErrDescriptorMissing
	default:
		return fmt.Errorf("worker exited with status %d", code)
	}
}

func shellCmd(script string) []string {
	return []string{"/bin/sh", "-c", script}
}

// shQuote single-quotes s for POSIX sh.
func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
