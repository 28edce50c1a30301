package server

import "errors"

// Staging failures carry a sentinel so callers can distinguish a broken
// bundle from a broken runtime. All other errors are wrapped contextual
// errors from the runtime adapter.
var (
	// ErrDownloadFailed: the worker could not fetch the bundle archive.
	ErrDownloadFailed = errors.New("game bundle download failed")
	// ErrExtractFailed: the archive could not be unpacked.
	ErrExtractFailed = errors.New("game bundle extraction failed")
	// ErrArchiveLayout: the archive did not contain exactly one
	// top-level directory to normalize to the game id.
	ErrArchiveLayout = errors.New("archive does not contain exactly one top-level directory")
	// ErrDescriptorMissing: the game-descriptor marker was absent after
	// extract or after install. The bundle is unusable.
	ErrDescriptorMissing = errors.New("game-descriptor missing from bundle")

	// ErrAborted: the user declined a destructive confirmation. Not a
	// failure; nothing was mutated.
	ErrAborted = errors.New("aborted by user")
)
