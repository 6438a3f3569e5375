package watcher

import "errors"

// Errors returned by Watch.
var (
	// ErrPathNotExist is returned when the watched file does not exist.
	ErrPathNotExist = errors.New("path does not exist")

	// ErrIsDirectory is returned when the watched path is a directory.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrWatcherClosed is returned when the underlying watcher stops
	// delivering events.
	ErrWatcherClosed = errors.New("watcher is closed")
)
