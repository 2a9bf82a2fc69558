package native

import "errors"

// Package errors for native drivers.
var (
	// ErrUnknownDriver is returned when no driver is registered under a name.
	ErrUnknownDriver = errors.New("native: unknown driver")

	// ErrLibraryNotFound is returned when libinochi2d-c cannot be loaded.
	ErrLibraryNotFound = errors.New("native: libinochi2d-c not found")

	// ErrMissingSymbol is returned when a required entry point is absent.
	ErrMissingSymbol = errors.New("native: missing symbol")

	// ErrUnsupportedPlatform is returned by drivers that cannot run on the
	// current GOOS.
	ErrUnsupportedPlatform = errors.New("native: unsupported platform")
)
