package inochi2d

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/inochi2d/inochi2d-go/native"
)

// UnknownErrorMessage is reported when a native call failed but left the
// error slot empty or filled it with something that is not UTF-8 text.
const UnknownErrorMessage = "unknown error"

// Configuration errors. These are detected before any native call.
var (
	// ErrConfiguration is the parent of every configuration error.
	ErrConfiguration = errors.New("inochi2d: invalid configuration")

	// ErrNoTiming is returned when a context is requested without a
	// timing function. The native library cannot initialize without one.
	ErrNoTiming = fmt.Errorf("%w: timing must be set before build", ErrConfiguration)

	// ErrNoLibrary is returned when a context is requested without a
	// native library.
	ErrNoLibrary = fmt.Errorf("%w: no native library", ErrConfiguration)
)

// Precondition errors. The native library leaves these cases undefined,
// so they are checked here instead.
var (
	// ErrContextActive is returned when a second Context is created while
	// one is still open. The native library has process-global state.
	ErrContextActive = errors.New("inochi2d: a context is already active")

	// ErrClosed is returned when a closed Context or resource is used.
	ErrClosed = errors.New("inochi2d: use of closed resource")

	// ErrRenderingUnavailable is returned by drawing operations when the
	// native library was built without rendering support.
	ErrRenderingUnavailable = errors.New("inochi2d: native library built without rendering")

	// ErrSceneActive is returned when a scene is begun while another one
	// is still open.
	ErrSceneActive = errors.New("inochi2d: a scene is already open")

	// ErrSceneClosed is returned when drawing through a closed scene.
	ErrSceneClosed = errors.New("inochi2d: scene is closed")

	// ErrNoScene is returned when a puppet is drawn outside a scene.
	ErrNoScene = errors.New("inochi2d: no open scene")

	// ErrNoCamera is returned when the native library has no current camera.
	ErrNoCamera = errors.New("inochi2d: no current camera")
)

// ErrLoad matches every *LoadError via errors.Is.
var ErrLoad = errors.New("inochi2d: puppet load failed")

// LoadError describes a failed puppet load.
type LoadError struct {
	// Source is the path, or the display name for memory loads.
	Source string

	// Message is the native error text, or UnknownErrorMessage.
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("inochi2d: load puppet %q: %s", e.Source, e.Message)
}

// Is reports whether target is ErrLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// lastErrorMessage drains the native error slot. It must be called right
// after the failing call; any later fallible call overwrites the slot.
func lastErrorMessage(lib native.Library) string {
	msg := lib.LastError()
	if len(msg) == 0 || !utf8.Valid(msg) {
		return UnknownErrorMessage
	}
	return string(msg)
}
