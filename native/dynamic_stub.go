//go:build !((linux || darwin || freebsd) && (amd64 || arm64) && !cgo)

package native

import (
	"fmt"
	"runtime"
)

// init registers a failing loader where goffi cannot dlopen or build
// callbacks, which includes every build with cgo enabled.
// This keeps Open(DriverDynamic, ...) well defined everywhere.
func init() {
	Register(DriverDynamic, func(string) (Library, error) {
		return nil, fmt.Errorf("%w: %s/%s (the dynamic driver requires CGO_ENABLED=0)",
			ErrUnsupportedPlatform, runtime.GOOS, runtime.GOARCH)
	})
}

// DefaultLibraryName returns the file name dlopen searches for when no
// path is given.
func DefaultLibraryName() string {
	if runtime.GOOS == "windows" {
		return "inochi2d-c.dll"
	}
	return "libinochi2d-c.so"
}
