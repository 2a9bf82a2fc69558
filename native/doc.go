// Package native describes the foreign surface of the Inochi2D C library
// (libinochi2d-c) and provides drivers that bind it.
//
// The package is deliberately thin. It exposes one Go method per native
// entry point and never adds ownership, caching or validation; those live
// in the inochi2d package, which is the only intended caller.
//
// # Handles
//
// Native resources are referenced through opaque tokens (PuppetHandle,
// CameraHandle). A zero token is the native null. Tokens must never be
// compared, inspected or reused after release; they are only passed back
// into the Library that produced them.
//
// # Drivers
//
// Drivers are registered via init() functions and selected at runtime:
//
//	lib, err := native.Open(native.DriverDynamic, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The "dynamic" driver loads libinochi2d-c with dlopen through goffi, so
// no C toolchain is needed at build time. goffi requires CGO_ENABLED=0;
// builds with cgo enabled get a driver that reports ErrUnsupportedPlatform. An empty path selects the
// platform default library name (libinochi2d-c.so, libinochi2d-c.dylib).
//
// # Rendering
//
// libinochi2d-c can be built with or without OpenGL. Library.Renderer
// returns nil for builds without it; scene and puppet draw entry points
// are only reachable through a non-nil Renderer.
//
// # Thread Safety
//
// The native library keeps process-global state and is not reentrant.
// All calls must be issued from the OS thread that called Init; hosts
// normally guarantee this with runtime.LockOSThread.
package native
