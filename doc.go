// Package inochi2d is a safe Go interface to the Inochi2D puppet
// animation library (libinochi2d-c).
//
// # Overview
//
// The native library hands out raw, non-owning handles and reports errors
// through a single global slot. This package wraps those handles in owned
// values that are created explicitly, released exactly once, and never
// exposed to callers:
//
//   - Context: the initialized library; owns puppets, the camera and the
//     open scene
//   - Puppet: a loaded character model
//   - Camera: the library's single current camera
//   - Scene: the begin/end bracket around native drawing
//   - Builder: validated Context construction
//
// Rendering algorithms, animation and the puppet file format all live in
// the native library. Window and OpenGL setup belong to the host.
//
// # Quick Start
//
//	runtime.LockOSThread()
//
//	ctx, err := inochi2d.NewBuilder().
//	    Viewport(800, 600).
//	    Timing(inochi2d.MonotonicClock()).
//	    Puppet("./models/Aka.inx").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	cam, err := ctx.Camera(inochi2d.WithZoom(0.15), inochi2d.WithPosition(0, 0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cam.Close()
//
//	for !window.ShouldClose() {
//	    ctx.UpdatePuppets()
//	    // draw inside a Scene, see Scene
//	}
//
// # Ownership
//
// Close on a Context releases, in order: the open scene, the puppet
// collection, detached puppets, the camera, and finally the library
// itself. Closing a child early is always allowed; closing it twice is a
// no-op. Methods on closed values do nothing or return ErrClosed.
//
// # Errors
//
// Construction reports errors; per-frame calls (Update, UpdatePuppets) do
// not, because the native library reports none. Load failures are
// *LoadError values carrying the native message, or UnknownErrorMessage
// when the library gave none. Configuration errors match ErrConfiguration.
//
// # Threading
//
// The native library is single-threaded and thread-affine. Only one
// Context may be open per process (ErrContextActive), and every call must
// come from the OS thread that created it.
package inochi2d
