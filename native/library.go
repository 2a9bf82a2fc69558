package native

// PuppetHandle is an opaque reference to a native puppet. Zero is null.
type PuppetHandle uintptr

// CameraHandle is an opaque reference to a native camera. Zero is null.
type CameraHandle uintptr

// Library is the set of native entry points exported by libinochi2d-c.
//
// Implementations perform no bookkeeping of their own: handles are not
// validated, lifetimes are not tracked and the error slot is not cleared.
// Callers own all of that.
type Library interface {
	// Init performs global library initialization. The timing function
	// must report monotonic time in seconds; the library calls it from
	// inside Update and UpdatePuppet.
	Init(timing func() float64)

	// Cleanup releases all global library state. No call other than Init
	// is valid afterwards.
	Cleanup()

	// Update runs the global per-frame update.
	Update()

	// SetViewport sets the native viewport size.
	SetViewport(width, height int32)

	// Viewport reports the native viewport size.
	Viewport() (width, height int32)

	// LastError returns a copy of the message held in the native error
	// slot, or nil when the slot is empty. The slot is overwritten by the
	// next fallible call, so it must be read immediately after the call
	// that failed.
	LastError() []byte

	// CurrentCamera returns the library's single active camera.
	CurrentCamera() CameraHandle
	DestroyCamera(cam CameraHandle)
	CameraPosition(cam CameraHandle) (x, y float32)
	SetCameraPosition(cam CameraHandle, x, y float32)
	CameraZoom(cam CameraHandle) float32
	SetCameraZoom(cam CameraHandle, zoom float32)
	CameraCenterOffset(cam CameraHandle) (x, y float32)
	CameraRealSize(cam CameraHandle) (width, height float32)

	// CameraMatrix returns the camera transform exactly as the library
	// lays it out.
	CameraMatrix(cam CameraHandle) [16]float32

	// LoadPuppet loads a puppet from a file path. It returns a zero
	// handle on failure, with the reason in the error slot.
	LoadPuppet(path string) PuppetHandle

	// LoadPuppetFromMemory loads a puppet from an in-memory model file.
	// It returns a zero handle on failure, with the reason in the error
	// slot. The buffer is not retained after the call returns.
	LoadPuppetFromMemory(data []byte) PuppetHandle

	DestroyPuppet(p PuppetHandle)

	// PuppetName returns the model name stored in the puppet file.
	PuppetName(p PuppetHandle) string

	UpdatePuppet(p PuppetHandle)

	// Renderer returns the drawing entry points, or nil when the library
	// was built without rendering support.
	Renderer() Renderer
}

// Renderer is the drawing half of the native surface. It is only
// available from libraries built with OpenGL support.
type Renderer interface {
	// SceneBegin opens the native draw bracket.
	SceneBegin()

	// SceneEnd closes the native draw bracket.
	SceneEnd()

	// SceneDraw composites the finished scene into the given region.
	SceneDraw(x, y, width, height float32)

	// DrawPuppet renders a puppet into the open bracket.
	DrawPuppet(p PuppetHandle)
}
