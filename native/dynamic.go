//go:build (linux || darwin || freebsd) && (amd64 || arm64) && !cgo

package native

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

func init() {
	Register(DriverDynamic, openDynamic)
}

// DefaultLibraryName returns the file name dlopen searches for when no
// path is given.
func DefaultLibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libinochi2d-c.dylib"
	}
	return "libinochi2d-c.so"
}

// inError mirrors the native InError struct.
type inError struct {
	len uintptr
	msg *byte
}

// Loaded libraries are cached by path: dlopen refcounts the same object
// and the D runtime inside libinochi2d-c cannot be unloaded safely.
var (
	dynamicMu   sync.Mutex
	dynamicLibs = make(map[string]*dynamicLibrary)
)

// The timing callback is created once per process because goffi never
// frees callbacks. Init swaps the Go function it dispatches to.
var (
	timingOnce     sync.Once
	timingCallback uintptr
	timingFunc     atomic.Pointer[func() float64]
)

func timingTrampoline() float64 {
	if fn := timingFunc.Load(); fn != nil {
		return (*fn)()
	}
	return 0
}

type dynamicLibrary struct {
	path   string
	handle unsafe.Pointer

	inInit                  func(timing uintptr)
	inCleanup               func()
	inUpdate                func()
	inViewportSet           func(width, height int32)
	inViewportGet           func(width, height *int32)
	inErrorGet              func() *inError
	inCameraGetCurrent      func() uintptr
	inCameraDestroy         func(cam uintptr)
	inCameraGetPosition     func(cam uintptr, x, y *float32)
	inCameraSetPosition     func(cam uintptr, x, y float32)
	inCameraGetZoom         func(cam uintptr, zoom *float32)
	inCameraSetZoom         func(cam uintptr, zoom float32)
	inCameraGetCenterOffset func(cam uintptr, x, y *float32)
	inCameraGetRealSize     func(cam uintptr, x, y *float32)
	inCameraGetMatrix       func(cam uintptr, mat4 *float32)
	inPuppetLoadEx          func(path *byte, length uintptr) uintptr
	inPuppetLoadFromMemory  func(data *byte, length uintptr) uintptr
	inPuppetDestroy         func(p uintptr)
	inPuppetGetName         func(p uintptr, name **byte, length *uintptr)
	inPuppetUpdate          func(p uintptr)

	renderer *dynamicRenderer
}

type dynamicRenderer struct {
	inSceneBegin func()
	inSceneEnd   func()
	inSceneDraw  func(x, y, width, height float32)
	inPuppetDraw func(p uintptr)
}

// proc is one resolved native entry point with its prepared call
// interface.
type proc struct {
	name string
	sym  unsafe.Pointer
	cif  types.CallInterface
}

// call invokes the entry point. ret points at storage for the result, or
// is nil for void functions; each arg points at the argument's storage.
func (p *proc) call(ret unsafe.Pointer, args ...unsafe.Pointer) {
	if err := ffi.CallFunction(&p.cif, p.sym, ret, args); err != nil {
		Logger().Error("native: call failed", "symbol", p.name, "err", err)
	}
}

// binder resolves entry points from one library handle and keeps the
// first error.
type binder struct {
	handle unsafe.Pointer
	err    error
}

var (
	tVoid  = types.VoidTypeDescriptor
	tPtr   = types.PointerTypeDescriptor
	tInt32 = types.SInt32TypeDescriptor
	tFloat = types.FloatTypeDescriptor
	tSize  = types.UInt64TypeDescriptor
)

func (b *binder) proc(name string, ret *types.TypeDescriptor, args ...*types.TypeDescriptor) *proc {
	if b.err != nil {
		return nil
	}
	sym, err := ffi.GetSymbol(b.handle, name)
	if err != nil {
		b.err = fmt.Errorf("%w: %s", ErrMissingSymbol, name)
		return nil
	}
	p := &proc{name: name, sym: sym}
	if err := ffi.PrepareCallInterface(&p.cif, types.DefaultCall, ret, args); err != nil {
		b.err = fmt.Errorf("native: prepare %s: %w", name, err)
		return nil
	}
	return p
}

func openDynamic(path string) (Library, error) {
	if path == "" {
		path = DefaultLibraryName()
	}

	dynamicMu.Lock()
	defer dynamicMu.Unlock()

	if lib, ok := dynamicLibs[path]; ok {
		return lib, nil
	}

	handle, err := ffi.LoadLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLibraryNotFound, path, err)
	}

	lib := &dynamicLibrary{path: path, handle: handle}
	b := &binder{handle: handle}
	lib.bindCore(b)
	if b.err != nil {
		_ = ffi.FreeLibrary(handle)
		return nil, b.err
	}

	// Older builds lack the global update entry point.
	opt := &binder{handle: handle}
	if update := opt.proc("inUpdate", tVoid); update != nil {
		lib.inUpdate = func() { update.call(nil) }
	} else {
		Logger().Debug("native: inUpdate not exported", "path", path)
	}

	lib.renderer = bindRenderer(handle)
	Logger().Info("native: loaded libinochi2d-c", "path", path, "rendering", lib.renderer != nil)

	dynamicLibs[path] = lib
	return lib, nil
}

// bindCore resolves the required entry points into the function fields.
// Pointer and handle arguments are passed as the address of a variable
// holding them.
func (d *dynamicLibrary) bindCore(b *binder) {
	initFn := b.proc("inInit", tVoid, tPtr)
	cleanup := b.proc("inCleanup", tVoid)
	viewportSet := b.proc("inViewportSet", tVoid, tInt32, tInt32)
	viewportGet := b.proc("inViewportGet", tVoid, tPtr, tPtr)
	errorGet := b.proc("inErrorGet", tPtr)
	camCurrent := b.proc("inCameraGetCurrent", tPtr)
	camDestroy := b.proc("inCameraDestroy", tVoid, tPtr)
	camGetPos := b.proc("inCameraGetPosition", tVoid, tPtr, tPtr, tPtr)
	camSetPos := b.proc("inCameraSetPosition", tVoid, tPtr, tFloat, tFloat)
	camGetZoom := b.proc("inCameraGetZoom", tVoid, tPtr, tPtr)
	camSetZoom := b.proc("inCameraSetZoom", tVoid, tPtr, tFloat)
	camOffset := b.proc("inCameraGetCenterOffset", tVoid, tPtr, tPtr, tPtr)
	camSize := b.proc("inCameraGetRealSize", tVoid, tPtr, tPtr, tPtr)
	camMatrix := b.proc("inCameraGetMatrix", tVoid, tPtr, tPtr)
	loadEx := b.proc("inPuppetLoadEx", tPtr, tPtr, tSize)
	loadMem := b.proc("inPuppetLoadFromMemory", tPtr, tPtr, tSize)
	destroy := b.proc("inPuppetDestroy", tVoid, tPtr)
	getName := b.proc("inPuppetGetName", tVoid, tPtr, tPtr, tPtr)
	update := b.proc("inPuppetUpdate", tVoid, tPtr)
	if b.err != nil {
		return
	}

	d.inInit = func(timing uintptr) { initFn.call(nil, unsafe.Pointer(&timing)) }
	d.inCleanup = func() { cleanup.call(nil) }
	d.inViewportSet = func(width, height int32) {
		viewportSet.call(nil, unsafe.Pointer(&width), unsafe.Pointer(&height))
	}
	d.inViewportGet = func(width, height *int32) {
		viewportGet.call(nil, unsafe.Pointer(&width), unsafe.Pointer(&height))
	}
	d.inErrorGet = func() *inError {
		var e *inError
		errorGet.call(unsafe.Pointer(&e))
		return e
	}
	d.inCameraGetCurrent = func() uintptr {
		var cam uintptr
		camCurrent.call(unsafe.Pointer(&cam))
		return cam
	}
	d.inCameraDestroy = func(cam uintptr) { camDestroy.call(nil, unsafe.Pointer(&cam)) }
	d.inCameraGetPosition = func(cam uintptr, x, y *float32) {
		camGetPos.call(nil, unsafe.Pointer(&cam), unsafe.Pointer(&x), unsafe.Pointer(&y))
	}
	d.inCameraSetPosition = func(cam uintptr, x, y float32) {
		camSetPos.call(nil, unsafe.Pointer(&cam), unsafe.Pointer(&x), unsafe.Pointer(&y))
	}
	d.inCameraGetZoom = func(cam uintptr, zoom *float32) {
		camGetZoom.call(nil, unsafe.Pointer(&cam), unsafe.Pointer(&zoom))
	}
	d.inCameraSetZoom = func(cam uintptr, zoom float32) {
		camSetZoom.call(nil, unsafe.Pointer(&cam), unsafe.Pointer(&zoom))
	}
	d.inCameraGetCenterOffset = func(cam uintptr, x, y *float32) {
		camOffset.call(nil, unsafe.Pointer(&cam), unsafe.Pointer(&x), unsafe.Pointer(&y))
	}
	d.inCameraGetRealSize = func(cam uintptr, x, y *float32) {
		camSize.call(nil, unsafe.Pointer(&cam), unsafe.Pointer(&x), unsafe.Pointer(&y))
	}
	d.inCameraGetMatrix = func(cam uintptr, mat4 *float32) {
		camMatrix.call(nil, unsafe.Pointer(&cam), unsafe.Pointer(&mat4))
	}
	d.inPuppetLoadEx = func(path *byte, length uintptr) uintptr {
		var p uintptr
		loadEx.call(unsafe.Pointer(&p), unsafe.Pointer(&path), unsafe.Pointer(&length))
		return p
	}
	d.inPuppetLoadFromMemory = func(data *byte, length uintptr) uintptr {
		var p uintptr
		loadMem.call(unsafe.Pointer(&p), unsafe.Pointer(&data), unsafe.Pointer(&length))
		return p
	}
	d.inPuppetDestroy = func(p uintptr) { destroy.call(nil, unsafe.Pointer(&p)) }
	d.inPuppetGetName = func(p uintptr, name **byte, length *uintptr) {
		getName.call(nil, unsafe.Pointer(&p), unsafe.Pointer(&name), unsafe.Pointer(&length))
	}
	d.inPuppetUpdate = func(p uintptr) { update.call(nil, unsafe.Pointer(&p)) }
}

// bindRenderer resolves the drawing entry points. It returns nil unless
// all of them are present (libraries built with the "nogl" configuration).
func bindRenderer(handle unsafe.Pointer) *dynamicRenderer {
	b := &binder{handle: handle}
	begin := b.proc("inSceneBegin", tVoid)
	end := b.proc("inSceneEnd", tVoid)
	draw := b.proc("inSceneDraw", tVoid, tFloat, tFloat, tFloat, tFloat)
	puppetDraw := b.proc("inPuppetDraw", tVoid, tPtr)
	if b.err != nil {
		return nil
	}
	return &dynamicRenderer{
		inSceneBegin: func() { begin.call(nil) },
		inSceneEnd:   func() { end.call(nil) },
		inSceneDraw: func(x, y, width, height float32) {
			draw.call(nil, unsafe.Pointer(&x), unsafe.Pointer(&y),
				unsafe.Pointer(&width), unsafe.Pointer(&height))
		},
		inPuppetDraw: func(p uintptr) { puppetDraw.call(nil, unsafe.Pointer(&p)) },
	}
}

func (d *dynamicLibrary) Init(timing func() float64) {
	timingFunc.Store(&timing)
	timingOnce.Do(func() {
		timingCallback = ffi.NewCallback(timingTrampoline)
	})
	d.inInit(timingCallback)
}

func (d *dynamicLibrary) Cleanup() {
	d.inCleanup()
	timingFunc.Store(nil)
}

func (d *dynamicLibrary) Update() {
	if d.inUpdate != nil {
		d.inUpdate()
	}
}

func (d *dynamicLibrary) SetViewport(width, height int32) {
	d.inViewportSet(width, height)
}

func (d *dynamicLibrary) Viewport() (width, height int32) {
	d.inViewportGet(&width, &height)
	return width, height
}

func (d *dynamicLibrary) LastError() []byte {
	e := d.inErrorGet()
	if e == nil || e.msg == nil || e.len == 0 {
		return nil
	}
	// The buffer belongs to the library and dies on the next fallible call.
	msg := make([]byte, e.len)
	copy(msg, unsafe.Slice(e.msg, e.len))
	return msg
}

func (d *dynamicLibrary) CurrentCamera() CameraHandle {
	return CameraHandle(d.inCameraGetCurrent())
}

func (d *dynamicLibrary) DestroyCamera(cam CameraHandle) {
	d.inCameraDestroy(uintptr(cam))
}

func (d *dynamicLibrary) CameraPosition(cam CameraHandle) (x, y float32) {
	d.inCameraGetPosition(uintptr(cam), &x, &y)
	return x, y
}

func (d *dynamicLibrary) SetCameraPosition(cam CameraHandle, x, y float32) {
	d.inCameraSetPosition(uintptr(cam), x, y)
}

func (d *dynamicLibrary) CameraZoom(cam CameraHandle) float32 {
	var zoom float32
	d.inCameraGetZoom(uintptr(cam), &zoom)
	return zoom
}

func (d *dynamicLibrary) SetCameraZoom(cam CameraHandle, zoom float32) {
	d.inCameraSetZoom(uintptr(cam), zoom)
}

func (d *dynamicLibrary) CameraCenterOffset(cam CameraHandle) (x, y float32) {
	d.inCameraGetCenterOffset(uintptr(cam), &x, &y)
	return x, y
}

func (d *dynamicLibrary) CameraRealSize(cam CameraHandle) (width, height float32) {
	d.inCameraGetRealSize(uintptr(cam), &width, &height)
	return width, height
}

func (d *dynamicLibrary) CameraMatrix(cam CameraHandle) [16]float32 {
	var m [16]float32
	d.inCameraGetMatrix(uintptr(cam), &m[0])
	return m
}

func (d *dynamicLibrary) LoadPuppet(path string) PuppetHandle {
	b := []byte(path)
	var p *byte
	if len(b) > 0 {
		p = &b[0]
	}
	h := d.inPuppetLoadEx(p, uintptr(len(b)))
	runtime.KeepAlive(b)
	return PuppetHandle(h)
}

func (d *dynamicLibrary) LoadPuppetFromMemory(data []byte) PuppetHandle {
	if len(data) == 0 {
		return PuppetHandle(d.inPuppetLoadFromMemory(nil, 0))
	}
	h := d.inPuppetLoadFromMemory(&data[0], uintptr(len(data)))
	runtime.KeepAlive(data)
	return PuppetHandle(h)
}

func (d *dynamicLibrary) DestroyPuppet(p PuppetHandle) {
	d.inPuppetDestroy(uintptr(p))
}

func (d *dynamicLibrary) PuppetName(p PuppetHandle) string {
	var (
		name   *byte
		length uintptr
	)
	d.inPuppetGetName(uintptr(p), &name, &length)
	if name == nil || length == 0 {
		return ""
	}
	return string(unsafe.Slice(name, length))
}

func (d *dynamicLibrary) UpdatePuppet(p PuppetHandle) {
	d.inPuppetUpdate(uintptr(p))
}

func (d *dynamicLibrary) Renderer() Renderer {
	if d.renderer == nil {
		return nil
	}
	return d.renderer
}

func (r *dynamicRenderer) SceneBegin() { r.inSceneBegin() }

func (r *dynamicRenderer) SceneEnd() { r.inSceneEnd() }

func (r *dynamicRenderer) SceneDraw(x, y, width, height float32) {
	r.inSceneDraw(x, y, width, height)
}

func (r *dynamicRenderer) DrawPuppet(p PuppetHandle) {
	r.inPuppetDraw(uintptr(p))
}
