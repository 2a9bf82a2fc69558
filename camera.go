package inochi2d

import (
	"io"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/inochi2d/inochi2d-go/native"
)

// sharedCamera is the native current camera. The library has exactly one,
// so every Camera value of a Context shares this handle and the last
// release destroys it.
type sharedCamera struct {
	lib    native.Library
	handle native.CameraHandle
	refs   int
}

func (s *sharedCamera) release() {
	if s.handle == 0 {
		return
	}
	s.refs--
	if s.refs <= 0 {
		s.destroy()
	}
}

func (s *sharedCamera) destroy() {
	if s.handle == 0 {
		return
	}
	s.lib.DestroyCamera(s.handle)
	s.handle = 0
	s.refs = 0
	Logger().Debug("inochi2d: camera destroyed")
}

// CameraOption configures the camera state applied by Context.Camera.
// Fields without an option are read back from the native camera.
type CameraOption func(*cameraOptions)

type cameraOptions struct {
	zoom       float32
	x, y       float32
	hasZoom    bool
	hasX, hasY bool
}

// WithZoom sets the initial zoom.
func WithZoom(zoom float32) CameraOption {
	return func(o *cameraOptions) {
		o.zoom = zoom
		o.hasZoom = true
	}
}

// WithX sets the initial horizontal position.
func WithX(x float32) CameraOption {
	return func(o *cameraOptions) {
		o.x = x
		o.hasX = true
	}
}

// WithY sets the initial vertical position.
func WithY(y float32) CameraOption {
	return func(o *cameraOptions) {
		o.y = y
		o.hasY = true
	}
}

// WithPosition sets the initial position.
func WithPosition(x, y float32) CameraOption {
	return func(o *cameraOptions) {
		WithX(x)(o)
		WithY(y)(o)
	}
}

// Camera is a view of the native current camera.
//
// Zoom and position are mirrored locally; the mirror may be stale and the
// getters always re-read the native state. Several Camera values may exist
// at once; they alias the same native camera, which is destroyed when the
// last of them is closed or when the Context closes.
type Camera struct {
	shared *sharedCamera

	zoom float32
	x, y float32

	zoomTween *gween.Tween
	panX      *gween.Tween
	panY      *gween.Tween

	closed bool
}

// Ensure Camera implements io.Closer
var _ io.Closer = (*Camera)(nil)

// Camera binds the native current camera and applies opts. Options that
// are not given are filled from the native state, so the camera is never
// reset behind the caller's back.
//
// Example:
//
//	cam, err := ctx.Camera(inochi2d.WithZoom(0.15), inochi2d.WithPosition(0, 0))
//	if err != nil {
//	    return err
//	}
//	defer cam.Close()
func (c *Context) Camera(opts ...CameraOption) (*Camera, error) {
	if c.closed {
		return nil, ErrClosed
	}

	var o cameraOptions
	for _, opt := range opts {
		opt(&o)
	}

	if c.camera == nil || c.camera.handle == 0 {
		h := c.lib.CurrentCamera()
		if h == 0 {
			return nil, ErrNoCamera
		}
		c.camera = &sharedCamera{lib: c.lib, handle: h}
	}
	c.camera.refs++

	lib, h := c.lib, c.camera.handle
	if !o.hasZoom {
		o.zoom = lib.CameraZoom(h)
	}
	if !o.hasX || !o.hasY {
		x, y := lib.CameraPosition(h)
		if !o.hasX {
			o.x = x
		}
		if !o.hasY {
			o.y = y
		}
	}

	lib.SetCameraZoom(h, o.zoom)
	lib.SetCameraPosition(h, o.x, o.y)
	Logger().Debug("inochi2d: camera bound", "zoom", o.zoom, "x", o.x, "y", o.y)

	return &Camera{shared: c.camera, zoom: o.zoom, x: o.x, y: o.y}, nil
}

func (c *Camera) alive() bool {
	return !c.closed && c.shared.handle != 0
}

// SetZoom sets the native zoom.
func (c *Camera) SetZoom(zoom float32) {
	if !c.alive() {
		return
	}
	Logger().Debug("inochi2d: camera zoom", "zoom", zoom)
	c.shared.lib.SetCameraZoom(c.shared.handle, zoom)
	c.zoom = zoom
}

// Zoom reads the native zoom.
func (c *Camera) Zoom() float32 {
	if !c.alive() {
		return c.zoom
	}
	c.zoom = c.shared.lib.CameraZoom(c.shared.handle)
	return c.zoom
}

// SetPosition sets the native position.
func (c *Camera) SetPosition(x, y float32) {
	if !c.alive() {
		return
	}
	Logger().Debug("inochi2d: camera position", "x", x, "y", y)
	c.shared.lib.SetCameraPosition(c.shared.handle, x, y)
	c.x, c.y = x, y
}

// Position reads the native position.
func (c *Camera) Position() (x, y float32) {
	if !c.alive() {
		return c.x, c.y
	}
	c.x, c.y = c.shared.lib.CameraPosition(c.shared.handle)
	return c.x, c.y
}

// Cached returns the local mirror without a native call. It reflects the
// last setter or getter on this Camera value only.
func (c *Camera) Cached() (zoom, x, y float32) {
	return c.zoom, c.x, c.y
}

// Offset returns the camera's center offset.
func (c *Camera) Offset() (x, y float32) {
	if !c.alive() {
		return 0, 0
	}
	return c.shared.lib.CameraCenterOffset(c.shared.handle)
}

// RealSize returns the visible area size in world units.
func (c *Camera) RealSize() (width, height float32) {
	if !c.alive() {
		return 0, 0
	}
	return c.shared.lib.CameraRealSize(c.shared.handle)
}

// Matrix returns the camera transform in the native library's layout.
// The values are returned unmodified.
func (c *Camera) Matrix() [16]float32 {
	if !c.alive() {
		return [16]float32{}
	}
	return c.shared.lib.CameraMatrix(c.shared.handle)
}

// ZoomTo animates the zoom to the given value over duration seconds.
// A nil easing function means ease.Linear. Call Animate every frame.
// A duration of zero or less sets the zoom immediately.
func (c *Camera) ZoomTo(zoom, duration float32, fn ease.TweenFunc) {
	if !c.alive() {
		return
	}
	if duration <= 0 {
		c.zoomTween = nil
		c.SetZoom(zoom)
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	c.zoomTween = gween.New(c.Zoom(), zoom, duration, fn)
}

// PanTo animates the position to (x, y) over duration seconds.
// A nil easing function means ease.Linear. Call Animate every frame.
// A duration of zero or less moves the camera immediately.
func (c *Camera) PanTo(x, y, duration float32, fn ease.TweenFunc) {
	if !c.alive() {
		return
	}
	if duration <= 0 {
		c.panX, c.panY = nil, nil
		c.SetPosition(x, y)
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	cx, cy := c.Position()
	c.panX = gween.New(cx, x, duration, fn)
	c.panY = gween.New(cy, y, duration, fn)
}

// Animate advances running ZoomTo and PanTo animations by dt seconds and
// writes the results to the native camera. It reports whether any
// animation is still running.
func (c *Camera) Animate(dt float32) bool {
	if !c.alive() {
		c.zoomTween, c.panX, c.panY = nil, nil, nil
		return false
	}

	if c.zoomTween != nil {
		zoom, done := c.zoomTween.Update(dt)
		c.SetZoom(zoom)
		if done {
			c.zoomTween = nil
		}
	}

	if c.panX != nil {
		x, doneX := c.panX.Update(dt)
		y, doneY := c.panY.Update(dt)
		c.SetPosition(x, y)
		if doneX && doneY {
			c.panX, c.panY = nil, nil
		}
	}

	return c.zoomTween != nil || c.panX != nil
}

// Close releases this Camera's reference to the native camera. The native
// camera is destroyed when no Camera refers to it. Close is idempotent and
// always returns nil.
func (c *Camera) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.zoomTween, c.panX, c.panY = nil, nil, nil
	c.shared.release()
	return nil
}
