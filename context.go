package inochi2d

import (
	"io"
	"slices"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/inochi2d/inochi2d-go/native"
)

// Default viewport size used by NewBuilder.
const (
	DefaultViewportWidth  = 800
	DefaultViewportHeight = 600
)

// memoryPuppetName names puppets loaded from memory without a name.
const memoryPuppetName = "<in-memory-puppet>"

// active guards the process-wide native state. Only one Context may hold it.
var active atomic.Bool

// Context owns the initialized native library and every puppet, camera and
// scene created through it.
//
// Only one Context may be open per process: the native library keeps
// global state. All methods must be called from the OS thread that created
// the Context. Context implements io.Closer; Close releases children
// before the library itself.
type Context struct {
	lib      native.Library
	renderer native.Renderer

	// puppets are updated and drawn every frame, in order.
	puppets []*Puppet
	// detached puppets are owned by the caller but released at Close.
	detached []*Puppet

	camera *sharedCamera
	scene  *Scene

	width  int
	height int

	closed bool
}

// Ensure Context implements io.Closer
var _ io.Closer = (*Context)(nil)

// NewContext initializes the native library with the given timing
// function and viewport size.
//
// It returns ErrNoTiming or ErrNoLibrary for missing arguments and
// ErrContextActive if another Context is still open; none of these reach
// the native library. Most callers use Builder instead.
func NewContext(lib native.Library, timing TimingFunc, width, height int) (*Context, error) {
	if timing == nil {
		return nil, ErrNoTiming
	}
	if lib == nil {
		return nil, ErrNoLibrary
	}
	if !active.CompareAndSwap(false, true) {
		return nil, ErrContextActive
	}
	initialized := false
	defer func() {
		if !initialized {
			active.Store(false)
		}
	}()

	lib.Init(timing)
	lib.SetViewport(int32(width), int32(height))
	initialized = true

	c := &Context{
		lib:      lib,
		renderer: lib.Renderer(),
		width:    width,
		height:   height,
	}
	Logger().Info("inochi2d: context initialized",
		"width", width, "height", height, "rendering", c.renderer != nil)
	return c, nil
}

// Rendering reports whether the native library can draw.
func (c *Context) Rendering() bool {
	return c.renderer != nil
}

// Update runs the native global per-frame update.
func (c *Context) Update() {
	if c.closed {
		return
	}
	c.lib.Update()
}

// SetViewport sets the native viewport size. The values are passed
// through unvalidated.
func (c *Context) SetViewport(width, height int) {
	if c.closed {
		return
	}
	c.lib.SetViewport(int32(width), int32(height))
	c.width = width
	c.height = height
	Logger().Debug("inochi2d: viewport set", "width", width, "height", height)
}

// Viewport reads the viewport size from the native library and refreshes
// the cached copy.
func (c *Context) Viewport() (width, height int) {
	if c.closed {
		return c.width, c.height
	}
	w, h := c.lib.Viewport()
	c.width = int(w)
	c.height = int(h)
	return c.width, c.height
}

// CachedViewport returns the viewport size last set or read, without a
// native call.
func (c *Context) CachedViewport() (width, height int) {
	return c.width, c.height
}

// AddPuppet loads a puppet from path and appends it to the collection.
// Nothing is appended if the load fails.
func (c *Context) AddPuppet(path string) error {
	p, err := c.loadPath(path)
	if err != nil {
		return err
	}
	c.puppets = append(c.puppets, p)
	return nil
}

// AddPuppetFromMemory loads a puppet from an in-memory model file and
// appends it to the collection. An empty name is replaced by
// "<in-memory-puppet>".
func (c *Context) AddPuppetFromMemory(data []byte, name string) error {
	p, err := c.loadMemory(data, name)
	if err != nil {
		return err
	}
	c.puppets = append(c.puppets, p)
	return nil
}

// LoadPuppet loads a puppet from path without adding it to the
// collection. The caller owns it and should Close it; any puppet still
// open when the Context closes is released then.
func (c *Context) LoadPuppet(path string) (*Puppet, error) {
	p, err := c.loadPath(path)
	if err != nil {
		return nil, err
	}
	c.detached = append(c.detached, p)
	return p, nil
}

// LoadPuppetFromMemory is LoadPuppet for an in-memory model file.
func (c *Context) LoadPuppetFromMemory(data []byte, name string) (*Puppet, error) {
	p, err := c.loadMemory(data, name)
	if err != nil {
		return nil, err
	}
	c.detached = append(c.detached, p)
	return p, nil
}

// Puppets returns the collection in update and draw order.
func (c *Context) Puppets() []*Puppet {
	return slices.Clone(c.puppets)
}

// RemovePuppet closes p and removes it from the collection. It reports
// whether p was part of the collection.
func (c *Context) RemovePuppet(p *Puppet) bool {
	if p == nil || !slices.Contains(c.puppets, p) {
		return false
	}
	_ = p.Close()
	return true
}

// UpdatePuppets advances every puppet in the collection by one tick.
func (c *Context) UpdatePuppets() {
	for _, p := range c.puppets {
		p.Update()
	}
}

// DrawPuppets draws every puppet in the collection, in order, into the
// open scene. It fails before drawing anything when the library cannot
// render or no scene is open.
func (c *Context) DrawPuppets() error {
	if err := c.checkDraw(); err != nil {
		return err
	}
	for _, p := range c.puppets {
		c.renderer.DrawPuppet(p.handle)
	}
	return nil
}

func (c *Context) checkDraw() error {
	switch {
	case c.closed:
		return ErrClosed
	case c.renderer == nil:
		return ErrRenderingUnavailable
	case c.scene == nil:
		return ErrNoScene
	}
	return nil
}

func (c *Context) loadPath(path string) (*Puppet, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if !utf8.ValidString(path) || strings.IndexByte(path, 0) >= 0 {
		return nil, c.loadFailed(path, "path is not valid text")
	}

	h := c.lib.LoadPuppet(path)
	if h == 0 {
		return nil, c.loadFailed(path, lastErrorMessage(c.lib))
	}
	Logger().Debug("inochi2d: puppet loaded", "source", path)
	return &Puppet{ctx: c, handle: h, name: path}, nil
}

func (c *Context) loadMemory(data []byte, name string) (*Puppet, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if name == "" {
		name = memoryPuppetName
	}
	if len(data) == 0 {
		return nil, c.loadFailed(name, "empty puppet buffer")
	}

	h := c.lib.LoadPuppetFromMemory(data)
	if h == 0 {
		return nil, c.loadFailed(name, lastErrorMessage(c.lib))
	}
	Logger().Debug("inochi2d: puppet loaded", "source", name, "bytes", len(data))
	return &Puppet{ctx: c, handle: h, name: name}, nil
}

func (c *Context) loadFailed(source, msg string) error {
	Logger().Warn("inochi2d: puppet load failed", "source", source, "error", msg)
	return &LoadError{Source: source, Message: msg}
}

// forget drops p from whichever list holds it.
func (c *Context) forget(p *Puppet) {
	c.puppets = slices.DeleteFunc(c.puppets, func(q *Puppet) bool { return q == p })
	c.detached = slices.DeleteFunc(c.detached, func(q *Puppet) bool { return q == p })
}

// Close tears the Context down. It closes any open scene, destroys the
// collection in order, then detached puppets, then the camera, and calls
// native cleanup last. Close is idempotent and always returns nil.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}

	if c.scene != nil {
		_ = c.scene.Close()
	}
	for _, p := range c.puppets {
		p.release()
	}
	c.puppets = nil
	for _, p := range c.detached {
		p.release()
	}
	c.detached = nil
	if c.camera != nil {
		c.camera.destroy()
		c.camera = nil
	}

	c.lib.Cleanup()
	c.closed = true
	active.Store(false)

	Logger().Info("inochi2d: context closed")
	return nil
}
