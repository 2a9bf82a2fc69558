// Package nativetest provides an in-memory native.Library for tests.
//
// Recorder behaves like libinochi2d-c closely enough to exercise ownership
// and ordering rules: it hands out handles, keeps a last-write-wins error
// slot and records every call in order. Misuse that would corrupt the real
// library (double destroy, calls after cleanup, draws outside a bracket)
// is counted in Faults instead of crashing.
package nativetest

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/inochi2d/inochi2d-go/native"
)

// MemorySource is the FailLoads key that matches memory loads.
const MemorySource = "<memory>"

// DriverName is the registry name used by Register.
const DriverName = "nativetest"

// CameraToken is the handle Recorder returns for the current camera.
const CameraToken native.CameraHandle = 0xCA

type puppetState struct {
	name    string
	content []byte
}

// Recorder is a recording native.Library. The zero value is not usable;
// create one with New.
type Recorder struct {
	// Calls lists every native call in the order it was issued.
	Calls []string

	// Faults lists calls that would be undefined behavior natively.
	Faults []string

	// Rendering makes Renderer return a non-nil Renderer.
	Rendering bool

	// FailLoads maps a load source (path or MemorySource) to the message
	// written into the error slot when that load fails. An empty message
	// leaves the slot empty.
	FailLoads map[string]string

	// Offset, RealSize and Matrix are returned by the read-only camera
	// queries.
	Offset   [2]float32
	RealSize [2]float32
	Matrix   [16]float32

	zoom, x, y float32

	width, height int32
	initialized   bool
	timing        func() float64
	errSlot       []byte
	bracketOpen   bool

	next    native.PuppetHandle
	puppets map[native.PuppetHandle]*puppetState
}

var _ native.Library = (*Recorder)(nil)

// New returns a Recorder whose camera starts at zoom 1, position (0, 0).
func New() *Recorder {
	return &Recorder{
		FailLoads: make(map[string]string),
		zoom:      1,
		puppets:   make(map[native.PuppetHandle]*puppetState),
	}
}

// Register registers a loader under DriverName that always returns r.
func Register(r *Recorder) {
	native.Register(DriverName, func(string) (native.Library, error) {
		return r, nil
	})
}

// SetCamera sets the native camera state without recording a call.
func (r *Recorder) SetCamera(zoom, x, y float32) {
	r.zoom, r.x, r.y = zoom, x, y
}

// SetError writes msg into the error slot without recording a call.
func (r *Recorder) SetError(msg string) {
	r.errSlot = []byte(msg)
}

// Initialized reports whether Init ran without a matching Cleanup.
func (r *Recorder) Initialized() bool { return r.initialized }

// BracketOpen reports whether a scene begin is outstanding.
func (r *Recorder) BracketOpen() bool { return r.bracketOpen }

// LivePuppets returns the number of loaded and not yet destroyed puppets.
func (r *Recorder) LivePuppets() int { return len(r.puppets) }

// Content returns the model bytes a live puppet was loaded from.
func (r *Recorder) Content(p native.PuppetHandle) []byte {
	if st, ok := r.puppets[p]; ok {
		return st.content
	}
	return nil
}

// Now calls the timing function installed by Init.
func (r *Recorder) Now() float64 {
	if r.timing == nil {
		return 0
	}
	return r.timing()
}

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Index returns the position of the first call starting with prefix,
// or -1.
func (r *Recorder) Index(prefix string) int {
	return slices.IndexFunc(r.Calls, func(c string) bool {
		return strings.HasPrefix(c, prefix)
	})
}

// Last returns the most recent call, or "".
func (r *Recorder) Last() string {
	if len(r.Calls) == 0 {
		return ""
	}
	return r.Calls[len(r.Calls)-1]
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) fault(format string, args ...any) {
	r.Faults = append(r.Faults, fmt.Sprintf(format, args...))
}

func (r *Recorder) live(call string) {
	if !r.initialized {
		r.fault("%s before init", call)
	}
}

func (r *Recorder) Init(timing func() float64) {
	r.record("init")
	if r.initialized {
		r.fault("init twice")
	}
	r.initialized = true
	r.timing = timing
}

func (r *Recorder) Cleanup() {
	r.record("cleanup")
	r.live("cleanup")
	if len(r.puppets) > 0 {
		r.fault("cleanup with %d live puppets", len(r.puppets))
	}
	r.initialized = false
	r.timing = nil
}

func (r *Recorder) Update() {
	r.record("update")
	r.live("update")
	if r.timing != nil {
		r.timing()
	}
}

func (r *Recorder) SetViewport(width, height int32) {
	r.record("viewport.set %d %d", width, height)
	r.live("viewport.set")
	r.width, r.height = width, height
}

func (r *Recorder) Viewport() (width, height int32) {
	r.record("viewport.get")
	r.live("viewport.get")
	return r.width, r.height
}

func (r *Recorder) LastError() []byte {
	r.record("error.get")
	if len(r.errSlot) == 0 {
		return nil
	}
	return slices.Clone(r.errSlot)
}

func (r *Recorder) CurrentCamera() native.CameraHandle {
	r.record("camera.current")
	r.live("camera.current")
	return CameraToken
}

func (r *Recorder) camera(call string, cam native.CameraHandle) {
	r.live(call)
	if cam != CameraToken {
		r.fault("%s on invalid camera %#x", call, uintptr(cam))
	}
}

func (r *Recorder) DestroyCamera(cam native.CameraHandle) {
	r.record("camera.destroy")
	r.camera("camera.destroy", cam)
}

func (r *Recorder) CameraPosition(cam native.CameraHandle) (x, y float32) {
	r.record("camera.position.get")
	r.camera("camera.position.get", cam)
	return r.x, r.y
}

func (r *Recorder) SetCameraPosition(cam native.CameraHandle, x, y float32) {
	r.record("camera.position.set %g %g", x, y)
	r.camera("camera.position.set", cam)
	r.x, r.y = x, y
}

func (r *Recorder) CameraZoom(cam native.CameraHandle) float32 {
	r.record("camera.zoom.get")
	r.camera("camera.zoom.get", cam)
	return r.zoom
}

func (r *Recorder) SetCameraZoom(cam native.CameraHandle, zoom float32) {
	r.record("camera.zoom.set %g", zoom)
	r.camera("camera.zoom.set", cam)
	r.zoom = zoom
}

func (r *Recorder) CameraCenterOffset(cam native.CameraHandle) (x, y float32) {
	r.record("camera.offset")
	r.camera("camera.offset", cam)
	return r.Offset[0], r.Offset[1]
}

func (r *Recorder) CameraRealSize(cam native.CameraHandle) (width, height float32) {
	r.record("camera.size")
	r.camera("camera.size", cam)
	return r.RealSize[0], r.RealSize[1]
}

func (r *Recorder) CameraMatrix(cam native.CameraHandle) [16]float32 {
	r.record("camera.matrix")
	r.camera("camera.matrix", cam)
	return r.Matrix
}

func (r *Recorder) LoadPuppet(path string) native.PuppetHandle {
	r.record("puppet.load %s", path)
	r.live("puppet.load")
	if msg, ok := r.FailLoads[path]; ok {
		r.errSlot = []byte(msg)
		return 0
	}
	data, err := os.ReadFile(path)
	if err != nil {
		r.errSlot = []byte(err.Error())
		return 0
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return r.add(name, data)
}

func (r *Recorder) LoadPuppetFromMemory(data []byte) native.PuppetHandle {
	r.record("puppet.load.memory %d", len(data))
	r.live("puppet.load.memory")
	if msg, ok := r.FailLoads[MemorySource]; ok {
		r.errSlot = []byte(msg)
		return 0
	}
	if len(data) == 0 {
		r.errSlot = []byte("empty buffer")
		return 0
	}
	return r.add("", slices.Clone(data))
}

func (r *Recorder) add(name string, content []byte) native.PuppetHandle {
	r.next++
	r.puppets[r.next] = &puppetState{name: name, content: content}
	return r.next
}

func (r *Recorder) puppet(call string, p native.PuppetHandle) *puppetState {
	r.live(call)
	st, ok := r.puppets[p]
	if !ok {
		r.fault("%s on invalid puppet %d", call, p)
	}
	return st
}

func (r *Recorder) DestroyPuppet(p native.PuppetHandle) {
	r.record("puppet.destroy %d", p)
	if r.puppet("puppet.destroy", p) != nil {
		delete(r.puppets, p)
	}
}

func (r *Recorder) PuppetName(p native.PuppetHandle) string {
	r.record("puppet.name %d", p)
	if st := r.puppet("puppet.name", p); st != nil {
		return st.name
	}
	return ""
}

func (r *Recorder) UpdatePuppet(p native.PuppetHandle) {
	r.record("puppet.update %d", p)
	r.puppet("puppet.update", p)
}

func (r *Recorder) Renderer() native.Renderer {
	if !r.Rendering {
		return nil
	}
	return recorderRenderer{r}
}

// recorderRenderer keeps the drawing methods off Recorder itself so a
// renderless Recorder does not satisfy native.Renderer by accident.
type recorderRenderer struct {
	r *Recorder
}

func (rr recorderRenderer) SceneBegin() {
	r := rr.r
	r.record("scene.begin")
	r.live("scene.begin")
	if r.bracketOpen {
		r.fault("scene.begin inside open bracket")
	}
	r.bracketOpen = true
}

func (rr recorderRenderer) SceneEnd() {
	r := rr.r
	r.record("scene.end")
	r.live("scene.end")
	if !r.bracketOpen {
		r.fault("scene.end without begin")
	}
	r.bracketOpen = false
}

func (rr recorderRenderer) SceneDraw(x, y, width, height float32) {
	r := rr.r
	r.record("scene.draw %g %g %g %g", x, y, width, height)
	r.live("scene.draw")
}

func (rr recorderRenderer) DrawPuppet(p native.PuppetHandle) {
	r := rr.r
	r.record("puppet.draw %d", p)
	r.puppet("puppet.draw", p)
	if !r.bracketOpen {
		r.fault("puppet.draw %d outside bracket", p)
	}
}
