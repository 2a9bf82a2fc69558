//go:build (linux || darwin || freebsd) && (amd64 || arm64) && !cgo

package native

import (
	"slices"
	"testing"
	"unsafe"
)

func TestDynamicInitInstallsTiming(t *testing.T) {
	var got []uintptr
	lib := &dynamicLibrary{
		inInit:    func(timing uintptr) { got = append(got, timing) },
		inCleanup: func() {},
	}

	lib.Init(func() float64 { return 1.5 })
	if len(got) != 1 || got[0] == 0 {
		t.Fatalf("inInit received %v, want one non-zero callback", got)
	}
	if v := timingTrampoline(); v != 1.5 {
		t.Errorf("timingTrampoline() = %v, want 1.5", v)
	}

	lib.Cleanup()
	if v := timingTrampoline(); v != 0 {
		t.Errorf("timingTrampoline() after Cleanup = %v, want 0", v)
	}

	lib.Init(func() float64 { return 42 })
	if len(got) != 2 || got[1] != got[0] {
		t.Errorf("callbacks = %v, want the same callback reused", got)
	}
	if v := timingTrampoline(); v != 42 {
		t.Errorf("timingTrampoline() = %v, want 42", v)
	}
	lib.Cleanup()
}

func TestDynamicLastError(t *testing.T) {
	msg := []byte("puppet file is corrupt")
	tests := []struct {
		name string
		slot *inError
		want []byte
	}{
		{"nil slot", nil, nil},
		{"nil message", &inError{len: 4}, nil},
		{"zero length", &inError{msg: &msg[0]}, nil},
		{"message", &inError{len: uintptr(len(msg)), msg: &msg[0]}, msg},
		{"prefix", &inError{len: 6, msg: &msg[0]}, msg[:6]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := &dynamicLibrary{inErrorGet: func() *inError { return tt.slot }}
			if got := lib.LastError(); !slices.Equal(got, tt.want) {
				t.Errorf("LastError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDynamicLastErrorCopies(t *testing.T) {
	buf := []byte("out of memory")
	lib := &dynamicLibrary{inErrorGet: func() *inError {
		return &inError{len: uintptr(len(buf)), msg: &buf[0]}
	}}

	got := lib.LastError()
	copy(buf, "XXXXXXXXXXXXX")
	if string(got) != "out of memory" {
		t.Errorf("LastError() = %q after the native buffer changed", got)
	}
}

func TestDynamicPuppetName(t *testing.T) {
	name := []byte("Aka")
	lib := &dynamicLibrary{inPuppetGetName: func(p uintptr, out **byte, length *uintptr) {
		if p != 7 {
			return
		}
		*out = &name[0]
		*length = uintptr(len(name))
	}}

	if got := lib.PuppetName(7); got != "Aka" {
		t.Errorf("PuppetName(7) = %q, want Aka", got)
	}
	if got := lib.PuppetName(8); got != "" {
		t.Errorf("PuppetName(8) = %q, want empty", got)
	}
}

func TestDynamicCameraOutParams(t *testing.T) {
	const cam = 0xCA
	var seen []uintptr
	lib := &dynamicLibrary{
		inCameraGetPosition: func(c uintptr, x, y *float32) {
			seen = append(seen, c)
			*x, *y = 1, -2
		},
		inCameraGetZoom: func(c uintptr, zoom *float32) {
			seen = append(seen, c)
			*zoom = 0.25
		},
		inCameraGetCenterOffset: func(c uintptr, x, y *float32) {
			seen = append(seen, c)
			*x, *y = 400, 300
		},
		inCameraGetRealSize: func(c uintptr, x, y *float32) {
			seen = append(seen, c)
			*x, *y = 3200, 2400
		},
		inCameraGetMatrix: func(c uintptr, mat4 *float32) {
			seen = append(seen, c)
			m := unsafe.Slice(mat4, 16)
			for i := range m {
				m[i] = float32(i)
			}
		},
	}

	if x, y := lib.CameraPosition(cam); x != 1 || y != -2 {
		t.Errorf("CameraPosition() = (%v, %v)", x, y)
	}
	if z := lib.CameraZoom(cam); z != 0.25 {
		t.Errorf("CameraZoom() = %v", z)
	}
	if x, y := lib.CameraCenterOffset(cam); x != 400 || y != 300 {
		t.Errorf("CameraCenterOffset() = (%v, %v)", x, y)
	}
	if w, h := lib.CameraRealSize(cam); w != 3200 || h != 2400 {
		t.Errorf("CameraRealSize() = (%v, %v)", w, h)
	}
	m := lib.CameraMatrix(cam)
	for i, v := range m {
		if v != float32(i) {
			t.Fatalf("CameraMatrix()[%d] = %v, want %d", i, v, i)
		}
	}
	for _, c := range seen {
		if c != cam {
			t.Errorf("camera handle passed as %#x, want %#x", c, cam)
		}
	}
}

func TestDynamicViewport(t *testing.T) {
	var set [2]int32
	lib := &dynamicLibrary{
		inViewportSet: func(w, h int32) { set = [2]int32{w, h} },
		inViewportGet: func(w, h *int32) { *w, *h = set[0], set[1] },
	}

	lib.SetViewport(1920, 1080)
	if w, h := lib.Viewport(); w != 1920 || h != 1080 {
		t.Errorf("Viewport() = %dx%d, want 1920x1080", w, h)
	}
}

func TestDynamicLoadPuppet(t *testing.T) {
	var (
		gotPath string
		gotNil  bool
	)
	lib := &dynamicLibrary{inPuppetLoadEx: func(path *byte, length uintptr) uintptr {
		gotNil = path == nil
		if path == nil {
			gotPath = ""
			return 0
		}
		gotPath = string(unsafe.Slice(path, length))
		return 3
	}}

	if h := lib.LoadPuppet("models/Aka.inx"); h != 3 {
		t.Errorf("LoadPuppet() = %d, want 3", h)
	}
	if gotPath != "models/Aka.inx" {
		t.Errorf("native path = %q", gotPath)
	}

	if h := lib.LoadPuppet(""); h != 0 {
		t.Errorf("LoadPuppet(\"\") = %d, want 0", h)
	}
	if !gotNil {
		t.Error("empty path not passed as a nil pointer")
	}
}

func TestDynamicLoadPuppetFromMemory(t *testing.T) {
	var got []byte
	lib := &dynamicLibrary{inPuppetLoadFromMemory: func(data *byte, length uintptr) uintptr {
		if data == nil {
			if length != 0 {
				t.Errorf("nil data with length %d", length)
			}
			return 0
		}
		got = slices.Clone(unsafe.Slice(data, length))
		return 5
	}}

	if h := lib.LoadPuppetFromMemory([]byte("INOCHI")); h != 5 || string(got) != "INOCHI" {
		t.Errorf("LoadPuppetFromMemory() = %d with %q", h, got)
	}
	if h := lib.LoadPuppetFromMemory(nil); h != 0 {
		t.Errorf("LoadPuppetFromMemory(nil) = %d, want 0", h)
	}
}

func TestDynamicHandlesPassThrough(t *testing.T) {
	var calls []string
	record := func(name string) func(uintptr) {
		return func(p uintptr) {
			if p != 9 {
				t.Errorf("%s received %d, want 9", name, p)
			}
			calls = append(calls, name)
		}
	}
	lib := &dynamicLibrary{
		inPuppetUpdate:  record("update"),
		inPuppetDestroy: record("destroy"),
		inCameraDestroy: record("camera.destroy"),
	}

	lib.UpdatePuppet(9)
	lib.DestroyPuppet(9)
	lib.DestroyCamera(9)
	want := []string{"update", "destroy", "camera.destroy"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestDynamicOptionalUpdate(t *testing.T) {
	lib := &dynamicLibrary{}
	lib.Update()

	var n int
	lib.inUpdate = func() { n++ }
	lib.Update()
	if n != 1 {
		t.Errorf("inUpdate called %d times, want 1", n)
	}
}

func TestDynamicRenderer(t *testing.T) {
	lib := &dynamicLibrary{}
	if lib.Renderer() != nil {
		t.Fatal("Renderer() non-nil without renderer symbols")
	}

	var calls []string
	var rect [4]float32
	lib.renderer = &dynamicRenderer{
		inSceneBegin: func() { calls = append(calls, "begin") },
		inSceneEnd:   func() { calls = append(calls, "end") },
		inSceneDraw: func(x, y, w, h float32) {
			rect = [4]float32{x, y, w, h}
			calls = append(calls, "draw")
		},
		inPuppetDraw: func(p uintptr) { calls = append(calls, "puppet") },
	}

	r := lib.Renderer()
	if r == nil {
		t.Fatal("Renderer() = nil with renderer symbols")
	}
	r.SceneBegin()
	r.DrawPuppet(1)
	r.SceneEnd()
	r.SceneDraw(0, 0, 800, 600)

	if want := []string{"begin", "puppet", "end", "draw"}; !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if rect != [4]float32{0, 0, 800, 600} {
		t.Errorf("SceneDraw rect = %v", rect)
	}
}
