package inochi2d

import (
	"math"
	"slices"
	"testing"

	"github.com/tanema/gween/ease"

	"github.com/inochi2d/inochi2d-go/native/nativetest"
)

func TestCameraOptionsFillFromNative(t *testing.T) {
	tests := []struct {
		name          string
		opts          []CameraOption
		zoom, x, y    float32
		readsZoom     bool
		readsPosition bool
	}{
		{"none", nil, 2, 10, 20, true, true},
		{"zoom only", []CameraOption{WithZoom(0.15)}, 0.15, 10, 20, false, true},
		{"x only", []CameraOption{WithX(5)}, 2, 5, 20, true, true},
		{"all", []CameraOption{WithZoom(0.5), WithPosition(1, 2)}, 0.5, 1, 2, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := nativetest.New()
			r.SetCamera(2, 10, 20)
			ctx := newTestContext(t, r)
			r.Calls = nil

			cam, err := ctx.Camera(tt.opts...)
			if err != nil {
				t.Fatalf("Camera() error = %v", err)
			}
			defer cam.Close()

			zoom, x, y := cam.Cached()
			if zoom != tt.zoom || x != tt.x || y != tt.y {
				t.Errorf("Cached() = (%g, %g, %g), want (%g, %g, %g)", zoom, x, y, tt.zoom, tt.x, tt.y)
			}
			if got := r.Count("camera.zoom.get") > 0; got != tt.readsZoom {
				t.Errorf("read zoom = %t, want %t", got, tt.readsZoom)
			}
			if got := r.Count("camera.position.get") > 0; got != tt.readsPosition {
				t.Errorf("read position = %t, want %t", got, tt.readsPosition)
			}
			// Native state must match, so untouched fields are preserved.
			if z := cam.Zoom(); z != tt.zoom {
				t.Errorf("native zoom = %g, want %g", z, tt.zoom)
			}
		})
	}
}

func TestCameraZoomRoundTrip(t *testing.T) {
	r := nativetest.New()
	ctx := newTestContext(t, r)
	cam, err := ctx.Camera()
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	for _, z := range []float32{0.15, 1, 10, 0, -3.5, math.SmallestNonzeroFloat32, math.MaxFloat32} {
		cam.SetZoom(z)
		if got := cam.Zoom(); got != z {
			t.Errorf("Zoom() after SetZoom(%g) = %g", z, got)
		}
	}
}

func TestCameraGettersReadNative(t *testing.T) {
	r := nativetest.New()
	ctx := newTestContext(t, r)
	cam, err := ctx.Camera(WithZoom(1), WithPosition(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	// Native state changes behind the wrapper's back.
	r.SetCamera(4, 7, 8)

	if zoom, _, _ := cam.Cached(); zoom != 1 {
		t.Errorf("cache changed without a getter: zoom = %g", zoom)
	}
	if z := cam.Zoom(); z != 4 {
		t.Errorf("Zoom() = %g, want 4", z)
	}
	if x, y := cam.Position(); x != 7 || y != 8 {
		t.Errorf("Position() = (%g, %g), want (7, 8)", x, y)
	}
	if zoom, x, y := cam.Cached(); zoom != 4 || x != 7 || y != 8 {
		t.Errorf("Cached() = (%g, %g, %g), want refreshed (4, 7, 8)", zoom, x, y)
	}
}

func TestCameraDerivedQueries(t *testing.T) {
	r := nativetest.New()
	r.Offset = [2]float32{400, 300}
	r.RealSize = [2]float32{1600, 1200}
	for i := range r.Matrix {
		r.Matrix[i] = float32(i) * 0.5
	}
	r.Matrix[3] = float32(math.Inf(1))
	ctx := newTestContext(t, r)

	cam, err := ctx.Camera()
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	if x, y := cam.Offset(); x != 400 || y != 300 {
		t.Errorf("Offset() = (%g, %g)", x, y)
	}
	if w, h := cam.RealSize(); w != 1600 || h != 1200 {
		t.Errorf("RealSize() = (%g, %g)", w, h)
	}
	m := cam.Matrix()
	for i := range m {
		if math.Float32bits(m[i]) != math.Float32bits(r.Matrix[i]) {
			t.Errorf("Matrix()[%d] = %g, want %g", i, m[i], r.Matrix[i])
		}
	}
}

func TestCameraSharedHandle(t *testing.T) {
	r := nativetest.New()
	ctx := newTestContext(t, r)

	a, err := ctx.Camera()
	if err != nil {
		t.Fatal(err)
	}
	b, err := ctx.Camera()
	if err != nil {
		t.Fatal(err)
	}
	if n := r.Count("camera.current"); n != 1 {
		t.Errorf("camera.current count = %d, want 1", n)
	}

	a.SetZoom(3)
	if z := b.Zoom(); z != 3 {
		t.Errorf("aliased camera Zoom() = %g, want 3", z)
	}

	a.Close()
	a.Close()
	if r.Count("camera.destroy") != 0 {
		t.Fatal("camera destroyed while still referenced")
	}
	b.Close()
	if n := r.Count("camera.destroy"); n != 1 {
		t.Errorf("camera.destroy count = %d, want 1", n)
	}

	// A fresh bind after the last release reacquires the camera.
	c, err := ctx.Camera()
	if err != nil {
		t.Fatal(err)
	}
	c.Close()
	if n := r.Count("camera.current"); n != 2 {
		t.Errorf("camera.current count = %d, want 2", n)
	}
	checkNoFaults(t, r)
}

func TestCameraAfterContextClose(t *testing.T) {
	r := nativetest.New()
	ctx, err := NewContext(r, zeroClock, 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	cam, err := ctx.Camera(WithZoom(2))
	if err != nil {
		t.Fatal(err)
	}
	ctx.Close()
	r.Calls = nil

	cam.SetZoom(5)
	if z := cam.Zoom(); z != 2 {
		t.Errorf("Zoom() on dead camera = %g, want cached 2", z)
	}
	if m := cam.Matrix(); m != ([16]float32{}) {
		t.Errorf("Matrix() on dead camera = %v, want zero", m)
	}
	cam.Close()
	if len(r.Calls) != 0 {
		t.Errorf("native calls after Context.Close: %v", r.Calls)
	}
	checkNoFaults(t, r)
}

func TestCameraAnimate(t *testing.T) {
	r := nativetest.New()
	ctx := newTestContext(t, r)
	cam, err := ctx.Camera(WithZoom(1), WithPosition(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	cam.ZoomTo(3, 1, ease.Linear)
	cam.PanTo(10, -10, 1, nil)

	if !cam.Animate(0.5) {
		t.Fatal("Animate(0.5) = false, want running")
	}
	if z := cam.Zoom(); math.Abs(float64(z-2)) > 1e-5 {
		t.Errorf("zoom at half time = %g, want 2", z)
	}
	if x, y := cam.Position(); math.Abs(float64(x-5)) > 1e-5 || math.Abs(float64(y+5)) > 1e-5 {
		t.Errorf("position at half time = (%g, %g), want (5, -5)", x, y)
	}

	if cam.Animate(0.5) {
		t.Error("Animate() still running after full duration")
	}
	if z := cam.Zoom(); z != 3 {
		t.Errorf("final zoom = %g, want 3", z)
	}
	if x, y := cam.Position(); x != 10 || y != -10 {
		t.Errorf("final position = (%g, %g), want (10, -10)", x, y)
	}
	if cam.Animate(0.1) {
		t.Error("Animate() with no tweens = true")
	}
}

func TestCameraAnimateZeroDuration(t *testing.T) {
	r := nativetest.New()
	ctx := newTestContext(t, r)
	cam, err := ctx.Camera(WithZoom(1), WithPosition(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	cam.ZoomTo(2, 0, nil)
	cam.PanTo(4, 8, -1, ease.OutQuad)

	if z := cam.Zoom(); z != 2 {
		t.Errorf("zoom = %g, want 2 without animating", z)
	}
	if x, y := cam.Position(); x != 4 || y != 8 {
		t.Errorf("position = (%g, %g), want (4, 8) without animating", x, y)
	}
	if cam.Animate(0) {
		t.Error("Animate(0) = true after zero-duration moves")
	}
	if z := cam.Zoom(); z != 2 {
		t.Errorf("zoom after Animate(0) = %g, want 2", z)
	}
}

func TestCameraSetterOrder(t *testing.T) {
	r := nativetest.New()
	ctx := newTestContext(t, r)
	r.Calls = nil

	cam, err := ctx.Camera(WithZoom(0.15), WithPosition(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	want := []string{"camera.current", "camera.zoom.set 0.15", "camera.position.set 0 0"}
	if !slices.Equal(r.Calls, want) {
		t.Errorf("calls = %v, want %v", r.Calls, want)
	}
}
