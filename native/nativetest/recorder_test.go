package nativetest

import (
	"slices"
	"testing"
)

func TestRecorderFaults(t *testing.T) {
	r := New()

	r.SetViewport(1, 1)
	if len(r.Faults) != 1 {
		t.Fatalf("call before init: faults = %v", r.Faults)
	}

	r = New()
	r.Init(func() float64 { return 0 })
	h := r.LoadPuppetFromMemory([]byte("model"))
	r.DestroyPuppet(h)
	r.DestroyPuppet(h)
	if len(r.Faults) != 1 {
		t.Errorf("double destroy: faults = %v", r.Faults)
	}
}

func TestRecorderCleanupWithLivePuppets(t *testing.T) {
	r := New()
	r.Init(func() float64 { return 0 })
	r.LoadPuppetFromMemory([]byte("model"))
	r.Cleanup()
	if len(r.Faults) != 1 {
		t.Errorf("faults = %v, want one for the leaked puppet", r.Faults)
	}
}

func TestRecorderErrorSlot(t *testing.T) {
	r := New()
	r.Init(func() float64 { return 0 })

	if r.LastError() != nil {
		t.Error("fresh error slot not empty")
	}
	r.FailLoads["a.inx"] = "first"
	r.FailLoads["b.inx"] = "second"
	r.LoadPuppet("a.inx")
	r.LoadPuppet("b.inx")
	if got := string(r.LastError()); got != "second" {
		t.Errorf("LastError() = %q, want last write %q", got, "second")
	}
}

func TestRecorderRenderer(t *testing.T) {
	r := New()
	if r.Renderer() != nil {
		t.Error("Renderer() non-nil without Rendering")
	}

	r.Rendering = true
	r.Init(func() float64 { return 0 })
	rr := r.Renderer()
	rr.SceneBegin()
	rr.SceneEnd()
	rr.SceneEnd()

	want := []string{"init", "scene.begin", "scene.end", "scene.end"}
	if !slices.Equal(r.Calls, want) {
		t.Errorf("calls = %v, want %v", r.Calls, want)
	}
	if len(r.Faults) != 1 {
		t.Errorf("unbalanced end: faults = %v", r.Faults)
	}
}
