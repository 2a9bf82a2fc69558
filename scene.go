package inochi2d

import (
	"io"

	"github.com/inochi2d/inochi2d-go/native"
)

// Scene holds the native draw bracket open. Puppets are drawn while a
// Scene is open; Draw composites them and reopens the bracket for the next
// batch. At most one Scene is open per Context.
//
// A typical frame:
//
//	scene, err := ctx.BeginScene()
//	if err != nil {
//	    return err
//	}
//	defer scene.Close()
//
//	ctx.UpdatePuppets()
//	if err := ctx.DrawPuppets(); err != nil {
//	    return err
//	}
//	w, h := ctx.CachedViewport()
//	return scene.Draw(0, 0, float32(w), float32(h))
type Scene struct {
	ctx  *Context
	r    native.Renderer
	open bool
}

// Ensure Scene implements io.Closer
var _ io.Closer = (*Scene)(nil)

// BeginScene opens the draw bracket.
func (c *Context) BeginScene() (*Scene, error) {
	switch {
	case c.closed:
		return nil, ErrClosed
	case c.renderer == nil:
		return nil, ErrRenderingUnavailable
	case c.scene != nil:
		return nil, ErrSceneActive
	}

	s := &Scene{ctx: c, r: c.renderer}
	s.r.SceneBegin()
	s.open = true
	c.scene = s
	return s, nil
}

// Open reports whether the bracket is open.
func (s *Scene) Open() bool {
	return s.open
}

// Draw ends the bracket, composites the scene into the given region and
// begins a new bracket. It returns ErrSceneClosed without a native call
// once the scene is closed.
func (s *Scene) Draw(x, y, width, height float32) error {
	if !s.open {
		return ErrSceneClosed
	}
	s.r.SceneEnd()
	s.r.SceneDraw(x, y, width, height)
	s.r.SceneBegin()
	return nil
}

// Close ends the bracket. Close is idempotent and always returns nil.
func (s *Scene) Close() error {
	if !s.open {
		return nil
	}
	s.r.SceneEnd()
	s.open = false
	if s.ctx.scene == s {
		s.ctx.scene = nil
	}
	return nil
}
