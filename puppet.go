package inochi2d

import (
	"io"

	"github.com/inochi2d/inochi2d-go/native"
)

// Puppet is a loaded character model. It exclusively owns its native
// handle; copy the pointer, never the struct.
//
// Puppets are created through a Context and must not outlive it: Close on
// the Context releases any puppet still open.
type Puppet struct {
	ctx    *Context
	handle native.PuppetHandle
	name   string
}

// Ensure Puppet implements io.Closer
var _ io.Closer = (*Puppet)(nil)

// Name returns the display name: the load path, or the name given to a
// memory load.
func (p *Puppet) Name() string {
	return p.name
}

// NativeName returns the model name stored in the puppet file.
// It returns "" for a closed puppet.
func (p *Puppet) NativeName() string {
	if p.handle == 0 {
		return ""
	}
	return p.ctx.lib.PuppetName(p.handle)
}

// Closed reports whether the puppet has been released.
func (p *Puppet) Closed() bool {
	return p.handle == 0
}

// Update advances the puppet's animation by one tick. The native library
// reports no errors for updates.
func (p *Puppet) Update() {
	if p.handle == 0 {
		return
	}
	p.ctx.lib.UpdatePuppet(p.handle)
}

// Draw renders the puppet into the open scene.
func (p *Puppet) Draw() error {
	if p.handle == 0 {
		return ErrClosed
	}
	if err := p.ctx.checkDraw(); err != nil {
		return err
	}
	p.ctx.renderer.DrawPuppet(p.handle)
	return nil
}

// Close destroys the native puppet and removes it from its Context.
// Close is idempotent and always returns nil.
func (p *Puppet) Close() error {
	if p.handle == 0 {
		return nil
	}
	p.release()
	p.ctx.forget(p)
	return nil
}

// release destroys the handle exactly once.
func (p *Puppet) release() {
	if p.handle == 0 {
		return
	}
	p.ctx.lib.DestroyPuppet(p.handle)
	p.handle = 0
	Logger().Debug("inochi2d: puppet destroyed", "source", p.name)
}
