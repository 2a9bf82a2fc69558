package inochi2d

import (
	"fmt"
	"slices"

	"github.com/inochi2d/inochi2d-go/native"
)

// Builder collects Context configuration and validates it in Build.
//
// Builder is a value: every method returns an updated copy and has no
// side effects, so a partially configured Builder can be reused as a
// template.
//
// Example:
//
//	ctx, err := inochi2d.NewBuilder().
//	    Viewport(800, 800).
//	    Timing(inochi2d.MonotonicClock()).
//	    Puppet("./models/Midori.inx").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
type Builder struct {
	width   int
	height  int
	timing  TimingFunc
	puppets []string

	lib         native.Library
	driver      string
	libraryPath string
}

// NewBuilder returns a Builder with an 800x600 viewport, no timing
// function, no puppets and the dynamic native driver.
func NewBuilder() Builder {
	return Builder{
		width:  DefaultViewportWidth,
		height: DefaultViewportHeight,
		driver: native.DriverDynamic,
	}
}

// Viewport sets the initial viewport size.
func (b Builder) Viewport(width, height int) Builder {
	b.width = width
	b.height = height
	return b
}

// Puppet appends a puppet path to load during Build.
func (b Builder) Puppet(path string) Builder {
	// Clip so copies of b never share a backing array.
	b.puppets = append(slices.Clip(b.puppets), path)
	return b
}

// Timing sets the monotonic time source. It is required.
func (b Builder) Timing(fn TimingFunc) Builder {
	b.timing = fn
	return b
}

// Library sets the native library to use instead of opening one through
// the driver registry.
func (b Builder) Library(lib native.Library) Builder {
	b.lib = lib
	return b
}

// Driver selects the registry driver and library path used when no
// Library is set. An empty path means the driver's default.
func (b Builder) Driver(name, path string) Builder {
	b.driver = name
	b.libraryPath = path
	return b
}

// ViewportSize returns the configured viewport size.
func (b Builder) ViewportSize() (width, height int) {
	return b.width, b.height
}

// PuppetPaths returns the configured puppet paths in load order.
func (b Builder) PuppetPaths() []string {
	return slices.Clone(b.puppets)
}

// Build validates the configuration and creates the Context.
//
// It returns ErrNoTiming, without touching the native library, when no
// timing function was set. Puppets are loaded in the order they were
// added; the first load failure closes the new Context and is returned,
// and the remaining paths are not attempted.
func (b Builder) Build() (*Context, error) {
	if b.timing == nil {
		return nil, ErrNoTiming
	}

	lib := b.lib
	if lib == nil {
		var err error
		lib, err = native.Open(b.driver, b.libraryPath)
		if err != nil {
			return nil, fmt.Errorf("inochi2d: open native library: %w", err)
		}
	}

	ctx, err := NewContext(lib, b.timing, b.width, b.height)
	if err != nil {
		return nil, err
	}

	for _, path := range b.puppets {
		if err := ctx.AddPuppet(path); err != nil {
			_ = ctx.Close()
			return nil, err
		}
	}
	return ctx, nil
}
