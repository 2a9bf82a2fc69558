// Command inxinspect loads Inochi2D puppets headlessly and prints what the
// native library reports about them.
//
// The native library is located through INOCHI2D_DRIVER and
// INOCHI2D_LIBRARY; see internal/config for every variable.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/inochi2d/inochi2d-go"
	"github.com/inochi2d/inochi2d-go/internal/config"
)

func init() {
	// The native library must be driven from the thread that initialized it.
	runtime.LockOSThread()
}

func main() {
	var (
		manifest = flag.String("manifest", "", "scene manifest (YAML)")
		ticks    = flag.Int("ticks", 1, "update cycles to run before reporting")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	env, err := config.ParseEnv()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	level := env.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	inochi2d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	b := inochi2d.NewBuilder().
		Driver(env.Driver, env.LibraryPath).
		Viewport(env.ViewportWidth, env.ViewportHeight).
		Timing(inochi2d.MonotonicClock())

	var camOpts []inochi2d.CameraOption
	if *manifest != "" {
		m, err := config.LoadManifest(*manifest)
		if err != nil {
			log.Fatalf("Failed to load manifest: %v", err)
		}
		b = m.Apply(b)
		camOpts = m.CameraOptions()
	}
	for _, path := range flag.Args() {
		b = b.Puppet(path)
	}

	if err := run(b, camOpts, *ticks); err != nil {
		log.Fatal(err)
	}
}

func run(b inochi2d.Builder, camOpts []inochi2d.CameraOption, ticks int) error {
	ctx, err := b.Build()
	if err != nil {
		return err
	}
	defer ctx.Close()

	cam, err := ctx.Camera(camOpts...)
	if err != nil {
		return err
	}
	defer cam.Close()

	for range ticks {
		ctx.Update()
		ctx.UpdatePuppets()
	}

	w, h := ctx.Viewport()
	x, y := cam.Position()
	fmt.Printf("viewport:  %dx%d\n", w, h)
	fmt.Printf("rendering: %t\n", ctx.Rendering())
	fmt.Printf("camera:    zoom=%g pos=(%g, %g)\n", cam.Zoom(), x, y)
	fmt.Printf("matrix:    %v\n", cam.Matrix())

	for i, p := range ctx.Puppets() {
		fmt.Printf("puppet %d:  %s (%s)\n", i, p.NativeName(), p.Name())
	}
	return nil
}
