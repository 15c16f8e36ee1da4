// Example runs the GUI bridge on a GLFW window: the update loop owns the
// window and the gui, and a render goroutine owns the GL context.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//
// Flags:
//
//	-config file.yaml   bridge configuration (see guibridge.Config)
//	-verbose            debug logging
//	-profile            write a CPU profile to the working directory
//	-dump N             dump the draw snapshot of frame N to stderr
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gputypes"
	"github.com/pkg/profile"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/backend/opengl"
	"github.com/go-theft-auto/guibridge/gui"
	"github.com/go-theft-auto/guibridge/render"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "gui bridge example"
	idleFrame    = 100 * time.Millisecond

	sceneSize = 128
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

type flags struct {
	config  string
	verbose bool
	profile bool
	dump    uint64
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "bridge config file (YAML)")
	flag.BoolVar(&f.verbose, "verbose", false, "debug logging")
	flag.BoolVar(&f.profile, "profile", false, "write a CPU profile")
	flag.Uint64Var(&f.dump, "dump", 0, "dump the snapshot of this frame")
	flag.Parse()

	if f.profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	guibridge.SetLogger(l)
	render.SetLogger(l)
	opengl.SetLogger(l)
}

func run(f flags) error {
	cfg := guibridge.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = guibridge.LoadConfig(f.config); err != nil {
			return err
		}
	}
	cfg.Verbose = cfg.Verbose || f.verbose
	setupLogging(cfg.Verbose)

	format, err := cfg.Format()
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.SRGBCapable, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	// GPU objects the update side needs a handle to are created here, before
	// the context moves to the render goroutine.
	dev := opengl.NewDevice()
	renderer, err := render.New(dev, render.WithInitialFormat(format))
	if err != nil {
		return fmt.Errorf("gui renderer: %w", err)
	}
	scene, err := render.NewTextureTarget(dev, sceneSize, sceneSize, nil)
	if err != nil {
		return fmt.Errorf("scene target: %w", err)
	}
	glfw.DetachCurrentContext()

	bridge, err := guibridge.New(cfg)
	if err != nil {
		return err
	}
	host := opengl.NewHost(window, format)
	sceneID := bridge.RegisterTexture(scene)

	mailbox := guibridge.NewMailbox()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	presented := make(chan struct{}, 1)
	go func() {
		errc <- renderLoop(ctx, window, host.Surface(), dev, renderer, scene, mailbox, presented)
	}()

	app := &app{sceneID: sceneID, slider: 0.5}
	var loopErr error
	renderDone := false
	for !window.ShouldClose() && loopErr == nil {
		glfw.PollEvents()
		loopErr = update(bridge, host, mailbox, app, f.dump)
		if loopErr != nil {
			break
		}
		// One update per presented frame. The timeout keeps input flowing
		// while the render side has nothing to show.
		select {
		case <-presented:
		case err := <-errc:
			renderDone = true
			loopErr = err
		case <-time.After(idleFrame):
		}
	}

	cancel()
	if !renderDone {
		if err := <-errc; err != nil && loopErr == nil && !errors.Is(err, context.Canceled) {
			loopErr = err
		}
	}
	bridge.UnregisterTexture(sceneID)
	if err := bridge.Close(); err != nil && loopErr == nil {
		loopErr = err
	}
	return loopErr
}

// app is the example's UI state.
type app struct {
	sceneID    gui.TextureID
	clickCount int
	slider     float32
	showScene  bool
}

// update runs one frame of the update loop and posts its packet.
func update(bridge *guibridge.Context, host *opengl.Host, mailbox *guibridge.Mailbox, a *app, dump uint64) error {
	session, err := bridge.BeginFrame(host.Frame())
	if err != nil {
		return err
	}
	ctx := session.UI()

	ctx.Window("Example", gui.Vec2{X: 20, Y: 20}, gui.Width(300))(func() {
		ctx.Text("Hello from the bridge!")
		ctx.Spacing(8)

		if ctx.Button(fmt.Sprintf("Click me (%d)", a.clickCount)) {
			a.clickCount++
		}

		ctx.Spacing(8)
		ctx.Text(fmt.Sprintf("Slider: %.2f", a.slider))
		ctx.SliderFloat("example-slider", &a.slider, 0, 1)
		ctx.Checkbox("Show scene", &a.showScene)
		if a.showScene {
			ctx.Image(a.sceneID, gui.Vec2{X: sceneSize, Y: sceneSize})
		}
	})

	snap, err := bridge.EndFrame(session)
	if err != nil {
		return err
	}
	if dump != 0 && snap.Frame() == dump {
		snap.Dump(os.Stderr)
	}

	packet, ok, err := bridge.Extract(host.Target())
	if err != nil {
		return err
	}
	if ok {
		mailbox.Post(packet)
	}
	return nil
}

// renderLoop owns the GL context. Each packet drives one run of the graph:
// the scene is drawn into its texture, the window is cleared and the GUI
// is painted on top. presented is signalled after every swap.
func renderLoop(ctx context.Context, window *glfw.Window, surface *opengl.Surface, dev *opengl.Device, renderer *render.Renderer, scene *render.TextureTarget, mailbox *guibridge.Mailbox, presented chan<- struct{}) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	window.MakeContextCurrent()
	defer glfw.DetachCurrentContext()
	defer renderer.Close()
	defer scene.Release()

	graph := render.NewGraph()
	if err := graph.AddNode(render.LabelEndMainPass, render.RunnerFunc(func(rc render.RenderContext) error {
		return mainPass(rc, scene)
	})); err != nil {
		return err
	}
	if err := render.InsertGUI(graph, render.NewNode(renderer)); err != nil {
		return err
	}
	rc := opengl.NewRenderContext(dev, surface)

	for {
		packet, err := mailbox.Wait(ctx)
		if err != nil {
			return err
		}
		if err := renderer.Prepare(packet, render.ResidentAssets{}); err != nil {
			return err
		}
		if err := graph.Run(rc); err != nil {
			return err
		}
		window.SwapBuffers()
		select {
		case presented <- struct{}{}:
		default:
		}
	}
}

// mainPass stands in for a game's main pass: it animates the scene
// texture and clears the window.
func mainPass(rc render.RenderContext, scene *render.TextureTarget) error {
	t := glfw.GetTime()
	tint := gputypes.Color{
		R: 0.5 + 0.5*math.Sin(t),
		G: 0.5 + 0.5*math.Sin(t+2),
		B: 0.5 + 0.5*math.Sin(t+4),
		A: 1,
	}
	pass, err := rc.Device().BeginRenderPass(scene.PassDescriptor(gputypes.LoadOpClear, tint))
	if err != nil {
		return err
	}
	if err := pass.End(); err != nil {
		return err
	}

	w, ok := rc.PrimaryWindow()
	if !ok {
		return nil
	}
	view, ok := w.SwapchainView()
	if !ok {
		return nil
	}
	pass, err = rc.Device().BeginRenderPass(render.RenderPassDescriptor{
		Label:      "main",
		View:       view,
		Format:     w.SwapchainFormat(),
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearColor: gputypes.Color{R: 0.12, G: 0.12, B: 0.14, A: 1},
	})
	if err != nil {
		return err
	}
	return pass.End()
}
