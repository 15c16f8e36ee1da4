// Command gen draws each widget with sample data through the bridge into
// an offscreen texture and writes the result as a JPEG under doc/imgs/.
//
//	go run ./doc/gen/ -out doc/imgs
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gputypes"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/backend/opengl"
	"github.com/go-theft-auto/guibridge/gui"
	"github.com/go-theft-auto/guibridge/render"
)

// GL calls must stay on the thread that made the context current.
func init() { runtime.LockOSThread() }

const captureFormat = gputypes.TextureFormatRGBA8Unorm

var background = gputypes.Color{R: 0.12, G: 0.12, B: 0.14, A: 1}

// shot is one screenshot: a canvas size and the widgets drawn on it.
type shot struct {
	file string
	size image.Point
	ui   func(ctx *gui.Context, tex gui.TextureID)
}

// frames per shot. Windows size themselves from the previous frame's
// content, so the first frame is never the one kept.
const frames = 3

func main() {
	out := flag.String("out", filepath.Join("doc", "imgs"), "directory the screenshots are written to")
	flag.Parse()

	if err := generate(*out); err != nil {
		fmt.Fprintf(os.Stderr, "gen: %v\n", err)
		os.Exit(1)
	}
}

func generate(out string) error {
	release, err := hiddenContext()
	if err != nil {
		return err
	}
	defer release()

	dev := opengl.NewDevice()
	renderer, err := render.New(dev, render.WithInitialFormat(captureFormat))
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer renderer.Close()

	checker, err := render.NewTextureTarget(dev, 64, 64, checkerboard(64, 8))
	if err != nil {
		return fmt.Errorf("checker texture: %w", err)
	}
	defer checker.Release()

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	c := &capturer{dev: dev, renderer: renderer, checker: checker}
	shots := catalog()
	for _, s := range shots {
		img, err := c.capture(s)
		if err != nil {
			return fmt.Errorf("%s: %w", s.file, err)
		}
		path := filepath.Join(out, s.file+".jpg")
		if err := writeJPEG(path, img); err != nil {
			return err
		}
		fmt.Println("wrote", path)
	}
	fmt.Printf("%d screenshots\n", len(shots))
	return nil
}

// hiddenContext creates an invisible window whose only job is to own a
// GL 4.1 core context.
func hiddenContext() (func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw: %w", err)
	}
	hints := map[glfw.Hint]int{
		glfw.ContextVersionMajor:     4,
		glfw.ContextVersionMinor:     1,
		glfw.OpenGLProfile:           glfw.OpenGLCoreProfile,
		glfw.OpenGLForwardCompatible: glfw.True,
		glfw.Visible:                 glfw.False,
	}
	for h, v := range hints {
		glfw.WindowHint(h, v)
	}
	w, err := glfw.CreateWindow(64, 64, "gen", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: %w", err)
	}
	w.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		w.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl: %w", err)
	}
	return func() {
		w.Destroy()
		glfw.Terminate()
	}, nil
}

type capturer struct {
	dev      *opengl.Device
	renderer *render.Renderer
	checker  *render.TextureTarget
}

// capture runs a fresh bridge for a few frames against an offscreen
// target and returns what it drew, top row first.
func (c *capturer) capture(s shot) (*image.RGBA, error) {
	bridge, err := guibridge.New(guibridge.DefaultConfig())
	if err != nil {
		return nil, err
	}
	defer bridge.Close()
	tex := bridge.RegisterTexture(c.checker)

	target, err := render.NewTextureTarget(c.dev, s.size.X, s.size.Y, nil)
	if err != nil {
		return nil, err
	}
	defer target.Release()

	host := guibridge.HostInput{
		Window:    &guibridge.WindowState{Width: float32(s.size.X), Height: float32(s.size.Y), ScaleFactor: 1},
		DeltaTime: 1.0 / 60,
	}
	for range frames {
		session, err := bridge.BeginFrame(host)
		if err != nil {
			return nil, err
		}
		s.ui(session.UI(), tex)
		if _, err := bridge.EndFrame(session); err != nil {
			return nil, err
		}
		if err := c.draw(bridge, target); err != nil {
			return nil, err
		}
	}

	pix, err := c.dev.ReadTexture(target.View())
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, s.size.X, s.size.Y))
	stride := img.Stride
	for y := range s.size.Y {
		src := pix[(s.size.Y-1-y)*stride:][:stride]
		copy(img.Pix[y*stride:], src)
	}
	return img, nil
}

func (c *capturer) draw(bridge *guibridge.Context, target *render.TextureTarget) error {
	packet, ok, err := bridge.Extract(guibridge.Target{PrimaryWindow: true, Format: captureFormat, Scale: 1})
	if err != nil || !ok {
		return err
	}
	if err := c.renderer.Prepare(packet, render.ResidentAssets{}); err != nil {
		return err
	}
	pass, err := c.dev.BeginRenderPass(target.PassDescriptor(gputypes.LoadOpClear, background))
	if err != nil {
		return err
	}
	if err := c.renderer.Render(pass); err != nil {
		pass.End()
		return err
	}
	return pass.End()
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// checkerboard returns size*size RGBA pixels in gray cells of cell pixels.
func checkerboard(size, cell int) []byte {
	pix := make([]byte, 0, size*size*4)
	for y := range size {
		for x := range size {
			v := byte(0x40)
			if (x/cell+y/cell)%2 == 0 {
				v = 0xd0
			}
			pix = append(pix, v, v, v, 0xff)
		}
	}
	return pix
}

// catalog lists the screenshots in the order the README shows them.
func catalog() []shot {
	var (
		on, off  = true, false
		fov      = float32(0.65)
		lod      = 7
		music    = float32(0.4)
		vsync    = true
		inset    = gui.Vec2{X: 12, Y: 12}
		thumb    = gui.Vec2{X: 64, Y: 64}
		stackGap = gui.Gap(6)
	)
	at := func(ctx *gui.Context) { ctx.SetCursorPos(inset.X, inset.Y) }

	return []shot{
		{"text", image.Pt(400, 160), func(ctx *gui.Context, _ gui.TextureID) {
			at(ctx)
			ctx.VStack(stackGap)(func() {
				ctx.Text("Regular text")
				ctx.TextColored("Highlighted text", gui.ColorYellow)
				ctx.TextDisabled("Inactive text")
				ctx.TextWrapped("Long lines wrap at word boundaries once they would run past the width they were given.", 376)
				ctx.LabelText("Map:", "Downtown")
			})
		}},
		{"button", image.Pt(400, 100), func(ctx *gui.Context, _ gui.TextureID) {
			at(ctx)
			ctx.VStack(gui.Gap(8))(func() {
				ctx.Button("Start mission")
				ctx.HStack(gui.Gap(8))(func() {
					for _, l := range []string{"Save", "Load", "Quit"} {
						ctx.SmallButton(l)
					}
				})
			})
		}},
		{"checkbox", image.Pt(300, 80), func(ctx *gui.Context, _ gui.TextureID) {
			at(ctx)
			ctx.VStack(stackGap)(func() {
				ctx.Checkbox("Subtitles", &on)
				ctx.Checkbox("Invert mouse", &off)
			})
		}},
		{"slider", image.Pt(400, 80), func(ctx *gui.Context, _ gui.TextureID) {
			at(ctx)
			ctx.VStack(stackGap)(func() {
				ctx.SliderFloat("Field of view", &fov, 0, 1)
				ctx.SliderInt("Draw distance", &lod, 0, 10)
			})
		}},
		{"progress_bar", image.Pt(400, 100), func(ctx *gui.Context, _ gui.TextureID) {
			at(ctx)
			ctx.VStack(gui.Gap(8), gui.Width(376))(func() {
				for _, f := range []float32{0.25, 0.65, 1} {
					ctx.ProgressBar(f)
				}
			})
		}},
		{"image", image.Pt(300, 120), func(ctx *gui.Context, tex gui.TextureID) {
			at(ctx)
			ctx.HStack(gui.Gap(8))(func() {
				ctx.Image(tex, thumb)
				ctx.ImageButton("thumb", tex, thumb)
			})
		}},
		{"panel", image.Pt(400, 200), func(ctx *gui.Context, _ gui.TextureID) {
			at(ctx)
			ctx.Panel("Audio & video", gui.Gap(8), gui.Padding(12))(func() {
				ctx.HStack()(func() {
					ctx.Text("Music")
					ctx.SliderFloat("##music", &music, 0, 1)
				})
				ctx.Separator()
				ctx.Checkbox("VSync", &vsync)
			})
		}},
		{"window", image.Pt(400, 220), func(ctx *gui.Context, _ gui.TextureID) {
			ctx.Window("Garage", gui.Vec2{X: 20, Y: 20}, gui.Width(300))(func() {
				ctx.LabelText("Vehicle:", "Infernus")
				ctx.LabelText("Damage:", "12%")
				ctx.ProgressBar(0.88)
				ctx.Button("Repair")
			})
		}},
	}
}
