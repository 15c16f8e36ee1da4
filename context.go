package guibridge

import (
	"math"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"

	"github.com/go-theft-auto/guibridge/gui"
)

// Option configures a Context.
type Option func(*options)

type options struct {
	style *gui.Style
	ttf   []byte
}

// WithStyle sets the style at scale 1. Rebuilds rescale it.
func WithStyle(s gui.Style) Option {
	return func(o *options) { o.style = &s }
}

// WithFontTTF replaces the built-in font.
func WithFontTTF(ttf []byte) Option {
	return func(o *options) { o.ttf = ttf }
}

// Context owns the gui, its font atlas and the texture registry. It lives
// on the update goroutine for the whole run of the application.
type Context struct {
	cfg      Config
	ttf      []byte
	gui      *gui.GUI
	atlas    *gui.FontAtlas
	registry *TextureRegistry
	fontID   gui.TextureID

	generation uint64
	live       *FrameSession
	latest     *DrawSnapshot

	displaySize      gui.Vec2
	framebufferScale float32
	fontGlobalScale  float32
	// atlasScale is the display scale the current atlas was baked for.
	atlasScale float32

	// Target pair of the last rebuild.
	bound        bool
	boundFormat  gputypes.TextureFormat
	boundScale   float32
	displayScale float32

	wantMouse    bool
	wantKeyboard bool
}

// New validates cfg, loads persisted settings and bakes the font atlas
// at scale 1. The font takes the first texture handle.
func New(cfg Config, opts ...Option) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Verbose {
		gui.SetVerbose(true)
	}

	style := gui.DefaultStyle()
	if o.style != nil {
		style = *o.style
	}

	c := &Context{
		cfg:              cfg,
		ttf:              o.ttf,
		atlas:            gui.NewFontAtlas(),
		registry:         NewTextureRegistry(),
		framebufferScale: 1,
		fontGlobalScale:  1,
		boundScale:       1,
		displayScale:     1,
	}
	c.fontID = c.registry.reserve()
	c.atlas.SetTextureID(c.fontID)
	c.gui = gui.New(gui.WithStyle(style), gui.WithFont(c.atlas))

	if cfg.SettingsFilePath != "" {
		if err := c.gui.Context().Settings().Load(cfg.SettingsFilePath); err != nil {
			return nil, errors.Wrap(err, "load gui settings")
		}
	}
	if err := c.buildFont(1); err != nil {
		return nil, err
	}
	return c, nil
}

// BeginFrame copies host input into the gui and starts a frame.
// It fails with ErrSessionLive while the previous session is unfinished.
func (c *Context) BeginFrame(in HostInput) (*FrameSession, error) {
	if c.live != nil {
		return nil, errors.Wrapf(ErrSessionLive, "begin frame %d", c.generation+1)
	}

	input := c.gui.Input()
	if w := in.Window; w != nil {
		c.displaySize = gui.Vec2{X: w.Width, Y: w.Height}
		if w.ScaleFactor > 0 {
			c.framebufferScale = w.ScaleFactor
		}
		if w.HasCursor {
			input.SetMousePos(w.Cursor.X, w.Cursor.Y)
		}
	}
	input.SetMouseButton(gui.MouseButtonLeft, in.MouseLeft)
	input.SetMouseButton(gui.MouseButtonRight, in.MouseRight)
	input.SetMouseButton(gui.MouseButtonMiddle, in.MouseMiddle)
	for _, e := range in.Scroll {
		input.SetMouseWheel(e.X, e.Y)
	}
	applyChars(input, in.Chars)
	applyKeys(input, in.Keys)

	ui := c.gui.Begin(c.displaySize, in.DeltaTime)
	ui.FramebufferScale = gui.Vec2{X: c.framebufferScale, Y: c.framebufferScale}
	ui.FontGlobalScale = c.fontGlobalScale

	c.generation++
	c.live = &FrameSession{owner: c, generation: c.generation}
	return c.live, nil
}

// EndFrame finishes the live session and returns an owned copy of its draw
// data. The copy also becomes the snapshot the next Extract takes,
// replacing any snapshot that was never extracted.
func (c *Context) EndFrame(s *FrameSession) (*DrawSnapshot, error) {
	if s == nil || s != c.live || s.generation != c.generation {
		return nil, errors.Wrapf(ErrSessionMismatch, "end frame %d", c.generation)
	}

	ui := c.gui.Context()
	snap := newSnapshot(s.generation, c.gui.End())
	c.wantMouse = ui.WantCaptureMouse
	c.wantKeyboard = ui.WantCaptureKeyboard
	c.gui.Release()

	s.ended = true
	c.live = nil
	if c.latest != nil {
		logger().Debug("dropping unextracted snapshot", "frame", c.latest.Frame())
	}
	c.latest = snap
	return snap, nil
}

// UI returns the gui context of the live session.
// It panics with ErrNoSession outside a session.
func (c *Context) UI() *gui.Context {
	if c.live == nil {
		panic(ErrNoSession)
	}
	return c.gui.Context()
}

// Session returns the live session, or nil.
func (c *Context) Session() *FrameSession {
	return c.live
}

// RegisterTexture registers a host image for use in Image widgets.
func (c *Context) RegisterTexture(ref ImageRef) gui.TextureID {
	return c.registry.Register(ref)
}

// UnregisterTexture drops a registration. Unknown handles are ignored.
func (c *Context) UnregisterTexture(id gui.TextureID) {
	c.registry.Unregister(id)
}

// Registry exposes the texture registry.
func (c *Context) Registry() *TextureRegistry {
	return c.registry
}

// FontTexture is the handle the font atlas is bound under.
func (c *Context) FontTexture() gui.TextureID {
	return c.fontID
}

// FontAtlas returns the current atlas.
func (c *Context) FontAtlas() *gui.FontAtlas {
	return c.atlas
}

// Config returns the configuration the context was created with.
func (c *Context) Config() Config {
	return c.cfg
}

// WantCaptureMouse reports whether the last finished frame used the mouse.
func (c *Context) WantCaptureMouse() bool {
	return c.wantMouse
}

// WantCaptureKeyboard reports whether the last finished frame used the keyboard.
func (c *Context) WantCaptureKeyboard() bool {
	return c.wantKeyboard
}

// Extract moves the latest snapshot and the pending texture operations
// into a packet for the render goroutine. The update goroutine must be
// between frames.
//
// ok is false when the target has no primary window or no swapchain
// format. The snapshot is then dropped and the texture queues stay intact.
//
// When the target's format or scale differs from the last rebuild, Extract
// rebakes the font atlas, rescales the style and queues every registered
// texture again. The packet's Rebuild tells the renderer to follow. When
// the scale changed, the snapshot is dropped as well, so one frame shows
// no GUI. A format change alone keeps it.
func (c *Context) Extract(target Target) (p *FramePacket, ok bool, err error) {
	if c.live != nil {
		return nil, false, errors.Wrap(ErrSessionLive, "extract")
	}
	snap := c.latest
	c.latest = nil

	scale := target.Scale
	if scale <= 0 {
		scale = c.displayScale
	}
	if !target.PrimaryWindow || target.Format == gputypes.TextureFormatUndefined {
		logger().Debug("extract skipped", "window", target.PrimaryWindow, "format", FormatName(target.Format))
		return nil, false, nil
	}
	c.displayScale = scale

	p = &FramePacket{Snapshot: snap}
	if !c.bound || target.Format != c.boundFormat || scale != c.boundScale {
		if scale != c.atlasScale {
			// Laid out with the old style and glyphs from the old atlas.
			// The renderer paints nothing until the next frame.
			p.Snapshot = nil
		}
		rb, err := c.rebuild(target.Format, scale)
		if err != nil {
			return nil, false, err
		}
		p.Rebuild = rb
	}

	d := c.registry.Drain()
	p.Removes = d.Removes
	seen := make(map[gui.TextureID]struct{}, len(d.Adds))
	for _, id := range d.Adds {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ref, ok := c.registry.Lookup(id)
		if !ok {
			continue
		}
		p.Adds = append(p.Adds, newTextureAdd(id, ref))
	}
	return p, true, nil
}

// rebuild runs the update side of a reconfiguration.
func (c *Context) rebuild(format gputypes.TextureFormat, scale float32) (*Rebuild, error) {
	prev := c.boundScale
	if err := c.buildFont(scale); err != nil {
		return nil, err
	}
	c.framebufferScale = scale
	c.registry.MarkAllForReAdd()
	c.registry.skipPast(c.fontID)
	if prev > 0 && scale != prev {
		c.gui.Context().StyleRef().ScaleAllSizes(scale / prev)
	}

	c.bound = true
	c.boundFormat = format
	c.boundScale = scale

	pixels, w, h := c.atlas.TexDataRGBA32()
	logger().Info("gui rebuild",
		"format", FormatName(format),
		"scale", scale,
		"font_size", c.atlas.Config().SizePixels,
		"atlas", [2]int{w, h},
		"textures", c.registry.Len())
	return &Rebuild{
		Format:      format,
		Scale:       scale,
		FontTexture: c.fontID,
		FontPixels:  pixels,
		FontWidth:   w,
		FontHeight:  h,
	}, nil
}

// buildFont bakes the atlas for a display scale according to the
// scaling policy in the config.
func (c *Context) buildFont(scale float32) error {
	fontScale := float32(1)
	if c.cfg.ScaleAffectsFontSize {
		fontScale = scale
	}
	oversample := 1
	if c.cfg.ScaleAffectsFontOversample {
		oversample = max(int(math.Ceil(float64(scale))), 1)
	}
	fc := gui.FontConfig{
		SizePixels:  max(float32(math.Floor(float64(c.cfg.BaseFontSize*fontScale))), 1),
		OversampleH: c.cfg.FontOversampleH * oversample,
		OversampleV: c.cfg.FontOversampleV * oversample,
		TTF:         c.ttf,
	}
	if err := c.atlas.Build(fc); err != nil {
		return errors.Wrap(err, "build font atlas")
	}
	c.fontGlobalScale = 1 / fontScale
	c.atlasScale = scale
	// Drops text measurements taken with the old atlas.
	c.gui.SetFont(c.atlas)
	return nil
}

// Close persists the gui settings. The context must not be used afterwards.
func (c *Context) Close() error {
	if c.live != nil {
		return errors.Wrap(ErrSessionLive, "close")
	}
	if c.cfg.SettingsFilePath == "" {
		return nil
	}
	if err := c.gui.Context().Settings().Save(c.cfg.SettingsFilePath); err != nil {
		return errors.Wrap(err, "save gui settings")
	}
	return nil
}
