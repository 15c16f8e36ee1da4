package gui

// statePruneInterval is how often, in frames, idle widget state is dropped.
const statePruneInterval = 60

// GUI drives frames of one Context: it owns the input state and hands out
// pooled draw lists between Begin and Release.
type GUI struct {
	ctx     *Context
	input   *InputState
	inFrame bool
}

// GUIOption configures a GUI instance.
type GUIOption func(*GUI)

// WithStyle sets the GUI style.
func WithStyle(style Style) GUIOption {
	return func(g *GUI) { g.ctx.SetStyle(style) }
}

// WithFont sets the font used for text.
func WithFont(f Font) GUIOption {
	return func(g *GUI) { g.ctx.SetFont(f) }
}

// New creates a GUI with the default style and no font.
func New(opts ...GUIOption) *GUI {
	g := &GUI{
		ctx:   NewContext(),
		input: NewInputState(),
	}
	g.ctx.Input = g.input
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Input returns the input state the host fills before Begin.
func (g *GUI) Input() *InputState {
	return g.input
}

// Begin starts a frame and returns the context to draw widgets with.
// Begin panics if the previous frame was not released.
func (g *GUI) Begin(displaySize Vec2, deltaTime float32) *Context {
	if g.inFrame {
		panic("gui: Begin called twice without End")
	}
	ctx := g.ctx
	ctx.DrawList = AcquireDrawList()
	ctx.ForegroundDrawList = AcquireDrawList()
	ctx.FrameCount++
	ctx.Reset(displaySize, deltaTime)
	if ctx.FrameCount%statePruneInterval == 0 {
		if n := ctx.state.prune(ctx.FrameCount); n > 0 {
			logger().Debug("pruned idle widget state", "entries", n)
		}
	} else {
		ctx.state.frame = ctx.FrameCount
	}
	g.input.UpdateKeyRepeat(deltaTime)
	g.inFrame = true
	return ctx
}

// End finalizes the frame and returns its draw data. The lists belong to
// the pool and stay valid only until Release. End outside a frame
// returns empty draw data.
func (g *GUI) End() *DrawData {
	ctx := g.ctx
	dd := &DrawData{
		DisplaySize:      ctx.DisplaySize,
		FramebufferScale: ctx.FramebufferScale,
	}
	if !g.inFrame {
		return dd
	}
	for _, dl := range []*DrawList{ctx.DrawList, ctx.ForegroundDrawList} {
		dl.Finalize()
		if len(dl.CmdBuffer) > 0 {
			dd.Lists = append(dd.Lists, dl)
		}
	}
	return dd
}

// Release returns the frame's draw lists to the pool and clears
// per-frame input edges.
func (g *GUI) Release() {
	ctx := g.ctx
	ReleaseDrawList(ctx.DrawList)
	ReleaseDrawList(ctx.ForegroundDrawList)
	ctx.DrawList = nil
	ctx.ForegroundDrawList = nil
	g.input.Reset()
	g.inFrame = false
}

// InFrame reports whether a frame is between Begin and Release.
func (g *GUI) InFrame() bool {
	return g.inFrame
}

// Context returns the GUI context. Widgets may only be drawn between
// Begin and End.
func (g *GUI) Context() *Context {
	return g.ctx
}

// SetFont replaces the font, e.g. after the atlas was rebuilt.
func (g *GUI) SetFont(f Font) {
	g.ctx.SetFont(f)
}
