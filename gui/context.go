package gui

// Context is the state widgets draw against during one frame. It is not a
// context.Context.
type Context struct {
	// DrawList receives widget geometry. ForegroundDrawList is painted
	// after it, for overlays.
	DrawList           *DrawList
	ForegroundDrawList *DrawList

	// Input is read-only during a frame.
	Input *InputState

	// DisplaySize is the drawable area in logical pixels.
	DisplaySize Vec2
	// FramebufferScale maps logical pixels to framebuffer pixels.
	FramebufferScale Vec2
	// FontGlobalScale multiplies every font metric. When the atlas is baked
	// at a multiple of the logical size this brings text back to logical size.
	FontGlobalScale float32

	FrameCount uint64
	DeltaTime  float32

	// WantCaptureMouse is set when the pointer is over a widget, and
	// WantCaptureKeyboard when a widget consumes keys. The host should
	// not act on input the GUI captured.
	WantCaptureMouse    bool
	WantCaptureKeyboard bool

	style      Style
	styleStack []Style
	font       Font

	cursor  Vec2
	stacks  []*stack
	idStack []ID

	// activeID is the widget holding the mouse, e.g. a dragged slider.
	activeID ID

	state    *stateStore
	settings *Settings

	glyphs      []GlyphQuad
	measurement map[string]Vec2 // valid for the current frame and font
}

// NewContext creates a context with the default style and no font.
func NewContext() *Context {
	return &Context{
		style:            DefaultStyle(),
		styleStack:       make([]Style, 0, 8),
		stacks:           make([]*stack, 0, 16),
		idStack:          make([]ID, 0, 32),
		state:            newStateStore(),
		settings:         NewSettings(),
		glyphs:           make([]GlyphQuad, 0, 256),
		measurement:      make(map[string]Vec2, 64),
		FramebufferScale: Vec2{1, 1},
		FontGlobalScale:  1,
	}
}

// SetFont sets the font used for text and for the white texel of
// untextured primitives.
func (ctx *Context) SetFont(f Font) {
	ctx.font = f
	clear(ctx.measurement)
}

// Font returns the current font, or nil.
func (ctx *Context) Font() Font {
	return ctx.font
}

// Settings returns the persisted settings store.
func (ctx *Context) Settings() *Settings {
	return ctx.settings
}

// Reset prepares the context for a new frame.
// The draw lists must already be attached.
func (ctx *Context) Reset(displaySize Vec2, deltaTime float32) {
	ctx.cursor = Vec2{}
	ctx.stacks = ctx.stacks[:0]
	ctx.styleStack = ctx.styleStack[:0]
	ctx.idStack = ctx.idStack[:0]
	ctx.DisplaySize = displaySize
	ctx.DeltaTime = deltaTime
	ctx.WantCaptureMouse = false
	ctx.WantCaptureKeyboard = false
	clear(ctx.measurement)

	if ctx.font != nil {
		for _, dl := range []*DrawList{ctx.DrawList, ctx.ForegroundDrawList} {
			if dl != nil {
				dl.SetWhitePixel(ctx.font.TextureID(), ctx.font.WhitePixel())
			}
		}
	}
	if ctx.activeID != 0 && (ctx.Input == nil || !ctx.Input.MouseDown(MouseButtonLeft)) {
		ctx.activeID = 0
	}
}

func (ctx *Context) mouse() Vec2 {
	return Vec2{ctx.Input.MouseX, ctx.Input.MouseY}
}

func (ctx *Context) isHovered(rect Rect) bool {
	return ctx.Input != nil && rect.Contains(ctx.mouse())
}

// IsHovered reports whether rect is under the mouse cursor.
func (ctx *Context) IsHovered(rect Rect) bool {
	return ctx.isHovered(rect)
}

// interaction is what a widget's rectangle saw of the mouse this frame.
type interaction struct {
	hovered bool
	held    bool // left button down, pressed on this widget
	clicked bool // left button went down over the widget this frame
}

// interact resolves hover and clicks for a widget and claims the mouse
// when it is hovered.
func (ctx *Context) interact(id ID, rect Rect) interaction {
	var it interaction
	if ctx.Input == nil {
		return it
	}
	it.hovered = rect.Contains(ctx.mouse())
	if it.hovered {
		ctx.WantCaptureMouse = true
		if ctx.Input.MouseClicked(MouseButtonLeft) {
			it.clicked = true
			ctx.activeID = id
			logger().Debug("click", "id", id, "rect", rect, "mouse", ctx.mouse())
		}
	}
	it.held = ctx.activeID == id && ctx.Input.MouseDown(MouseButtonLeft)
	return it
}

// SetCursorPos sets the cursor position for the next widget.
func (ctx *Context) SetCursorPos(x, y float32) {
	ctx.cursor = Vec2{X: x, Y: y}
}

// GetCursorPos returns the current cursor position.
func (ctx *Context) GetCursorPos() Vec2 {
	return ctx.cursor
}

func (ctx *Context) fontScale() float32 {
	if ctx.FontGlobalScale <= 0 {
		return 1
	}
	return ctx.FontGlobalScale
}

func (ctx *Context) lineHeight() float32 {
	if ctx.font == nil {
		return 0
	}
	return ctx.font.LineHeight(ctx.fontScale())
}

// LineHeight returns the height of a single line of text.
func (ctx *Context) LineHeight() float32 {
	return ctx.lineHeight()
}

// MeasureText returns the size of rendered text. Results are cached for
// the frame.
func (ctx *Context) MeasureText(text string) Vec2 {
	if size, ok := ctx.measurement[text]; ok {
		return size
	}
	var size Vec2
	if ctx.font != nil {
		size = ctx.font.MeasureText(text, ctx.fontScale())
	}
	ctx.measurement[text] = size
	return size
}

// addText draws text with the current font into the main draw list.
func (ctx *Context) addText(x, y float32, text string, color uint32) {
	if ctx.font == nil || text == "" {
		return
	}
	ctx.glyphs = ctx.font.AppendGlyphQuads(ctx.glyphs[:0], text, x, y, ctx.fontScale())
	ctx.DrawList.SetTexture(ctx.font.TextureID())
	ctx.DrawList.AddGlyphQuads(ctx.glyphs, color)
}
