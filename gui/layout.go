package gui

// axis is the direction a stack places its items along.
type axis uint8

const (
	vertical axis = iota
	horizontal
)

// stack is an open layout container. Items are placed from start along
// the axis with gap between them.
type stack struct {
	axis  axis
	start Vec2 // content origin, inside the padding
	size  Vec2 // outer size requested by options; zero means auto
	avail float32

	content Vec2 // extent of the placed items
	items   int

	gap    float32
	gapSet bool
	pad    Vec2
	padSet bool
	maxH   float32
}

// LayoutOption configures a Panel, Window, VStack or HStack.
type LayoutOption func(*stack)

// Gap sets the spacing between children.
func Gap(pixels float32) LayoutOption {
	return func(s *stack) { s.gap, s.gapSet = pixels, true }
}

// Padding sets the inner padding on all sides.
func Padding(pixels float32) LayoutOption {
	return PaddingXY(pixels, pixels)
}

// PaddingXY sets horizontal and vertical padding separately.
func PaddingXY(x, y float32) LayoutOption {
	return func(s *stack) { s.pad, s.padSet = Vec2{x, y}, true }
}

// Width sets the container's minimum width. Children see it, less
// padding, as the available width.
func Width(w float32) LayoutOption {
	return func(s *stack) { s.size.X = w }
}

// Height sets the container's minimum height.
func Height(h float32) LayoutOption {
	return func(s *stack) { s.size.Y = h }
}

// MaxHeight caps a panel's height; content below the cap is clipped.
// Pass 0 to disable the constraint.
func MaxHeight(h float32) LayoutOption {
	return func(s *stack) { s.maxH = h }
}

func (ctx *Context) newStack(a axis, opts []LayoutOption) *stack {
	s := &stack{axis: a}
	for _, opt := range opts {
		opt(s)
	}
	if !s.gapSet {
		s.gap = ctx.style.ItemSpacing
	}
	return s
}

func (ctx *Context) top() *stack {
	if n := len(ctx.stacks); n > 0 {
		return ctx.stacks[n-1]
	}
	return nil
}

// open pushes s with its outer top-left corner at origin.
func (ctx *Context) open(s *stack, origin Vec2) {
	s.start = Vec2{origin.X + s.pad.X, origin.Y + s.pad.Y}
	s.avail = ctx.availWidth()
	if s.size.X > 0 {
		s.avail = s.size.X
	}
	s.avail -= 2 * s.pad.X
	ctx.cursor = s.start
	ctx.stacks = append(ctx.stacks, s)
}

// close pops the top stack and returns its outer bounds. The cursor is
// left at the bounds' origin.
func (ctx *Context) close() Rect {
	n := len(ctx.stacks)
	if n == 0 {
		return Rect{}
	}
	s := ctx.stacks[n-1]
	ctx.stacks = ctx.stacks[:n-1]

	r := Rect{
		X: s.start.X - s.pad.X,
		Y: s.start.Y - s.pad.Y,
		W: maxf(s.content.X+2*s.pad.X, s.size.X),
		H: maxf(s.content.Y+2*s.pad.Y, s.size.Y),
	}
	ctx.cursor = Vec2{r.X, r.Y}
	return r
}

// availWidth is the width the innermost container offers its children.
func (ctx *Context) availWidth() float32 {
	if s := ctx.top(); s != nil {
		return s.avail
	}
	return ctx.DisplaySize.X
}

// CurrentLayoutWidth returns the available width in the current layout.
func (ctx *Context) CurrentLayoutWidth() float32 {
	return ctx.availWidth()
}

// ItemPos returns the position for the next item with the gap applied.
// Widgets call it exactly once before drawing.
func (ctx *Context) ItemPos() Vec2 {
	if s := ctx.top(); s != nil && s.items > 0 {
		if s.axis == vertical {
			ctx.cursor.Y += s.gap
		} else {
			ctx.cursor.X += s.gap
		}
	}
	return ctx.cursor
}

// AdvanceCursor moves the cursor past an item of the given size placed
// at the cursor.
func (ctx *Context) AdvanceCursor(size Vec2) {
	s := ctx.top()
	if s == nil {
		ctx.cursor.Y += size.Y + ctx.style.ItemSpacing
		return
	}
	if s.axis == vertical {
		ctx.cursor.Y += size.Y
		s.content.X = maxf(s.content.X, ctx.cursor.X+size.X-s.start.X)
		s.content.Y = ctx.cursor.Y - s.start.Y
		ctx.cursor.X = s.start.X
	} else {
		ctx.cursor.X += size.X
		s.content.X = ctx.cursor.X - s.start.X
		s.content.Y = maxf(s.content.Y, ctx.cursor.Y+size.Y-s.start.Y)
		ctx.cursor.Y = s.start.Y
	}
	s.items++
}

func (ctx *Context) advanceCursor(size Vec2) {
	ctx.AdvanceCursor(size)
}

// layout runs contents inside a stack placed as one item of the parent.
func (ctx *Context) layout(a axis, opts []LayoutOption, contents func()) {
	s := ctx.newStack(a, opts)
	ctx.open(s, ctx.ItemPos())
	contents()
	r := ctx.close()
	ctx.AdvanceCursor(Vec2{r.W, r.H})
}

// VStack stacks its contents vertically.
func (ctx *Context) VStack(opts ...LayoutOption) func(func()) {
	return func(contents func()) { ctx.layout(vertical, opts, contents) }
}

// HStack places its contents side by side.
//
// Usage:
//
//	ctx.HStack(Gap(8))(func() {
//	    ctx.Text("Label:")
//	    ctx.Button("OK")
//	})
func (ctx *Context) HStack(opts ...LayoutOption) func(func()) {
	return func(contents func()) { ctx.layout(horizontal, opts, contents) }
}

// Row is HStack with default options.
func (ctx *Context) Row(contents func()) {
	ctx.HStack()(contents)
}

// Spacing adds vertical space.
func (ctx *Context) Spacing(pixels float32) {
	ctx.cursor.Y += pixels
}

// Separator draws a horizontal line across the available width.
func (ctx *Context) Separator() {
	pos := ctx.ItemPos()
	w := ctx.availWidth()
	ctx.DrawList.AddLine(pos.X, pos.Y+2, pos.X+w, pos.Y+2, ctx.style.SeparatorColor, 1)
	ctx.advanceCursor(Vec2{w, 4})
}

// Panel draws a titled container at the cursor.
//
// Usage:
//
//	ctx.Panel("Menu", Gap(8), Padding(12))(func() {
//	    ctx.Text("Hello")
//	    ctx.Button("Click")
//	})
func (ctx *Context) Panel(title string, opts ...LayoutOption) func(func()) {
	return func(contents func()) {
		r, _ := ctx.panel(ctx.ItemPos(), title, opts, contents)
		ctx.AdvanceCursor(Vec2{r.W, r.H})
	}
}

// panel draws a panel at origin and returns its bounds and header height.
// The cursor is left at origin.
func (ctx *Context) panel(origin Vec2, title string, opts []LayoutOption, contents func()) (Rect, float32) {
	s := ctx.newStack(vertical, opts)
	if !s.padSet {
		s.pad = Vec2{ctx.style.PanelPadding, ctx.style.PanelPadding}
	}

	headerH := float32(0)
	if title != "" {
		headerH = ctx.lineHeight() + 2*s.pad.Y
	}
	mark := ctx.DrawList.Mark()

	clipped := s.maxH > 0
	if clipped {
		ctx.DrawList.PushClipRect(origin.X, origin.Y, origin.X+ctx.DisplaySize.X, origin.Y+s.maxH)
	}
	ctx.open(s, Vec2{origin.X, origin.Y + headerH})
	contents()
	body := ctx.close()
	if clipped {
		ctx.DrawList.PopClipRect()
	}

	r := Rect{X: origin.X, Y: origin.Y, W: body.W, H: body.H + headerH}
	if clipped && r.H > s.maxH {
		r.H = s.maxH
	}

	// Behind the content, which was drawn first to learn the size.
	ctx.DrawList.InsertRect(mark, r.X, r.Y, r.W, r.H, ctx.style.PanelColor)

	if title != "" {
		bg := ctx.style.PanelHeaderBgColor
		if bg == 0 {
			bg = ctx.style.ButtonColor
		}
		ctx.DrawList.AddRect(r.X, r.Y, r.W, headerH, bg)

		fg := ctx.style.PanelHeaderTextColor
		if fg == 0 {
			fg = ctx.style.TextColor
		}
		ctx.addText(r.X+s.pad.X, r.Y+(headerH-ctx.lineHeight())/2, title, fg)
	}
	if ctx.style.BorderSize > 0 {
		ctx.DrawList.AddRectOutline(r.X, r.Y, r.W, r.H, ctx.style.PanelBorderColor, ctx.style.BorderSize)
	}

	if ctx.isHovered(r) {
		ctx.WantCaptureMouse = true
	}
	ctx.cursor = origin
	return r, headerH
}
