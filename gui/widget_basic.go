package gui

import "strings"

// Text draws a line of text.
func (ctx *Context) Text(text string) {
	ctx.TextColored(text, ctx.style.TextColor)
}

// TextColored draws a line of text in color.
func (ctx *Context) TextColored(text string, color uint32) {
	pos := ctx.ItemPos()
	ctx.addText(pos.X, pos.Y, text, color)
	ctx.advanceCursor(ctx.MeasureText(text))
}

// TextDisabled draws text in the disabled color.
func (ctx *Context) TextDisabled(text string) {
	ctx.TextColored(text, ctx.style.TextDisabledColor)
}

// TextWrapped draws text broken into lines at word boundaries.
// A maxWidth of 0 wraps at the available width.
func (ctx *Context) TextWrapped(text string, maxWidth float32) {
	if maxWidth <= 0 {
		maxWidth = ctx.availWidth()
	}
	lines := ctx.wrap(text, maxWidth)
	if len(lines) == 0 {
		return
	}

	pos := ctx.ItemPos()
	lineH := ctx.lineHeight()
	for i, line := range lines {
		ctx.addText(pos.X, pos.Y+float32(i)*lineH, line, ctx.style.TextColor)
	}
	ctx.advanceCursor(Vec2{maxWidth, float32(len(lines)) * lineH})
}

// wrap greedily fills lines up to width. A word wider than width gets a
// line of its own.
func (ctx *Context) wrap(text string, width float32) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() == 0 {
			line.WriteString(word)
			continue
		}
		candidate := line.String() + " " + word
		if ctx.MeasureText(candidate).X > width {
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			continue
		}
		line.Reset()
		line.WriteString(candidate)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// LabelText draws a label and value side by side.
func (ctx *Context) LabelText(label, value string) {
	ctx.HStack()(func() {
		ctx.Text(label)
		ctx.Text(value)
	})
}

// Button draws a button sized to its label and reports a click.
func (ctx *Context) Button(label string) bool {
	return ctx.ButtonSized(label, 0, 0)
}

// ButtonSized draws a button of a fixed size. A zero width or height
// falls back to the label's size plus padding.
func (ctx *Context) ButtonSized(label string, w, h float32) bool {
	pos := ctx.ItemPos()
	text := displayLabel(label)
	textSize := ctx.MeasureText(text)
	pad := ctx.style.ButtonPadding

	size := Vec2{textSize.X + 2*pad, textSize.Y + 2*pad}
	if w > 0 {
		size.X = w
	}
	if h > 0 {
		size.Y = h
	}

	clicked := ctx.buttonFrame(ctx.GetID(label), Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y})
	ctx.addText(pos.X+(size.X-textSize.X)/2, pos.Y+(size.Y-textSize.Y)/2, text, ctx.style.TextColor)
	ctx.advanceCursor(size)
	return clicked
}

// buttonFrame draws a button background for rect and reports a click.
func (ctx *Context) buttonFrame(id ID, rect Rect) bool {
	it := ctx.interact(id, rect)
	bg := ctx.style.ButtonColor
	switch {
	case it.held:
		bg = ctx.style.ButtonActiveColor
	case it.hovered:
		bg = ctx.style.ButtonHoveredColor
	}
	ctx.DrawList.AddRect(rect.X, rect.Y, rect.W, rect.H, bg)
	return it.clicked
}

// SmallButton draws a button with minimal padding.
func (ctx *Context) SmallButton(label string) bool {
	saved := ctx.style.ButtonPadding
	ctx.style.ButtonPadding = smallButtonPadding
	clicked := ctx.Button(label)
	ctx.style.ButtonPadding = saved
	return clicked
}

// Checkbox draws a labelled checkbox and reports whether value changed.
func (ctx *Context) Checkbox(label string, value *bool) bool {
	pos := ctx.ItemPos()
	text := displayLabel(label)

	box := ctx.lineHeight()
	width := box
	if text != "" {
		width += ctx.style.ItemSpacing + ctx.MeasureText(text).X
	}
	it := ctx.interact(ctx.GetID(label), Rect{X: pos.X, Y: pos.Y, W: width, H: box})

	bg := ctx.style.InputBgColor
	if it.hovered {
		bg = ctx.style.InputFocusedBgColor
	}
	ctx.DrawList.AddRect(pos.X, pos.Y, box, box, bg)
	ctx.DrawList.AddRectOutline(pos.X, pos.Y, box, box, ctx.style.InputBorderColor, 1)

	if it.clicked {
		*value = !*value
	}
	if *value {
		inset := box * 0.2
		x1, y1 := pos.X+inset, pos.Y+inset
		x2, y2 := pos.X+box-inset, pos.Y+box-inset
		ctx.DrawList.AddLine(x1, y1, x2, y2, ctx.style.TextColor, 2)
		ctx.DrawList.AddLine(x1, y2, x2, y1, ctx.style.TextColor, 2)
	}
	ctx.addText(pos.X+box+ctx.style.ItemSpacing, pos.Y, text, ctx.style.TextColor)

	ctx.advanceCursor(Vec2{width, box})
	return it.clicked
}

// ProgressBar draws a bar across the available width. fraction is
// clamped to [0, 1].
func (ctx *Context) ProgressBar(fraction float32) {
	pos := ctx.ItemPos()
	w := ctx.availWidth()
	h := ctx.lineHeight()

	ctx.DrawList.AddRect(pos.X, pos.Y, w, h, ctx.style.InputBgColor)
	if fill := w * clampf(fraction, 0, 1); fill > 0 {
		ctx.DrawList.AddRect(pos.X, pos.Y, fill, h, ctx.style.SelectedBgColor)
	}
	ctx.DrawList.AddRectOutline(pos.X, pos.Y, w, h, ctx.style.InputBorderColor, 1)

	ctx.advanceCursor(Vec2{w, h})
}
