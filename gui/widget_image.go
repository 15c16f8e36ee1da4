package gui

// ImageOptions adjusts how Image samples and tints its texture.
type ImageOptions struct {
	UV0, UV1    [2]float32 // Sub-rectangle of the texture (default full)
	Tint        uint32     // Multiplied with texels (default opaque white)
	BorderColor uint32     // Drawn around the image when non-zero
}

// Image draws a registered texture at the cursor with the given size.
// tex must be a handle the host registered for this frame's renderer.
func (ctx *Context) Image(tex TextureID, size Vec2, opts ...ImageOptions) {
	o := ImageOptions{UV1: [2]float32{1, 1}, Tint: ColorWhite}
	if len(opts) > 0 {
		o = opts[0]
		if o.UV0 == o.UV1 {
			o.UV0, o.UV1 = [2]float32{0, 0}, [2]float32{1, 1}
		}
		if o.Tint == 0 {
			o.Tint = ColorWhite
		}
	}

	pos := ctx.ItemPos()
	ctx.DrawList.AddImage(tex, pos.X, pos.Y, size.X, size.Y, o.UV0, o.UV1, o.Tint)
	if o.BorderColor != 0 {
		ctx.DrawList.AddRectOutline(pos.X, pos.Y, size.X, size.Y, o.BorderColor, 1)
	}
	if ctx.isHovered(Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}) {
		ctx.WantCaptureMouse = true
	}
	ctx.advanceCursor(size)
}

// ImageButton draws a clickable image framed like a button. Only the
// label's ID part is used; nothing is printed.
func (ctx *Context) ImageButton(label string, tex TextureID, size Vec2) bool {
	pos := ctx.ItemPos()
	pad := ctx.style.ButtonPadding
	rect := Rect{X: pos.X, Y: pos.Y, W: size.X + 2*pad, H: size.Y + 2*pad}

	clicked := ctx.buttonFrame(ctx.GetID(label), rect)
	ctx.DrawList.AddImage(tex, pos.X+pad, pos.Y+pad, size.X, size.Y, [2]float32{0, 0}, [2]float32{1, 1}, ColorWhite)
	ctx.advanceCursor(Vec2{rect.W, rect.H})
	return clicked
}
