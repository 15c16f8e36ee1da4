package gui

// windowDrag tracks an in-progress title bar drag.
type windowDrag struct {
	OffsetX, OffsetY float32 // Window origin minus mouse position at drag start
}

// Window draws a titled panel that the user can move by dragging its
// title bar. The position is stored in Settings under title, so it
// survives restarts when the host persists settings. defaultPos is used
// the first time a window is seen.
//
// Usage:
//
//	ctx.Window("Stats", gui.Vec2{X: 10, Y: 10})(func() {
//	    ctx.Text("fps: 60")
//	})
func (ctx *Context) Window(title string, defaultPos Vec2, opts ...LayoutOption) func(func()) {
	return func(contents func()) {
		id := ctx.GetID("##window/" + title)

		ws, ok := ctx.settings.Window(title)
		if !ok {
			ws = WindowSettings{X: defaultPos.X, Y: defaultPos.Y}
		}

		saved := ctx.cursor
		ctx.PushID(title)
		rect, headerH := ctx.panel(Vec2{ws.X, ws.Y}, title, opts, contents)
		ctx.PopID()
		ctx.cursor = saved

		ws.X, ws.Y = ctx.handleWindowDrag(id, rect, headerH)
		ws.W, ws.H = rect.W, rect.H
		ctx.settings.SetWindow(title, ws)
	}
}

// handleWindowDrag processes title bar dragging and returns the window's
// position for the next frame.
func (ctx *Context) handleWindowDrag(id ID, rect Rect, headerH float32) (x, y float32) {
	x, y = rect.X, rect.Y
	input := ctx.Input
	if input == nil || headerH == 0 {
		return x, y
	}
	mouse := Vec2{input.MouseX, input.MouseY}

	if ctx.activeID == 0 && input.MouseClicked(MouseButtonLeft) {
		titleBar := Rect{X: rect.X, Y: rect.Y, W: rect.W, H: headerH}
		if titleBar.Contains(mouse) {
			ctx.activeID = id
			SetState(ctx, id, windowDrag{OffsetX: rect.X - mouse.X, OffsetY: rect.Y - mouse.Y})
			logger().Debug("window drag start", "id", id, "rect", rect)
		}
	}

	if ctx.activeID != id {
		return x, y
	}
	if !input.MouseDown(MouseButtonLeft) {
		ctx.activeID = 0
		DeleteState(ctx, id)
		return x, y
	}

	drag := GetState(ctx, id, windowDrag{})
	ctx.WantCaptureMouse = true
	x = clampf(mouse.X+drag.OffsetX, 0, maxf(0, ctx.DisplaySize.X-rect.W))
	y = clampf(mouse.Y+drag.OffsetY, 0, maxf(0, ctx.DisplaySize.Y-rect.H))
	return x, y
}
