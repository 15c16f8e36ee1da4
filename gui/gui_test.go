package gui_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/go-theft-auto/guibridge/gui"
)

const fontID gui.TextureID = 1

func newAtlas(t testing.TB, cfg gui.FontConfig) *gui.FontAtlas {
	t.Helper()
	atlas := gui.NewFontAtlas()
	atlas.SetTextureID(fontID)
	if err := atlas.Build(cfg); err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}
	return atlas
}

func newGUI(t testing.TB) *gui.GUI {
	t.Helper()
	return gui.New(gui.WithFont(newAtlas(t, gui.FontConfig{SizePixels: 13})))
}

func TestGUIBasicUsage(t *testing.T) {
	ui := newGUI(t)

	ctx := ui.Begin(gui.Vec2{X: 1920, Y: 1080}, 0.016)
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	ctx.Text("Hello World")
	ctx.TextColored("Colored", gui.ColorYellow)

	dd := ui.End()
	defer ui.Release()

	if len(dd.Lists) != 1 {
		t.Fatalf("expected 1 draw list, got %d", len(dd.Lists))
	}
	if dd.TotalIdxCount() == 0 || dd.TotalVtxCount() == 0 {
		t.Error("expected text geometry")
	}
	if dd.DisplaySize != (gui.Vec2{X: 1920, Y: 1080}) {
		t.Errorf("expected display size 1920x1080, got %v", dd.DisplaySize)
	}
	for _, cmd := range dd.Lists[0].CmdBuffer {
		if cmd.TextureID != fontID {
			t.Errorf("expected every command on the font texture, got %d", cmd.TextureID)
		}
	}
}

func TestBeginTwicePanics(t *testing.T) {
	ui := newGUI(t)
	ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
}

func TestUntexturedPrimitivesUseFontWhitePixel(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Separator()
	dd := ui.End()
	defer ui.Release()

	white := ctx.Font().WhitePixel()
	for _, v := range dd.Lists[0].VtxBuffer {
		if v.TexCoord != white {
			t.Fatalf("expected white texel %v, got %v", white, v.TexCoord)
		}
	}
	if got := dd.Textures(); len(got) != 1 || got[0] != fontID {
		t.Errorf("expected only the font texture, got %v", got)
	}
}

func TestButton(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	if ctx.Button("Test Button") {
		t.Error("button should not be clicked without mouse input")
	}
	ui.End()
	ui.Release()
}

func TestButtonWithClick(t *testing.T) {
	ui := newGUI(t)
	input := ui.Input()
	input.SetMousePos(5, 5)
	input.SetMouseButton(gui.MouseButtonLeft, true)

	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	if !ctx.Button("Click Me") {
		t.Error("expected the button to be clicked")
	}
	if !ctx.WantCaptureMouse {
		t.Error("expected the hovered button to capture the mouse")
	}
	ui.End()
	ui.Release()

	// Held, not pressed again.
	ctx = ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	if ctx.Button("Click Me") {
		t.Error("expected a held button not to click twice")
	}
	ui.End()
	ui.Release()
}

func TestCheckbox(t *testing.T) {
	ui := newGUI(t)
	checked := false

	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Checkbox("Enable", &checked)
	ui.End()
	ui.Release()
	if checked {
		t.Error("checkbox should remain unchecked without click")
	}

	ui.Input().SetMousePos(2, 2)
	ui.Input().SetMouseButton(gui.MouseButtonLeft, true)
	ctx = ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	if !ctx.Checkbox("Enable", &checked) || !checked {
		t.Error("expected a click to check the box")
	}
	ui.End()
	ui.Release()
}

func TestSliderDragsToMax(t *testing.T) {
	ui := newGUI(t)
	value := float32(0.25)

	ui.Input().SetMousePos(149, 4)
	ui.Input().SetMouseButton(gui.MouseButtonLeft, true)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	if !ctx.SliderFloat("", &value, 0, 1) {
		t.Error("expected the slider to change")
	}
	ui.End()
	ui.Release()
	if value != 1 {
		t.Errorf("expected 1, got %v", value)
	}

	n := 3
	ui.Input().SetMousePos(0, 4)
	ctx = ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.SliderInt("", &n, 0, 10)
	ui.End()
	ui.Release()
	if n != 0 {
		t.Errorf("expected the held drag to reach 0, got %d", n)
	}
}

func TestImageSwitchesTexture(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Text("before")
	ctx.Image(7, gui.Vec2{X: 64, Y: 64})
	ctx.Text("after")
	dd := ui.End()
	defer ui.Release()

	cmds := dd.Lists[0].CmdBuffer
	if len(cmds) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(cmds))
	}
	want := []gui.TextureID{fontID, 7, fontID}
	for i, cmd := range cmds {
		if cmd.TextureID != want[i] {
			t.Errorf("command %d: expected texture %d, got %d", i, want[i], cmd.TextureID)
		}
	}
	if got := dd.Textures(); len(got) != 2 || got[0] != fontID || got[1] != 7 {
		t.Errorf("expected textures [1 7], got %v", got)
	}
}

func TestImageWithoutTextureDrawsNothing(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Image(gui.NoTexture, gui.Vec2{X: 64, Y: 64})
	dd := ui.End()
	defer ui.Release()

	if len(dd.Lists) != 0 {
		t.Errorf("expected no draw lists, got %d", len(dd.Lists))
	}
}

func TestClipRectSplitsCommands(t *testing.T) {
	dl := gui.AcquireDrawList()
	defer gui.ReleaseDrawList(dl)
	dl.SetWhitePixel(fontID, [2]float32{0, 0})

	dl.AddRect(0, 0, 10, 10, gui.ColorRed)
	dl.PushClipRect(5, 5, 50, 50)
	dl.AddRect(0, 0, 10, 10, gui.ColorGreen)
	dl.PopClipRect()
	dl.Finalize()

	if len(dl.CmdBuffer) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(dl.CmdBuffer))
	}
	if dl.CmdBuffer[1].ClipRect != [4]float32{5, 5, 50, 50} {
		t.Errorf("expected the pushed clip rect, got %v", dl.CmdBuffer[1].ClipRect)
	}
	if dl.CmdBuffer[1].VertexOffset != 4 || dl.CmdBuffer[1].IndexOffset != 6 {
		t.Errorf("expected offsets 4/6, got %d/%d", dl.CmdBuffer[1].VertexOffset, dl.CmdBuffer[1].IndexOffset)
	}
}

func TestDrawListPool(t *testing.T) {
	dl := gui.AcquireDrawList()
	dl.AddRect(0, 0, 100, 100, gui.ColorRed)
	if len(dl.VtxBuffer) == 0 {
		t.Error("expected vertices after AddRect")
	}
	gui.ReleaseDrawList(dl)

	dl2 := gui.AcquireDrawList()
	defer gui.ReleaseDrawList(dl2)
	if len(dl2.VtxBuffer) != 0 || len(dl2.CmdBuffer) != 0 {
		t.Error("reused DrawList should be cleared")
	}
}

func TestDrawDataCloneIsIndependent(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Text("snapshot")
	clone := ui.End().Clone()
	vtx := clone.TotalVtxCount()
	first := clone.Lists[0].VtxBuffer[0]
	ui.Release()

	// The next frame reuses the pooled buffers.
	ctx = ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Button("something else entirely")
	ui.End()
	ui.Release()

	if clone.TotalVtxCount() != vtx || clone.Lists[0].VtxBuffer[0] != first {
		t.Error("expected the clone to survive buffer reuse")
	}
}

func TestIDGeneration(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	defer ui.Release()

	if ctx.GetID("button") != ctx.GetID("button") {
		t.Error("same label should generate the same ID")
	}
	if ctx.GetID("a") == ctx.GetID("b") {
		t.Error("different labels should generate different IDs")
	}
}

func TestPushPopID(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	defer ui.Release()

	ctx.PushID("section1")
	id1 := ctx.GetID("item")
	ctx.PopID()

	ctx.PushID("section2")
	id2 := ctx.GetID("item")
	ctx.PopID()

	if id1 == id2 {
		t.Error("same label in different sections should have different IDs")
	}
}

func TestStateStore(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	defer ui.Release()

	id := ctx.GetID("test_state")
	gui.SetState(ctx, id, float32(42.5))
	if value := gui.GetState(ctx, id, float32(0)); value != 42.5 {
		t.Errorf("expected 42.5, got %v", value)
	}
	if value := gui.GetState(ctx, ctx.GetID("nonexistent"), float32(99)); value != 99 {
		t.Errorf("expected default 99, got %v", value)
	}
}

func TestScaleAllSizes(t *testing.T) {
	s := gui.DefaultStyle()
	s.ScaleAllSizes(2)
	if s.ItemSpacing != 8 || s.ButtonPadding != 12 || s.BorderSize != 2 {
		t.Errorf("expected doubled sizes, got spacing %v padding %v border %v",
			s.ItemSpacing, s.ButtonPadding, s.BorderSize)
	}
	if s.TextColor != gui.DefaultStyle().TextColor {
		t.Error("expected colors to be untouched")
	}

	s = gui.DefaultStyle()
	s.ScaleAllSizes(0.25)
	if s.BorderSize != 1 {
		t.Errorf("expected borders to stay at least 1, got %v", s.BorderSize)
	}
	if s.ItemSpacing != 1 {
		t.Errorf("expected rounded spacing 1, got %v", s.ItemSpacing)
	}
}

func TestFontAtlasBuild(t *testing.T) {
	atlas := newAtlas(t, gui.FontConfig{SizePixels: 13})
	if !atlas.Built() || atlas.Generation() != 1 {
		t.Fatalf("expected a built atlas at generation 1, got %d", atlas.Generation())
	}

	pixels, w, h := atlas.TexDataRGBA32()
	if w != 512 || h == 0 || h&(h-1) != 0 {
		t.Errorf("expected 512 wide and a power-of-two height, got %dx%d", w, h)
	}
	if len(pixels) != w*h*4 {
		t.Errorf("expected %d bytes, got %d", w*h*4, len(pixels))
	}

	uv := atlas.WhitePixel()
	x, y := int(uv[0]*float32(w)), int(uv[1]*float32(h))
	if a := pixels[(y*w+x)*4+3]; a != 0xFF {
		t.Errorf("expected an opaque white texel, got alpha %d", a)
	}

	if !atlas.HasGlyph('A') || !atlas.HasGlyph('é') || atlas.HasGlyph('→') {
		t.Error("expected ASCII and Latin-1 glyphs only")
	}
	if atlas.MeasureText("→", 1).X != atlas.MeasureText(">", 1).X {
		t.Error("expected arrows to fall back to ASCII")
	}
	if atlas.MeasureText("e\u0301", 1) != atlas.MeasureText("\u00e9", 1) {
		t.Error("expected combining sequences to be composed")
	}
}

func TestFontAtlasOversampleKeepsMetrics(t *testing.T) {
	plain := newAtlas(t, gui.FontConfig{SizePixels: 16})
	over := newAtlas(t, gui.FontConfig{SizePixels: 16, OversampleH: 2, OversampleV: 2})

	a, b := plain.MeasureText("Hello", 1).X, over.MeasureText("Hello", 1).X
	if math.Abs(float64(a-b)) > 1 {
		t.Errorf("expected nominal widths to match, got %v and %v", a, b)
	}
	_, _, hPlain := plain.TexDataRGBA32()
	_, _, hOver := over.TexDataRGBA32()
	if hOver <= hPlain {
		t.Errorf("expected a taller oversampled atlas, got %d and %d", hPlain, hOver)
	}
}

func TestFontAtlasWidensForLargeGlyphs(t *testing.T) {
	atlas := newAtlas(t, gui.FontConfig{SizePixels: 200, OversampleH: 4})
	_, w, h := atlas.TexDataRGBA32()
	if w <= 512 {
		t.Fatalf("expected the atlas to widen past 512, got %d", w)
	}
	for _, q := range atlas.AppendGlyphQuads(nil, "MW@", 0, 0, 1) {
		if q.U0 < 0 || q.U1 > 1 || q.V0 < 0 || q.V1 > 1 || q.U1 <= q.U0 {
			t.Errorf("glyph quad outside the %dx%d atlas: %+v", w, h, q)
		}
	}
}

func TestFontAtlasRejectsInvalidSize(t *testing.T) {
	atlas := gui.NewFontAtlas()
	if err := atlas.Build(gui.FontConfig{}); err == nil {
		t.Error("expected an error for size 0")
	}
	if atlas.Built() {
		t.Error("expected the atlas to stay empty")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gui.yaml")

	s := gui.NewSettings()
	if err := s.Load(path); err != nil {
		t.Fatalf("expected a missing file to be fine, got %v", err)
	}
	s.SetWindow("Stats", gui.WindowSettings{X: 10, Y: 20, W: 200, H: 100})
	if !s.Dirty() {
		t.Error("expected dirty settings")
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	loaded := gui.NewSettings()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	ws, ok := loaded.Window("Stats")
	if !ok || ws.X != 10 || ws.Y != 20 {
		t.Errorf("expected Stats at 10,20, got %+v (found %v)", ws, ok)
	}
}

func TestWindowUsesStoredPosition(t *testing.T) {
	ui := newGUI(t)
	ui.Context().Settings().SetWindow("Stats", gui.WindowSettings{X: 40, Y: 50})

	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Window("Stats", gui.Vec2{})(func() {
		ctx.Text("fps: 60")
	})
	dd := ui.End()
	defer ui.Release()

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	for _, v := range dd.Lists[0].VtxBuffer {
		minX = min(minX, v.Pos[0])
		minY = min(minY, v.Pos[1])
	}
	if minX != 40 || minY != 50 {
		t.Errorf("expected the window at 40,50, got %v,%v", minX, minY)
	}
	ws, _ := ui.Context().Settings().Window("Stats")
	if ws.W == 0 || ws.H == 0 {
		t.Errorf("expected the window size to be stored, got %+v", ws)
	}
}

func TestColorFunctions(t *testing.T) {
	c := gui.RGBA(255, 128, 64, 200)
	r, g, b, a := gui.UnpackRGBA(c)
	if r != 255 || g != 128 || b != 64 || a != 200 {
		t.Errorf("RGBA roundtrip failed: got %d,%d,%d,%d", r, g, b, a)
	}
}

func TestPanelBackgroundDrawsFirst(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Panel("Panel")(func() {
		ctx.Text("content")
	})
	dd := ui.End()
	defer ui.Release()

	want := gui.DefaultStyle().PanelColor
	if got := dd.Lists[0].VtxBuffer[0].Color; got != want {
		t.Errorf("expected the first quad to be the background %08x, got %08x", want, got)
	}
}

func TestWindowsKeepDrawOrder(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	ctx.Window("A", gui.Vec2{X: 0, Y: 0})(func() { ctx.Text("a") })
	ctx.Window("B", gui.Vec2{X: 300, Y: 0})(func() { ctx.Text("b") })
	dd := ui.End()
	defer ui.Release()

	lastA, firstB := -1, -1
	for i, v := range dd.Lists[0].VtxBuffer {
		if v.Pos[0] < 300 {
			lastA = i
		} else if firstB < 0 {
			firstB = i
		}
	}
	if lastA < 0 || firstB < 0 || lastA > firstB {
		t.Errorf("expected all of A before B, got last A %d, first B %d", lastA, firstB)
	}
}

func TestLabelSuffixIsHidden(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	defer ui.Release()

	if ctx.GetID("OK##1") == ctx.GetID("OK##2") {
		t.Error("expected different IDs for different suffixes")
	}

	start := ctx.GetCursorPos()
	ctx.HStack(gui.Gap(0))(func() {
		ctx.Button("OK##1")
	})
	withSuffix := ctx.GetCursorPos().Y - start.Y

	start = ctx.GetCursorPos()
	ctx.HStack(gui.Gap(0))(func() {
		ctx.Button("OK")
	})
	plain := ctx.GetCursorPos().Y - start.Y
	if withSuffix != plain {
		t.Errorf("expected equal sizes, got %v and %v", withSuffix, plain)
	}
}

func TestStacksPlaceItemsWithGap(t *testing.T) {
	ui := newGUI(t)
	ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
	defer ui.Release()

	var p1, p2 gui.Vec2
	ctx.VStack(gui.Gap(10))(func() {
		p1 = ctx.ItemPos()
		ctx.AdvanceCursor(gui.Vec2{X: 20, Y: 5})
		p2 = ctx.ItemPos()
		ctx.AdvanceCursor(gui.Vec2{X: 30, Y: 5})
	})
	if p2.Y != p1.Y+15 || p2.X != p1.X {
		t.Errorf("expected the second item 15 below the first, got %v and %v", p1, p2)
	}
	spacing := ctx.Style().ItemSpacing
	if y := ctx.GetCursorPos().Y; y != 20+spacing {
		t.Errorf("expected the cursor below the stack at %v, got %v", 20+spacing, y)
	}

	ctx.SetCursorPos(0, 100)
	ctx.HStack(gui.Gap(10), gui.Width(200))(func() {
		if w := ctx.CurrentLayoutWidth(); w != 200 {
			t.Errorf("expected available width 200, got %v", w)
		}
		p1 = ctx.ItemPos()
		ctx.AdvanceCursor(gui.Vec2{X: 20, Y: 5})
		p2 = ctx.ItemPos()
		ctx.AdvanceCursor(gui.Vec2{X: 30, Y: 8})
	})
	if p2.X != p1.X+30 || p2.Y != 100 {
		t.Errorf("expected the second item 30 right of the first, got %v and %v", p1, p2)
	}
}

func TestKeyRepeat(t *testing.T) {
	in := gui.NewInputState()
	in.SetKey(gui.KeyA, true)
	if !in.KeyRepeated(gui.KeyA) {
		t.Error("expected the initial press to repeat")
	}
	in.Reset()

	steps := []struct {
		dt   float32
		want bool
	}{
		{0.2, false},
		{0.2, true},  // delay reached
		{0.01, false},
		{0.03, true}, // one interval later
	}
	for i, s := range steps {
		in.UpdateKeyRepeat(s.dt)
		if got := in.KeyRepeated(gui.KeyA); got != s.want {
			t.Errorf("step %d: expected %v, got %v", i, s.want, got)
		}
	}

	in.SetKey(gui.KeyA, false)
	if in.KeyRepeated(gui.KeyA) || !in.KeyReleased(gui.KeyA) {
		t.Error("expected a released key to stop repeating")
	}
}

func TestIdleStateIsPruned(t *testing.T) {
	ui := newGUI(t)
	var idle, used gui.ID
	for frame := 0; frame < 700; frame++ {
		ctx := ui.Begin(gui.Vec2{X: 800, Y: 600}, 0.016)
		if frame == 0 {
			idle, used = ctx.GetID("idle"), ctx.GetID("used")
			gui.SetState(ctx, idle, 1)
			gui.SetState(ctx, used, 2)
		}
		gui.GetState(ctx, used, 0)
		ui.End()
		ui.Release()
	}

	ctx := ui.Context()
	if ctx.StateLen() != 1 {
		t.Errorf("expected 1 state entry, got %d", ctx.StateLen())
	}
	if v := gui.GetState(ctx, idle, -1); v != -1 {
		t.Errorf("expected idle state to be gone, got %d", v)
	}
}

func BenchmarkDrawListAddRect(b *testing.B) {
	dl := gui.AcquireDrawList()
	defer gui.ReleaseDrawList(dl)
	for i := 0; i < b.N; i++ {
		dl.Clear()
		for j := 0; j < 100; j++ {
			dl.AddRect(float32(j), float32(j), 10, 10, gui.ColorWhite)
		}
	}
}

func BenchmarkFullFrame(b *testing.B) {
	ui := newGUI(b)
	for i := 0; i < b.N; i++ {
		ctx := ui.Begin(gui.Vec2{X: 1920, Y: 1080}, 0.016)
		ctx.Panel("Menu", gui.Gap(8))(func() {
			ctx.Text("Title")
			for j := 0; j < 10; j++ {
				ctx.Button("Item")
			}
		})
		ui.End()
		ui.Release()
	}
}
