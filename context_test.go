package guibridge_test

import (
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/gui"
)

type fakeImage struct {
	name     string
	weak     bool
	retained int
}

func (f *fakeImage) Strong() bool { return !f.weak }
func (f *fakeImage) Retain()      { f.retained++ }
func (f *fakeImage) Release()     { f.retained-- }

func newContext(t *testing.T) *guibridge.Context {
	t.Helper()
	ctx, err := guibridge.New(guibridge.DefaultConfig())
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return ctx
}

func window() *guibridge.WindowState {
	return &guibridge.WindowState{Width: 800, Height: 600, ScaleFactor: 1}
}

func frame(t *testing.T, ctx *guibridge.Context, draw func(ui *gui.Context)) *guibridge.DrawSnapshot {
	t.Helper()
	s, err := ctx.BeginFrame(guibridge.HostInput{Window: window(), DeltaTime: 0.016})
	if err != nil {
		t.Fatalf("BeginFrame() returned error: %v", err)
	}
	if draw != nil {
		draw(s.UI())
	}
	snap, err := ctx.EndFrame(s)
	if err != nil {
		t.Fatalf("EndFrame() returned error: %v", err)
	}
	return snap
}

func expectPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", want)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("expected panic with %v, got %v", want, r)
		}
	}()
	fn()
}

var bgra = guibridge.Target{PrimaryWindow: true, Format: gputypes.TextureFormatBGRA8UnormSrgb, Scale: 1}

func TestBeginFrameWhileLiveFails(t *testing.T) {
	ctx := newContext(t)
	s, err := ctx.BeginFrame(guibridge.HostInput{Window: window()})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.BeginFrame(guibridge.HostInput{Window: window()}); !errors.Is(err, guibridge.ErrSessionLive) {
		t.Fatalf("expected ErrSessionLive, got %v", err)
	}
	if ctx.Session() != s {
		t.Error("failed BeginFrame must not replace the live session")
	}
}

func TestEndFrameRejectsForeignSessions(t *testing.T) {
	ctx := newContext(t)
	if _, err := ctx.EndFrame(nil); !errors.Is(err, guibridge.ErrSessionMismatch) {
		t.Fatalf("expected ErrSessionMismatch without a session, got %v", err)
	}

	old, _ := ctx.BeginFrame(guibridge.HostInput{Window: window()})
	if _, err := ctx.EndFrame(old); err != nil {
		t.Fatal(err)
	}
	cur, _ := ctx.BeginFrame(guibridge.HostInput{Window: window()})
	if _, err := ctx.EndFrame(old); !errors.Is(err, guibridge.ErrSessionMismatch) {
		t.Fatalf("expected ErrSessionMismatch for an ended session, got %v", err)
	}
	if !cur.Live() {
		t.Error("current session must survive a rejected EndFrame")
	}
}

func TestAtMostOneLiveSession(t *testing.T) {
	ctx := newContext(t)
	var prev *guibridge.FrameSession
	for i := range 20 {
		s, err := ctx.BeginFrame(guibridge.HostInput{Window: window()})
		if i%3 == 2 {
			// Intentional double begin.
			if _, err2 := ctx.BeginFrame(guibridge.HostInput{}); err2 == nil {
				t.Fatalf("frame %d: second BeginFrame succeeded", i)
			}
		}
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if prev != nil && prev.Live() {
			t.Fatalf("frame %d: previous session still live", i)
		}
		if _, err := ctx.EndFrame(s); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if s.Live() {
			t.Fatalf("frame %d: EndFrame left the session live", i)
		}
		if ctx.Session() != nil {
			t.Fatalf("frame %d: context still reports a session", i)
		}
		prev = s
	}
	if prev.Generation() != 20 {
		t.Errorf("expected generation 20, got %d", prev.Generation())
	}
}

func TestUIAccessorsPanicOutsideSession(t *testing.T) {
	ctx := newContext(t)
	expectPanic(t, guibridge.ErrNoSession, func() { ctx.UI() })

	s, _ := ctx.BeginFrame(guibridge.HostInput{Window: window()})
	if ctx.UI() != s.UI() {
		t.Error("context and session must expose the same gui context")
	}
	if _, err := ctx.EndFrame(s); err != nil {
		t.Fatal(err)
	}
	expectPanic(t, guibridge.ErrSessionEnded, func() { s.UI() })
	expectPanic(t, guibridge.ErrNoSession, func() { ctx.UI() })
}

func TestSnapshotDoesNotAliasNextFrame(t *testing.T) {
	ctx := newContext(t)
	first := frame(t, ctx, func(ui *gui.Context) {
		ui.Text("first frame")
	})
	dd := first.DrawData()
	if first.Empty() || len(dd.Lists) == 0 {
		t.Fatal("expected draw data for a frame with text")
	}
	vtx := len(dd.Lists[0].VtxBuffer)
	v0 := dd.Lists[0].VtxBuffer[0]

	frame(t, ctx, func(ui *gui.Context) {
		ui.SetCursorPos(300, 300)
		ui.Button("a different and much longer frame")
		ui.Text("more")
	})

	if got := len(dd.Lists[0].VtxBuffer); got != vtx {
		t.Errorf("snapshot vertex count changed from %d to %d", vtx, got)
	}
	if dd.Lists[0].VtxBuffer[0] != v0 {
		t.Error("snapshot vertices were overwritten by the next frame")
	}
	if first.Frame() != 1 {
		t.Errorf("expected frame 1, got %d", first.Frame())
	}
}

func TestSnapshotReferencesFontTexture(t *testing.T) {
	ctx := newContext(t)
	snap := frame(t, ctx, func(ui *gui.Context) {
		ui.Text("x")
		ui.Button("y")
	})
	for _, id := range snap.Textures() {
		if id == gui.NoTexture {
			t.Fatal("finished frame references NoTexture")
		}
		if id != ctx.FontTexture() {
			t.Errorf("expected only the font texture, got %d", id)
		}
	}
}

func TestBeginFrameTranslatesInput(t *testing.T) {
	ctx := newContext(t)
	keys := guibridge.KeySet{}
	keys.Press(guibridge.HostKeyA)
	keys.Press(guibridge.HostKeyShiftRight)

	s, err := ctx.BeginFrame(guibridge.HostInput{
		Window: &guibridge.WindowState{
			Width: 640, Height: 480, ScaleFactor: 2,
			Cursor: gui.Vec2{X: 12, Y: 34}, HasCursor: true,
		},
		Keys:      keys,
		MouseLeft: true,
		Scroll:    []guibridge.ScrollEvent{{X: 1, Y: 1}, {X: 0, Y: -3}},
		Chars: []guibridge.KeyboardEvent{
			{Pressed: true, Kind: guibridge.LogicalCharacter, Text: "ab"},
			{Pressed: false, Kind: guibridge.LogicalCharacter, Text: "z"},
			{Pressed: true, Kind: guibridge.LogicalDead, Dead: '´'},
			{Pressed: true, Kind: guibridge.LogicalSpace},
			{Pressed: true, Kind: guibridge.LogicalOther},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	ui := s.UI()
	in := ui.Input

	if in.MouseX != 12 || in.MouseY != 34 {
		t.Errorf("expected mouse at (12,34), got (%v,%v)", in.MouseX, in.MouseY)
	}
	if !in.MouseDown(gui.MouseButtonLeft) || !in.MouseClicked(gui.MouseButtonLeft) {
		t.Error("expected left button down and clicked")
	}
	if in.MouseDown(gui.MouseButtonRight) {
		t.Error("right button should be up")
	}
	if in.MouseWheelX != 0 || in.MouseWheelY != -3 {
		t.Errorf("expected last wheel event (0,-3), got (%v,%v)", in.MouseWheelX, in.MouseWheelY)
	}
	if !in.KeyDown(gui.KeyA) || !in.KeyPressed(gui.KeyA) {
		t.Error("expected A pressed")
	}
	if !in.ModShift || in.ModCtrl {
		t.Errorf("expected only shift, got shift=%v ctrl=%v", in.ModShift, in.ModCtrl)
	}
	if got := string(in.InputChars); got != "b´ " {
		t.Errorf("expected chars %q, got %q", "b´ ", got)
	}
	if ui.DisplaySize != (gui.Vec2{X: 640, Y: 480}) {
		t.Errorf("unexpected display size %v", ui.DisplaySize)
	}
	if ui.FramebufferScale != (gui.Vec2{X: 2, Y: 2}) {
		t.Errorf("unexpected framebuffer scale %v", ui.FramebufferScale)
	}
	ctx.EndFrame(s)

	// No cursor: position keeps its last value.
	s, _ = ctx.BeginFrame(guibridge.HostInput{Window: &guibridge.WindowState{Width: 640, Height: 480}})
	in = s.UI().Input
	if in.MouseX != 12 || in.MouseY != 34 {
		t.Errorf("cursor-less frame moved the mouse to (%v,%v)", in.MouseX, in.MouseY)
	}
	if !in.MouseReleased(gui.MouseButtonLeft) {
		t.Error("expected left button release edge")
	}
	if in.KeyDown(gui.KeyA) || !in.KeyReleased(gui.KeyA) {
		t.Error("expected A released")
	}
	ctx.EndFrame(s)
}

func TestExtractDuringSessionFails(t *testing.T) {
	ctx := newContext(t)
	s, _ := ctx.BeginFrame(guibridge.HostInput{Window: window()})
	if _, _, err := ctx.Extract(bgra); !errors.Is(err, guibridge.ErrSessionLive) {
		t.Fatalf("expected ErrSessionLive, got %v", err)
	}
	ctx.EndFrame(s)
	if _, ok, err := ctx.Extract(bgra); err != nil || !ok {
		t.Fatalf("expected extract after the frame, got ok=%v err=%v", ok, err)
	}
}

func TestExtractWithoutWindowKeepsQueues(t *testing.T) {
	ctx := newContext(t)
	img := &fakeImage{name: "a"}
	id := ctx.RegisterTexture(img)
	frame(t, ctx, nil)

	for _, target := range []guibridge.Target{
		{},
		{PrimaryWindow: true, Scale: 1},
	} {
		p, ok, err := ctx.Extract(target)
		if err != nil || ok || p != nil {
			t.Fatalf("expected skip for %+v, got p=%v ok=%v err=%v", target, p, ok, err)
		}
	}

	p, ok, err := ctx.Extract(bgra)
	if err != nil || !ok {
		t.Fatalf("extract failed: ok=%v err=%v", ok, err)
	}
	if len(p.Adds) != 1 || p.Adds[0].ID != id || p.Adds[0].Ref != img {
		t.Errorf("expected the queued add of %d, got %+v", id, p.Adds)
	}
	if p.Snapshot != nil {
		t.Error("the snapshot taken by a skipped extract must not come back")
	}
}

func TestExtractTakesSnapshotOnce(t *testing.T) {
	ctx := newContext(t)
	frame(t, ctx, nil)
	if _, _, err := ctx.Extract(bgra); err != nil {
		t.Fatal(err)
	}

	frame(t, ctx, nil)
	snap := frame(t, ctx, func(ui *gui.Context) { ui.Text("latest") })
	p, _, _ := ctx.Extract(bgra)
	if p.Snapshot != snap {
		t.Error("expected the most recent snapshot")
	}
	if p.Rebuild != nil {
		t.Error("unchanged target must not rebuild")
	}
	p, _, _ = ctx.Extract(bgra)
	if p.Snapshot != nil {
		t.Error("snapshot extracted twice")
	}
}

func TestExtractRebuildsOnFormatChange(t *testing.T) {
	ctx := newContext(t)
	a := ctx.RegisterTexture(&fakeImage{name: "a"})
	b := ctx.RegisterTexture(&fakeImage{name: "b"})

	p, _, _ := ctx.Extract(bgra)
	if p.Rebuild == nil {
		t.Fatal("first extract must rebuild")
	}
	if p.Rebuild.FontTexture != ctx.FontTexture() || len(p.Rebuild.FontPixels) == 0 {
		t.Errorf("rebuild carries no font atlas: %+v", p.Rebuild)
	}
	if got := len(p.Rebuild.FontPixels); got != p.Rebuild.FontWidth*p.Rebuild.FontHeight*4 {
		t.Errorf("font pixels %d do not match %dx%d", got, p.Rebuild.FontWidth, p.Rebuild.FontHeight)
	}
	if len(p.Adds) != 2 {
		t.Errorf("expected two adds without duplicates, got %+v", p.Adds)
	}

	p, _, _ = ctx.Extract(bgra)
	if p.Rebuild != nil || len(p.Adds) != 0 {
		t.Fatalf("steady state must be quiet, got %+v", p)
	}

	ctx.UnregisterTexture(b)
	rgba := bgra
	rgba.Format = gputypes.TextureFormatRGBA8Unorm
	p, _, _ = ctx.Extract(rgba)
	if p.Rebuild == nil || p.Rebuild.Format != rgba.Format {
		t.Fatalf("expected rebuild to rgba8unorm, got %+v", p.Rebuild)
	}
	if len(p.Adds) != 1 || p.Adds[0].ID != a {
		t.Errorf("expected live handle %d re-added, got %+v", a, p.Adds)
	}
	if len(p.Removes) != 1 || p.Removes[0] != b {
		t.Errorf("expected removal of %d, got %v", b, p.Removes)
	}
}

func TestRebuildAppliesScalePolicy(t *testing.T) {
	ctx := newContext(t)
	spacing := gui.DefaultStyle().ItemSpacing

	hidpi := bgra
	hidpi.Scale = 2
	p, _, err := ctx.Extract(hidpi)
	if err != nil {
		t.Fatal(err)
	}
	if p.Rebuild == nil || p.Rebuild.Scale != 2 {
		t.Fatalf("expected rebuild at scale 2, got %+v", p.Rebuild)
	}
	fc := ctx.FontAtlas().Config()
	if fc.SizePixels != 26 || fc.OversampleH != 2 || fc.OversampleV != 2 {
		t.Errorf("unexpected font config %+v", fc)
	}

	s, _ := ctx.BeginFrame(guibridge.HostInput{Window: window()})
	ui := s.UI()
	if ui.FontGlobalScale != 0.5 {
		t.Errorf("expected font global scale 0.5, got %v", ui.FontGlobalScale)
	}
	if got := ui.Style().ItemSpacing; got != spacing*2 {
		t.Errorf("expected item spacing %v, got %v", spacing*2, got)
	}
	ctx.EndFrame(s)

	// Scale 0 means the window is going away: keep the previous scale.
	gone := bgra
	gone.Scale = 0
	p, _, _ = ctx.Extract(gone)
	if p.Rebuild != nil {
		t.Error("unknown scale must fall back to the previous one")
	}
}

func TestRebuildWithoutFontScaling(t *testing.T) {
	cfg := guibridge.DefaultConfig()
	cfg.ScaleAffectsFontSize = false
	cfg.ScaleAffectsFontOversample = false
	cfg.FontOversampleH = 3
	ctx, err := guibridge.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	hidpi := bgra
	hidpi.Scale = 1.5
	if _, _, err := ctx.Extract(hidpi); err != nil {
		t.Fatal(err)
	}
	fc := ctx.FontAtlas().Config()
	if fc.SizePixels != 13 || fc.OversampleH != 3 || fc.OversampleV != 1 {
		t.Errorf("unexpected font config %+v", fc)
	}
}

func TestFirstRegistrationIsTwo(t *testing.T) {
	ctx := newContext(t)
	if ctx.FontTexture() != 1 {
		t.Fatalf("expected font handle 1, got %d", ctx.FontTexture())
	}
	if id := ctx.RegisterTexture(&fakeImage{}); id != 2 {
		t.Errorf("expected first user handle 2, got %d", id)
	}
}

func TestSettingsPersistAcrossContexts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gui.yaml")
	cfg := guibridge.DefaultConfig()
	cfg.SettingsFilePath = path

	ctx, err := guibridge.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	frame(t, ctx, func(ui *gui.Context) {
		ui.Settings().SetWindow("Stats", gui.WindowSettings{X: 40, Y: 50})
	})
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	again, err := guibridge.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := again.BeginFrame(guibridge.HostInput{Window: window()})
	ws, ok := s.UI().Settings().Window("Stats")
	if !ok || ws.X != 40 || ws.Y != 50 {
		t.Errorf("expected persisted window at (40,50), got %+v ok=%v", ws, ok)
	}
	if err := again.Close(); !errors.Is(err, guibridge.ErrSessionLive) {
		t.Errorf("expected Close to refuse a live session, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := guibridge.DefaultConfig()
	cfg.FontOversampleV = 0
	if _, err := guibridge.New(cfg); !errors.Is(err, guibridge.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExtractRetainsQueuedAdds(t *testing.T) {
	ctx := newContext(t)
	img := &fakeImage{name: "a"}
	id := ctx.RegisterTexture(img)

	p, _, _ := ctx.Extract(bgra)
	if img.retained != 2 {
		t.Fatalf("expected the registry and the add to hold the image, got %d", img.retained)
	}
	ctx.UnregisterTexture(id)
	if img.retained != 1 {
		t.Fatalf("expected the in-flight add to keep the image, got %d", img.retained)
	}
	p.Adds[0].Release()
	if img.retained != 0 {
		t.Errorf("expected no references after the add was released, got %d", img.retained)
	}
}

func TestRebuildKeepsSnapshotAtSameScale(t *testing.T) {
	ctx := newContext(t)
	snap := frame(t, ctx, func(ui *gui.Context) { ui.Text("first") })
	p, _, _ := ctx.Extract(bgra)
	if p.Rebuild == nil {
		t.Fatal("first extract must rebuild")
	}
	if p.Snapshot != snap {
		t.Error("the atlas did not change scale, the frame must be kept")
	}

	snap = frame(t, ctx, nil)
	rgba := bgra
	rgba.Format = gputypes.TextureFormatRGBA8Unorm
	if p, _, _ = ctx.Extract(rgba); p.Snapshot != snap {
		t.Error("a format change alone must keep the frame")
	}

	frame(t, ctx, nil)
	scaled := rgba
	scaled.Scale = 2
	p, _, _ = ctx.Extract(scaled)
	if p.Rebuild == nil || p.Snapshot != nil {
		t.Errorf("a scale change must rebuild and drop the frame, got rebuild %v snapshot %v", p.Rebuild != nil, p.Snapshot != nil)
	}
}
