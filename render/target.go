package render

import (
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"
)

// TextureTarget is an offscreen RGBA8 texture that is both a render
// target and an image the GUI can show. Register it with the GUI context
// and resolve it with ResidentAssets.
//
// The target is reference counted. The creator holds one reference, and
// the registry and every in-flight texture add hold one more, so the
// texture is freed by whichever Release comes last.
type TextureTarget struct {
	mu            sync.Mutex
	tex           Texture
	refs          int
	width, height int
}

// NewTextureTarget creates a texture, optionally filled with RGBA pixels.
func NewTextureTarget(dev Device, width, height int, rgba []byte) (*TextureTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("texture target: invalid size %dx%d", width, height)
	}
	if rgba != nil && len(rgba) != width*height*4 {
		return nil, errors.Errorf("texture target: %d bytes for %dx%d", len(rgba), width, height)
	}
	tex, err := dev.CreateTexture(width, height, rgba)
	if err != nil {
		return nil, errors.Wrap(err, "texture target")
	}
	return &TextureTarget{tex: tex, refs: 1, width: width, height: height}, nil
}

// Strong implements guibridge.ImageRef. It is false once the texture was
// freed.
func (t *TextureTarget) Strong() bool {
	return t.Resident()
}

// Resident reports whether the texture still exists.
func (t *TextureTarget) Resident() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tex != nil
}

// View implements GPUImage. It is nil once the texture was freed.
func (t *TextureTarget) View() TextureView {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tex == nil {
		return nil
	}
	return t.tex.View()
}

// Size returns the texture size in pixels.
func (t *TextureTarget) Size() (width, height int) {
	return t.width, t.height
}

// PassDescriptor describes a pass that draws into the target.
func (t *TextureTarget) PassDescriptor(load gputypes.LoadOp, clear gputypes.Color) RenderPassDescriptor {
	return RenderPassDescriptor{
		Label:      "texture target",
		View:       t.View(),
		Format:     gputypes.TextureFormatRGBA8Unorm,
		LoadOp:     load,
		StoreOp:    gputypes.StoreOpStore,
		ClearColor: clear,
	}
}

// Retain implements guibridge.RetainedRef.
func (t *TextureTarget) Retain() {
	t.mu.Lock()
	if t.tex != nil {
		t.refs++
	}
	t.mu.Unlock()
}

// Release drops one reference and frees the texture with the last one.
// The creator calls it once when done with the target, registered or not.
func (t *TextureTarget) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tex == nil {
		return
	}
	t.refs--
	if t.refs > 0 {
		return
	}
	t.tex.Release()
	t.tex = nil
	logger().Debug("texture target freed", "size", [2]int{t.width, t.height})
}
