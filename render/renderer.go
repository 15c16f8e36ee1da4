package render

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/gui"
)

// State is the renderer's configuration state.
type State int

const (
	// StateUnbound: no font atlas has been uploaded yet.
	StateUnbound State = iota
	// StateRebuilding: a reconfiguration started and has not finished.
	StateRebuilding
	// StateBound: pipeline, sampler and font match Format and Scale.
	StateBound
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateRebuilding:
		return "rebuilding"
	case StateBound:
		return "bound"
	default:
		return "invalid"
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithInitialFormat creates the pipeline for format up front, before the
// first target is known. Texture operations can then be applied before the
// first rebuild.
func WithInitialFormat(format gputypes.TextureFormat) Option {
	return func(r *Renderer) { r.initialFormat = format }
}

// WithPipelineCacheSize sets how many formats keep a pipeline alive.
func WithPipelineCacheSize(n int) Option {
	return func(r *Renderer) { r.pipelineCacheSize = n }
}

// Renderer paints DrawSnapshots. It lives on the render goroutine.
//
// The binding table is write-only: after a rebuild the renderer drops every
// binding and waits for the registry's re-adds instead of recreating
// bindings from what it holds.
type Renderer struct {
	dev       Device
	pipelines *pipelineCache
	samplers  *samplerCache

	initialFormat     gputypes.TextureFormat
	pipelineCacheSize int

	state    State
	format   gputypes.TextureFormat
	scale    float32
	pipeline Pipeline
	sampler  Sampler

	fontID      gui.TextureID
	fontTexture Texture
	bindings    map[gui.TextureID]binding

	pending *guibridge.DrawSnapshot
}

// binding is a bound texture and the add that keeps its image alive. The
// font's binding has no add.
type binding struct {
	bg  BindGroup
	add guibridge.TextureAdd
}

func (b binding) release() {
	b.bg.Release()
	b.add.Release()
}

// unbind releases every binding for which drop reports true.
func (r *Renderer) unbind(drop func(id gui.TextureID) bool) {
	for id, b := range r.bindings {
		if drop(id) {
			b.release()
			delete(r.bindings, id)
		}
	}
}

// New creates an unbound renderer on dev.
func New(dev Device, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		dev:               dev,
		pipelineCacheSize: 4,
		bindings:          make(map[gui.TextureID]binding),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pipelines = newPipelineCache(dev, r.pipelineCacheSize)
	r.samplers = newSamplerCache(dev)

	if r.initialFormat != gputypes.TextureFormatUndefined {
		p, err := r.pipelines.get(r.initialFormat)
		if err != nil {
			return nil, err
		}
		s, err := r.samplers.get(GUISampler)
		if err != nil {
			return nil, err
		}
		r.pipeline, r.sampler, r.format = p, s, r.initialFormat
	}
	return r, nil
}

// Prepare applies a packet from the update goroutine: the rebuild first,
// then texture operations. The packet's snapshot becomes the one the next
// Render paints.
func (r *Renderer) Prepare(p *guibridge.FramePacket, assets ImageAssets) error {
	if p == nil {
		return nil
	}
	if p.Rebuild != nil {
		if err := r.rebuild(p.Rebuild); err != nil {
			return err
		}
	}
	if err := r.ApplyTextureOps(p.Removes, p.Adds, assets); err != nil {
		return err
	}
	if p.Snapshot != nil {
		r.pending = p.Snapshot
	}
	return nil
}

// ApplyTextureOps frees the bindings in removes, then binds adds. A removal
// cancels an add of the same handle in the same batch.
//
// The renderer takes over every add: a bound add is released with its
// binding, a cancelled or failed one right away.
//
// An add whose image has no GPU form fails with ErrImageNotResident.
func (r *Renderer) ApplyTextureOps(removes []gui.TextureID, adds []guibridge.TextureAdd, assets ImageAssets) error {
	if len(removes) > 0 {
		r.unbind(func(id gui.TextureID) bool {
			return id != r.fontID && slices.Contains(removes, id)
		})
	}
	for i, a := range adds {
		if slices.Contains(removes, a.ID) {
			a.Release()
			continue
		}
		if err := r.bind(a, assets); err != nil {
			for _, rest := range adds[i:] {
				rest.Release()
			}
			return err
		}
	}
	return nil
}

// bind creates the binding for a. On success the binding owns a.
func (r *Renderer) bind(a guibridge.TextureAdd, assets ImageAssets) error {
	if r.pipeline == nil || r.sampler == nil {
		return errors.Wrapf(ErrNotBound, "bind texture %d", a.ID)
	}
	var img GPUImage
	ok := false
	if assets != nil {
		img, ok = assets.GPUImage(a.Ref)
	}
	var view TextureView
	if ok {
		view = img.View()
	}
	if view == nil {
		return errors.Wrapf(ErrImageNotResident, "texture %d", a.ID)
	}
	bg, err := r.dev.CreateBindGroup(r.pipeline, view, r.sampler)
	if err != nil {
		return errors.Wrapf(err, "bind texture %d", a.ID)
	}
	if old, ok := r.bindings[a.ID]; ok {
		old.release()
	}
	r.bindings[a.ID] = binding{bg: bg, add: a}
	logger().Debug("texture bound", "id", a.ID)
	return nil
}

// rebuild runs the render side of a reconfiguration.
func (r *Renderer) rebuild(rb *guibridge.Rebuild) error {
	r.state = StateRebuilding
	// Laid out against the old atlas.
	r.pending = nil

	// Bind groups belong to the old pipeline, the font's included.
	r.unbind(func(gui.TextureID) bool { return true })

	p, err := r.pipelines.get(rb.Format)
	if err != nil {
		return err
	}
	s, err := r.samplers.get(GUISampler)
	if err != nil {
		return err
	}
	r.pipeline, r.sampler = p, s

	tex, err := r.dev.CreateTexture(rb.FontWidth, rb.FontHeight, rb.FontPixels)
	if err != nil {
		return errors.Wrap(err, "upload font atlas")
	}
	bg, err := r.dev.CreateBindGroup(p, tex.View(), s)
	if err != nil {
		tex.Release()
		return errors.Wrap(err, "bind font atlas")
	}
	if r.fontTexture != nil {
		r.fontTexture.Release()
	}
	r.fontTexture = tex
	r.fontID = rb.FontTexture
	r.bindings[rb.FontTexture] = binding{bg: bg}

	r.format = rb.Format
	r.scale = rb.Scale
	r.state = StateBound
	logger().Info("renderer bound",
		"format", guibridge.FormatName(rb.Format),
		"scale", rb.Scale,
		"atlas", [2]int{rb.FontWidth, rb.FontHeight})
	return nil
}

// Render paints the pending snapshot into pass and consumes it. Without a
// pending snapshot it draws nothing.
//
// The pass must have the bound format, and every texture the snapshot
// uses must be bound. Neither failure draws anything.
func (r *Renderer) Render(pass RenderPass) error {
	snap := r.pending
	r.pending = nil
	if snap == nil || snap.Empty() {
		return nil
	}
	if r.state != StateBound {
		return errors.Wrapf(ErrNotBound, "render frame %d in state %s", snap.Frame(), r.state)
	}
	if pass.Format() != r.format {
		return errors.Wrapf(ErrFormatMismatch, "pass is %s, renderer is %s",
			guibridge.FormatName(pass.Format()), guibridge.FormatName(r.format))
	}
	for _, id := range snap.Textures() {
		if _, ok := r.bindings[id]; !ok {
			return errors.Wrapf(ErrUnboundTexture, "frame %d uses texture %d", snap.Frame(), id)
		}
	}

	dd := snap.DrawData()
	fbW, fbH := pass.Size()
	scale := dd.FramebufferScale
	if scale.X <= 0 || scale.Y <= 0 {
		scale = gui.Vec2{X: 1, Y: 1}
	}

	pass.SetPipeline(r.pipeline)
	pass.SetProjection(Projection(dd.DisplaySize))
	for _, dl := range dd.Lists {
		if len(dl.IdxBuffer) == 0 {
			continue
		}
		if err := pass.UploadGeometry(dl.VtxBuffer, dl.IdxBuffer); err != nil {
			return errors.Wrap(err, "upload geometry")
		}
		for _, cmd := range dl.CmdBuffer {
			if cmd.ElemCount == 0 {
				continue
			}
			x, y, w, h, ok := scissor(cmd.ClipRect, scale, fbW, fbH)
			if !ok {
				continue
			}
			pass.SetBindGroup(r.bindings[cmd.TextureID].bg)
			pass.SetScissorRect(x, y, w, h)
			pass.DrawIndexed(cmd.ElemCount, cmd.IndexOffset, int32(cmd.VertexOffset))
		}
	}
	return nil
}

// scissor converts a logical clip rect to framebuffer pixels and clamps it
// to the attachment. ok is false when nothing is left.
func scissor(clip [4]float32, scale gui.Vec2, fbW, fbH int) (x, y, w, h uint32, ok bool) {
	x0 := max(clip[0]*scale.X, 0)
	y0 := max(clip[1]*scale.Y, 0)
	x1 := min(clip[2]*scale.X, float32(fbW))
	y1 := min(clip[3]*scale.Y, float32(fbH))
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, 0, false
	}
	return uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0), true
}

// Projection maps logical pixels with a top-left origin to clip space.
func Projection(displaySize gui.Vec2) mgl32.Mat4 {
	return mgl32.Ortho2D(0, displaySize.X, displaySize.Y, 0)
}

// State returns the configuration state.
func (r *Renderer) State() State {
	return r.state
}

// Format is the color format the renderer draws into.
func (r *Renderer) Format() gputypes.TextureFormat {
	return r.format
}

// Scale is the display scale of the last rebuild.
func (r *Renderer) Scale() float32 {
	return r.scale
}

// FontTexture is the handle the font atlas is bound under.
func (r *Renderer) FontTexture() gui.TextureID {
	return r.fontID
}

// Bound reports whether a handle has a binding.
func (r *Renderer) Bound(id gui.TextureID) bool {
	_, ok := r.bindings[id]
	return ok
}

// BindingCount returns the number of bindings, the font's included.
func (r *Renderer) BindingCount() int {
	return len(r.bindings)
}

// HasPending reports whether a snapshot waits for Render.
func (r *Renderer) HasPending() bool {
	return r.pending != nil
}

// Close releases every device object the renderer created.
func (r *Renderer) Close() {
	r.unbind(func(gui.TextureID) bool { return true })
	if r.fontTexture != nil {
		r.fontTexture.Release()
		r.fontTexture = nil
	}
	r.pipelines.purge()
	r.samplers.purge()
	r.pipeline = nil
	r.sampler = nil
	r.pending = nil
	r.state = StateUnbound
}
