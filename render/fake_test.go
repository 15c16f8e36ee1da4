package render_test

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/gui"
	"github.com/go-theft-auto/guibridge/render"
)

type fakeView struct{ w, h int }

func (v *fakeView) Size() (int, int) { return v.w, v.h }

type fakeTexture struct {
	dev  *fakeDevice
	view *fakeView
}

func (t *fakeTexture) View() render.TextureView { return t.view }
func (t *fakeTexture) Release() {
	t.dev.live--
	t.dev.texturesReleased++
}

type fakePipeline struct {
	dev    *fakeDevice
	format gputypes.TextureFormat
}

func (p *fakePipeline) Format() gputypes.TextureFormat { return p.format }
func (p *fakePipeline) Release()                       { p.dev.live-- }

type fakeSampler struct {
	dev  *fakeDevice
	desc render.SamplerDescriptor
}

func (s *fakeSampler) Release() { s.dev.live-- }

type fakeBindGroup struct {
	dev  *fakeDevice
	view render.TextureView
}

func (b *fakeBindGroup) Release() { b.dev.live-- }

type draw struct {
	bind    *fakeBindGroup
	scissor [4]uint32
	count   uint32
	first   uint32
	base    int32
}

type fakePass struct {
	desc     render.RenderPassDescriptor
	w, h     int
	pipeline render.Pipeline
	proj     mgl32.Mat4
	uploads  int
	bind     *fakeBindGroup
	scissor  [4]uint32
	draws    []draw
	ended    bool
}

func (p *fakePass) Format() gputypes.TextureFormat { return p.desc.Format }
func (p *fakePass) Size() (int, int)               { return p.w, p.h }
func (p *fakePass) SetPipeline(pl render.Pipeline) { p.pipeline = pl }
func (p *fakePass) SetProjection(m mgl32.Mat4)     { p.proj = m }
func (p *fakePass) UploadGeometry(vtx []gui.Vertex, idx []uint16) error {
	p.uploads++
	return nil
}
func (p *fakePass) SetBindGroup(bg render.BindGroup) { p.bind = bg.(*fakeBindGroup) }
func (p *fakePass) SetScissorRect(x, y, w, h uint32) { p.scissor = [4]uint32{x, y, w, h} }
func (p *fakePass) DrawIndexed(count, first uint32, base int32) {
	p.draws = append(p.draws, draw{bind: p.bind, scissor: p.scissor, count: count, first: first, base: base})
}
func (p *fakePass) End() error {
	p.ended = true
	return nil
}

// fakeDevice records object creation. live counts unreleased objects.
type fakeDevice struct {
	live      int
	pipelines []gputypes.TextureFormat
	samplers  []render.SamplerDescriptor
	textures  int
	passes    []*fakePass
	passSize  [2]int

	texturesReleased int
	// onTexture runs inside CreateTexture.
	onTexture func()
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{passSize: [2]int{800, 600}}
}

func (d *fakeDevice) CreatePipeline(format gputypes.TextureFormat) (render.Pipeline, error) {
	d.live++
	d.pipelines = append(d.pipelines, format)
	return &fakePipeline{dev: d, format: format}, nil
}

func (d *fakeDevice) CreateSampler(desc render.SamplerDescriptor) (render.Sampler, error) {
	d.live++
	d.samplers = append(d.samplers, desc)
	return &fakeSampler{dev: d, desc: desc}, nil
}

func (d *fakeDevice) CreateTexture(w, h int, rgba []byte) (render.Texture, error) {
	d.live++
	d.textures++
	if d.onTexture != nil {
		d.onTexture()
	}
	return &fakeTexture{dev: d, view: &fakeView{w, h}}, nil
}

func (d *fakeDevice) CreateBindGroup(p render.Pipeline, view render.TextureView, s render.Sampler) (render.BindGroup, error) {
	d.live++
	return &fakeBindGroup{dev: d, view: view}, nil
}

func (d *fakeDevice) BeginRenderPass(desc render.RenderPassDescriptor) (render.RenderPass, error) {
	p := &fakePass{desc: desc, w: d.passSize[0], h: d.passSize[1]}
	d.passes = append(d.passes, p)
	return p, nil
}

func (d *fakeDevice) pass(format gputypes.TextureFormat) *fakePass {
	return &fakePass{desc: render.RenderPassDescriptor{Format: format}, w: d.passSize[0], h: d.passSize[1]}
}

// fakeImage is a host image with a GPU texture behind it once loaded.
type fakeImage struct {
	view   *fakeView
	loaded bool
}

func (i *fakeImage) Strong() bool { return true }

type fakeAssets struct{}

func (fakeAssets) GPUImage(ref guibridge.ImageRef) (render.GPUImage, bool) {
	img, ok := ref.(*fakeImage)
	if !ok || !img.loaded {
		return nil, false
	}
	return imageView{img.view}, true
}

type imageView struct{ v *fakeView }

func (i imageView) View() render.TextureView { return i.v }

type fakeWindow struct {
	view   render.TextureView
	format gputypes.TextureFormat
}

func (w *fakeWindow) SwapchainView() (render.TextureView, bool) { return w.view, w.view != nil }
func (w *fakeWindow) SwapchainFormat() gputypes.TextureFormat   { return w.format }

type fakeRenderContext struct {
	dev    *fakeDevice
	window *fakeWindow
}

func (rc *fakeRenderContext) PrimaryWindow() (render.Window, bool) {
	if rc.window == nil {
		return nil, false
	}
	return rc.window, true
}

func (rc *fakeRenderContext) Device() render.Device { return rc.dev }
