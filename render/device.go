package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/gui"
)

// TextureView is a device texture as seen by bind groups and passes.
type TextureView interface {
	Size() (width, height int)
}

// Texture is a device texture the renderer owns.
type Texture interface {
	View() TextureView
	Release()
}

// Pipeline is a render pipeline for one color format.
type Pipeline interface {
	Format() gputypes.TextureFormat
	Release()
}

// Sampler is a device sampler.
type Sampler interface {
	Release()
}

// BindGroup binds one texture view and a sampler for a pipeline.
type BindGroup interface {
	Release()
}

// SamplerDescriptor selects sampler state. It is comparable and keys the
// sampler cache.
type SamplerDescriptor struct {
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	AddressModeW gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
}

// GUISampler is the sampler every GUI texture uses: UI images never tile.
var GUISampler = SamplerDescriptor{
	AddressModeU: gputypes.AddressModeClampToEdge,
	AddressModeV: gputypes.AddressModeClampToEdge,
	AddressModeW: gputypes.AddressModeClampToEdge,
	MagFilter:    gputypes.FilterModeLinear,
	MinFilter:    gputypes.FilterModeLinear,
	MipmapFilter: gputypes.FilterModeLinear,
}

// RenderPassDescriptor describes a single color attachment pass.
// There is never a depth attachment.
type RenderPassDescriptor struct {
	Label   string
	View    TextureView
	Format  gputypes.TextureFormat
	LoadOp  gputypes.LoadOp
	StoreOp gputypes.StoreOp
	// ClearColor applies when LoadOp is LoadOpClear.
	ClearColor gputypes.Color
}

// Device creates GPU objects. Implementations live in backend packages.
type Device interface {
	CreatePipeline(format gputypes.TextureFormat) (Pipeline, error)
	CreateSampler(desc SamplerDescriptor) (Sampler, error)
	// CreateTexture makes an RGBA8 texture. Nil pixels leave it uninitialized.
	CreateTexture(width, height int, rgba []byte) (Texture, error)
	CreateBindGroup(p Pipeline, view TextureView, s Sampler) (BindGroup, error)
	BeginRenderPass(desc RenderPassDescriptor) (RenderPass, error)
}

// RenderPass records GUI draws into one attachment.
type RenderPass interface {
	Format() gputypes.TextureFormat
	// Size is the attachment size in framebuffer pixels.
	Size() (width, height int)

	SetPipeline(p Pipeline)
	SetProjection(m mgl32.Mat4)
	// UploadGeometry replaces the pass's vertex and index buffers.
	UploadGeometry(vtx []gui.Vertex, idx []uint16) error
	SetBindGroup(bg BindGroup)
	// SetScissorRect takes framebuffer pixels with a top-left origin.
	SetScissorRect(x, y, width, height uint32)
	DrawIndexed(indexCount, firstIndex uint32, baseVertex int32)

	End() error
}

// GPUImage is the GPU-resident form of a host image.
type GPUImage interface {
	View() TextureView
}

// ImageAssets resolves host image references to their GPU form.
type ImageAssets interface {
	GPUImage(ref guibridge.ImageRef) (GPUImage, bool)
}

// Window is the host's primary window as the render goroutine sees it.
type Window interface {
	// SwapchainView is the view to draw into this frame.
	SwapchainView() (TextureView, bool)
	SwapchainFormat() gputypes.TextureFormat
}

// RenderContext is what graph nodes run against.
type RenderContext interface {
	PrimaryWindow() (Window, bool)
	Device() Device
}

// ResidentAssets resolves references that are their own GPU image, such as
// a TextureTarget. A freed target is not resident.
type ResidentAssets struct{}

// GPUImage implements ImageAssets.
func (ResidentAssets) GPUImage(ref guibridge.ImageRef) (GPUImage, bool) {
	img, ok := ref.(GPUImage)
	if !ok {
		return nil, false
	}
	if r, ok := img.(interface{ Resident() bool }); ok && !r.Resident() {
		return nil, false
	}
	return img, true
}
