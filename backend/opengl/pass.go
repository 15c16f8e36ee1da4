package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/go-theft-auto/guibridge/gui"
	"github.com/go-theft-auto/guibridge/render"
)

// surfaceView is the default framebuffer of a window.
type surfaceView struct {
	width, height int
}

func (v *surfaceView) Size() (int, int) { return v.width, v.height }

// glState is the context state a pass changes.
type glState struct {
	program       int32
	texture       int32
	sampler       int32
	activeTexture int32
	vertexArray   int32
	arrayBuffer   int32
	framebuffer   int32
	viewport      [4]int32
	scissorBox    [4]int32

	blendSrcRGB, blendDstRGB     int32
	blendSrcAlpha, blendDstAlpha int32
	blendEqRGB, blendEqAlpha     int32

	blend, depth, cull, scissor, srgb bool
}

func saveState() glState {
	var s glState
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.ACTIVE_TEXTURE, &s.activeTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &s.texture)
	gl.GetIntegerv(gl.SAMPLER_BINDING, &s.sampler)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &s.vertexArray)
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &s.arrayBuffer)
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &s.framebuffer)
	gl.GetIntegerv(gl.VIEWPORT, &s.viewport[0])
	gl.GetIntegerv(gl.SCISSOR_BOX, &s.scissorBox[0])
	gl.GetIntegerv(gl.BLEND_SRC_RGB, &s.blendSrcRGB)
	gl.GetIntegerv(gl.BLEND_DST_RGB, &s.blendDstRGB)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrcAlpha)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendDstAlpha)
	gl.GetIntegerv(gl.BLEND_EQUATION_RGB, &s.blendEqRGB)
	gl.GetIntegerv(gl.BLEND_EQUATION_ALPHA, &s.blendEqAlpha)
	s.blend = gl.IsEnabled(gl.BLEND)
	s.depth = gl.IsEnabled(gl.DEPTH_TEST)
	s.cull = gl.IsEnabled(gl.CULL_FACE)
	s.scissor = gl.IsEnabled(gl.SCISSOR_TEST)
	s.srgb = gl.IsEnabled(gl.FRAMEBUFFER_SRGB)
	return s
}

func (s glState) restore() {
	gl.UseProgram(uint32(s.program))
	gl.BindTexture(gl.TEXTURE_2D, uint32(s.texture))
	gl.BindSampler(0, uint32(s.sampler))
	gl.ActiveTexture(uint32(s.activeTexture))
	gl.BindVertexArray(uint32(s.vertexArray))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(s.arrayBuffer))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(s.framebuffer))
	gl.BlendEquationSeparate(uint32(s.blendEqRGB), uint32(s.blendEqAlpha))
	gl.BlendFuncSeparate(uint32(s.blendSrcRGB), uint32(s.blendDstRGB), uint32(s.blendSrcAlpha), uint32(s.blendDstAlpha))
	setEnabled(gl.BLEND, s.blend)
	setEnabled(gl.DEPTH_TEST, s.depth)
	setEnabled(gl.CULL_FACE, s.cull)
	setEnabled(gl.SCISSOR_TEST, s.scissor)
	setEnabled(gl.FRAMEBUFFER_SRGB, s.srgb)
	gl.Viewport(s.viewport[0], s.viewport[1], s.viewport[2], s.viewport[3])
	gl.Scissor(s.scissorBox[0], s.scissorBox[1], s.scissorBox[2], s.scissorBox[3])
}

func setEnabled(flag uint32, on bool) {
	if on {
		gl.Enable(flag)
	} else {
		gl.Disable(flag)
	}
}

// renderPass draws into the default framebuffer or into a texture through
// a temporary framebuffer object. Context state is restored on End.
type renderPass struct {
	format        gputypes.TextureFormat
	width, height int
	fbo           uint32
	saved         glState
	pipeline      *pipeline
	ended         bool
}

// BeginRenderPass binds the attachment and sets up blending, scissoring
// and the viewport.
func (d *Device) BeginRenderPass(desc render.RenderPassDescriptor) (render.RenderPass, error) {
	if desc.View == nil {
		return nil, fmt.Errorf("pass %q has no attachment", desc.Label)
	}
	p := &renderPass{format: desc.Format}
	p.width, p.height = desc.View.Size()
	if p.width <= 0 || p.height <= 0 {
		return nil, fmt.Errorf("pass %q has an empty attachment", desc.Label)
	}

	p.saved = saveState()
	switch v := desc.View.(type) {
	case *surfaceView:
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	case *textureView:
		gl.GenFramebuffers(1, &p.fbo)
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, p.fbo)
		gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, v.id, 0)
		if status := gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			p.release()
			return nil, fmt.Errorf("pass %q: framebuffer incomplete: 0x%x", desc.Label, status)
		}
	default:
		p.saved.restore()
		return nil, fmt.Errorf("pass %q: cannot draw into %T", desc.Label, desc.View)
	}

	gl.Viewport(0, 0, int32(p.width), int32(p.height))
	setEnabled(gl.FRAMEBUFFER_SRGB, isSRGB(desc.Format))
	if desc.LoadOp == gputypes.LoadOpClear {
		c := desc.ClearColor
		gl.Disable(gl.SCISSOR_TEST)
		gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}

	// Setup render state
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.ActiveTexture(gl.TEXTURE0)
	return p, nil
}

func isSRGB(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8UnormSrgb || f == gputypes.TextureFormatRGBA8UnormSrgb
}

func (p *renderPass) Format() gputypes.TextureFormat { return p.format }

func (p *renderPass) Size() (int, int) { return p.width, p.height }

func (p *renderPass) SetPipeline(rp render.Pipeline) {
	gp, ok := rp.(*pipeline)
	if !ok {
		return
	}
	p.pipeline = gp
	gl.UseProgram(gp.shader)
	gl.Uniform1i(gp.texLoc, 0)
	gl.BindVertexArray(gp.vao)
}

func (p *renderPass) SetProjection(m mgl32.Mat4) {
	if p.pipeline == nil {
		return
	}
	gl.UniformMatrix4fv(p.pipeline.projLoc, 1, false, &m[0])
}

func (p *renderPass) UploadGeometry(vtx []gui.Vertex, idx []uint16) error {
	if p.pipeline == nil {
		return fmt.Errorf("upload without a pipeline")
	}
	if len(vtx) == 0 || len(idx) == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, p.pipeline.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vtx)*vertexSize, gl.Ptr(vtx), gl.STREAM_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, p.pipeline.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idx)*2, gl.Ptr(idx), gl.STREAM_DRAW)
	return nil
}

func (p *renderPass) SetBindGroup(bg render.BindGroup) {
	g, ok := bg.(*bindGroup)
	if !ok {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, g.tex)
	gl.BindSampler(0, g.sampler)
}

// SetScissorRect flips Y: GL's window origin is bottom-left.
func (p *renderPass) SetScissorRect(x, y, width, height uint32) {
	gl.Scissor(int32(x), int32(p.height)-int32(y+height), int32(width), int32(height))
}

func (p *renderPass) DrawIndexed(indexCount, firstIndex uint32, baseVertex int32) {
	if p.pipeline == nil {
		return
	}
	gl.DrawElementsBaseVertexWithOffset(
		gl.TRIANGLES,
		int32(indexCount),
		gl.UNSIGNED_SHORT,
		uintptr(firstIndex)*2,
		baseVertex,
	)
}

// End restores the context and reports the first GL error the pass raised.
func (p *renderPass) End() error {
	if p.ended {
		return nil
	}
	p.ended = true
	code := gl.GetError()
	p.release()
	if code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func (p *renderPass) release() {
	p.saved.restore()
	if p.fbo != 0 {
		gl.DeleteFramebuffers(1, &p.fbo)
		p.fbo = 0
	}
}

var _ render.RenderPass = (*renderPass)(nil)
