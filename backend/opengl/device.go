// Package opengl provides an OpenGL 4.1 backend for the GUI bridge: a
// render.Device and a GLFW host.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/go-theft-auto/guibridge"
	"github.com/go-theft-auto/guibridge/gui"
	"github.com/go-theft-auto/guibridge/render"
)

// Vertex shader source
const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

out vec2 TexCoord;
out vec4 Color;

uniform mat4 projection;

void main() {
    gl_Position = projection * vec4(aPos, 0.0, 1.0);
    TexCoord = aTexCoord;
    Color = aColor;
}
` + "\x00"

// Fragment shader source.
// Every GUI texture is RGBA. The font atlas stores coverage in alpha with
// white color channels, so text and images share one path.
const fragmentShaderSource = `
#version 410 core
in vec2 TexCoord;
in vec4 Color;

out vec4 FragColor;

uniform sampler2D guiTexture;

void main() {
    FragColor = texture(guiTexture, TexCoord) * Color;
}
` + "\x00"

// Vertex layout: Pos (2 floats) + TexCoord (2 floats) + Color (1 uint32)
const vertexSize = int(unsafe.Sizeof(gui.Vertex{}))

// Device implements render.Device on the current OpenGL context.
// All methods must run on the goroutine that owns the context.
type Device struct{}

// NewDevice returns a device for the current context. gl.Init must have
// been called.
func NewDevice() *Device {
	return &Device{}
}

type pipeline struct {
	format   gputypes.TextureFormat
	shader   uint32
	vao, vbo uint32
	ebo      uint32
	projLoc  int32
	texLoc   int32
}

func (p *pipeline) Format() gputypes.TextureFormat { return p.format }

func (p *pipeline) Release() {
	if p.ebo != 0 {
		gl.DeleteBuffers(1, &p.ebo)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.shader != 0 {
		gl.DeleteProgram(p.shader)
	}
	*p = pipeline{format: p.format}
}

// CreatePipeline compiles the GUI program and its vertex layout.
// GL programs do not depend on the attachment format; the pass handles
// sRGB encoding instead.
func (d *Device) CreatePipeline(format gputypes.TextureFormat) (render.Pipeline, error) {
	p := &pipeline{format: format}

	var err error
	p.shader, err = createShaderProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader: %w", err)
	}
	p.projLoc = gl.GetUniformLocation(p.shader, gl.Str("projection\x00"))
	p.texLoc = gl.GetUniformLocation(p.shader, gl.Str("guiTexture\x00"))

	var lastVertexArray, lastArrayBuffer int32
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &lastVertexArray)
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &lastArrayBuffer)

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.GenBuffers(1, &p.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, p.ebo)

	stride := int32(vertexSize)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, unsafe.Offsetof(gui.Vertex{}.TexCoord))
	gl.EnableVertexAttribArray(1)

	// Color attribute (normalized uint8x4)
	gl.VertexAttribPointerWithOffset(2, 4, gl.UNSIGNED_BYTE, true, stride, unsafe.Offsetof(gui.Vertex{}.Color))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(uint32(lastVertexArray))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(lastArrayBuffer))

	logger().Debug("pipeline created", "format", guibridge.FormatName(format), "program", p.shader)
	return p, nil
}

type sampler struct {
	id uint32
}

func (s *sampler) Release() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

// CreateSampler makes a sampler object. Textures have a single level, so
// the mipmap filter is ignored.
func (d *Device) CreateSampler(desc render.SamplerDescriptor) (render.Sampler, error) {
	s := &sampler{}
	gl.GenSamplers(1, &s.id)
	if s.id == 0 {
		return nil, fmt.Errorf("failed to create sampler")
	}
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, glWrap(desc.AddressModeU))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, glWrap(desc.AddressModeV))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_R, glWrap(desc.AddressModeW))
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	return s, nil
}

func glWrap(m gputypes.AddressMode) int32 {
	if m == gputypes.AddressModeRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func glFilter(f gputypes.FilterMode) int32 {
	if f == gputypes.FilterModeNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

// textureView is a 2D texture. It doubles as an offscreen attachment.
type textureView struct {
	id            uint32
	width, height int
}

func (v *textureView) Size() (int, int) { return v.width, v.height }

type texture struct {
	view *textureView
}

func (t *texture) View() render.TextureView { return t.view }

func (t *texture) Release() {
	if t.view.id != 0 {
		gl.DeleteTextures(1, &t.view.id)
		t.view.id = 0
	}
}

// CreateTexture allocates an RGBA8 texture and uploads rgba when given.
func (d *Device) CreateTexture(width, height int, rgba []byte) (render.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if rgba != nil && len(rgba) < width*height*4 {
		return nil, fmt.Errorf("texture %dx%d needs %d bytes, got %d", width, height, width*height*4, len(rgba))
	}

	var lastTexture int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &lastTexture)

	v := &textureView{width: width, height: height}
	gl.GenTextures(1, &v.id)
	gl.BindTexture(gl.TEXTURE_2D, v.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var ptr unsafe.Pointer
	if rgba != nil {
		ptr = gl.Ptr(rgba)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	gl.BindTexture(gl.TEXTURE_2D, uint32(lastTexture))

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &v.id)
		return nil, fmt.Errorf("texture upload failed: gl error 0x%x", code)
	}
	return &texture{view: v}, nil
}

// ReadTexture reads back a texture created by this device as RGBA rows,
// bottom row first.
func (d *Device) ReadTexture(view render.TextureView) ([]byte, error) {
	tv, ok := view.(*textureView)
	if !ok || tv.id == 0 {
		return nil, fmt.Errorf("cannot read %T", view)
	}
	var last int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &last)
	defer gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(last))

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	defer gl.DeleteFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tv.id, 0)
	if status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("read framebuffer incomplete: 0x%x", status)
	}

	pixels := make([]byte, tv.width*tv.height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(tv.width), int32(tv.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, nil
}

type bindGroup struct {
	tex     uint32
	sampler uint32
}

func (b *bindGroup) Release() {
	*b = bindGroup{}
}

// CreateBindGroup pairs a texture with a sampler. GL has no object for
// this; the group only records the names.
func (d *Device) CreateBindGroup(p render.Pipeline, view render.TextureView, s render.Sampler) (render.BindGroup, error) {
	if _, ok := p.(*pipeline); !ok {
		return nil, fmt.Errorf("foreign pipeline %T", p)
	}
	tv, ok := view.(*textureView)
	if !ok {
		return nil, fmt.Errorf("cannot sample %T", view)
	}
	gs, ok := s.(*sampler)
	if !ok {
		return nil, fmt.Errorf("foreign sampler %T", s)
	}
	return &bindGroup{tex: tv.id, sampler: gs.id}, nil
}

// createShaderProgram compiles and links a shader program.
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, fmt.Errorf("vertex shader compilation failed: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return 0, fmt.Errorf("fragment shader compilation failed: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader program linking failed: %s", string(log))
	}
	return program, nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", string(log))
	}
	return shader, nil
}

var (
	_ render.Device    = (*Device)(nil)
	_ render.Pipeline  = (*pipeline)(nil)
	_ render.Texture   = (*texture)(nil)
	_ render.Sampler   = (*sampler)(nil)
	_ render.BindGroup = (*bindGroup)(nil)

)
