package gui

import (
	"math"
	"slices"
	"sync"
)

var drawListPool = sync.Pool{
	New: func() any {
		return &DrawList{
			VtxBuffer: make([]Vertex, 0, 1024),
			IdxBuffer: make([]uint16, 0, 2048),
			CmdBuffer: make([]DrawCmd, 0, 16),
			clipStack: make([][4]float32, 0, 8),
		}
	},
}

// AcquireDrawList gets a cleared DrawList from the pool.
func AcquireDrawList() *DrawList {
	dl := drawListPool.Get().(*DrawList)
	dl.Clear()
	return dl
}

// ReleaseDrawList returns a DrawList to the pool.
// The list must not be referenced after this call; use Clone to keep a copy.
func ReleaseDrawList(dl *DrawList) {
	if dl != nil {
		drawListPool.Put(dl)
	}
}

// noClip is the clip rectangle of a list with nothing pushed.
var noClip = [4]float32{-1e9, -1e9, 1e9, 1e9}

// DrawList accumulates one layer of a frame's geometry. A new command
// starts whenever the texture or the clip rectangle changes.
type DrawList struct {
	CmdBuffer []DrawCmd
	VtxBuffer []Vertex
	IdxBuffer []uint16

	clipStack [][4]float32
	clip      [4]float32
	texture   TextureID

	// Untextured primitives sample a white texel of the font atlas,
	// so every command references a real texture.
	defaultTexture TextureID
	whiteUV        [2]float32
}

// Clear resets the list and keeps its capacity.
func (dl *DrawList) Clear() {
	dl.CmdBuffer = dl.CmdBuffer[:0]
	dl.VtxBuffer = dl.VtxBuffer[:0]
	dl.IdxBuffer = dl.IdxBuffer[:0]
	dl.clipStack = dl.clipStack[:0]
	dl.clip = noClip
	dl.texture = dl.defaultTexture
}

// SetWhitePixel sets the texture and texel used for untextured primitives.
// It must be called before the first primitive of a frame.
func (dl *DrawList) SetWhitePixel(tex TextureID, uv [2]float32) {
	dl.defaultTexture = tex
	dl.whiteUV = uv
	if len(dl.CmdBuffer) == 0 {
		dl.texture = tex
	}
}

// PushClipRect restricts subsequent primitives to (x1,y1)-(x2,y2) in
// logical pixels. Nested rectangles are not intersected.
func (dl *DrawList) PushClipRect(x1, y1, x2, y2 float32) {
	dl.clipStack = append(dl.clipStack, dl.clip)
	dl.clip = [4]float32{x1, y1, x2, y2}
	dl.startCommand()
}

// PopClipRect restores the previous clip rectangle.
func (dl *DrawList) PopClipRect() {
	n := len(dl.clipStack)
	if n == 0 {
		return
	}
	dl.clip = dl.clipStack[n-1]
	dl.clipStack = dl.clipStack[:n-1]
	dl.startCommand()
}

// SetTexture sets the texture of subsequent primitives.
func (dl *DrawList) SetTexture(id TextureID) {
	if dl.texture == id {
		return
	}
	dl.texture = id
	dl.startCommand()
}

// current returns the open command, or nil before the first primitive.
func (dl *DrawList) current() *DrawCmd {
	if len(dl.CmdBuffer) == 0 {
		return nil
	}
	return &dl.CmdBuffer[len(dl.CmdBuffer)-1]
}

// closeCommand stores the element count of the open command.
func (dl *DrawList) closeCommand() {
	if cmd := dl.current(); cmd != nil {
		cmd.ElemCount = uint32(len(dl.IdxBuffer)) - cmd.IndexOffset
	}
}

// startCommand opens a command with the current texture and clip. An open
// command with no indices yet is reused.
func (dl *DrawList) startCommand() {
	dl.closeCommand()
	next := DrawCmd{
		ClipRect:     dl.clip,
		TextureID:    dl.texture,
		VertexOffset: uint32(len(dl.VtxBuffer)),
		IndexOffset:  uint32(len(dl.IdxBuffer)),
	}
	if cmd := dl.current(); cmd != nil && cmd.ElemCount == 0 {
		*cmd = next
		return
	}
	dl.CmdBuffer = append(dl.CmdBuffer, next)
}

// reserve makes room for n vertices in the open command and returns the
// index of the first one, relative to the command's vertex offset.
func (dl *DrawList) reserve(n int) uint16 {
	cmd := dl.current()
	if cmd == nil {
		dl.startCommand()
		cmd = dl.current()
	}
	// 16-bit indices: start a fresh command before they overflow.
	if len(dl.VtxBuffer)-int(cmd.VertexOffset)+n > math.MaxUint16 {
		dl.closeCommand()
		dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{
			ClipRect:     dl.clip,
			TextureID:    dl.texture,
			VertexOffset: uint32(len(dl.VtxBuffer)),
			IndexOffset:  uint32(len(dl.IdxBuffer)),
		})
		cmd = dl.current()
	}
	return uint16(len(dl.VtxBuffer) - int(cmd.VertexOffset))
}

func quad(x0, y0, x1, y1 float32, uv0, uv1 [2]float32, color uint32) [4]Vertex {
	return [4]Vertex{
		{Pos: [2]float32{x0, y0}, TexCoord: uv0, Color: color},
		{Pos: [2]float32{x1, y0}, TexCoord: [2]float32{uv1[0], uv0[1]}, Color: color},
		{Pos: [2]float32{x1, y1}, TexCoord: uv1, Color: color},
		{Pos: [2]float32{x0, y1}, TexCoord: [2]float32{uv0[0], uv1[1]}, Color: color},
	}
}

func (dl *DrawList) addQuadVerts(v [4]Vertex) {
	i := dl.reserve(4)
	dl.VtxBuffer = append(dl.VtxBuffer, v[:]...)
	dl.IdxBuffer = append(dl.IdxBuffer, i, i+1, i+2, i, i+2, i+3)
}

func transparent(color uint32) bool {
	return color&0xFF000000 == 0
}

// AddRect draws a filled rectangle.
func (dl *DrawList) AddRect(x, y, w, h float32, color uint32) {
	if transparent(color) {
		return
	}
	dl.addQuadVerts(quad(x, y, x+w, y+h, dl.whiteUV, dl.whiteUV, color))
}

// AddRectOutline draws a rectangle outline inside the rectangle's bounds.
func (dl *DrawList) AddRectOutline(x, y, w, h float32, color uint32, thickness float32) {
	if transparent(color) {
		return
	}
	inner := h - 2*thickness
	dl.AddRect(x, y, w, thickness, color)
	dl.AddRect(x, y+h-thickness, w, thickness, color)
	dl.AddRect(x, y+thickness, thickness, inner, color)
	dl.AddRect(x+w-thickness, y+thickness, thickness, inner, color)
}

// AddLine draws a line between two points as a quad of the given thickness.
func (dl *DrawList) AddLine(x1, y1, x2, y2 float32, color uint32, thickness float32) {
	if transparent(color) {
		return
	}
	dx, dy := x2-x1, y2-y1
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		length = 1
	}
	// Half-thickness normal.
	nx := -dy / length * thickness / 2
	ny := dx / length * thickness / 2

	uv := dl.whiteUV
	dl.addQuadVerts([4]Vertex{
		{Pos: [2]float32{x1 + nx, y1 + ny}, TexCoord: uv, Color: color},
		{Pos: [2]float32{x2 + nx, y2 + ny}, TexCoord: uv, Color: color},
		{Pos: [2]float32{x2 - nx, y2 - ny}, TexCoord: uv, Color: color},
		{Pos: [2]float32{x1 - nx, y1 - ny}, TexCoord: uv, Color: color},
	})
}

// AddTriangle draws a filled triangle.
func (dl *DrawList) AddTriangle(x1, y1, x2, y2, x3, y3 float32, color uint32) {
	if transparent(color) {
		return
	}
	uv := dl.whiteUV
	i := dl.reserve(3)
	dl.VtxBuffer = append(dl.VtxBuffer,
		Vertex{Pos: [2]float32{x1, y1}, TexCoord: uv, Color: color},
		Vertex{Pos: [2]float32{x2, y2}, TexCoord: uv, Color: color},
		Vertex{Pos: [2]float32{x3, y3}, TexCoord: uv, Color: color},
	)
	dl.IdxBuffer = append(dl.IdxBuffer, i, i+1, i+2)
}

// AddImage draws a textured rectangle using a registered texture handle.
// The list switches back to the default texture afterwards.
func (dl *DrawList) AddImage(tex TextureID, x, y, w, h float32, uv0, uv1 [2]float32, tint uint32) {
	if transparent(tint) || tex == NoTexture {
		return
	}
	dl.SetTexture(tex)
	dl.addQuadVerts(quad(x, y, x+w, y+h, uv0, uv1, tint))
	dl.SetTexture(dl.defaultTexture)
}

// GlyphQuad is one glyph's screen rectangle and atlas coordinates.
type GlyphQuad struct {
	X0, Y0 float32
	X1, Y1 float32
	U0, V0 float32
	U1, V1 float32
}

// AddGlyphQuads draws glyph quads in one color. The quads must reference
// the current texture.
func (dl *DrawList) AddGlyphQuads(quads []GlyphQuad, color uint32) {
	if transparent(color) {
		return
	}
	for _, q := range quads {
		dl.addQuadVerts(quad(q.X0, q.Y0, q.X1, q.Y1, [2]float32{q.U0, q.V0}, [2]float32{q.U1, q.V1}, color))
	}
}

// DrawMark is a position in a DrawList that geometry can later be
// inserted at.
type DrawMark struct {
	cmd  int
	vtx  uint32
	idx  uint32
	clip [4]float32
}

// Mark returns the current position. Geometry inserted there with
// InsertRect draws before everything added after the mark.
func (dl *DrawList) Mark() DrawMark {
	dl.startCommand()
	cmd := dl.current()
	return DrawMark{
		cmd:  len(dl.CmdBuffer) - 1,
		vtx:  cmd.VertexOffset,
		idx:  cmd.IndexOffset,
		clip: dl.clip,
	}
}

// InsertRect inserts a filled rectangle at m. Containers use it to draw a
// background once their content, and so their size, is known.
func (dl *DrawList) InsertRect(m DrawMark, x, y, w, h float32, color uint32) {
	if transparent(color) || m.cmd >= len(dl.CmdBuffer) {
		return
	}
	dl.closeCommand()

	v := quad(x, y, x+w, y+h, dl.whiteUV, dl.whiteUV, color)
	dl.VtxBuffer = slices.Insert(dl.VtxBuffer, int(m.vtx), v[:]...)
	dl.IdxBuffer = slices.Insert(dl.IdxBuffer, int(m.idx), 0, 1, 2, 0, 2, 3)

	// Indices are relative to VertexOffset, so only the offsets move.
	for i := m.cmd; i < len(dl.CmdBuffer); i++ {
		dl.CmdBuffer[i].VertexOffset += 4
		dl.CmdBuffer[i].IndexOffset += 6
	}
	dl.CmdBuffer = slices.Insert(dl.CmdBuffer, m.cmd, DrawCmd{
		ElemCount:    6,
		ClipRect:     m.clip,
		TextureID:    dl.defaultTexture,
		VertexOffset: m.vtx,
		IndexOffset:  m.idx,
	})
}

// Finalize closes the open command and drops empty ones. It must be
// called after the last primitive.
func (dl *DrawList) Finalize() {
	dl.closeCommand()
	dl.CmdBuffer = slices.DeleteFunc(dl.CmdBuffer, func(c DrawCmd) bool {
		return c.ElemCount == 0
	})
}

// Clone returns a deep copy of the list's buffers.
// The copy shares nothing with the pooled original.
func (dl *DrawList) Clone() *DrawList {
	return &DrawList{
		CmdBuffer:      slices.Clone(dl.CmdBuffer),
		VtxBuffer:      slices.Clone(dl.VtxBuffer),
		IdxBuffer:      slices.Clone(dl.IdxBuffer),
		clip:           dl.clip,
		texture:        dl.texture,
		defaultTexture: dl.defaultTexture,
		whiteUV:        dl.whiteUV,
	}
}
