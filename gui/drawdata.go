package gui

// DrawData is everything a renderer needs to paint one finished frame.
type DrawData struct {
	Lists            []*DrawList
	DisplaySize      Vec2
	FramebufferScale Vec2
}

// TotalVtxCount returns the number of vertices across all lists.
func (d *DrawData) TotalVtxCount() int {
	n := 0
	for _, dl := range d.Lists {
		n += len(dl.VtxBuffer)
	}
	return n
}

// TotalIdxCount returns the number of indices across all lists.
func (d *DrawData) TotalIdxCount() int {
	n := 0
	for _, dl := range d.Lists {
		n += len(dl.IdxBuffer)
	}
	return n
}

// Textures returns the distinct texture handles referenced by the frame,
// in order of first use.
func (d *DrawData) Textures() []TextureID {
	seen := make(map[TextureID]struct{})
	var out []TextureID
	for _, dl := range d.Lists {
		for _, cmd := range dl.CmdBuffer {
			if _, ok := seen[cmd.TextureID]; ok {
				continue
			}
			seen[cmd.TextureID] = struct{}{}
			out = append(out, cmd.TextureID)
		}
	}
	return out
}

// Clone returns a deep copy that stays valid after the source lists
// go back to the pool.
func (d *DrawData) Clone() *DrawData {
	c := &DrawData{
		Lists:            make([]*DrawList, len(d.Lists)),
		DisplaySize:      d.DisplaySize,
		FramebufferScale: d.FramebufferScale,
	}
	for i, dl := range d.Lists {
		c.Lists[i] = dl.Clone()
	}
	return c
}
