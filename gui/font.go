package gui

// Font is the interface for a single font that can render text.
// Implementations keep their glyphs in a texture atlas that the renderer
// binds under TextureID.
type Font interface {
	// TextureID returns the handle the atlas texture is registered under.
	TextureID() TextureID

	// HasGlyph returns true if the font has a glyph for the given rune.
	HasGlyph(r rune) bool

	// MeasureText returns the size of text at the given scale.
	MeasureText(text string, scale float32) Vec2

	// AppendGlyphQuads appends one quad per visible glyph of text, with the
	// top-left of the line at (x, y), and returns the extended slice.
	AppendGlyphQuads(dst []GlyphQuad, text string, x, y, scale float32) []GlyphQuad

	// LineHeight returns the line height at the specified scale.
	LineHeight(scale float32) float32

	// WhitePixel returns texture coordinates of an opaque white texel,
	// used for untextured primitives.
	WhitePixel() [2]float32
}
