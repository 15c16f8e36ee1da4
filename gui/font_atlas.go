package gui

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// FontConfig describes how the atlas rasterizes its font.
type FontConfig struct {
	// SizePixels is the nominal glyph size in texels.
	SizePixels float32

	// OversampleH and OversampleV store glyphs at a higher resolution than
	// their nominal size. The GPU's bilinear filter resolves the extra
	// texels, which keeps small or scaled text crisp.
	OversampleH int
	OversampleV int

	// TTF is the font file. Nil selects the built-in Go Regular face.
	TTF []byte
}

const (
	// atlasWidth is the minimum width. Glyphs wider than a row widen it.
	atlasWidth   = 512
	atlasPadding = 1
	whiteBlock   = 3
)

// glyphRanges lists the code points baked into the atlas: printable ASCII
// plus Latin-1 supplement.
var glyphRanges = [][2]rune{{0x20, 0x7E}, {0xA0, 0xFF}}

type glyph struct {
	x0, y0, x1, y1 float32 // quad relative to the line's top-left, nominal pixels
	u0, v0, u1, v1 float32
	advance        float32
	visible        bool
}

// FontAtlas rasterizes a TrueType font into a single alpha texture and
// implements Font on top of it.
//
// The atlas has no GPU state of its own. Hosts upload TexDataRGBA32 under
// TextureID after every Build.
type FontAtlas struct {
	cfg        FontConfig
	textureID  TextureID
	pixels     *image.Alpha
	glyphs     map[rune]*glyph
	fallback   *glyph
	ascent     float32
	lineHeight float32
	whiteUV    [2]float32
	generation uint64
}

// NewFontAtlas creates an empty atlas. Call Build before drawing text.
func NewFontAtlas() *FontAtlas {
	return &FontAtlas{glyphs: make(map[rune]*glyph)}
}

// Clear drops every glyph and the pixel data. The texture handle is kept.
func (a *FontAtlas) Clear() {
	a.pixels = nil
	a.fallback = nil
	clear(a.glyphs)
	a.ascent = 0
	a.lineHeight = 0
}

// Build rasterizes the configured font into a fresh atlas.
// The previous contents are discarded.
func (a *FontAtlas) Build(cfg FontConfig) error {
	if cfg.SizePixels <= 0 {
		return fmt.Errorf("font atlas: invalid size %v", cfg.SizePixels)
	}
	cfg.OversampleH = max(cfg.OversampleH, 1)
	cfg.OversampleV = max(cfg.OversampleV, 1)
	ttf := cfg.TTF
	if ttf == nil {
		ttf = goregular.TTF
	}

	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("font atlas: parse: %w", err)
	}
	ovH, ovV := float64(cfg.OversampleH), float64(cfg.OversampleV)
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(cfg.SizePixels) * ovV,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("font atlas: face: %w", err)
	}
	defer face.Close()

	a.Clear()
	a.cfg = cfg

	metrics := face.Metrics()
	a.ascent = float32(fixedToFloat(metrics.Ascent) / ovV)
	a.lineHeight = float32(math.Ceil(fixedToFloat(metrics.Height) / ovV))

	type raster struct {
		r       rune
		mask    image.Image
		src     image.Rectangle
		bounds  image.Rectangle // relative to the baseline origin, hi-res pixels
		advance fixed.Int26_6
		w, h    int // size in the atlas
	}
	var rasters []raster
	for _, rng := range glyphRanges {
		for r := rng[0]; r <= rng[1]; r++ {
			dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
			if !ok {
				continue
			}
			rs := raster{r: r, advance: advance, bounds: dr}
			if !dr.Empty() {
				// Faces reuse their mask buffer between calls.
				cp := image.NewAlpha(image.Rectangle{Max: dr.Size()})
				draw.Draw(cp, cp.Bounds(), mask, maskp, draw.Src)
				rs.mask = cp
				rs.src = cp.Bounds()
				rs.w = int(math.Ceil(float64(dr.Dx()) * ovH / ovV))
				rs.h = dr.Dy()
			}
			rasters = append(rasters, rs)
		}
	}

	width := atlasWidth
	for _, rs := range rasters {
		width = max(width, nextPow2(rs.w+atlasPadding))
	}

	// Shelf packing, white block first.
	x, y, rowH := whiteBlock+atlasPadding, 0, whiteBlock
	type slot struct{ x, y int }
	slots := make([]slot, len(rasters))
	for i, rs := range rasters {
		if rs.mask == nil {
			continue
		}
		if x+rs.w+atlasPadding > width {
			x = 0
			y += rowH + atlasPadding
			rowH = 0
		}
		slots[i] = slot{x, y}
		x += rs.w + atlasPadding
		rowH = max(rowH, rs.h)
	}
	height := nextPow2(y + rowH + atlasPadding)

	a.pixels = image.NewAlpha(image.Rect(0, 0, width, height))
	draw.Draw(a.pixels, image.Rect(0, 0, whiteBlock, whiteBlock), image.Opaque, image.Point{}, draw.Src)
	a.whiteUV = [2]float32{
		(whiteBlock / 2.0) / float32(width),
		(whiteBlock / 2.0) / float32(height),
	}

	tw, th := float32(width), float32(height)
	for i, rs := range rasters {
		g := &glyph{advance: float32(fixedToFloat(rs.advance) / ovV)}
		if rs.mask != nil {
			s := slots[i]
			dst := image.Rect(s.x, s.y, s.x+rs.w, s.y+rs.h)
			if rs.w == rs.src.Dx() {
				draw.Draw(a.pixels, dst, rs.mask, rs.src.Min, draw.Src)
			} else {
				draw.BiLinear.Scale(a.pixels, dst, rs.mask, rs.src, draw.Src, nil)
			}
			g.visible = true
			g.x0 = float32(float64(rs.bounds.Min.X) / ovV)
			g.x1 = float32(float64(rs.bounds.Max.X) / ovV)
			g.y0 = a.ascent + float32(float64(rs.bounds.Min.Y)/ovV)
			g.y1 = a.ascent + float32(float64(rs.bounds.Max.Y)/ovV)
			g.u0, g.v0 = float32(dst.Min.X)/tw, float32(dst.Min.Y)/th
			g.u1, g.v1 = float32(dst.Max.X)/tw, float32(dst.Max.Y)/th
		}
		a.glyphs[rs.r] = g
	}
	a.fallback = a.glyphs['?']
	a.generation++

	logger().Debug("font atlas built",
		"size", cfg.SizePixels,
		"oversample", [2]int{cfg.OversampleH, cfg.OversampleV},
		"glyphs", len(a.glyphs),
		"texture", [2]int{width, height})
	return nil
}

// Built reports whether the atlas currently holds glyphs.
func (a *FontAtlas) Built() bool {
	return a.pixels != nil
}

// Config returns the configuration of the last successful Build.
func (a *FontAtlas) Config() FontConfig {
	return a.cfg
}

// Generation increments on every successful Build.
func (a *FontAtlas) Generation() uint64 {
	return a.generation
}

// SetTextureID assigns the handle draw commands use for this atlas.
func (a *FontAtlas) SetTextureID(id TextureID) {
	a.textureID = id
}

// TextureID implements Font.
func (a *FontAtlas) TextureID() TextureID {
	return a.textureID
}

// TexDataRGBA32 returns the atlas as straight-alpha RGBA with white color
// channels, the layout every backend uploads.
func (a *FontAtlas) TexDataRGBA32() (pixels []byte, width, height int) {
	if a.pixels == nil {
		return nil, 0, 0
	}
	b := a.pixels.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*4)
	for _, alpha := range a.pixels.Pix {
		out = append(out, 0xFF, 0xFF, 0xFF, alpha)
	}
	return out, b.Dx(), b.Dy()
}

// HasGlyph implements Font.
func (a *FontAtlas) HasGlyph(r rune) bool {
	_, ok := a.glyphs[r]
	return ok
}

func (a *FontAtlas) lookup(r rune) *glyph {
	if g, ok := a.glyphs[r]; ok {
		return g
	}
	if g, ok := a.glyphs[unicodeFallback(r)]; ok {
		return g
	}
	return a.fallback
}

// MeasureText implements Font.
func (a *FontAtlas) MeasureText(text string, scale float32) Vec2 {
	text = composed(text)
	var w float32
	for _, r := range text {
		if g := a.lookup(r); g != nil {
			w += g.advance
		}
	}
	return Vec2{X: w * scale, Y: a.lineHeight * scale}
}

// AppendGlyphQuads implements Font.
func (a *FontAtlas) AppendGlyphQuads(dst []GlyphQuad, text string, x, y, scale float32) []GlyphQuad {
	if text == "" {
		return dst
	}
	text = composed(text)
	pen := x
	for _, r := range text {
		g := a.lookup(r)
		if g == nil {
			continue
		}
		if g.visible {
			dst = append(dst, GlyphQuad{
				X0: pen + g.x0*scale, Y0: y + g.y0*scale,
				X1: pen + g.x1*scale, Y1: y + g.y1*scale,
				U0: g.u0, V0: g.v0, U1: g.u1, V1: g.v1,
			})
		}
		pen += g.advance * scale
	}
	return dst
}

// LineHeight implements Font.
func (a *FontAtlas) LineHeight(scale float32) float32 {
	return a.lineHeight * scale
}

// WhitePixel implements Font.
func (a *FontAtlas) WhitePixel() [2]float32 {
	return a.whiteUV
}

// unicodeFallback maps common Unicode symbols to ASCII equivalents
// for glyphs outside the baked ranges.
func unicodeFallback(r rune) rune {
	switch r {
	case '►', '▶', '▸', '→', '⯈':
		return '>'
	case '◄', '◀', '◂', '←', '⯇':
		return '<'
	case '▼', '▾', '↓':
		return 'v'
	case '▲', '▴', '↑':
		return '^'
	case '●', '•', '◆':
		return '*'
	case '✓', '✔':
		return '+'
	case '✗', '✘':
		return 'x'
	case '—', '–':
		return '-'
	default:
		return r
	}
}

// composed folds combining sequences into precomposed runes, which is the
// only form the atlas bakes.
func composed(text string) string {
	if norm.NFC.IsNormalString(text) {
		return text
	}
	return norm.NFC.String(text)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

var _ Font = (*FontAtlas)(nil)
