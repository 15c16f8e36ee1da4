package gui

import "math"

// smallButtonPadding is the padding of SmallButton.
const smallButtonPadding float32 = 2

// Style defines the visual appearance of UI elements.
type Style struct {
	TextColor         uint32
	TextDisabledColor uint32

	PanelColor           uint32
	PanelBorderColor     uint32
	PanelHeaderBgColor   uint32 // 0 = ButtonColor
	PanelHeaderTextColor uint32 // 0 = TextColor

	ButtonColor         uint32
	ButtonHoveredColor  uint32
	ButtonActiveColor   uint32
	ButtonDisabledColor uint32

	SelectedBgColor   uint32
	SelectedTextColor uint32
	HoveredBgColor    uint32

	InputBgColor        uint32
	InputFocusedBgColor uint32
	InputBorderColor    uint32

	SeparatorColor uint32

	// Sizes are logical pixels. ScaleAllSizes multiplies every field below.
	ItemSpacing   float32
	PanelPadding  float32
	ButtonPadding float32
	InputPadding  float32
	BorderSize    float32
	Rounding      float32
	ScrollbarSize float32
}

// ScaleAllSizes multiplies every size in the style by factor, rounding
// to whole pixels. Colors are untouched. Scaling by a then by 1/a restores
// the original values up to rounding.
func (s *Style) ScaleAllSizes(factor float32) {
	if factor <= 0 || factor == 1 {
		return
	}
	for _, v := range []*float32{
		&s.ItemSpacing, &s.PanelPadding, &s.ButtonPadding,
		&s.InputPadding, &s.Rounding, &s.ScrollbarSize,
	} {
		*v = float32(math.Round(float64(*v * factor)))
	}
	// Borders never vanish when scaling down.
	if s.BorderSize > 0 {
		s.BorderSize = maxf(1, float32(math.Round(float64(s.BorderSize*factor))))
	}
}

// DefaultStyle returns a translucent dark style.
func DefaultStyle() Style {
	return Style{
		TextColor:         ColorWhite,
		TextDisabledColor: ColorGray,

		PanelColor:         RGBA(20, 20, 20, 200),
		PanelBorderColor:   RGBA(80, 80, 80, 255),
		PanelHeaderBgColor: RGBA(40, 40, 45, 255),

		ButtonColor:         RGBA(50, 50, 50, 255),
		ButtonHoveredColor:  RGBA(70, 70, 70, 255),
		ButtonActiveColor:   RGBA(90, 90, 90, 255),
		ButtonDisabledColor: RGBA(30, 30, 30, 255),

		SelectedBgColor:   RGBA(50, 100, 150, 255),
		SelectedTextColor: ColorWhite,
		HoveredBgColor:    RGBA(60, 60, 60, 255),

		InputBgColor:        RGBA(30, 30, 30, 255),
		InputFocusedBgColor: RGBA(40, 40, 50, 255),
		InputBorderColor:    RGBA(100, 100, 100, 255),

		SeparatorColor: RGBA(80, 80, 80, 255),

		ItemSpacing:   4,
		PanelPadding:  8,
		ButtonPadding: 6,
		InputPadding:  4,
		BorderSize:    1,
		ScrollbarSize: 12,
	}
}

// DarkStyle returns DefaultStyle with opaque panels and a blue accent.
func DarkStyle() Style {
	s := DefaultStyle()
	s.PanelColor = RGBA(25, 25, 25, 240)
	s.PanelHeaderBgColor = RGBA(35, 35, 40, 255)
	s.ButtonColor = RGBA(45, 45, 45, 255)
	s.ButtonHoveredColor = RGBA(65, 65, 65, 255)
	s.SelectedBgColor = RGBA(65, 105, 225, 255)
	return s
}

// LightStyle returns a light theme.
func LightStyle() Style {
	s := DefaultStyle()
	s.TextColor = RGBA(20, 20, 20, 255)
	s.TextDisabledColor = RGBA(150, 150, 150, 255)
	s.PanelColor = RGBA(245, 245, 245, 250)
	s.PanelBorderColor = RGBA(200, 200, 200, 255)
	s.PanelHeaderBgColor = RGBA(220, 220, 225, 255)
	s.PanelHeaderTextColor = RGBA(40, 40, 40, 255)
	s.ButtonColor = RGBA(220, 220, 220, 255)
	s.ButtonHoveredColor = RGBA(200, 200, 200, 255)
	s.ButtonActiveColor = RGBA(180, 180, 180, 255)
	s.ButtonDisabledColor = RGBA(230, 230, 230, 255)
	s.SelectedBgColor = RGBA(0, 120, 215, 255)
	s.HoveredBgColor = RGBA(230, 230, 230, 255)
	s.InputBgColor = ColorWhite
	s.InputFocusedBgColor = ColorWhite
	s.InputBorderColor = RGBA(150, 150, 150, 255)
	s.SeparatorColor = RGBA(200, 200, 200, 255)
	return s
}

// Style returns the current style.
func (ctx *Context) Style() Style {
	return ctx.style
}

// SetStyle sets the base style.
func (ctx *Context) SetStyle(style Style) {
	ctx.style = style
}

// StyleRef returns the base style for in-place edits such as ScaleAllSizes.
func (ctx *Context) StyleRef() *Style {
	return &ctx.style
}

// PushStyle overrides the style until the matching PopStyle.
func (ctx *Context) PushStyle(style Style) {
	ctx.styleStack = append(ctx.styleStack, ctx.style)
	ctx.style = style
}

// PopStyle restores the style saved by the last PushStyle.
func (ctx *Context) PopStyle() {
	n := len(ctx.styleStack)
	if n == 0 {
		return
	}
	ctx.style = ctx.styleStack[n-1]
	ctx.styleStack = ctx.styleStack[:n-1]
}

// StyleColorField identifies a color field in Style for PushStyleColor.
type StyleColorField int

const (
	StyleColorText StyleColorField = iota
	StyleColorButton
	StyleColorButtonHovered
	StyleColorButtonActive
	StyleColorPanel
	StyleColorSelected
)

func (s *Style) color(f StyleColorField) *uint32 {
	switch f {
	case StyleColorText:
		return &s.TextColor
	case StyleColorButton:
		return &s.ButtonColor
	case StyleColorButtonHovered:
		return &s.ButtonHoveredColor
	case StyleColorButtonActive:
		return &s.ButtonActiveColor
	case StyleColorPanel:
		return &s.PanelColor
	case StyleColorSelected:
		return &s.SelectedBgColor
	}
	return nil
}

// PushStyleColor overrides a single color until the matching PopStyle.
func (ctx *Context) PushStyleColor(field StyleColorField, color uint32) {
	ctx.PushStyle(ctx.style)
	if c := ctx.style.color(field); c != nil {
		*c = color
	}
}
