package gui

import (
	"fmt"
	"math"
	"strings"
)

const (
	sliderWidth     = 150
	sliderGrabWidth = 12
)

// SliderFloat draws a horizontal slider for float32 values.
// Returns true if the value was changed.
//
// Usage:
//
//	if ctx.SliderFloat("Volume", &volume, 0, 1) {
//	    updateVolume(volume)
//	}
func (ctx *Context) SliderFloat(label string, value *float32, minVal, maxVal float32) bool {
	return ctx.slider(label, value, minVal, maxVal, 0, "%.2f")
}

// SliderInt draws a horizontal slider for int values.
func (ctx *Context) SliderInt(label string, value *int, minVal, maxVal int) bool {
	v := float32(*value)
	if !ctx.slider(label, &v, float32(minVal), float32(maxVal), 1, "%d") {
		return false
	}
	*value = int(v)
	return true
}

func (ctx *Context) slider(label string, value *float32, minVal, maxVal, step float32, format string) bool {
	pos := ctx.ItemPos()
	id := ctx.GetID(label)
	text := displayLabel(label)

	labelW := float32(0)
	if text != "" {
		labelW = ctx.MeasureText(text).X + ctx.style.ItemSpacing
		ctx.addText(pos.X, pos.Y, text, ctx.style.TextColor)
	}
	h := ctx.lineHeight()
	track := Rect{X: pos.X + labelW, Y: pos.Y, W: sliderWidth, H: h}
	it := ctx.interact(id, track)

	changed := false
	set := func(v float32) {
		if step > 0 {
			v = minVal + float32(math.Round(float64((v-minVal)/step)))*step
		}
		v = clampf(v, minVal, maxVal)
		if v != *value {
			*value = v
			changed = true
		}
	}
	if it.held {
		ratio := clampf((ctx.Input.MouseX-track.X-sliderGrabWidth/2)/(track.W-sliderGrabWidth), 0, 1)
		set(minVal + ratio*(maxVal-minVal))
	}
	if it.hovered && ctx.Input.MouseWheelY != 0 {
		wheel := step
		if wheel == 0 {
			wheel = (maxVal - minVal) / 100
		}
		set(*value + ctx.Input.MouseWheelY*wheel)
	}

	ratio := float32(0)
	if maxVal > minVal {
		ratio = (*value - minVal) / (maxVal - minVal)
	}
	barH := h / 2
	barY := pos.Y + (h-barH)/2
	ctx.DrawList.AddRect(track.X, barY, track.W, barH, ctx.style.InputBgColor)
	if fill := ratio * track.W; fill > 0 {
		ctx.DrawList.AddRect(track.X, barY, fill, barH, ctx.style.SelectedBgColor)
	}

	grab := ctx.style.ButtonColor
	switch {
	case it.held:
		grab = ctx.style.ButtonActiveColor
	case it.hovered:
		grab = ctx.style.ButtonHoveredColor
	}
	grabX := track.X + ratio*(track.W-sliderGrabWidth)
	ctx.DrawList.AddRect(grabX, pos.Y, sliderGrabWidth, h, grab)
	ctx.DrawList.AddRectOutline(grabX, pos.Y, sliderGrabWidth, h, ctx.style.InputBorderColor, 1)

	var valueText string
	if strings.Contains(format, "%d") {
		valueText = fmt.Sprintf(format, int(*value))
	} else {
		valueText = fmt.Sprintf(format, *value)
	}
	valueX := track.X + track.W + ctx.style.ItemSpacing
	ctx.addText(valueX, pos.Y, valueText, ctx.style.TextColor)

	ctx.advanceCursor(Vec2{valueX + ctx.MeasureText(valueText).X - pos.X, h})
	return changed
}
