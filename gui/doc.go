/*
Package gui provides an immediate-mode GUI library inspired by Dear ImGui,
designed as idiomatic Go with a dedicated Context type.

# Overview

The UI is rebuilt every frame. Widgets return interaction results directly;
there are no callbacks and no retained widget tree. A frame produces
DrawData: vertex, index and command buffers that reference textures by
TextureID. The package never talks to a GPU.

# Quick Start

	atlas := gui.NewFontAtlas()
	atlas.SetTextureID(1)
	if err := atlas.Build(gui.FontConfig{SizePixels: 13}); err != nil {
	    return err
	}
	ui := gui.New(gui.WithFont(atlas))

	for running {
	    in := ui.Input()
	    in.SetMousePos(x, y)
	    in.SetMouseButton(gui.MouseButtonLeft, down)

	    ctx := ui.Begin(gui.Vec2{X: 1280, Y: 720}, deltaTime)
	    ctx.Window("Menu", gui.Vec2{X: 10, Y: 10})(func() {
	        ctx.Text("Hello World")
	        if ctx.Button("Click Me") {
	            // Button was clicked
	        }
	    })
	    dd := ui.End()
	    upload(dd) // or dd.Clone() to keep it past Release
	    ui.Release()
	}

# Textures

TextureID 0 is NoTexture and never reaches a renderer. Text and every
untextured primitive draw with the font atlas's texture: rectangles and
lines sample the atlas's white texel, so a frame that shows no images
references exactly one texture. Image switches to the image's handle for
one quad and back.

The atlas is a single RGBA texture with white color channels and coverage
in alpha. Rebuild it with a larger SizePixels or oversampling for high-DPI
output and set Context.FontGlobalScale to the inverse of the size factor so
layout stays in logical pixels.

# Draw Lists

Draw lists come from a sync.Pool. The lists in a DrawData belong to the
pool until Release; DrawData.Clone makes an owned copy that can cross
goroutines. Indices are 16-bit and relative to DrawCmd.VertexOffset.

# Layout

Panels, windows and stacks take functional options:

	ctx.Panel("Settings", gui.Gap(8), gui.Padding(12))(func() {
	    ctx.HStack()(func() {
	        ctx.Text("Volume")
	        ctx.SliderFloat("##volume", &volume, 0, 1)
	    })
	    ctx.Separator()
	    ctx.Checkbox("Fullscreen", &fullscreen)
	})

Style sizes are logical pixels. Style.ScaleAllSizes rescales them when the
display scale changes.

# IDs

Widgets are identified by their label hashed with the ID stack. Text from
"##" on is part of the ID but never drawn, so "OK##save" and "OK##load"
are two buttons that both read "OK". PushID scopes labels in loops.

Widget state that is not touched for a while is dropped.

# Persistence

Window positions live in Settings, keyed by title. Load and Save read and
write YAML; a missing file is an empty store.
*/
package gui
