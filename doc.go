/*
Package guibridge connects the immediate-mode gui package to a renderer
that runs on its own goroutine.

The update goroutine owns a Context. Each frame it calls BeginFrame with
the host's input, draws widgets through the returned FrameSession and
calls EndFrame, which copies the frame's draw lists into a DrawSnapshot.
Between frames it calls Extract, which packs the latest snapshot and the
texture registry's pending changes into a FramePacket, and posts the
packet to a Mailbox:

	s, err := ctx.BeginFrame(in)
	if err != nil {
		return err
	}
	ui := s.UI()
	ui.Window("Stats", gui.Vec2{X: 10, Y: 10})(func() {
		ui.Text("hello")
	})
	if _, err := ctx.EndFrame(s); err != nil {
		return err
	}
	if p, ok, err := ctx.Extract(target); err != nil {
		return err
	} else if ok {
		mailbox.Post(p)
	}

The render goroutine takes packets from the Mailbox and hands them to a
render.Renderer.

# Textures

RegisterTexture hands out a handle for a host image. Handle 0 means no
texture and handle 1 is the font atlas, so the first registration gets 2.
Registrations and removals are queued and cross to the renderer exactly
once, removals first.

A queued add holds its own reference to a RetainedRef image until the
renderer drops the binding, so a host may Unregister and release an
image while an earlier packet is still on its way.

# Reconfiguration

When the swapchain format or the display scale changes, Extract rebakes
the font atlas for the new scale, rescales the style, queues every
registered texture again and attaches a Rebuild to the packet. The atlas
is only ever rebuilt there, while no frame is being built.

A frame laid out before a scale change points into the old atlas, so that
packet carries no snapshot and the GUI is missing for one frame. The same
holds for a packet that a rebuild was merged into. A format change alone
keeps the frame.
*/
package guibridge
