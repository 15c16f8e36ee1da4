// Package render paints guibridge snapshots on the render goroutine.
//
// A Renderer takes FramePackets from a guibridge.Mailbox through Prepare
// and draws the latest snapshot with Render. It is keyed by the target's
// color format and display scale. A packet carrying a Rebuild moves it
// from Bound through Rebuilding to Bound again, with a pipeline for the
// new format and the new font atlas.
//
// Device and RenderPass hide the graphics API; backend/opengl implements
// them. Node and Graph place the GUI pass after the main scene pass and
// before post-processing.
package render
