package render

import (
	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"
)

// Node paints the GUI into the primary window's swapchain view. It keeps
// what the scene already drew there.
type Node struct {
	r *Renderer
}

// NewNode wraps a renderer as a graph node.
func NewNode(r *Renderer) *Node {
	return &Node{r: r}
}

// Run begins a load/store pass on the primary window and renders into it.
// A missing window, view or format skips the frame without error.
func (n *Node) Run(rc RenderContext) error {
	w, ok := rc.PrimaryWindow()
	if !ok {
		logger().Debug("gui pass skipped: no primary window")
		return nil
	}
	view, ok := w.SwapchainView()
	if !ok || view == nil {
		logger().Debug("gui pass skipped: no swapchain view")
		return nil
	}
	format := w.SwapchainFormat()
	if format == gputypes.TextureFormatUndefined {
		logger().Debug("gui pass skipped: no swapchain format")
		return nil
	}

	pass, err := rc.Device().BeginRenderPass(RenderPassDescriptor{
		Label:   "gui",
		View:    view,
		Format:  format,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	})
	if err != nil {
		return errors.Wrap(err, "begin gui pass")
	}
	rerr := n.r.Render(pass)
	if err := pass.End(); err != nil && rerr == nil {
		rerr = errors.Wrap(err, "end gui pass")
	}
	return rerr
}
