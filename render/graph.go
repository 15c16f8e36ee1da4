package render

import (
	"github.com/pkg/errors"
)

// Standard labels of the host's 2-D and 3-D graphs.
const (
	LabelEndMainPass               = "end_main_pass"
	LabelEndMainPassPostProcessing = "end_main_pass_post_processing"
	LabelUpscaling                 = "upscaling"
	LabelGUI                       = "gui"
)

// Runner is a unit of render work.
type Runner interface {
	Run(rc RenderContext) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(rc RenderContext) error

// Run implements Runner.
func (f RunnerFunc) Run(rc RenderContext) error { return f(rc) }

// Graph is an ordered set of labelled nodes with "runs before" edges.
type Graph struct {
	labels []string
	nodes  map[string]Runner
	edges  map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]Runner),
		edges: make(map[string][]string),
	}
}

// AddNode adds a node under a unique label.
func (g *Graph) AddNode(label string, n Runner) error {
	if _, ok := g.nodes[label]; ok {
		return errors.Wrap(ErrDuplicateNode, label)
	}
	g.labels = append(g.labels, label)
	g.nodes[label] = n
	return nil
}

// Has reports whether a label is in the graph.
func (g *Graph) Has(label string) bool {
	_, ok := g.nodes[label]
	return ok
}

// AddEdge makes from run before to.
func (g *Graph) AddEdge(from, to string) error {
	for _, l := range []string{from, to} {
		if !g.Has(l) {
			return errors.Wrap(ErrUnknownNode, l)
		}
	}
	g.edges[from] = append(g.edges[from], to)
	return nil
}

// InsertGUI adds the GUI node after the main pass and before
// post-processing and upscaling, for whichever of those the graph has.
func InsertGUI(g *Graph, n Runner) error {
	if err := g.AddNode(LabelGUI, n); err != nil {
		return err
	}
	if g.Has(LabelEndMainPass) {
		if err := g.AddEdge(LabelEndMainPass, LabelGUI); err != nil {
			return err
		}
	}
	for _, l := range []string{LabelEndMainPassPostProcessing, LabelUpscaling} {
		if g.Has(l) {
			if err := g.AddEdge(LabelGUI, l); err != nil {
				return err
			}
		}
	}
	return nil
}

// Order returns the labels in execution order. Nodes without a constraint
// between them keep insertion order.
func (g *Graph) Order() ([]string, error) {
	indeg := make(map[string]int, len(g.labels))
	for _, tos := range g.edges {
		for _, to := range tos {
			indeg[to]++
		}
	}
	done := make(map[string]bool, len(g.labels))
	order := make([]string, 0, len(g.labels))
	for len(order) < len(g.labels) {
		progressed := false
		for _, l := range g.labels {
			if done[l] || indeg[l] > 0 {
				continue
			}
			done[l] = true
			order = append(order, l)
			for _, to := range g.edges[l] {
				indeg[to]--
			}
			progressed = true
			break
		}
		if !progressed {
			return nil, ErrGraphCycle
		}
	}
	return order, nil
}

// Run executes every node in order and stops at the first error.
func (g *Graph) Run(rc RenderContext) error {
	order, err := g.Order()
	if err != nil {
		return err
	}
	for _, l := range order {
		if err := g.nodes[l].Run(rc); err != nil {
			return errors.Wrapf(err, "node %s", l)
		}
	}
	return nil
}
