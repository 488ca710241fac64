package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// nodeComponent lets a gomponents.Node be rendered where a templ.Component is
// expected.
type nodeComponent struct {
	node gomponents.Node
}

func (a nodeComponent) Render(_ context.Context, w io.Writer) error {
	return a.node.Render(w)
}

// FromNode wraps a gomponents node as a templ component.
func FromNode(node gomponents.Node) templ.Component {
	return nodeComponent{node: node}
}

// componentNode lets a templ.Component be embedded in a gomponents tree.
// gomponents does not pass a context down, so the one captured at
// construction is used.
type componentNode struct {
	ctx       context.Context
	component templ.Component
}

func (a componentNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// ToNode wraps a templ component as a gomponents node rendered with ctx.
func ToNode(ctx context.Context, component templ.Component) gomponents.Node {
	if ctx == nil {
		ctx = context.Background()
	}
	return componentNode{ctx: ctx, component: component}
}
