package bomgraph

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// NodeContext describes a technical list node reached during a walk
type NodeContext struct {
	Node *Node
	// Edge is the sub-list edge that led here; nil at the walk root
	Edge *entities.BOMEdge
	// Path runs from the walk root to this node inclusive
	Path []entities.PathStep
	// Multiplier is the accumulated per-unit quantity of this node
	Multiplier entities.Quantity
	Depth      int
}

// LeafContext describes a component edge reached during a walk
type LeafContext struct {
	Parent NodeContext
	Edge   *entities.BOMEdge
	Item   *entities.Item
	// Multiplier is the parent's multiplier times the edge's weighted quantity
	Multiplier entities.Quantity
}

// Visitor receives the nodes and leaves of a walk in depth-first edge order
type Visitor interface {
	// VisitNode is called for each sub-list node before its edges.
	// Returning false skips the node's subtree.
	VisitNode(ctx context.Context, nodeCtx NodeContext) (bool, error)
	VisitLeaf(ctx context.Context, leafCtx LeafContext) error
}

// Walk traverses the graph depth-first from rootID. A child's multiplier
// is the parent's multiplier × edge quantity × weighting / 100; the root
// starts at 1. Every distinct path is visited, so a node shared by two
// branches is visited twice.
func (g *Graph) Walk(ctx context.Context, rootID string, visitor Visitor) error {
	root, ok := g.Node(rootID)
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrNodeNotFound, rootID)
	}
	nodeCtx := NodeContext{
		Node:       root,
		Path:       []entities.PathStep{root.Step()},
		Multiplier: decimal.NewFromInt(1),
	}
	return g.walk(ctx, nodeCtx, visitor)
}

func (g *Graph) walk(ctx context.Context, nodeCtx NodeContext, visitor Visitor) error {
	if nodeCtx.Depth > len(g.nodes) {
		return fmt.Errorf("%w: walk deeper than %d levels at %s", entities.ErrCyclicBOM, len(g.nodes), nodeCtx.Node.ID)
	}

	shouldContinue, err := visitor.VisitNode(ctx, nodeCtx)
	if err != nil {
		return fmt.Errorf("failed to visit node %s: %w", nodeCtx.Node.ID, err)
	}
	if !shouldContinue {
		return nil
	}

	for i := range nodeCtx.Node.Edges {
		edge := &nodeCtx.Node.Edges[i]
		multiplier := nodeCtx.Multiplier.Mul(edge.WeightedQuantity())

		if edge.IsComponent() {
			item, ok := g.Item(edge.ComponentID)
			if !ok {
				return fmt.Errorf("%w: %s under %s", entities.ErrItemNotFound, edge.ComponentID, nodeCtx.Node.ID)
			}
			leafCtx := LeafContext{Parent: nodeCtx, Edge: edge, Item: item, Multiplier: multiplier}
			if err := visitor.VisitLeaf(ctx, leafCtx); err != nil {
				return fmt.Errorf("failed to visit component %s: %w", edge.ComponentID, err)
			}
			continue
		}

		child, ok := g.Node(edge.SubListID)
		if !ok {
			return fmt.Errorf("%w: %s under %s", entities.ErrNodeNotFound, edge.SubListID, nodeCtx.Node.ID)
		}
		childCtx := NodeContext{
			Node:       child,
			Edge:       edge,
			Path:       append(slices.Clip(nodeCtx.Path), child.Step()),
			Multiplier: multiplier,
			Depth:      nodeCtx.Depth + 1,
		}
		if err := g.walk(ctx, childCtx, visitor); err != nil {
			return err
		}
	}

	return nil
}
