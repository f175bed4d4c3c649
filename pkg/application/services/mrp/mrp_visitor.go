package mrp

import (
	"context"
	"slices"

	"github.com/vsinha/bommrp/pkg/application/services/bomgraph"
	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// explosionVisitor implements bomgraph.Visitor for one production order
type explosionVisitor struct {
	order entities.ProductionOrder
	lines []entities.DemandLine
}

func newExplosionVisitor(order entities.ProductionOrder) *explosionVisitor {
	return &explosionVisitor{order: order}
}

// VisitNode always descends; sub-list nodes produce no demand themselves
func (v *explosionVisitor) VisitNode(_ context.Context, _ bomgraph.NodeContext) (bool, error) {
	return true, nil
}

// VisitLeaf emits one demand line per path reaching a component
func (v *explosionVisitor) VisitLeaf(_ context.Context, leafCtx bomgraph.LeafContext) error {
	v.lines = append(v.lines, entities.DemandLine{
		OrderID:  v.order.ID,
		ItemID:   leafCtx.Item.ID,
		PerUnit:  leafCtx.Multiplier,
		Quantity: leafCtx.Multiplier.Mul(v.order.Quantity),
		Path:     slices.Clone(leafCtx.Parent.Path),
		Edge:     *leafCtx.Edge,
	})
	return nil
}
