package mrp

import (
	"context"
	"fmt"

	"github.com/vsinha/bommrp/pkg/application/services/bomgraph"
	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// Exploder turns production orders into demand lines over a built graph.
// It holds no mutable state and is safe for concurrent use.
type Exploder struct {
	graph *bomgraph.Graph
}

// NewExploder creates an Exploder for a graph
func NewExploder(graph *bomgraph.Graph) *Exploder {
	return &Exploder{graph: graph}
}

// Explode walks the order's root depth-first and returns one demand line per
// path to a component, in edge order. Failures are *entities.OrderError.
func (e *Exploder) Explode(ctx context.Context, order entities.ProductionOrder) ([]entities.DemandLine, error) {
	if !order.Quantity.IsPositive() {
		return nil, &entities.OrderError{
			OrderID: order.ID,
			Err:     fmt.Errorf("%w: quantity %s", entities.ErrNegativeOrZeroQuantity, order.Quantity),
		}
	}

	root, ok := e.graph.Node(order.RootNodeID)
	if !ok {
		return nil, &entities.OrderError{
			OrderID: order.ID,
			Err:     fmt.Errorf("%w: technical list %s does not exist", entities.ErrDanglingOrderReference, order.RootNodeID),
		}
	}
	if root.Orphaned {
		return nil, &entities.OrderError{
			OrderID: order.ID,
			Err:     fmt.Errorf("%w: technical list %s is not anchored under a Series", entities.ErrDanglingOrderReference, root.ID),
		}
	}

	visitor := newExplosionVisitor(order)
	if err := e.graph.Walk(ctx, root.ID, visitor); err != nil {
		return nil, &entities.OrderError{OrderID: order.ID, Err: err}
	}
	return visitor.lines, nil
}
