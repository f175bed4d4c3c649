package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultWeighting is the weighting applied when an edge does not carry one
	DefaultWeighting = hundred
)

// BOMEdge links a technical list node to exactly one child: a sub-list or a component item
type BOMEdge struct {
	ParentID    string
	SubListID   string
	ComponentID string
	Quantity    Quantity
	Weighting   Quantity // percentage of parent units that consume the child
	Comments    string
	Sequence    int // creation order, used for deterministic traversal
}

// NewBOMEdge creates a validated BOMEdge. The quantity is rounded to
// QuantityPrecision fractional digits.
func NewBOMEdge(parentID, subListID, componentID string, quantity, weighting Quantity, comments string) (*BOMEdge, error) {
	edge := &BOMEdge{
		ParentID:    parentID,
		SubListID:   subListID,
		ComponentID: componentID,
		Quantity:    quantity.Round(QuantityPrecision),
		Weighting:   weighting,
		Comments:    comments,
	}
	if err := edge.Validate(); err != nil {
		return nil, err
	}
	return edge, nil
}

// Validate checks the edge's own invariants; references to other records are
// checked when the graph is built.
func (e *BOMEdge) Validate() error {
	if e.ParentID == "" {
		return fmt.Errorf("%w: parent id cannot be empty", ErrMalformedEdge)
	}
	if e.SubListID != "" && e.ComponentID != "" {
		return fmt.Errorf("%w: edge under %s has both sub-list %s and component %s",
			ErrMalformedEdge, e.ParentID, e.SubListID, e.ComponentID)
	}
	if e.SubListID == "" && e.ComponentID == "" {
		return fmt.Errorf("%w: edge under %s has neither sub-list nor component",
			ErrMalformedEdge, e.ParentID)
	}
	if !e.Quantity.IsPositive() {
		return fmt.Errorf("%w: edge under %s has quantity %s",
			ErrNegativeOrZeroQuantity, e.ParentID, e.Quantity)
	}
	if e.Weighting.IsNegative() {
		return fmt.Errorf("%w: edge under %s has weighting %s",
			ErrInvalidWeighting, e.ParentID, e.Weighting)
	}
	return nil
}

// IsComponent reports whether the edge points at a leaf item
func (e *BOMEdge) IsComponent() bool {
	return e.ComponentID != ""
}

// ChildID returns whichever child reference is set
func (e *BOMEdge) ChildID() string {
	if e.ComponentID != "" {
		return e.ComponentID
	}
	return e.SubListID
}

// WeightingFactor returns Weighting/100
func (e *BOMEdge) WeightingFactor() Quantity {
	return e.Weighting.Div(hundred)
}

// WeightedQuantity returns Quantity × Weighting / 100
func (e *BOMEdge) WeightedQuantity() Quantity {
	return e.Quantity.Mul(e.Weighting).Div(hundred)
}
