package entities

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedEdge          = errors.New("malformed BOM edge")
	ErrCyclicBOM              = errors.New("cyclic BOM")
	ErrLevelMismatch          = errors.New("level mismatch")
	ErrDanglingOrderReference = errors.New("dangling order reference")
	ErrNegativeOrZeroQuantity = errors.New("negative or zero quantity")
	ErrInvalidWeighting       = errors.New("invalid weighting")
	ErrItemNotFound           = errors.New("item not found")
	ErrNodeNotFound           = errors.New("technical list not found")
	ErrDuplicateID            = errors.New("duplicate id")
)

// StructureError reports a defect in the technical list structure.
// Edge is the edge's input position, or -1 when the defect is on a node.
type StructureError struct {
	Err    error
	NodeID string
	Edge   int
	Detail string
}

func (e *StructureError) Error() string {
	msg := e.Err.Error()
	if e.NodeID != "" {
		msg += fmt.Sprintf(" at node %s", e.NodeID)
	}
	if e.Edge >= 0 {
		msg += fmt.Sprintf(" (edge #%d)", e.Edge)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StructureError) Unwrap() error { return e.Err }

// OrderError reports why a single production order could not be exploded
type OrderError struct {
	OrderID string
	Err     error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("order %s: %v", e.OrderID, e.Err)
}

func (e *OrderError) Unwrap() error { return e.Err }
