package entities

import (
	"fmt"
	"time"
)

// ProductionOrder asks for a quantity of a technical list node by a due date
type ProductionOrder struct {
	ID         string
	RootNodeID string
	Quantity   Quantity
	DueDate    time.Time
	Label      string
}

// NewProductionOrder creates a validated ProductionOrder
func NewProductionOrder(id, rootNodeID string, quantity Quantity, dueDate time.Time) (*ProductionOrder, error) {
	if id == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if rootNodeID == "" {
		return nil, fmt.Errorf("order %s must reference a technical list", id)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: order %s has quantity %s", ErrNegativeOrZeroQuantity, id, quantity)
	}
	if dueDate.IsZero() {
		return nil, fmt.Errorf("order %s must have a due date", id)
	}

	return &ProductionOrder{
		ID:         id,
		RootNodeID: rootNodeID,
		Quantity:   quantity,
		DueDate:    dueDate,
	}, nil
}

// DisplayLabel returns the order label, falling back to the id
func (o *ProductionOrder) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.ID
}
