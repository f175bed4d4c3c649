package dto

import (
	"errors"
	"time"

	"github.com/vsinha/bommrp/pkg/application/services/bomgraph"
	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// Snapshot is a consistent copy of everything a planning run reads
type Snapshot struct {
	Items  []*entities.Item
	Nodes  []*entities.TechnicalListNode
	Edges  []*entities.BOMEdge
	Orders []*entities.ProductionOrder
}

// MRPResult contains the complete output of an MRP run
type MRPResult struct {
	RunID        string
	GeneratedAt  time.Time
	Orders       []entities.ProductionOrder
	Requirements map[string]*entities.NettedRequirement
	DemandLines  []entities.DemandLine
	Failures     []OrderFailure
	Graph        *bomgraph.Graph
	Stats        Stats
}

// OrderFailure records an order that could not be exploded
type OrderFailure struct {
	OrderID string
	Err     error
}

// Reason names the error class of the failure
func (f OrderFailure) Reason() string {
	switch {
	case errors.Is(f.Err, entities.ErrDanglingOrderReference):
		return "dangling_order_reference"
	case errors.Is(f.Err, entities.ErrNegativeOrZeroQuantity):
		return "negative_or_zero_quantity"
	default:
		return "other"
	}
}

// Stats summarizes a run
type Stats struct {
	Orders      int           `json:"orders"`
	Exploded    int           `json:"exploded"`
	Failed      int           `json:"failed"`
	DemandLines int           `json:"demand_lines"`
	Items       int           `json:"items"`
	Shortages   int           `json:"shortages"`
	Duration    time.Duration `json:"duration_ns"`
}

// Requirement returns the netted requirement for an item id
func (r *MRPResult) Requirement(itemID string) (*entities.NettedRequirement, bool) {
	req, ok := r.Requirements[itemID]
	return req, ok
}

// Failure returns the failure recorded for an order, if any
func (r *MRPResult) Failure(orderID string) (OrderFailure, bool) {
	for _, f := range r.Failures {
		if f.OrderID == orderID {
			return f, true
		}
	}
	return OrderFailure{}, false
}
