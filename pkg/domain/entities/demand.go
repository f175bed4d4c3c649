package entities

import "time"

// PathStep is one technical list node on the way from an order's root to a leaf
type PathStep struct {
	NodeID string
	Code   string
	Name   string
	Level  LevelKind
}

// DemandLine is the demand one BOM path puts on a leaf item for one order.
// A leaf reached through several paths yields several lines.
type DemandLine struct {
	OrderID  string
	ItemID   string
	PerUnit  Quantity // product of weighted quantities along the path
	Quantity Quantity // PerUnit × order quantity
	Path     []PathStep
	Edge     BOMEdge // the edge that reaches the leaf
}

// OrderContribution is the part of an item's requirement that one order accounts for
type OrderContribution struct {
	OrderID       string
	OrderLabel    string
	RootLabel     string
	DueDate       time.Time
	OrderQuantity Quantity
	PerUnit       Quantity
	LineQuantity  Quantity
	Paths         int
}

// NettedRequirement is the planning result for one leaf item
type NettedRequirement struct {
	Item            Item
	Necessary       Quantity
	InStock         Quantity
	Shortage        Quantity
	LeadTimeDays    int
	EarliestDueDate time.Time
	PurchaseDate    time.Time
	Contributions   []OrderContribution
}

// HasShortage reports whether stock does not cover the requirement
func (r *NettedRequirement) HasShortage() bool {
	return r.Shortage.IsPositive()
}
