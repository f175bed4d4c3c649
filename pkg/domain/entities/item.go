package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a decimal quantity. Multi-level products are carried at full
// precision and only rounded for presentation.
type Quantity = decimal.Decimal

// QuantityPrecision is the number of fractional digits kept on BOM edge quantities
const QuantityPrecision = 4

// ItemKind distinguishes purchased components from raw materials
type ItemKind int

const (
	Component ItemKind = iota
	RawMaterial
)

// String method for ItemKind enum
func (k ItemKind) String() string {
	switch k {
	case Component:
		return "Component"
	case RawMaterial:
		return "RawMaterial"
	default:
		return "Unknown"
	}
}

// ParseItemKind accepts the English names and the catalog's Portuguese labels
func ParseItemKind(s string) (ItemKind, error) {
	switch normalizeLabel(s) {
	case "component", "componente":
		return Component, nil
	case "rawmaterial", "raw_material", "materiaprima", "materia_prima":
		return RawMaterial, nil
	default:
		return Component, fmt.Errorf("invalid item kind: %s (expected Component or RawMaterial)", s)
	}
}

// Item is a leaf of the technical list: something that is bought and stocked
type Item struct {
	ID               string
	Code             string
	Name             string
	UnitOfMeasure    string
	Stock            Quantity
	LeadTimeDays     int
	Manufacturer     string
	ManufacturerCode string
	Kind             ItemKind
}

// NewItem creates a validated Item
func NewItem(
	id, code, name, uom string,
	stock Quantity,
	leadTimeDays int,
	kind ItemKind,
) (*Item, error) {
	if id == "" {
		return nil, fmt.Errorf("item id cannot be empty")
	}
	if code == "" {
		return nil, fmt.Errorf("item code cannot be empty")
	}
	if stock.IsNegative() {
		return nil, fmt.Errorf("stock cannot be negative, got %s", stock)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTimeDays)
	}
	if kind != Component && kind != RawMaterial {
		return nil, fmt.Errorf("invalid item kind: %d", kind)
	}

	return &Item{
		ID:            id,
		Code:          code,
		Name:          name,
		UnitOfMeasure: uom,
		Stock:         stock,
		LeadTimeDays:  leadTimeDays,
		Kind:          kind,
	}, nil
}

// Label renders "[CODE] Name" the way reports show items
func (i *Item) Label() string {
	return fmt.Sprintf("[%s] %s", i.Code, i.Name)
}
