package entities

import (
	"fmt"
	"strings"
)

// LevelKind is the aggregation level of a technical list node.
// Higher values sit higher in the hierarchy.
type LevelKind int

const (
	ItemLevel LevelKind = iota
	Subassembly
	Assembly
	System
	Series
)

// Levels lists every level from the top of the hierarchy down
var Levels = []LevelKind{Series, System, Assembly, Subassembly, ItemLevel}

// String method for LevelKind enum
func (l LevelKind) String() string {
	switch l {
	case Series:
		return "Series"
	case System:
		return "System"
	case Assembly:
		return "Assembly"
	case Subassembly:
		return "Subassembly"
	case ItemLevel:
		return "ItemLevel"
	default:
		return "Unknown"
	}
}

// Valid reports whether l is one of the five known levels
func (l LevelKind) Valid() bool {
	return l >= ItemLevel && l <= Series
}

// ParseLevelKind accepts the English names and the catalog's Portuguese labels
func ParseLevelKind(s string) (LevelKind, error) {
	switch normalizeLabel(s) {
	case "series", "serie":
		return Series, nil
	case "system", "sistema":
		return System, nil
	case "assembly", "conjunto":
		return Assembly, nil
	case "subassembly", "subconjunto":
		return Subassembly, nil
	case "itemlevel", "item_level", "item":
		return ItemLevel, nil
	default:
		return ItemLevel, fmt.Errorf(
			"invalid level: %s (expected Series, System, Assembly, Subassembly or ItemLevel)", s)
	}
}

// TechnicalListNode is an aggregation level in the technical list hierarchy
type TechnicalListNode struct {
	ID       string
	Code     string
	Name     string
	Level    LevelKind
	ParentID string // empty for Series roots
	Notes    string
}

// NewTechnicalListNode creates a validated TechnicalListNode
func NewTechnicalListNode(id, code, name string, level LevelKind, parentID string) (*TechnicalListNode, error) {
	if id == "" {
		return nil, fmt.Errorf("technical list id cannot be empty")
	}
	if code == "" {
		return nil, fmt.Errorf("technical list code cannot be empty")
	}
	if !level.Valid() {
		return nil, fmt.Errorf("invalid level: %d", level)
	}
	if parentID == id {
		return nil, fmt.Errorf("technical list %s cannot be its own parent", id)
	}

	return &TechnicalListNode{
		ID:       id,
		Code:     code,
		Name:     name,
		Level:    level,
		ParentID: parentID,
	}, nil
}

// HasParent reports whether the node references a parent node
func (n *TechnicalListNode) HasParent() bool {
	return n.ParentID != ""
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(" ", "", "-", "", "é", "e", "á", "a")
	return r.Replace(s)
}
