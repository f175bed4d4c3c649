package projection

import (
	"context"
	"fmt"
	"strings"

	"github.com/vsinha/bommrp/pkg/application/services/bomgraph"
	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// Row is one line of the flat BOM view. Component rows carry a leaf;
// group rows (detailed mode) describe a sub-list edge and leave the
// component columns empty.
type Row struct {
	Series      string `json:"series"`
	System      string `json:"system"`
	Assembly    string `json:"assembly"`
	Subassembly string `json:"subassembly"`
	ItemLevel   string `json:"item_level"`

	NodeID        string `json:"node_id"`
	ComponentCode string `json:"component_code,omitempty"`
	ComponentName string `json:"component_name,omitempty"`

	Quantity         entities.Quantity `json:"quantity"`
	Weighting        entities.Quantity `json:"weighting"`
	WeightedQuantity entities.Quantity `json:"weighted_quantity"`
	Comments         string            `json:"comments"`

	Group bool `json:"group,omitempty"`
	Depth int  `json:"depth"`

	// Set on rows rendered from demand lines only
	OrderID      string            `json:"order_id,omitempty"`
	PerUnit      entities.Quantity `json:"per_unit"`
	LineQuantity entities.Quantity `json:"line_quantity"`
}

// LevelName returns the ancestor name recorded for a level
func (r Row) LevelName(level entities.LevelKind) string {
	switch level {
	case entities.Series:
		return r.Series
	case entities.System:
		return r.System
	case entities.Assembly:
		return r.Assembly
	case entities.Subassembly:
		return r.Subassembly
	case entities.ItemLevel:
		return r.ItemLevel
	default:
		return ""
	}
}

func (r *Row) setLevels(path []entities.PathStep) {
	for _, step := range path {
		switch step.Level {
		case entities.Series:
			r.Series = step.Name
		case entities.System:
			r.System = step.Name
		case entities.Assembly:
			r.Assembly = step.Name
		case entities.Subassembly:
			r.Subassembly = step.Name
		case entities.ItemLevel:
			r.ItemLevel = step.Name
		}
	}
}

// Matches reports whether any text column contains term, ignoring case
func (r Row) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{
		r.Series, r.System, r.Assembly, r.Subassembly, r.ItemLevel,
		r.ComponentCode, r.ComponentName, r.Comments,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Options selects what Project renders
type Options struct {
	// RootID limits the projection to one technical list; empty means every Series root
	RootID string
	// Search keeps rows whose text columns contain it
	Search string
	// Detailed adds a group row for every sub-list edge
	Detailed bool
}

type flatVisitor struct {
	opts Options
	rows []Row
}

func (v *flatVisitor) VisitNode(_ context.Context, nodeCtx bomgraph.NodeContext) (bool, error) {
	if !v.opts.Detailed || nodeCtx.Edge == nil {
		return true, nil
	}
	row := Row{
		NodeID:           nodeCtx.Node.ID,
		Quantity:         nodeCtx.Edge.Quantity,
		Weighting:        nodeCtx.Edge.Weighting,
		WeightedQuantity: nodeCtx.Edge.WeightedQuantity(),
		Comments:         nodeCtx.Edge.Comments,
		Group:            true,
		Depth:            nodeCtx.Depth,
	}
	row.setLevels(nodeCtx.Path)
	v.add(row)
	return true, nil
}

func (v *flatVisitor) VisitLeaf(_ context.Context, leafCtx bomgraph.LeafContext) error {
	row := Row{
		NodeID:           leafCtx.Parent.Node.ID,
		ComponentCode:    leafCtx.Item.Code,
		ComponentName:    leafCtx.Item.Name,
		Quantity:         leafCtx.Edge.Quantity,
		Weighting:        leafCtx.Edge.Weighting,
		WeightedQuantity: leafCtx.Edge.WeightedQuantity(),
		Comments:         leafCtx.Edge.Comments,
		Depth:            leafCtx.Parent.Depth + 1,
	}
	row.setLevels(leafCtx.Parent.Path)
	v.add(row)
	return nil
}

func (v *flatVisitor) add(row Row) {
	if row.Matches(v.opts.Search) {
		v.rows = append(v.rows, row)
	}
}

// Project flattens the technical list hierarchy into one row per leaf
// occurrence, walking roots in input order and edges in creation order
func Project(ctx context.Context, graph *bomgraph.Graph, opts Options) ([]Row, error) {
	roots := graph.Roots()
	if opts.RootID != "" {
		if _, ok := graph.Node(opts.RootID); !ok {
			return nil, fmt.Errorf("projection.Project: %w: %s", entities.ErrNodeNotFound, opts.RootID)
		}
		roots = []string{opts.RootID}
	}

	visitor := &flatVisitor{opts: opts}
	for _, root := range roots {
		if err := graph.Walk(ctx, root, visitor); err != nil {
			return nil, fmt.Errorf("projection.Project: %w", err)
		}
	}
	return visitor.rows, nil
}

// FromDemandLines renders explosion output in the flat layout. The edge
// columns describe the leaf edge as Project does; PerUnit and LineQuantity
// carry the path multiplier and the ordered quantity.
// A non-empty rootID keeps only lines whose path starts at that node.
func FromDemandLines(graph *bomgraph.Graph, lines []entities.DemandLine, rootID string) []Row {
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		if rootID != "" && (len(line.Path) == 0 || line.Path[0].NodeID != rootID) {
			continue
		}
		row := Row{
			ComponentCode:    line.ItemID,
			Quantity:         line.Edge.Quantity,
			Weighting:        line.Edge.Weighting,
			WeightedQuantity: line.Edge.WeightedQuantity(),
			Comments:         line.Edge.Comments,
			Depth:            len(line.Path),
			OrderID:          line.OrderID,
			PerUnit:          line.PerUnit,
			LineQuantity:     line.Quantity,
		}
		if n := len(line.Path); n > 0 {
			row.NodeID = line.Path[n-1].NodeID
		}
		if item, ok := graph.Item(line.ItemID); ok {
			row.ComponentCode = item.Code
			row.ComponentName = item.Name
		}
		row.setLevels(line.Path)
		rows = append(rows, row)
	}
	return rows
}
