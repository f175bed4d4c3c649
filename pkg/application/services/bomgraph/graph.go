package bomgraph

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/services"
)

// Node is a technical list node with its outgoing edges in traversal order
type Node struct {
	entities.TechnicalListNode
	Edges    []entities.BOMEdge
	Orphaned bool
}

// Graph is an arena of technical list nodes keyed by id. It is read-only
// once Build returns and may be shared between goroutines.
type Graph struct {
	nodes  []Node
	index  map[string]int
	items  map[string]*entities.Item
	order  []string // item ids in input order
	roots  []string
	policy services.LevelPolicy
}

// Options configures graph construction
type Options struct {
	LevelPolicy services.LevelPolicy
}

// Build validates the structure and assembles the graph. All structural
// errors are returned together; orphaned nodes are marked, not rejected.
func Build(
	nodes []*entities.TechnicalListNode,
	edges []*entities.BOMEdge,
	items []*entities.Item,
	opts Options,
) (*Graph, error) {
	validator := services.NewBOMValidator(opts.LevelPolicy)

	var errs []error
	errs = append(errs, validator.ValidateItemCodes(items)...)
	result := validator.ValidateStructure(nodes, edges, items)
	errs = append(errs, result.Errors...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g := &Graph{
		nodes:  make([]Node, 0, len(nodes)),
		index:  make(map[string]int, len(nodes)),
		items:  make(map[string]*entities.Item, len(items)),
		order:  make([]string, 0, len(items)),
		policy: opts.LevelPolicy,
	}

	for _, item := range items {
		if _, exists := g.items[item.ID]; exists {
			return nil, fmt.Errorf("%w: item id %s", entities.ErrDuplicateID, item.ID)
		}
		copied := *item
		g.items[item.ID] = &copied
		g.order = append(g.order, item.ID)
	}

	for _, n := range nodes {
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, Node{TechnicalListNode: *n})
	}

	type positioned struct {
		edge entities.BOMEdge
		pos  int
	}
	byParent := make(map[string][]positioned)
	for i, e := range edges {
		byParent[e.ParentID] = append(byParent[e.ParentID], positioned{edge: *e, pos: i})
	}
	for parentID, list := range byParent {
		slices.SortStableFunc(list, func(a, b positioned) int {
			return cmp.Or(cmp.Compare(a.edge.Sequence, b.edge.Sequence), cmp.Compare(a.pos, b.pos))
		})
		n := &g.nodes[g.index[parentID]]
		n.Edges = make([]entities.BOMEdge, len(list))
		for i, p := range list {
			n.Edges[i] = p.edge
		}
	}

	for _, id := range result.Orphaned {
		g.nodes[g.index[id]].Orphaned = true
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Level == entities.Series && !n.HasParent() {
			g.roots = append(g.roots, n.ID)
		}
	}

	return g, nil
}

// Node returns the node with the given id
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// Item returns the leaf item with the given id
func (g *Graph) Item(id string) (*entities.Item, bool) {
	item, ok := g.items[id]
	return item, ok
}

// Items returns every catalog item in input order
func (g *Graph) Items() []*entities.Item {
	out := make([]*entities.Item, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.items[id])
	}
	return out
}

// Roots returns the parentless Series node ids in input order
func (g *Graph) Roots() []string {
	return slices.Clone(g.roots)
}

// Orphaned returns the ids of nodes not anchored under a Series root
func (g *Graph) Orphaned() []string {
	var ids []string
	for i := range g.nodes {
		if g.nodes[i].Orphaned {
			ids = append(ids, g.nodes[i].ID)
		}
	}
	return ids
}

// Len returns the number of technical list nodes
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of BOM edges
func (g *Graph) EdgeCount() int {
	total := 0
	for i := range g.nodes {
		total += len(g.nodes[i].Edges)
	}
	return total
}

// LevelPolicy returns the policy the graph was validated with
func (g *Graph) LevelPolicy() services.LevelPolicy { return g.policy }

// Step returns the path step describing a node
func (n *Node) Step() entities.PathStep {
	return entities.PathStep{NodeID: n.ID, Code: n.Code, Name: n.Name, Level: n.Level}
}
