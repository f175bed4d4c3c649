package services

import (
	"fmt"
	"strings"

	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// LevelPolicy decides which parent/child level pairs are acceptable
type LevelPolicy int

const (
	// LevelStrict requires a child to sit exactly one level below its parent
	LevelStrict LevelPolicy = iota
	// LevelDescending accepts any strictly lower level, so levels may be skipped
	LevelDescending
)

// String method for LevelPolicy enum
func (p LevelPolicy) String() string {
	switch p {
	case LevelStrict:
		return "strict"
	case LevelDescending:
		return "descending"
	default:
		return "unknown"
	}
}

// ParseLevelPolicy parses "strict" or "descending"
func ParseLevelPolicy(s string) (LevelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return LevelStrict, nil
	case "descending":
		return LevelDescending, nil
	default:
		return LevelStrict, fmt.Errorf("invalid level policy: %s (expected strict or descending)", s)
	}
}

// Allows reports whether a child level may hang under a parent level
func (p LevelPolicy) Allows(parent, child entities.LevelKind) bool {
	if p == LevelDescending {
		return parent > child
	}
	return parent == child+1
}

// BOMValidator checks technical list structure integrity
type BOMValidator struct {
	policy LevelPolicy
}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator(policy LevelPolicy) *BOMValidator {
	return &BOMValidator{policy: policy}
}

// ValidationResult contains the results of structure validation.
// Errors holds *entities.StructureError values in the order they were found.
type ValidationResult struct {
	Errors     []error
	HasCycles  bool
	CyclePaths [][]string
	// Orphaned lists nodes whose parent chain does not end at a parentless Series node
	Orphaned []string
}

// Valid reports whether no fatal defect was found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateStructure runs the checks in order: edge shape and references,
// quantities, cycles, then levels. Cycle detection only runs on a
// structure whose edges are well formed, and level checks only run on an
// acyclic one, so a cycle is never reported as a level problem.
func (v *BOMValidator) ValidateStructure(
	nodes []*entities.TechnicalListNode,
	edges []*entities.BOMEdge,
	items []*entities.Item,
) *ValidationResult {
	result := &ValidationResult{}

	nodeMap := make(map[string]*entities.TechnicalListNode, len(nodes))
	for _, node := range nodes {
		if _, exists := nodeMap[node.ID]; exists {
			result.Errors = append(result.Errors, &entities.StructureError{
				Err: entities.ErrDuplicateID, NodeID: node.ID, Edge: -1,
				Detail: "technical list id used more than once",
			})
			continue
		}
		nodeMap[node.ID] = node
	}
	itemSet := make(map[string]bool, len(items))
	for _, item := range items {
		itemSet[item.ID] = true
	}

	for i, edge := range edges {
		result.Errors = append(result.Errors, v.checkEdge(i, edge, nodeMap, itemSet)...)
	}
	if len(result.Errors) > 0 {
		return result
	}

	adjacencyMap := v.buildAdjacencyMap(edges)
	cycles := v.detectCycles(nodes, adjacencyMap)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles
	for _, cycle := range cycles {
		result.Errors = append(result.Errors, &entities.StructureError{
			Err: entities.ErrCyclicBOM, NodeID: cycle[len(cycle)-1], Edge: -1,
			Detail: strings.Join(cycle, " -> "),
		})
	}
	if result.HasCycles {
		return result
	}

	result.Errors = append(result.Errors, v.checkLevels(nodes, edges, nodeMap)...)
	result.Orphaned = v.findOrphans(nodes, nodeMap)
	return result
}

func (v *BOMValidator) checkEdge(
	i int,
	edge *entities.BOMEdge,
	nodeMap map[string]*entities.TechnicalListNode,
	itemSet map[string]bool,
) []error {
	var errs []error
	report := func(err error, detail string, args ...any) {
		errs = append(errs, &entities.StructureError{
			Err: err, NodeID: edge.ParentID, Edge: i, Detail: fmt.Sprintf(detail, args...),
		})
	}

	switch {
	case edge.ParentID == "":
		report(entities.ErrMalformedEdge, "parent id cannot be empty")
	case nodeMap[edge.ParentID] == nil:
		report(entities.ErrMalformedEdge, "unknown parent technical list %s", edge.ParentID)
	}

	switch {
	case edge.SubListID != "" && edge.ComponentID != "":
		report(entities.ErrMalformedEdge, "edge has both sub-list %s and component %s", edge.SubListID, edge.ComponentID)
	case edge.SubListID == "" && edge.ComponentID == "":
		report(entities.ErrMalformedEdge, "edge has neither sub-list nor component")
	case edge.SubListID != "" && nodeMap[edge.SubListID] == nil:
		report(entities.ErrMalformedEdge, "unknown sub-list %s", edge.SubListID)
	case edge.ComponentID != "" && !itemSet[edge.ComponentID]:
		report(entities.ErrMalformedEdge, "unknown component item %s", edge.ComponentID)
	}

	if !edge.Quantity.IsPositive() {
		report(entities.ErrNegativeOrZeroQuantity, "quantity %s", edge.Quantity)
	}
	if edge.Weighting.IsNegative() {
		report(entities.ErrInvalidWeighting, "weighting %s", edge.Weighting)
	}
	return errs
}

// buildAdjacencyMap creates a map of parent -> sub-list children in edge order
func (v *BOMValidator) buildAdjacencyMap(edges []*entities.BOMEdge) map[string][]string {
	adjacencyMap := make(map[string][]string)

	for _, edge := range edges {
		if edge.SubListID == "" {
			continue
		}
		children := adjacencyMap[edge.ParentID]

		found := false
		for _, child := range children {
			if child == edge.SubListID {
				found = true
				break
			}
		}
		if !found {
			adjacencyMap[edge.ParentID] = append(children, edge.SubListID)
		}
	}

	return adjacencyMap
}

// detectCycles runs the DFS from every Series root first, then from any node
// not reached from a root, both in input order so results are reproducible.
func (v *BOMValidator) detectCycles(
	nodes []*entities.TechnicalListNode,
	adjacencyMap map[string][]string,
) [][]string {
	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)
	cycles := make([][]string, 0)

	for _, node := range nodes {
		if node.Level == entities.Series && !node.HasParent() && !visited[node.ID] {
			v.dfsDetectCycle(node.ID, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}
	for _, node := range nodes {
		if !visited[node.ID] {
			v.dfsDetectCycle(node.ID, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current string,
	adjacencyMap map[string][]string,
	visited map[string]bool,
	recursionStack map[string]bool,
	path []string,
	cycles *[][]string,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			cycleStart := -1
			for i, id := range path {
				if id == child {
					cycleStart = i
					break
				}
			}

			if cycleStart != -1 {
				cycle := make([]string, 0, len(path)-cycleStart+1)
				cycle = append(cycle, path[cycleStart:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
			}
		}
	}

	recursionStack[current] = false
}

func (v *BOMValidator) checkLevels(
	nodes []*entities.TechnicalListNode,
	edges []*entities.BOMEdge,
	nodeMap map[string]*entities.TechnicalListNode,
) []error {
	var errs []error

	for i, edge := range edges {
		if edge.SubListID == "" {
			continue
		}
		parent, child := nodeMap[edge.ParentID], nodeMap[edge.SubListID]
		if !v.policy.Allows(parent.Level, child.Level) {
			errs = append(errs, &entities.StructureError{
				Err: entities.ErrLevelMismatch, NodeID: child.ID, Edge: i,
				Detail: fmt.Sprintf("%s %s cannot hold %s %s under %s policy",
					parent.Level, parent.ID, child.Level, child.ID, v.policy),
			})
		}
	}

	for _, node := range nodes {
		if !node.HasParent() {
			continue
		}
		if node.Level == entities.Series {
			errs = append(errs, &entities.StructureError{
				Err: entities.ErrLevelMismatch, NodeID: node.ID, Edge: -1,
				Detail: "a Series node cannot have a parent",
			})
			continue
		}
		parent := nodeMap[node.ParentID]
		if parent == nil {
			continue
		}
		if !v.policy.Allows(parent.Level, node.Level) {
			errs = append(errs, &entities.StructureError{
				Err: entities.ErrLevelMismatch, NodeID: node.ID, Edge: -1,
				Detail: fmt.Sprintf("parent %s is %s, node is %s", parent.ID, parent.Level, node.Level),
			})
		}
	}

	return errs
}

// findOrphans follows each node's parent chain; a chain that hits a missing
// parent, a parentless non-Series node, or loops back on itself is orphaned.
func (v *BOMValidator) findOrphans(
	nodes []*entities.TechnicalListNode,
	nodeMap map[string]*entities.TechnicalListNode,
) []string {
	anchored := make(map[string]bool, len(nodes))
	var orphaned []string

	for _, node := range nodes {
		seen := make(map[string]bool)
		chain := []string{}
		ok := false
		for current := node; current != nil; current = nodeMap[current.ParentID] {
			if known, done := anchored[current.ID]; done {
				ok = known
				break
			}
			if seen[current.ID] {
				break
			}
			seen[current.ID] = true
			chain = append(chain, current.ID)
			if !current.HasParent() {
				ok = current.Level == entities.Series
				break
			}
		}
		for _, id := range chain {
			anchored[id] = ok
		}
		if !ok {
			orphaned = append(orphaned, node.ID)
		}
	}

	return orphaned
}

// ValidateItemCodes reports items sharing a code
func (v *BOMValidator) ValidateItemCodes(items []*entities.Item) []error {
	seen := make(map[string]string, len(items))
	var errs []error
	for _, item := range items {
		if other, exists := seen[item.Code]; exists {
			errs = append(errs, fmt.Errorf("%w: item code %s used by %s and %s",
				entities.ErrDuplicateID, item.Code, other, item.ID))
			continue
		}
		seen[item.Code] = item.ID
	}
	return errs
}
