package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
)

// BOMRepository stores composition edges in creation order with a parent index
type BOMRepository struct {
	mu         sync.RWMutex
	edges      []entities.BOMEdge
	bomIndexes map[string][]int
}

// NewBOMRepository creates an in-memory BOM repository
func NewBOMRepository(expectedEdges int) *BOMRepository {
	return &BOMRepository{
		edges:      make([]entities.BOMEdge, 0, expectedEdges),
		bomIndexes: make(map[string][]int),
	}
}

var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadEdges appends edges. Edges without a sequence number are numbered in
// arrival order after the edges already stored.
func (r *BOMRepository) LoadEdges(edges []*entities.BOMEdge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, edge := range edges {
		if edge == nil {
			return fmt.Errorf("BOM edge %d is nil", i)
		}
		r.addEdge(*edge)
	}
	return nil
}

// AddEdge appends a single edge
func (r *BOMRepository) AddEdge(edge entities.BOMEdge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addEdge(edge)
}

func (r *BOMRepository) addEdge(edge entities.BOMEdge) {
	index := len(r.edges)
	if edge.Sequence == 0 {
		edge.Sequence = index + 1
	}
	r.edges = append(r.edges, edge)
	r.bomIndexes[edge.ParentID] = append(r.bomIndexes[edge.ParentID], index)
}

// GetEdges returns copies of the edges under a parent node
func (r *BOMRepository) GetEdges(parentID string) ([]*entities.BOMEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes, exists := r.bomIndexes[parentID]
	if !exists {
		return []*entities.BOMEdge{}, nil
	}

	edges := make([]*entities.BOMEdge, 0, len(indexes))
	for _, index := range indexes {
		edge := r.edges[index]
		edges = append(edges, &edge)
	}
	return edges, nil
}

// GetAllEdges returns copies of every edge in creation order
func (r *BOMRepository) GetAllEdges() ([]*entities.BOMEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	edges := make([]*entities.BOMEdge, 0, len(r.edges))
	for i := range r.edges {
		edge := r.edges[i]
		edges = append(edges, &edge)
	}
	return edges, nil
}
