package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
)

// TechnicalListRepository provides in-memory storage for technical list nodes
type TechnicalListRepository struct {
	mu       sync.RWMutex
	nodes    []entities.TechnicalListNode
	nodesMap map[string]int
}

// NewTechnicalListRepository creates a new in-memory technical list repository
func NewTechnicalListRepository(expectedNodes int) *TechnicalListRepository {
	return &TechnicalListRepository{
		nodes:    make([]entities.TechnicalListNode, 0, expectedNodes),
		nodesMap: make(map[string]int, expectedNodes),
	}
}

var _ repositories.TechnicalListRepository = (*TechnicalListRepository)(nil)

// LoadNodes loads nodes into the repository
func (r *TechnicalListRepository) LoadNodes(nodes []*entities.TechnicalListNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		if _, exists := r.nodesMap[node.ID]; exists || seen[node.ID] {
			return fmt.Errorf("duplicate technical list id: %s", node.ID)
		}
		seen[node.ID] = true
	}

	for _, node := range nodes {
		r.nodesMap[node.ID] = len(r.nodes)
		r.nodes = append(r.nodes, *node)
	}
	return nil
}

// GetNode returns a copy of the node with the given id
func (r *TechnicalListRepository) GetNode(id string) (*entities.TechnicalListNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.nodesMap[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrNodeNotFound, id)
	}
	node := r.nodes[index]
	return &node, nil
}

// GetAllNodes returns copies of all nodes in load order
func (r *TechnicalListRepository) GetAllNodes() ([]*entities.TechnicalListNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]*entities.TechnicalListNode, 0, len(r.nodes))
	for i := range r.nodes {
		node := r.nodes[i]
		nodes = append(nodes, &node)
	}
	return nodes, nil
}
