package repositories

import "github.com/vsinha/bommrp/pkg/domain/entities"

// BOMRepository provides access to technical list composition edges
type BOMRepository interface {
	// GetEdges returns the edges under a parent node in creation order
	GetEdges(parentID string) ([]*entities.BOMEdge, error)
	GetAllEdges() ([]*entities.BOMEdge, error)
	LoadEdges(edges []*entities.BOMEdge) error
}

// Catalog bundles the repositories a planning run reads from
type Catalog struct {
	Items  ItemRepository
	Nodes  TechnicalListRepository
	BOM    BOMRepository
	Orders OrderRepository
}
