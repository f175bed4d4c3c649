package repositories

import "github.com/vsinha/bommrp/pkg/domain/entities"

// ItemRepository provides access to component and raw material master data
type ItemRepository interface {
	GetItem(id string) (*entities.Item, error)
	GetItemByCode(code string) (*entities.Item, error)
	GetAllItems() ([]*entities.Item, error)
	LoadItems(items []*entities.Item) error
	// UpdateStock replaces the on-hand quantity of an item
	UpdateStock(id string, stock entities.Quantity) error
}

// TechnicalListRepository provides access to the technical list hierarchy
type TechnicalListRepository interface {
	GetNode(id string) (*entities.TechnicalListNode, error)
	GetAllNodes() ([]*entities.TechnicalListNode, error)
	LoadNodes(nodes []*entities.TechnicalListNode) error
}

// OrderRepository provides access to production orders
type OrderRepository interface {
	GetOrders() ([]*entities.ProductionOrder, error)
	LoadOrders(orders []*entities.ProductionOrder) error
}
