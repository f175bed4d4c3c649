package events

import (
	"github.com/vsinha/bommrp/pkg/domain/entities"
)

const (
	StockUpdatedEvent = "stock.updated"
	StockZeroedEvent  = "stock.zeroed"
)

// StockChanged records one item's stock before and after an import
type StockChanged struct {
	ItemID   string            `json:"item_id"`
	Code     string            `json:"code"`
	Previous entities.Quantity `json:"previous"`
	Current  entities.Quantity `json:"current"`
}

// NewStockChangedEvent streams stock changes by item code
func NewStockChangedEvent(eventType string, item entities.Item, current entities.Quantity) Event {
	return NewEvent(eventType, item.Code, StockChanged{
		ItemID:   item.ID,
		Code:     item.Code,
		Previous: item.Stock,
		Current:  current,
	})
}

// StockChanges returns the stock changes carried by events, in order,
// skipping events of any other kind
func StockChanges(journal []Event) []StockChanged {
	changes := make([]StockChanged, 0, len(journal))
	for _, e := range journal {
		if change, ok := e.Data().(StockChanged); ok {
			changes = append(changes, change)
		}
	}
	return changes
}
