package stock

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
	"github.com/vsinha/bommrp/pkg/infrastructure/events"
	"github.com/vsinha/bommrp/pkg/infrastructure/logger"
)

// Options controls how a stock position is applied
type Options struct {
	// ZeroMissing sets stock to zero for components absent from the position
	ZeroMissing bool
}

// Result counts what a stock import changed
type Result struct {
	CodesInFile int
	Updated     int
	Zeroed      int
	// Unmatched lists file codes with no component item, sorted
	Unmatched []string
}

// Service applies stock position files to component items
type Service struct {
	items   repositories.ItemRepository
	journal events.EventStore
}

// Option customizes a Service
type Option func(*Service)

// WithJournal appends a stock.updated or stock.zeroed event per changed item
func WithJournal(store events.EventStore) Option {
	return func(s *Service) { s.journal = store }
}

// NewService creates a stock service
func NewService(items repositories.ItemRepository, opts ...Option) *Service {
	s := &Service{items: items}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyPosition replaces component stock with the quantities in position,
// keyed by item code. Raw materials are left alone.
func (s *Service) ApplyPosition(ctx context.Context, position map[string]entities.Quantity, opts Options) (Result, error) {
	const op = "stock.ApplyPosition"

	items, err := s.items.GetAllItems()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	result := Result{CodesInFile: len(position)}
	matched := make(map[string]bool, len(position))

	for _, item := range items {
		if item.Kind != entities.Component {
			continue
		}
		qty, inFile := position[item.Code]
		switch {
		case inFile:
			matched[item.Code] = true
			if item.Stock.Equal(qty) {
				continue
			}
			if err := s.apply(ctx, events.StockUpdatedEvent, *item, qty); err != nil {
				return result, fmt.Errorf("%s: item %s: %w", op, item.Code, err)
			}
			result.Updated++
		case opts.ZeroMissing && !item.Stock.IsZero():
			if err := s.apply(ctx, events.StockZeroedEvent, *item, decimal.Zero); err != nil {
				return result, fmt.Errorf("%s: item %s: %w", op, item.Code, err)
			}
			result.Zeroed++
		}
	}

	for code := range position {
		if !matched[code] {
			result.Unmatched = append(result.Unmatched, code)
		}
	}
	slices.Sort(result.Unmatched)

	logger.Info(ctx, "stock position applied",
		logger.Int("codes_in_file", result.CodesInFile),
		logger.Int("updated", result.Updated),
		logger.Int("zeroed", result.Zeroed),
		logger.Int("unmatched", len(result.Unmatched)),
	)
	return result, nil
}

func (s *Service) apply(ctx context.Context, eventType string, item entities.Item, qty entities.Quantity) error {
	if err := s.items.UpdateStock(item.ID, qty); err != nil {
		return err
	}
	logger.Debug(ctx, eventType,
		logger.String("code", item.Code),
		logger.String("previous", item.Stock.String()),
		logger.String("current", qty.String()),
	)
	if s.journal == nil {
		return nil
	}
	return s.journal.AppendEvent(item.Code, events.NewStockChangedEvent(eventType, item, qty))
}
