package mrp

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// NettingOptions controls which items the aggregator reports
type NettingOptions struct {
	// IncludeIdle lists every catalog item, including those no order needs
	IncludeIdle bool
}

type nettingEntry struct {
	necessary     entities.Quantity
	earliest      time.Time
	contributions []entities.OrderContribution
}

// Netting accumulates demand per item. A Netting holds one or more orders'
// worth of demand; partial accumulators are combined with Merge. Sums and
// earliest dates do not depend on merge order; contributions keep the order
// in which partials were merged.
type Netting struct {
	entries map[string]*nettingEntry
}

// NewNetting creates an empty accumulator
func NewNetting() *Netting {
	return &Netting{entries: make(map[string]*nettingEntry)}
}

// AddOrder folds one order's demand lines into the accumulator. Lines for the
// same item collapse into a single contribution that counts the paths.
func (n *Netting) AddOrder(order entities.ProductionOrder, rootLabel string, lines []entities.DemandLine) {
	byItem := make(map[string]int)
	var contributions []entities.OrderContribution
	var itemOrder []string

	for _, line := range lines {
		idx, ok := byItem[line.ItemID]
		if !ok {
			idx = len(contributions)
			byItem[line.ItemID] = idx
			itemOrder = append(itemOrder, line.ItemID)
			contributions = append(contributions, entities.OrderContribution{
				OrderID:       order.ID,
				OrderLabel:    order.DisplayLabel(),
				RootLabel:     rootLabel,
				DueDate:       order.DueDate,
				OrderQuantity: order.Quantity,
				PerUnit:       decimal.Zero,
				LineQuantity:  decimal.Zero,
			})
		}
		c := &contributions[idx]
		c.PerUnit = c.PerUnit.Add(line.PerUnit)
		c.LineQuantity = c.LineQuantity.Add(line.Quantity)
		c.Paths++
	}

	for _, itemID := range itemOrder {
		c := contributions[byItem[itemID]]
		entry := n.entry(itemID)
		entry.necessary = entry.necessary.Add(c.LineQuantity)
		if c.LineQuantity.IsPositive() {
			entry.earliest = earliest(entry.earliest, order.DueDate)
		}
		entry.contributions = append(entry.contributions, c)
	}
}

// Merge adds other's demand into n
func (n *Netting) Merge(other *Netting) {
	for itemID, o := range other.entries {
		entry := n.entry(itemID)
		entry.necessary = entry.necessary.Add(o.necessary)
		entry.earliest = earliest(entry.earliest, o.earliest)
		entry.contributions = append(entry.contributions, o.contributions...)
	}
}

func (n *Netting) entry(itemID string) *nettingEntry {
	e, ok := n.entries[itemID]
	if !ok {
		e = &nettingEntry{necessary: decimal.Zero}
		n.entries[itemID] = e
	}
	return e
}

// Requirements nets the accumulated demand against each item's stock.
// Items whose necessary quantity is zero are left out unless IncludeIdle.
func (n *Netting) Requirements(items []*entities.Item, opts NettingOptions) map[string]*entities.NettedRequirement {
	out := make(map[string]*entities.NettedRequirement)

	for _, item := range items {
		entry, ok := n.entries[item.ID]
		if (!ok || entry.necessary.IsZero()) && !opts.IncludeIdle {
			continue
		}

		req := &entities.NettedRequirement{
			Item:         *item,
			Necessary:    decimal.Zero,
			InStock:      item.Stock,
			Shortage:     decimal.Zero,
			LeadTimeDays: item.LeadTimeDays,
		}
		if ok {
			req.Necessary = entry.necessary
			req.Shortage = decimal.Max(decimal.Zero, entry.necessary.Sub(item.Stock))
			req.EarliestDueDate = entry.earliest
			req.Contributions = append([]entities.OrderContribution(nil), entry.contributions...)
			if !entry.earliest.IsZero() {
				req.PurchaseDate = entry.earliest.AddDate(0, 0, -item.LeadTimeDays)
			}
		}
		out[item.ID] = req
	}

	return out
}

func earliest(a, b time.Time) time.Time {
	if a.IsZero() {
		return b
	}
	if b.IsZero() || a.Before(b) {
		return a
	}
	return b
}
