package dto

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// RequirementReportOptions filters the purchase requirement report
type RequirementReportOptions struct {
	// IncludeCovered also lists items whose stock covers the requirement
	IncludeCovered bool
	// Kind restricts the report to one item kind when set
	Kind *entities.ItemKind
}

// RequirementRow is one line of the purchase requirement report
type RequirementRow struct {
	ItemID       string            `json:"item_id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Kind         string            `json:"kind"`
	Unit         string            `json:"unit"`
	Necessary    entities.Quantity `json:"necessary"`
	InStock      entities.Quantity `json:"in_stock"`
	Shortage     entities.Quantity `json:"shortage"`
	LeadTimeDays int               `json:"lead_time_days"`
	DueDate      time.Time         `json:"due_date"`
	PurchaseDate time.Time         `json:"purchase_date"`
}

// BuildRequirementReport lists netted requirements sorted by kind, then code
func BuildRequirementReport(result *MRPResult, opts RequirementReportOptions) []RequirementRow {
	reqs := lo.Filter(lo.Values(result.Requirements), func(r *entities.NettedRequirement, _ int) bool {
		if opts.Kind != nil && r.Item.Kind != *opts.Kind {
			return false
		}
		return opts.IncludeCovered || r.HasShortage()
	})

	rows := lo.Map(reqs, func(r *entities.NettedRequirement, _ int) RequirementRow {
		return RequirementRow{
			ItemID:       r.Item.ID,
			Code:         r.Item.Code,
			Name:         r.Item.Name,
			Kind:         r.Item.Kind.String(),
			Unit:         r.Item.UnitOfMeasure,
			Necessary:    r.Necessary,
			InStock:      r.InStock,
			Shortage:     r.Shortage,
			LeadTimeDays: r.LeadTimeDays,
			DueDate:      r.EarliestDueDate,
			PurchaseDate: r.PurchaseDate,
		}
	})
	slices.SortFunc(rows, func(a, b RequirementRow) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Code, b.Code), cmp.Compare(a.ItemID, b.ItemID))
	})
	return rows
}

// DetailReportOptions filters the per-order detail report
type DetailReportOptions struct {
	// OrderFilter keeps orders whose id or label contains it, case-insensitively
	OrderFilter string
}

// DetailRow is one (item, order) pair of the detail report
type DetailRow struct {
	ItemID         string            `json:"item_id"`
	ItemCode       string            `json:"item_code"`
	ItemName       string            `json:"item_name"`
	OrderID        string            `json:"order_id"`
	OrderLabel     string            `json:"order_label"`
	RootLabel      string            `json:"root"`
	DueDate        time.Time         `json:"due_date"`
	OrderQuantity  entities.Quantity `json:"order_quantity"`
	PerUnit        entities.Quantity `json:"per_unit"`
	Quantity       entities.Quantity `json:"quantity"`
	Paths          int               `json:"paths"`
	TotalNecessary entities.Quantity `json:"total_necessary"`
	InStock        entities.Quantity `json:"in_stock"`
	Shortage       entities.Quantity `json:"shortage"`
}

// BuildDetailReport breaks each item's requirement down by order, sorted by
// item name and then by order input order
func BuildDetailReport(result *MRPResult, opts DetailReportOptions) []DetailRow {
	orderPos := make(map[string]int, len(result.Orders))
	for i, o := range result.Orders {
		orderPos[o.ID] = i
	}
	filter := strings.ToLower(strings.TrimSpace(opts.OrderFilter))

	var rows []DetailRow
	for _, req := range result.Requirements {
		for _, c := range req.Contributions {
			if filter != "" &&
				!strings.Contains(strings.ToLower(c.OrderID), filter) &&
				!strings.Contains(strings.ToLower(c.OrderLabel), filter) {
				continue
			}
			rows = append(rows, DetailRow{
				ItemID:         req.Item.ID,
				ItemCode:       req.Item.Code,
				ItemName:       req.Item.Name,
				OrderID:        c.OrderID,
				OrderLabel:     c.OrderLabel,
				RootLabel:      c.RootLabel,
				DueDate:        c.DueDate,
				OrderQuantity:  c.OrderQuantity,
				PerUnit:        c.PerUnit,
				Quantity:       c.LineQuantity,
				Paths:          c.Paths,
				TotalNecessary: req.Necessary,
				InStock:        req.InStock,
				Shortage:       req.Shortage,
			})
		}
	}

	slices.SortFunc(rows, func(a, b DetailRow) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.ItemName), strings.ToLower(b.ItemName)),
			cmp.Compare(a.ItemCode, b.ItemCode),
			cmp.Compare(orderPos[a.OrderID], orderPos[b.OrderID]),
		)
	})
	return rows
}
