package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/vsinha/bommrp/pkg/application/dto"
	"github.com/vsinha/bommrp/pkg/domain/entities"
)

type failureView struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
	Error   string `json:"error"`
}

type requirementsView struct {
	RunID        string               `json:"run_id"`
	Stats        dto.Stats            `json:"stats"`
	Requirements []dto.RequirementRow `json:"requirements"`
	Failures     []failureView        `json:"failures"`
}

func failureViews(result *dto.MRPResult) []failureView {
	views := make([]failureView, 0, len(result.Failures))
	for _, f := range result.Failures {
		views = append(views, failureView{OrderID: f.OrderID, Reason: f.Reason(), Error: f.Err.Error()})
	}
	return views
}

// WriteRequirements renders the purchase requirement report
func WriteRequirements(w io.Writer, format Format, result *dto.MRPResult, rows []dto.RequirementRow) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, requirementsView{
			RunID:        result.RunID,
			Stats:        result.Stats,
			Requirements: rows,
			Failures:     failureViews(result),
		})
	case FormatCSV:
		return writeRequirementsCSV(w, rows)
	default:
		return writeRequirementsText(w, result, rows)
	}
}

func writeRequirementsText(w io.Writer, result *dto.MRPResult, rows []dto.RequirementRow) error {
	fmt.Fprintf(w, "📊 MRP Results Summary\n")
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Run: %s\n", result.RunID)
	fmt.Fprintf(w, "Orders: %d exploded, %d failed\n", result.Stats.Exploded, result.Stats.Failed)
	fmt.Fprintf(w, "Demand lines: %d\n", result.Stats.DemandLines)
	fmt.Fprintf(w, "Items netted: %d (%d short)\n", result.Stats.Items, result.Stats.Shortages)
	fmt.Fprintf(w, "Explosion Time: %v\n\n", result.Stats.Duration)

	if len(rows) == 0 {
		fmt.Fprintf(w, "✅ No purchase requirements\n")
	} else {
		fmt.Fprintf(w, "📋 Purchase Requirements:\n")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Code\tName\tKind\tNecessary\tIn Stock\tShortage\tLead\tDue\tBuy By")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				r.Code, r.Name, r.Kind,
				r.Necessary.StringFixed(entities.QuantityPrecision), r.InStock.StringFixed(entities.QuantityPrecision), r.Shortage.StringFixed(entities.QuantityPrecision),
				r.LeadTimeDays, date(r.DueDate), date(r.PurchaseDate))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "\n⚠️  Failed Orders:\n")
		for _, f := range failureViews(result) {
			fmt.Fprintf(w, "  %s [%s] %s\n", f.OrderID, f.Reason, f.Error)
		}
	}
	return nil
}

func writeRequirementsCSV(w io.Writer, rows []dto.RequirementRow) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"item_id", "code", "name", "kind", "unit", "necessary", "in_stock",
		"shortage", "lead_time_days", "due_date", "purchase_date",
	})
	for _, r := range rows {
		_ = cw.Write([]string{
			r.ItemID, r.Code, r.Name, r.Kind, r.Unit,
			r.Necessary.String(), r.InStock.String(), r.Shortage.String(),
			strconv.Itoa(r.LeadTimeDays), date(r.DueDate), date(r.PurchaseDate),
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteDetail renders the per-order requirement breakdown
func WriteDetail(w io.Writer, format Format, rows []dto.DetailRow) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{
			"item_id", "item_code", "item_name", "order_id", "order_label", "root",
			"due_date", "order_quantity", "per_unit", "quantity", "paths",
			"total_necessary", "in_stock", "shortage",
		})
		for _, r := range rows {
			_ = cw.Write([]string{
				r.ItemID, r.ItemCode, r.ItemName, r.OrderID, r.OrderLabel, r.RootLabel,
				date(r.DueDate), r.OrderQuantity.String(), r.PerUnit.String(), r.Quantity.String(),
				strconv.Itoa(r.Paths), r.TotalNecessary.String(), r.InStock.String(), r.Shortage.String(),
			})
		}
		cw.Flush()
		return cw.Error()
	default:
		return writeDetailText(w, rows)
	}
}

// writeDetailText groups consecutive rows of the same item under one heading
func writeDetailText(w io.Writer, rows []dto.DetailRow) error {
	if len(rows) == 0 {
		fmt.Fprintf(w, "No order requirements\n")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	current := ""
	for _, r := range rows {
		if r.ItemID != current {
			if current != "" {
				fmt.Fprintln(tw)
			}
			current = r.ItemID
			fmt.Fprintf(tw, "📦 [%s] %s\tnecessary %s\tstock %s\tshortage %s\n",
				r.ItemCode, r.ItemName,
				r.TotalNecessary.StringFixed(entities.QuantityPrecision), r.InStock.StringFixed(entities.QuantityPrecision), r.Shortage.StringFixed(entities.QuantityPrecision))
		}
		fmt.Fprintf(tw, "  %s %s\t%s\tdue %s\t%s × %s = %s\n",
			r.OrderID, r.OrderLabel, r.RootLabel, date(r.DueDate),
			r.OrderQuantity.String(), r.PerUnit.StringFixed(entities.QuantityPrecision), r.Quantity.StringFixed(entities.QuantityPrecision))
	}
	return tw.Flush()
}
