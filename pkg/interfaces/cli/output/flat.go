package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vsinha/bommrp/pkg/application/services/projection"
	"github.com/vsinha/bommrp/pkg/domain/entities"
)

// FlatSeparator is the field separator of the flat BOM export
const FlatSeparator = ';'

var flatHeader = []string{
	"Series", "System", "Assembly", "Subassembly", "Item",
	"Component Code", "Component", "Quantity", "Weighting", "Weighted Quantity", "Comments",
}

// WriteFlat renders flat BOM projection rows
func WriteFlat(w io.Writer, format Format, rows []projection.Row) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatCSV:
		return writeFlatCSV(w, rows)
	default:
		return writeFlatText(w, rows)
	}
}

func writeFlatCSV(w io.Writer, rows []projection.Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = FlatSeparator

	orders := hasOrders(rows)
	header := flatHeader
	if orders {
		header = append(append([]string{"Order"}, flatHeader...), "Per Unit", "Line Quantity")
	}
	_ = cw.Write(header)

	for _, r := range rows {
		record := []string{
			r.Series, r.System, r.Assembly, r.Subassembly, r.ItemLevel,
			r.ComponentCode, r.ComponentName,
			r.Quantity.String(), r.Weighting.String() + "%", r.WeightedQuantity.String(), r.Comments,
		}
		if orders {
			record = append(append([]string{r.OrderID}, record...), r.PerUnit.String(), r.LineQuantity.String())
		}
		_ = cw.Write(record)
	}
	cw.Flush()
	return cw.Error()
}

func writeFlatText(w io.Writer, rows []projection.Row) error {
	if len(rows) == 0 {
		fmt.Fprintf(w, "No rows\n")
		return nil
	}

	orders := hasOrders(rows)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if orders {
		fmt.Fprintln(tw, "Path\tCode\tComponent\tQty\tWeighting\tWeighted\tPer unit\tLine qty\tComments")
	} else {
		fmt.Fprintln(tw, "Path\tCode\tComponent\tQty\tWeighting\tWeighted\tComments")
	}
	for _, r := range rows {
		name := r.ComponentName
		if r.Group {
			name = "▸ " + r.NodeID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\t",
			pathOf(r), r.ComponentCode, name,
			r.Quantity.String(), r.Weighting.String(), r.WeightedQuantity.StringFixed(entities.QuantityPrecision))
		if orders {
			fmt.Fprintf(tw, "%s\t%s\t",
				r.PerUnit.StringFixed(entities.QuantityPrecision), r.LineQuantity.StringFixed(entities.QuantityPrecision))
		}
		fmt.Fprintf(tw, "%s\n", r.Comments)
	}
	return tw.Flush()
}

func pathOf(r projection.Row) string {
	parts := make([]string, 0, 5)
	for _, name := range []string{r.Series, r.System, r.Assembly, r.Subassembly, r.ItemLevel} {
		if name != "" {
			parts = append(parts, name)
		}
	}
	path := strings.Join(parts, " / ")
	if r.OrderID != "" {
		path = r.OrderID + ": " + path
	}
	return path
}

func hasOrders(rows []projection.Row) bool {
	for _, r := range rows {
		if r.OrderID != "" {
			return true
		}
	}
	return false
}
