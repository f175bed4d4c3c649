package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/bommrp/pkg/domain/repositories"
)

// WriteScenario writes the catalog as a scenario directory LoadScenario can read
func WriteScenario(dir string, catalog repositories.Catalog) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}

	items, err := catalog.Items.GetAllItems()
	if err != nil {
		return err
	}
	nodes, err := catalog.Nodes.GetAllNodes()
	if err != nil {
		return err
	}
	edges, err := catalog.BOM.GetAllEdges()
	if err != nil {
		return err
	}
	orders, err := catalog.Orders.GetOrders()
	if err != nil {
		return err
	}

	itemRows := make([][]string, 0, len(items))
	for _, item := range items {
		itemRows = append(itemRows, []string{
			item.ID, item.Code, item.Name, item.UnitOfMeasure, item.Stock.String(),
			strconv.Itoa(item.LeadTimeDays), item.Kind.String(), item.Manufacturer, item.ManufacturerCode,
		})
	}
	nodeRows := make([][]string, 0, len(nodes))
	for _, node := range nodes {
		nodeRows = append(nodeRows, []string{
			node.ID, node.Code, node.Name, node.Level.String(), node.ParentID, node.Notes,
		})
	}
	edgeRows := make([][]string, 0, len(edges))
	for _, edge := range edges {
		edgeRows = append(edgeRows, []string{
			edge.ParentID, edge.SubListID, edge.ComponentID,
			edge.Quantity.String(), edge.Weighting.String(), edge.Comments,
		})
	}
	orderRows := make([][]string, 0, len(orders))
	for _, order := range orders {
		orderRows = append(orderRows, []string{
			order.ID, order.RootNodeID, order.Quantity.String(), order.DueDate.Format(time.DateOnly), order.Label,
		})
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{ItemsFile, itemsHeader, itemRows},
		{TechnicalListsFile, technicalListsHeader, nodeRows},
		{BOMFile, bomHeader, edgeRows},
		{OrdersFile, ordersHeader, orderRows},
	}
	for _, f := range files {
		if err := writeRecords(filepath.Join(dir, f.name), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeRecords(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}
