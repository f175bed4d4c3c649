package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
)

// Scenario file names inside a scenario directory
const (
	ItemsFile          = "items.csv"
	TechnicalListsFile = "technical_lists.csv"
	BOMFile            = "bom.csv"
	OrdersFile         = "orders.csv"
)

var (
	itemsHeader          = []string{"id", "code", "name", "unit", "stock", "lead_time_days", "kind", "manufacturer", "manufacturer_code"}
	technicalListsHeader = []string{"id", "code", "name", "level", "parent_id", "notes"}
	bomHeader            = []string{"parent_id", "sub_list_id", "component_id", "quantity", "weighting", "comments"}
	ordersHeader         = []string{"id", "root_id", "quantity", "due_date", "label"}
)

// Loader handles loading catalog data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario reads the four scenario files from dir into the catalog.
// orders.csv is optional.
func (l *Loader) LoadScenario(dir string, catalog repositories.Catalog) error {
	items, err := l.LoadItems(filepath.Join(dir, ItemsFile))
	if err != nil {
		return err
	}
	nodes, err := l.LoadTechnicalLists(filepath.Join(dir, TechnicalListsFile))
	if err != nil {
		return err
	}
	edges, err := l.LoadBOM(filepath.Join(dir, BOMFile))
	if err != nil {
		return err
	}

	var orders []*entities.ProductionOrder
	ordersPath := filepath.Join(dir, OrdersFile)
	if _, statErr := os.Stat(ordersPath); statErr == nil {
		if orders, err = l.LoadOrders(ordersPath); err != nil {
			return err
		}
	}

	if err := catalog.Items.LoadItems(items); err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	if err := catalog.Nodes.LoadNodes(nodes); err != nil {
		return fmt.Errorf("failed to load technical lists: %w", err)
	}
	if err := catalog.BOM.LoadEdges(edges); err != nil {
		return fmt.Errorf("failed to load BOM: %w", err)
	}
	if err := catalog.Orders.LoadOrders(orders); err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	return nil
}

// LoadItems loads items from a CSV file
func (l *Loader) LoadItems(filename string) ([]*entities.Item, error) {
	records, err := readRecords(filename, "items", itemsHeader)
	if err != nil {
		return nil, err
	}

	var items []*entities.Item
	for i, record := range records {
		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// LoadTechnicalLists loads technical list nodes from a CSV file
func (l *Loader) LoadTechnicalLists(filename string) ([]*entities.TechnicalListNode, error) {
	records, err := readRecords(filename, "technical lists", technicalListsHeader)
	if err != nil {
		return nil, err
	}

	var nodes []*entities.TechnicalListNode
	for i, record := range records {
		level, err := entities.ParseLevelKind(record[3])
		if err != nil {
			return nil, fmt.Errorf("technical lists CSV row %d: %w", i+2, err)
		}
		node, err := entities.NewTechnicalListNode(record[0], record[1], record[2], level, strings.TrimSpace(record[4]))
		if err != nil {
			return nil, fmt.Errorf("technical lists CSV row %d: %w", i+2, err)
		}
		node.Notes = record[5]
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// LoadBOM loads BOM edges from a CSV file. Row order is creation order.
// Edge shape is not checked here: the graph builder reports malformed
// edges with their position.
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMEdge, error) {
	records, err := readRecords(filename, "BOM", bomHeader)
	if err != nil {
		return nil, err
	}

	var edges []*entities.BOMEdge
	for i, record := range records {
		edge, err := parseBOMEdge(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		edge.Sequence = i + 1
		edges = append(edges, edge)
	}

	return edges, nil
}

// LoadOrders loads production orders from a CSV file. Quantities are not
// checked here so a bad order is rejected alone during planning.
func (l *Loader) LoadOrders(filename string) ([]*entities.ProductionOrder, error) {
	records, err := readRecords(filename, "orders", ordersHeader)
	if err != nil {
		return nil, err
	}

	var orders []*entities.ProductionOrder
	for i, record := range records {
		order, err := parseOrder(record)
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: %w", i+2, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// LoadStockPosition reads a stock position file. It needs "code" and
// "quantity" columns in any position; other columns are ignored and
// repeated codes are summed.
func (l *Loader) LoadStockPosition(filename string) (map[string]entities.Quantity, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open stock file %s: %w", filename, err)
	}
	defer file.Close()

	return ParseStockPosition(file)
}

// ParseStockPosition is LoadStockPosition over a reader
func ParseStockPosition(r io.Reader) (map[string]entities.Quantity, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read stock CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("stock CSV must have a header")
	}

	codeCol, qtyCol := -1, -1
	for i, col := range records[0] {
		switch normalizeColumn(col) {
		case "code":
			codeCol = i
		case "quantity":
			qtyCol = i
		}
	}
	if codeCol < 0 || qtyCol < 0 {
		return nil, fmt.Errorf("stock CSV header must contain code and quantity columns, got %v", records[0])
	}

	position := make(map[string]entities.Quantity)
	for i, record := range records[1:] {
		if codeCol >= len(record) || qtyCol >= len(record) {
			return nil, fmt.Errorf("stock CSV row %d: expected at least %d columns, got %d", i+2, max(codeCol, qtyCol)+1, len(record))
		}
		code := strings.TrimSpace(record[codeCol])
		if code == "" {
			continue
		}
		qty, err := parseQuantity(record[qtyCol], decimal.Zero)
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: invalid quantity: %s", i+2, record[qtyCol])
		}
		if qty.IsNegative() {
			return nil, fmt.Errorf("stock CSV row %d: quantity cannot be negative, got %s", i+2, qty)
		}
		position[code] = position[code].Add(qty)
	}

	return position, nil
}

// Helper functions for parsing CSV records

func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if normalizeColumn(actual[i]) != col {
			return false
		}
	}

	return true
}

func normalizeColumn(col string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
}

// parseQuantity accepts a decimal comma; an empty cell yields fallback
func parseQuantity(s string, fallback decimal.Decimal) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func parseItem(record []string) (*entities.Item, error) {
	stock, err := parseQuantity(record[4], decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("invalid stock: %s", record[4])
	}

	leadTimeDays := 0
	if s := strings.TrimSpace(record[5]); s != "" {
		leadTimeDays, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid lead_time_days: %s", record[5])
		}
	}

	kind, err := entities.ParseItemKind(record[6])
	if err != nil {
		return nil, err
	}

	item, err := entities.NewItem(
		strings.TrimSpace(record[0]),
		strings.TrimSpace(record[1]),
		record[2],
		record[3],
		stock,
		leadTimeDays,
		kind,
	)
	if err != nil {
		return nil, err
	}
	item.Manufacturer = record[7]
	item.ManufacturerCode = record[8]
	return item, nil
}

func parseBOMEdge(record []string) (*entities.BOMEdge, error) {
	quantity, err := parseQuantity(record[3], decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[3])
	}

	weighting, err := parseQuantity(strings.TrimSuffix(strings.TrimSpace(record[4]), "%"), entities.DefaultWeighting)
	if err != nil {
		return nil, fmt.Errorf("invalid weighting: %s", record[4])
	}

	return &entities.BOMEdge{
		ParentID:    strings.TrimSpace(record[0]),
		SubListID:   strings.TrimSpace(record[1]),
		ComponentID: strings.TrimSpace(record[2]),
		Quantity:    quantity.Round(entities.QuantityPrecision),
		Weighting:   weighting,
		Comments:    record[5],
	}, nil
}

func parseOrder(record []string) (*entities.ProductionOrder, error) {
	id := strings.TrimSpace(record[0])
	if id == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}

	quantity, err := parseQuantity(record[2], decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[2])
	}

	dueDate, err := time.Parse(time.DateOnly, strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid due_date format: %s (expected YYYY-MM-DD)", record[3])
	}

	return &entities.ProductionOrder{
		ID:         id,
		RootNodeID: strings.TrimSpace(record[1]),
		Quantity:   quantity,
		DueDate:    dueDate,
		Label:      record[4],
	}, nil
}
