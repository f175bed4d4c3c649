package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
)

const itemColumns = `id, code, name, unit, stock, lead_time_days, kind, manufacturer, manufacturer_code`

// itemStore implements repositories.ItemRepository
type itemStore struct {
	db *sql.DB
}

var _ repositories.ItemRepository = (*itemStore)(nil)

func (s *itemStore) GetItem(id string) (*entities.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrItemNotFound, id)
	}
	return item, err
}

func (s *itemStore) GetItemByCode(code string) (*entities.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE code = ?`, code)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: code %s", entities.ErrItemNotFound, code)
	}
	return item, err
}

func (s *itemStore) GetAllItems() ([]*entities.Item, error) {
	rows, err := s.db.Query(`SELECT ` + itemColumns + ` FROM items ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []*entities.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *itemStore) LoadItems(items []*entities.Item) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		return insertItems(context.Background(), tx, items)
	})
}

func (s *itemStore) UpdateStock(id string, stock entities.Quantity) error {
	if stock.IsNegative() {
		return fmt.Errorf("stock cannot be negative, got %s", stock)
	}
	res, err := s.db.Exec(`UPDATE items SET stock = ? WHERE id = ?`, stock.String(), id)
	if err != nil {
		return fmt.Errorf("updating stock of %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", entities.ErrItemNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*entities.Item, error) {
	var (
		item  entities.Item
		stock string
		kind  int
	)
	err := row.Scan(&item.ID, &item.Code, &item.Name, &item.UnitOfMeasure, &stock,
		&item.LeadTimeDays, &kind, &item.Manufacturer, &item.ManufacturerCode)
	if err != nil {
		return nil, err
	}
	if item.Stock, err = decimal.NewFromString(stock); err != nil {
		return nil, fmt.Errorf("item %s stock: %w", item.ID, err)
	}
	item.Kind = entities.ItemKind(kind)
	return &item, nil
}

func insertItems(ctx context.Context, db execer, items []*entities.Item) error {
	for _, item := range items {
		_, err := db.ExecContext(ctx, `INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.Code, item.Name, item.UnitOfMeasure, item.Stock.String(),
			item.LeadTimeDays, int(item.Kind), item.Manufacturer, item.ManufacturerCode)
		if err != nil {
			return fmt.Errorf("inserting item %s: %w", item.ID, err)
		}
	}
	return nil
}

// nodeStore implements repositories.TechnicalListRepository
type nodeStore struct {
	db *sql.DB
}

var _ repositories.TechnicalListRepository = (*nodeStore)(nil)

func (s *nodeStore) GetNode(id string) (*entities.TechnicalListNode, error) {
	var node entities.TechnicalListNode
	var level int
	err := s.db.QueryRow(`SELECT id, code, name, level, parent_id, notes FROM technical_lists WHERE id = ?`, id).
		Scan(&node.ID, &node.Code, &node.Name, &level, &node.ParentID, &node.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrNodeNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying technical list %s: %w", id, err)
	}
	node.Level = entities.LevelKind(level)
	return &node, nil
}

func (s *nodeStore) GetAllNodes() ([]*entities.TechnicalListNode, error) {
	rows, err := s.db.Query(`SELECT id, code, name, level, parent_id, notes FROM technical_lists ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying technical lists: %w", err)
	}
	defer rows.Close()

	var nodes []*entities.TechnicalListNode
	for rows.Next() {
		var node entities.TechnicalListNode
		var level int
		if err := rows.Scan(&node.ID, &node.Code, &node.Name, &level, &node.ParentID, &node.Notes); err != nil {
			return nil, err
		}
		node.Level = entities.LevelKind(level)
		nodes = append(nodes, &node)
	}
	return nodes, rows.Err()
}

func (s *nodeStore) LoadNodes(nodes []*entities.TechnicalListNode) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		return insertNodes(context.Background(), tx, nodes)
	})
}

func insertNodes(ctx context.Context, db execer, nodes []*entities.TechnicalListNode) error {
	for _, node := range nodes {
		_, err := db.ExecContext(ctx,
			`INSERT INTO technical_lists (id, code, name, level, parent_id, notes) VALUES (?, ?, ?, ?, ?, ?)`,
			node.ID, node.Code, node.Name, int(node.Level), node.ParentID, node.Notes)
		if err != nil {
			return fmt.Errorf("inserting technical list %s: %w", node.ID, err)
		}
	}
	return nil
}

// bomStore implements repositories.BOMRepository
type bomStore struct {
	db *sql.DB
}

var _ repositories.BOMRepository = (*bomStore)(nil)

const edgeColumns = `sequence, parent_id, sub_list_id, component_id, quantity, weighting, comments`

func (s *bomStore) GetEdges(parentID string) ([]*entities.BOMEdge, error) {
	return s.query(`SELECT `+edgeColumns+` FROM bom_edges WHERE parent_id = ? ORDER BY sequence`, parentID)
}

func (s *bomStore) GetAllEdges() ([]*entities.BOMEdge, error) {
	return s.query(`SELECT ` + edgeColumns + ` FROM bom_edges ORDER BY sequence`)
}

func (s *bomStore) query(query string, args ...any) ([]*entities.BOMEdge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying BOM edges: %w", err)
	}
	defer rows.Close()

	edges := []*entities.BOMEdge{}
	for rows.Next() {
		var edge entities.BOMEdge
		var quantity, weighting string
		if err := rows.Scan(&edge.Sequence, &edge.ParentID, &edge.SubListID, &edge.ComponentID,
			&quantity, &weighting, &edge.Comments); err != nil {
			return nil, err
		}
		if edge.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("edge #%d quantity: %w", edge.Sequence, err)
		}
		if edge.Weighting, err = decimal.NewFromString(weighting); err != nil {
			return nil, fmt.Errorf("edge #%d weighting: %w", edge.Sequence, err)
		}
		edges = append(edges, &edge)
	}
	return edges, rows.Err()
}

func (s *bomStore) LoadEdges(edges []*entities.BOMEdge) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		return insertEdges(context.Background(), tx, edges)
	})
}

// insertEdges lets SQLite number edges that carry no sequence
func insertEdges(ctx context.Context, db execer, edges []*entities.BOMEdge) error {
	for i, edge := range edges {
		var sequence any
		if edge.Sequence > 0 {
			sequence = edge.Sequence
		}
		_, err := db.ExecContext(ctx, `INSERT INTO bom_edges (`+edgeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sequence, edge.ParentID, edge.SubListID, edge.ComponentID,
			edge.Quantity.String(), edge.Weighting.String(), edge.Comments)
		if err != nil {
			return fmt.Errorf("inserting BOM edge #%d under %s: %w", i, edge.ParentID, err)
		}
	}
	return nil
}

// orderStore implements repositories.OrderRepository
type orderStore struct {
	db *sql.DB
}

var _ repositories.OrderRepository = (*orderStore)(nil)

func (s *orderStore) GetOrders() ([]*entities.ProductionOrder, error) {
	rows, err := s.db.Query(`SELECT id, root_node_id, quantity, due_date, label FROM production_orders ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []*entities.ProductionOrder{}
	for rows.Next() {
		var order entities.ProductionOrder
		var quantity, due string
		if err := rows.Scan(&order.ID, &order.RootNodeID, &quantity, &due, &order.Label); err != nil {
			return nil, err
		}
		if order.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("order %s quantity: %w", order.ID, err)
		}
		if order.DueDate, err = time.Parse(dateLayout, due); err != nil {
			return nil, fmt.Errorf("order %s due date: %w", order.ID, err)
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

func (s *orderStore) LoadOrders(orders []*entities.ProductionOrder) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		return insertOrders(context.Background(), tx, orders)
	})
}

func insertOrders(ctx context.Context, db execer, orders []*entities.ProductionOrder) error {
	for _, order := range orders {
		_, err := db.ExecContext(ctx,
			`INSERT INTO production_orders (id, root_node_id, quantity, due_date, label) VALUES (?, ?, ?, ?, ?)`,
			order.ID, order.RootNodeID, order.Quantity.String(), order.DueDate.Format(dateLayout), order.Label)
		if err != nil {
			return fmt.Errorf("inserting order %s: %w", order.ID, err)
		}
	}
	return nil
}

func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	return tx.Commit()
}
