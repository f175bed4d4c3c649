package mrp

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bommrp/pkg/application/dto"
	"github.com/vsinha/bommrp/pkg/domain/entities"
)

type snapshotBuilder struct {
	snap dto.Snapshot
	seq  int
}

func newSnapshot() *snapshotBuilder { return &snapshotBuilder{} }

func (b *snapshotBuilder) node(id string, level entities.LevelKind, parent string) *snapshotBuilder {
	b.snap.Nodes = append(b.snap.Nodes, &entities.TechnicalListNode{
		ID: id, Code: id, Name: "List " + id, Level: level, ParentID: parent,
	})
	return b
}

func (b *snapshotBuilder) item(id string, stock string, leadTime int) *snapshotBuilder {
	b.snap.Items = append(b.snap.Items, &entities.Item{
		ID: id, Code: id, Name: "Item " + id, UnitOfMeasure: "EA",
		Stock: d(stock), LeadTimeDays: leadTime, Kind: entities.Component,
	})
	return b
}

func (b *snapshotBuilder) sub(parent, child, qty, weighting string) *snapshotBuilder {
	return b.edge(entities.BOMEdge{ParentID: parent, SubListID: child, Quantity: d(qty), Weighting: d(weighting)})
}

func (b *snapshotBuilder) comp(parent, item, qty, weighting string) *snapshotBuilder {
	return b.edge(entities.BOMEdge{ParentID: parent, ComponentID: item, Quantity: d(qty), Weighting: d(weighting)})
}

func (b *snapshotBuilder) edge(e entities.BOMEdge) *snapshotBuilder {
	b.seq++
	e.Sequence = b.seq
	b.snap.Edges = append(b.snap.Edges, &e)
	return b
}

func (b *snapshotBuilder) order(id, root, qty, due string) *snapshotBuilder {
	b.snap.Orders = append(b.snap.Orders, &entities.ProductionOrder{
		ID: id, RootNodeID: root, Quantity: d(qty), DueDate: day(due),
	})
	return b
}

func (b *snapshotBuilder) build() dto.Snapshot { return b.snap }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// scenarioLiteral is Series S1 -> Assembly A1 (qty 2) -> C1, levels skipped
func scenarioLiteral(weighting string) *snapshotBuilder {
	return newSnapshot().
		node("S1", entities.Series, "").
		node("A1", entities.Assembly, "S1").
		item("C1", "5", 3).
		sub("S1", "A1", "2", weighting).
		comp("A1", "C1", "1", "100")
}

// scenarioChain is the same demand through every level with unit edges in between
func scenarioChain(weighting string) *snapshotBuilder {
	return newSnapshot().
		node("S1", entities.Series, "").
		node("SY1", entities.System, "S1").
		node("A1", entities.Assembly, "SY1").
		item("C1", "5", 3).
		sub("S1", "SY1", "1", "100").
		sub("SY1", "A1", "2", weighting).
		comp("A1", "C1", "1", "100")
}
