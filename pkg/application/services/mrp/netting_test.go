package mrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bommrp/pkg/domain/entities"
)

func line(orderID, itemID, perUnit, qty string) entities.DemandLine {
	return entities.DemandLine{OrderID: orderID, ItemID: itemID, PerUnit: d(perUnit), Quantity: d(qty)}
}

func TestNetting_MergeOrderDoesNotChangeTotals(t *testing.T) {
	t.Parallel()
	items := []*entities.Item{
		{ID: "C1", Code: "C1", Stock: d("5"), LeadTimeDays: 3},
		{ID: "C2", Code: "C2", Stock: d("0"), LeadTimeDays: 10},
	}
	o1 := entities.ProductionOrder{ID: "OP1", Quantity: d("10"), DueDate: day("2024-02-01")}
	o2 := entities.ProductionOrder{ID: "OP2", Quantity: d("5"), DueDate: day("2024-01-20")}

	partial := func(o entities.ProductionOrder, lines ...entities.DemandLine) *Netting {
		n := NewNetting()
		n.AddOrder(o, "[S1] Series", lines)
		return n
	}
	p1 := partial(o1, line("OP1", "C1", "2", "20"), line("OP1", "C2", "1", "10"))
	p2 := partial(o2, line("OP2", "C1", "2", "10"))

	forward := NewNetting()
	forward.Merge(p1)
	forward.Merge(p2)
	backward := NewNetting()
	backward.Merge(p2)
	backward.Merge(p1)

	fw := forward.Requirements(items, NettingOptions{})
	bw := backward.Requirements(items, NettingOptions{})

	for _, id := range []string{"C1", "C2"} {
		assert.True(t, fw[id].Necessary.Equal(bw[id].Necessary), id)
		assert.Equal(t, fw[id].PurchaseDate, bw[id].PurchaseDate, id)
	}
	assert.True(t, fw["C1"].Necessary.Equal(d("30")))
	assert.Equal(t, day("2024-01-17"), fw["C1"].PurchaseDate)
	assert.Equal(t, day("2024-01-22"), fw["C2"].PurchaseDate)

	require.Len(t, fw["C1"].Contributions, 2)
	assert.Equal(t, "OP1", fw["C1"].Contributions[0].OrderID)
	assert.Equal(t, "OP2", bw["C1"].Contributions[0].OrderID)
}

func TestNetting_CollapsesPathsPerOrder(t *testing.T) {
	t.Parallel()
	items := []*entities.Item{{ID: "C1", Code: "C1", Stock: d("0")}}
	order := entities.ProductionOrder{ID: "OP1", Label: "Batch", Quantity: d("4"), DueDate: day("2024-03-01")}

	n := NewNetting()
	n.AddOrder(order, "[S1] Series", []entities.DemandLine{
		line("OP1", "C1", "1", "4"),
		line("OP1", "C1", "0.5", "2"),
	})
	reqs := n.Requirements(items, NettingOptions{})

	c := reqs["C1"].Contributions
	require.Len(t, c, 1)
	assert.Equal(t, 2, c[0].Paths)
	assert.Equal(t, "Batch", c[0].OrderLabel)
	assert.Equal(t, "[S1] Series", c[0].RootLabel)
	assert.True(t, c[0].PerUnit.Equal(d("1.5")))
	assert.True(t, c[0].LineQuantity.Equal(d("6")))
	assert.True(t, c[0].OrderQuantity.Equal(d("4")))
}

func TestNetting_ZeroContributionDoesNotMoveDate(t *testing.T) {
	t.Parallel()
	items := []*entities.Item{{ID: "C1", Code: "C1", Stock: d("0")}}

	n := NewNetting()
	n.AddOrder(entities.ProductionOrder{ID: "OP1", Quantity: d("1"), DueDate: day("2024-03-01")},
		"", []entities.DemandLine{line("OP1", "C1", "1", "1")})
	n.AddOrder(entities.ProductionOrder{ID: "OP2", Quantity: d("1"), DueDate: day("2024-01-01")},
		"", []entities.DemandLine{line("OP2", "C1", "0", "0")})

	reqs := n.Requirements(items, NettingOptions{})
	assert.Equal(t, day("2024-03-01"), reqs["C1"].EarliestDueDate)
	assert.Len(t, reqs["C1"].Contributions, 2)
}
