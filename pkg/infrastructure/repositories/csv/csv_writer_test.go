package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/memory"
)

func TestWriteScenario_ReloadsUnchanged(t *testing.T) {
	t.Parallel()
	original := memory.NewCatalog()
	require.NoError(t, NewLoader().LoadScenario(scenarioDir, original))

	dir := t.TempDir()
	require.NoError(t, WriteScenario(dir, original))

	reloaded := memory.NewCatalog()
	require.NoError(t, NewLoader().LoadScenario(dir, reloaded))

	wantItems, _ := original.Items.GetAllItems()
	gotItems, _ := reloaded.Items.GetAllItems()
	require.Len(t, gotItems, len(wantItems))
	for i := range wantItems {
		assert.Equal(t, wantItems[i].Code, gotItems[i].Code)
		assert.Equal(t, wantItems[i].Kind, gotItems[i].Kind)
		assert.True(t, wantItems[i].Stock.Equal(gotItems[i].Stock), "stock of %s", wantItems[i].Code)
	}

	wantEdges, _ := original.BOM.GetAllEdges()
	gotEdges, _ := reloaded.BOM.GetAllEdges()
	require.Len(t, gotEdges, len(wantEdges))
	for i := range wantEdges {
		assert.Equal(t, wantEdges[i].ChildID(), gotEdges[i].ChildID())
		assert.True(t, wantEdges[i].Quantity.Equal(gotEdges[i].Quantity))
		assert.True(t, wantEdges[i].Weighting.Equal(gotEdges[i].Weighting))
		assert.Equal(t, wantEdges[i].Sequence, gotEdges[i].Sequence)
	}

	wantNodes, _ := original.Nodes.GetAllNodes()
	gotNodes, _ := reloaded.Nodes.GetAllNodes()
	assert.Equal(t, wantNodes, gotNodes)

	wantOrders, _ := original.Orders.GetOrders()
	gotOrders, _ := reloaded.Orders.GetOrders()
	assert.Equal(t, wantOrders, gotOrders)
}
