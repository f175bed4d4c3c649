package events

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bommrp/pkg/domain/entities"
)

type recordingHandler struct {
	seen []string
	fail bool
}

func (h *recordingHandler) Handle(event Event) error {
	h.seen = append(h.seen, event.StreamID())
	if h.fail {
		return errors.New("boom")
	}
	return nil
}

func (h *recordingHandler) CanHandle(eventType string) bool {
	return eventType == StockZeroedEvent
}

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore()
	bolt := entities.Item{ID: "1", Code: "CMP-001", Stock: decimal.NewFromInt(5)}
	plate := entities.Item{ID: "2", Code: "RM-001", Stock: decimal.NewFromInt(3)}

	require.NoError(t, store.AppendEvent(bolt.Code, NewStockChangedEvent(StockUpdatedEvent, bolt, decimal.NewFromInt(7))))
	require.NoError(t, store.AppendEvent(plate.Code, NewStockChangedEvent(StockZeroedEvent, plate, decimal.Zero)))
	require.NoError(t, store.AppendEvent(bolt.Code, NewStockChangedEvent(StockUpdatedEvent, bolt, decimal.NewFromInt(9))))

	boltEvents, err := store.ReadEvents(bolt.Code, 0)
	require.NoError(t, err)
	require.Len(t, boltEvents, 2)
	assert.Equal(t, 1, boltEvents[0].Version())
	assert.Equal(t, 2, boltEvents[1].Version())

	change := boltEvents[1].Data().(StockChanged)
	assert.Equal(t, "5", change.Previous.String())
	assert.Equal(t, "9", change.Current.String())

	fromSecond, err := store.ReadEvents(bolt.Code, 2)
	require.NoError(t, err)
	assert.Len(t, fromSecond, 1)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, StockZeroedEvent, all[0].Type())

	none, err := store.ReadEvents("unknown", 1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemoryEventStore_NotifiesSubscribers(t *testing.T) {
	store := NewInMemoryEventStore()
	handler := &recordingHandler{fail: true}
	require.NoError(t, store.Subscribe([]string{StockZeroedEvent}, handler))

	item := entities.Item{ID: "1", Code: "CMP-001", Stock: decimal.NewFromInt(5)}
	require.NoError(t, store.AppendEvent(item.Code, NewStockChangedEvent(StockUpdatedEvent, item, decimal.NewFromInt(1))))
	require.NoError(t, store.AppendEvent(item.Code, NewStockChangedEvent(StockZeroedEvent, item, decimal.Zero)))

	assert.Equal(t, []string{"CMP-001"}, handler.seen, "handler errors do not fail the append")
}

func TestStockChanges_SkipsOtherEvents(t *testing.T) {
	store := NewInMemoryEventStore()
	bolt := entities.Item{ID: "1", Code: "CMP-001", Stock: decimal.NewFromInt(5)}

	require.NoError(t, store.AppendEvent("run", NewEvent("plan.finished", "run", "run-1")))
	require.NoError(t, store.AppendEvent(bolt.Code, NewStockChangedEvent(StockUpdatedEvent, bolt, decimal.NewFromInt(7))))

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	changes := StockChanges(all)
	require.Len(t, changes, 1)
	assert.Equal(t, "CMP-001", changes[0].Code)
	assert.True(t, changes[0].Previous.Equal(decimal.NewFromInt(5)))
	assert.True(t, changes[0].Current.Equal(decimal.NewFromInt(7)))
}
