package stock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bommrp/pkg/domain/entities"
	"github.com/vsinha/bommrp/pkg/infrastructure/events"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/memory"
)

func q(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T) *memory.ItemRepository {
	t.Helper()
	repo := memory.NewItemRepository(4)
	require.NoError(t, repo.LoadItems([]*entities.Item{
		{ID: "1", Code: "C1", Stock: q("5"), Kind: entities.Component},
		{ID: "2", Code: "C2", Stock: q("8"), Kind: entities.Component},
		{ID: "3", Code: "C3", Stock: q("0"), Kind: entities.Component},
		{ID: "4", Code: "R1", Stock: q("9"), Kind: entities.RawMaterial},
	}))
	return repo
}

func stockOf(t *testing.T, repo *memory.ItemRepository, id string) decimal.Decimal {
	t.Helper()
	item, err := repo.GetItem(id)
	require.NoError(t, err)
	return item.Stock
}

func TestApplyPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opts   Options
		assert func(t *testing.T, repo *memory.ItemRepository, res Result)
	}{
		{
			name: "updates listed components only",
			opts: Options{},
			assert: func(t *testing.T, repo *memory.ItemRepository, res Result) {
				assert.Equal(t, 4, res.CodesInFile)
				assert.Equal(t, 1, res.Updated)
				assert.Equal(t, 0, res.Zeroed)
				assert.Equal(t, []string{"R1", "X9"}, res.Unmatched)
				assert.True(t, stockOf(t, repo, "1").Equal(q("12")))
				assert.True(t, stockOf(t, repo, "2").Equal(q("8")))
				assert.True(t, stockOf(t, repo, "4").Equal(q("9")), "raw materials untouched")
			},
		},
		{
			name: "zeroes missing components",
			opts: Options{ZeroMissing: true},
			assert: func(t *testing.T, repo *memory.ItemRepository, res Result) {
				assert.Equal(t, 1, res.Updated)
				assert.Equal(t, 0, res.Zeroed, "C3 is already zero and C2 is listed")
				assert.True(t, stockOf(t, repo, "3").IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := seed(t)
			position := map[string]decimal.Decimal{"C1": q("12"), "C2": q("8"), "R1": q("1"), "X9": q("3")}

			res, err := NewService(repo).ApplyPosition(context.Background(), position, tt.opts)
			require.NoError(t, err)

			tt.assert(t, repo, res)
		})
	}
}

func TestApplyPosition_ZeroMissing(t *testing.T) {
	t.Parallel()
	repo := seed(t)

	res, err := NewService(repo).ApplyPosition(context.Background(), map[string]decimal.Decimal{"C1": q("1")}, Options{ZeroMissing: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Zeroed)
	assert.True(t, stockOf(t, repo, "2").IsZero())
	assert.True(t, stockOf(t, repo, "4").Equal(q("9")))
}

func TestApplyPosition_Journal(t *testing.T) {
	t.Parallel()
	repo := seed(t)
	journal := events.NewInMemoryEventStore()

	_, err := NewService(repo, WithJournal(journal)).ApplyPosition(context.Background(),
		map[string]decimal.Decimal{"C1": q("2"), "C2": q("8")}, Options{ZeroMissing: true})
	require.NoError(t, err)

	all, err := journal.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 1, "C2 is unchanged and C3 already zero")
	assert.Equal(t, events.StockUpdatedEvent, all[0].Type())
	assert.Equal(t, "C1", all[0].StreamID())

	change := all[0].Data().(events.StockChanged)
	assert.True(t, change.Previous.Equal(q("5")))
	assert.True(t, change.Current.Equal(q("2")))
}
