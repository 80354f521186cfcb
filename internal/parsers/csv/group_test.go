package csv

import (
	"testing"

	"github.com/presupuestos/budget-service/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByQuoteID(t *testing.T) {
	rows := []types.QuoteLineRow{
		{ID: "P-2", NroItem: 1},
		{ID: "P-1", NroItem: 1},
		{ID: "", NroItem: 9},
		{ID: "P-2", NroItem: 2},
		{ID: "P-1", NroItem: 2},
		{ID: "P-2", NroItem: 3},
	}

	groups := GroupByQuoteID(rows)
	require.Len(t, groups, 2)

	assert.Equal(t, "P-2", groups[0].ID, "groups follow first occurrence")
	assert.Equal(t, "P-1", groups[1].ID)

	var items []int
	for _, r := range groups[0].Rows {
		items = append(items, r.NroItem)
	}
	assert.Equal(t, []int{1, 2, 3}, items, "rows keep file order")
	assert.Len(t, groups[1].Rows, 2)
}

func TestGroupByQuoteIDEmpty(t *testing.T) {
	groups := GroupByQuoteID(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
