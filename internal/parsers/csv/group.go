package csv

import "github.com/presupuestos/budget-service/internal/types"

// QuoteGroup holds the line item rows of one quote ID in file order
type QuoteGroup struct {
	ID   string
	Rows []types.QuoteLineRow
}

// GroupByQuoteID groups rows by quote ID.
// Rows with an empty ID are dropped. Groups are ordered by first occurrence.
func GroupByQuoteID(rows []types.QuoteLineRow) []QuoteGroup {
	groups := make([]QuoteGroup, 0)
	index := make(map[string]int)

	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		i, ok := index[row.ID]
		if !ok {
			i = len(groups)
			index[row.ID] = i
			groups = append(groups, QuoteGroup{ID: row.ID})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	return groups
}
