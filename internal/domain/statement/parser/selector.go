package parser

// SelectWorking picks the table most likely to be the transaction ledger
// from the extraction engine's output. The table with the most data rows is
// the anchor; every table with the same column count is concatenated onto it
// in encounter order, which stitches multi-page statements back together
// when the engine emits one table per page. Returns false when the
// candidate list is empty.
func SelectWorking(tables []Table) (Table, bool) {
	if len(tables) == 0 {
		return Table{}, false
	}

	anchor := tables[0]
	for _, t := range tables[1:] {
		if t.RowCount() > anchor.RowCount() {
			anchor = t
		}
	}

	var matching []Table
	for _, t := range tables {
		if t.ColumnCount() == anchor.ColumnCount() {
			matching = append(matching, t)
		}
	}
	if len(matching) <= 1 {
		return anchor, true
	}

	merged := Table{Headers: anchor.Headers}
	for _, t := range matching {
		merged.Rows = append(merged.Rows, t.Rows...)
	}
	return merged, true
}
