package tabular

// Table is an ordered sequence of rows sharing a column set. Cells are
// nullable: a nil cell means the source page had no value for that column.
type Table struct {
	Columns []string
	Rows    [][]*string
}

func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// AppendRow adds a row, padding short rows with nil so every row matches the
// column count. Extra trailing cells are dropped.
func (t *Table) AppendRow(cells []*string) {
	row := make([]*string, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	t.Rows = append(t.Rows, row)
}

// AppendStrings is AppendRow for cells that are all present.
func (t *Table) AppendStrings(cells []string) {
	row := make([]*string, len(cells))
	for i := range cells {
		v := cells[i]
		row[i] = &v
	}
	t.AppendRow(row)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Stack vertically concatenates other onto t. The result's column set is the
// superset of both, in t-first order; cells absent from a row's source table
// are nil.
func (t *Table) Stack(other *Table) *Table {
	if other == nil {
		return t
	}
	columns := append([]string(nil), t.Columns...)
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	for _, c := range other.Columns {
		if _, ok := index[c]; !ok {
			index[c] = len(columns)
			columns = append(columns, c)
		}
	}

	out := New(columns...)
	for _, row := range t.Rows {
		out.AppendRow(row)
	}
	for _, row := range other.Rows {
		mapped := make([]*string, len(columns))
		for i, c := range other.Columns {
			if i < len(row) {
				mapped[index[c]] = row[i]
			}
		}
		out.AppendRow(mapped)
	}
	return out
}

// Column returns the values of a single column, nil for missing cells, and
// false when the column does not exist.
func (t *Table) Column(name string) ([]*string, bool) {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		out := make([]*string, len(t.Rows))
		for j, row := range t.Rows {
			if i < len(row) {
				out[j] = row[i]
			}
		}
		return out, true
	}
	return nil, false
}
