package merge

// Dataset is one table's rows loaded in full, each row positional
// against Columns. A nil cell is SQL NULL.
type Dataset struct {
	Columns []string
	Rows    [][]any
}

func NewDataset(columns []string) *Dataset {
	return &Dataset{
		Columns: columns,
	}
}

func (d *Dataset) Append(row []any) {
	d.Rows = append(d.Rows, row)
}

func (d *Dataset) Len() int {
	return len(d.Rows)
}
