// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbmerge/dbmerge/pkg/slice"
)

// Column is one column of a table's declared schema.
type Column struct {
	Name string

	// Type is the declared column type, upper-cased. Empty when the
	// schema declares none.
	Type string

	NotNull bool

	// PKOrdinal is the column's 1-based position within the table's
	// primary key, 0 when the column is not part of it.
	PKOrdinal int
}

// Table is a table's declared schema: a name and its columns in
// declaration order.
type Table struct {
	Name    string
	Columns []Column
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns the names of the primary key columns in key order,
// or nil when the table declares no primary key.
func (t *Table) PrimaryKey() []string {
	cols := []Column{}
	for _, c := range t.Columns {
		if c.PKOrdinal > 0 {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil
	}
	sort.Slice(cols, func(i, j int) bool {
		return cols[i].PKOrdinal < cols[j].PKOrdinal
	})
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func (t *Table) column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// MismatchReason compares the schemas of the same table from two
// sources. It returns an empty string when the table can be merged,
// otherwise a description of the first mismatch found: differing
// column-name sets, or a shared column declared with conflicting types.
func MismatchReason(a, b *Table) string {
	if !slice.SameStringSet(a.ColumnNames(), b.ColumnNames()) {
		_, added, removed := slice.CompareStringSlices(a.ColumnNames(), b.ColumnNames())
		sl := []string{}
		for _, s := range added {
			sl = append(sl, "+"+s)
		}
		for _, s := range removed {
			sl = append(sl, "-"+s)
		}
		return fmt.Sprintf("column sets differ (%s)", strings.Join(sl, ", "))
	}
	for _, c := range a.Columns {
		o, ok := b.column(c.Name)
		if !ok {
			continue
		}
		if c.Type != "" && o.Type != "" && c.Type != o.Type {
			return fmt.Sprintf("column %q declared as %s on one side and %s on the other", c.Name, c.Type, o.Type)
		}
	}
	return ""
}
