// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package merge

import (
	"fmt"
	"sort"

	"github.com/dbmerge/dbmerge/pkg/slice"
)

// Merge combines two datasets of the same table keyed on keyColumns.
// Rows are aligned by merge-key tuple. Where both sides have a row, the
// priority side's cells win field by field unless NULL, in which case
// the fallback cell survives. Rows present on only one side pass
// through verbatim. The result carries the priority side's column order
// and is sorted by ascending key tuple, each key exactly once.
//
// The caller must have verified that both datasets share one column
// set. Duplicate keys within one dataset violate the source table's own
// uniqueness constraint and yield unspecified results.
func Merge(priority, fallback *Dataset, keyColumns []string) (*Dataset, error) {
	if len(keyColumns) == 0 {
		return nil, fmt.Errorf("no key columns given")
	}
	pIndices, err := slice.KeyIndices(priority.Columns, keyColumns)
	if err != nil {
		return nil, fmt.Errorf("priority rows: %w", err)
	}
	fIndices, err := slice.KeyIndices(fallback.Columns, keyColumns)
	if err != nil {
		return nil, fmt.Errorf("fallback rows: %w", err)
	}
	// fallback rows may order their columns differently
	proj, err := slice.KeyIndices(fallback.Columns, priority.Columns)
	if err != nil {
		return nil, fmt.Errorf("fallback rows: %w", err)
	}

	pRows, err := indexRows(priority, pIndices, "priority")
	if err != nil {
		return nil, err
	}
	fRows, err := indexRows(fallback, fIndices, "fallback")
	if err != nil {
		return nil, err
	}

	type entry struct {
		key []any
		enc string
	}
	union := []entry{}
	seen := map[string]struct{}{}
	collect := func(d *Dataset, indices []int) error {
		for _, row := range d.Rows {
			key := slice.IndicesToValues(row, indices)
			enc, err := encodeKey(key)
			if err != nil {
				return err
			}
			if _, ok := seen[enc]; ok {
				continue
			}
			seen[enc] = struct{}{}
			union = append(union, entry{key: key, enc: enc})
		}
		return nil
	}
	if err = collect(priority, pIndices); err != nil {
		return nil, err
	}
	if err = collect(fallback, fIndices); err != nil {
		return nil, err
	}
	sort.Slice(union, func(i, j int) bool {
		return CompareKeys(union[i].key, union[j].key) < 0
	})

	merged := NewDataset(append([]string{}, priority.Columns...))
	for _, e := range union {
		var row []any
		if fRow, ok := fRows[e.enc]; ok {
			row = make([]any, len(priority.Columns))
			for i, j := range proj {
				row[i] = fRow[j]
			}
		}
		if pRow, ok := pRows[e.enc]; ok {
			if row == nil {
				row = append([]any{}, pRow...)
			} else {
				for i, v := range pRow {
					if v != nil {
						row[i] = v
					}
				}
			}
		}
		merged.Append(row)
	}
	return merged, nil
}

func indexRows(d *Dataset, keyIndices []int, side string) (map[string][]any, error) {
	m := make(map[string][]any, d.Len())
	for i, row := range d.Rows {
		enc, err := encodeKey(slice.IndicesToValues(row, keyIndices))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", side, i, err)
		}
		m[enc] = row
	}
	return m, nil
}
