// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryKey(t *testing.T) {
	tbl := &Table{
		Name: "events",
		Columns: []Column{
			{Name: "year", Type: "INTEGER", PKOrdinal: 2},
			{Name: "key", Type: "TEXT", PKOrdinal: 1},
			{Name: "name", Type: "TEXT"},
		},
	}
	assert.Equal(t, []string{"key", "year"}, tbl.PrimaryKey())
	assert.Equal(t, []string{"year", "key", "name"}, tbl.ColumnNames())

	tbl = &Table{
		Name: "matches",
		Columns: []Column{
			{Name: "key", Type: "TEXT"},
			{Name: "team_key", Type: "TEXT"},
		},
	}
	assert.Nil(t, tbl.PrimaryKey())
}

func TestMismatchReason(t *testing.T) {
	a := &Table{Name: "t", Columns: []Column{
		{Name: "a", Type: "INTEGER"},
		{Name: "b", Type: "TEXT"},
	}}
	b := &Table{Name: "t", Columns: []Column{
		{Name: "b", Type: "TEXT"},
		{Name: "a", Type: "INTEGER"},
	}}
	assert.Empty(t, MismatchReason(a, b), "column order must not matter")

	c := &Table{Name: "t", Columns: []Column{
		{Name: "a", Type: "INTEGER"},
		{Name: "b", Type: "TEXT"},
		{Name: "c", Type: "TEXT"},
	}}
	assert.Contains(t, MismatchReason(a, c), "column sets differ")

	d := &Table{Name: "t", Columns: []Column{
		{Name: "a", Type: "TEXT"},
		{Name: "b", Type: "TEXT"},
	}}
	assert.Contains(t, MismatchReason(a, d), `column "a"`)

	e := &Table{Name: "t", Columns: []Column{
		{Name: "a", Type: ""},
		{Name: "b", Type: "TEXT"},
	}}
	assert.Empty(t, MismatchReason(a, e), "undeclared type matches anything")
}
