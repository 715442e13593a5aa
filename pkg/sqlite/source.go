// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbmerge/dbmerge/pkg/merge"
	"github.com/dbmerge/dbmerge/pkg/schema"
	"github.com/dbmerge/dbmerge/pkg/sqlutil"
	_ "github.com/mattn/go-sqlite3"
)

// Source reads tables from one SQLite database file.
type Source struct {
	db *sql.DB
}

func NewSource(fp string) (*Source, error) {
	db, err := open(fp)
	if err != nil {
		return nil, err
	}
	return &Source{db: db}, nil
}

func open(fp string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fp)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", fp, err)
	}
	return db, nil
}

// TableNames lists user tables in declaration order. SQLite's own
// bookkeeping tables (sqlite_sequence etc.) are excluded.
func (s *Source) TableNames() ([]string, error) {
	names := []string{}
	var name string
	if err := sqlutil.QueryRows(s.db,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`,
		nil, []interface{}{&name},
		func() error {
			names = append(names, name)
			return nil
		},
	); err != nil {
		return nil, err
	}
	return names, nil
}

// DescribeTable returns the table's declared schema, with primary key
// ordinals as reported by PRAGMA table_info.
func (s *Source) DescribeTable(name string) (*schema.Table, error) {
	t := &schema.Table{Name: name}
	var (
		cid     int
		colName string
		colType string
		notNull int
		dflt    sql.NullString
		pk      int
	)
	if err := sqlutil.QueryRows(s.db,
		fmt.Sprintf(`PRAGMA table_info(%s)`, sqlutil.QuoteIdent(name)),
		nil, []interface{}{&cid, &colName, &colType, &notNull, &dflt, &pk},
		func() error {
			t.Columns = append(t.Columns, schema.Column{
				Name:      colName,
				Type:      strings.ToUpper(colType),
				NotNull:   notNull != 0,
				PKOrdinal: pk,
			})
			return nil
		},
	); err != nil {
		return nil, err
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("table %q not found", name)
	}
	return t, nil
}

// ReadAll loads the table's full row set into memory.
func (s *Source) ReadAll(name string) (*merge.Dataset, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT * FROM %s`, sqlutil.QuoteIdent(name)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	d := merge.NewDataset(columns)
	for rows.Next() {
		vals, err := sqlutil.ScanRow(rows, len(columns))
		if err != nil {
			return nil, err
		}
		d.Append(vals)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Source) Close() error {
	return s.db.Close()
}
