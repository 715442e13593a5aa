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
)

// Sink writes merged tables into one SQLite database file, creating it
// when absent.
type Sink struct {
	db *sql.DB
}

func NewSink(fp string) (*Sink, error) {
	db, err := open(fp)
	if err != nil {
		return nil, err
	}
	return &Sink{db: db}, nil
}

// WriteTable replaces the named table with the given rows, in one
// transaction. The created table carries the schema's declared column
// types and primary key. NOT NULL constraints are not carried over.
func (s *Sink) WriteTable(t *schema.Table, d *merge.Dataset) error {
	return sqlutil.RunInTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, sqlutil.QuoteIdent(t.Name))); err != nil {
			return err
		}
		if _, err := tx.Exec(createTableStmt(t)); err != nil {
			return err
		}
		cols := make([]string, len(d.Columns))
		placeholders := make([]string, len(d.Columns))
		for i, c := range d.Columns {
			cols[i] = sqlutil.QuoteIdent(c)
			placeholders[i] = "?"
		}
		stmt, err := tx.Prepare(fmt.Sprintf(
			`INSERT INTO %s (%s) VALUES (%s)`,
			sqlutil.QuoteIdent(t.Name), strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		))
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, row := range d.Rows {
			if _, err := stmt.Exec(row...); err != nil {
				return err
			}
		}
		return nil
	})
}

func createTableStmt(t *schema.Table) string {
	defs := []string{}
	for _, c := range t.Columns {
		def := sqlutil.QuoteIdent(c.Name)
		if c.Type != "" {
			def += " " + c.Type
		}
		defs = append(defs, def)
	}
	if pk := t.PrimaryKey(); pk != nil {
		quoted := make([]string, len(pk))
		for i, k := range pk {
			quoted[i] = sqlutil.QuoteIdent(k)
		}
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", sqlutil.QuoteIdent(t.Name), strings.Join(defs, ", "))
}

func (s *Sink) Close() error {
	return s.db.Close()
}
