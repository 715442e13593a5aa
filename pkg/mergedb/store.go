// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package mergedb

import (
	"github.com/dbmerge/dbmerge/pkg/merge"
	"github.com/dbmerge/dbmerge/pkg/schema"
)

// Source is a readable database snapshot.
type Source interface {
	// TableNames lists the tables in enumeration order.
	TableNames() ([]string, error)

	// DescribeTable returns the declared schema of an existing table.
	DescribeTable(name string) (*schema.Table, error)

	// ReadAll loads a table's full row set.
	ReadAll(name string) (*merge.Dataset, error)

	Close() error
}

// Sink receives merged tables. WriteTable replaces any prior content
// under the same table name.
type Sink interface {
	WriteTable(t *schema.Table, d *merge.Dataset) error
	Close() error
}
