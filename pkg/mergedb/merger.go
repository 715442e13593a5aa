// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package mergedb

import (
	"fmt"

	"github.com/dbmerge/dbmerge/pkg/conf"
	"github.com/dbmerge/dbmerge/pkg/merge"
	"github.com/dbmerge/dbmerge/pkg/pbar"
	"github.com/dbmerge/dbmerge/pkg/schema"
	"github.com/dbmerge/dbmerge/pkg/slice"
	"github.com/go-logr/logr"
)

// Merger merges every table of the priority source with its fallback
// counterpart and writes the results to the sink. Table enumeration is
// driven solely by the priority source. One table's failure never stops
// the run; each table yields a TableResult.
type Merger struct {
	priority Source
	fallback Source
	sink     Sink
	config   *conf.Config
	logger   logr.Logger
	bar      pbar.Bar
}

type MergerOption func(m *Merger)

// WithConfig sets the configuration consulted for fallback key columns
// when a table declares no primary key.
func WithConfig(c *conf.Config) MergerOption {
	return func(m *Merger) {
		m.config = c
	}
}

func WithLogger(logger logr.Logger) MergerOption {
	return func(m *Merger) {
		m.logger = logger
	}
}

func WithProgressBar(bar pbar.Bar) MergerOption {
	return func(m *Merger) {
		m.bar = bar
	}
}

func NewMerger(priority, fallback Source, sink Sink, opts ...MergerOption) *Merger {
	m := &Merger{
		priority: priority,
		fallback: fallback,
		sink:     sink,
		config:   conf.Default(),
		logger:   logr.Discard(),
		bar:      pbar.NewNoopBar(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run processes every table in the priority source exactly once and
// returns the per-table outcomes. It returns an error only when the
// table list itself cannot be read.
func (m *Merger) Run() (*Report, error) {
	names, err := m.priority.TableNames()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	m.bar.SetTotal(int64(len(names)))
	report := &Report{}
	for _, name := range names {
		res := m.mergeTable(name)
		m.logResult(res)
		report.add(res)
		m.bar.Incr()
	}
	m.bar.Done()
	return report, nil
}

func (m *Merger) mergeTable(name string) TableResult {
	res := TableResult{Table: name}
	pTbl, err := m.priority.DescribeTable(name)
	if err != nil {
		res.Status = StatusError
		res.Err = fmt.Errorf("describe priority table: %w", err)
		return res
	}
	fTbl, err := m.fallback.DescribeTable(name)
	if err != nil {
		res.Status = StatusError
		res.Err = fmt.Errorf("describe fallback table: %w", err)
		return res
	}
	if reason := schema.MismatchReason(pTbl, fTbl); reason != "" {
		res.Status = StatusSchemaMismatch
		res.Reason = reason
		return res
	}

	keys := pTbl.PrimaryKey()
	if len(keys) == 0 {
		keys = m.config.KeysFor(name)
		if len(keys) == 0 {
			res.Status = StatusMissingKey
			res.Reason = "no primary key declared"
			return res
		}
		if err := validKeyColumns(pTbl, keys); err != nil {
			res.Status = StatusMissingKey
			res.Reason = err.Error()
			return res
		}
		res.FallbackKeys = true
	}
	res.KeyColumns = keys

	pRows, err := m.priority.ReadAll(name)
	if err != nil {
		res.Status = StatusError
		res.Err = fmt.Errorf("read priority rows: %w", err)
		return res
	}
	fRows, err := m.fallback.ReadAll(name)
	if err != nil {
		res.Status = StatusError
		res.Err = fmt.Errorf("read fallback rows: %w", err)
		return res
	}
	merged, err := merge.Merge(pRows, fRows, keys)
	if err != nil {
		res.Status = StatusError
		res.Err = err
		return res
	}
	if err = m.sink.WriteTable(pTbl, merged); err != nil {
		res.Status = StatusError
		res.Err = fmt.Errorf("write merged rows: %w", err)
		return res
	}
	res.Status = StatusMerged
	res.RowCount = merged.Len()
	return res
}

func validKeyColumns(t *schema.Table, keys []string) error {
	names := t.ColumnNames()
	for _, k := range keys {
		if !slice.StringSliceContains(names, k) {
			return fmt.Errorf("configured key column %q not in table", k)
		}
	}
	return nil
}

func (m *Merger) logResult(res TableResult) {
	switch res.Status {
	case StatusMerged:
		m.logger.Info("merged table", "table", res.Table, "rows", res.RowCount, "keyColumns", res.KeyColumns, "fallbackKeys", res.FallbackKeys)
	case StatusError:
		m.logger.Error(res.Err, "error merging table", "table", res.Table)
	default:
		m.logger.Info("skipped table", "table", res.Table, "status", res.Status.String(), "reason", res.Reason)
	}
}
