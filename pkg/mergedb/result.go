// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package mergedb

type Status int

const (
	StatusMerged Status = iota
	StatusSchemaMismatch
	StatusMissingKey
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusMerged:
		return "merged"
	case StatusSchemaMismatch:
		return "schema mismatch"
	case StatusMissingKey:
		return "missing key"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// TableResult is the outcome of processing one table.
type TableResult struct {
	Table  string
	Status Status

	// RowCount is the number of merged rows written, set when Status
	// is StatusMerged.
	RowCount int

	// KeyColumns are the key columns the merge ran on. FallbackKeys is
	// true when they came from configuration rather than the table's
	// declared primary key.
	KeyColumns   []string
	FallbackKeys bool

	// Reason describes a skip, Err a processing failure.
	Reason string
	Err    error
}

// Report collects the outcome of every table in one run.
type Report struct {
	Results []TableResult
}

func (r *Report) add(res TableResult) {
	r.Results = append(r.Results, res)
}

func (r *Report) count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) Merged() int {
	return r.count(StatusMerged)
}

func (r *Report) Skipped() int {
	return r.count(StatusSchemaMismatch) + r.count(StatusMissingKey)
}

func (r *Report) Failed() int {
	return r.count(StatusError)
}
