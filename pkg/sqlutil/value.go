package sqlutil

import (
	"database/sql"
)

// ScanRow scans the current row into a slice of generic values. Byte
// slices are copied because the driver may reuse its buffers between
// calls to Next.
func ScanRow(rows *sql.Rows, ncols int) ([]any, error) {
	vals := make([]any, ncols)
	scans := make([]any, ncols)
	for i := range vals {
		scans[i] = &vals[i]
	}
	if err := rows.Scan(scans...); err != nil {
		return nil, err
	}
	for i, v := range vals {
		if b, ok := v.([]byte); ok {
			c := make([]byte, len(b))
			copy(c, b)
			vals[i] = c
		}
	}
	return vals, nil
}
