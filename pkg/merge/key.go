package merge

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// encodeKey encodes a merge-key tuple into a string usable as a map
// key. Integral reals encode like integers because SQLite considers 1
// and 1.0 the same key. A NULL in any key cell is an error: rows with
// undefined keys cannot be aligned between sources.
func encodeKey(vals []any) (string, error) {
	sb := &strings.Builder{}
	for _, v := range vals {
		s, err := encodeValue(v)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func encodeValue(v any) (string, error) {
	var tag byte
	var payload string
	switch t := v.(type) {
	case nil:
		return "", fmt.Errorf("NULL value in key column")
	case bool:
		tag = 'i'
		if t {
			payload = "1"
		} else {
			payload = "0"
		}
	case int64:
		tag = 'i'
		payload = strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			tag = 'i'
			payload = strconv.FormatInt(int64(t), 10)
		} else {
			tag = 'f'
			payload = strconv.FormatFloat(t, 'g', -1, 64)
		}
	case string:
		tag = 's'
		payload = t
	case []byte:
		tag = 'b'
		payload = string(t)
	case time.Time:
		tag = 't'
		payload = t.UTC().Format(time.RFC3339Nano)
	default:
		return "", fmt.Errorf("unhandled type %T in key column", v)
	}
	return fmt.Sprintf("%c%d:%s", tag, len(payload), payload), nil
}

// valueRank orders values by storage class the way SQLite collates
// them: NULL, then numeric, then text, then blob.
func valueRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool, int64, float64, time.Time:
		return 1
	case string:
		return 2
	case []byte:
		return 3
	}
	return 4
}

func numeric(v any) float64 {
	switch t := v.(type) {
	case bool:
		if t {
			return 1
		}
		return 0
	case int64:
		return float64(t)
	case float64:
		return t
	case time.Time:
		return float64(t.UnixNano())
	}
	return 0
}

// CompareValues orders two cell values, NULL first, then by SQLite
// storage class, then by value.
func CompareValues(a, b any) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 1:
		if ta, ok := a.(time.Time); ok {
			if tb, ok := b.(time.Time); ok {
				if ta.Before(tb) {
					return -1
				} else if ta.After(tb) {
					return 1
				}
				return 0
			}
		}
		na, nb := numeric(a), numeric(b)
		if na < nb {
			return -1
		} else if na > nb {
			return 1
		}
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 3:
		return bytes.Compare(a.([]byte), b.([]byte))
	}
	return 0
}

// CompareKeys orders two merge-key tuples lexicographically over the
// key columns in their given order.
func CompareKeys(a, b []any) int {
	for i := range a {
		if c := CompareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}
