package slice

import (
	"fmt"
)

func IndicesToValues(vals []any, keys []int) []any {
	res := []any{}
	for _, k := range keys {
		res = append(res, vals[k])
	}
	return res
}

func KeyIndices(columns, keys []string) ([]int, error) {
	res := []int{}
	for _, k := range keys {
		found := false
		for i, c := range columns {
			if c == k {
				res = append(res, i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf(`key "%s" not found in string slice`, k)
		}
	}
	return res, nil
}

func StringSliceContains(sl []string, s string) bool {
	for _, v := range sl {
		if v == s {
			return true
		}
	}
	return false
}

func CompareStringSlices(slice, oldSlice []string) (unchanged, added, removed []string) {
	m := map[string]struct{}{}
	for _, col := range slice {
		m[col] = struct{}{}
	}
	oldM := map[string]struct{}{}
	for _, col := range oldSlice {
		oldM[col] = struct{}{}
	}
	for _, col := range slice {
		if _, ok := oldM[col]; !ok {
			added = append(added, col)
		} else {
			unchanged = append(unchanged, col)
		}
	}
	for _, col := range oldSlice {
		if _, ok := m[col]; !ok {
			removed = append(removed, col)
		}
	}
	return
}

func SameStringSet(sl1, sl2 []string) bool {
	_, added, removed := CompareStringSlices(sl1, sl2)
	return len(added) == 0 && len(removed) == 0
}
