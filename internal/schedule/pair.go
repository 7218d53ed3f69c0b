package schedule

import (
	"sort"
	"strings"
)

// PairID returns the canonical id for a conflicting pair: both item ids
// sorted and joined, so the same pair maps to the same id regardless of
// argument order.
func PairID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

// ClusterID returns the canonical id for a cluster: all member ids
// sorted and concatenated, stable across recomputations.
func ClusterID(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, "_")
}
