package cell

import "github.com/vango-dev/reactor/internal/arrayops"

// Array change statuses.
const (
	StatusAdded   = "added"
	StatusDeleted = "deleted"
)

// ArrayChange describes one element added to or removed from an array.
// For deletions Index refers to the old array; for additions, to the new one.
type ArrayChange struct {
	Status string `json:"status"`
	Value  any    `json:"value"`
	Index  int    `json:"index"`
}

// CompareArrays returns the edit script turning prev into next, using the
// longest common subsequence of identical elements. Changes are ordered by
// position; at the same position deletions come before additions.
func CompareArrays(prev, next []any) []ArrayChange {
	// Common prefix and suffix never show up in the script.
	start := 0
	for start < len(prev) && start < len(next) && arrayops.Same(prev[start], next[start]) {
		start++
	}
	endPrev, endNext := len(prev), len(next)
	for endPrev > start && endNext > start && arrayops.Same(prev[endPrev-1], next[endNext-1]) {
		endPrev--
		endNext--
	}

	old := prev[start:endPrev]
	cur := next[start:endNext]
	n, m := len(old), len(cur)
	if n == 0 && m == 0 {
		return nil
	}

	// lcs[i][j] is the LCS length of old[i:] and cur[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if arrayops.Same(old[i], cur[j]) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var changes []ArrayChange
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && arrayops.Same(old[i], cur[j]):
			i++
			j++
		case j < m && (i == n || lcs[i][j+1] > lcs[i+1][j]):
			changes = append(changes, ArrayChange{Status: StatusAdded, Value: cur[j], Index: start + j})
			j++
		default:
			changes = append(changes, ArrayChange{Status: StatusDeleted, Value: old[i], Index: start + i})
			i++
		}
	}
	return changes
}
