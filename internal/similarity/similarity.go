// Package similarity computes a normalized content similarity ratio
// between two text blobs.
//
// The ratio measures the proportion of characters covered by matching
// contiguous blocks (longest-matching-block recursion), not edit
// distance. Two files that share large verbatim regions score high even
// when the regions appear in different places.
package similarity

// Ratio returns a similarity score in [0.0, 1.0] for two strings.
//
// The score is 2*M / (len(a)+len(b)), where M is the total length of
// the matching blocks found by repeatedly taking the longest common
// contiguous block and recursing on the pieces to its left and right.
// Empty input on either side scores 0.0; identical non-empty inputs
// score 1.0. Pure function, no side effects.
func Ratio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	m := matchedLength(a, b, 0, len(a), 0, len(b))
	return 2.0 * float64(m) / float64(len(a)+len(b))
}

// matchedLength sums the sizes of all matching blocks within
// a[alo:ahi] and b[blo:bhi].
func matchedLength(a, b string, alo, ahi, blo, bhi int) int {
	i, j, k := longestMatch(a, b, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	return k +
		matchedLength(a, b, alo, i, blo, j) +
		matchedLength(a, b, i+k, ahi, j+k, bhi)
}

// longestMatch finds the longest contiguous block common to a[alo:ahi]
// and b[blo:bhi], returning its start positions and length. On ties the
// earliest block in a wins.
func longestMatch(a, b string, alo, ahi, blo, bhi int) (besti, bestj, size int) {
	besti, bestj = alo, blo

	// j2len[j] is the length of the match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > size {
				besti, bestj, size = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, size
}
