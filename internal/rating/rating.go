// Package rating derives a title's display rating from its review scores.
package rating

// Aggregate returns the arithmetic mean of scores rounded to the nearest
// integer, with exact halves rounded up (7.5 -> 8, 8.5 -> 9). It returns nil
// when there are no scores. Scores are expected to be positive.
func Aggregate(scores []int) *int {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	n := len(scores)
	// floor((sum/n) + 1/2) in integer arithmetic
	r := (2*sum + n) / (2 * n)
	return &r
}

// ByTitle aggregates a title-id -> scores map in one pass.
func ByTitle(scores map[uint][]int) map[uint]*int {
	out := make(map[uint]*int, len(scores))
	for id, s := range scores {
		out[id] = Aggregate(s)
	}
	return out
}
