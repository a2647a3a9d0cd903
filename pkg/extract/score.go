package extract

// Scorer converts matcher totals into a confidence figure. Implementations
// must stay within [0, 1].
type Scorer func(total, unmatched int) float64

// Score is the default confidence weighting: the matched share of slots. A
// template without slots is trivially certain and scores 1.
func Score(total, unmatched int) float64 {
	if total <= 0 {
		return 1
	}
	if unmatched < 0 {
		unmatched = 0
	}
	if unmatched > total {
		unmatched = total
	}
	return float64(total-unmatched) / float64(total)
}
