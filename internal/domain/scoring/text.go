package scoring

import "strings"

// tokenOverlap returns the Jaccard similarity of the whitespace-split,
// lowercased token sets of two texts, in [0,1]. This is a deliberately
// lightweight signal; no embedding call happens inside the engine.
func tokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.Trim(f, ".,;:!?\"'()")] = struct{}{}
	}
	delete(set, "")
	return set
}
