package textutil

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-rune insertions, deletions, or substitutions required to
// transform one into the other.
//
// Space complexity is O(min(len(a), len(b))).
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Keep ra the shorter side so the rows stay small.
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Ratio computes a whole-string similarity score between 0 and 1.
// Identical strings score 1.0; strings with no runes in common score 0.
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(Levenshtein(a, b))/float64(longest)
}

// PartialRatio computes the best-matching-substring similarity between two
// strings: the shorter string is compared against every equally sized window
// of the longer string and the best Ratio wins. A short string embedded
// verbatim in a long one therefore scores 1.0. Either input being empty
// scores 0.
func PartialRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shorter := []rune(a)
	longer := []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	best := 0.0
	needle := string(shorter)
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := string(longer[start : start+len(shorter)])
		if score := Ratio(needle, window); score > best {
			best = score
			if best == 1.0 {
				break
			}
		}
	}
	return best
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
