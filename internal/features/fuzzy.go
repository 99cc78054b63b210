package features

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity a candidate's
// match key needs against the typed prefix to survive the fallback pass.
const fuzzyThreshold = 0.8

// fuzzyFallback ranks candidates when the strict prefix filter came up
// empty: a near-miss spelling ("documentaton") still surfaces the item,
// and a prefix that stems to a word in a candidate's documentation
// ("validate" against "validation") surfaces that candidate too.
func fuzzyFallback(items []CompletionItem, lowerPrefix string, exclude map[string]bool) []CompletionItem {
	type scored struct {
		item  CompletionItem
		score float32
	}
	var ranked []scored
	for _, it := range items {
		if exclude[it.Label] {
			continue
		}
		score, err := edlib.StringsSimilarity(strings.ToLower(matchKey(it.Label)), lowerPrefix, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score < fuzzyThreshold && !docStemMatch(it.Documentation, lowerPrefix) {
			continue
		}
		ranked = append(ranked, scored{item: it, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]CompletionItem, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.item)
	}
	return out
}

// docStemMatch reports whether any word of doc shares prefix's stem.
// Short prefixes stem too aggressively to be useful, so they never match.
func docStemMatch(doc, lowerPrefix string) bool {
	if doc == "" || len(lowerPrefix) < 4 {
		return false
	}
	want := porter2.Stem(lowerPrefix)
	words := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
	for _, w := range words {
		if porter2.Stem(w) == want {
			return true
		}
	}
	return false
}
