package plan

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance bounds how far a misspelt key may be from a suggested name.
const maxSuggestDistance = 2

// closestName finds the declared name most likely meant by key, or "" when nothing is close.
func closestName(key string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(key, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, name := range candidates {
		if d := fuzzy.LevenshteinDistance(key, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}
