package queryengine

import (
	"sort"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"
)

// rankHits sorts candidates by match_count DESC, length ASC, score
// DESC, then truncates to limit and applies hyphen interleaving on the
// final page only: partition into non-hyphenated (A) and hyphenated
// (B), then alternate A[i], B[i], appending whichever list runs longer.
func rankHits(hits []domain.Hit, limit int) []domain.Hit {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		if a.Length != b.Length {
			return a.Length < b.Length
		}
		return a.Score > b.Score
	})

	if limit >= 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return interleaveByHyphen(hits)
}

func interleaveByHyphen(hits []domain.Hit) []domain.Hit {
	var a, b []domain.Hit
	for _, h := range hits {
		if h.HasHyphen {
			b = append(b, h)
		} else {
			a = append(a, h)
		}
	}

	out := make([]domain.Hit, 0, len(hits))
	i := 0
	for i < len(a) || i < len(b) {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
		i++
	}
	return out
}

// matchCount counts how many distinct qtokens appear in tokens.
func matchCount(tokens []string, qtokens []string) int {
	present := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		present[t] = struct{}{}
	}
	n := 0
	for _, qt := range qtokens {
		if _, ok := present[qt]; ok {
			n++
		}
	}
	return n
}
