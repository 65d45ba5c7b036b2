package card

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Search ranks cards against query by name, company and email. Substring hits
// come first, then close edit-distance matches. An empty query returns the
// list unchanged.
func Search(list []Card, query string) []Card {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]Card, len(list))
		copy(out, list)
		return out
	}
	type scored struct {
		c     Card
		score int
		pos   int
	}
	maxDist := len([]rune(q)) / 3
	var hits []scored
	for i, c := range list {
		best := -1
		for _, field := range []string{c.Name, c.Company, c.Email} {
			f := strings.ToLower(field)
			if f == "" {
				continue
			}
			if strings.Contains(f, q) {
				best = 0
				break
			}
			for _, word := range strings.Fields(f) {
				d := levenshtein.ComputeDistance(q, word)
				if d <= maxDist && (best < 0 || d+1 < best) {
					best = d + 1
				}
			}
		}
		if best >= 0 {
			hits = append(hits, scored{c: c, score: best, pos: i})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score < hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})
	out := make([]Card, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.c)
	}
	return out
}
