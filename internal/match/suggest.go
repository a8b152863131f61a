package match

import (
	"sort"

	"stage-reconciler/internal/common"
)

// DefaultMinScore is the similarity a candidate needs to be suggested.
const DefaultMinScore = 0.5

// Candidate is a scored suggestion.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name and returns those reaching
// minScore, best first. Ties keep alphabetical order.
func Rank(name string, candidates []string, minScore float64) []Candidate {
	var out []Candidate

	for _, c := range candidates {
		if c == name {
			continue
		}

		score := ColumnSimilarity(name, c)
		if score >= minScore {
			out = append(out, Candidate{Name: c, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Suggest returns up to n candidate names resembling name.
func Suggest(name string, candidates []string, n int) []string {
	ranked := common.Take(Rank(name, candidates, DefaultMinScore), n)
	if common.IsEmpty(ranked) {
		return nil
	}

	names := make([]string, len(ranked))
	for i, c := range ranked {
		names[i] = c.Name
	}

	return names
}
