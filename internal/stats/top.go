package stats

import (
	"sort"

	"github.com/verte-zerg/flashmash/internal/model"
)

// TopCardsByFrequency returns the n most answered prompts.
func TopCardsByFrequency(aggs []model.CardAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	ranked := make([]model.CardAggregate, len(aggs))
	copy(ranked, aggs)
	sort.Slice(ranked, func(i, j int) bool {
		ti := ranked[i].Correct + ranked[i].Incorrect
		tj := ranked[j].Correct + ranked[j].Incorrect
		if ti == tj {
			return ranked[i].Prompt < ranked[j].Prompt
		}
		return ti > tj
	})
	n = min(n, len(ranked))
	out := make([]string, n)
	for i := range out {
		out[i] = ranked[i].Prompt
	}
	return out
}
