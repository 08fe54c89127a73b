package stats

import (
	"sort"

	"github.com/verte-zerg/flashmash/internal/model"
)

// SelectWeakCards returns the prompts with the lowest accuracy. Cards never
// answered count as fully accurate.
func SelectWeakCards(aggs []model.CardAggregate, top int) map[string]struct{} {
	weak := map[string]struct{}{}
	if len(aggs) == 0 {
		return weak
	}
	ranked := make([]model.CardAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			ranked = append(ranked, agg)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		ai, aj := cardAccuracy(ranked[i]), cardAccuracy(ranked[j])
		if ai == aj {
			return ranked[i].Prompt < ranked[j].Prompt
		}
		return ai < aj
	})
	if top <= 0 || top > len(ranked) {
		top = len(ranked)
	}
	for _, agg := range ranked[:top] {
		weak[agg.Prompt] = struct{}{}
	}
	return weak
}

func cardAccuracy(agg model.CardAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
