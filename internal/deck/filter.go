package deck

import (
	"strings"

	"github.com/verte-zerg/flashmash/internal/model"
)

// FilterFunc returns true when a card should be kept.
type FilterFunc func(model.Card) bool

// KeepCard drops cards with a blank side or a comment-style prompt.
func KeepCard(card model.Card) bool {
	if card.Prompt == "" || card.Answer == "" {
		return false
	}
	return !strings.HasPrefix(card.Prompt, "#")
}

// WeakFirst returns a copy of cards with prompts in weak moved to the front.
// Relative order is preserved within both groups.
func WeakFirst(cards []model.Card, weak map[string]struct{}) []model.Card {
	out := make([]model.Card, 0, len(cards))
	if len(weak) == 0 {
		return append(out, cards...)
	}
	var rest []model.Card
	for _, c := range cards {
		if _, ok := weak[c.Prompt]; ok {
			out = append(out, c)
			continue
		}
		rest = append(rest, c)
	}
	return append(out, rest...)
}
