// Package options builds the candidate answers shown for a card.
package options

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/flashmash/internal/model"
)

// Size is the number of options shown per card.
const Size = 4

// ErrIndexOutOfRange is returned when the card index is outside the deck.
var ErrIndexOutOfRange = errors.New("card index out of range")

// OptionSet is the shuffled candidate list for one card.
type OptionSet struct {
	Options      []string
	CorrectIndex int
}

// Generator produces randomized option sets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate builds the options for deck[index]: the correct answer plus
// distractors drawn without replacement from other cards' distinct answers.
// Small decks repeat distractors; a deck with none repeats the answer.
func (g *Generator) Generate(deck []model.Card, index int) (OptionSet, error) {
	if index < 0 || index >= len(deck) {
		return OptionSet{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(deck))
	}
	correct := deck[index].Answer
	pool := distractorPool(deck, index)
	g.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	opts := make([]string, 0, Size)
	opts = append(opts, correct)
	for i := 0; len(opts) < Size; i++ {
		if len(pool) == 0 {
			opts = append(opts, correct)
			continue
		}
		opts = append(opts, pool[i%len(pool)])
	}

	correctIdx := 0
	g.rnd.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
		switch correctIdx {
		case i:
			correctIdx = j
		case j:
			correctIdx = i
		}
	})
	return OptionSet{Options: opts, CorrectIndex: correctIdx}, nil
}

// Shuffle returns a shuffled copy of cards.
func (g *Generator) Shuffle(cards []model.Card) []model.Card {
	out := append([]model.Card(nil), cards...)
	g.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func distractorPool(deck []model.Card, index int) []string {
	correct := deck[index].Answer
	seen := map[string]struct{}{correct: {}}
	pool := make([]string, 0, len(deck))
	for i, c := range deck {
		if i == index {
			continue
		}
		if _, ok := seen[c.Answer]; ok {
			continue
		}
		seen[c.Answer] = struct{}{}
		pool = append(pool, c.Answer)
	}
	return pool
}
