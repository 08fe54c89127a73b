package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/flashmash/internal/model"
)

// Tier grades a finished session.
type Tier int

const (
	TierRetry Tier = iota
	TierNice
	TierPerfect
)

// Message is the line shown above the score.
func (t Tier) Message() string {
	switch t {
	case TierPerfect:
		return "Perfect!"
	case TierNice:
		return "Nice work!"
	default:
		return "Better luck next time!"
	}
}

// TierFor grades a percentage.
func TierFor(pct float64) Tier {
	switch {
	case pct >= 100:
		return TierPerfect
	case pct >= 80:
		return TierNice
	default:
		return TierRetry
	}
}

// Summary is the end-of-deck report.
type Summary struct {
	Correct int
	Total   int
	Percent float64
	Elapsed time.Duration
	Tier    Tier
	Lines   []string
}

// Summarize scores a session log against the deck size.
func Summarize(log []model.AnswerEntry, deckSize int, startedAt, completedAt time.Time) Summary {
	s := Summary{Total: deckSize}
	s.Lines = make([]string, 0, len(log))
	for i, entry := range log {
		if entry.Correct {
			s.Correct++
		}
		s.Lines = append(s.Lines, entryLine(i+1, entry))
	}
	if deckSize > 0 {
		s.Percent = float64(s.Correct) / float64(deckSize) * 100
	}
	if !startedAt.IsZero() && completedAt.After(startedAt) {
		s.Elapsed = completedAt.Sub(startedAt)
	}
	s.Tier = TierFor(s.Percent)
	return s
}

func entryLine(n int, entry model.AnswerEntry) string {
	if entry.Correct {
		return fmt.Sprintf("%d. %s - %s ✅", n, entry.Prompt, entry.Answer)
	}
	return fmt.Sprintf("%d. %s - %s, but you chose \"%s\" ❌", n, entry.Prompt, entry.Answer, entry.Chosen)
}

// ScoreLine formats the score and elapsed time.
func (s Summary) ScoreLine() string {
	return fmt.Sprintf("Score: %d/%d (%.1f%%) – Total time: %s", s.Correct, s.Total, s.Percent, FormatElapsed(s.Elapsed))
}

// RenderSummary writes the tier message, score line and one line per card.
func (s Summary) RenderSummary(w io.Writer) error {
	if _, err := fmt.Fprintln(w, s.Tier.Message()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, s.ScoreLine()); err != nil {
		return err
	}
	if len(s.Lines) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	for _, line := range s.Lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatElapsed renders whole minutes and seconds, e.g. "1m 5s".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
