// Package model defines shared data structures.
package model

import "time"

// Card is a single prompt/answer pair. Its identity is its position in a deck.
type Card struct {
	Prompt string
	Answer string
}

// Trigger identifies what committed a card.
type Trigger string

const (
	TriggerButton  Trigger = "button"
	TriggerGesture Trigger = "gesture"
	TriggerVoice   Trigger = "voice"
)

// AnswerEntry records one committed card.
type AnswerEntry struct {
	Prompt   string
	Answer   string
	Chosen   string
	Correct  bool
	Trigger  Trigger
	Interval time.Duration
}

// Config defines practice settings.
type Config struct {
	Deck           string
	DeckPath       string
	PromptColumn   string
	AnswerColumn   string
	Interval       time.Duration
	MinInterval    time.Duration
	MaxInterval    time.Duration
	SpeedUp        float64
	SlowDown       float64
	DwellCorrect   time.Duration
	DwellIncorrect time.Duration
	Shuffle        bool
	FocusWeak      bool
	WeakTop        int
	WeakWindow     int
}

// InputConfig defines the external classifier settings.
type InputConfig struct {
	GestureCommand   string
	GestureLabel     string
	GestureThreshold float64
	VoiceCommand     string
	VoiceLabel       string
	VoiceThreshold   float64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Deck        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Cards       string
}

// SessionStats captures a completed flashcard session.
type SessionStats struct {
	UUID          string
	StartedAt     time.Time
	EndedAt       time.Time
	Deck          string
	DeckPath      string
	Cards         int
	Correct       int
	DurationMs    int64
	StartInterval time.Duration
	FinalInterval time.Duration
}

// CardResult stores the outcome of one card within a session.
type CardResult struct {
	Position int
	Prompt   string
	Answer   string
	Chosen   string
	Correct  bool
	Trigger  Trigger
	Interval time.Duration
}

// CardAggregate aggregates card results across sessions.
type CardAggregate struct {
	Prompt        string
	Correct       int
	Incorrect     int
	IntervalSumMs int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID     int64
	EndedAt       time.Time
	Cards         int
	Correct       int
	DurationMs    int64
	FinalInterval time.Duration
}

// ResultsFromLog converts an answer log into positional card results.
func ResultsFromLog(log []AnswerEntry) []CardResult {
	out := make([]CardResult, 0, len(log))
	for i, e := range log {
		out = append(out, CardResult{
			Position: i,
			Prompt:   e.Prompt,
			Answer:   e.Answer,
			Chosen:   e.Chosen,
			Correct:  e.Correct,
			Trigger:  e.Trigger,
			Interval: e.Interval,
		})
	}
	return out
}
