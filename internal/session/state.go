// Package session implements the adaptive flashcard session engine.
package session

import (
	"time"

	"github.com/verte-zerg/flashmash/internal/model"
)

// Phase is the engine state for the current card.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFlashing
	PhaseLocked
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFlashing:
		return "flashing"
	case PhaseLocked:
		return "locked"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// EventKind identifies an engine notification.
type EventKind int

const (
	EventCardStarted EventKind = iota
	EventOptionShown
	EventCommitted
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventCardStarted:
		return "card-started"
	case EventOptionShown:
		return "option-shown"
	case EventCommitted:
		return "committed"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event is pushed to the notifier after a transition, with the state it produced.
type Event struct {
	Kind  EventKind
	State State
}

// State is an immutable snapshot of a session.
type State struct {
	Phase           Phase
	CardIndex       int
	Total           int
	Prompt          string
	Options         []string
	Displayed       string
	Interval        time.Duration
	CorrectStreak   int
	IncorrectStreak int
	Log             []model.AnswerEntry
	Feedback        string
	LastCorrect     bool
	Period          uint64
	StartedAt       time.Time
	CompletedAt     time.Time
}

// Correct returns the number of correct commits so far.
func (s State) Correct() int {
	n := 0
	for _, e := range s.Log {
		if e.Correct {
			n++
		}
	}
	return n
}
