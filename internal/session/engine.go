package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/flashmash/internal/model"
	"github.com/verte-zerg/flashmash/internal/options"
)

var (
	// ErrEmptyDeck is returned when a session is created without cards.
	ErrEmptyDeck = errors.New("deck is empty")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("session already started")
)

// OptionSource builds the option set for a card.
type OptionSource interface {
	Generate(deck []model.Card, index int) (options.OptionSet, error)
}

// Config wires an Engine. Zero fields fall back to defaults.
type Config struct {
	Clock   Clock
	Policy  *Policy
	Options OptionSource
	Logger  *slog.Logger
	Notify  func(Event)
}

// Engine owns a session. All transitions are serialized by one mutex, and
// every timer callback carries the token of the period that scheduled it.
type Engine struct {
	mu      sync.Mutex
	clock   Clock
	policy  Policy
	opts    OptionSource
	logger  *slog.Logger
	notify  func(Event)
	deck    []model.Card
	cycler  *Cycler
	dwell   Timer
	closed  bool

	phase           Phase
	cardIndex       int
	current         options.OptionSet
	displayed       string
	interval        time.Duration
	correctStreak   int
	incorrectStreak int
	log             []model.AnswerEntry
	feedback        string
	lastCorrect     bool
	period          uint64
	cyclerRun       uint64
	startedAt       time.Time
	completedAt     time.Time
}

// New validates the deck and returns an idle Engine.
func New(deck []model.Card, cfg Config) (*Engine, error) {
	if len(deck) == 0 {
		return nil, ErrEmptyDeck
	}
	policy := DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing policy: %w", err)
	}
	e := &Engine{
		clock:    cfg.Clock,
		policy:   policy,
		opts:     cfg.Options,
		logger:   cfg.Logger,
		notify:   cfg.Notify,
		deck:     append([]model.Card(nil), deck...),
		interval: policy.Start,
	}
	if e.clock == nil {
		e.clock = RealClock()
	}
	if e.opts == nil {
		e.opts = options.New()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.cycler = NewCycler(e.clock, e.onTick)
	return e, nil
}

// Start records the start time and begins flashing the first card.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.phase != PhaseIdle || e.closed {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.startedAt = e.clock.Now()
	kind, err := e.beginCardLocked(0)
	ev := Event{Kind: kind, State: e.snapshotLocked()}
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.emit(ev)
	return nil
}

// Stop commits the option on display. Only the first call per Flashing period
// has any effect; it reports whether this call committed.
func (e *Engine) Stop(trigger model.Trigger) bool {
	return e.stop(trigger, 0, false)
}

// StopAt is Stop restricted to the given period, for sources that observed
// the period before deciding to fire.
func (e *Engine) StopAt(period uint64, trigger model.Trigger) bool {
	return e.stop(trigger, period, true)
}

func (e *Engine) stop(trigger model.Trigger, period uint64, pinned bool) bool {
	e.mu.Lock()
	if e.closed || e.phase != PhaseFlashing || (pinned && period != e.period) {
		e.mu.Unlock()
		return false
	}
	e.cycler.Stop()

	card := e.deck[e.cardIndex]
	chosen := e.displayed
	correct := chosen == card.Answer
	e.log = append(e.log, model.AnswerEntry{
		Prompt:   card.Prompt,
		Answer:   card.Answer,
		Chosen:   chosen,
		Correct:  correct,
		Trigger:  trigger,
		Interval: e.interval,
	})

	var streak int
	if correct {
		e.correctStreak++
		e.incorrectStreak = 0
		streak = e.correctStreak
		e.feedback = "Correct!"
	} else {
		e.incorrectStreak++
		e.correctStreak = 0
		streak = e.incorrectStreak
		e.feedback = fmt.Sprintf("Incorrect – you answered %q but the right answer is %q", chosen, card.Answer)
	}
	prev := e.interval
	e.interval = e.policy.Adapt(streak, correct, e.interval)
	e.lastCorrect = correct
	e.phase = PhaseLocked

	token := e.period
	e.dwell = e.clock.AfterFunc(e.policy.Dwell(correct), func() { e.advance(token) })

	e.logger.Debug("card committed",
		"card", e.cardIndex,
		"correct", correct,
		"trigger", string(trigger),
		"interval", prev,
		"next_interval", e.interval,
	)
	ev := Event{Kind: EventCommitted, State: e.snapshotLocked()}
	e.mu.Unlock()
	e.emit(ev)
	return true
}

// Period returns the current Flashing period token and whether the engine is
// accepting stops.
func (e *Engine) Period() (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.period, !e.closed && e.phase == PhaseFlashing
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Close cancels pending timers. Later callbacks and stops are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.cycler.Stop()
	if e.dwell != nil {
		e.dwell.Stop()
		e.dwell = nil
	}
}

func (e *Engine) onTick(option string, run uint64) {
	e.mu.Lock()
	if e.closed || e.phase != PhaseFlashing || run != e.cyclerRun {
		e.mu.Unlock()
		return
	}
	e.displayed = option
	ev := Event{Kind: EventOptionShown, State: e.snapshotLocked()}
	e.mu.Unlock()
	e.emit(ev)
}

func (e *Engine) advance(token uint64) {
	e.mu.Lock()
	if e.closed || e.phase != PhaseLocked || token != e.period {
		e.mu.Unlock()
		return
	}
	e.dwell = nil
	var kind EventKind
	if e.cardIndex == len(e.deck)-1 {
		e.completeLocked()
		kind = EventCompleted
	} else {
		var err error
		kind, err = e.beginCardLocked(e.cardIndex + 1)
		if err != nil {
			e.logger.Error("failed to start next card", "card", e.cardIndex+1, "error", err)
		}
	}
	ev := Event{Kind: kind, State: e.snapshotLocked()}
	e.mu.Unlock()
	e.emit(ev)
}

// beginCardLocked enters Flashing for deck[idx]. If no options can be built the
// session completes so the engine never rests in an undefined phase.
func (e *Engine) beginCardLocked(idx int) (EventKind, error) {
	set, err := e.opts.Generate(e.deck, idx)
	if err != nil {
		e.completeLocked()
		return EventCompleted, fmt.Errorf("failed to build options: %w", err)
	}
	e.cardIndex = idx
	e.current = set
	e.feedback = ""
	e.period++
	e.phase = PhaseFlashing
	e.displayed, e.cyclerRun = e.cycler.Start(set.Options, e.interval)
	return EventCardStarted, nil
}

func (e *Engine) completeLocked() {
	e.phase = PhaseComplete
	e.completedAt = e.clock.Now()
	e.cycler.Stop()
	e.logger.Info("session complete",
		"cards", len(e.deck),
		"correct", countCorrect(e.log),
		"elapsed", e.completedAt.Sub(e.startedAt),
	)
}

func (e *Engine) snapshotLocked() State {
	var prompt string
	if e.phase != PhaseIdle {
		prompt = e.deck[e.cardIndex].Prompt
	}
	return State{
		Phase:           e.phase,
		CardIndex:       e.cardIndex,
		Total:           len(e.deck),
		Prompt:          prompt,
		Options:         append([]string(nil), e.current.Options...),
		Displayed:       e.displayed,
		Interval:        e.interval,
		CorrectStreak:   e.correctStreak,
		IncorrectStreak: e.incorrectStreak,
		Log:             append([]model.AnswerEntry(nil), e.log...),
		Feedback:        e.feedback,
		LastCorrect:     e.lastCorrect,
		Period:          e.period,
		StartedAt:       e.startedAt,
		CompletedAt:     e.completedAt,
	}
}

func (e *Engine) emit(ev Event) {
	if e.notify != nil {
		e.notify(ev)
	}
}

func countCorrect(log []model.AnswerEntry) int {
	n := 0
	for _, entry := range log {
		if entry.Correct {
			n++
		}
	}
	return n
}
