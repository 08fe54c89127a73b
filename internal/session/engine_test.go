package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/flashmash/internal/model"
	"github.com/verte-zerg/flashmash/internal/options"
)

func scenarioDeck() []model.Card {
	return []model.Card{
		{Prompt: "gato", Answer: "cat"},
		{Prompt: "perro", Answer: "dog"},
		{Prompt: "azul", Answer: "blue"},
		{Prompt: "rojo", Answer: "red"},
	}
}

type harness struct {
	t      *testing.T
	clock  *manualClock
	engine *Engine
	policy Policy

	mu     sync.Mutex
	events []EventKind
}

func newHarness(t *testing.T, deck []model.Card) *harness {
	t.Helper()
	h := &harness{t: t, clock: newManualClock(), policy: DefaultPolicy()}
	e, err := New(deck, Config{
		Clock:   h.clock,
		Policy:  &h.policy,
		Options: options.NewWithSeed(42),
		Notify: func(ev Event) {
			h.mu.Lock()
			h.events = append(h.events, ev.Kind)
			h.mu.Unlock()
		},
	})
	require.NoError(t, err)
	h.engine = e
	t.Cleanup(e.Close)
	return h
}

// waitFor advances one interval at a time until match holds for the displayed option.
func (h *harness) waitFor(match func(displayed, answer string) bool) State {
	h.t.Helper()
	for i := 0; i < 16; i++ {
		st := h.engine.State()
		require.Equal(h.t, PhaseFlashing, st.Phase)
		card := h.currentCard(st)
		if match(st.Displayed, card.Answer) {
			return st
		}
		h.clock.Advance(st.Interval)
	}
	h.t.Fatalf("option never matched")
	return State{}
}

func (h *harness) currentCard(st State) model.Card {
	return h.engine.deck[st.CardIndex]
}

func (h *harness) stopCorrect() {
	h.t.Helper()
	h.waitFor(func(d, a string) bool { return d == a })
	require.True(h.t, h.engine.Stop(model.TriggerButton))
}

func (h *harness) stopWrong() {
	h.t.Helper()
	h.waitFor(func(d, a string) bool { return d != a })
	require.True(h.t, h.engine.Stop(model.TriggerButton))
}

func (h *harness) finishDwell() {
	h.t.Helper()
	st := h.engine.State()
	require.Equal(h.t, PhaseLocked, st.Phase)
	h.clock.Advance(h.policy.Dwell(st.LastCorrect))
}

func assertInvariants(t *testing.T, st State) {
	t.Helper()
	assert.False(t, st.CorrectStreak > 0 && st.IncorrectStreak > 0, "streaks must be exclusive")
	switch st.Phase {
	case PhaseFlashing:
		assert.Equal(t, st.CardIndex, len(st.Log))
	case PhaseLocked:
		assert.Equal(t, st.CardIndex+1, len(st.Log))
	case PhaseComplete:
		assert.Equal(t, st.Total, len(st.Log))
	}
}

func TestNewRejectsEmptyDeck(t *testing.T) {
	_, err := New(nil, Config{})
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.DwellIncorrect = p.DwellCorrect
	_, err := New(scenarioDeck(), Config{Policy: &p})
	assert.Error(t, err)
}

func TestStartTwice(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	assert.ErrorIs(t, h.engine.Start(), ErrAlreadyStarted)
}

func TestStopBeforeStartIgnored(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	assert.False(t, h.engine.Stop(model.TriggerButton))
	assert.Equal(t, PhaseIdle, h.engine.State().Phase)
}

func TestStartShowsFirstOption(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	st := h.engine.State()
	assert.Equal(t, PhaseFlashing, st.Phase)
	assert.Equal(t, "gato", st.Prompt)
	require.Len(t, st.Options, options.Size)
	assert.Equal(t, st.Options[0], st.Displayed)
	assert.Equal(t, uint64(1), st.Period)
	assert.Equal(t, h.clock.Now(), st.StartedAt)

	h.clock.Advance(st.Interval)
	assert.Equal(t, st.Options[1], h.engine.State().Displayed)
}

func TestScenarioAllCorrect(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	for i := 0; i < 4; i++ {
		h.stopCorrect()
		assertInvariants(t, h.engine.State())
		h.finishDwell()
		assertInvariants(t, h.engine.State())
	}
	st := h.engine.State()
	assert.Equal(t, PhaseComplete, st.Phase)
	assert.Equal(t, 4, st.Correct())
	assert.Equal(t, 4, st.CorrectStreak)
	assert.False(t, st.CompletedAt.IsZero())
	for _, entry := range st.Log {
		assert.True(t, entry.Correct)
		assert.Equal(t, entry.Answer, entry.Chosen)
	}
}

func TestScenarioWrongOnSecondCard(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())

	h.stopCorrect()
	h.finishDwell()

	before := h.engine.State()
	h.stopWrong()
	st := h.engine.State()
	assertInvariants(t, st)
	assert.Equal(t, 1, st.IncorrectStreak)
	assert.Equal(t, 0, st.CorrectStreak)
	assert.Equal(t, before.Interval, st.Interval, "first incorrect keeps the interval")
	require.Len(t, st.Log, 2)
	assert.False(t, st.Log[1].Correct)
	assert.NotEqual(t, st.Log[1].Answer, st.Log[1].Chosen)
	assert.Contains(t, st.Feedback, `right answer is "dog"`)

	h.clock.Advance(h.policy.DwellCorrect)
	assert.Equal(t, PhaseLocked, h.engine.State().Phase, "incorrect dwell is longer")
	h.clock.Advance(h.policy.DwellIncorrect - h.policy.DwellCorrect)
	st = h.engine.State()
	assert.Equal(t, PhaseFlashing, st.Phase)
	assert.Equal(t, 2, st.CardIndex)
	assert.Empty(t, st.Feedback)
}

func TestSpeedLawAfterThreeCorrect(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	for i := 0; i < 3; i++ {
		h.stopCorrect()
		if i < 2 {
			assert.Equal(t, h.policy.Start, h.engine.State().Interval)
		}
		h.finishDwell()
	}
	want := time.Duration(float64(h.policy.Start) * h.policy.SpeedUp)
	if want < h.policy.MinInterval {
		want = h.policy.MinInterval
	}
	st := h.engine.State()
	assert.Equal(t, want, st.Interval)
	assert.Equal(t, h.policy.Start, st.Log[2].Interval, "third card ran at the old interval")

	// The fourth card cycles at the adapted interval.
	first := st.Displayed
	h.clock.Advance(want - time.Millisecond)
	assert.Equal(t, first, h.engine.State().Displayed)
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, st.Options[1], h.engine.State().Displayed)
}

func TestSlowDownAfterTwoIncorrect(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	h.stopWrong()
	h.finishDwell()
	h.stopWrong()
	want := time.Duration(float64(h.policy.Start) * h.policy.SlowDown)
	assert.Equal(t, want, h.engine.State().Interval)
}

func TestStreakResetsOnDirectionChange(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	h.stopCorrect()
	h.finishDwell()
	h.stopCorrect()
	h.finishDwell()
	h.stopWrong()
	st := h.engine.State()
	assert.Equal(t, 0, st.CorrectStreak)
	assert.Equal(t, 1, st.IncorrectStreak)
	h.finishDwell()
	h.stopCorrect()
	st = h.engine.State()
	assert.Equal(t, 1, st.CorrectStreak)
	assert.Equal(t, 0, st.IncorrectStreak)
}

func TestDoubleStopSameTick(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	assert.True(t, h.engine.Stop(model.TriggerButton))
	assert.False(t, h.engine.Stop(model.TriggerGesture))
	st := h.engine.State()
	assert.Len(t, st.Log, 1)
	assert.Equal(t, 0, st.CardIndex)
	assert.Equal(t, model.TriggerButton, st.Log[0].Trigger)
}

func TestConcurrentStopsCommitOnce(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	triggers := []model.Trigger{model.TriggerButton, model.TriggerGesture, model.TriggerVoice}
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(trigger model.Trigger) {
			defer wg.Done()
			if h.engine.Stop(trigger) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(triggers[i%len(triggers)])
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Len(t, h.engine.State().Log, 1)
}

func TestLockedFreezesDisplayedOption(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	h.stopWrong()
	frozen := h.engine.State().Displayed
	h.clock.Advance(h.policy.DwellIncorrect - time.Millisecond)
	st := h.engine.State()
	assert.Equal(t, PhaseLocked, st.Phase)
	assert.Equal(t, frozen, st.Displayed)
	assert.Equal(t, frozen, st.Log[0].Chosen)
}

func TestSingleCardDeck(t *testing.T) {
	deck := []model.Card{{Prompt: "gato", Answer: "cat"}}
	h := newHarness(t, deck)
	require.NoError(t, h.engine.Start())
	require.True(t, h.engine.Stop(model.TriggerVoice))
	assert.Equal(t, PhaseLocked, h.engine.State().Phase)
	h.finishDwell()
	st := h.engine.State()
	assert.Equal(t, PhaseComplete, st.Phase)
	assert.Len(t, st.Log, 1)
	assert.Equal(t, 1, st.Correct())
	assertInvariants(t, st)
}

func TestCompleteIsTerminal(t *testing.T) {
	deck := []model.Card{{Prompt: "gato", Answer: "cat"}, {Prompt: "perro", Answer: "dog"}}
	h := newHarness(t, deck)
	require.NoError(t, h.engine.Start())
	for i := 0; i < 2; i++ {
		h.stopCorrect()
		h.finishDwell()
	}
	st := h.engine.State()
	require.Equal(t, PhaseComplete, st.Phase)
	assert.False(t, h.engine.Stop(model.TriggerButton))
	h.clock.Advance(time.Minute)
	after := h.engine.State()
	assert.Equal(t, st.Log, after.Log)
	assert.Equal(t, PhaseComplete, after.Phase)
	assert.Equal(t, 0, h.clock.pending())
	_, accepting := h.engine.Period()
	assert.False(t, accepting)
}

func TestPeriodAdvancesPerCard(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	p1, ok := h.engine.Period()
	require.True(t, ok)
	h.stopCorrect()
	p2, ok := h.engine.Period()
	assert.Equal(t, p1, p2)
	assert.False(t, ok)
	h.finishDwell()
	p3, ok := h.engine.Period()
	assert.True(t, ok)
	assert.Equal(t, p1+1, p3)
}

func TestCloseCancelsTimers(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	h.stopCorrect()
	h.engine.Close()
	h.clock.Advance(time.Minute)
	st := h.engine.State()
	assert.Equal(t, PhaseLocked, st.Phase)
	assert.False(t, h.engine.Stop(model.TriggerButton))
}

func TestEventsSequence(t *testing.T) {
	deck := []model.Card{{Prompt: "gato", Answer: "cat"}, {Prompt: "perro", Answer: "dog"}}
	h := newHarness(t, deck)
	require.NoError(t, h.engine.Start())
	h.clock.Advance(h.policy.Start)
	h.engine.Stop(model.TriggerButton)
	h.finishDwell()
	h.engine.Stop(model.TriggerButton)
	h.finishDwell()

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []EventKind{
		EventCardStarted,
		EventOptionShown,
		EventCommitted,
		EventCardStarted,
		EventCommitted,
		EventCompleted,
	}, h.events)
}

func TestStopAtRejectsStalePeriod(t *testing.T) {
	h := newHarness(t, scenarioDeck())
	require.NoError(t, h.engine.Start())
	period, _ := h.engine.Period()
	h.stopCorrect()
	h.finishDwell()

	assert.False(t, h.engine.StopAt(period, model.TriggerGesture), "period already committed")
	next, ok := h.engine.Period()
	require.True(t, ok)
	assert.True(t, h.engine.StopAt(next, model.TriggerGesture))
	assert.Equal(t, model.TriggerGesture, h.engine.State().Log[1].Trigger)
}
