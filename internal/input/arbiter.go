// Package input arbitrates between the stop key and the gesture and voice classifiers.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/verte-zerg/flashmash/internal/model"
)

var (
	// ErrSourceBusy is returned when the other classifier already holds input.
	ErrSourceBusy = errors.New("another input source is active")
	// ErrUnavailable is returned when a classifier cannot be started.
	ErrUnavailable = errors.New("input source unavailable")
)

// Source is the classifier currently holding input rights.
type Source int

const (
	SourceNone Source = iota
	SourceGesture
	SourceVoice
)

func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceGesture:
		return "gesture"
	case SourceVoice:
		return "voice"
	default:
		return "unknown"
	}
}

// Trigger maps a source to the commit trigger it produces.
func (s Source) Trigger() model.Trigger {
	if s == SourceVoice {
		return model.TriggerVoice
	}
	return model.TriggerGesture
}

// Status describes a classifier source.
type Status int

const (
	StatusOff Status = iota
	StatusListening
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOff:
		return "off"
	case StatusListening:
		return "listening"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Detection is one classifier result.
type Detection struct {
	Label      string
	Confidence float64
}

// Classifier is a background detector. Detections is valid after Start and
// is closed when the classifier stops on its own.
type Classifier interface {
	Start(ctx context.Context) error
	Stop() error
	Detections() <-chan Detection
}

// Gate is the session side of the arbiter.
type Gate interface {
	Period() (uint64, bool)
	Stop(trigger model.Trigger) bool
	StopAt(period uint64, trigger model.Trigger) bool
}

type sourceState struct {
	classifier Classifier
	rule       Rule
	status     Status
	lastErr    error
	fired      uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// Arbiter funnels every stop source into one gate.
type Arbiter struct {
	mu       sync.Mutex
	gate     Gate
	logger   *slog.Logger
	sources  map[Source]*sourceState
	active   Source
	onChange func()
}

// NewArbiter returns an Arbiter with no classifiers registered.
func NewArbiter(gate Gate, logger *slog.Logger) *Arbiter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Arbiter{
		gate:    gate,
		logger:  logger,
		sources: map[Source]*sourceState{},
	}
}

// Register attaches a classifier for src. A nil classifier marks src unavailable.
func (a *Arbiter) Register(src Source, c Classifier, rule Rule) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := &sourceState{classifier: c, rule: rule}
	if c == nil {
		st.status = StatusUnavailable
		st.lastErr = errors.New("no classifier configured")
	}
	a.sources[src] = st
}

// OnChange sets a callback run after a source status change.
func (a *Arbiter) OnChange(f func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = f
}

// SetGate points the arbiter at a new session.
func (a *Arbiter) SetGate(gate Gate) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gate = gate
	for _, st := range a.sources {
		st.fired = 0
	}
}

// Press is the stop key. It is always enabled.
func (a *Arbiter) Press() bool {
	a.mu.Lock()
	gate := a.gate
	a.mu.Unlock()
	if gate == nil {
		return false
	}
	return gate.Stop(model.TriggerButton)
}

// Enable starts the classifier for src. It fails with ErrSourceBusy while the
// other classifier is active, and with ErrUnavailable when it cannot start.
func (a *Arbiter) Enable(ctx context.Context, src Source) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if src == SourceNone {
		return fmt.Errorf("cannot enable source %s", src)
	}
	if a.active == src {
		return nil
	}
	if a.active != SourceNone {
		return fmt.Errorf("%w: %s is on", ErrSourceBusy, a.active)
	}
	st, ok := a.sources[src]
	if !ok || st.classifier == nil {
		return fmt.Errorf("%s: %w", src, ErrUnavailable)
	}
	if err := st.classifier.Start(ctx); err != nil {
		st.status = StatusUnavailable
		st.lastErr = err
		a.logger.Warn("input source unavailable", "source", src.String(), "error", err)
		a.changedLocked()
		return fmt.Errorf("%s: %w: %w", src, ErrUnavailable, err)
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	st.cancel = cancel
	st.done = make(chan struct{})
	st.status = StatusListening
	st.lastErr = nil
	a.active = src
	go a.listen(loopCtx, src, st, st.classifier.Detections(), st.done)
	a.logger.Info("input source enabled", "source", src.String())
	a.changedLocked()
	return nil
}

// Disable stops src if it is the active source. Otherwise it does nothing.
func (a *Arbiter) Disable(src Source) error {
	a.mu.Lock()
	if a.active != src || src == SourceNone {
		a.mu.Unlock()
		return nil
	}
	st := a.sources[src]
	a.active = SourceNone
	st.status = StatusOff
	st.cancel()
	done := st.done
	a.changedLocked()
	a.mu.Unlock()

	<-done
	if err := st.classifier.Stop(); err != nil {
		return fmt.Errorf("failed to stop %s classifier: %w", src, err)
	}
	a.logger.Info("input source disabled", "source", src.String())
	return nil
}

// Toggle disables src when active and enables it otherwise.
func (a *Arbiter) Toggle(ctx context.Context, src Source) error {
	if a.Active() == src {
		return a.Disable(src)
	}
	return a.Enable(ctx, src)
}

// Active returns the source holding input rights.
func (a *Arbiter) Active() Source {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Status returns the status of src and the last start error, if any.
func (a *Arbiter) Status(src Source) (Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.sources[src]
	if !ok {
		return StatusUnavailable, ErrUnavailable
	}
	return st.status, st.lastErr
}

// Close disables the active source.
func (a *Arbiter) Close() error {
	return a.Disable(a.Active())
}

func (a *Arbiter) listen(ctx context.Context, src Source, st *sourceState, detections <-chan Detection, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-detections:
			if !ok {
				a.lost(src, st)
				return
			}
			a.handle(src, st, d)
		}
	}
}

func (a *Arbiter) handle(src Source, st *sourceState, d Detection) {
	a.mu.Lock()
	if a.active != src || a.gate == nil || !st.rule.Matches(d) {
		a.mu.Unlock()
		return
	}
	period, flashing := a.gate.Period()
	if !flashing || st.fired == period {
		a.mu.Unlock()
		return
	}
	st.fired = period
	gate := a.gate
	a.mu.Unlock()

	if gate.StopAt(period, src.Trigger()) {
		a.logger.Debug("classifier stop", "source", src.String(), "label", d.Label, "confidence", d.Confidence)
	}
}

func (a *Arbiter) lost(src Source, st *sourceState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active != src {
		return
	}
	a.active = SourceNone
	st.cancel()
	st.status = StatusUnavailable
	st.lastErr = errors.New("classifier exited")
	a.logger.Warn("input source exited", "source", src.String())
	a.changedLocked()
}

func (a *Arbiter) changedLocked() {
	if a.onChange != nil {
		go a.onChange()
	}
}
