package session

import (
	"sync"
	"time"
)

// TickFunc receives the option now on display and the run it belongs to.
type TickFunc func(option string, run uint64)

// Cycler shows options round-robin at a fixed interval.
type Cycler struct {
	mu       sync.Mutex
	clock    Clock
	onTick   TickFunc
	options  []string
	interval time.Duration
	idx      int
	run      uint64
	running  bool
	timer    Timer
}

// NewCycler returns a stopped Cycler that reports ticks to onTick.
func NewCycler(clock Clock, onTick TickFunc) *Cycler {
	return &Cycler{clock: clock, onTick: onTick}
}

// Start begins a new run from the first option and returns it with the run id.
// The interval is fixed for the whole run.
func (c *Cycler) Start(options []string, interval time.Duration) (string, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.run++
	c.options = append(c.options[:0], options...)
	c.interval = interval
	c.idx = 0
	c.running = true
	if len(c.options) == 0 {
		return "", c.run
	}
	c.scheduleLocked(c.run)
	return c.options[0], c.run
}

// Stop halts the current run; a tick already in flight is discarded.
func (c *Cycler) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Running reports whether a run is active.
func (c *Cycler) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Cycler) stopLocked() {
	c.running = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Cycler) scheduleLocked(run uint64) {
	c.timer = c.clock.AfterFunc(c.interval, func() { c.tick(run) })
}

func (c *Cycler) tick(run uint64) {
	c.mu.Lock()
	if !c.running || run != c.run {
		c.mu.Unlock()
		return
	}
	c.idx = (c.idx + 1) % len(c.options)
	option := c.options[c.idx]
	c.mu.Unlock()

	// The callback may take other locks; it runs without ours.
	c.onTick(option, run)

	c.mu.Lock()
	if c.running && run == c.run {
		c.scheduleLocked(run)
	}
	c.mu.Unlock()
}
