package session

import (
	"fmt"
	"time"

	"github.com/verte-zerg/flashmash/internal/model"
)

// Policy holds the cycling speed and feedback dwell settings.
type Policy struct {
	Start          time.Duration
	MinInterval    time.Duration
	MaxInterval    time.Duration
	SpeedUp        float64
	SlowDown       float64
	SpeedUpEvery   int
	SlowDownEvery  int
	DwellCorrect   time.Duration
	DwellIncorrect time.Duration
}

// DefaultPolicy returns the stock timing policy.
func DefaultPolicy() Policy {
	return Policy{
		Start:          5 * time.Second,
		MinInterval:    2 * time.Second,
		MaxInterval:    10 * time.Second,
		SpeedUp:        2.0 / 3.0,
		SlowDown:       1.5,
		SpeedUpEvery:   3,
		SlowDownEvery:  2,
		DwellCorrect:   time.Second,
		DwellIncorrect: 5 * time.Second,
	}
}

// PolicyFromConfig overlays the practice settings on the default policy.
// Zero settings keep their defaults.
func PolicyFromConfig(cfg model.Config) Policy {
	p := DefaultPolicy()
	if cfg.Interval > 0 {
		p.Start = cfg.Interval
	}
	if cfg.MinInterval > 0 {
		p.MinInterval = cfg.MinInterval
	}
	if cfg.MaxInterval > 0 {
		p.MaxInterval = cfg.MaxInterval
	}
	if cfg.SpeedUp > 0 {
		p.SpeedUp = cfg.SpeedUp
	}
	if cfg.SlowDown > 0 {
		p.SlowDown = cfg.SlowDown
	}
	if cfg.DwellCorrect > 0 {
		p.DwellCorrect = cfg.DwellCorrect
	}
	if cfg.DwellIncorrect > 0 {
		p.DwellIncorrect = cfg.DwellIncorrect
	}
	return p
}

// Validate reports the first inconsistent setting.
func (p Policy) Validate() error {
	switch {
	case p.Start <= 0:
		return fmt.Errorf("start interval must be > 0")
	case p.MinInterval <= 0:
		return fmt.Errorf("min interval must be > 0")
	case p.MaxInterval < p.MinInterval:
		return fmt.Errorf("max interval must be >= min interval")
	case p.SpeedUp <= 0 || p.SpeedUp > 1:
		return fmt.Errorf("speedup factor must be in (0, 1]")
	case p.SlowDown < 1:
		return fmt.Errorf("slowdown factor must be >= 1")
	case p.SpeedUpEvery <= 0 || p.SlowDownEvery <= 0:
		return fmt.Errorf("streak steps must be > 0")
	case p.DwellCorrect < 0:
		return fmt.Errorf("correct dwell must be >= 0")
	case p.DwellIncorrect <= p.DwellCorrect:
		return fmt.Errorf("incorrect dwell must be longer than correct dwell")
	}
	return nil
}

// Adapt returns the interval to use after a commit. streak is the updated
// streak in the direction of the commit.
func (p Policy) Adapt(streak int, wasCorrect bool, current time.Duration) time.Duration {
	if streak <= 0 {
		return current
	}
	if wasCorrect {
		if streak%p.SpeedUpEvery != 0 {
			return current
		}
		next := time.Duration(float64(current) * p.SpeedUp)
		if next < p.MinInterval {
			next = p.MinInterval
		}
		return next
	}
	if streak%p.SlowDownEvery != 0 {
		return current
	}
	next := time.Duration(float64(current) * p.SlowDown)
	if next > p.MaxInterval {
		next = p.MaxInterval
	}
	return next
}

// Dwell returns how long feedback stays on screen after a commit.
func (p Policy) Dwell(wasCorrect bool) time.Duration {
	if wasCorrect {
		return p.DwellCorrect
	}
	return p.DwellIncorrect
}
