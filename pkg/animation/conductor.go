package animation

import (
	"sync"
	"time"
)

// Conductor owns a set of tickers and the clock that times them. A frame
// loop pumps it once per frame with Step. Most code uses the package-level
// default; tests that need isolation create their own.
type Conductor struct {
	mu      sync.Mutex
	clock   Clock
	tickers map[*Ticker]struct{}
}

// NewConductor creates a conductor on the system clock with no tickers.
func NewConductor() *Conductor {
	return &Conductor{
		clock:   systemClock{},
		tickers: make(map[*Ticker]struct{}),
	}
}

var defaultConductor = NewConductor()

// Default returns the conductor shared by Transition and the window frame
// loop.
func Default() *Conductor { return defaultConductor }

// SetClock replaces the conductor's time source, returning the previous
// one.
func (c *Conductor) SetClock(clock Clock) Clock {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.clock
	c.clock = clock
	return prev
}

// Now returns the current time from the conductor's clock.
func (c *Conductor) Now() time.Time {
	c.mu.Lock()
	clock := c.clock
	c.mu.Unlock()
	return clock.Now()
}

// NewTicker creates an inactive ticker on this conductor. The callback
// receives the time elapsed since Start on every Step while active.
func (c *Conductor) NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{conductor: c, callback: callback}
}

// Step advances every active ticker once, all against the same instant.
// Callbacks run outside the conductor's lock and may start or stop tickers,
// including their own.
func (c *Conductor) Step() {
	now := c.Now()
	c.mu.Lock()
	if len(c.tickers) == 0 {
		c.mu.Unlock()
		return
	}
	active := make([]*Ticker, 0, len(c.tickers))
	for t := range c.tickers {
		active = append(active, t)
	}
	c.mu.Unlock()

	for _, t := range active {
		t.tick(now)
	}
}

// HasActive reports whether any ticker on this conductor is running.
func (c *Conductor) HasActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers) > 0
}

func (c *Conductor) add(t *Ticker) {
	c.mu.Lock()
	c.tickers[t] = struct{}{}
	c.mu.Unlock()
}

func (c *Conductor) remove(t *Ticker) {
	c.mu.Lock()
	delete(c.tickers, t)
	c.mu.Unlock()
}

// StepTickers advances the default conductor's tickers. Called once per
// frame from the window loop.
func StepTickers() { defaultConductor.Step() }

// HasActiveTickers reports whether the default conductor has running
// tickers.
func HasActiveTickers() bool { return defaultConductor.HasActive() }
