package playback

import (
	"sync"
	"time"
)

// DefaultTickInterval is the position-stream tick rate (~30 Hz).
const DefaultTickInterval = 33 * time.Millisecond

// Clock produces the playback-position stream: a non-decreasing sequence of
// seconds, reset to zero on seek. It is the viewer's stand-in for an audio
// clock; the engine only ever sees positions, never audio.
//
// Positions advance by measuring elapsed wall time against an injectable
// now() so tests can drive the clock deterministically via Advance.
type Clock struct {
	mu       sync.Mutex
	now      func() time.Time
	last     time.Time
	position float64
	playing  bool
	stop     chan struct{}

	// deliverMu is held across a whole tick delivery, including the OnTick
	// call. Stop takes it after halting, so Stop cannot return while a
	// delivery is in flight.
	deliverMu sync.Mutex

	// OnTick is called with the current position on every tick while
	// playing. Set before Start.
	OnTick func(position float64)

	// TickInterval overrides DefaultTickInterval when positive.
	TickInterval time.Duration
}

// NewClock creates a stopped clock at position zero.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Position returns the current playback position in seconds.
func (c *Clock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Playing reports whether the clock is advancing.
func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Start begins advancing the position and delivering ticks on a background
// goroutine. Starting a playing clock is a no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	if c.playing {
		c.mu.Unlock()
		return
	}
	c.playing = true
	c.last = c.now()
	c.stop = make(chan struct{})
	stop := c.stop
	interval := c.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.Advance()
			}
		}
	}()
}

// Advance accumulates elapsed time since the previous tick and delivers the
// new position. Exposed so tests (with an injected now) can tick the clock
// without a goroutine.
func (c *Clock) Advance() {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	if !c.playing {
		c.mu.Unlock()
		return
	}
	nowT := c.now()
	c.position += nowT.Sub(c.last).Seconds()
	c.last = nowT
	pos := c.position
	onTick := c.OnTick
	c.mu.Unlock()

	if onTick != nil {
		onTick(pos)
	}
}

// Pause stops advancing but keeps the current position.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.halt()
}

// Stop halts the clock and resets the position to zero. No tick is
// delivered after Stop returns: a delivery already inside OnTick is waited
// out before returning. Calling Stop from inside OnTick deadlocks.
func (c *Clock) Stop() {
	c.mu.Lock()
	c.halt()
	c.position = 0
	c.mu.Unlock()

	// Taking the delivery mutex joins any in-flight OnTick call.
	c.deliverMu.Lock()
	c.deliverMu.Unlock()
}

// Seek rewinds the position to zero without changing the play state.
func (c *Clock) Seek() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = 0
	c.last = c.now()
}

// halt cancels the ticker goroutine. Caller holds the mutex.
func (c *Clock) halt() {
	if !c.playing {
		return
	}
	c.playing = false
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}
