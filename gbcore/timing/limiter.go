package timing

import (
	"fmt"
	"time"
)

const (
	// CyclesPerFrame is the number of clock cycles in one hardware frame,
	// 154 scanlines of 456 cycles. It sets the pacing rate only.
	CyclesPerFrame = 70224
	// CPUFrequency is the clock rate in Hz.
	CPUFrequency = 4194304
)

// FrameDuration is the wall clock time one frame takes on hardware.
func FrameDuration() time.Duration {
	return time.Second * CyclesPerFrame / CPUFrequency
}

// Limiter paces the driver loop to real time. The emulation itself only
// counts cycles; pacing is never part of the core.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due.
	WaitForNextFrame()
	// Reset restarts pacing, e.g. after a pause.
	Reset()
	// Stop releases any resources.
	Stop()
}

// New returns the limiter with the given name: "none" runs as fast as
// possible, "ticker" paces to the hardware frame rate.
func New(name string) (Limiter, error) {
	switch name {
	case "", "ticker":
		return NewTickerLimiter(FrameDuration()), nil
	case "none":
		return NewNoOpLimiter(), nil
	}
	return nil, fmt.Errorf("unknown limiter %q", name)
}

// NewNoOpLimiter returns a limiter that never waits.
func NewNoOpLimiter() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame() {}
func (noOpLimiter) Reset()            {}
func (noOpLimiter) Stop()             {}

// TickerLimiter paces frames with a time.Ticker.
type TickerLimiter struct {
	period time.Duration
	ticker *time.Ticker
}

func NewTickerLimiter(period time.Duration) *TickerLimiter {
	return &TickerLimiter{
		period: period,
		ticker: time.NewTicker(period),
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
