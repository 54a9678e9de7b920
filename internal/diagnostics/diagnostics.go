// Package diagnostics tracks per-frame timing for log annotation and the
// world inspector.
package diagnostics

import "time"

// smoothing is the weight of the newest sample in the FPS moving average.
const smoothing = 0.1

// Diagnostics holds the frame counter and frame-time measurements.
type Diagnostics struct {
	now       func() time.Time
	frames    uint64
	last      time.Time
	frameTime time.Duration
	fps       float64
	started   time.Time
}

// Option configures Diagnostics.
type Option func(*Diagnostics)

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(d *Diagnostics) {
		d.now = now
	}
}

// New creates diagnostics with a zero frame count.
func New(opts ...Option) *Diagnostics {
	d := &Diagnostics{now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	d.started = d.now()
	return d
}

// Frame records the start of a new frame.
func (d *Diagnostics) Frame() {
	now := d.now()
	d.frames++
	if !d.last.IsZero() {
		d.frameTime = now.Sub(d.last)
		if d.frameTime > 0 {
			sample := float64(time.Second) / float64(d.frameTime)
			if d.fps == 0 {
				d.fps = sample
			} else {
				d.fps = smoothing*sample + (1-smoothing)*d.fps
			}
		}
	}
	d.last = now
}

// FrameCount returns the number of frames recorded so far.
func (d *Diagnostics) FrameCount() uint64 {
	return d.frames
}

// FrameTime returns the duration of the last completed frame.
func (d *Diagnostics) FrameTime() time.Duration {
	return d.frameTime
}

// FPS returns the smoothed frames per second.
func (d *Diagnostics) FPS() float64 {
	return d.fps
}

// Uptime returns the time since diagnostics were created.
func (d *Diagnostics) Uptime() time.Duration {
	return d.now().Sub(d.started)
}
