// Package progress coalesces many independent loading tasks into one
// monotonic done/total counter with edge-triggered reporting.
package progress

import (
	"errors"
	"fmt"
	"math"
)

// ErrSealed is returned by Register once loading has finished.
var ErrSealed = errors.New("progress: registration after loading phase")

// EmptyPolicy decides whether a loading phase with no registered tasks is
// considered complete.
type EmptyPolicy int

const (
	// EmptyNeverCompletes keeps IsComplete false while nothing is registered.
	EmptyNeverCompletes EmptyPolicy = iota
	// EmptyCompletes treats zero registered tasks as already complete.
	EmptyCompletes
)

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Done  uint32
	Total uint32
}

// Fraction returns done/total in [0, 1]. An empty snapshot is 0.
func (s Snapshot) Fraction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Total)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("Progress { done: %d, total: %d }", s.Done, s.Total)
}

// Aggregator tracks registered versus completed loading tasks.
//
// It has a single writer, the tick loop. Loader goroutines report through
// the app, which calls MarkDone from within a tick.
type Aggregator struct {
	total    uint32
	done     uint32
	reported uint32
	sealed   bool
	policy   EmptyPolicy
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithEmptyPolicy sets how a zero-task loading phase is treated.
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(a *Aggregator) {
		a.policy = p
	}
}

// New creates an empty aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds n expected tasks. It returns ErrSealed after Seal and
// panics if the total would overflow.
func (a *Aggregator) Register(n uint32) error {
	if a.sealed {
		return ErrSealed
	}
	if uint64(a.total)+uint64(n) > math.MaxUint32 {
		panic(fmt.Sprintf("progress: registering %d more tasks overflows total %d", n, a.total))
	}
	a.total += n
	return nil
}

// MarkDone records n completed tasks. Completing more tasks than were
// registered panics: a collaborator has miscounted.
func (a *Aggregator) MarkDone(n uint32) {
	if uint64(a.done)+uint64(n) > uint64(a.total) {
		panic(fmt.Sprintf("progress: done %d + %d exceeds registered total %d", a.done, n, a.total))
	}
	a.done += n
}

// CheckAndReport returns the current snapshot if done strictly increased
// since the previous call. Call it at most once per tick.
func (a *Aggregator) CheckAndReport() (Snapshot, bool) {
	if a.sealed || a.done <= a.reported {
		return Snapshot{}, false
	}
	a.reported = a.done
	return a.Snapshot(), true
}

// IsComplete reports whether every registered task is done.
func (a *Aggregator) IsComplete() bool {
	if a.total == 0 {
		return a.policy == EmptyCompletes
	}
	return a.done == a.total
}

// Snapshot returns the current counters.
func (a *Aggregator) Snapshot() Snapshot {
	return Snapshot{Done: a.done, Total: a.total}
}

// Seal freezes the aggregator once loading is over. Later registrations
// are rejected and nothing more is reported.
func (a *Aggregator) Seal() {
	a.sealed = true
}

// Sealed reports whether Seal has been called.
func (a *Aggregator) Sealed() bool {
	return a.sealed
}
