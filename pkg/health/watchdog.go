// Package health tracks whether the server connection is usable.
//
// The watchdog never owns a clock or a goroutine. It hands out Expiry
// requests that the caller schedules, and every expiry carries the
// generation it was armed with; an expiry whose generation has been
// superseded or disarmed is ignored.
package health

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/b/snapmixer/pkg/snapcast"
)

// Health is what the view needs to decide on a blocking modal.
type Health struct {
	Connected         bool
	Stale             bool
	ReconnectAttempts uint
}

// Timing holds the watchdog windows.
type Timing struct {
	Response         time.Duration
	Quiet            time.Duration
	SuspendInterval  time.Duration
	SuspendThreshold time.Duration
}

// DefaultTiming returns the stock windows.
func DefaultTiming() Timing {
	return Timing{
		Response:         200 * time.Millisecond,
		Quiet:            5 * time.Minute,
		SuspendInterval:  time.Second,
		SuspendThreshold: 10 * time.Second,
	}
}

var ErrInvalidTiming = errors.New("invalid watchdog timing")

// Validate checks that every window is positive, the quiet window is
// longer than the response window, and the suspend threshold is at least
// twice the tick interval.
func (t Timing) Validate() error {
	if t.Response <= 0 || t.Quiet <= 0 || t.SuspendInterval <= 0 || t.SuspendThreshold <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalidTiming)
	}
	if t.Quiet <= t.Response {
		return fmt.Errorf("%w: quiet (%s) must exceed response (%s)", ErrInvalidTiming, t.Quiet, t.Response)
	}
	if t.SuspendThreshold < 2*t.SuspendInterval {
		return fmt.Errorf("%w: suspend threshold (%s) must be at least twice the interval (%s)",
			ErrInvalidTiming, t.SuspendThreshold, t.SuspendInterval)
	}
	return nil
}

// Timer names one of the two rearmable deadlines.
type Timer int

const (
	Quiet Timer = iota
	Response
)

func (t Timer) String() string {
	switch t {
	case Quiet:
		return "quiet"
	case Response:
		return "response"
	default:
		return fmt.Sprintf("Timer(%d)", int(t))
	}
}

// Expiry asks the caller to report Timer back via Expired after After
// has elapsed.
type Expiry struct {
	Timer      Timer
	Generation uint64
	After      time.Duration
}

// Outcome tells the caller what to do after a watchdog event.
type Outcome struct {
	Redraw        bool
	RequestStatus bool
	// Sent marks the status request as a sent command; the caller reports
	// it through Sent once issued.
	Sent bool
	// Schedule lists timers the caller must arm.
	Schedule []Expiry
}

type deadline struct {
	generation uint64
	armed      bool
	// due marks a deadline that lapsed while its guard was false; it acts
	// as soon as the guard holds again.
	due bool
}

// Watchdog is the connection health state machine.
type Watchdog struct {
	timing   Timing
	log      *zap.Logger
	health   Health
	gen      uint64
	timers   [2]deadline
	lastTick time.Time
}

func NewWatchdog(timing Timing, log *zap.Logger) *Watchdog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watchdog{timing: timing, log: log}
}

// Health returns the current flags.
func (w *Watchdog) Health() Health { return w.health }

// Timing returns the configured windows.
func (w *Watchdog) Timing() Timing { return w.timing }

// Armed reports whether timer has a live deadline.
func (w *Watchdog) Armed(timer Timer) bool { return w.timers[timer].armed }

// Start seeds the suspend detector with the current wall-clock time.
func (w *Watchdog) Start(now time.Time) {
	w.lastTick = now.Round(0)
}

// StatusChanged applies a connection-status transition.
func (w *Watchdog) StatusChanged(st snapcast.Status) Outcome {
	switch st {
	case snapcast.Connected:
		w.health.Connected = true
		w.health.ReconnectAttempts = 0
		w.log.Info("connection up")
		out := Outcome{Redraw: true, RequestStatus: true}
		switch {
		case w.timers[Quiet].due:
			w.timers[Quiet].due = false
			w.log.Debug("quiet window lapsed while down, probing server")
			out.Sent = true
		case !w.timers[Quiet].armed:
			out.Schedule = []Expiry{w.arm(Quiet, w.timing.Quiet)}
		}
		return out
	case snapcast.Disconnected:
		w.health.Connected = false
		w.health.ReconnectAttempts = 1
		w.log.Info("connection down")
	case snapcast.ReconnectFailed:
		w.health.ReconnectAttempts++
		w.log.Debug("reconnect failed", zap.Uint("attempts", w.health.ReconnectAttempts))
	}
	return Outcome{Redraw: true}
}

// Received records an inbound batch: the quiet timer is rearmed, the
// response timer disarmed and a stale connection is fresh again.
func (w *Watchdog) Received() Outcome {
	out := Outcome{Schedule: []Expiry{w.arm(Quiet, w.timing.Quiet)}}
	w.disarm(Response)
	if w.health.Stale {
		w.health.Stale = false
		w.log.Info("connection fresh again")
		out.Redraw = true
	}
	return out
}

// Sent records an outbound command and arms the response timer.
func (w *Watchdog) Sent() Expiry {
	return w.arm(Response, w.timing.Response)
}

// Expired handles a timer firing. Expiries from an older or disarmed
// generation do nothing. A live expiry disarms its timer and acts only
// while the connection is up and not stale. A quiet expiry outside that
// window stays due until the next Connected; a response expiry is dropped.
func (w *Watchdog) Expired(timer Timer, generation uint64) Outcome {
	d := w.timers[timer]
	if !d.armed || d.generation != generation {
		return Outcome{}
	}
	w.disarm(timer)
	if !w.health.Connected || w.health.Stale {
		if timer == Quiet {
			w.timers[Quiet].due = true
		}
		return Outcome{}
	}

	switch timer {
	case Quiet:
		w.log.Debug("quiet window elapsed, probing server")
		return Outcome{RequestStatus: true, Sent: true}
	case Response:
		w.log.Info("no reply within response window, marking stale")
		w.health.Stale = true
		return Outcome{Redraw: true}
	}
	return Outcome{}
}

// Tick feeds the suspend detector. A wall-clock gap of at least the
// suspend threshold since the previous tick asks for a status probe.
func (w *Watchdog) Tick(now time.Time) Outcome {
	now = now.Round(0)
	prev := w.lastTick
	w.lastTick = now
	if prev.IsZero() {
		return Outcome{}
	}
	if gap := now.Sub(prev); gap >= w.timing.SuspendThreshold {
		w.log.Info("suspend detected, probing server", zap.Duration("gap", gap))
		return Outcome{RequestStatus: true, Sent: true}
	}
	return Outcome{}
}

func (w *Watchdog) arm(timer Timer, after time.Duration) Expiry {
	w.gen++
	w.timers[timer] = deadline{generation: w.gen, armed: true}
	return Expiry{Timer: timer, Generation: w.gen, After: after}
}

func (w *Watchdog) disarm(timer Timer) {
	w.timers[timer].armed = false
}
