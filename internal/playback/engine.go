// Package playback drives a cursor over a fixed, validated sequence of
// decision records: auto-play on a timer, manual stepping, and the
// derived diff state a renderer shows for the current record.
package playback

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"energy-dashboard/internal/clock"
	"energy-dashboard/internal/model"
)

var ErrEmptyDataset = errors.New("playback: dataset is empty")

// DefaultInterval is the auto-play tick period.
const DefaultInterval = 500 * time.Millisecond

type State string

const (
	StateStopped State = "stopped"
	StatePlaying State = "playing"
)

type Options struct {
	Clock     clock.Clock
	Interval  time.Duration
	Threshold float64
	Logger    zerolog.Logger
}

// Engine owns the playback cursor. All methods are safe for concurrent
// use; timer ticks arrive on their own goroutine with the real clock.
//
// Listeners registered with OnChange run after the engine's lock is
// released and may call back into the engine.
type Engine struct {
	records   []model.DecisionRecord
	clk       clock.Clock
	interval  time.Duration
	threshold float64
	log       zerolog.Logger

	mu    sync.Mutex
	index int
	state State
	timer *clock.Timer
	// gen invalidates ticks armed before the last transition.
	gen       uint64
	closed    bool
	listeners map[int]func(View)
	nextID    int
}

// New copies records, sorts them ascending by step, and returns a
// stopped engine at index 0.
func New(records []model.DecisionRecord, opts Options) (*Engine, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}

	sorted := append([]model.DecisionRecord(nil), records...)
	// Step strings share one fixed-width layout, so lexical order is time order.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Step < sorted[j].Step })

	return &Engine{
		records:   sorted,
		clk:       opts.Clock,
		interval:  opts.Interval,
		threshold: opts.Threshold,
		log:       opts.Logger,
		state:     StateStopped,
		listeners: map[int]func(View){},
	}, nil
}

func (e *Engine) Len() int { return len(e.records) }

func (e *Engine) Interval() time.Duration { return e.interval }

func (e *Engine) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Play starts auto-play. From the last record it rewinds to the first.
// It is a no-op while already playing or when there is only one record.
func (e *Engine) Play() {
	e.transition("play", func() bool {
		if e.state == StatePlaying || len(e.records) < 2 {
			return false
		}
		if e.index == len(e.records)-1 {
			e.index = 0
		}
		e.state = StatePlaying
		e.arm()
		return true
	})
}

// Pause stops auto-play and cancels the pending tick.
func (e *Engine) Pause() {
	e.transition("pause", func() bool {
		if e.state != StatePlaying {
			return false
		}
		e.stop()
		return true
	})
}

// Toggle pauses while playing and plays otherwise.
func (e *Engine) Toggle() {
	if e.State() == StatePlaying {
		e.Pause()
		return
	}
	e.Play()
}

// Next steps forward one record and stops auto-play.
func (e *Engine) Next() {
	e.transition("next", func() bool {
		return e.manual(e.index + 1)
	})
}

// Previous steps back one record and stops auto-play.
func (e *Engine) Previous() {
	e.transition("previous", func() bool {
		return e.manual(e.index - 1)
	})
}

// Seek moves to index, clamped to the valid range. Play state is kept.
func (e *Engine) Seek(index int) {
	e.transition("seek", func() bool {
		index = e.clamp(index)
		if index == e.index {
			return false
		}
		e.index = index
		return true
	})
}

// Select is Seek followed by stopping auto-play, the behaviour of
// picking a record from a list.
func (e *Engine) Select(index int) {
	e.transition("select", func() bool {
		return e.manual(index)
	})
}

// Close cancels any pending tick and drops listeners. Later calls to
// transition methods are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.state == StatePlaying {
		e.stop()
	}
	e.closed = true
	e.listeners = map[int]func(View){}
	e.log.Debug().Msg("playback closed")
}

// OnChange registers fn to receive the view after every committed
// change. The returned func unregisters it.
func (e *Engine) OnChange(fn func(View)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return func() {}
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// manual moves to index and forces Stopped. Reports whether anything changed.
func (e *Engine) manual(index int) bool {
	index = e.clamp(index)
	changed := index != e.index || e.state == StatePlaying
	e.index = index
	if e.state == StatePlaying {
		e.stop()
	}
	return changed
}

func (e *Engine) clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index > len(e.records)-1 {
		return len(e.records) - 1
	}
	return index
}

// arm schedules the next tick. Caller holds mu.
func (e *Engine) arm() {
	e.gen++
	gen := e.gen
	e.timer = e.clk.AfterFunc(e.interval, func() { e.tick(gen) })
}

// stop leaves Playing and cancels the tick. Caller holds mu.
func (e *Engine) stop() {
	e.state = StateStopped
	e.timer.Stop()
	e.timer = nil
	e.gen++
}

func (e *Engine) tick(gen uint64) {
	e.transition("tick", func() bool {
		if e.state != StatePlaying || gen != e.gen {
			return false
		}
		last := len(e.records) - 1
		if e.index < last {
			e.index++
		}
		if e.index >= last {
			e.stop()
		} else {
			e.arm()
		}
		return true
	})
}

// transition runs apply under the lock and, if it reports a change,
// notifies listeners with the resulting view once the lock is released.
func (e *Engine) transition(name string, apply func() bool) {
	e.mu.Lock()
	if e.closed || !apply() {
		e.mu.Unlock()
		return
	}
	v := e.view()
	listeners := make([]func(View), 0, len(e.listeners))
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, e.listeners[id])
	}
	e.mu.Unlock()

	e.log.Debug().Str("transition", name).Int("index", v.Index).Str("state", string(v.State)).Msg("playback")
	for _, fn := range listeners {
		fn(v)
	}
}
