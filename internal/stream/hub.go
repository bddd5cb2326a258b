// Package stream serves a running fire simulation over HTTP and websockets.
//
// A Hub owns the engine and advances it on a fixed tick; every connected
// client receives the latest frame, and clients that fall behind skip frames
// rather than slowing the simulation down.
package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/sims/forestfire"
)

// Frame is the JSON message published to clients after every step or edit.
type Frame struct {
	Step   int `json:"step"`
	Width  int `json:"width"`
	Height int `json:"height"`
	// Cells holds one digit per cell in row-major order, the digit being the
	// cell's numeric state (0 empty, 1 deciduous, 2 conifer, 3 burning,
	// 4 barrier).
	Cells  string            `json:"cells"`
	Census forestfire.Census `json:"census"`
	Paused bool              `json:"paused"`
}

// NewFrame encodes a grid snapshot.
func NewFrame(v forestfire.GridView) Frame {
	cells := v.Cells()
	var b strings.Builder
	b.Grow(len(cells))
	for _, c := range cells {
		b.WriteByte('0' + byte(c))
	}
	return Frame{
		Step:   v.Step(),
		Width:  v.Width(),
		Height: v.Height(),
		Cells:  b.String(),
		Census: v.Census(),
	}
}

// Hub serialises access to one engine and fans frames out to subscribers.
type Hub struct {
	mu     sync.Mutex
	engine *forestfire.Engine
	clock  *core.FixedStep
	latest Frame

	subMu sync.Mutex
	subs  map[chan Frame]struct{}
}

// NewHub wraps an engine that advances tps times per second once Run starts.
func NewHub(e *forestfire.Engine, tps int) *Hub {
	h := &Hub{
		engine: e,
		clock:  core.NewFixedStep(tps),
		subs:   map[chan Frame]struct{}{},
	}
	h.latest = NewFrame(e.Grid())
	return h
}

// Run advances the simulation until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	h.mu.Lock()
	poll := h.clock.Interval() / 2
	h.mu.Unlock()
	if poll < time.Millisecond {
		poll = time.Millisecond
	}

	ticker := channerics.NewTicker(ctx.Done(), poll)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ticker:
			if !ok {
				return nil
			}
			h.mu.Lock()
			if !h.clock.ShouldStep() {
				h.mu.Unlock()
				continue
			}
			h.engine.Step()
			h.broadcast(h.frameLocked())
			h.mu.Unlock()
		}
	}
}

// Subscribe registers a client. The returned channel holds at most one
// pending frame and starts with the current one; cancel unregisters it.
func (h *Hub) Subscribe() (frames <-chan Frame, cancel func()) {
	ch := make(chan Frame, 1)
	h.mu.Lock()
	ch <- h.latest
	h.subMu.Lock()
	h.subs[ch] = struct{}{}
	h.subMu.Unlock()
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.subMu.Lock()
			delete(h.subs, ch)
			h.subMu.Unlock()
		})
	}
}

// Subscribers returns the number of registered clients.
func (h *Hub) Subscribers() int {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	return len(h.subs)
}

// broadcast hands f to every subscriber, replacing any frame the subscriber
// has not read yet. Callers hold mu so frames go out in step order.
func (h *Hub) broadcast(f Frame) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- f:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- f:
		default:
		}
	}
}

// Latest returns the most recent frame.
func (h *Hub) Latest() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Ignite sets a tree on fire and publishes the result.
func (h *Hub) Ignite(row, col int) Frame {
	return h.edit(func(e *forestfire.Engine) { e.Ignite(row, col) })
}

// ToggleBarrier places or removes a barrier and publishes the result.
func (h *Hub) ToggleBarrier(row, col int) Frame {
	return h.edit(func(e *forestfire.Engine) { e.ToggleBarrier(row, col) })
}

// Reset regenerates the forest and publishes the result.
func (h *Hub) Reset() Frame {
	return h.edit(func(e *forestfire.Engine) { e.Reset() })
}

// Step advances one tick regardless of the clock, for paused sessions.
func (h *Hub) Step() Frame {
	return h.edit(func(e *forestfire.Engine) { e.Step() })
}

// SetPaused stops or restarts the tick clock.
func (h *Hub) SetPaused(paused bool) Frame {
	h.mu.Lock()
	if paused {
		h.clock.Pause()
	} else {
		h.clock.Resume()
	}
	f := h.frameLocked()
	h.broadcast(f)
	h.mu.Unlock()
	return f
}

// Paused reports whether the tick clock is stopped.
func (h *Hub) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock.Paused()
}

// Config returns the engine configuration.
func (h *Hub) Config() forestfire.Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.Config()
}

// SetConfig applies new parameters from the next step.
func (h *Hub) SetConfig(cfg forestfire.Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.SetConfig(cfg)
}

func (h *Hub) edit(fn func(*forestfire.Engine)) Frame {
	h.mu.Lock()
	fn(h.engine)
	f := h.frameLocked()
	h.broadcast(f)
	h.mu.Unlock()
	return f
}

func (h *Hub) frameLocked() Frame {
	f := NewFrame(h.engine.Grid())
	f.Paused = h.clock.Paused()
	h.latest = f
	return f
}
