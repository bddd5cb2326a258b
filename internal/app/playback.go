package app

// playback tracks whether the simulation runs freely or waits for single
// steps.
type playback struct {
	paused   bool
	tickOnce bool
}

func (p *playback) togglePause() { p.paused = !p.paused }

// stepOnce requests exactly one step while paused. While running it is a
// no-op.
func (p *playback) stepOnce() { p.tickOnce = true }

func (p *playback) cancelStep() { p.tickOnce = false }

// advance reports whether this tick should step the engine and consumes a
// pending single step.
func (p *playback) advance() bool {
	if !p.paused {
		p.tickOnce = false
		return true
	}
	if p.tickOnce {
		p.tickOnce = false
		return true
	}
	return false
}
