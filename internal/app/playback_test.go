package app

import "testing"

func TestPlaybackRunsUntilPaused(t *testing.T) {
	var p playback
	for i := 0; i < 3; i++ {
		if !p.advance() {
			t.Fatalf("tick %d did not step while running", i)
		}
	}
	p.togglePause()
	if p.advance() {
		t.Fatal("stepped while paused")
	}
}

func TestPlaybackSingleStepStaysPaused(t *testing.T) {
	p := playback{paused: true}
	p.stepOnce()
	if !p.advance() {
		t.Fatal("single step request was not honoured")
	}
	if !p.paused {
		t.Fatal("single step resumed the simulation")
	}
	if p.advance() {
		t.Fatal("single step request was honoured twice")
	}
}

func TestPlaybackCancelledStep(t *testing.T) {
	p := playback{paused: true}
	p.stepOnce()
	p.cancelStep()
	if p.advance() {
		t.Fatal("cancelled step still advanced")
	}
}
