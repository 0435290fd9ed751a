package main

import (
	"testing"
	"time"

	"github.com/vsariola/termsynth"
)

func TestRenderNote(t *testing.T) {
	o := renderOptions{note: 69, velocity: 127, hold: 50 * time.Millisecond, length: 400 * time.Millisecond}
	buffer, err := renderNote(termsynth.NewSoundPatch(), 8000, o)
	if err != nil {
		t.Fatal(err)
	}
	if len(buffer) != 3200 {
		t.Fatalf("got %d samples, want 3200", len(buffer))
	}
	peak := func(b []float32) float32 {
		var p float32
		for _, s := range b {
			p = max(p, s, -s)
		}
		return p
	}
	if p := peak(buffer[:400]); p == 0 || p > 1 {
		t.Errorf("held part peak %v", p)
	}
	// the default release is 100 ms
	if p := peak(buffer[len(buffer)-100:]); p != 0 {
		t.Errorf("tail should be silent after the release, peak %v", p)
	}
}

func TestRenderNoteRejectsBadInput(t *testing.T) {
	patch := termsynth.NewSoundPatch()
	for _, o := range []renderOptions{
		{note: 60, velocity: 0, hold: time.Second, length: time.Second},
		{note: 200, velocity: 100, hold: time.Second, length: time.Second},
		{note: 60, velocity: 100, hold: time.Second, length: 0},
	} {
		if _, err := renderNote(patch, 8000, o); err == nil {
			t.Errorf("%+v: expected an error", o)
		}
	}
}
