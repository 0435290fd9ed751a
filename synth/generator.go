// Package synth implements the audio engine: time-driven sample generators and
// the Engine that renders them on the audio thread.
package synth

import "math"

// SampleGenerator produces one output sample per query. clock is the absolute
// sample count; callers may skip clock values freely, the output at a given
// clock does not depend on how often the generator was queried before it.
type SampleGenerator interface {
	GetSample(frequency float64, clock uint64) float64
}

// phaseAccumulator tracks the position within one waveform cycle.
type phaseAccumulator struct {
	sampleRate float64
	lastClock  uint64
	phase      float64 // in [0, 1)
}

func newPhaseAccumulator(sampleRate uint32) phaseAccumulator {
	return phaseAccumulator{sampleRate: float64(sampleRate)}
}

// advance moves the phase forward by the number of samples elapsed since the
// previous call. A clock that runs backwards re-anchors without advancing.
func (p *phaseAccumulator) advance(frequency float64, clock uint64) float64 {
	if clock < p.lastClock {
		p.lastClock = clock
		return p.phase
	}
	elapsed := clock - p.lastClock
	p.lastClock = clock
	p.phase += frequency / p.sampleRate * float64(elapsed)
	p.phase -= math.Floor(p.phase)
	if p.phase >= 1 { // floor of a value just below an integer can round up
		p.phase = 0
	}
	return p.phase
}

func (p *phaseAccumulator) reset(clock uint64) {
	p.lastClock = clock
	p.phase = 0
}

func wrap(phase float64) float64 {
	phase -= math.Floor(phase)
	if phase >= 1 {
		return 0
	}
	return phase
}
