package synth

import "math"

// Envelope is an ADSR envelope. Its level is computed from the distance of
// the clock to the last gate change, so like the oscillators it does not
// depend on query granularity. Times are in milliseconds; Factor bends the
// segments, 1 being linear.
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
	Factor  int

	samplesPerMs float64
	triggered    bool
	gate         bool
	onClock      uint64
	offClock     uint64
	releaseLevel float64
}

func NewEnvelope(sampleRate uint32) *Envelope {
	return &Envelope{Sustain: 1, Factor: 1, samplesPerMs: float64(sampleRate) / 1000}
}

// Trigger opens the gate at clock.
func (e *Envelope) Trigger(clock uint64) {
	e.triggered = true
	e.gate = true
	e.onClock = clock
}

// ReleaseAt closes the gate at clock.
func (e *Envelope) ReleaseAt(clock uint64) {
	if !e.gate {
		return
	}
	e.releaseLevel = e.gateLevel(clock)
	e.gate = false
	e.offClock = clock
}

// GetSample returns the level in [0, 1]. frequency is ignored.
func (e *Envelope) GetSample(_ float64, clock uint64) float64 {
	switch {
	case !e.triggered:
		return 0
	case e.gate:
		return e.gateLevel(clock)
	}
	t := e.elapsedMs(e.offClock, clock)
	if t >= e.Release {
		return 0
	}
	return e.releaseLevel * e.curve(1-t/e.Release)
}

func (e *Envelope) gateLevel(clock uint64) float64 {
	t := e.elapsedMs(e.onClock, clock)
	if t < e.Attack {
		return 1 - e.curve(1-t/e.Attack)
	}
	t -= e.Attack
	if t < e.Decay {
		return e.Sustain + (1-e.Sustain)*e.curve(1-t/e.Decay)
	}
	return e.Sustain
}

func (e *Envelope) elapsedMs(from, clock uint64) float64 {
	if clock < from {
		return 0
	}
	return float64(clock-from) / e.samplesPerMs
}

func (e *Envelope) curve(x float64) float64 {
	if e.Factor <= 1 {
		return x
	}
	return math.Pow(x, float64(e.Factor))
}
