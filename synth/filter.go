package synth

import (
	"math"

	"github.com/vsariola/termsynth"
)

// Filter is a state variable filter. Unlike the generators it processes a
// signal, one sample per call in clock order.
type Filter struct {
	Type      termsynth.Parameter
	Cutoff    float64 // Hz
	Resonance float64 // 0..1

	sampleRate float64
	low, band  float64
}

func NewFilter(sampleRate uint32) *Filter {
	return &Filter{Type: termsynth.LowPass, Cutoff: 20000, sampleRate: float64(sampleRate)}
}

func (f *Filter) Process(input float64) float64 {
	cutoff := min(f.Cutoff, f.sampleRate/6)
	freq := 2 * math.Sin(math.Pi*cutoff/f.sampleRate)
	damping := math.Sqrt2 * (1 - 0.95*min(max(f.Resonance, 0), 1))
	f.low += freq * f.band
	high := input - f.low - damping*f.band
	f.band += freq * high
	switch f.Type {
	case termsynth.HighPass:
		return high
	case termsynth.BandPass:
		return f.band
	default:
		return f.low
	}
}

func (f *Filter) Reset() {
	f.low, f.band = 0, 0
}
