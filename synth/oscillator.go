package synth

import (
	"math"

	"github.com/vsariola/termsynth"
)

const MaxVoices = 7

// Oscillator is a unison oscillator. Each voice has its own phase
// accumulator; the voices are detuned symmetrically by Spread semitones and
// averaged.
type Oscillator struct {
	Waveform termsynth.Parameter
	Phase    float64 // offset added to the accumulated phase
	Voices   int
	Spread   float64

	voices   [MaxVoices]phaseAccumulator
	randSeed uint32
}

func NewOscillator(sampleRate uint32) *Oscillator {
	o := &Oscillator{Waveform: termsynth.Sine, Voices: 1, randSeed: 1}
	for i := range o.voices {
		o.voices[i] = newPhaseAccumulator(sampleRate)
	}
	return o
}

func (o *Oscillator) GetSample(frequency float64, clock uint64) float64 {
	n := min(max(o.Voices, 1), MaxVoices)
	if n == 1 {
		return o.shape(o.voices[0].advance(frequency, clock))
	}
	var sum float64
	for i := 0; i < n; i++ {
		detune := o.Spread * (float64(i)/float64(n-1) - 0.5)
		f := frequency * math.Exp2(detune/12)
		sum += o.shape(o.voices[i].advance(f, clock))
	}
	return sum / float64(n)
}

// Reset restarts all voices at the start of a cycle.
func (o *Oscillator) Reset(clock uint64) {
	for i := range o.voices {
		o.voices[i].reset(clock)
	}
}

func (o *Oscillator) shape(phase float64) float64 {
	phase = wrap(phase + o.Phase)
	switch o.Waveform {
	case termsynth.Triangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case termsynth.Saw:
		return 2*phase - 1
	case termsynth.Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case termsynth.Noise:
		return o.rand()
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

func (o *Oscillator) rand() float64 {
	o.randSeed *= 16007
	return float64(int32(o.randSeed)) / -2147483648.0
}
