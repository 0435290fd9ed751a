package synth

import (
	"github.com/viterin/vek/vek32"
	"github.com/vsariola/termsynth"
)

// previewStep is the clock distance between two preview points. Generators
// are queried only at these clocks.
const previewStep = 10

// Preview renders PreviewLength points showing the function p belongs to:
// one cycle of an oscillator (scaled by its level) or LFO, or the complete
// shape of an envelope with a short sustain. The points are appended to dst.
// Functions without a preview append nothing.
func (e *Engine) Preview(p termsynth.SynthParam, dst []float32) []float32 {
	i := p.FunctionInstance - 1
	switch p.Function {
	case termsynth.Oscillator:
		if i < 0 || i >= NumOscillators {
			return dst
		}
		st := e.settings.osc[i]
		o := NewOscillator(e.sampleRate)
		configureOscillator(o, &st)
		start := len(dst)
		dst = previewCycle(o, e.sampleRate, dst)
		vek32.MulNumber_Inplace(dst[start:], float32(st.level/100))
	case termsynth.Lfo:
		if i < 0 || i >= NumLfos {
			return dst
		}
		st := e.settings.lfo[i]
		o := NewOscillator(e.sampleRate)
		o.Waveform, o.Phase = st.waveform, st.phase
		dst = previewCycle(o, e.sampleRate, dst)
	case termsynth.Envelope:
		if i < 0 || i >= NumEnvelopes {
			return dst
		}
		st := e.settings.env[i]
		env := NewEnvelope(e.sampleRate)
		configureEnvelope(env, &st)
		dst = previewEnvelope(env, e.sampleRate, dst)
	}
	return dst
}

// previewCycle queries g sparsely at a frequency that makes one cycle span
// the whole preview.
func previewCycle(g SampleGenerator, sampleRate uint32, dst []float32) []float32 {
	freq := float64(sampleRate) / (PreviewLength * previewStep)
	for k := uint64(0); k < PreviewLength; k++ {
		dst = append(dst, float32(g.GetSample(freq, k*previewStep)))
	}
	return dst
}

func previewEnvelope(env *Envelope, sampleRate uint32, dst []float32) []float32 {
	gate := env.Attack + env.Decay
	hold := max((gate+env.Release)/4, 1)
	total := gate + hold + env.Release
	samplesPerMs := float64(sampleRate) / 1000
	step := max(uint64(total*samplesPerMs/PreviewLength), 1)
	off := uint64((gate + hold) * samplesPerMs)
	env.Trigger(0)
	released := false
	for k := uint64(0); k < PreviewLength; k++ {
		clock := k * step
		if !released && clock >= off {
			env.ReleaseAt(off)
			released = true
		}
		dst = append(dst, float32(env.GetSample(0, clock)))
	}
	return dst
}
