package synth

import (
	"github.com/vsariola/termsynth"
)

const (
	NumOscillators   = 3
	NumEnvelopes     = 2
	NumLfos          = 2
	NumFilters       = 2
	NumModulations   = 16
	middleCFrequency = 261.6255653005986
)

type (
	oscSettings struct {
		waveform                        termsynth.Parameter
		level, frequency, phase, spread float64
		voices                          int
		keyFollow                       bool
	}

	envSettings struct {
		attack, decay, sustain, release float64
		factor                          int
	}

	lfoSettings struct {
		waveform         termsynth.Parameter
		frequency, phase float64
	}

	filterSettings struct {
		kind              termsynth.Parameter
		cutoff, resonance float64
	}

	modSlot struct {
		active   bool
		source   termsynth.ParamRef
		target   termsynth.ParamRef
		amount   float64
		min, max float64 // range of the target; zero width if it cannot be modulated
	}

	// settings is the engine's decoded view of the sound patch, so that the
	// render loop does not look values up by ID.
	settings struct {
		osc    [NumOscillators]oscSettings
		env    [NumEnvelopes]envSettings
		lfo    [NumLfos]lfoSettings
		filter [NumFilters]filterSettings
		volume float64
		mods   [NumModulations]modSlot
	}
)

func newSettings(patch *termsynth.SoundPatch) settings {
	var s settings
	for _, p := range patch.Params() {
		s.set(p)
	}
	return s
}

func (s *settings) set(p termsynth.SynthParam) {
	i := p.FunctionInstance - 1
	v := p.Value
	switch p.Function {
	case termsynth.Oscillator:
		if i < 0 || i >= NumOscillators {
			return
		}
		o := &s.osc[i]
		switch p.Parameter {
		case termsynth.Waveform:
			o.waveform = choiceItem(termsynth.OscWaveforms, v)
		case termsynth.Voices:
			o.voices = int(v.AsInt())
		case termsynth.KeyFollow:
			o.keyFollow = choiceItem(termsynth.OnOff, v) == termsynth.On
		default:
			if f := s.float(p.ID()); f != nil {
				*f = v.AsFloat()
			}
		}
	case termsynth.Envelope:
		if i < 0 || i >= NumEnvelopes {
			return
		}
		if p.Parameter == termsynth.Factor {
			s.env[i].factor = int(v.AsInt())
		} else if f := s.float(p.ID()); f != nil {
			*f = v.AsFloat()
		}
	case termsynth.Lfo:
		if i < 0 || i >= NumLfos {
			return
		}
		if p.Parameter == termsynth.Waveform {
			s.lfo[i].waveform = choiceItem(termsynth.OscWaveforms, v)
		} else if f := s.float(p.ID()); f != nil {
			*f = v.AsFloat()
		}
	case termsynth.Filter:
		if i < 0 || i >= NumFilters {
			return
		}
		if p.Parameter == termsynth.Type {
			s.filter[i].kind = choiceItem(termsynth.FilterTypes, v)
		} else if f := s.float(p.ID()); f != nil {
			*f = v.AsFloat()
		}
	case termsynth.Amp:
		if p.Parameter == termsynth.Volume {
			s.volume = v.AsFloat()
		}
	case termsynth.Modulation:
		if i < 0 || i >= NumModulations {
			return
		}
		m := &s.mods[i]
		switch p.Parameter {
		case termsynth.Source:
			m.source = v.AsRef()
		case termsynth.Target:
			m.target = v.AsRef()
			m.min, m.max = 0, 0
			if item, ok := termsynth.LookupParam(m.target.Function, m.target.Parameter); ok && item.Range.Kind == termsynth.FloatRangeKind {
				m.min, m.max = item.Range.FloatMin, item.Range.FloatMax
			}
		case termsynth.Amount:
			m.amount = v.AsFloat()
		case termsynth.Active:
			m.active = choiceItem(termsynth.OnOff, v) == termsynth.On
		}
	}
}

// float returns the float field a parameter is stored in, or nil if the
// parameter is not a float.
func (s *settings) float(id termsynth.ParamID) *float64 {
	i := id.FunctionInstance - 1
	switch id.Function {
	case termsynth.Oscillator:
		if i < 0 || i >= NumOscillators {
			return nil
		}
		o := &s.osc[i]
		switch id.Parameter {
		case termsynth.Level:
			return &o.level
		case termsynth.Frequency:
			return &o.frequency
		case termsynth.Phase:
			return &o.phase
		case termsynth.Spread:
			return &o.spread
		}
	case termsynth.Envelope:
		if i < 0 || i >= NumEnvelopes {
			return nil
		}
		e := &s.env[i]
		switch id.Parameter {
		case termsynth.Attack:
			return &e.attack
		case termsynth.Decay:
			return &e.decay
		case termsynth.Sustain:
			return &e.sustain
		case termsynth.Release:
			return &e.release
		}
	case termsynth.Lfo:
		if i < 0 || i >= NumLfos {
			return nil
		}
		switch id.Parameter {
		case termsynth.Frequency:
			return &s.lfo[i].frequency
		case termsynth.Phase:
			return &s.lfo[i].phase
		}
	case termsynth.Filter:
		if i < 0 || i >= NumFilters {
			return nil
		}
		switch id.Parameter {
		case termsynth.Cutoff:
			return &s.filter[i].cutoff
		case termsynth.Resonance:
			return &s.filter[i].resonance
		}
	case termsynth.Amp:
		if id.Parameter == termsynth.Volume {
			return &s.volume
		}
	}
	return nil
}

// modulated reports whether any modulation slot is active.
func (s *settings) modulated() bool {
	for i := range s.mods {
		if s.mods[i].active && s.mods[i].max > s.mods[i].min {
			return true
		}
	}
	return false
}

func choiceItem(options []termsynth.MenuItem, v termsynth.ParameterValue) termsynth.Parameter {
	c := v.AsChoice()
	if c < 0 || c >= len(options) {
		return options[0].Item
	}
	return options[c].Item
}
