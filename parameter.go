package termsynth

import (
	"fmt"
)

// Parameter is the tag of a menu entry: a function group (Oscillator,
// Envelope, ...), a parameter of a function (Level, Attack, ...) or one of the
// labeled options of a choice parameter (Sine, LowPass, ...).
type Parameter int

const (
	NoParameter Parameter = iota

	// function groups
	Oscillator
	Envelope
	Lfo
	Filter
	Amp
	Modulation

	// parameters
	Waveform
	Level
	Frequency
	Phase
	Voices
	Spread
	KeyFollow
	Attack
	Decay
	Sustain
	Release
	Factor
	Type
	Cutoff
	Resonance
	Volume
	Source
	Target
	Amount
	Active

	// choice labels
	Sine
	Triangle
	Saw
	Square
	Noise
	Off
	On
	LowPass
	HighPass
	BandPass

	numParameters
)

var parameterNames = [numParameters]string{
	NoParameter: "",
	Oscillator:  "oscillator",
	Envelope:    "envelope",
	Lfo:         "lfo",
	Filter:      "filter",
	Amp:         "amp",
	Modulation:  "modulation",
	Waveform:    "waveform",
	Level:       "level",
	Frequency:   "frequency",
	Phase:       "phase",
	Voices:      "voices",
	Spread:      "spread",
	KeyFollow:   "keyfollow",
	Attack:      "attack",
	Decay:       "decay",
	Sustain:     "sustain",
	Release:     "release",
	Factor:      "factor",
	Type:        "type",
	Cutoff:      "cutoff",
	Resonance:   "resonance",
	Volume:      "volume",
	Source:      "source",
	Target:      "target",
	Amount:      "amount",
	Active:      "active",
	Sine:        "sine",
	Triangle:    "triangle",
	Saw:         "saw",
	Square:      "square",
	Noise:       "noise",
	Off:         "off",
	On:          "on",
	LowPass:     "lowpass",
	HighPass:    "highpass",
	BandPass:    "bandpass",
}

func (p Parameter) String() string {
	if p < 0 || p >= numParameters {
		return fmt.Sprintf("Parameter(%d)", int(p))
	}
	return parameterNames[p]
}

// MarshalText is used when writing patches as YAML.
func (p Parameter) MarshalText() ([]byte, error) {
	if p < 0 || p >= numParameters {
		return nil, fmt.Errorf("unknown parameter %d", int(p))
	}
	return []byte(parameterNames[p]), nil
}

func (p *Parameter) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range parameterNames {
		if name == s {
			*p = Parameter(i)
			return nil
		}
	}
	return fmt.Errorf("unknown parameter name %q", s)
}
