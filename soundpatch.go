package termsynth

import (
	"fmt"
	"io"
	"sort"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"gopkg.in/yaml.v3"
)

type (
	// SoundPatch holds the current value of every parameter of every function
	// instance. The control thread owns the authoritative patch; the engine
	// keeps a mirror that is updated through messages.
	SoundPatch struct {
		values map[ParamID]ParameterValue
	}

	// patchEntry is one parameter of a patch file. Exactly one of the value
	// fields is set.
	patchEntry struct {
		Function  Parameter `yaml:"function"`
		Instance  int       `yaml:"instance"`
		Parameter Parameter `yaml:"parameter"`
		Int       *int64    `yaml:"int,omitempty"`
		Float     *float64  `yaml:"float,omitempty"`
		Choice    *int      `yaml:"choice,omitempty"`
		Ref       *refEntry `yaml:"ref,omitempty"`
	}

	refEntry struct {
		Function  Parameter `yaml:"function"`
		Instance  int       `yaml:"instance"`
		Parameter Parameter `yaml:"parameter,omitempty"`
	}

	defaultKey struct {
		function, parameter Parameter
	}
)

// values that differ from ValueRange.Default
var defaultValues = map[defaultKey]ParameterValue{
	{Oscillator, Frequency}: FloatValue(1),
	{Oscillator, KeyFollow}: ChoiceValue(1),
	{Envelope, Attack}:      FloatValue(15),
	{Envelope, Decay}:       FloatValue(50),
	{Envelope, Sustain}:     FloatValue(1),
	{Envelope, Release}:     FloatValue(100),
	{Lfo, Frequency}:        FloatValue(2),
	{Filter, Cutoff}:        FloatValue(20000),
	{Amp, Volume}:           FloatValue(50),
	{Modulation, Source}:    FunctionValue(Lfo, 1),
	{Modulation, Target}:    ParamValue(Oscillator, 1, Frequency),
}

// NewSoundPatch returns the initial patch: oscillator 1 audible, everything
// else at its default.
func NewSoundPatch() *SoundPatch {
	s := &SoundPatch{values: make(map[ParamID]ParameterValue)}
	for _, f := range Functions {
		for inst := 1; inst <= f.Instances(); inst++ {
			for _, p := range f.Children {
				v, ok := defaultValues[defaultKey{f.Item, p.Item}]
				if !ok {
					v = p.Range.Default()
				}
				s.values[ParamID{f.Item, inst, p.Item}] = v
			}
		}
	}
	s.values[ParamID{Oscillator, 1, Level}] = FloatValue(92)
	return s
}

// GetValue returns the stored value of the parameter p addresses; the value
// carried in p is ignored. Unknown parameters yield a NoValue.
func (s *SoundPatch) GetValue(p SynthParam) ParameterValue {
	return s.values[p.ID()]
}

// Value is GetValue by address.
func (s *SoundPatch) Value(id ParamID) ParameterValue {
	return s.values[id]
}

func (s *SoundPatch) SetParameter(p SynthParam) {
	s.values[p.ID()] = p.Value
}

// Copy returns an independent patch with the same values.
func (s *SoundPatch) Copy() *SoundPatch {
	ret := &SoundPatch{values: make(map[ParamID]ParameterValue, len(s.values))}
	for k, v := range s.values {
		ret.values[k] = v
	}
	return ret
}

// Params returns all parameters in catalog order.
func (s *SoundPatch) Params() []SynthParam {
	ret := make([]SynthParam, 0, len(s.values))
	for id, v := range s.values {
		ret = append(ret, NewSynthParam(id.Function, id.FunctionInstance, id.Parameter, v))
	}
	sort.Slice(ret, func(i, j int) bool {
		a, b := ret[i], ret[j]
		if a.Function != b.Function {
			return a.Function < b.Function
		}
		if a.FunctionInstance != b.FunctionInstance {
			return a.FunctionInstance < b.FunctionInstance
		}
		return a.Parameter < b.Parameter
	})
	return ret
}

// Write stores the patch as YAML.
func (s *SoundPatch) Write(w io.Writer) error {
	params := s.Params()
	entries := make([]patchEntry, 0, len(params))
	for _, p := range params {
		e := patchEntry{Function: p.Function, Instance: p.FunctionInstance, Parameter: p.Parameter}
		v := p.Value
		switch v.Kind {
		case IntKind:
			e.Int = &v.Int
		case FloatKind:
			e.Float = &v.Float
		case ChoiceKind:
			e.Choice = &v.Choice
		case FunctionKind, ParamKind:
			e.Ref = &refEntry{Function: v.Ref.Function, Instance: v.Ref.FunctionInstance, Parameter: v.Ref.Parameter}
		default:
			continue
		}
		entries = append(entries, e)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fault.Wrap(err, fmsg.With("encoding sound patch"))
	}
	return fault.Wrap(enc.Close(), fmsg.With("encoding sound patch"))
}

// Read replaces values with the ones in a YAML patch. Parameters missing from
// the file keep their current value. Numbers and choices outside their range
// are clamped into it. Entries that do not fit the catalog otherwise are
// rejected and the patch is left unchanged.
func (s *SoundPatch) Read(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fault.Wrap(err, fmsg.With("reading sound patch"))
	}
	var entries []patchEntry
	if err := yaml.Unmarshal(b, &entries); err != nil {
		return fault.Wrap(err, fmsg.With("parsing sound patch"))
	}
	updates := make(map[ParamID]ParameterValue, len(entries))
	for i, e := range entries {
		v, err := e.value()
		if err != nil {
			return fault.Wrap(err, fmsg.With(fmt.Sprintf("sound patch entry %d", i)))
		}
		item, ok := LookupParam(e.Function, e.Parameter)
		if !ok {
			return fault.New(fmt.Sprintf("sound patch entry %d: unknown parameter %v %v", i, e.Function, e.Parameter))
		}
		if !item.Range.Contains(v) {
			return fault.New(fmt.Sprintf("sound patch entry %d: %v does not fit %v range of %v", i, v, item.Range.Kind, e.Parameter))
		}
		v = item.Range.Clamp(v)
		id := ParamID{e.Function, e.Instance, e.Parameter}
		if _, ok := s.values[id]; !ok {
			return fault.New(fmt.Sprintf("sound patch entry %d: no instance %d of %v", i, e.Instance, e.Function))
		}
		updates[id] = v
	}
	for id, v := range updates {
		s.values[id] = v
	}
	return nil
}

func (e patchEntry) value() (ParameterValue, error) {
	switch {
	case e.Int != nil:
		return IntValue(*e.Int), nil
	case e.Float != nil:
		return FloatValue(*e.Float), nil
	case e.Choice != nil:
		return ChoiceValue(*e.Choice), nil
	case e.Ref != nil && e.Ref.Parameter == NoParameter:
		return FunctionValue(e.Ref.Function, e.Ref.Instance), nil
	case e.Ref != nil:
		return ParamValue(e.Ref.Function, e.Ref.Instance, e.Ref.Parameter), nil
	}
	return ParameterValue{}, fault.New("entry has no value")
}
