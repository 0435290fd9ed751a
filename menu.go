package termsynth

import "fmt"

type (
	// RangeKind tells which of the ValueRange fields are in use.
	RangeKind int

	// ValueRange is the domain of values a MenuItem accepts. FunctionRange and
	// ParamRange mark a parameter whose value points to another entry of the
	// menu tree (modulation source and target) instead of holding a scalar.
	ValueRange struct {
		Kind     RangeKind
		IntMin   int64
		IntMax   int64
		FloatMin float64
		FloatMax float64
		Items    []MenuItem // options of a choice, or function groups of a reference
	}

	// MenuItem is one entry of the static menu tree. Children links a
	// function group to the list of its parameters.
	MenuItem struct {
		Key      rune
		Item     Parameter
		Range    ValueRange
		Children []MenuItem
	}
)

const (
	NoRangeKind RangeKind = iota
	IntRangeKind
	FloatRangeKind
	ChoiceRangeKind
	FunctionRangeKind
	ParamRangeKind
)

func (k RangeKind) String() string {
	switch k {
	case IntRangeKind:
		return "int"
	case FloatRangeKind:
		return "float"
	case ChoiceRangeKind:
		return "choice"
	case FunctionRangeKind:
		return "function"
	case ParamRangeKind:
		return "param"
	default:
		return "none"
	}
}

func IntRange(min, max int64) ValueRange {
	return ValueRange{Kind: IntRangeKind, IntMin: min, IntMax: max}
}

func FloatRange(min, max float64) ValueRange {
	return ValueRange{Kind: FloatRangeKind, FloatMin: min, FloatMax: max}
}

func ChoiceRange(options []MenuItem) ValueRange {
	return ValueRange{Kind: ChoiceRangeKind, Items: options}
}

func FunctionRange(functions []MenuItem) ValueRange {
	return ValueRange{Kind: FunctionRangeKind, Items: functions}
}

func ParamRange(functions []MenuItem) ValueRange {
	return ValueRange{Kind: ParamRangeKind, Items: functions}
}

func NoRange() ValueRange {
	return ValueRange{}
}

// Default returns the value a parameter gets when nothing else is known: the
// minimum of numeric ranges, the first option of choices and the first
// instance of the first entry for references.
func (r ValueRange) Default() ParameterValue {
	switch r.Kind {
	case IntRangeKind:
		return IntValue(r.IntMin)
	case FloatRangeKind:
		return FloatValue(r.FloatMin)
	case ChoiceRangeKind:
		return ChoiceValue(0)
	case FunctionRangeKind:
		return FunctionValue(r.Items[0].Item, 1)
	case ParamRangeKind:
		f := r.Items[0]
		return ParamValue(f.Item, 1, f.Children[0].Item)
	default:
		return ParameterValue{}
	}
}

// Accepts reports whether a value has the kind the range expects.
func (r ValueRange) Accepts(v ParameterValue) bool {
	switch r.Kind {
	case IntRangeKind:
		return v.Kind == IntKind
	case FloatRangeKind:
		return v.Kind == FloatKind
	case ChoiceRangeKind:
		return v.Kind == ChoiceKind
	case FunctionRangeKind:
		return v.Kind == FunctionKind
	case ParamRangeKind:
		return v.Kind == ParamKind
	default:
		return v.Kind == NoValueKind
	}
}

// Clamp forces a value of the range's kind into its bounds. References are
// returned unchanged; use Contains to check them.
func (r ValueRange) Clamp(v ParameterValue) ParameterValue {
	switch r.Kind {
	case IntRangeKind:
		return IntValue(min(max(v.AsInt(), r.IntMin), r.IntMax))
	case FloatRangeKind:
		return FloatValue(min(max(v.AsFloat(), r.FloatMin), r.FloatMax))
	case ChoiceRangeKind:
		return ChoiceValue(min(max(v.AsChoice(), 0), len(r.Items)-1))
	}
	return v
}

// Contains reports whether a reference value points to an existing instance
// of one of the range's function groups (and to one of its parameters for a
// ParamRange). Scalar values are checked for their kind only.
func (r ValueRange) Contains(v ParameterValue) bool {
	if !r.Accepts(v) {
		return false
	}
	if r.Kind != FunctionRangeKind && r.Kind != ParamRangeKind {
		return true
	}
	ref := v.AsRef()
	fi, ok := FindItem(r.Items, ref.Function)
	if !ok || ref.FunctionInstance < 1 || ref.FunctionInstance > r.Items[fi].Instances() {
		return false
	}
	if r.Kind == ParamRangeKind {
		_, ok = FindItem(r.Items[fi].Children, ref.Parameter)
	}
	return ok
}

// Instances returns the number of instances of a function group. Function
// groups carry their instance count as IntRange(1, n).
func (m MenuItem) Instances() int {
	if m.Range.Kind != IntRangeKind {
		panic(fmt.Sprintf("menu item %v is not a function group", m.Item))
	}
	return int(m.Range.IntMax)
}

// FindItem returns the index of the entry tagged p.
func FindItem(items []MenuItem, p Parameter) (int, bool) {
	for i, item := range items {
		if item.Item == p {
			return i, true
		}
	}
	return 0, false
}

// LookupParam finds the menu entry of a parameter of a function group.
func LookupParam(function, parameter Parameter) (MenuItem, bool) {
	fi, ok := FindItem(Functions, function)
	if !ok {
		return MenuItem{}, false
	}
	pi, ok := FindItem(Functions[fi].Children, parameter)
	if !ok {
		return MenuItem{}, false
	}
	return Functions[fi].Children[pi], true
}

// The menu catalog. It is built once at package initialization and never
// modified afterwards, so it can be read from any goroutine.
var (
	OscWaveforms = []MenuItem{
		{Key: 's', Item: Sine},
		{Key: 't', Item: Triangle},
		{Key: 'w', Item: Saw},
		{Key: 'q', Item: Square},
		{Key: 'n', Item: Noise},
	}

	OnOff = []MenuItem{
		{Key: '0', Item: Off},
		{Key: '1', Item: On},
	}

	FilterTypes = []MenuItem{
		{Key: 'l', Item: LowPass},
		{Key: 'h', Item: HighPass},
		{Key: 'b', Item: BandPass},
	}

	OscParams = []MenuItem{
		{Key: 'w', Item: Waveform, Range: ChoiceRange(OscWaveforms)},
		{Key: 'l', Item: Level, Range: FloatRange(0, 100)},
		{Key: 'f', Item: Frequency, Range: FloatRange(0, 16)},
		{Key: 'p', Item: Phase, Range: FloatRange(0, 1)},
		{Key: 'v', Item: Voices, Range: IntRange(1, 7)},
		{Key: 's', Item: Spread, Range: FloatRange(0, 2)},
		{Key: 'k', Item: KeyFollow, Range: ChoiceRange(OnOff)},
	}

	EnvParams = []MenuItem{
		{Key: 'a', Item: Attack, Range: FloatRange(0, 1000)},
		{Key: 'd', Item: Decay, Range: FloatRange(0, 1000)},
		{Key: 's', Item: Sustain, Range: FloatRange(0, 1)},
		{Key: 'r', Item: Release, Range: FloatRange(0, 1000)},
		{Key: 'f', Item: Factor, Range: IntRange(1, 5)},
	}

	LfoParams = []MenuItem{
		{Key: 'w', Item: Waveform, Range: ChoiceRange(OscWaveforms)},
		{Key: 'f', Item: Frequency, Range: FloatRange(0, 32)},
		{Key: 'p', Item: Phase, Range: FloatRange(0, 1)},
	}

	FilterParams = []MenuItem{
		{Key: 't', Item: Type, Range: ChoiceRange(FilterTypes)},
		{Key: 'c', Item: Cutoff, Range: FloatRange(20, 20000)},
		{Key: 'r', Item: Resonance, Range: FloatRange(0, 1)},
	}

	AmpParams = []MenuItem{
		{Key: 'v', Item: Volume, Range: FloatRange(0, 100)},
	}

	// ModSources are the function groups a modulation slot can read from.
	ModSources = []MenuItem{
		{Key: 'o', Item: Oscillator, Range: IntRange(1, 3), Children: OscParams},
		{Key: 'e', Item: Envelope, Range: IntRange(1, 2), Children: EnvParams},
		{Key: 'l', Item: Lfo, Range: IntRange(1, 2), Children: LfoParams},
	}

	// ModTargets are the function groups whose parameters a modulation slot
	// can drive.
	ModTargets = []MenuItem{
		{Key: 'o', Item: Oscillator, Range: IntRange(1, 3), Children: OscParams},
		{Key: 'e', Item: Envelope, Range: IntRange(1, 2), Children: EnvParams},
		{Key: 'l', Item: Lfo, Range: IntRange(1, 2), Children: LfoParams},
		{Key: 'f', Item: Filter, Range: IntRange(1, 2), Children: FilterParams},
		{Key: 'a', Item: Amp, Range: IntRange(1, 1), Children: AmpParams},
	}

	ModParams = []MenuItem{
		{Key: 's', Item: Source, Range: FunctionRange(ModSources)},
		{Key: 't', Item: Target, Range: ParamRange(ModTargets)},
		{Key: 'a', Item: Amount, Range: FloatRange(0, 1)},
		{Key: 'c', Item: Active, Range: ChoiceRange(OnOff)},
	}

	// Functions is the root of the menu tree.
	Functions = []MenuItem{
		{Key: 'o', Item: Oscillator, Range: IntRange(1, 3), Children: OscParams},
		{Key: 'e', Item: Envelope, Range: IntRange(1, 2), Children: EnvParams},
		{Key: 'l', Item: Lfo, Range: IntRange(1, 2), Children: LfoParams},
		{Key: 'f', Item: Filter, Range: IntRange(1, 2), Children: FilterParams},
		{Key: 'a', Item: Amp, Range: IntRange(1, 1), Children: AmpParams},
		{Key: 'm', Item: Modulation, Range: IntRange(1, 16), Children: ModParams},
	}
)
