package tui_test

import (
	"log/slog"
	"math"
	"testing"

	"github.com/vsariola/termsynth"
	"github.com/vsariola/termsynth/tui"
)

func newSelector() (*tui.ParamSelector, *termsynth.SoundPatch) {
	return tui.NewParamSelector(termsynth.Functions, slog.New(slog.DiscardHandler)), termsynth.NewSoundPatch()
}

// typeKeys feeds the characters of s and returns whether any of them
// finished a value.
func typeKeys(s *tui.ParamSelector, store tui.PatchStore, keys string) bool {
	finished := false
	for _, r := range keys {
		if s.HandleUserInput(termsynth.CharKey(r), store) {
			finished = true
		}
	}
	return finished
}

func press(s *tui.ParamSelector, store tui.PatchStore, codes ...termsynth.KeyCode) bool {
	finished := false
	for _, c := range codes {
		if s.HandleUserInput(termsynth.NewKey(c), store) {
			finished = true
		}
	}
	return finished
}

func checkSelection(t *testing.T, s *tui.ParamSelector, state tui.SelectorState, function termsynth.Parameter, instance int, param termsynth.Parameter) {
	t.Helper()
	if s.State != state {
		t.Errorf("state: got %v, want %v", s.State, state)
	}
	if got := s.FuncSelection.Item().Item; got != function {
		t.Errorf("function: got %v, want %v", got, function)
	}
	if got := s.Instance(); got != instance {
		t.Errorf("instance: got %d, want %d", got, instance)
	}
	if got := s.ParamSelection.Item().Item; got != param {
		t.Errorf("parameter: got %v, want %v", got, param)
	}
}

func TestSelectorDefaults(t *testing.T) {
	s, _ := newSelector()
	checkSelection(t, s, tui.SelectFunction, termsynth.Oscillator, 1, termsynth.Waveform)
	if v := s.Value(); v != termsynth.IntValue(1) {
		t.Errorf("initial value: got %v, want Int(1)", v)
	}
	if s.Child() == nil {
		t.Fatal("root selector has no child selector")
	}
	if s.Child().Child() != nil {
		t.Error("child selector should not have a child of its own")
	}
}

func TestSelectorShortcutPath(t *testing.T) {
	s, store := newSelector()
	for _, r := range "e2s" {
		if s.HandleUserInput(termsynth.CharKey(r), store) {
			t.Fatalf("key %q finalized a value", r)
		}
	}
	checkSelection(t, s, tui.SelectValue, termsynth.Envelope, 2, termsynth.Sustain)
	if v := s.Value(); v != termsynth.FloatValue(1) {
		t.Errorf("sustain should be loaded from the patch: got %v", v)
	}
}

func TestSelectorUpIncrementsStoredValue(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o1l")
	if v := s.Value(); v != termsynth.FloatValue(92) {
		t.Fatalf("level before Up: got %v, want Float(92)", v)
	}
	if !press(s, store, termsynth.KeyUp) {
		t.Error("Up in value state should report a value to commit")
	}
	if v := s.Value(); v != termsynth.FloatValue(93) {
		t.Errorf("level after Up: got %v, want Float(93)", v)
	}
	if s.State != tui.SelectValue {
		t.Errorf("Up should keep the value state, got %v", s.State)
	}
}

func TestSelectorInvalidShortcut(t *testing.T) {
	for _, prefix := range []string{"", "o1"} {
		s, store := newSelector()
		typeKeys(s, store, prefix)
		state, fi, inst, pi, value := s.State, s.FuncSelection.Index, s.Instance(), s.ParamSelection.Index, s.Value()
		if s.HandleUserInput(termsynth.CharKey('z'), store) {
			t.Errorf("prefix %q: invalid shortcut finalized a value", prefix)
		}
		if s.State != state || s.FuncSelection.Index != fi || s.Instance() != inst || s.ParamSelection.Index != pi || s.Value() != value {
			t.Errorf("prefix %q: invalid shortcut changed the selection", prefix)
		}
	}
}

func TestSelectorRoundTrip(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o")
	press(s, store, termsynth.KeyRight, termsynth.KeyRight)
	if s.State != tui.SelectValue {
		t.Fatalf("state after shortcut, Right, Right: got %v, want Value", s.State)
	}
	if !press(s, store, termsynth.KeyEnter) {
		t.Error("Enter in value state should finalize the value")
	}
	if s.State != tui.SelectParam {
		t.Errorf("state after Enter: got %v, want Param", s.State)
	}
}

func TestSelectorCancel(t *testing.T) {
	s, store := newSelector()
	press(s, store, termsynth.KeyLeft)
	if s.State != tui.SelectFunction {
		t.Errorf("cancel at the root state: got %v, want Function", s.State)
	}
	typeKeys(s, store, "l2f")
	press(s, store, termsynth.KeyLeft)
	checkSelection(t, s, tui.SelectParam, termsynth.Lfo, 2, termsynth.Frequency)
	press(s, store, termsynth.KeyLeft)
	if s.State != tui.SelectFunctionIndex {
		t.Errorf("state after second cancel: got %v, want FunctionIndex", s.State)
	}
	press(s, store, termsynth.KeyBackspace)
	if s.State != tui.SelectFunction {
		t.Errorf("state after third cancel: got %v, want Function", s.State)
	}
	if s.ParamSelection.Index != 0 {
		t.Errorf("entering the function state should reset the parameter cursor, got %d", s.ParamSelection.Index)
	}
}

func TestSelectorShortcutFromValueState(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o1l")
	// 'v' is not a float character: it selects Voices in the same call
	if s.HandleUserInput(termsynth.CharKey('v'), store) {
		t.Error("retried shortcut should not finalize a value")
	}
	checkSelection(t, s, tui.SelectValue, termsynth.Oscillator, 1, termsynth.Voices)
	if v := s.Value(); v != termsynth.IntValue(1) {
		t.Errorf("voices: got %v, want Int(1)", v)
	}
}

func TestSelectorFunctionCursor(t *testing.T) {
	s, store := newSelector()
	press(s, store, termsynth.KeyDown)
	if s.FuncSelection.Index != 0 {
		t.Errorf("Down at the first function: got index %d", s.FuncSelection.Index)
	}
	press(s, store, termsynth.KeyUp, termsynth.KeyUp)
	if got := s.FuncSelection.Item().Item; got != termsynth.Lfo {
		t.Errorf("two Ups: got %v, want Lfo", got)
	}
	for range termsynth.Functions {
		press(s, store, termsynth.KeyUp)
	}
	if got := s.FuncSelection.Index; got != len(termsynth.Functions)-1 {
		t.Errorf("Up past the last function: got index %d", got)
	}
}

func TestSelectorParamCursorLoadsValue(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "e1")
	press(s, store, termsynth.KeyUp)
	checkSelection(t, s, tui.SelectParam, termsynth.Envelope, 1, termsynth.Decay)
	if v := s.Value(); v != termsynth.FloatValue(50) {
		t.Errorf("decay: got %v, want Float(50)", v)
	}
}

func TestIntEntryUpDownStayInRange(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o1v")
	prev := s.Value().AsInt()
	for i := 0; i < 10; i++ {
		press(s, store, termsynth.KeyUp)
		v := s.Value().AsInt()
		if v > 7 {
			t.Fatalf("voices went above the maximum: %d", v)
		}
		if prev < 7 && v != prev+1 {
			t.Fatalf("Up from %d gave %d", prev, v)
		}
		prev = v
	}
	for i := 0; i < 10; i++ {
		press(s, store, termsynth.KeyDown)
		if v := s.Value().AsInt(); v < 1 {
			t.Fatalf("voices went below the minimum: %d", v)
		}
	}
	if v := s.Value(); v != termsynth.IntValue(1) {
		t.Errorf("after many Downs: got %v, want Int(1)", v)
	}
}

func TestIntEntryOverflow(t *testing.T) {
	tests := []struct {
		keys     string
		instance int
		state    tui.SelectorState
	}{
		{"m1", 1, tui.SelectFunctionIndex}, // 1 may still get a second digit
		{"m12", 12, tui.SelectParam},       // 120 would not fit
		{"m17", 7, tui.SelectParam},        // 17 does not fit, start over from 7
		{"m9", 9, tui.SelectParam},
		{"o5", 3, tui.SelectParam}, // a single digit over the maximum is clamped
	}
	for _, tt := range tests {
		s, store := newSelector()
		typeKeys(s, store, tt.keys)
		if s.State != tt.state {
			t.Errorf("%q: state %v, want %v", tt.keys, s.State, tt.state)
		}
		if s.Instance() != tt.instance {
			t.Errorf("%q: instance %d, want %d", tt.keys, s.Instance(), tt.instance)
		}
	}
}

func TestIntEntryInValueState(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o1v")
	if !typeKeys(s, store, "5") {
		t.Error("a digit that cannot be followed should finalize")
	}
	if v := s.Value(); v != termsynth.IntValue(5) {
		t.Errorf("voices: got %v, want Int(5)", v)
	}
	if s.State != tui.SelectParam {
		t.Errorf("state: got %v, want Param", s.State)
	}
}

func TestFloatEntry(t *testing.T) {
	tests := []struct {
		name string
		keys []termsynth.Key
		want float64
		text string
	}{
		{"typed", keys("3.14", termsynth.KeyEnter), 3.14, "3.14"},
		{"backspace", keys("12", termsynth.KeyBackspace, '5', termsynth.KeyEnter), 15, "15"},
		{"trailing period", keys("3.", termsynth.KeyEnter), 3, "3."},
		{"clamped", keys("250", termsynth.KeyEnter), 100, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newSelector()
			typeKeys(s, store, "o1l")
			finished := false
			for _, k := range tt.keys {
				if s.HandleUserInput(k, store) {
					finished = true
				}
			}
			if !finished {
				t.Error("Enter did not finalize the value")
			}
			if v := s.Value(); v != termsynth.FloatValue(tt.want) {
				t.Errorf("value: got %v, want %v", v, tt.want)
			}
			if s.RawText() != tt.text {
				t.Errorf("text: got %q, want %q", s.RawText(), tt.text)
			}
			if s.Editing() {
				t.Error("selector still editing after commit")
			}
		})
	}
}

func TestFloatBackspaceToEmpty(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o1l7")
	if !s.Editing() {
		t.Error("typed digit should mark the selector editing")
	}
	press(s, store, termsynth.KeyBackspace)
	if v := s.Value(); v != termsynth.FloatValue(0) {
		t.Errorf("empty buffer: got %v, want Float(0)", v)
	}
}

func TestChoiceEntry(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o1w")
	press(s, store, termsynth.KeyDown)
	if v := s.Value(); v != termsynth.ChoiceValue(0) {
		t.Errorf("Down at the first option: got %v", v)
	}
	for range termsynth.OscWaveforms {
		press(s, store, termsynth.KeyUp)
	}
	if v := s.Value(); v != termsynth.ChoiceValue(len(termsynth.OscWaveforms)-1) {
		t.Errorf("Up past the last option: got %v", v)
	}
	if !press(s, store, termsynth.KeyEnter) || s.State != tui.SelectParam {
		t.Errorf("Enter should finalize and return to Param, state %v", s.State)
	}
}

func TestModulationSource(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "m")
	press(s, store, termsynth.KeyEnter)
	if typeKeys(s, store, "s") {
		t.Fatal("selecting the source parameter finalized a value")
	}
	checkSelection(t, s, tui.SelectValue, termsynth.Modulation, 1, termsynth.Source)
	if v := s.Value(); v != termsynth.FunctionValue(termsynth.Lfo, 1) {
		t.Fatalf("source from patch: got %v", v)
	}
	if s.Child().TargetState != tui.SelectFunctionIndex {
		t.Errorf("child target: got %v, want FunctionIndex", s.Child().TargetState)
	}
	if typeKeys(s, store, "o") {
		t.Fatal("choosing the function alone should not finish the reference")
	}
	if !typeKeys(s, store, "2") {
		t.Fatal("choosing the instance should finish the reference")
	}
	if v := s.Value(); v != termsynth.FunctionValue(termsynth.Oscillator, 2) {
		t.Errorf("source: got %v, want Function(oscillator 2)", v)
	}
	if s.State != tui.SelectParam {
		t.Errorf("state: got %v, want Param", s.State)
	}
}

func TestModulationTarget(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "m3t")
	if v := s.Value(); v != termsynth.ParamValue(termsynth.Oscillator, 1, termsynth.Frequency) {
		t.Fatalf("target from patch: got %v", v)
	}
	if typeKeys(s, store, "f2") {
		t.Fatal("function and instance should not finish a parameter reference")
	}
	if !typeKeys(s, store, "c") {
		t.Fatal("choosing the parameter should finish the reference")
	}
	want := termsynth.ParamValue(termsynth.Filter, 2, termsynth.Cutoff)
	if v := s.Value(); v != want {
		t.Errorf("target: got %v, want %v", v, want)
	}
	p := s.SelectedParam()
	if p.Function != termsynth.Modulation || p.FunctionInstance != 3 || p.Parameter != termsynth.Target {
		t.Errorf("selected parameter: got %v", p)
	}
}

func TestModulationChildEscape(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "m")
	press(s, store, termsynth.KeyEnter)
	typeKeys(s, store, "s")
	if press(s, store, termsynth.KeyLeft) {
		t.Error("escaping the child should not finalize a value")
	}
	if s.State != tui.SelectParam {
		t.Errorf("state: got %v, want Param", s.State)
	}
	if v := s.Value(); v != termsynth.FunctionValue(termsynth.Lfo, 1) {
		t.Errorf("escape should keep the stored source, got %v", v)
	}
}

func TestControlChange(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o1")
	press(s, store, termsynth.KeyUp) // level
	if !s.HandleControlChange(64, store) {
		t.Error("a controller in the param state should commit")
	}
	if s.State != tui.SelectValue {
		t.Errorf("controller should advance to Value, got %v", s.State)
	}
	if got, want := s.Value().AsFloat(), 64*100.0/127; math.Abs(got-want) > 1e-9 {
		t.Errorf("level: got %v, want %v", got, want)
	}
	s.HandleControlChange(127, store)
	if got := s.Value().AsFloat(); math.Abs(got-100) > 1e-9 {
		t.Errorf("controller 127: got %v, want 100", got)
	}
}

func TestControlChangeFromFunctionState(t *testing.T) {
	s, store := newSelector()
	last := len(termsynth.OscWaveforms) - 1
	tests := []struct {
		val  int
		want termsynth.ParameterValue
	}{{127, termsynth.ChoiceValue(last)}, {64, termsynth.ChoiceValue(2)}, {0, termsynth.ChoiceValue(0)}}
	for _, tt := range tests {
		if !s.HandleControlChange(tt.val, store) {
			t.Errorf("controller %d: value not committed", tt.val)
		}
		checkSelection(t, s, tui.SelectFunctionIndex, termsynth.Oscillator, 1, termsynth.Waveform)
		if v := s.Value(); v != tt.want {
			t.Errorf("controller %d: got %v, want %v", tt.val, v, tt.want)
		}
	}
}

func TestControlChangeUsesNewFunctionParams(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o3")
	press(s, store, termsynth.KeyLeft, termsynth.KeyLeft) // back to Function, instance stays 3
	typeKeys(s, store, "f")
	if !s.HandleControlChange(127, store) {
		t.Fatal("value not committed")
	}
	checkSelection(t, s, tui.SelectFunctionIndex, termsynth.Filter, 2, termsynth.Type)
	if v := s.Value(); v != termsynth.ChoiceValue(len(termsynth.FilterTypes)-1) {
		t.Errorf("filter type: got %v", v)
	}
}

func TestControlChangeChoice(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "o1w")
	tests := []struct {
		val  int
		want int
	}{{0, 0}, {64, 2}, {127, len(termsynth.OscWaveforms) - 1}}
	for _, tt := range tests {
		s.HandleControlChange(tt.val, store)
		if v := s.Value(); v != termsynth.ChoiceValue(tt.want) {
			t.Errorf("controller %d: got %v, want Choice(%d)", tt.val, v, tt.want)
		}
	}
}

func TestControlChangeIgnoresReference(t *testing.T) {
	s, store := newSelector()
	typeKeys(s, store, "m")
	press(s, store, termsynth.KeyEnter)
	typeKeys(s, store, "s")
	if s.HandleControlChange(100, store) {
		t.Error("a controller cannot set a reference")
	}
	if v := s.Value(); v != termsynth.FunctionValue(termsynth.Lfo, 1) {
		t.Errorf("source changed to %v", v)
	}
}

func TestApplyReply(t *testing.T) {
	s, store := newSelector()
	reply := termsynth.NewSynthParam(termsynth.Oscillator, 1, termsynth.Level, termsynth.FloatValue(40))
	if s.ApplyReply(reply) {
		t.Error("reply applied in the function state")
	}
	typeKeys(s, store, "o1l")
	if !s.ApplyReply(reply) {
		t.Fatal("reply not applied")
	}
	if v := s.Value(); v != termsynth.FloatValue(40) {
		t.Errorf("value: got %v, want Float(40)", v)
	}
	other := termsynth.NewSynthParam(termsynth.Oscillator, 2, termsynth.Level, termsynth.FloatValue(10))
	if s.ApplyReply(other) {
		t.Error("reply for another instance applied")
	}
	typeKeys(s, store, "5")
	if s.ApplyReply(reply) {
		t.Error("reply applied while typing")
	}
}

func TestSelectorPanicsOnWrongStoredKind(t *testing.T) {
	s, _ := newSelector()
	store := termsynth.NewSoundPatch()
	store.SetParameter(termsynth.NewSynthParam(termsynth.Oscillator, 1, termsynth.Level, termsynth.IntValue(3)))
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a stored value of the wrong kind")
		}
	}()
	typeKeys(s, store, "o1l")
}

func keys(items ...any) []termsynth.Key {
	var ret []termsynth.Key
	for _, item := range items {
		switch v := item.(type) {
		case string:
			for _, r := range v {
				ret = append(ret, termsynth.CharKey(r))
			}
		case rune:
			ret = append(ret, termsynth.CharKey(v))
		case termsynth.KeyCode:
			ret = append(ret, termsynth.NewKey(v))
		}
	}
	return ret
}
