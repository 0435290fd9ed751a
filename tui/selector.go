package tui

import (
	"fmt"
	"log/slog"

	"github.com/vsariola/termsynth"
)

type (
	// SelectorState is the step of the parameter selection a ParamSelector is
	// in. The states form the cycle Function -> FunctionIndex -> Param ->
	// Value -> Param.
	SelectorState int

	// ItemSelection is a cursor into a list of menu items, with the value
	// that belongs to the selected item: the instance number for a function
	// list, the parameter value for a parameter list.
	ItemSelection struct {
		Items []termsynth.MenuItem
		Index int
		Value termsynth.ParameterValue
	}

	// PatchStore is the sound patch as seen by the selector.
	PatchStore interface {
		GetValue(p termsynth.SynthParam) termsynth.ParameterValue
		SetParameter(p termsynth.SynthParam)
	}

	// ParamSelector turns a sequence of key events into a parameter and its
	// value. Parameters whose value refers to another function or parameter
	// (modulation source and target) are selected with the child selector,
	// which runs the same state machine and stops at TargetState.
	ParamSelector struct {
		State          SelectorState
		FuncSelection  ItemSelection
		ParamSelection ItemSelection
		TargetState    SelectorState

		rawText string // float entry typed so far
		literal int64  // integer entry typed so far
		typing  bool   // rawText holds characters not committed yet

		child  *ParamSelector
		logger *slog.Logger
	}

	retCode int
)

const (
	SelectFunction SelectorState = iota
	SelectFunctionIndex
	SelectParam
	SelectValue
)

const (
	keyConsumed   retCode = iota // key used, value not changed yet
	valueUpdated                 // value changed, more changes may follow
	valueComplete                // value is final
	keyMismatch                  // key not used
	cancel                       // go back to the previous state
)

func (s SelectorState) String() string {
	switch s {
	case SelectFunction:
		return "Function"
	case SelectFunctionIndex:
		return "FunctionIndex"
	case SelectParam:
		return "Param"
	case SelectValue:
		return "Value"
	}
	return fmt.Sprintf("SelectorState(%d)", int(s))
}

func (r retCode) String() string {
	switch r {
	case keyConsumed:
		return "KeyConsumed"
	case valueUpdated:
		return "ValueUpdated"
	case valueComplete:
		return "ValueComplete"
	case keyMismatch:
		return "KeyMismatch"
	case cancel:
		return "Cancel"
	}
	return fmt.Sprintf("retCode(%d)", int(r))
}

func next(s SelectorState) SelectorState {
	switch s {
	case SelectFunction:
		return SelectFunctionIndex
	case SelectFunctionIndex:
		return SelectParam
	default:
		return SelectValue
	}
}

func previous(s SelectorState) SelectorState {
	switch s {
	case SelectFunctionIndex:
		return SelectFunction
	case SelectParam:
		return SelectFunctionIndex
	case SelectValue:
		return SelectParam
	default:
		return SelectFunction
	}
}

// Item returns the selected menu item.
func (i *ItemSelection) Item() termsynth.MenuItem {
	return i.Items[i.Index]
}

// NewParamSelector returns a selector over the given function list, together
// with the child selector used for reference parameters.
func NewParamSelector(functions []termsynth.MenuItem, logger *slog.Logger) *ParamSelector {
	s := newSelector(functions, logger)
	s.child = newSelector(functions, logger)
	return s
}

func newSelector(functions []termsynth.MenuItem, logger *slog.Logger) *ParamSelector {
	return &ParamSelector{
		State:          SelectFunction,
		FuncSelection:  ItemSelection{Items: functions, Value: termsynth.IntValue(1)},
		ParamSelection: ItemSelection{Items: functions[0].Children, Value: termsynth.IntValue(1)},
		TargetState:    SelectValue,
		logger:         logger,
	}
}

// Child returns the nested selector, nil for a child selector itself.
func (s *ParamSelector) Child() *ParamSelector { return s.child }

// RawText returns the float entry typed so far.
func (s *ParamSelector) RawText() string { return s.rawText }

// Value returns the value of the selected parameter.
func (s *ParamSelector) Value() termsynth.ParameterValue { return s.ParamSelection.Value }

// Instance returns the selected function instance, counting from 1.
func (s *ParamSelector) Instance() int {
	return int(s.FuncSelection.Value.AsInt())
}

// SelectedParam returns the selected parameter with its current value.
func (s *ParamSelector) SelectedParam() termsynth.SynthParam {
	return termsynth.NewSynthParam(s.FuncSelection.Item().Item, s.Instance(), s.ParamSelection.Item().Item, s.ParamSelection.Value)
}

// Editing reports whether a typed value is in progress.
func (s *ParamSelector) Editing() bool {
	return s.typing || s.literal != 0
}

// HandleUserInput feeds one key event to the selector. It returns true when
// the selected parameter got a new value that should be committed: either a
// finished entry or a live change (Up/Down) in the Value state.
func (s *ParamSelector) HandleUserInput(k termsynth.Key, store PatchStore) bool {
	finished, _ := s.handleKey(k, store)
	return finished
}

// handleKey runs the state machine. escaped is set when Cancel is pressed in
// the Function state, which only matters to a parent selector.
func (s *ParamSelector) handleKey(k termsynth.Key, store PatchStore) (finished, escaped bool) {
	for {
		s.logger.Debug("selector: key", "key", k, "state", s.State)
		newState := s.State
		retry := false
		switch s.State {
		case SelectFunction:
			switch s.FuncSelection.selectItem(k) {
			case valueComplete:
				// the previous instance number may not exist in the new function
				s.FuncSelection.Value = editorFor(s.FuncSelection.Item().Range).clamp(s, s.FuncSelection.Value)
				newState = next(s.State)
			case cancel:
				escaped = true
			}
		case SelectFunctionIndex:
			switch s.editValue(&s.FuncSelection, k, store) {
			case valueComplete:
				if s.State == s.TargetState {
					finished = true
					newState = previous(s.State)
					break
				}
				s.loadParams()
				s.selectParam(store)
				newState = next(s.State)
			case cancel:
				newState = previous(s.State)
			}
		case SelectParam:
			switch s.ParamSelection.selectItem(k) {
			case valueUpdated:
				s.selectParam(store)
			case valueComplete:
				if s.State == s.TargetState {
					finished = true
					newState = previous(s.State)
					break
				}
				s.selectParam(store)
				newState = next(s.State)
			case cancel:
				newState = previous(s.State)
			}
		case SelectValue:
			switch s.editValue(&s.ParamSelection, k, store) {
			case valueUpdated:
				finished = true
			case valueComplete:
				finished = true
				newState = next(s.State)
			case keyMismatch:
				// probably a shortcut of another parameter: retry it there
				s.selectParam(store)
				retry = true
				newState = previous(s.State)
			case cancel:
				s.selectParam(store)
				newState = previous(s.State)
			}
		}
		s.changeState(newState)
		if !retry {
			return finished, escaped
		}
	}
}

// HandleControlChange maps a MIDI controller value (0..127) onto the range of
// the selected parameter and commits it. In the Function and Param states the
// selector first moves on, as turning a controller means editing the value.
// The function instance is never changed by a controller. Returns true when
// the parameter value changed and should be committed.
func (s *ParamSelector) HandleControlChange(val int, store PatchStore) bool {
	switch s.State {
	case SelectFunction:
		s.FuncSelection.Value = editorFor(s.FuncSelection.Item().Range).clamp(s, s.FuncSelection.Value)
		s.changeState(SelectFunctionIndex)
	case SelectParam:
		s.changeState(SelectValue)
	}
	if s.State == SelectFunctionIndex {
		// the function may have changed since the parameter list was loaded
		s.loadParams()
	}
	sel := &s.ParamSelection
	ed := editorFor(sel.Item().Range)
	v, ok := ed.fromController(val)
	if !ok {
		return false
	}
	commit(s, ed, sel, v)
	s.literal = 0
	s.logger.Debug("selector: control change", "value", val, "state", s.State, "result", sel.Value)
	return true
}

// ApplyReply takes a parameter value reported by the engine if it belongs to
// the selected parameter and no entry is in progress.
func (s *ParamSelector) ApplyReply(p termsynth.SynthParam) bool {
	if s.State < SelectParam || s.Editing() || p.ID() != s.SelectedParam().ID() {
		return false
	}
	item := s.ParamSelection.Item()
	if !item.Range.Accepts(p.Value) {
		return false
	}
	switch item.Range.Kind {
	case termsynth.FunctionRangeKind, termsynth.ParamRangeKind:
		s.ParamSelection.Value = p.Value
	default:
		s.ParamSelection.Value = editorFor(item.Range).clamp(s, p.Value)
	}
	return true
}

func (s *ParamSelector) changeState(newState SelectorState) {
	if newState == s.State {
		return
	}
	if newState == SelectFunction {
		s.ParamSelection.Index = 0
	}
	s.literal = 0
	s.logger.Debug("selector: state change", "from", s.State, "to", newState)
	s.State = newState
}

// selectItem moves the cursor of a function or parameter list.
func (i *ItemSelection) selectItem(k termsynth.Key) retCode {
	switch k.Code {
	case termsynth.KeyUp:
		if i.Index < len(i.Items)-1 {
			i.Index++
		}
		return valueUpdated
	case termsynth.KeyDown:
		if i.Index > 0 {
			i.Index--
		}
		return valueUpdated
	case termsynth.KeyLeft, termsynth.KeyBackspace:
		return cancel
	case termsynth.KeyRight, termsynth.KeyEnter:
		return valueComplete
	case termsynth.KeyChar:
		if idx, ok := findShortcut(i.Items, k.Char); ok {
			i.Index = idx
			return valueComplete
		}
	}
	return keyConsumed
}

func findShortcut(items []termsynth.MenuItem, r rune) (int, bool) {
	for i, item := range items {
		if item.Key == r {
			return i, true
		}
	}
	return 0, false
}

// editValue passes a key to the editor of the selection's value domain.
func (s *ParamSelector) editValue(sel *ItemSelection, k termsynth.Key, store PatchStore) retCode {
	ret := editorFor(sel.Item().Range).key(s, sel, k, store)
	s.logger.Debug("selector: value", "item", sel.Item().Item, "result", ret, "value", sel.Value)
	return ret
}

// loadParams switches the parameter list to the selected function.
func (s *ParamSelector) loadParams() {
	s.ParamSelection.Items = s.FuncSelection.Item().Children
	s.ParamSelection.Index = min(s.ParamSelection.Index, len(s.ParamSelection.Items)-1)
}

// selectParam reads the value of the selected parameter from the store,
// discarding any entry in progress. For reference parameters the child
// selector is prepared to pick a new reference.
func (s *ParamSelector) selectParam(store PatchStore) {
	p := s.SelectedParam()
	p.Value = termsynth.ParameterValue{}
	v := store.GetValue(p)
	item := s.ParamSelection.Item()
	if !item.Range.Accepts(v) {
		panic(fmt.Sprintf("selector: stored value %v of %v does not match its %v range", v, p, item.Range.Kind))
	}
	s.ParamSelection.Value = v
	s.rawText = ""
	s.literal = 0
	s.typing = false
	switch item.Range.Kind {
	case termsynth.FunctionRangeKind:
		s.mustChild().load(item.Range.Items, SelectFunctionIndex, v.AsRef())
	case termsynth.ParamRangeKind:
		s.mustChild().load(item.Range.Items, SelectParam, v.AsRef())
	}
}

func (s *ParamSelector) mustChild() *ParamSelector {
	if s.child == nil {
		panic(fmt.Sprintf("selector: reference parameter %v without a child selector", s.ParamSelection.Item().Item))
	}
	return s.child
}

// load resets a child selector to pick a reference among functions, starting
// from ref.
func (s *ParamSelector) load(functions []termsynth.MenuItem, target SelectorState, ref termsynth.ParamRef) {
	fi, _ := termsynth.FindItem(functions, ref.Function)
	s.FuncSelection = ItemSelection{Items: functions, Index: fi, Value: termsynth.IntValue(int64(max(ref.FunctionInstance, 1)))}
	params := functions[fi].Children
	pi, _ := termsynth.FindItem(params, ref.Parameter)
	s.ParamSelection = ItemSelection{Items: params, Index: pi}
	s.TargetState = target
	s.State = SelectFunction
	s.rawText = ""
	s.literal = 0
	s.typing = false
}

// reference returns the selection of a child selector as a reference value.
func (s *ParamSelector) reference() termsynth.ParameterValue {
	f := s.FuncSelection.Item().Item
	if s.TargetState == SelectFunctionIndex {
		return termsynth.FunctionValue(f, s.Instance())
	}
	return termsynth.ParamValue(f, s.Instance(), s.ParamSelection.Item().Item)
}
