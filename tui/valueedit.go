package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vsariola/termsynth"
)

type (
	// valueEditor is the behavior of one value domain: how keys change the
	// value, how a value is forced into the domain and how a MIDI controller
	// value maps onto it.
	valueEditor interface {
		key(s *ParamSelector, sel *ItemSelection, k termsynth.Key, store PatchStore) retCode
		clamp(s *ParamSelector, v termsynth.ParameterValue) termsynth.ParameterValue
		fromController(val int) (termsynth.ParameterValue, bool)
	}

	intEditor       struct{ min, max int64 }
	floatEditor     struct{ min, max float64 }
	choiceEditor    struct{ n int }
	referenceEditor struct{}
)

const controllerMax = 127

func editorFor(r termsynth.ValueRange) valueEditor {
	switch r.Kind {
	case termsynth.IntRangeKind:
		return intEditor{r.IntMin, r.IntMax}
	case termsynth.FloatRangeKind:
		return floatEditor{r.FloatMin, r.FloatMax}
	case termsynth.ChoiceRangeKind:
		return choiceEditor{len(r.Items)}
	case termsynth.FunctionRangeKind, termsynth.ParamRangeKind:
		return referenceEditor{}
	}
	panic(fmt.Sprintf("selector: no editor for %v range", r.Kind))
}

// commit clamps a new value and stores it in the selection.
func commit(s *ParamSelector, ed valueEditor, sel *ItemSelection, v termsynth.ParameterValue) {
	sel.Value = ed.clamp(s, v)
	s.typing = false
}

func (e intEditor) key(s *ParamSelector, sel *ItemSelection, k termsynth.Key, _ PatchStore) retCode {
	current := sel.Value.AsInt()
	var ret retCode
	switch k.Code {
	case termsynth.KeyChar:
		if k.Char < '0' || k.Char > '9' {
			return keyMismatch
		}
		digit := int64(k.Char - '0')
		s.literal = s.literal*10 + digit
		if s.literal > e.max {
			// no digit can follow: start over with this one and finish
			s.literal = digit
			commit(s, e, sel, termsynth.IntValue(digit))
			return valueComplete
		}
		sel.Value = termsynth.IntValue(s.literal)
		if s.literal*10 > e.max {
			commit(s, e, sel, sel.Value)
			return valueComplete
		}
		return keyConsumed
	case termsynth.KeyUp:
		current++
		ret = valueUpdated
	case termsynth.KeyDown:
		if current <= e.min {
			s.literal = 0
			return keyConsumed
		}
		current--
		ret = valueUpdated
	case termsynth.KeyLeft, termsynth.KeyBackspace:
		s.literal = 0
		sel.Value = e.clamp(s, sel.Value)
		return cancel
	default:
		ret = valueComplete
	}
	s.literal = 0
	commit(s, e, sel, termsynth.IntValue(current))
	return ret
}

func (e intEditor) clamp(_ *ParamSelector, v termsynth.ParameterValue) termsynth.ParameterValue {
	return termsynth.IntValue(min(max(v.AsInt(), e.min), e.max))
}

func (e intEditor) fromController(val int) (termsynth.ParameterValue, bool) {
	inc := float64(e.max-e.min) / controllerMax
	return termsynth.IntValue(e.min + int64(float64(val)*inc)), true
}

func (e floatEditor) key(s *ParamSelector, sel *ItemSelection, k termsynth.Key, _ PatchStore) retCode {
	current := sel.Value.AsFloat()
	switch k.Code {
	case termsynth.KeyChar:
		if (k.Char < '0' || k.Char > '9') && k.Char != '.' {
			return keyMismatch
		}
		s.rawText += string(k.Char)
		s.typing = true
		sel.Value = termsynth.FloatValue(parseOr(s.rawText, current))
		return keyConsumed
	case termsynth.KeyBackspace:
		if s.rawText != "" {
			s.rawText = s.rawText[:len(s.rawText)-1]
			s.typing = true
			if s.rawText == "" {
				sel.Value = termsynth.FloatValue(0)
			} else {
				sel.Value = termsynth.FloatValue(parseOr(s.rawText, current))
			}
		}
		return keyConsumed
	case termsynth.KeyUp:
		commit(s, e, sel, termsynth.FloatValue(current+1))
		return valueUpdated
	case termsynth.KeyDown:
		commit(s, e, sel, termsynth.FloatValue(current-1))
		return valueUpdated
	case termsynth.KeyRight, termsynth.KeyEnter:
		commit(s, e, sel, sel.Value)
		return valueComplete
	case termsynth.KeyLeft:
		return cancel
	}
	return keyMismatch
}

// clamp also rewrites the text buffer from the clamped value, keeping a
// trailing decimal point the user typed.
func (e floatEditor) clamp(s *ParamSelector, v termsynth.ParameterValue) termsynth.ParameterValue {
	f := min(max(v.AsFloat(), e.min), e.max)
	hadPeriod := strings.Contains(s.rawText, ".")
	s.rawText = strconv.FormatFloat(f, 'f', -1, 64)
	if hadPeriod && !strings.Contains(s.rawText, ".") {
		s.rawText += "."
	}
	return termsynth.FloatValue(f)
}

func (e floatEditor) fromController(val int) (termsynth.ParameterValue, bool) {
	inc := (e.max - e.min) / controllerMax
	return termsynth.FloatValue(e.min + float64(val)*inc), true
}

func parseOr(text string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return fallback
}

func (e choiceEditor) key(s *ParamSelector, sel *ItemSelection, k termsynth.Key, _ PatchStore) retCode {
	current := sel.Value.AsChoice()
	switch k.Code {
	case termsynth.KeyUp:
		commit(s, e, sel, termsynth.ChoiceValue(current+1))
		return valueUpdated
	case termsynth.KeyDown:
		if current == 0 {
			return keyConsumed
		}
		commit(s, e, sel, termsynth.ChoiceValue(current-1))
		return valueUpdated
	case termsynth.KeyLeft, termsynth.KeyBackspace:
		return cancel
	case termsynth.KeyRight, termsynth.KeyEnter:
		commit(s, e, sel, sel.Value)
		return valueComplete
	}
	return keyMismatch
}

func (e choiceEditor) clamp(_ *ParamSelector, v termsynth.ParameterValue) termsynth.ParameterValue {
	return termsynth.ChoiceValue(min(max(v.AsChoice(), 0), e.n-1))
}

func (e choiceEditor) fromController(val int) (termsynth.ParameterValue, bool) {
	inc := float64(e.n) / controllerMax
	return termsynth.ChoiceValue(int(float64(val) * inc)), true
}

// key forwards to the child selector. When the child has picked a function
// (or function parameter) it becomes the value of this parameter.
func (referenceEditor) key(s *ParamSelector, sel *ItemSelection, k termsynth.Key, store PatchStore) retCode {
	child := s.mustChild()
	finished, escaped := child.handleKey(k, store)
	switch {
	case escaped:
		return cancel
	case finished:
		sel.Value = child.reference()
		return valueComplete
	}
	return keyConsumed
}

func (referenceEditor) clamp(_ *ParamSelector, v termsynth.ParameterValue) termsynth.ParameterValue {
	panic(fmt.Sprintf("selector: reference value %v cannot be clamped", v))
}

func (referenceEditor) fromController(int) (termsynth.ParameterValue, bool) {
	return termsynth.ParameterValue{}, false
}
