package termsynth

import (
	"fmt"
	"strconv"
)

type (
	// ValueKind tells which field of a ParameterValue is valid.
	ValueKind int

	// ParameterValue is the value of a parameter. Which fields are valid
	// depends on Kind; it must agree with the ValueRange of the menu item the
	// value belongs to. The accessors panic on a kind mismatch, since that
	// can only happen when the menu catalog is wired wrongly.
	ParameterValue struct {
		Kind   ValueKind
		Int    int64
		Float  float64
		Choice int
		Ref    ParamRef
	}

	// ParamRef points into the menu tree. For a function reference Parameter
	// is NoParameter.
	ParamRef struct {
		Function         Parameter
		FunctionInstance int
		Parameter        Parameter
	}
)

const (
	NoValueKind ValueKind = iota
	IntKind
	FloatKind
	ChoiceKind
	FunctionKind
	ParamKind
)

func (k ValueKind) String() string {
	switch k {
	case IntKind:
		return "Int"
	case FloatKind:
		return "Float"
	case ChoiceKind:
		return "Choice"
	case FunctionKind:
		return "Function"
	case ParamKind:
		return "Param"
	default:
		return "NoValue"
	}
}

func IntValue(i int64) ParameterValue     { return ParameterValue{Kind: IntKind, Int: i} }
func FloatValue(f float64) ParameterValue { return ParameterValue{Kind: FloatKind, Float: f} }
func ChoiceValue(c int) ParameterValue    { return ParameterValue{Kind: ChoiceKind, Choice: c} }

func FunctionValue(function Parameter, instance int) ParameterValue {
	return ParameterValue{Kind: FunctionKind, Ref: ParamRef{Function: function, FunctionInstance: instance}}
}

func ParamValue(function Parameter, instance int, parameter Parameter) ParameterValue {
	return ParameterValue{Kind: ParamKind, Ref: ParamRef{Function: function, FunctionInstance: instance, Parameter: parameter}}
}

func (v ParameterValue) must(kind ValueKind) {
	if v.Kind != kind {
		panic(fmt.Sprintf("parameter value kind mismatch: want %v, have %v", kind, v))
	}
}

func (v ParameterValue) AsInt() int64 {
	v.must(IntKind)
	return v.Int
}

func (v ParameterValue) AsFloat() float64 {
	v.must(FloatKind)
	return v.Float
}

func (v ParameterValue) AsChoice() int {
	v.must(ChoiceKind)
	return v.Choice
}

// AsRef returns the reference of a Function or Param value.
func (v ParameterValue) AsRef() ParamRef {
	if v.Kind != FunctionKind && v.Kind != ParamKind {
		panic(fmt.Sprintf("parameter value kind mismatch: want reference, have %v", v))
	}
	return v.Ref
}

// Number returns numeric values as float64, for the engine's modulation
// math. Choices count as their index.
func (v ParameterValue) Number() float64 {
	switch v.Kind {
	case IntKind:
		return float64(v.Int)
	case FloatKind:
		return v.Float
	case ChoiceKind:
		return float64(v.Choice)
	default:
		panic(fmt.Sprintf("parameter value %v is not numeric", v))
	}
}

func (v ParameterValue) String() string {
	switch v.Kind {
	case IntKind:
		return fmt.Sprintf("Int(%d)", v.Int)
	case FloatKind:
		return "Float(" + strconv.FormatFloat(v.Float, 'f', -1, 64) + ")"
	case ChoiceKind:
		return fmt.Sprintf("Choice(%d)", v.Choice)
	case FunctionKind:
		return fmt.Sprintf("Function(%v %d)", v.Ref.Function, v.Ref.FunctionInstance)
	case ParamKind:
		return fmt.Sprintf("Param(%v %d %v)", v.Ref.Function, v.Ref.FunctionInstance, v.Ref.Parameter)
	default:
		return "NoValue"
	}
}
