package termsynth

import "fmt"

type (
	// ParamID addresses one parameter of one function instance.
	ParamID struct {
		Function         Parameter
		FunctionInstance int
		Parameter        Parameter
	}

	// SynthParam is a fully resolved parameter with its value. It is the unit
	// of communication with the sound patch and the engine.
	SynthParam struct {
		Function         Parameter
		FunctionInstance int
		Parameter        Parameter
		Value            ParameterValue
	}
)

func NewSynthParam(function Parameter, instance int, parameter Parameter, value ParameterValue) SynthParam {
	return SynthParam{Function: function, FunctionInstance: instance, Parameter: parameter, Value: value}
}

func (p SynthParam) ID() ParamID {
	return ParamID{Function: p.Function, FunctionInstance: p.FunctionInstance, Parameter: p.Parameter}
}

func (p SynthParam) String() string {
	return fmt.Sprintf("%v %d %v = %v", p.Function, p.FunctionInstance, p.Parameter, p.Value)
}

// ID converts a parameter reference into the address of the referenced
// parameter.
func (r ParamRef) ID() ParamID {
	return ParamID{Function: r.Function, FunctionInstance: r.FunctionInstance, Parameter: r.Parameter}
}
