package tui

import (
	"fmt"
	"strings"
)

type (
	// MIDIContext lists the MIDI inputs of the system. An opened input
	// delivers control changes to the control loop and notes to the engine.
	MIDIContext interface {
		Inputs(yield func(input MIDIInputDevice) bool)
		Close()
		Support() MIDISupport
	}

	MIDIInputDevice interface {
		Open() error
		Close() error
		IsOpen() bool
		String() string
	}

	MIDISupport int
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

func (s MIDISupport) String() string {
	switch s {
	case MIDISupportNotCompiled:
		return "not compiled"
	case MIDISupportNoDriver:
		return "no driver"
	case MIDISupported:
		return "supported"
	}
	return fmt.Sprintf("MIDISupport(%d)", int(s))
}

// OpenMIDIInput opens the first input whose name starts with prefix. An empty
// prefix opens the first input there is.
func OpenMIDIInput(ctx MIDIContext, prefix string) (MIDIInputDevice, error) {
	if s := ctx.Support(); s != MIDISupported {
		return nil, fmt.Errorf("MIDI input unavailable: %v", s)
	}
	for input := range ctx.Inputs {
		if strings.HasPrefix(input.String(), prefix) {
			if err := input.Open(); err != nil {
				return nil, fmt.Errorf("opening MIDI input %q: %w", input.String(), err)
			}
			return input, nil
		}
	}
	if prefix == "" {
		return nil, fmt.Errorf("could not find any MIDI input")
	}
	return nil, fmt.Errorf("could not find a MIDI input starting with %q", prefix)
}

// NullMIDIContext is a MIDIContext without any inputs.
type NullMIDIContext struct{}

func (m NullMIDIContext) Inputs(yield func(input MIDIInputDevice) bool) {}
func (m NullMIDIContext) Close()                                        {}
func (m NullMIDIContext) Support() MIDISupport                          { return MIDISupportNotCompiled }
