package termsynth

import (
	"fmt"
	"time"
)

type (
	// KeyCode discriminates navigation keys from literal characters.
	KeyCode int

	// Key is a keyboard event. Char is only meaningful for KeyChar.
	Key struct {
		Code KeyCode
		Char rune
	}

	MidiMessageKind int

	// MidiMessage is a channel voice message as delivered by the MIDI input.
	// Param is the note number or controller number, Value the velocity or
	// controller value.
	MidiMessage struct {
		Kind    MidiMessageKind
		Channel uint8
		Param   uint8
		Value   uint8
	}

	// SynthMessage is sent from the control thread to the audio engine.
	SynthMessage interface{ synthMessage() }

	// UiMessage is sent to the control thread by the engine, the MIDI input
	// and the keyboard reader.
	UiMessage interface{ uiMessage() }

	// ParamMsg carries a parameter. Sent to the engine it commits the value;
	// sent to the control thread it is the reply to a ParamQueryMsg.
	ParamMsg struct{ Param SynthParam }

	// ParamQueryMsg asks the engine for its current value of a parameter.
	ParamQueryMsg struct{ Param SynthParam }

	// SampleBufferRequest asks the engine to render a preview of the function
	// Param belongs to.
	SampleBufferRequest struct{ Param SynthParam }

	NoteOnMsg struct {
		Note     uint8
		Velocity uint8
	}

	NoteOffMsg struct{ Note uint8 }

	MidiMsg struct{ Message MidiMessage }

	KeyMsg struct{ Key Key }

	// SampleBufferMsg is the rendered preview for a SampleBufferRequest. An
	// empty Samples means the function has no preview.
	SampleBufferMsg struct {
		Samples []float32
		Param   SynthParam
	}

	// EngineSyncMsg is sent by the engine after every rendered buffer. Idle is
	// the time spent waiting for the output device since the previous buffer,
	// Busy the time spent rendering.
	EngineSyncMsg struct {
		Idle time.Duration
		Busy time.Duration
	}

	// QuitMsg stops the control loop.
	QuitMsg struct{}
)

const (
	KeyChar KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyBackspace
	KeyEnter
	KeyEsc
)

const (
	MidiOther MidiMessageKind = iota
	MidiNoteOn
	MidiNoteOff
	MidiControlChange
)

// MidiModWheel is the controller number of the modulation wheel.
const MidiModWheel = 0x01

func (ParamMsg) synthMessage()            {}
func (ParamQueryMsg) synthMessage()       {}
func (SampleBufferRequest) synthMessage() {}
func (NoteOnMsg) synthMessage()           {}
func (NoteOffMsg) synthMessage()          {}

func (ParamMsg) uiMessage()        {}
func (MidiMsg) uiMessage()         {}
func (KeyMsg) uiMessage()          {}
func (SampleBufferMsg) uiMessage() {}
func (EngineSyncMsg) uiMessage()   {}
func (QuitMsg) uiMessage()         {}

// CharKey returns the event for a typed character. Line feed and carriage
// return are reported as KeyEnter.
func CharKey(r rune) Key {
	if r == '\n' || r == '\r' {
		return Key{Code: KeyEnter}
	}
	return Key{Code: KeyChar, Char: r}
}

func NewKey(code KeyCode) Key {
	return Key{Code: code}
}

// IsChar reports whether k is the literal character r.
func (k Key) IsChar(r rune) bool {
	return k.Code == KeyChar && k.Char == r
}

func (k Key) String() string {
	switch k.Code {
	case KeyChar:
		return fmt.Sprintf("%q", k.Char)
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyBackspace:
		return "Backspace"
	case KeyEnter:
		return "Enter"
	case KeyEsc:
		return "Esc"
	default:
		return fmt.Sprintf("Key(%d)", int(k.Code))
	}
}

func (k MidiMessageKind) String() string {
	switch k {
	case MidiNoteOn:
		return "NoteOn"
	case MidiNoteOff:
		return "NoteOff"
	case MidiControlChange:
		return "ControlChange"
	default:
		return "Other"
	}
}
