// Package gomidi connects MIDI inputs of the system to the synthesizer.
package gomidi

import (
	"github.com/vsariola/termsynth"
	"gitlab.com/gomidi/midi/v2"
)

// Convert turns a raw MIDI message into a channel voice message. A note on
// with zero velocity is a note off.
func Convert(msg midi.Message) termsynth.MidiMessage {
	var ch, param, value uint8
	switch {
	case msg.GetNoteStart(&ch, &param, &value):
		return termsynth.MidiMessage{Kind: termsynth.MidiNoteOn, Channel: ch, Param: param, Value: value}
	case msg.GetNoteEnd(&ch, &param):
		return termsynth.MidiMessage{Kind: termsynth.MidiNoteOff, Channel: ch, Param: param}
	case msg.GetControlChange(&ch, &param, &value):
		return termsynth.MidiMessage{Kind: termsynth.MidiControlChange, Channel: ch, Param: param, Value: value}
	}
	return termsynth.MidiMessage{Kind: termsynth.MidiOther}
}

// Route delivers a MIDI message: notes go straight to the engine, controller
// changes to the control loop. Other messages are dropped.
func Route(broker *termsynth.Broker, msg midi.Message) error {
	m := Convert(msg)
	switch m.Kind {
	case termsynth.MidiNoteOn:
		return broker.ToEngine.Send(termsynth.NoteOnMsg{Note: m.Param, Velocity: m.Value})
	case termsynth.MidiNoteOff:
		return broker.ToEngine.Send(termsynth.NoteOffMsg{Note: m.Param})
	case termsynth.MidiControlChange:
		return broker.ToUI.Send(termsynth.MidiMsg{Message: m})
	}
	return nil
}
