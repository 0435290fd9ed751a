package gomidi_test

import (
	"testing"

	"github.com/vsariola/termsynth"
	"github.com/vsariola/termsynth/tui/gomidi"
	"gitlab.com/gomidi/midi/v2"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		msg  midi.Message
		want termsynth.MidiMessage
	}{
		{"note on", midi.NoteOn(2, 60, 100), termsynth.MidiMessage{Kind: termsynth.MidiNoteOn, Channel: 2, Param: 60, Value: 100}},
		{"note off", midi.NoteOff(2, 60), termsynth.MidiMessage{Kind: termsynth.MidiNoteOff, Channel: 2, Param: 60}},
		{"zero velocity", midi.NoteOn(0, 64, 0), termsynth.MidiMessage{Kind: termsynth.MidiNoteOff, Param: 64}},
		{"mod wheel", midi.ControlChange(0, termsynth.MidiModWheel, 42), termsynth.MidiMessage{Kind: termsynth.MidiControlChange, Param: termsynth.MidiModWheel, Value: 42}},
		{"pitch bend", midi.Pitchbend(0, 100), termsynth.MidiMessage{Kind: termsynth.MidiOther}},
	}
	for _, tt := range tests {
		if got := gomidi.Convert(tt.msg); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestRoute(t *testing.T) {
	b := termsynth.NewBroker()
	for _, msg := range []midi.Message{midi.NoteOn(0, 60, 90), midi.ControlChange(0, 1, 5), midi.NoteOff(0, 60)} {
		if err := gomidi.Route(b, msg); err != nil {
			t.Fatal(err)
		}
	}
	on, _ := b.ToEngine.TryReceive()
	if on != (termsynth.NoteOnMsg{Note: 60, Velocity: 90}) {
		t.Errorf("first engine message: got %#v", on)
	}
	off, _ := b.ToEngine.TryReceive()
	if off != (termsynth.NoteOffMsg{Note: 60}) {
		t.Errorf("second engine message: got %#v", off)
	}
	cc, _ := b.ToUI.TryReceive()
	if m, ok := cc.(termsynth.MidiMsg); !ok || m.Message.Value != 5 {
		t.Errorf("ui message: got %#v", cc)
	}
	b.Close()
	if err := gomidi.Route(b, midi.NoteOn(0, 60, 90)); err == nil {
		t.Error("expected an error after close")
	}
}
