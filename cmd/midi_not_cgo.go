//go:build !cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/termsynth"
	"github.com/vsariola/termsynth/tui"
)

func NewMidiContext(broker *termsynth.Broker, logger *slog.Logger) tui.MIDIContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return tui.NullMIDIContext{}
}
