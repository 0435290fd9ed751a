//go:build cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/termsynth"
	"github.com/vsariola/termsynth/tui"
	"github.com/vsariola/termsynth/tui/gomidi"
)

func NewMidiContext(broker *termsynth.Broker, logger *slog.Logger) tui.MIDIContext {
	return gomidi.NewContext(broker, logger)
}
