//go:build cgo

package gomidi

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vsariola/termsynth"
	"github.com/vsariola/termsynth/tui"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	RTMIDIContext struct {
		driver    *rtmididrv.Driver
		currentIn drivers.In
		stop      func()
		broker    *termsynth.Broker
		logger    *slog.Logger
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
	}
)

// NewContext opens the RtMidi driver. If that fails the context has no
// inputs and reports MIDISupportNoDriver.
func NewContext(broker *termsynth.Broker, logger *slog.Logger) *RTMIDIContext {
	m := RTMIDIContext{broker: broker, logger: logger}
	var err error
	if m.driver, err = rtmididrv.New(); err != nil {
		logger.Warn("midi: no driver", "err", err)
		m.driver = nil
	}
	return &m
}

func (m *RTMIDIContext) Inputs(yield func(input tui.MIDIInputDevice) bool) {
	if m.driver == nil {
		return
	}
	ins, err := m.driver.Ins()
	if err != nil {
		m.logger.Warn("midi: listing inputs failed", "err", err)
		return
	}
	for _, in := range ins {
		if !yield(RTMIDIDevice{context: m, in: in}) {
			break
		}
	}
}

func (m *RTMIDIContext) Support() tui.MIDISupport {
	if m.driver == nil {
		return tui.MIDISupportNoDriver
	}
	return tui.MIDISupported
}

func (m *RTMIDIContext) Close() {
	if m.driver == nil {
		return
	}
	m.closeCurrent()
	m.driver.Close()
}

func (m *RTMIDIContext) closeCurrent() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
	if m.currentIn != nil && m.currentIn.IsOpen() {
		m.currentIn.Close()
	}
	m.currentIn = nil
}

func (m *RTMIDIContext) handleMessage(msg midi.Message, timestampms int32) {
	if err := Route(m.broker, msg); err != nil && !errors.Is(err, termsynth.ErrMailboxClosed) {
		m.logger.Warn("midi: dropped message", "msg", msg.String(), "err", err)
	}
}

// Open an input device while closing the currently open if necessary.
func (d RTMIDIDevice) Open() error {
	c := d.context
	if c.currentIn == d.in && d.in.IsOpen() {
		return nil
	}
	if c.driver == nil {
		return errors.New("no driver available")
	}
	c.closeCurrent()
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(d.in, c.handleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	c.currentIn, c.stop = d.in, stop
	return nil
}

func (d RTMIDIDevice) Close() error {
	if d.context.currentIn == d.in {
		d.context.closeCurrent()
		return nil
	}
	return d.in.Close()
}

func (d RTMIDIDevice) IsOpen() bool { return d.in.IsOpen() }

func (d RTMIDIDevice) String() string { return d.in.String() }
