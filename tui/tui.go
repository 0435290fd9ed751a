// Package tui implements the control thread of the synthesizer: the
// parameter selector driven by keyboard and MIDI, and the terminal display.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vsariola/termsynth"
)

type (
	// Tui is the control loop. It owns the authoritative sound patch and the
	// selector tree; both are only touched from the goroutine running Run.
	Tui struct {
		selector *ParamSelector
		patch    *termsynth.SoundPatch
		broker   *termsynth.Broker
		view     *View
		logger   *slog.Logger

		samples      []float32
		samplesParam termsynth.SynthParam

		load        LoadStats
		syncCounter int
	}

	// LoadStats accumulates the timing reported by the engine.
	LoadStats struct {
		Idle, Busy       time.Duration
		MinIdle, MaxBusy time.Duration
		Syncs            int
		History          RingBuffer[float32] // busy / (idle + busy) per redraw
	}
)

// SyncsPerRedraw is how many EngineSync messages pass between two redraws
// and preview requests.
const SyncsPerRedraw = 10

const loadHistoryLength = 32

func NewTui(broker *termsynth.Broker, patch *termsynth.SoundPatch, view *View, logger *slog.Logger) *Tui {
	return &Tui{
		selector: NewParamSelector(termsynth.Functions, logger),
		patch:    patch,
		broker:   broker,
		view:     view,
		logger:   logger,
		load: LoadStats{
			MinIdle: time.Duration(1<<63 - 1),
			History: RingBuffer[float32]{Buffer: make([]float32, loadHistoryLength)},
		},
	}
}

func (t *Tui) Selector() *ParamSelector { return t.selector }

func (t *Tui) Patch() *termsynth.SoundPatch { return t.patch }

func (t *Tui) Load() LoadStats { return t.load }

// Samples returns the latest preview and the parameter it was requested for.
func (t *Tui) Samples() ([]float32, termsynth.SynthParam) { return t.samples, t.samplesParam }

// Run receives and handles messages until a quit is requested, ctx is done or
// a send fails. The control loop blocks nowhere else. FinishedUI of the
// broker is closed on return.
func (t *Tui) Run(ctx context.Context) error {
	defer close(t.broker.FinishedUI)
	t.draw()
	for {
		msg, ok := t.broker.ToUI.Receive(ctx)
		if !ok {
			return ctx.Err()
		}
		quit, err := t.HandleMessage(msg)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// HandleMessage processes one message. It returns quit when the control loop
// should end, and an error when the engine can no longer be reached.
func (t *Tui) HandleMessage(msg termsynth.UiMessage) (quit bool, err error) {
	switch m := msg.(type) {
	case termsynth.MidiMsg:
		err = t.handleMidi(m.Message)
	case termsynth.KeyMsg:
		if m.Key.Code == termsynth.KeyEsc {
			return true, nil
		}
		err = t.handleKey(m.Key)
	case termsynth.ParamMsg:
		if t.selector.ApplyReply(m.Param) {
			t.logger.Debug("tui: engine value", "param", m.Param)
			t.draw()
		}
	case termsynth.SampleBufferMsg:
		if old := t.samples; old != nil {
			t.broker.PutSampleBuffer(&old)
		}
		t.samples, t.samplesParam = m.Samples, m.Param
	case termsynth.EngineSyncMsg:
		err = t.handleEngineSync(m.Idle, m.Busy)
	case termsynth.QuitMsg:
		return true, nil
	default:
		t.logger.Debug("tui: unhandled message", "type", fmt.Sprintf("%T", msg))
	}
	return false, err
}

func (t *Tui) handleMidi(m termsynth.MidiMessage) error {
	if m.Kind != termsynth.MidiControlChange || m.Param != termsynth.MidiModWheel {
		return nil
	}
	state, id := t.selector.State, t.selector.SelectedParam().ID()
	if t.selector.HandleControlChange(int(m.Value), t.patch) {
		if err := t.sendEvent(); err != nil {
			return err
		}
	}
	if err := t.queryIfMoved(state, id); err != nil {
		return err
	}
	t.draw()
	return nil
}

func (t *Tui) handleKey(k termsynth.Key) error {
	state, id := t.selector.State, t.selector.SelectedParam().ID()
	if t.selector.HandleUserInput(k, t.patch) {
		if err := t.sendEvent(); err != nil {
			return err
		}
	}
	if err := t.queryIfMoved(state, id); err != nil {
		return err
	}
	t.draw()
	return nil
}

// queryIfMoved asks the engine for the value of the selected parameter when
// the selector has entered the Value state or moved to another parameter
// while in it.
func (t *Tui) queryIfMoved(state SelectorState, id termsynth.ParamID) error {
	if t.selector.State != SelectValue {
		return nil
	}
	if state == SelectValue && t.selector.SelectedParam().ID() == id {
		return nil
	}
	return t.query()
}

func (t *Tui) handleEngineSync(idle, busy time.Duration) error {
	l := &t.load
	l.Idle += idle
	l.Busy += busy
	l.MinIdle = min(l.MinIdle, idle)
	l.MaxBusy = max(l.MaxBusy, busy)
	l.Syncs++
	t.syncCounter++
	if t.syncCounter < SyncsPerRedraw {
		return nil
	}
	t.syncCounter = 0
	if total := l.Idle + l.Busy; total > 0 {
		l.History.WriteWrapSingle(float32(l.Busy) / float32(total))
	}
	t.draw()
	l.Idle, l.Busy = 0, 0
	return t.requestSampleBuffer()
}

// sendEvent commits the selected value to the patch and the engine.
func (t *Tui) sendEvent() error {
	p := t.selector.SelectedParam()
	t.patch.SetParameter(p)
	t.logger.Debug("tui: commit", "param", p)
	if err := t.broker.ToEngine.Send(termsynth.ParamMsg{Param: p}); err != nil {
		return fmt.Errorf("sending parameter: %w", err)
	}
	return nil
}

func (t *Tui) query() error {
	p := t.selector.SelectedParam()
	if err := t.broker.ToEngine.Send(termsynth.ParamQueryMsg{Param: p}); err != nil {
		return fmt.Errorf("querying parameter: %w", err)
	}
	return nil
}

func (t *Tui) requestSampleBuffer() error {
	p := t.selector.SelectedParam()
	if err := t.broker.ToEngine.Send(termsynth.SampleBufferRequest{Param: p}); err != nil {
		return fmt.Errorf("requesting sample buffer: %w", err)
	}
	return nil
}

func (t *Tui) draw() {
	if t.view == nil {
		return
	}
	if err := t.view.Draw(t); err != nil {
		t.logger.Warn("tui: drawing failed", "err", err)
	}
}
