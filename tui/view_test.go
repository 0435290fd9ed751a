package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eiannone/keyboard"
	"github.com/vsariola/termsynth"
	"github.com/vsariola/termsynth/tui"
)

func TestViewShowsSelection(t *testing.T) {
	var out bytes.Buffer
	view := tui.NewView(&out)
	ui, _ := newTui(view)
	handle(t, ui, keyMsgs("f2c")...)
	frame := view.Render(ui)
	for _, want := range []string{"Filter", "2", "Cutoff", "20000", "20 - 20000"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame does not contain %q:\n%s", want, frame)
		}
	}
	if err := view.Draw(ui); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(strings.ReplaceAll(out.String(), "\r\n", ""), "\n") {
		t.Error("raw mode output should end lines with CRLF")
	}
}

func TestViewShowsChildSelector(t *testing.T) {
	view := tui.NewView(&bytes.Buffer{})
	ui, _ := newTui(view)
	handle(t, ui, keyMsgs("m1")...)
	handle(t, ui, termsynth.KeyMsg{Key: termsynth.NewKey(termsynth.KeyEnter)})
	handle(t, ui, keyMsgs("to")...)
	frame := view.Render(ui)
	for _, want := range []string{"Modulation", "Target", "Oscillator", "1 - 3"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame does not contain %q:\n%s", want, frame)
		}
	}
}

func TestViewPlot(t *testing.T) {
	view := tui.NewView(&bytes.Buffer{})
	view.Resize(8, 24)
	ui, _ := newTui(view)
	p := termsynth.NewSynthParam(termsynth.Lfo, 1, termsynth.Frequency, termsynth.FloatValue(2))
	handle(t, ui, termsynth.SampleBufferMsg{Samples: []float32{1, 1, 1, 1, -1, -1, -1, -1}, Param: p})
	lines := strings.Split(view.Render(ui), "\n")
	var top, bottom string
	for i, line := range lines {
		if strings.Contains(line, "*") {
			if top == "" {
				top = line
			}
			bottom = lines[i]
		}
	}
	if !strings.HasPrefix(strings.TrimSpace(top), "****") {
		t.Errorf("top row: got %q", top)
	}
	if !strings.HasSuffix(strings.TrimSpace(bottom), "****") {
		t.Errorf("bottom row: got %q", bottom)
	}
}

func TestRingBuffer(t *testing.T) {
	r := tui.RingBuffer[int]{Buffer: make([]int, 3)}
	for i := 1; i <= 4; i++ {
		r.WriteWrapSingle(i)
	}
	got := r.Ordered()
	want := []int{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		char rune
		key  keyboard.Key
		want termsynth.Key
		ok   bool
	}{
		{'a', 0, termsynth.CharKey('a'), true},
		{0, keyboard.KeyArrowUp, termsynth.NewKey(termsynth.KeyUp), true},
		{0, keyboard.KeyArrowLeft, termsynth.NewKey(termsynth.KeyLeft), true},
		{0, keyboard.KeyBackspace2, termsynth.NewKey(termsynth.KeyBackspace), true},
		{0, keyboard.KeyEnter, termsynth.NewKey(termsynth.KeyEnter), true},
		{0, keyboard.KeyCtrlC, termsynth.NewKey(termsynth.KeyEsc), true},
		{0, keyboard.KeyF1, termsynth.Key{}, false},
	}
	for _, tt := range tests {
		got, ok := tui.TranslateKey(tt.char, tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("TranslateKey(%q, %v): got %v %v, want %v %v", tt.char, tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

type fakeInput struct {
	name   string
	opened *bool
}

func (f fakeInput) Open() error    { *f.opened = true; return nil }
func (f fakeInput) Close() error   { *f.opened = false; return nil }
func (f fakeInput) IsOpen() bool   { return *f.opened }
func (f fakeInput) String() string { return f.name }

type fakeMIDI []fakeInput

func (f fakeMIDI) Inputs(yield func(tui.MIDIInputDevice) bool) {
	for _, in := range f {
		if !yield(in) {
			return
		}
	}
}
func (f fakeMIDI) Close()                   {}
func (f fakeMIDI) Support() tui.MIDISupport { return tui.MIDISupported }

func TestOpenMIDIInput(t *testing.T) {
	var a, b bool
	ctx := fakeMIDI{{"Keystation 49", &a}, {"Launchkey Mini", &b}}
	in, err := tui.OpenMIDIInput(ctx, "Launch")
	if err != nil {
		t.Fatal(err)
	}
	if in.String() != "Launchkey Mini" || a || !b {
		t.Errorf("opened %q (first open %v, second open %v)", in.String(), a, b)
	}
	if _, err := tui.OpenMIDIInput(ctx, "Oxygen"); err == nil {
		t.Error("expected an error for a missing input")
	}
	if _, err := tui.OpenMIDIInput(tui.NullMIDIContext{}, ""); err == nil {
		t.Error("expected an error without MIDI support")
	}
}
