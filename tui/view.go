package tui

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vsariola/termsynth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// View renders the selector, the preview plot and the engine load to a
// terminal in raw mode.
type View struct {
	out    io.Writer
	width  int
	height int
	caser  cases.Caser

	selected lipgloss.Style
	normal   lipgloss.Style
	option   lipgloss.Style
	plot     lipgloss.Style
	status   lipgloss.Style
}

const (
	plotHeight   = 11
	clearScreen  = "\x1b[H\x1b[2J"
	sparkLetters = "▁▂▃▄▅▆▇█"
)

func NewView(out io.Writer) *View {
	return &View{
		out:      out,
		width:    80,
		height:   24,
		caser:    cases.Title(language.English),
		selected: lipgloss.NewStyle().Background(lipgloss.Color("15")).Foreground(lipgloss.Color("0")).Bold(true),
		normal:   lipgloss.NewStyle().Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0")),
		option:   lipgloss.NewStyle().Foreground(lipgloss.Color("#88C0D0")),
		plot:     lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C")),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A")),
	}
}

// Resize sets the terminal size in characters.
func (v *View) Resize(width, height int) {
	if width > 0 {
		v.width = width
	}
	if height > 0 {
		v.height = height
	}
}

// Draw writes a complete frame.
func (v *View) Draw(t *Tui) error {
	frame := v.Render(t)
	_, err := io.WriteString(v.out, clearScreen+strings.ReplaceAll(frame, "\n", "\r\n"))
	return err
}

// Render returns the frame as text.
func (v *View) Render(t *Tui) string {
	var b strings.Builder
	s := t.selector
	b.WriteString(v.selectorLine(s))
	b.WriteString("\n")
	for _, line := range v.options(s) {
		b.WriteString(v.option.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	samples, p := t.Samples()
	if lines := v.plotLines(samples, p.Function); len(lines) > 0 {
		b.WriteString(v.plot.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	b.WriteString(v.status.Render(v.statusLine(t.Load())))
	return b.String()
}

// selectorLine shows every state up to the current one, the current one
// highlighted. While a reference is being edited the child selector is shown
// in place of the value.
func (v *View) selectorLine(s *ParamSelector) string {
	var parts []string
	for state := SelectFunction; ; state = next(state) {
		style := v.normal
		if state == s.State {
			style = v.selected
		}
		var text string
		switch state {
		case SelectFunction:
			text = v.label(s.FuncSelection.Item().Item)
		case SelectFunctionIndex:
			text = strconv.Itoa(s.Instance())
		case SelectParam:
			text = v.label(s.ParamSelection.Item().Item)
		case SelectValue:
			if s.child != nil && isReference(s.ParamSelection.Item().Range) {
				parts = append(parts, v.selectorLine(s.child))
				text = ""
			} else {
				text = v.value(s)
			}
		}
		if text != "" {
			parts = append(parts, style.Render(" "+text+" "))
		}
		if state == s.State {
			break
		}
	}
	return strings.Join(parts, "")
}

func (v *View) value(s *ParamSelector) string {
	val := s.ParamSelection.Value
	switch val.Kind {
	case termsynth.IntKind:
		return strconv.FormatInt(val.Int, 10)
	case termsynth.FloatKind:
		if s.rawText != "" {
			return s.rawText
		}
		return strconv.FormatFloat(val.Float, 'f', -1, 64)
	case termsynth.ChoiceKind:
		items := s.ParamSelection.Item().Range.Items
		if val.Choice >= 0 && val.Choice < len(items) {
			return v.label(items[val.Choice].Item)
		}
		return strconv.Itoa(val.Choice)
	case termsynth.FunctionKind:
		return fmt.Sprintf("%s %d", v.label(val.Ref.Function), val.Ref.FunctionInstance)
	case termsynth.ParamKind:
		return fmt.Sprintf("%s %d %s", v.label(val.Ref.Function), val.Ref.FunctionInstance, v.label(val.Ref.Parameter))
	}
	return ""
}

// options lists what can be entered in the current state.
func (v *View) options(s *ParamSelector) []string {
	switch s.State {
	case SelectFunction:
		return v.itemList(s.FuncSelection.Items)
	case SelectFunctionIndex:
		r := s.FuncSelection.Item().Range
		return []string{fmt.Sprintf("%d - %d", r.IntMin, r.IntMax)}
	case SelectParam:
		return v.itemList(s.ParamSelection.Items)
	}
	r := s.ParamSelection.Item().Range
	switch r.Kind {
	case termsynth.IntRangeKind:
		return []string{fmt.Sprintf("%d - %d", r.IntMin, r.IntMax)}
	case termsynth.FloatRangeKind:
		return []string{fmt.Sprintf("%v - %v", r.FloatMin, r.FloatMax)}
	case termsynth.ChoiceRangeKind:
		return v.itemList(r.Items)
	case termsynth.FunctionRangeKind, termsynth.ParamRangeKind:
		if s.child != nil {
			return v.options(s.child)
		}
	}
	return nil
}

func (v *View) itemList(items []termsynth.MenuItem) []string {
	ret := make([]string, len(items))
	for i, item := range items {
		ret[i] = fmt.Sprintf("%c - %s", item.Key, v.label(item.Item))
	}
	return ret
}

// plotLines draws the preview as a column chart. Oscillators and LFOs are
// drawn in [-1,1], envelopes in [0,1].
func (v *View) plotLines(samples []float32, function termsynth.Parameter) []string {
	if len(samples) == 0 {
		return nil
	}
	lo, hi := float32(-1), float32(1)
	if function == termsynth.Envelope {
		lo = 0
	}
	width := min(len(samples), max(v.width, 1))
	grid := make([][]rune, plotHeight)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}
	for x := 0; x < width; x++ {
		s := samples[x*len(samples)/width]
		s = min(max(s, lo), hi)
		y := int(math.Round(float64((hi - s) / (hi - lo) * (plotHeight - 1))))
		grid[y][x] = '*'
	}
	lines := make([]string, plotHeight)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return lines
}

func (v *View) statusLine(l LoadStats) string {
	var spark strings.Builder
	letters := []rune(sparkLetters)
	for _, f := range l.History.Ordered() {
		i := int(f * float32(len(letters)))
		spark.WriteRune(letters[min(max(i, 0), len(letters)-1)])
	}
	minIdle := l.MinIdle
	if l.Syncs == 0 {
		minIdle = 0
	}
	return fmt.Sprintf("load %s  min idle %v  max busy %v", spark.String(), minIdle, l.MaxBusy)
}

func (v *View) label(p termsynth.Parameter) string {
	return v.caser.String(p.String())
}

func isReference(r termsynth.ValueRange) bool {
	return r.Kind == termsynth.FunctionRangeKind || r.Kind == termsynth.ParamRangeKind
}
