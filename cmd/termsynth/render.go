package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"
	"github.com/vsariola/termsynth"
	"github.com/vsariola/termsynth/cmd"
	"github.com/vsariola/termsynth/synth"
)

type renderOptions struct {
	out      string
	note     uint8
	velocity uint8
	hold     time.Duration
	length   time.Duration
	float    bool
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one note of the patch to a .wav file",
	Long: `Render plays a single note through the patch without opening the
audio device or the terminal, and writes the result as a mono .wav file.

Example:
  termsynth render --patch bass.yml --note 36 --hold 500ms -o bass.wav`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOpts.out, "output", "o", "termsynth.wav", "Output file.")
	f.Uint8VarP(&renderOpts.note, "note", "n", 60, "MIDI note number.")
	f.Uint8VarP(&renderOpts.velocity, "velocity", "v", 127, "Note velocity, 1-127.")
	f.DurationVar(&renderOpts.hold, "hold", time.Second, "Time from note on to note off.")
	f.DurationVarP(&renderOpts.length, "length", "l", 2*time.Second, "Length of the whole file.")
	f.BoolVar(&renderOpts.float, "float", false, "Write 32-bit float samples instead of 16-bit integers.")
}

// renderNote plays one note on a fresh engine. The note is released after
// hold; the buffer is sized for length.
func renderNote(patch *termsynth.SoundPatch, sampleRate int, o renderOptions) ([]float32, error) {
	if o.velocity == 0 || o.velocity > 127 || o.note > 127 {
		return nil, fault.New(fmt.Sprintf("invalid note %d velocity %d", o.note, o.velocity))
	}
	total := int(o.length.Seconds() * float64(sampleRate))
	hold := min(int(o.hold.Seconds()*float64(sampleRate)), total)
	if total <= 0 || hold < 0 {
		return nil, fault.New("length must be positive")
	}
	conf := cmd.DefaultConfig()
	conf.LogFile = ""
	logger, _, _ := cmd.NewLogger(conf)
	engine := synth.NewEngine(termsynth.NewBroker(), patch, uint32(sampleRate), logger)
	buffer := make([]float32, total)
	engine.NoteOn(o.note, o.velocity)
	engine.Render(buffer[:hold])
	engine.NoteOff(o.note)
	engine.Render(buffer[hold:])
	return buffer, nil
}

func runRender(c *cobra.Command, args []string) error {
	conf, err := loadConfig(c)
	if err != nil {
		return report(err)
	}
	patch, err := loadPatch(conf.Patch)
	if err != nil {
		return report(err)
	}
	buffer, err := renderNote(patch, conf.SampleRate, renderOpts)
	if err != nil {
		return report(err)
	}
	wav, err := termsynth.Wav(buffer, conf.SampleRate, !renderOpts.float)
	if err != nil {
		return report(fault.Wrap(err, fmsg.With("encoding wav")))
	}
	if err := os.WriteFile(renderOpts.out, wav, 0644); err != nil {
		return report(fault.Wrap(err, fmsg.WithDesc("writing wav", fmt.Sprintf("Could not write %s", renderOpts.out))))
	}
	fmt.Printf("wrote %s (%v at %d Hz)\n", renderOpts.out, renderOpts.length, conf.SampleRate)
	return nil
}
