package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"
	"github.com/vsariola/termsynth"
	"github.com/vsariola/termsynth/cmd"
	"github.com/vsariola/termsynth/oto"
	"github.com/vsariola/termsynth/synth"
	"github.com/vsariola/termsynth/tui"
	"github.com/vsariola/termsynth/version"
	"golang.org/x/term"
)

// keyReaderGrace is how long to wait for the keyboard reader to notice the
// end of the control loop.
const keyReaderGrace = 100 * time.Millisecond

var (
	configPath string
	save       bool
	overrides  cmd.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "termsynth",
	Short: "A monophonic synthesizer played from the terminal",
	Long: `termsynth is a subtractive synthesizer with three oscillators, two
envelopes, two LFOs, two filters and sixteen modulation slots.

Parameters are chosen by typing shortcuts: "o1l" selects the level of
oscillator 1, after which digits, Up and Down change it. Notes come from a
MIDI keyboard; the modulation wheel edits the selected value. Esc quits.`,
	Version:       version.VersionOrHash,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSynth,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(c *cobra.Command, args []string) {
		fmt.Println(version.VersionOrHash)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&configPath, "config", "c", "termsynth.yml", "Config file. It is optional unless given explicitly.")
	f.StringVarP(&overrides.Patch, "patch", "p", "", "Sound patch to load at start.")
	f.IntVarP(&overrides.SampleRate, "sample-rate", "r", 0, "Sample rate in Hz.")
	f.BoolVarP(&overrides.Debug, "debug", "d", false, "Log state changes and messages.")
	f.StringVar(&overrides.LogFile, "log-file", "", "File to write the log to.")
	rootCmd.Flags().StringVarP(&overrides.MidiInput, "midi-input", "m", "", "Open the first MIDI input whose name starts with this.")
	rootCmd.Flags().IntVarP(&overrides.BufferMs, "buffer", "b", 0, "Audio buffer length in milliseconds.")
	rootCmd.Flags().BoolVarP(&save, "save", "s", false, "Write the patch back to the --patch file on quit.")
	rootCmd.AddCommand(versionCmd, renderCmd)
}

// loadConfig reads the config file and applies the flags that were given.
func loadConfig(c *cobra.Command) (cmd.Config, error) {
	conf, err := cmd.LoadConfig(configPath, !c.Flags().Changed("config"))
	if err != nil {
		return conf, err
	}
	flags := c.Flags()
	if flags.Changed("patch") {
		conf.Patch = overrides.Patch
	}
	if flags.Changed("sample-rate") {
		conf.SampleRate = overrides.SampleRate
	}
	if flags.Changed("debug") {
		conf.Debug = overrides.Debug
	}
	if flags.Changed("log-file") {
		conf.LogFile = overrides.LogFile
	}
	if flags.Changed("midi-input") {
		conf.MidiInput = overrides.MidiInput
	}
	if flags.Changed("buffer") {
		conf.BufferMs = overrides.BufferMs
	}
	return conf, conf.Validate()
}

func loadPatch(path string) (*termsynth.SoundPatch, error) {
	patch := termsynth.NewSoundPatch()
	if path == "" {
		return patch, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && save {
			return patch, nil // created on quit
		}
		return nil, fault.Wrap(err, fmsg.With("opening patch"))
	}
	defer f.Close()
	if err := patch.Read(f); err != nil {
		return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("loading patch %s", path)))
	}
	return patch, nil
}

func savePatch(path string, patch *termsynth.SoundPatch) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap(err, fmsg.With("creating patch file"))
	}
	if err := patch.Write(f); err != nil {
		f.Close()
		return err
	}
	return fault.Wrap(f.Close(), fmsg.With("closing patch file"))
}

func runSynth(c *cobra.Command, args []string) error {
	conf, err := loadConfig(c)
	if err != nil {
		return report(err)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return report(errors.New("termsynth needs a terminal"))
	}
	if save && conf.Patch == "" {
		return report(errors.New("--save needs a patch file"))
	}
	logger, logCloser, err := cmd.NewLogger(conf)
	if err != nil {
		return report(err)
	}
	defer logCloser.Close()
	patch, err := loadPatch(conf.Patch)
	if err != nil {
		return report(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := termsynth.NewBroker()
	defer broker.Close()
	engine := synth.NewEngine(broker, patch, uint32(conf.SampleRate), logger)
	audio, err := oto.NewContext(conf.SampleRate, conf.BufferLength())
	if err != nil {
		return report(fault.Wrap(err, fmsg.With("opening audio output")))
	}
	defer audio.Close()
	if err := audio.Play(engine); err != nil {
		return report(err)
	}

	midiContext := cmd.NewMidiContext(broker, logger)
	defer midiContext.Close()
	if in, err := tui.OpenMIDIInput(midiContext, conf.MidiInput); err != nil {
		logger.Warn("no MIDI input", "err", err)
	} else {
		logger.Info("MIDI input opened", "name", in.String())
	}

	view := tui.NewView(os.Stdout)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		view.Resize(w, h)
	}
	ui := tui.NewTui(broker, patch, view, logger)

	keyCtx, stopKeys := context.WithCancel(ctx)
	keysDone := make(chan error, 1)
	go func() { keysDone <- tui.ReadKeys(keyCtx, broker, logger) }()

	runErr := ui.Run(ctx)
	stopKeys()
	select {
	case err := <-keysDone:
		if err != nil {
			logger.Warn("keyboard reader stopped", "err", err)
		}
	case <-time.After(keyReaderGrace):
	}
	fmt.Print("\x1b[H\x1b[2J")
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if runErr != nil {
		return report(runErr)
	}
	if err := audio.Err(); err != nil {
		logger.Error("audio output stopped", "err", err)
	}
	if save {
		if err := savePatch(conf.Patch, ui.Patch()); err != nil {
			return report(err)
		}
		logger.Info("patch saved", "file", conf.Patch)
	}
	return nil
}

// report prints err the way a user should read it and returns it.
func report(err error) error {
	msg := fmsg.GetIssue(err)
	if msg == "" {
		msg = err.Error()
	}
	fmt.Fprintf(os.Stderr, "termsynth: %s\n", msg)
	return err
}
