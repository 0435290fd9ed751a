// Package cmd holds the bootstrap shared by the termsynth commands: the
// config file, logging and the MIDI context.
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"gopkg.in/yaml.v3"
)

// Config is the contents of the YAML config file. Command line flags
// override it.
type Config struct {
	SampleRate int    `yaml:"sample_rate"`
	BufferMs   int    `yaml:"buffer_ms"`
	MidiInput  string `yaml:"midi_input"` // name prefix of the MIDI input to open
	Patch      string `yaml:"patch"`
	LogFile    string `yaml:"log_file"`
	Debug      bool   `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		BufferMs:   20,
		LogFile:    "termsynth.log",
	}
}

// LoadConfig reads a config file on top of the defaults. A missing file is
// not an error when optional is set.
func LoadConfig(path string, optional bool) (Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fault.Wrap(err, fmsg.With("reading config"))
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fault.Wrap(err, fmsg.WithDesc("parsing config", fmt.Sprintf("The config file %s is not valid", path)))
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fault.New(fmt.Sprintf("invalid sample rate %d", c.SampleRate))
	}
	if c.BufferMs <= 0 {
		return fault.New(fmt.Sprintf("invalid buffer length %d ms", c.BufferMs))
	}
	return nil
}

func (c Config) BufferLength() time.Duration {
	return time.Duration(c.BufferMs) * time.Millisecond
}

// NewLogger opens the log file of the config. The terminal is in raw mode
// while the synthesizer runs, so without a log file nothing is logged.
func NewLogger(c Config) (*slog.Logger, io.Closer, error) {
	if c.LogFile == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fault.Wrap(err, fmsg.With("opening log file"))
	}
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(h), f, nil
}
