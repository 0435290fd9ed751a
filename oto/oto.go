// Package oto plays an AudioSource on the default audio device.
package oto

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/termsynth"
)

type (
	// OtoContext is a mono 16-bit output. Only one source plays at a time.
	OtoContext struct {
		context    *oto.Context
		sampleRate int
		bufferSize int // in bytes

		mu     sync.Mutex
		player *oto.Player
	}

	// sourceReader pulls samples from an AudioSource whenever the device
	// needs them.
	sourceReader struct {
		source termsynth.AudioSource
		floats []float32
	}
)

const bytesPerSample = 2

// NewContext opens the audio device. bufferLength is the latency of the
// output buffer.
func NewContext(sampleRate int, bufferLength time.Duration) (*OtoContext, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferLength,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	samples := int(bufferLength.Seconds() * float64(sampleRate))
	return &OtoContext{context: context, sampleRate: sampleRate, bufferSize: samples * bytesPerSample}, nil
}

func (c *OtoContext) SampleRate() int { return c.sampleRate }

// Play starts pulling audio from source, replacing the previous one.
func (c *OtoContext) Play(source termsynth.AudioSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player != nil {
		c.player.Pause()
	}
	c.player = c.context.NewPlayer(&sourceReader{source: source})
	if c.bufferSize > 0 {
		c.player.SetBufferSize(c.bufferSize)
	}
	c.player.Play()
	return nil
}

// Err returns the error that stopped the playing source, if any.
func (c *OtoContext) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player == nil {
		return nil
	}
	return c.player.Err()
}

// Close stops playback.
func (c *OtoContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player == nil {
		return nil
	}
	c.player.Pause()
	err := c.player.Err()
	c.player = nil
	if err != nil {
		return fmt.Errorf("oto player stopped: %w", err)
	}
	return nil
}

func (r *sourceReader) Read(p []byte) (int, error) {
	n := len(p) / bytesPerSample
	if cap(r.floats) < n {
		r.floats = make([]float32, n)
	}
	r.floats = r.floats[:n]
	if err := r.source.ReadAudio(r.floats); err != nil {
		return 0, err
	}
	return len(FloatBufferTo16BitLE(r.floats, p[:0])), nil
}
