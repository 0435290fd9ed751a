package termsynth

type (
	// AudioSource produces mono samples. The audio output calls ReadAudio
	// from its own goroutine whenever it needs more data; an error stops the
	// output.
	AudioSource interface {
		ReadAudio(buffer []float32) error
	}

	// AudioContext is an opened audio output device.
	AudioContext interface {
		Play(source AudioSource) error
		SampleRate() int
		Close() error
	}
)
