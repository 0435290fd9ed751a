package synth

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/termsynth"
)

type (
	// Engine is the audio thread's synthesizer: one monophonic voice made of
	// three oscillators through two serial filters, shaped by envelope 1 and
	// the amp. Envelope 2 and the LFOs only act as modulation sources.
	//
	// The engine keeps its own copy of the sound patch, updated by ParamMsgs
	// from the control thread. It never blocks on the control thread: the
	// inbox is drained without waiting at the start of every buffer and
	// replies are only enqueued.
	Engine struct {
		sampleRate uint32
		clock      uint64

		patch     *termsynth.SoundPatch
		settings  settings
		scratch   settings // settings with modulation applied, valid during one sample
		modActive bool

		osc    [NumOscillators]*Oscillator
		env    [NumEnvelopes]*Envelope
		lfo    [NumLfos]*Oscillator
		filter [NumFilters]*Filter

		sources sourceValues

		notes     []uint8 // held notes, last pressed last
		frequency float64
		velocity  float64

		lastDone time.Time

		broker *termsynth.Broker
		logger *slog.Logger
	}

	// sourceValues are the outputs of the modulation sources at the previous
	// sample.
	sourceValues struct {
		osc [NumOscillators]float64
		env [NumEnvelopes]float64
		lfo [NumLfos]float64
	}
)

// PreviewLength is the number of points in a preview buffer.
const PreviewLength = 100

// NewEngine returns an engine playing patch. The patch is copied; later
// changes reach the engine only through the broker.
func NewEngine(broker *termsynth.Broker, patch *termsynth.SoundPatch, sampleRate uint32, logger *slog.Logger) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		patch:      patch.Copy(),
		frequency:  middleCFrequency,
		velocity:   1,
		broker:     broker,
		logger:     logger,
	}
	for i := range e.osc {
		e.osc[i] = NewOscillator(sampleRate)
	}
	for i := range e.env {
		e.env[i] = NewEnvelope(sampleRate)
	}
	for i := range e.lfo {
		e.lfo[i] = NewOscillator(sampleRate)
	}
	for i := range e.filter {
		e.filter[i] = NewFilter(sampleRate)
	}
	e.settings = newSettings(e.patch)
	e.modActive = e.settings.modulated()
	return e
}

func (e *Engine) SampleRate() uint32 { return e.sampleRate }

// Clock returns the number of samples rendered so far.
func (e *Engine) Clock() uint64 { return e.clock }

// ReadAudio is called by the audio output. It handles the pending messages,
// renders the buffer and reports the timing to the control thread. A failed
// send means the control thread is gone and stops the output.
func (e *Engine) ReadAudio(buffer []float32) error {
	start := time.Now()
	var idle time.Duration
	if !e.lastDone.IsZero() {
		idle = start.Sub(e.lastDone)
	}
	if err := e.processMessages(); err != nil {
		return err
	}
	e.Render(buffer)
	e.lastDone = time.Now()
	if err := e.broker.ToUI.Send(termsynth.EngineSyncMsg{Idle: idle, Busy: e.lastDone.Sub(start)}); err != nil {
		return fmt.Errorf("engine sync: %w", err)
	}
	return nil
}

// Render fills buffer with the next samples.
func (e *Engine) Render(buffer []float32) {
	for i := range buffer {
		s := &e.settings
		if e.modActive {
			e.scratch = e.settings
			e.applyModulation(&e.scratch)
			s = &e.scratch
		}
		buffer[i] = float32(e.sample(s))
		e.clock++
	}
	vek32.MulNumber_Inplace(buffer, float32(e.velocity))
}

// NoteOn starts a note. The voice is monophonic with last note priority; a
// velocity of zero releases the note.
func (e *Engine) NoteOn(note, velocity uint8) {
	if velocity == 0 {
		e.NoteOff(note)
		return
	}
	e.notes = append(slices.DeleteFunc(e.notes, func(n uint8) bool { return n == note }), note)
	e.frequency = noteFrequency(note)
	e.velocity = float64(velocity) / 127
	for _, env := range e.env {
		env.Trigger(e.clock)
	}
}

func (e *Engine) NoteOff(note uint8) {
	e.notes = slices.DeleteFunc(e.notes, func(n uint8) bool { return n == note })
	if len(e.notes) > 0 {
		e.frequency = noteFrequency(e.notes[len(e.notes)-1])
		return
	}
	for _, env := range e.env {
		env.ReleaseAt(e.clock)
	}
}

func (e *Engine) processMessages() error {
	for {
		msg, ok := e.broker.ToEngine.TryReceive()
		if !ok {
			return nil
		}
		switch m := msg.(type) {
		case termsynth.ParamMsg:
			e.patch.SetParameter(m.Param)
			e.settings.set(m.Param)
			e.modActive = e.settings.modulated()
		case termsynth.ParamQueryMsg:
			reply := m.Param
			reply.Value = e.patch.GetValue(m.Param)
			if err := e.broker.ToUI.Send(termsynth.ParamMsg{Param: reply}); err != nil {
				return fmt.Errorf("param query reply: %w", err)
			}
		case termsynth.SampleBufferRequest:
			buf := e.broker.GetSampleBuffer()
			*buf = e.Preview(m.Param, *buf)
			if err := e.broker.ToUI.Send(termsynth.SampleBufferMsg{Samples: *buf, Param: m.Param}); err != nil {
				return fmt.Errorf("sample buffer reply: %w", err)
			}
		case termsynth.NoteOnMsg:
			e.NoteOn(m.Note, m.Velocity)
		case termsynth.NoteOffMsg:
			e.NoteOff(m.Note)
		default:
			e.logger.Debug("engine: unhandled message", "type", fmt.Sprintf("%T", msg))
		}
	}
}

func (e *Engine) sample(s *settings) float64 {
	for i, l := range e.lfo {
		st := &s.lfo[i]
		l.Waveform, l.Phase = st.waveform, st.phase
		e.sources.lfo[i] = l.GetSample(st.frequency, e.clock)
	}
	for i, env := range e.env {
		configureEnvelope(env, &s.env[i])
		e.sources.env[i] = env.GetSample(0, e.clock)
	}
	var mix float64
	for i, o := range e.osc {
		st := &s.osc[i]
		configureOscillator(o, st)
		freq := st.frequency * middleCFrequency
		if st.keyFollow {
			freq = st.frequency * e.frequency
		}
		out := o.GetSample(freq, e.clock)
		e.sources.osc[i] = out
		mix += out * st.level / 100
	}
	for i, f := range e.filter {
		st := &s.filter[i]
		f.Type, f.Cutoff, f.Resonance = st.kind, st.cutoff, st.resonance
		mix = f.Process(mix)
	}
	return mix * e.sources.env[0] * s.volume / 100
}

// applyModulation adds amount*source*(max-min) of every active slot to its
// target, clamped to the target's range. Sources are taken from the previous
// sample.
func (e *Engine) applyModulation(s *settings) {
	for i := range e.settings.mods {
		m := &e.settings.mods[i]
		if !m.active || m.max <= m.min {
			continue
		}
		f := s.float(m.target.ID())
		if f == nil {
			continue
		}
		*f = math.Min(math.Max(*f+m.amount*e.source(m.source)*(m.max-m.min), m.min), m.max)
	}
}

func (e *Engine) source(r termsynth.ParamRef) float64 {
	i := r.FunctionInstance - 1
	switch r.Function {
	case termsynth.Oscillator:
		if i >= 0 && i < NumOscillators {
			return e.sources.osc[i]
		}
	case termsynth.Envelope:
		if i >= 0 && i < NumEnvelopes {
			return e.sources.env[i]
		}
	case termsynth.Lfo:
		if i >= 0 && i < NumLfos {
			return e.sources.lfo[i]
		}
	}
	return 0
}

func configureOscillator(o *Oscillator, st *oscSettings) {
	o.Waveform, o.Phase, o.Voices, o.Spread = st.waveform, st.phase, st.voices, st.spread
}

func configureEnvelope(env *Envelope, st *envSettings) {
	env.Attack, env.Decay, env.Sustain, env.Release, env.Factor = st.attack, st.decay, st.sustain, st.release, st.factor
}

func noteFrequency(note uint8) float64 {
	return 440 * math.Exp2((float64(note)-69)/12)
}
