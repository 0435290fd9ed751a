package termsynth

import (
	"context"
	"errors"
	"sync"
)

type (
	// Broker connects the control thread and the audio engine. ToEngine
	// carries SynthMessages, ToUI carries UiMessages from the engine, the MIDI
	// input and the keyboard reader. Both mailboxes are unbounded so that a
	// sender never blocks; the engine in particular must never wait for the
	// control thread.
	//
	// FinishedUI is closed by the control loop when it returns. Nothing is
	// ever sent to it; wait on it with "<-FinishedUI".
	//
	// The broker also pools preview buffers: the engine takes one with
	// GetSampleBuffer, and the control thread returns the previous one with
	// PutSampleBuffer when a new preview arrives.
	Broker struct {
		ToEngine *Mailbox[SynthMessage]
		ToUI     *Mailbox[UiMessage]

		FinishedUI chan struct{}

		bufferPool sync.Pool
	}

	// Mailbox is an unbounded FIFO queue with any number of senders and one
	// receiver.
	Mailbox[T any] struct {
		mu     sync.Mutex
		queue  []T
		ready  chan struct{}
		closed bool
	}
)

// ErrMailboxClosed is returned by Send after the mailbox has been closed. A
// loop that gets it should stop, as the other side is gone.
var ErrMailboxClosed = errors.New("mailbox closed")

func NewBroker() *Broker {
	return &Broker{
		ToEngine:   NewMailbox[SynthMessage](),
		ToUI:       NewMailbox[UiMessage](),
		FinishedUI: make(chan struct{}),
		bufferPool: sync.Pool{New: func() any { return &[]float32{} }},
	}
}

// Close closes both mailboxes. Messages already queued can still be
// received.
func (b *Broker) Close() {
	b.ToEngine.Close()
	b.ToUI.Close()
}

// GetSampleBuffer returns an empty buffer from the pool.
func (b *Broker) GetSampleBuffer() *[]float32 {
	return b.bufferPool.Get().(*[]float32)
}

// PutSampleBuffer returns a buffer to the pool. Its length is reset, its
// capacity kept.
func (b *Broker) PutSampleBuffer(buf *[]float32) {
	if buf == nil {
		return
	}
	*buf = (*buf)[:0]
	b.bufferPool.Put(buf)
}

func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{}, 1)}
}

// Send appends v to the queue. It never blocks.
func (m *Mailbox[T]) Send(v T) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMailboxClosed
	}
	m.queue = append(m.queue, v)
	m.mu.Unlock()
	m.signal()
	return nil
}

// TryReceive pops the oldest message without blocking. ok is false if the
// queue is empty.
func (m *Mailbox[T]) TryReceive() (v T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pop()
}

// Receive blocks until a message is available, the mailbox is closed and
// drained, or ctx is done. ok is false in the latter two cases.
func (m *Mailbox[T]) Receive(ctx context.Context) (v T, ok bool) {
	for {
		m.mu.Lock()
		v, ok = m.pop()
		closed := m.closed
		m.mu.Unlock()
		if ok || closed {
			return v, ok
		}
		select {
		case <-m.ready:
		case <-ctx.Done():
			return v, false
		}
	}
}

// Close makes further sends fail and wakes up a blocked receiver.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()
}

// Len returns the number of queued messages.
func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *Mailbox[T]) pop() (v T, ok bool) {
	if len(m.queue) == 0 {
		return v, false
	}
	v = m.queue[0]
	var zero T
	m.queue[0] = zero
	m.queue = m.queue[1:]
	if len(m.queue) == 0 {
		m.queue = nil
	}
	return v, true
}

func (m *Mailbox[T]) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}
