package tui

// RingBuffer keeps the latest len(Buffer) values. Cursor points to the most
// recent one.
type RingBuffer[T any] struct {
	Buffer []T
	Cursor int
}

func (r *RingBuffer[T]) WriteWrapSingle(value T) {
	r.Cursor = (r.Cursor + 1) % len(r.Buffer)
	r.Buffer[r.Cursor] = value
}

// Ordered returns the values oldest first.
func (r *RingBuffer[T]) Ordered() []T {
	ret := make([]T, 0, len(r.Buffer))
	ret = append(ret, r.Buffer[r.Cursor+1:]...)
	return append(ret, r.Buffer[:r.Cursor+1]...)
}
