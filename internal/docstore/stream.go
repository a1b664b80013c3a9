package docstore

import "sync"

// streamBuffer is the per-subscriber queue depth. When a slow consumer
// falls behind, older unread snapshots are dropped in favor of newer ones;
// every emission is a full replacement, so skipping intermediates is safe
// and order is still preserved.
const streamBuffer = 16

// Stream is a cancellable subscription handle. T is Snapshot for a
// single-document watch or ListSnapshot for a collection watch.
//
// Consumers range over Updates and select on Errs. After Cancel (or after
// an error is surfaced) no further updates arrive and Updates is closed.
type Stream[T any] struct {
	updates chan T
	errs    chan error
	done    chan struct{}

	cancelOnce sync.Once
	onCancel   func()

	mu     sync.Mutex
	closed bool
}

// NewStream builds a stream handle. onCancel releases the producer-side
// watch resource (deregistering from the store, closing a pub/sub
// connection); it runs exactly once no matter how many times Cancel is
// called.
func NewStream[T any](onCancel func()) *Stream[T] {
	return &Stream[T]{
		updates:  make(chan T, streamBuffer),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
		onCancel: onCancel,
	}
}

// Updates is the snapshot channel. It is closed once the stream is
// cancelled or failed.
func (s *Stream[T]) Updates() <-chan T { return s.updates }

// Errs surfaces at most one transport error. The stream does not retry;
// reconnecting is the consumer's policy.
func (s *Stream[T]) Errs() <-chan error { return s.errs }

// Done is closed when the stream is cancelled or failed.
func (s *Stream[T]) Done() <-chan struct{} { return s.done }

// Publish delivers a snapshot. If the consumer's buffer is full the oldest
// unread snapshot is dropped to make room — never the newest. Publishing
// to a cancelled stream is a no-op.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.updates <- v:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Fail surfaces a transport error and terminates the stream. Only the
// first error wins.
func (s *Stream[T]) Fail(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	select {
	case s.errs <- err:
	default:
	}
	s.mu.Unlock()
	s.Cancel()
}

// Cancel stops further emissions and releases the server-side watch.
// Safe to call any number of times, from any goroutine.
func (s *Stream[T]) Cancel() {
	s.cancelOnce.Do(func() {
		if s.onCancel != nil {
			s.onCancel()
		}
		s.mu.Lock()
		s.closed = true
		close(s.updates)
		close(s.done)
		s.mu.Unlock()
	})
}
