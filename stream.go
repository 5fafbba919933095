package hyperliquid

import "sync"

// MessageStream is one consumer's view of the websocket feed. Every
// decoded message is fanned out to every open stream; a stream that
// stops draining loses its oldest buffered messages, never the
// connection.
type MessageStream struct {
	id     uint64
	c      chan Message
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	err    error
	client *WebsocketClient
}

func newMessageStream(client *WebsocketClient, buffer int) *MessageStream {
	return &MessageStream{
		c:      make(chan Message, buffer),
		done:   make(chan struct{}),
		client: client,
	}
}

// C delivers decoded messages. The channel is never closed; select on
// Done to observe termination.
func (s *MessageStream) C() <-chan Message {
	return s.c
}

// Done is closed when the stream will receive no further messages,
// either because it was closed or because the client failed.
func (s *MessageStream) Done() <-chan struct{} {
	return s.done
}

// Err reports why the stream terminated. It is nil after a plain Close
// and non-nil (e.g. ErrReconnectFailed) after a client failure.
func (s *MessageStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close detaches the stream from the client. Buffered messages remain
// readable from C.
func (s *MessageStream) Close() {
	s.client.detach(s)
	s.fail(nil)
}

// publish enqueues without ever blocking the caller: when the buffer is
// full the oldest entry is evicted to make room.
func (s *MessageStream) publish(msg Message) {
	for {
		select {
		case <-s.done:
			return
		case s.c <- msg:
			return
		default:
		}

		select {
		case <-s.c:
		default:
		}
	}
}

func (s *MessageStream) fail(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}
