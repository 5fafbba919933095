package hyperliquid

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sonirico/vago/maps"
)

// ConnState is the lifecycle state of the websocket client.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateClosing
	// StateFailed is terminal: the reconnect budget is exhausted and
	// every stream has been failed with ErrReconnectFailed.
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	defaultPingInterval  = 50 * time.Second
	defaultMaxReconnects = 10
	defaultStreamBuffer  = 128
)

// WebsocketClient maintains one connection to the venue's websocket
// endpoint and keeps the registered subscriptions alive across drops.
// A single event-loop goroutine owns the connection; it is the only
// writer of frames.
type WebsocketClient struct {
	url    string
	logger *zerolog.Logger
	debug  bool

	pingInterval         time.Duration
	maxReconnectAttempts int
	streamBuffer         int

	state atomic.Int32

	mu      sync.Mutex
	started bool
	closed  bool
	connGen uint64         // bumped once per established connection
	subs    []Subscription // insertion order, replayed verbatim on reconnect
	subKeys map[string]struct{}
	nextID  uint64
	streams map[uint64]*MessageStream

	writeCh    chan wsWrite
	shutdownCh chan struct{}
	doneCh     chan struct{}
}

type wsWrite struct {
	payload map[string]any
	gen     uint64
	reply   chan error
}

// NewWebsocketClient prepares a client for the given endpoint. No
// connection is opened until the first Subscribe.
func NewWebsocketClient(url string, opts ...WsOpt) *WebsocketClient {
	if url == "" {
		url = MainnetWsURL
	}

	w := &WebsocketClient{
		url:                  url,
		pingInterval:         defaultPingInterval,
		maxReconnectAttempts: defaultMaxReconnects,
		streamBuffer:         defaultStreamBuffer,
		subKeys:              make(map[string]struct{}),
		streams:              make(map[uint64]*MessageStream),
		writeCh:              make(chan wsWrite),
		shutdownCh:           make(chan struct{}),
		doneCh:               make(chan struct{}),
	}

	for _, opt := range opts {
		opt.Apply(w)
	}

	return w
}

// State reports the current lifecycle state.
func (w *WebsocketClient) State() ConnState {
	return ConnState(w.state.Load())
}

// Subscriptions returns the registered subscriptions in insertion
// order, which is also the order they are replayed in after a
// reconnect.
func (w *WebsocketClient) Subscriptions() []Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	subs := make([]Subscription, len(w.subs))
	copy(subs, w.subs)
	return subs
}

// Subscribe registers a feed and returns a stream of messages. Every
// open stream observes all decoded traffic; the subscription identity
// is what the client replays after a reconnect. Subscribing to an
// already-registered identity fails with ErrSubscriptionExists.
func (w *WebsocketClient) Subscribe(ctx context.Context, sub Subscription) (*MessageStream, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClientClosed
	}
	if w.State() == StateFailed {
		w.mu.Unlock()
		return nil, ErrReconnectFailed
	}
	if _, dup := w.subKeys[sub.Key()]; dup {
		w.mu.Unlock()
		return nil, ErrSubscriptionExists
	}

	w.subKeys[sub.Key()] = struct{}{}
	w.subs = append(w.subs, sub)
	gen := w.connGen

	stream := newMessageStream(w, w.streamBuffer)
	stream.id = w.nextID
	w.nextID++
	w.streams[stream.id] = stream

	if !w.started {
		w.started = true
		go w.run()
	}
	w.mu.Unlock()

	// Only write when the link is up. A connecting or reconnecting loop
	// replays the registry, which now includes this subscription; the
	// generation captured at registration lets the event loop discard
	// this frame if a replay raced it onto a newer connection.
	if w.State() == StateConnected {
		if err := w.requestWrite(ctx, subscribePayload(sub, "subscribe"), gen); err != nil {
			w.logDebug().Err(err).Str("key", sub.Key()).Msg("subscribe frame deferred to replay")
		}
	}

	return stream, nil
}

// Unsubscribe removes a feed registration and tells the venue to stop
// sending it. Unknown identities fail with ErrSubscriptionNotFound.
func (w *WebsocketClient) Unsubscribe(ctx context.Context, sub Subscription) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClientClosed
	}
	if _, ok := w.subKeys[sub.Key()]; !ok {
		w.mu.Unlock()
		return ErrSubscriptionNotFound
	}
	delete(w.subKeys, sub.Key())
	for i, s := range w.subs {
		if s.Key() == sub.Key() {
			w.subs = append(w.subs[:i], w.subs[i+1:]...)
			break
		}
	}
	gen := w.connGen
	w.mu.Unlock()

	if w.State() == StateConnected {
		if err := w.requestWrite(ctx, subscribePayload(sub, "unsubscribe"), gen); err != nil {
			w.logDebug().Err(err).Str("key", sub.Key()).Msg("unsubscribe frame dropped")
		}
	}
	return nil
}

// Close shuts the client down: the connection is closed with a close
// frame and all streams are terminated without error.
func (w *WebsocketClient) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	w.mu.Unlock()

	close(w.shutdownCh)
	if started {
		<-w.doneCh
	}

	w.failStreams(nil)
	return nil
}

func subscribePayload(sub Subscription, method string) map[string]any {
	return map[string]any{
		"method":       method,
		"subscription": sub.payload(),
	}
}

// requestWrite hands a frame to the event loop and waits for the write
// result. The generation ties the frame to the connection it was meant
// for; the loop drops frames from older generations since the registry
// replay already covered them. Fails fast when the loop is shutting
// down or has failed.
func (w *WebsocketClient) requestWrite(ctx context.Context, payload map[string]any, gen uint64) error {
	req := wsWrite{payload: payload, gen: gen, reply: make(chan error, 1)}

	select {
	case w.writeCh <- req:
	case <-w.shutdownCh:
		return ErrClientClosed
	case <-w.doneCh:
		return ErrReconnectFailed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-w.doneCh:
		return ErrReconnectFailed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *WebsocketClient) detach(s *MessageStream) {
	w.mu.Lock()
	delete(w.streams, s.id)
	w.mu.Unlock()
}

func (w *WebsocketClient) broadcast(msg Message) {
	w.mu.Lock()
	streams := maps.Values(w.streams)
	w.mu.Unlock()

	for _, s := range streams {
		s.publish(msg)
	}
}

func (w *WebsocketClient) failStreams(err error) {
	w.mu.Lock()
	streams := maps.Values(w.streams)
	w.streams = make(map[uint64]*MessageStream)
	w.mu.Unlock()

	for _, s := range streams {
		s.fail(err)
	}
}

// run is the event loop. It owns the connection for its entire
// lifetime: connecting, heartbeating, writing subscription frames and
// reading until shutdown or reconnect exhaustion.
func (w *WebsocketClient) run() {
	defer close(w.doneCh)

	conn, gen, ok := w.connect()
	if !ok {
		return
	}

	for {
		conn, gen, ok = w.serve(conn, gen)
		if !ok {
			return
		}
	}
}

// connect dials until a connection is established or the attempt
// budget runs out, then replays the subscription registry in insertion
// order so the fresh session carries the same feeds as the old one.
// The generation bump and the registry snapshot happen under one lock
// acquisition: a subscription registered before the snapshot is covered
// by the replay and its own queued frame carries an older generation.
func (w *WebsocketClient) connect() (*websocket.Conn, uint64, bool) {
	w.state.Store(int32(StateConnecting))

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = 60 * time.Second

	for attempt := 0; attempt < w.maxReconnectAttempts; attempt++ {
		conn, _, err := websocket.DefaultDialer.Dial(w.url, nil)
		if err == nil {
			w.mu.Lock()
			w.connGen++
			gen := w.connGen
			subs := make([]Subscription, len(w.subs))
			copy(subs, w.subs)
			w.mu.Unlock()

			w.state.Store(int32(StateConnected))
			w.replaySubscriptions(conn, subs)
			return conn, gen, true
		}

		w.logErr().Err(err).Int("attempt", attempt+1).Msg("websocket dial failed")

		select {
		case <-time.After(bo.NextBackOff()):
		case <-w.shutdownCh:
			w.state.Store(int32(StateDisconnected))
			return nil, 0, false
		}
	}

	w.logErr().Int("attempts", w.maxReconnectAttempts).Msg("reconnect budget exhausted")
	w.state.Store(int32(StateFailed))
	w.failStreams(ErrReconnectFailed)
	return nil, 0, false
}

// replaySubscriptions re-sends the snapshotted subscriptions in
// insertion order on a fresh connection.
func (w *WebsocketClient) replaySubscriptions(conn *websocket.Conn, subs []Subscription) {
	for _, sub := range subs {
		if err := w.writeJSON(conn, subscribePayload(sub, "subscribe")); err != nil {
			w.logErr().Err(err).Str("key", sub.Key()).Msg("subscription replay failed")
			return
		}
		w.logDebug().Str("key", sub.Key()).Msg("subscription replayed")
	}
}

// serve pumps one connection until it drops or the client shuts down.
// It returns the next connection to serve, or false when the loop must
// exit.
func (w *WebsocketClient) serve(conn *websocket.Conn, gen uint64) (*websocket.Conn, uint64, bool) {
	frames := make(chan []byte)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go readPump(conn, frames, readErr, stop)

	ping := time.NewTimer(w.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-w.shutdownCh:
			w.state.Store(int32(StateClosing))
			deadline := time.Now().Add(time.Second)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), deadline)
			_ = conn.Close()
			w.state.Store(int32(StateDisconnected))
			return nil, 0, false

		case <-ping.C:
			if err := w.writeJSON(conn, map[string]any{"method": "ping"}); err != nil {
				w.logErr().Err(err).Msg("heartbeat write failed")
				return w.dropAndReconnect(conn)
			}
			ping.Reset(w.pingInterval)

		case req := <-w.writeCh:
			if req.gen != gen {
				// Queued before the last drop; the registry replay on
				// this connection already covered it.
				w.logDebug().Msg("dropping stale subscription frame")
				req.reply <- nil
				continue
			}
			req.reply <- w.writeJSON(conn, req.payload)

		case frame := <-frames:
			// Any inbound traffic proves the link is alive.
			if !ping.Stop() {
				select {
				case <-ping.C:
				default:
				}
			}
			ping.Reset(w.pingInterval)

			msg, err := decodeMessage(frame)
			if err != nil {
				w.logErr().Err(err).Msg("dropping undecodable frame")
				continue
			}
			w.broadcast(msg)

		case err := <-readErr:
			w.logErr().Err(err).Msg("websocket read failed")
			return w.dropAndReconnect(conn)
		}
	}
}

// dropAndReconnect publishes the NoData gap marker exactly once for
// this drop, then dials a replacement connection.
func (w *WebsocketClient) dropAndReconnect(conn *websocket.Conn) (*websocket.Conn, uint64, bool) {
	_ = conn.Close()
	w.broadcast(NoData{})
	return w.connect()
}

func (w *WebsocketClient) writeJSON(conn *websocket.Conn, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// readPump drains one connection into frames until it errors or stop
// closes. It never outlives its connection: serve closes stop before
// returning, so a stale pump cannot publish into a fresh session.
func readPump(conn *websocket.Conn, frames chan<- []byte, readErr chan<- error, stop <-chan struct{}) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case readErr <- err:
			case <-stop:
			}
			return
		}

		select {
		case frames <- data:
		case <-stop:
			return
		}
	}
}

var nopLogger = zerolog.Nop()

func (w *WebsocketClient) logErr() *zerolog.Event {
	if w.logger == nil {
		return nopLogger.Error()
	}
	return w.logger.Error()
}

func (w *WebsocketClient) logDebug() *zerolog.Event {
	if w.logger == nil {
		return nopLogger.Debug()
	}
	return w.logger.Debug()
}
