package hyperliquid

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Opt is a functional option for T.
type Opt[T any] func(*T)

func (o Opt[T]) Apply(opt *T) {
	o(opt)
}

type (
	ClientOpt   = Opt[Client]
	ExchangeOpt = Opt[Exchange]
	InfoOpt     = Opt[Info]
	WsOpt       = Opt[WebsocketClient]
	NonceOpt    = Opt[NonceClock]
)

func ClientOptDebugMode() ClientOpt {
	return func(c *Client) {
		c.debug = true
		c.logger = &log.Logger
	}
}

func ClientOptLogger(logger *zerolog.Logger) ClientOpt {
	return func(c *Client) {
		c.logger = logger
	}
}

func InfoOptDebugMode() InfoOpt {
	return func(i *Info) {
		i.debug = true
	}
}

// InfoOptClientOptions forwards ClientOpt to the underlying transport.
func InfoOptClientOptions(opts ...ClientOpt) InfoOpt {
	return func(i *Info) {
		i.clientOpts = append(i.clientOpts, opts...)
	}
}

func ExchangeOptDebugMode() ExchangeOpt {
	return func(e *Exchange) {
		e.debug = true
	}
}

// ExchangeOptClientOptions forwards ClientOpt to the underlying transport.
func ExchangeOptClientOptions(opts ...ClientOpt) ExchangeOpt {
	return func(e *Exchange) {
		e.clientOpts = append(e.clientOpts, opts...)
	}
}

// ExchangeOptInfoOptions forwards InfoOpt to the embedded Info client.
func ExchangeOptInfoOptions(opts ...InfoOpt) ExchangeOpt {
	return func(e *Exchange) {
		e.infoOpts = append(e.infoOpts, opts...)
	}
}

func NonceOptLogger(logger *zerolog.Logger) NonceOpt {
	return func(c *NonceClock) {
		c.logger = logger
	}
}

func WsOptDebugMode() WsOpt {
	return func(w *WebsocketClient) {
		w.debug = true
		w.logger = &log.Logger
	}
}

func WsOptLogger(logger *zerolog.Logger) WsOpt {
	return func(w *WebsocketClient) {
		w.logger = logger
	}
}

// WsOptPingInterval overrides how often the client pings an idle
// connection.
func WsOptPingInterval(d time.Duration) WsOpt {
	return func(w *WebsocketClient) {
		w.pingInterval = d
	}
}

// WsOptMaxReconnectAttempts bounds the consecutive reconnection
// attempts before the client gives up and fails its streams.
func WsOptMaxReconnectAttempts(n int) WsOpt {
	return func(w *WebsocketClient) {
		w.maxReconnectAttempts = n
	}
}

// WsOptStreamBuffer sets the per-stream channel capacity. When a
// consumer lags past it, the oldest buffered message is dropped.
func WsOptStreamBuffer(n int) WsOpt {
	return func(w *WebsocketClient) {
		w.streamBuffer = n
	}
}
