package hyperliquid

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client. Callers can branch on these
// with errors.Is.
var (
	// ErrAssetNotFound is returned when a coin name cannot be resolved
	// to an asset index.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrVaultAddressNotFound is returned by vault operations when the
	// exchange was built without a vault address.
	ErrVaultAddressNotFound = errors.New("vault address not found")

	// ErrSubscriptionNotFound is returned by Unsubscribe when no active
	// subscription matches the given identity.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrSubscriptionExists is returned by Subscribe when a subscription
	// with the same identity is already active.
	ErrSubscriptionExists = errors.New("subscription already exists")

	// ErrReconnectFailed is published to streams after the websocket
	// client exhausts its reconnection budget.
	ErrReconnectFailed = errors.New("websocket reconnect attempts exhausted")

	// ErrClientClosed is returned when an operation is attempted on a
	// websocket client that has been closed.
	ErrClientClosed = errors.New("websocket client closed")
)

// APIError is a 4xx response from the exchange endpoint. The venue
// reports these as a JSON object with optional machine-readable code.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       *int64 `json:"code"`
	Message    string `json:"msg"`
	Data       string `json:"data"`
}

func (e APIError) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("client error (%d): code=%d %s", e.StatusCode, *e.Code, e.Message)
	}
	return fmt.Sprintf("client error (%d): %s", e.StatusCode, e.Message)
}

// ServerError is a 5xx response. The body is opaque text; retrying is
// the caller's decision, the client never retries on its own.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}
