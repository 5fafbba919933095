// Package hyperliquid is a client for the Hyperliquid exchange: signed
// trade actions over the REST exchange endpoint, market and account
// queries over the info endpoint, and a self-healing websocket layer
// for streaming subscriptions.
package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	MainnetAPIURL = "https://api.hyperliquid.xyz"
	TestnetAPIURL = "https://api.hyperliquid-testnet.xyz"
	LocalAPIURL   = "http://localhost:3001"

	MainnetWsURL = "wss://api.hyperliquid.xyz/ws"
	TestnetWsURL = "wss://api.hyperliquid-testnet.xyz/ws"
)

// Client is the shared HTTP transport for the exchange and info
// endpoints. It classifies failures but never retries; retrying a
// signed action would burn its nonce.
type Client struct {
	logger     *zerolog.Logger
	debug      bool
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, opts ...ClientOpt) *Client {
	if baseURL == "" {
		baseURL = MainnetAPIURL
	}

	cli := &Client{
		baseURL:    baseURL,
		httpClient: new(http.Client),
	}

	for _, opt := range opts {
		opt.Apply(cli)
	}

	return cli
}

// IsMainnet reports whether the client targets the production network.
func (c *Client) IsMainnet() bool {
	return c.baseURL != TestnetAPIURL
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.debug {
		c.logger.Debug().
			Str("url", url).
			RawJSON("body", body).
			Msg("http request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.debug {
		c.logger.Debug().
			Str("status", resp.Status).
			Bytes("body", respBody).
			Msg("http response")
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, ServerError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, parseClientError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// parseClientError decodes a 4xx body. The venue usually reports these
// as {"data": ..., "code": ..., "msg": ...}; anything else is carried
// through verbatim as the message.
func parseClientError(statusCode int, body []byte) error {
	apiErr := APIError{StatusCode: statusCode}
	if json.Valid(body) && json.Unmarshal(body, &apiErr) == nil &&
		(apiErr.Message != "" || apiErr.Code != nil) {
		return apiErr
	}
	return APIError{
		StatusCode: statusCode,
		Message:    string(body),
	}
}
