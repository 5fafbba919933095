package hyperliquid

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const exchangePath = "/exchange"

// Exchange signs and submits trade actions. All actions signed by one
// Exchange share a NonceClock, so their nonces are strictly increasing
// regardless of which goroutine submits them.
type Exchange struct {
	debug        bool
	isMainnet    bool
	client       *Client
	privateKey   *ecdsa.PrivateKey
	vault        string
	accountAddr  string
	info         *Info
	nonces       *NonceClock
	expiresAfter *int64

	clientOpts []ClientOpt
	infoOpts   []InfoOpt
}

// NewExchange builds an exchange client. vaultAddr is the vault or
// sub-account traded on behalf of, empty when trading the key's own
// account; meta and spotMeta may be nil to fetch the universes from the
// endpoint.
func NewExchange(
	ctx context.Context,
	privateKey *ecdsa.PrivateKey,
	baseURL string,
	meta *Meta,
	spotMeta *SpotMeta,
	vaultAddr, accountAddr string,
	opts ...ExchangeOpt,
) (*Exchange, error) {
	ex := &Exchange{
		privateKey:  privateKey,
		vault:       vaultAddr,
		accountAddr: accountAddr,
		nonces:      NewNonceClock(),
	}

	for _, opt := range opts {
		opt.Apply(ex)
	}

	if ex.debug {
		ex.clientOpts = append(ex.clientOpts, ClientOptDebugMode())
		ex.infoOpts = append(ex.infoOpts, InfoOptDebugMode())
	}

	ex.isMainnet = baseURL != TestnetAPIURL
	ex.client = NewClient(baseURL, ex.clientOpts...)

	info, err := NewInfo(ctx, baseURL, meta, spotMeta, ex.infoOpts...)
	if err != nil {
		return nil, err
	}
	ex.info = info

	return ex, nil
}

func (e *Exchange) Info() *Info {
	return e.info
}

func (e *Exchange) Client() *Client {
	return e.client
}

// SetExpiresAfter attaches an expiry (unix ms) to subsequent actions.
// Pass nil to stop attaching one.
func (e *Exchange) SetExpiresAfter(expiresAfter *int64) {
	e.expiresAfter = expiresAfter
}

// ResumeNonce restores the nonce counter from persisted state.
func (e *Exchange) ResumeNonce(n int64) {
	e.nonces.Resume(n)
}

// executeAction signs an action through the phantom-agent protocol,
// posts it and decodes the response into result.
func (e *Exchange) executeAction(ctx context.Context, action, result any) error {
	nonce := e.nonces.Next()

	sig, err := SignL1Action(
		e.privateKey,
		action,
		e.vault,
		nonce,
		e.expiresAfter,
		e.isMainnet,
	)
	if err != nil {
		return err
	}

	return e.postAction(ctx, action, sig, nonce, result)
}

// executeUserSignedAction signs an action in the typed-data protocol.
// The nonce doubles as the action's own time/nonce field, so the caller
// builds the action from the returned clock value.
func (e *Exchange) executeUserSignedAction(
	ctx context.Context,
	action map[string]any,
	payloadTypes []apitypes.Type,
	primaryType string,
	nonce int64,
	result any,
) error {
	sig, err := SignUserSignedAction(e.privateKey, action, payloadTypes, primaryType, e.isMainnet)
	if err != nil {
		return err
	}

	return e.postAction(ctx, action, sig, nonce, result)
}

func (e *Exchange) postAction(
	ctx context.Context,
	action any,
	signature Signature,
	nonce int64,
	result any,
) error {
	payload := map[string]any{
		"action":    action,
		"nonce":     nonce,
		"signature": signature,
	}

	if e.vault != "" {
		// usdClassTransfer carries the sub-account inside the action
		// itself; a top-level vault address would be rejected.
		if actionMap, ok := action.(map[string]any); ok && actionMap["type"] == "usdClassTransfer" {
			payload["vaultAddress"] = nil
		} else {
			payload["vaultAddress"] = e.vault
		}
	}

	if e.expiresAfter != nil {
		payload["expiresAfter"] = *e.expiresAfter
	}

	resp, err := e.client.post(ctx, exchangePath, payload)
	if err != nil {
		return err
	}

	if result == nil {
		return nil
	}
	return json.Unmarshal(resp, result)
}
